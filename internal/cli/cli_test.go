package cli

import (
	"bytes"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConfigCmd_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	out, err := runCmd(t, "config", "audio.format", "mp3")
	if err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if !strings.Contains(out, "audio.format = mp3") {
		t.Fatalf("set output = %q", out)
	}

	out, err = runCmd(t, "config", "audio.format")
	if err != nil {
		t.Fatalf("config get error: %v", err)
	}
	if strings.TrimSpace(out) != "mp3" {
		t.Fatalf("get output = %q", out)
	}
}

func TestConfigCmd_UnsetKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	out, err := runCmd(t, "config", "output.default_path")
	if err != nil {
		t.Fatalf("config get error: %v", err)
	}
	if !strings.Contains(out, "not set") {
		t.Fatalf("get output = %q", out)
	}
}

func TestConfigCmd_RejectsUnknownKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := runCmd(t, "config", "video.codec", "av1"); err == nil {
		t.Fatal("unknown key accepted")
	}
}

func TestDownloadCmd_RequiresURL(t *testing.T) {
	if _, err := runCmd(t, "download"); err == nil {
		t.Fatal("missing URL accepted")
	}
}

func TestDownloadCmd_VideoAndMKVAreExclusive(t *testing.T) {
	_, err := runCmd(t, "download", "--video", "--mkv", "https://youtu.be/x")
	if err == nil {
		t.Fatal("--video together with --mkv accepted")
	}
}
