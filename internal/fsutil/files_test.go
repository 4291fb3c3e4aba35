package fsutil

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"hostile characters", `Song: "Live" <2024>?`, "Song Live 2024"},
		{"collapsed whitespace", "a   b\t c", "a b c"},
		{"trailing dots and spaces", "Trailing dots... ", "Trailing dots"},
		{"path separators", `a/b\c`, "a b c"},
		{"pipes and stars", "top|ten*hits", "top ten hits"},
		{"unicode kept", "Füür — Läuft", "Füür — Läuft"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeTitle(tt.title, "fallback")
			if got != tt.want {
				t.Fatalf("SanitizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if strings.ContainsAny(got, `\/:*?"<>|`) {
				t.Fatalf("SanitizeTitle(%q) left hostile characters: %q", tt.title, got)
			}
		})
	}
}

func TestSanitizeTitle_Fallback(t *testing.T) {
	for _, title := range []string{"", "???", "  . . "} {
		if got := SanitizeTitle(title, "video"); got != "video" {
			t.Fatalf("SanitizeTitle(%q) = %q, want fallback", title, got)
		}
	}
}

func TestTempPath(t *testing.T) {
	a := TempPath("/out", "video")
	b := TempPath("/out", "video")
	if a == b {
		t.Fatal("TempPath() returned colliding paths")
	}
	base := filepath.Base(a)
	if !strings.HasPrefix(base, TempPrefix) {
		t.Fatalf("TempPath() base %q lacks the %q prefix", base, TempPrefix)
	}
	if !strings.HasSuffix(base, ".video") {
		t.Fatalf("TempPath() base %q lacks the kind suffix", base)
	}
}

func TestRemove_MissingFileIsNotAnError(t *testing.T) {
	if err := Remove(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Fatalf("Remove() on missing file: %v", err)
	}
	if err := Remove(""); err != nil {
		t.Fatalf("Remove(\"\") = %v", err)
	}
}
