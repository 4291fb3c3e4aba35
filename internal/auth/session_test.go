package auth

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestSession_CachedMissingIsNotAnError(t *testing.T) {
	s := NewSession(t.TempDir(), nil)
	tok, err := s.Cached(context.Background())
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if tok != "" {
		t.Fatalf("Cached() = %q, want empty", tok)
	}
	if s.Prompted() {
		t.Fatal("fresh session reports prompted")
	}
}

func TestSession_CachedReadsValidTokenFromDisk(t *testing.T) {
	dir := t.TempDir()
	stored := oauth2.Token{
		AccessToken: "disk-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
	data, err := json.Marshal(stored)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, tokenCacheFile), data, 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewSession(dir, nil)
	tok, err := s.Cached(context.Background())
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if tok != "disk-token" {
		t.Fatalf("Cached() = %q, want disk-token", tok)
	}
}

func TestSession_CachedIgnoresCorruptCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, tokenCacheFile), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewSession(dir, nil)
	tok, err := s.Cached(context.Background())
	if err != nil || tok != "" {
		t.Fatalf("Cached() = %q, %v; want empty, nil", tok, err)
	}
}

func TestSession_SaveCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewSession(dir, nil)
	s.saveCache(&oauth2.Token{AccessToken: "persisted", Expiry: time.Now().Add(time.Hour)})

	reloaded := NewSession(dir, nil)
	tok, err := reloaded.Cached(context.Background())
	if err != nil || tok != "persisted" {
		t.Fatalf("Cached() after save = %q, %v", tok, err)
	}
}
