package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func validRaw(t *testing.T) rawConfig {
	t.Helper()
	dir := t.TempDir()
	cookies := filepath.Join(dir, "cookies.txt")
	if err := os.WriteFile(cookies, []byte("# netscape"), 0o644); err != nil {
		t.Fatalf("write cookies: %v", err)
	}
	return rawConfig{
		Channels:     "Foo, BAR ,",
		ClientID:     "cid",
		ClientSecret: "secret",
		CookiesPath:  cookies,
		OutputRoot:   filepath.Join(dir, "out"),
		Naming:       "time",
	}
}

func TestBuild_ChannelsNormalized(t *testing.T) {
	raw := validRaw(t)
	cfg, err := build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(cfg.Channels) != 2 {
		t.Fatalf("channels = %+v", cfg.Channels)
	}
	if cfg.Channels[0].Login != "foo" || cfg.Channels[1].Login != "bar" {
		t.Fatalf("logins not lowercased: %+v", cfg.Channels)
	}
	// Multi-channel: un fichier d'état par chaîne sous <output>/state/.
	want := filepath.Join(raw.OutputRoot, "state", "foo.json")
	if cfg.Channels[0].StatePath != want {
		t.Fatalf("state path = %q, want %q", cfg.Channels[0].StatePath, want)
	}
}

func TestBuild_SingleChannelFallback(t *testing.T) {
	raw := validRaw(t)
	raw.Channels = ""
	raw.Channel = "Solo"
	cfg, err := build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(cfg.Channels) != 1 || cfg.Channels[0].Login != "solo" {
		t.Fatalf("channels = %+v", cfg.Channels)
	}
}

func TestBuild_NoChannelsIsError(t *testing.T) {
	raw := validRaw(t)
	raw.Channels = " , "
	if _, err := build(raw); err == nil {
		t.Fatalf("expected error for empty channel list")
	}
}

func TestBuild_MissingCookiesIsError(t *testing.T) {
	raw := validRaw(t)
	raw.CookiesPath = filepath.Join(t.TempDir(), "missing.txt")
	if _, err := build(raw); err == nil {
		t.Fatalf("expected error for missing cookies file")
	}
}

func TestBuild_ShowNamesAlignedByPosition(t *testing.T) {
	raw := validRaw(t)
	raw.ShowNames = "My Show, "
	cfg, err := build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.Channels[0].ShowName != "My Show" {
		t.Fatalf("show name = %q", cfg.Channels[0].ShowName)
	}
	// Entrée vide => retombe sur le login.
	if cfg.Channels[1].ShowName != "bar" {
		t.Fatalf("show name = %q, want login fallback", cfg.Channels[1].ShowName)
	}
}

func TestBuild_ExtraArgsWhitespaceSplit(t *testing.T) {
	raw := validRaw(t)
	raw.ExtraArgs = "  --limit-rate 1M\t--retries 3 "
	cfg, err := build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []string{"--limit-rate", "1M", "--retries", "3"}
	if !reflect.DeepEqual(cfg.ExtraArgs, want) {
		t.Fatalf("extra args = %v, want %v", cfg.ExtraArgs, want)
	}
}

func TestBuild_HistoryDB(t *testing.T) {
	raw := validRaw(t)
	cfg, err := build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.HistoryDB != filepath.Join(raw.OutputRoot, "vodkeeper.db") {
		t.Fatalf("history db = %q", cfg.HistoryDB)
	}

	raw.HistoryDB = "off"
	cfg, err = build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.HistoryDB != "" {
		t.Fatalf("history db should be disabled, got %q", cfg.HistoryDB)
	}
}

func TestBuild_InvalidTimezoneIsError(t *testing.T) {
	raw := validRaw(t)
	raw.Timezone = "Not/AZone"
	if _, err := build(raw); err == nil {
		t.Fatalf("expected error for bad timezone")
	}
}

func TestBuild_Timezone(t *testing.T) {
	raw := validRaw(t)
	raw.Timezone = "UTC"
	cfg, err := build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("location = %v", cfg.Location)
	}
}
