package ytdlp

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"testing"

	"github.com/vodkeeper/vodkeeper/internal/ports"
)

func TestBuildArgs_ExtraArgsComeFirst(t *testing.T) {
	got := buildArgs([]string{"--limit-rate", "1M"}, "https://vod/1", "cookies.txt", "/out/ep.mp4")
	want := []string{
		"--limit-rate", "1M",
		"--cookies", "cookies.txt",
		"--no-write-cookies",
		"-o", "/out/ep.mp4",
		"--merge-output-format", "mp4",
		"https://vod/1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

func TestDownload_PassesArgsToRunner(t *testing.T) {
	var gotName string
	var gotArgs []string
	d := New("yt-dlp-custom", nil)
	d.run = func(ctx context.Context, name string, args []string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	if err := d.Download(context.Background(), "https://vod/1", "cookies.txt", "/out/ep.mp4"); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if gotName != "yt-dlp-custom" {
		t.Fatalf("name = %q", gotName)
	}
	if gotArgs[len(gotArgs)-1] != "https://vod/1" {
		t.Fatalf("url must be the last argument: %v", gotArgs)
	}
}

func TestDownload_NonZeroExitIsDownloadError(t *testing.T) {
	// Produit un vrai *exec.ExitError avec le code 7.
	exitErr := exec.Command("sh", "-c", "exit 7").Run()
	var asExit *exec.ExitError
	if !errors.As(exitErr, &asExit) {
		t.Skipf("cannot produce ExitError: %v", exitErr)
	}

	d := New("", nil)
	d.run = func(ctx context.Context, name string, args []string) error {
		return exitErr
	}

	err := d.Download(context.Background(), "https://vod/1", "cookies.txt", "/out/ep.mp4")
	var dlErr *ports.DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("expected DownloadError, got %v", err)
	}
	if dlErr.ExitCode != 7 {
		t.Fatalf("exit code = %d, want 7", dlErr.ExitCode)
	}
}

func TestDownload_OtherErrorsPassThrough(t *testing.T) {
	boom := errors.New("spawn failed")
	d := New("", nil)
	d.run = func(ctx context.Context, name string, args []string) error {
		return boom
	}

	err := d.Download(context.Background(), "https://vod/1", "cookies.txt", "/out/ep.mp4")
	if !errors.Is(err, boom) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
	var dlErr *ports.DownloadError
	if errors.As(err, &dlErr) {
		t.Fatalf("non-exit errors must not become DownloadError")
	}
}
