package ytdlp

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/vodkeeper/vodkeeper/internal/ports"
)

// Downloader invokes yt-dlp as a subprocess. The tool's exit code is the
// only success signal consulted; a failed run may leave a partial file at
// the destination, which the next run overwrites or resumes.
type Downloader struct {
	Path      string
	ExtraArgs []string

	run func(ctx context.Context, name string, args []string) error
}

// New returns a Downloader for the given binary path ("yt-dlp" when empty).
// Extra args are inserted before the fixed arguments so they can override
// the defaults.
func New(path string, extraArgs []string) *Downloader {
	if path == "" {
		path = "yt-dlp"
	}
	d := &Downloader{Path: path, ExtraArgs: extraArgs}
	d.run = d.execRun
	return d
}

// Available checks that the tool is executable.
func (d *Downloader) Available() bool {
	_, err := exec.LookPath(d.Path)
	return err == nil
}

func (d *Downloader) Download(ctx context.Context, url, cookiesPath, destPath string) error {
	args := buildArgs(d.ExtraArgs, url, cookiesPath, destPath)
	if err := d.run(ctx, d.Path, args); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ports.DownloadError{ExitCode: exitErr.ExitCode(), Err: err}
		}
		return err
	}
	return nil
}

func buildArgs(extra []string, url, cookiesPath, destPath string) []string {
	args := make([]string, 0, len(extra)+8)
	args = append(args, extra...)
	args = append(args,
		"--cookies", cookiesPath,
		"--no-write-cookies",
		"-o", destPath,
		"--merge-output-format", "mp4",
		url,
	)
	return args
}

func (d *Downloader) execRun(ctx context.Context, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
