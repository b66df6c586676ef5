package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/vodkeeper/vodkeeper/internal/adapters/twitch"
)

type options struct {
	ClientID  string `long:"client-id" env:"TWITCH_CLIENT_ID" description:"Twitch application client id" required:"true"`
	Scopes    string `long:"scopes" env:"TWITCH_SCOPES" description:"Space-separated OAuth scopes"`
	TokenPath string `long:"token-path" env:"TOKEN_PATH" default:"twitch_token.json" description:"Where to save the token JSON"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := twitch.New(opts.ClientID)

	auth, err := client.RequestDeviceAuthorization(ctx, opts.Scopes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "device authorization failed:", err)
		os.Exit(1)
	}

	fmt.Println("Go to:", auth.VerificationURI)
	fmt.Println("Enter code:", auth.UserCode)
	fmt.Println("Waiting for authorization...")

	tok, err := client.PollDeviceToken(ctx, auth.DeviceCode, time.Duration(auth.Interval)*time.Second)
	if err != nil {
		fmt.Fprintln(os.Stderr, "authorization failed:", err)
		os.Exit(1)
	}

	if err := saveToken(opts.TokenPath, tok); err != nil {
		fmt.Fprintln(os.Stderr, "failed to save token:", err)
		os.Exit(1)
	}

	fmt.Println("Token saved to", opts.TokenPath)
	fmt.Println("Set TWITCH_USER_OAUTH_TOKEN to access_token from that file.")
}

func saveToken(path string, tok twitch.UserToken) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o600)
}
