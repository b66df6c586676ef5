package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/vodkeeper/vodkeeper/internal/adapters/statefile"
	"github.com/vodkeeper/vodkeeper/internal/domain"
)

type rawConfig struct {
	Channels  string `long:"channels" env:"TWITCH_CHANNELS" description:"Comma-separated channel logins"`
	Channel   string `long:"channel" env:"TWITCH_CHANNEL" description:"Single channel login (fallback for --channels)"`
	ShowNames string `long:"show-names" env:"SHOW_NAMES" description:"Comma-separated show names aligned with --channels"`

	ClientID     string `long:"client-id" env:"TWITCH_CLIENT_ID" description:"Twitch application client id" required:"true"`
	ClientSecret string `long:"client-secret" env:"TWITCH_CLIENT_SECRET" description:"Twitch application client secret" required:"true"`
	UserToken    string `long:"user-token" env:"TWITCH_USER_OAUTH_TOKEN" description:"Pre-obtained user access token (wins over the app token)"`

	CookiesPath string `long:"cookies" env:"COOKIES_PATH" description:"Cookie jar passed to the downloader" required:"true"`
	OutputRoot  string `long:"output" env:"OUTPUT_DIR" description:"Library output root" required:"true"`
	StatePath   string `long:"state-path" env:"STATE_PATH" description:"State file or directory override"`

	DownloaderPath string `long:"downloader" env:"YTDLP_PATH" default:"yt-dlp" description:"Downloader binary"`
	ExtraArgs      string `long:"extra-args" env:"YTDLP_EXTRA_ARGS" description:"Extra downloader arguments, whitespace-split"`

	Naming    string `long:"naming" env:"VODKEEPER_NAMING" default:"time" description:"Base filename strategy: time or title"`
	Timezone  string `long:"timezone" env:"TZ" description:"Timezone for season/episode derivation (default: system local)"`
	HistoryDB string `long:"history-db" env:"VODKEEPER_HISTORY_DB" description:"Archive history database path ('off' disables, default <output>/vodkeeper.db)"`

	WatchInterval time.Duration `long:"watch-interval" env:"VODKEEPER_WATCH_INTERVAL" default:"0" description:"Poll interval; 0 runs once and exits"`
	Addr          string        `long:"addr" env:"VODKEEPER_ADDR" default:"127.0.0.1:8089" description:"Status server listen address (watch mode only)"`
	Debug         bool          `long:"debug" env:"VODKEEPER_DEBUG" description:"Enable debug logging"`
}

// Config est la configuration immuable du run, chargée une fois au démarrage
// et passée explicitement à l'orchestrateur.
type Config struct {
	Channels []domain.Channel

	ClientID     string
	ClientSecret string
	UserToken    string

	CookiesPath string
	OutputRoot  string

	DownloaderPath string
	ExtraArgs      []string

	Naming    string
	Location  *time.Location
	HistoryDB string // empty = disabled

	WatchInterval time.Duration
	Addr          string
	Debug         bool
}

// Load parses flags and environment variables. Returns (nil, nil) when help
// was requested. Any missing required value aborts here, before any channel
// work starts.
func Load() (*Config, error) {
	var raw rawConfig

	parser := flags.NewParser(&raw, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return build(raw)
}

func build(raw rawConfig) (*Config, error) {
	channelsValue := raw.Channels
	if strings.TrimSpace(channelsValue) == "" {
		channelsValue = raw.Channel
	}
	logins := domain.ParseChannels(channelsValue)
	if len(logins) == 0 {
		return nil, fmt.Errorf("no channels configured: set TWITCH_CHANNELS or TWITCH_CHANNEL")
	}

	if _, err := os.Stat(raw.CookiesPath); err != nil {
		return nil, fmt.Errorf("cookies file not found: %s", raw.CookiesPath)
	}

	loc := time.Local
	if strings.TrimSpace(raw.Timezone) != "" {
		l, err := time.LoadLocation(raw.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", raw.Timezone, err)
		}
		loc = l
	}

	showNames := domain.ParseShowNames(raw.ShowNames)
	multi := len(logins) > 1
	channels := make([]domain.Channel, 0, len(logins))
	for i, login := range logins {
		channels = append(channels, domain.Channel{
			Login:     login,
			ShowName:  domain.ShowNameFor(login, i, showNames),
			StatePath: statefile.ResolvePath(raw.StatePath, raw.OutputRoot, login, multi),
		})
	}

	historyDB := strings.TrimSpace(raw.HistoryDB)
	switch historyDB {
	case "":
		historyDB = filepath.Join(raw.OutputRoot, "vodkeeper.db")
	case "off":
		historyDB = ""
	}

	return &Config{
		Channels:       channels,
		ClientID:       raw.ClientID,
		ClientSecret:   raw.ClientSecret,
		UserToken:      raw.UserToken,
		CookiesPath:    raw.CookiesPath,
		OutputRoot:     raw.OutputRoot,
		DownloaderPath: raw.DownloaderPath,
		ExtraArgs:      strings.Fields(raw.ExtraArgs),
		Naming:         raw.Naming,
		Location:       loc,
		HistoryDB:      historyDB,
		WatchInterval:  raw.WatchInterval,
		Addr:           raw.Addr,
		Debug:          raw.Debug,
	}, nil
}
