package app

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/vodkeeper/vodkeeper/internal/domain"
)

var (
	reIllegal    = regexp.MustCompile(`[\\/:*?"<>|]+`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

const maxSegmentLen = 180

// SanitizeName rewrites a platform-supplied string into a safe path segment:
// filesystem-hostile characters collapse to "-", whitespace runs to a single
// space. An empty result becomes "untitled".
func SanitizeName(value string) string {
	value = reIllegal.ReplaceAllString(value, "-")
	value = reWhitespace.ReplaceAllString(value, " ")
	value = strings.TrimSpace(value)
	if value == "" {
		return "untitled"
	}
	if r := []rune(value); len(r) > maxSegmentLen {
		value = string(r[:maxSegmentLen])
	}
	return value
}

// NamingStrategy selects the base-filename convention.
type NamingStrategy string

const (
	// NamingTime: stem "Jan-02-15-04" dérivé de la date de publication.
	// Convention canonique.
	NamingTime NamingStrategy = "time"

	// NamingTitle: stem court "15-04" + fragment de titre sanitizé.
	NamingTitle NamingStrategy = "title"
)

func ParseNamingStrategy(value string) (NamingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(NamingTime):
		return NamingTime, nil
	case string(NamingTitle):
		return NamingTitle, nil
	}
	return "", fmt.Errorf("unknown naming strategy: %q", value)
}

// OutputLocation is derived fresh each run from the VOD publish time; it is
// never persisted independently of the files it names.
type OutputLocation struct {
	Dir     string
	Base    string
	Season  int
	Episode int
	Aired   time.Time
}

func (l OutputLocation) VideoPath() string {
	return filepath.Join(l.Dir, l.Base+".mp4")
}

func (l OutputLocation) SidecarPath() string {
	return filepath.Join(l.Dir, l.Base+".nfo")
}

func (l OutputLocation) SeasonLabel() string {
	return fmt.Sprintf("Season %02d", l.Season)
}

// ResolveOutput derives the library location for a VOD. Season is keyed by
// calendar month of the local publish time, episode by day of month, so there
// is at most one episode number per calendar day.
func ResolveOutput(root string, ch domain.Channel, vod *domain.VOD, strategy NamingStrategy, loc *time.Location) OutputLocation {
	if loc == nil {
		loc = time.Local
	}
	local := vod.PublishedAt.In(loc)

	base := local.Format("Jan-02-15-04")
	if strategy == NamingTitle {
		base = local.Format("15-04") + " " + SanitizeName(vod.Title)
	}

	dir := filepath.Join(
		root,
		SanitizeName(ch.Login),
		SanitizeName(ch.Show()),
		fmt.Sprintf("Season %02d", int(local.Month())),
	)

	return OutputLocation{
		Dir:     dir,
		Base:    base,
		Season:  int(local.Month()),
		Episode: local.Day(),
		Aired:   local,
	}
}
