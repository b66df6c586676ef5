package app

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/vodkeeper/vodkeeper/internal/domain"
	"github.com/vodkeeper/vodkeeper/internal/ports"
)

// Decision est l'issue de la machine à états par chaîne, évaluée dans cet
// ordre strict: live, pas d'archive, déjà traité, nouvelle VOD.
type Decision int

const (
	DecisionNewVOD Decision = iota
	DecisionLive
	DecisionNoArchive
	DecisionAlreadyProcessed
)

func (d Decision) String() string {
	switch d {
	case DecisionNewVOD:
		return "new_vod"
	case DecisionLive:
		return "live"
	case DecisionNoArchive:
		return "no_archive"
	case DecisionAlreadyProcessed:
		return "already_processed"
	}
	return "unknown"
}

type ProcessorOptions struct {
	OutputRoot  string
	CookiesPath string
	Naming      NamingStrategy

	// Location pour les conversions en heure locale (season/episode/stem).
	// nil => time.Local.
	Location *time.Location
}

type Processor struct {
	logger     zerolog.Logger
	platform   ports.PlatformClient
	downloader ports.Downloader
	states     ports.StateStore
	history    ports.ArchiveHistory
	opts       ProcessorOptions
}

func NewProcessor(logger zerolog.Logger, platform ports.PlatformClient, downloader ports.Downloader, states ports.StateStore, opts ProcessorOptions) *Processor {
	if opts.Naming == "" {
		opts.Naming = NamingTime
	}
	return &Processor{
		logger:     logger,
		platform:   platform,
		downloader: downloader,
		states:     states,
		opts:       opts,
	}
}

// WithHistory attaches the optional archive history index.
func (p *Processor) WithHistory(h ports.ArchiveHistory) *Processor {
	p.history = h
	return p
}

type Outcome struct {
	Decision  Decision
	VOD       *domain.VOD
	VideoPath string
}

// RunAll processes every configured channel in order, one at a time. A
// channel's failure is logged and does not abort its siblings, except an
// authentication rejection which is fatal for the whole run. The first
// non-auth error is returned so the caller can surface an exit code.
func (p *Processor) RunAll(ctx context.Context, channels []domain.Channel) error {
	logger := p.logger.With().Str("run_id", xid.New().String()).Logger()

	var firstErr error
	for _, ch := range channels {
		out, err := p.processChannel(ctx, logger, ch)
		if err != nil {
			if errors.Is(err, ports.ErrAuth) {
				return err
			}
			logger.Error().Err(err).Str("channel", ch.Login).Msg("channel processing failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		evt := logger.Info().Str("channel", ch.Login).Str("decision", out.Decision.String())
		if out.VOD != nil {
			evt = evt.Str("vod_id", out.VOD.ID)
		}
		evt.Msg("channel processed")
	}
	return firstErr
}

// ProcessChannel runs the state machine for one channel.
func (p *Processor) ProcessChannel(ctx context.Context, ch domain.Channel) (Outcome, error) {
	return p.processChannel(ctx, p.logger, ch)
}

func (p *Processor) processChannel(ctx context.Context, logger zerolog.Logger, ch domain.Channel) (Outcome, error) {
	logger = logger.With().Str("channel", ch.Login).Logger()

	userID, err := p.platform.ResolveChannelID(ctx, ch.Login)
	if err != nil {
		return Outcome{}, err
	}

	// Un stream en cours rend la VOD incomplète/mutable: on ne touche à rien
	// tant que la diffusion n'est pas terminée.
	live, err := p.platform.IsLive(ctx, userID)
	if err != nil {
		return Outcome{}, err
	}
	if live {
		logger.Info().Msg("channel is live, skipping until stream ends")
		return Outcome{Decision: DecisionLive}, nil
	}

	vod, err := p.platform.LatestArchivedVOD(ctx, userID)
	if err != nil {
		return Outcome{}, err
	}
	if vod == nil {
		logger.Info().Msg("no archived vods")
		return Outcome{Decision: DecisionNoArchive}, nil
	}

	state, err := p.states.Load(ch.StatePath)
	if err != nil {
		return Outcome{}, err
	}
	if state.LastVODID == vod.ID {
		logger.Debug().Str("vod_id", vod.ID).Msg("latest vod already processed")
		return Outcome{Decision: DecisionAlreadyProcessed, VOD: vod}, nil
	}

	loc := ResolveOutput(p.opts.OutputRoot, ch, vod, p.opts.Naming, p.opts.Location)
	if err := os.MkdirAll(loc.Dir, 0o755); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Decision: DecisionNewVOD, VOD: vod, VideoPath: loc.VideoPath()}

	logger.Info().
		Str("vod_id", vod.ID).
		Str("title", vod.Title).
		Str("dest", loc.VideoPath()).
		Msg("downloading vod")
	if err := p.downloader.Download(ctx, vod.URL, p.opts.CookiesPath, loc.VideoPath()); err != nil {
		// Pas de nettoyage du fichier partiel: l'état n'avance pas et le
		// prochain run recalcule la même destination.
		return out, err
	}

	if err := WriteSidecar(loc.SidecarPath(), vod.Title, vod.Description, loc); err != nil {
		return out, err
	}

	if err := p.states.Save(ch.StatePath, domain.ProcessingState{
		LastVODID:          vod.ID,
		LastVODPublishedAt: vod.PublishedAt,
	}); err != nil {
		return out, err
	}
	logger.Info().Str("vod_id", vod.ID).Str("state", ch.StatePath).Msg("state updated")

	p.recordHistory(ctx, logger, ch, vod, loc)
	return out, nil
}

func (p *Processor) recordHistory(ctx context.Context, logger zerolog.Logger, ch domain.Channel, vod *domain.VOD, loc OutputLocation) {
	if p.history == nil {
		return
	}
	entry := domain.ArchiveEntry{
		ID:           xid.New().String(),
		Channel:      ch.Login,
		VODID:        vod.ID,
		Title:        vod.Title,
		PublishedAt:  vod.PublishedAt,
		VideoPath:    loc.VideoPath(),
		DownloadedAt: time.Now().UTC(),
	}
	if err := p.history.Record(ctx, entry); err != nil {
		logger.Warn().Err(err).Msg("archive history write failed")
	}
}
