package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
	"github.com/stitts-dev/nba-lineup/internal/models"
	"github.com/stitts-dev/nba-lineup/internal/projection"
	"github.com/stitts-dev/nba-lineup/internal/providers"
	"github.com/stitts-dev/nba-lineup/pkg/logger"
)

// ProfileSource finds a player's game log.
type ProfileSource interface {
	Resolve(ctx context.Context, player *models.Player) (*providers.GameLog, error)
}

type ProjectorOptions struct {
	// Workers is the number of players resolved at once.
	Workers int
	// Limit projects only the first Limit players; zero means all.
	Limit int
}

// Summary counts how each player's projection was obtained.
type Summary struct {
	Players       int `json:"players"`
	FromGameLog   int `json:"from_game_log"`
	TooFewGames   int `json:"too_few_games"`
	NotFound      int `json:"not_found"`
	ParseErrors   int `json:"parse_errors"`
	NetworkErrors int `json:"network_errors"`
	NotAttempted  int `json:"not_attempted"`
}

func (s *Summary) record(err error) {
	switch {
	case errors.Is(err, dfs.ErrNotFound):
		s.NotFound++
	case errors.Is(err, dfs.ErrParse):
		s.ParseErrors++
	default:
		s.NetworkErrors++
	}
}

// Projector replaces each player's ModelFPPG with the game log projection,
// keeping the baseline whenever the log cannot be obtained.
type Projector struct {
	source ProfileSource
	model  *projection.Model
	opts   ProjectorOptions
	logger *logrus.Entry
}

func NewProjector(source ProfileSource, model *projection.Model, opts ProjectorOptions, logger *logrus.Entry) *Projector {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Projector{source: source, model: model, opts: opts, logger: logger}
}

// ProjectAll updates players in place. Per-player lookup failures fall back
// to the baseline; only cancellation and unexpected errors abort.
func (p *Projector) ProjectAll(ctx context.Context, players []models.Player) (Summary, error) {
	summary := Summary{Players: len(players)}
	limit := len(players)
	if p.opts.Limit > 0 && p.opts.Limit < limit {
		limit = p.opts.Limit
	}
	summary.NotAttempted = len(players) - limit

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i := 0; i < limit; i++ {
		player := &players[i]
		g.Go(func() error {
			result, err := p.projectOne(gctx, player)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				summary.record(err)
			case result.Source == models.SourceGameLog:
				summary.FromGameLog++
			default:
				summary.TooFewGames++
			}
			return nil
		})
		if gctx.Err() != nil {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// projectOne returns a non-nil error only for recoverable lookup failures,
// after the player has been reset to the baseline.
func (p *Projector) projectOne(ctx context.Context, player *models.Player) (projection.Result, error) {
	log := logger.WithPlayerContext(p.logger, player.Nickname, string(player.Position))
	baseline := projection.Result{Value: player.FPPG, Source: models.SourceBaseline}

	gameLog, err := p.source.Resolve(ctx, player)
	if err != nil {
		p.apply(player, baseline)
		switch {
		case errors.Is(err, dfs.ErrNetwork) && ctx.Err() == nil:
			log.WithError(err).Warn("game log fetch failed, keeping baseline FPPG")
		case dfs.IsRecoverable(err):
			log.WithError(err).Debug("no game log, keeping baseline FPPG")
		default:
			log.WithError(err).Debug("projection interrupted")
		}
		return baseline, err
	}

	player.ProfileURL = gameLog.URL
	result := p.model.Project(gameLog.Recent(p.model.Window), player.FPPG)
	p.apply(player, result)
	log.WithFields(logrus.Fields{
		"baseline":   player.FPPG,
		"projection": result.Value,
		"source":     result.Source,
		"games":      len(gameLog.Rows),
	}).Debug("player projected")
	return result, nil
}

func (p *Projector) apply(player *models.Player, result projection.Result) {
	player.ModelFPPG = result.Value
	player.ProjectionSource = result.Source
	player.GamesUsed = result.GamesUsed
}
