package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nba-lineup/internal/models"
	"github.com/stitts-dev/nba-lineup/internal/optimizer"
)

// RunResult is everything a pipeline run produced.
type RunResult struct {
	RunID    string            `json:"run_id"`
	Players  []models.Player   `json:"players"`
	Summary  Summary           `json:"summary"`
	Result   *optimizer.Result `json:"result"`
	Duration time.Duration     `json:"duration"`
}

// Pipeline projects a slate and optimizes a single lineup from it.
type Pipeline struct {
	projector *Projector
	rules     optimizer.Rules
	solver    optimizer.SolverOptions
	logger    *logrus.Entry
}

// NewPipeline builds a pipeline. A nil projector optimizes on baseline FPPG.
func NewPipeline(projector *Projector, rules optimizer.Rules, solver optimizer.SolverOptions, logger *logrus.Entry) *Pipeline {
	return &Pipeline{projector: projector, rules: rules, solver: solver, logger: logger}
}

// Run works on a copy of players, so the caller's slate is left untouched.
func (p *Pipeline) Run(ctx context.Context, runID string, players []models.Player) (*RunResult, error) {
	start := time.Now()
	log := p.logger.WithField("run_id", runID)

	run := &RunResult{RunID: runID, Players: append([]models.Player(nil), players...)}
	run.Summary.Players = len(run.Players)

	if p.projector != nil {
		log.WithField("players", len(run.Players)).Info("projecting players")
		summary, err := p.projector.ProjectAll(ctx, run.Players)
		run.Summary = summary
		if err != nil {
			return run, fmt.Errorf("projection aborted: %w", err)
		}
		log.WithFields(logrus.Fields{
			"from_game_log":  summary.FromGameLog,
			"too_few_games":  summary.TooFewGames,
			"not_found":      summary.NotFound,
			"parse_errors":   summary.ParseErrors,
			"network_errors": summary.NetworkErrors,
			"not_attempted":  summary.NotAttempted,
		}).Info("projection finished")
	}

	result, err := optimizer.Optimize(ctx, run.Players, p.rules, p.solver, log)
	run.Duration = time.Since(start)
	if err != nil {
		return run, err
	}
	run.Result = result
	return run, nil
}
