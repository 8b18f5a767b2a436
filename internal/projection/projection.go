// Package projection turns recent game rows into a fantasy points projection.
package projection

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/nba-lineup/internal/models"
)

// Scoring holds per-stat fantasy point weights.
type Scoring map[string]float64

// FanDuelScoring is the FanDuel NBA scoring system.
func FanDuelScoring() Scoring {
	return Scoring{
		models.StatPoints:    1,
		models.StatRebounds:  1.2,
		models.StatAssists:   1.5,
		models.StatBlocks:    3,
		models.StatSteals:    3,
		models.StatTurnovers: -1,
	}
}

// Stats lists the weighted stats in summation order: the box-score columns
// first, then any others alphabetically.
func (s Scoring) Stats() []string {
	stats := make([]string, 0, len(s))
	known := make(map[string]bool, len(models.ScoringStats))
	for _, name := range models.ScoringStats {
		known[name] = true
		if _, ok := s[name]; ok {
			stats = append(stats, name)
		}
	}
	var extra []string
	for name := range s {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(stats, extra...)
}

// Score computes the fantasy points of one game. Terms are always added in
// Stats order so the same box score gives the same float every time.
func (s Scoring) Score(row models.GameRow) (float64, error) {
	total := 0.0
	for _, name := range s.Stats() {
		v, err := row.Stat(name)
		if err != nil {
			return 0, err
		}
		total += s[name] * v
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("fantasy score is not finite")
	}
	return total, nil
}

// Result is a projection and where it came from.
type Result struct {
	Value     float64                 `json:"value"`
	Source    models.ProjectionSource `json:"source"`
	GamesUsed int                     `json:"games_used"`
	Mean      float64                 `json:"mean,omitempty"`
	StdDev    float64                 `json:"std_dev,omitempty"`
}

// Model projects a player as the mean plus one sample standard deviation of
// their last Window fantasy scores. Players with fewer games keep their
// baseline.
type Model struct {
	Scoring Scoring
	Window  int
}

func NewModel(scoring Scoring, window int) *Model {
	if scoring == nil {
		scoring = FanDuelScoring()
	}
	if window <= 1 {
		window = 10
	}
	return &Model{Scoring: scoring, Window: window}
}

// Project returns the projected FPPG for rows (chronological). Only the last
// Window rows count.
func (m *Model) Project(rows []models.GameRow, baseline float64) Result {
	fallback := Result{Value: baseline, Source: models.SourceBaseline}
	if len(rows) < m.Window {
		return fallback
	}
	rows = rows[len(rows)-m.Window:]

	scores, err := m.Scores(rows)
	if err != nil {
		return fallback
	}

	mean, variance := stat.MeanVariance(scores, nil)
	stdDev := math.Sqrt(variance)
	value := mean + stdDev
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fallback
	}
	return Result{
		Value:     value,
		Source:    models.SourceGameLog,
		GamesUsed: len(scores),
		Mean:      mean,
		StdDev:    stdDev,
	}
}

// Scores returns the fantasy score of every row, failing on the first row
// that cannot be scored.
func (m *Model) Scores(rows []models.GameRow) ([]float64, error) {
	scores := make([]float64, len(rows))
	for i, row := range rows {
		score, err := m.Scoring.Score(row)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}
		scores[i] = score
	}
	return scores, nil
}
