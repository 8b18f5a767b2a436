// Package optimizer picks the highest projected FanDuel NBA roster under the
// salary cap by solving a binary integer program.
package optimizer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
	"github.com/stitts-dev/nba-lineup/internal/models"
)

// Result is an optimized lineup with the size of the model that produced it.
type Result struct {
	Lineup         *models.Lineup `json:"lineup"`
	NumVariables   int            `json:"num_variables"`
	NumConstraints int            `json:"num_constraints"`
	Objective      float64        `json:"objective"`
	Nodes          int            `json:"nodes"`

	// Candidates counts the players left after dominated ones were pruned.
	Candidates int `json:"candidates"`
}

// BuildProblem encodes the roster rules over one binary variable per player:
// a salary row and one equality row per position. The returned map gives each
// player's variable index by nickname.
func BuildProblem(players []models.Player, rules Rules) (*Problem, map[string]int, error) {
	index := make(map[string]int, len(players))
	problem := NewProblem(len(players))
	requirements := rules.Requirements()

	for j, player := range players {
		if _, dup := index[player.Nickname]; dup {
			return nil, nil, fmt.Errorf("duplicate player nickname %q", player.Nickname)
		}
		if _, ok := requirements[player.Position]; !ok {
			return nil, nil, fmt.Errorf("player %s has position %q outside the roster rules", player.Nickname, player.Position)
		}
		index[player.Nickname] = j
		problem.Objective[j] = player.ModelFPPG
	}

	salary := make([]float64, len(players))
	for j, player := range players {
		salary[j] = float64(player.Salary)
	}
	if err := problem.AddConstraint("salary", salary, LessEqual, float64(rules.SalaryCap)); err != nil {
		return nil, nil, err
	}

	for _, position := range models.Positions {
		required, ok := requirements[position]
		if !ok {
			continue
		}
		coeffs := make([]float64, len(players))
		for _, player := range players {
			if player.Position == position {
				coeffs[index[player.Nickname]] = 1
			}
		}
		if err := problem.AddConstraint(string(position), coeffs, Equal, float64(required)); err != nil {
			return nil, nil, err
		}
	}
	return problem, index, nil
}

// PrunePool drops players who cannot be needed: some optimal lineup always
// avoids a player when at least as many same-position players as the position
// needs cost no more and project no less. Equal players are ranked by input
// order, so identical twins never knock each other out. Input order is kept.
func PrunePool(players []models.Player, rules Rules) []models.Player {
	requirements := rules.Requirements()
	kept := make([]models.Player, 0, len(players))
	for i, p := range players {
		need := requirements[p.Position]
		better := 0
		for j := range players {
			if i == j || players[j].Position != p.Position {
				continue
			}
			if dominates(players[j], j, p, i) {
				better++
				if better >= need {
					break
				}
			}
		}
		if better < need {
			kept = append(kept, p)
		}
	}
	return kept
}

func dominates(q models.Player, qi int, p models.Player, pi int) bool {
	if q.Salary > p.Salary || q.ModelFPPG < p.ModelFPPG {
		return false
	}
	return q.Salary < p.Salary || q.ModelFPPG > p.ModelFPPG || qi < pi
}

// Optimize selects the roster maximizing total ModelFPPG. Players come back
// in input order. The reported model size covers every player; the solver
// only sees the pruned pool.
func Optimize(ctx context.Context, players []models.Player, rules Rules, opts SolverOptions, logger *logrus.Entry) (*Result, error) {
	full, _, err := BuildProblem(players, rules)
	if err != nil {
		return nil, err
	}

	available := make(map[models.Position]int)
	for _, player := range players {
		available[player.Position]++
	}
	for position, required := range rules.Requirements() {
		if available[position] < required {
			return nil, fmt.Errorf("%w: need %d %s, have %d", dfs.ErrInfeasible, required, position, available[position])
		}
	}

	candidates := PrunePool(players, rules)
	problem, index, err := BuildProblem(candidates, rules)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"variables":   full.NumVariables(),
		"candidates":  len(candidates),
		"constraints": problem.NumConstraints(),
		"salary_cap":  rules.SalaryCap,
	}).Debug("solving lineup model")

	solution, err := Solve(ctx, problem, opts)
	if err != nil {
		return nil, err
	}

	lineup := &models.Lineup{Players: make([]models.Player, 0, rules.RosterSize())}
	for _, player := range candidates {
		if solution.Values[index[player.Nickname]] > 0.5 {
			lineup.Players = append(lineup.Players, player)
		}
	}
	lineup.CalculateTotalSalary()
	lineup.ProjectedPoints = solution.Objective

	logger.WithFields(logrus.Fields{
		"objective": solution.Objective,
		"salary":    lineup.TotalSalary,
		"nodes":     solution.Nodes,
	}).Info("lineup optimized")

	return &Result{
		Lineup:         lineup,
		NumVariables:   full.NumVariables(),
		NumConstraints: full.NumConstraints(),
		Candidates:     len(candidates),
		Objective:      solution.Objective,
		Nodes:          solution.Nodes,
	}, nil
}
