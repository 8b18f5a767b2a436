package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
)

// ErrNodeLimit is returned when branch-and-bound visits more nodes than allowed.
var ErrNodeLimit = errors.New("branch-and-bound node limit reached")

const (
	integralityTol = 1e-6
	feasibilityTol = 1e-7
	simplexTol     = 1e-9
)

type Sense int

const (
	LessEqual Sense = iota
	Equal
	GreaterEqual
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	default:
		return "="
	}
}

// Constraint is one linear row: Σ Coeffs[j]·x[j] <Sense> RHS.
type Constraint struct {
	Name   string
	Coeffs []float64
	Sense  Sense
	RHS    float64
}

// Problem is a binary integer program that maximizes Objective·x with every
// x[j] in {0, 1}.
type Problem struct {
	Objective   []float64
	Constraints []Constraint
}

func NewProblem(numVars int) *Problem {
	return &Problem{Objective: make([]float64, numVars)}
}

func (p *Problem) NumVariables() int   { return len(p.Objective) }
func (p *Problem) NumConstraints() int { return len(p.Constraints) }

// AddConstraint appends a row. coeffs must have one entry per variable.
func (p *Problem) AddConstraint(name string, coeffs []float64, sense Sense, rhs float64) error {
	if len(coeffs) != len(p.Objective) {
		return fmt.Errorf("constraint %s has %d coefficients, want %d", name, len(coeffs), len(p.Objective))
	}
	p.Constraints = append(p.Constraints, Constraint{Name: name, Coeffs: coeffs, Sense: sense, RHS: rhs})
	return nil
}

// Feasible reports whether the assignment x satisfies every row.
func (p *Problem) Feasible(x []float64) bool {
	for _, c := range p.Constraints {
		activity := 0.0
		for j, a := range c.Coeffs {
			activity += a * x[j]
		}
		switch c.Sense {
		case LessEqual:
			if activity > c.RHS+feasibilityTol {
				return false
			}
		case GreaterEqual:
			if activity < c.RHS-feasibilityTol {
				return false
			}
		default:
			if math.Abs(activity-c.RHS) > feasibilityTol {
				return false
			}
		}
	}
	return true
}

func (p *Problem) value(x []float64) float64 {
	total := 0.0
	for j, c := range p.Objective {
		total += c * x[j]
	}
	return total
}

type SolverOptions struct {
	// MaxNodes bounds the search tree; zero means unlimited.
	MaxNodes int
}

type Solution struct {
	Values    []float64
	Objective float64
	Nodes     int
}

// Solve runs depth-first branch-and-bound, bounding each node with the LP
// relaxation. It returns dfs.ErrInfeasible when no binary assignment exists.
// When the node limit is hit the best assignment found so far, if any, is
// returned together with ErrNodeLimit.
func Solve(ctx context.Context, p *Problem, opts SolverOptions) (*Solution, error) {
	s := &solver{problem: p, maxNodes: opts.MaxNodes}
	fixed := make([]int8, p.NumVariables())
	for j := range fixed {
		fixed[j] = free
	}

	err := s.search(ctx, fixed)
	var solution *Solution
	if s.best != nil {
		solution = &Solution{Values: s.best, Objective: p.value(s.best), Nodes: s.nodes}
	}
	if err != nil {
		return solution, err
	}
	if solution == nil {
		return nil, fmt.Errorf("%w: searched %d nodes", dfs.ErrInfeasible, s.nodes)
	}
	return solution, nil
}

const free int8 = -1

type solver struct {
	problem  *Problem
	maxNodes int
	nodes    int
	best     []float64
	bestObj  float64
}

// reducedRow is a constraint restricted to the free variables with the
// contribution of fixed variables moved to the right-hand side.
type reducedRow struct {
	coeffs []float64
	sense  Sense
	rhs    float64
}

func (s *solver) search(ctx context.Context, fixed []int8) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.nodes++
	if s.maxNodes > 0 && s.nodes > s.maxNodes {
		return ErrNodeLimit
	}

	var freeVars []int
	fixedObj := 0.0
	for j, f := range fixed {
		switch f {
		case free:
			freeVars = append(freeVars, j)
		case 1:
			fixedObj += s.problem.Objective[j]
		}
	}

	rows, ok := s.presolve(fixed, freeVars)
	if !ok {
		return nil
	}

	if len(freeVars) == 0 {
		s.offer(fixed)
		return nil
	}

	bound, relaxed, err := s.relax(freeVars, rows)
	if errors.Is(err, lp.ErrInfeasible) {
		return nil
	}
	bound += fixedObj
	if s.best != nil && bound <= s.bestObj+feasibilityTol {
		return nil
	}

	branchVar, firstValue := s.chooseBranch(freeVars, relaxed)
	if branchVar < 0 {
		// relaxation is integral
		candidate := append([]int8(nil), fixed...)
		for i, j := range freeVars {
			candidate[j] = int8(math.Round(relaxed[i]))
		}
		if s.offer(candidate) {
			return nil
		}
		branchVar, firstValue = freeVars[0], int8(1)
	}

	for _, v := range []int8{firstValue, 1 - firstValue} {
		fixed[branchVar] = v
		err := s.search(ctx, fixed)
		fixed[branchVar] = free
		if err != nil {
			return err
		}
	}
	return nil
}

// presolve reduces every row to the free variables and checks that the
// remaining activity range can still meet it. Rows that hold for any
// assignment of the free variables are dropped.
func (s *solver) presolve(fixed []int8, freeVars []int) ([]reducedRow, bool) {
	rows := make([]reducedRow, 0, len(s.problem.Constraints))
	for _, c := range s.problem.Constraints {
		rhs := c.RHS
		for j, f := range fixed {
			if f == 1 {
				rhs -= c.Coeffs[j]
			}
		}

		coeffs := make([]float64, len(freeVars))
		minAct, maxAct := 0.0, 0.0
		for i, j := range freeVars {
			a := c.Coeffs[j]
			coeffs[i] = a
			if a < 0 {
				minAct += a
			} else {
				maxAct += a
			}
		}

		switch c.Sense {
		case LessEqual:
			if minAct > rhs+feasibilityTol {
				return nil, false
			}
			if maxAct <= rhs+feasibilityTol {
				continue
			}
		case GreaterEqual:
			if maxAct < rhs-feasibilityTol {
				return nil, false
			}
			if minAct >= rhs-feasibilityTol {
				continue
			}
		default:
			if minAct > rhs+feasibilityTol || maxAct < rhs-feasibilityTol {
				return nil, false
			}
			if minAct == 0 && maxAct == 0 {
				continue
			}
		}
		rows = append(rows, reducedRow{coeffs: coeffs, sense: c.Sense, rhs: rhs})
	}
	return rows, true
}

// relax solves the LP relaxation over the free variables and returns its
// optimal value and solution. If the LP cannot be set up or solved, it falls
// back to the sum of positive objective coefficients, which is always an
// upper bound, and a nil solution.
func (s *solver) relax(freeVars []int, rows []reducedRow) (float64, []float64, error) {
	k := len(freeVars)
	trivial := 0.0
	for _, j := range freeVars {
		trivial += math.Max(0, s.problem.Objective[j])
	}

	slacks := 0
	for _, r := range rows {
		if r.sense != Equal {
			slacks++
		}
	}
	m := len(rows) + k
	n := 2*k + slacks
	if m >= n {
		return trivial, nil, nil
	}

	// Standard form: minimize c·z subject to A·z = b, z >= 0 with
	// z = [x, slacks, u] and x[i] + u[i] = 1 bounding each variable.
	c := make([]float64, n)
	for i, j := range freeVars {
		c[i] = -s.problem.Objective[j]
	}
	A := mat.NewDense(m, n, nil)
	b := make([]float64, m)

	slack := k
	for r, row := range rows {
		sign := 1.0
		if row.rhs < 0 {
			sign = -1
		}
		for i, a := range row.coeffs {
			A.Set(r, i, sign*a)
		}
		switch row.sense {
		case LessEqual:
			A.Set(r, slack, sign)
			slack++
		case GreaterEqual:
			A.Set(r, slack, -sign)
			slack++
		}
		b[r] = sign * row.rhs
	}
	for i := 0; i < k; i++ {
		r := len(rows) + i
		A.Set(r, i, 1)
		A.Set(r, k+slacks+i, 1)
		b[r] = 1
	}

	opt, z, err := lp.Simplex(c, A, b, simplexTol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return 0, nil, err
		}
		return trivial, nil, nil
	}
	return -opt, z[:k], nil
}

// chooseBranch picks the most fractional variable of the relaxation and the
// value to try first. It returns -1 when the relaxation is integral.
func (s *solver) chooseBranch(freeVars []int, relaxed []float64) (int, int8) {
	if relaxed == nil {
		j := freeVars[0]
		for _, v := range freeVars {
			if s.problem.Objective[v] > s.problem.Objective[j] {
				j = v
			}
		}
		return j, 1
	}

	best, bestDist := -1, -1.0
	for i, x := range relaxed {
		frac := x - math.Floor(x)
		if frac < integralityTol || frac > 1-integralityTol {
			continue
		}
		if dist := math.Min(frac, 1-frac); dist > bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return -1, 0
	}
	if relaxed[best] >= 0.5 {
		return freeVars[best], 1
	}
	return freeVars[best], 0
}

// offer records a complete assignment if it is feasible and improves on the
// incumbent.
func (s *solver) offer(assignment []int8) bool {
	x := make([]float64, len(assignment))
	for j, v := range assignment {
		if v == 1 {
			x[j] = 1
		}
	}
	if !s.problem.Feasible(x) {
		return false
	}
	if obj := s.problem.value(x); s.best == nil || obj > s.bestObj+feasibilityTol {
		s.best, s.bestObj = x, obj
	}
	return true
}
