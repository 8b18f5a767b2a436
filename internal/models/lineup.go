package models

// Lineup is the roster picked by the optimizer.
type Lineup struct {
	Players         []Player `json:"players"`
	TotalSalary     int      `json:"total_salary"`
	ProjectedPoints float64  `json:"projected_points"`
}

// CalculateTotalSalary calculates the total salary of all players in the lineup
func (l *Lineup) CalculateTotalSalary() int {
	total := 0
	for _, player := range l.Players {
		total += player.Salary
	}
	l.TotalSalary = total
	return total
}

// PositionCounts returns how many players fill each position.
func (l *Lineup) PositionCounts() map[Position]int {
	counts := make(map[Position]int, len(Positions))
	for _, player := range l.Players {
		counts[player.Position]++
	}
	return counts
}

// BaselinePoints sums the season FPPG of the lineup.
func (l *Lineup) BaselinePoints() float64 {
	total := 0.0
	for _, player := range l.Players {
		total += player.FPPG
	}
	return total
}
