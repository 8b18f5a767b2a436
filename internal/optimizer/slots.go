package optimizer

import (
	"github.com/stitts-dev/nba-lineup/internal/models"
)

// DefaultSalaryCap is the FanDuel NBA salary cap.
const DefaultSalaryCap = 60000

// PositionSlot represents a position slot in a lineup
type PositionSlot struct {
	SlotName string
	Position models.Position
	Priority int // Fill order (1 = first)
}

// FanDuelNBASlots returns the nine FanDuel classic slots. There is no flex slot.
func FanDuelNBASlots() []PositionSlot {
	return []PositionSlot{
		{SlotName: "PG", Position: models.PositionPG, Priority: 1},
		{SlotName: "PG", Position: models.PositionPG, Priority: 2},
		{SlotName: "SG", Position: models.PositionSG, Priority: 3},
		{SlotName: "SG", Position: models.PositionSG, Priority: 4},
		{SlotName: "SF", Position: models.PositionSF, Priority: 5},
		{SlotName: "SF", Position: models.PositionSF, Priority: 6},
		{SlotName: "PF", Position: models.PositionPF, Priority: 7},
		{SlotName: "PF", Position: models.PositionPF, Priority: 8},
		{SlotName: "C", Position: models.PositionC, Priority: 9},
	}
}

// Rules are the roster constraints of a contest.
type Rules struct {
	SalaryCap int
	Slots     []PositionSlot
}

func FanDuelRules(salaryCap int) Rules {
	if salaryCap <= 0 {
		salaryCap = DefaultSalaryCap
	}
	return Rules{SalaryCap: salaryCap, Slots: FanDuelNBASlots()}
}

// Requirements counts the slots per position.
func (r Rules) Requirements() map[models.Position]int {
	counts := make(map[models.Position]int, len(models.Positions))
	for _, slot := range r.Slots {
		counts[slot.Position]++
	}
	return counts
}

// RosterSize is the number of players a lineup holds.
func (r Rules) RosterSize() int {
	return len(r.Slots)
}
