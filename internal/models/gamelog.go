package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Box-score columns as labelled in the game log header row.
const (
	StatPoints    = "PTS"
	StatRebounds  = "TRB"
	StatAssists   = "AST"
	StatBlocks    = "BLK"
	StatSteals    = "STL"
	StatTurnovers = "TOV"
)

// ScoringStats are the columns every usable game row must carry as numbers.
var ScoringStats = []string{StatPoints, StatRebounds, StatAssists, StatBlocks, StatSteals, StatTurnovers}

// GameRow is one game from a player's log. Cells keeps every column's text;
// Values holds the columns that parsed as numbers.
type GameRow struct {
	Cells  map[string]string  `json:"cells,omitempty"`
	Values map[string]float64 `json:"values"`
}

// NewGameRow pairs header names with cell texts and coerces numeric cells.
func NewGameRow(columns, cells []string) GameRow {
	row := GameRow{
		Cells:  make(map[string]string, len(columns)),
		Values: make(map[string]float64, len(columns)),
	}
	for i, column := range columns {
		if i >= len(cells) {
			break
		}
		text := strings.TrimSpace(cells[i])
		row.Cells[column] = text
		if v, ok := ParseNumber(text); ok {
			row.Values[column] = v
		}
	}
	return row
}

// Stat returns a numeric column.
func (r GameRow) Stat(name string) (float64, error) {
	v, ok := r.Values[name]
	if !ok {
		if text, present := r.Cells[name]; present {
			return 0, fmt.Errorf("stat %s is not numeric: %q", name, text)
		}
		return 0, fmt.Errorf("stat %s missing", name)
	}
	return v, nil
}

// HasNumeric reports whether every named column is present and numeric.
func (r GameRow) HasNumeric(names []string) bool {
	for _, name := range names {
		if _, ok := r.Values[name]; !ok {
			return false
		}
	}
	return true
}

// ParseNumber accepts plain decimals and signed values such as "+7".
func ParseNumber(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
