package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	for _, s := range []string{"PG", "sg", " SF ", "PF", "c"} {
		_, err := ParsePosition(s)
		assert.NoError(t, err, s)
	}

	_, err := ParsePosition("G")
	assert.Error(t, err)
	_, err = ParsePosition("PG/SG")
	assert.Error(t, err)
}

func TestNameSanitizing(t *testing.T) {
	assert.Equal(t, "DAngelo", SanitizeName("D'Angelo"))
	assert.Equal(t, "Hardaway Jr", SanitizeName("Hardaway Jr."))
	assert.Equal(t, "LeBronJames", Nickname("LeBron James"))
	assert.Equal(t, "LukaDoncic", Nickname("Luka Dončić"))
	assert.Equal(t, "ONeal", Nickname("O'Neal"))
	assert.Equal(t, "doncic", URLKey("Dončić"))
	assert.Equal(t, "hardawayjr", URLKey("Hardaway Jr"))
}

func TestNewPlayer_StartsAtBaseline(t *testing.T) {
	p := NewPlayer("Karl-Anthony", "Towns", "Karl-Anthony Towns", PositionC, 10200, 50.25)

	assert.Equal(t, "KarlAnthony", p.FirstName)
	assert.Equal(t, "KarlAnthonyTowns", p.Nickname)
	assert.Equal(t, 50.25, p.ModelFPPG)
	assert.Equal(t, SourceBaseline, p.ProjectionSource)
	assert.Equal(t, "KarlAnthony Towns", p.FullName())
}

func TestNewGameRow(t *testing.T) {
	columns := []string{"Date", "MP", "PTS", "TRB", "+/-", "FG%"}
	row := NewGameRow(columns, []string{"2019-02-21", "34:12", "28", " 7 ", "+5", ""})

	pts, err := row.Stat("PTS")
	require.NoError(t, err)
	assert.Equal(t, 28.0, pts)

	trb, err := row.Stat("TRB")
	require.NoError(t, err)
	assert.Equal(t, 7.0, trb)

	pm, err := row.Stat("+/-")
	require.NoError(t, err)
	assert.Equal(t, 5.0, pm)

	_, err = row.Stat("MP")
	assert.Error(t, err, "clock strings are kept as text")
	assert.Equal(t, "34:12", row.Cells["MP"])

	_, err = row.Stat("AST")
	assert.Error(t, err)

	assert.True(t, row.HasNumeric([]string{"PTS", "TRB"}))
	assert.False(t, row.HasNumeric([]string{"PTS", "FG%"}))
}

func TestLineupTotals(t *testing.T) {
	lineup := Lineup{Players: []Player{
		{Position: PositionPG, Salary: 8000, FPPG: 40},
		{Position: PositionPG, Salary: 5000, FPPG: 25.5},
		{Position: PositionC, Salary: 9000, FPPG: 44},
	}}

	assert.Equal(t, 22000, lineup.CalculateTotalSalary())
	assert.Equal(t, 22000, lineup.TotalSalary)
	assert.InDelta(t, 109.5, lineup.BaselinePoints(), 1e-9)
	assert.Equal(t, 2, lineup.PositionCounts()[PositionPG])
	assert.Equal(t, 1, lineup.PositionCounts()[PositionC])
}
