package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
)

func TestParseGameLog_PrefersRegularSeasonTable(t *testing.T) {
	page := "<html><body>" +
		gameLogTable("pgl_playoffs", uniformGames(3, line(1, 1, 1, 1, 1, 1))) +
		gameLogTable("pgl_basic", uniformGames(5, line(30, 10, 5, 1, 2, 3))) +
		"</body></html>"

	log, err := ParseGameLog(page)
	require.NoError(t, err)
	require.Len(t, log.Rows, 5)
	pts, err := log.Rows[0].Stat("PTS")
	require.NoError(t, err)
	assert.Equal(t, 30.0, pts)
	assert.Equal(t, []string{"Date", "Opp", "MP", "PTS", "TRB", "AST", "BLK", "STL", "TOV"}, log.Columns)
}

func TestParseGameLog_FindsCommentedTable(t *testing.T) {
	page := "<html><body><div><!--" + gameLogTable("pgl_other", uniformGames(4, line(20, 5, 5, 0, 1, 2))) + "--></div></body></html>"

	log, err := ParseGameLog(page)
	require.NoError(t, err)
	assert.Len(t, log.Rows, 4)
}

func TestParseGameLog_SkipsRepeatedHeaders(t *testing.T) {
	log, err := ParseGameLog(gameLogPage(uniformGames(45, line(10, 4, 3, 0, 1, 1))))
	require.NoError(t, err)
	assert.Len(t, log.Rows, 45)
	assert.Zero(t, log.Dropped)
}

func TestParseGameLog_DropsInactiveAndPartialRows(t *testing.T) {
	games := uniformGames(12, line(10, 4, 3, 0, 1, 1))
	games[3] = statLine{pts: "Inactive"}
	games[7].tov = ""

	log, err := ParseGameLog(gameLogPage(games))
	require.NoError(t, err)
	assert.Len(t, log.Rows, 10)
	assert.Equal(t, 2, log.Dropped)
	for _, row := range log.Rows {
		_, err := row.Stat("TOV")
		assert.NoError(t, err)
	}
}

func TestParseGameLog_DropsShortRows(t *testing.T) {
	page := `<table id="pgl_basic"><tr><th>Rk</th><th>PTS</th><th>TRB</th><th>AST</th><th>BLK</th><th>STL</th><th>TOV</th></tr>` +
		`<tr><th>1</th><td colspan="6">Did Not Dress</td></tr>` +
		`<tr><th>2</th><td>12</td><td>3</td><td>4</td><td>0</td><td>1</td><td>2</td></tr></table>`

	log, err := ParseGameLog(page)
	require.NoError(t, err)
	assert.Len(t, log.Rows, 1)
	assert.Equal(t, 1, log.Dropped)
}

func TestParseGameLog_NoTable(t *testing.T) {
	_, err := ParseGameLog("<html><body><p>Page Not Found</p></body></html>")
	assert.ErrorIs(t, err, dfs.ErrParse)

	_, err = ParseGameLog(`<table><tr><th>Rk</th><th>PTS</th><th>AST</th></tr><tr><th>1</th><td>3</td><td>4</td></tr></table>`)
	assert.ErrorIs(t, err, dfs.ErrParse, "table without every scoring column")
}

func TestGameLogExtractor_ReturnsLastWindow(t *testing.T) {
	games := make([]statLine, 25)
	for i := range games {
		games[i] = line(i, 0, 0, 0, 0, 0)
	}
	url := "https://example.test/players/j/jamesle01/gamelog/2024"
	extractor := NewGameLogExtractor(StaticFetcher{url: gameLogPage(games)}, DefaultGameWindow)

	rows, err := extractor.Extract(context.Background(), url)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	for i, row := range rows {
		pts, err := row.Stat("PTS")
		require.NoError(t, err)
		assert.Equal(t, float64(15+i), pts, "chronological order kept")
	}
}

func TestGameLogExtractor_FewerGamesThanWindow(t *testing.T) {
	url := "https://example.test/rookie"
	extractor := NewGameLogExtractor(StaticFetcher{url: gameLogPage(uniformGames(3, line(8, 2, 1, 0, 0, 1)))}, 0)
	assert.Equal(t, DefaultGameWindow, extractor.Window())

	rows, err := extractor.Extract(context.Background(), url)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestGameLogExtractor_Errors(t *testing.T) {
	extractor := NewGameLogExtractor(StaticFetcher{"https://example.test/empty": "<html></html>"}, 10)

	_, err := extractor.Extract(context.Background(), "https://example.test/empty")
	assert.ErrorIs(t, err, dfs.ErrParse)

	_, err = extractor.Extract(context.Background(), "https://example.test/missing")
	assert.ErrorIs(t, err, dfs.ErrNetwork)
	assert.True(t, IsMissing(err))
}

func TestGameLog_Recent(t *testing.T) {
	log, err := ParseGameLog(gameLogPage(uniformGames(4, line(1, 1, 1, 1, 1, 1))))
	require.NoError(t, err)
	assert.Len(t, log.Recent(2), 2)
	assert.Len(t, log.Recent(10), 4)
	assert.Len(t, log.Recent(0), 4)
}
