package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
	"github.com/stitts-dev/nba-lineup/internal/models"
)

// DefaultGameWindow is how many recent games a projection looks at.
const DefaultGameWindow = 10

// GameLog is the parsed stats table of one profile page.
type GameLog struct {
	URL     string
	Columns []string
	// Rows holds the complete game rows in page order, oldest first.
	Rows []models.GameRow
	// Dropped counts rows skipped for missing or non-numeric stats.
	Dropped int
}

// Recent returns the last n rows, or all of them when fewer exist.
func (g *GameLog) Recent(n int) []models.GameRow {
	if n <= 0 || len(g.Rows) <= n {
		return g.Rows
	}
	return g.Rows[len(g.Rows)-n:]
}

// GameLogExtractor fetches game log pages and pulls out recent games.
type GameLogExtractor struct {
	fetcher PageFetcher
	window  int
}

func NewGameLogExtractor(fetcher PageFetcher, window int) *GameLogExtractor {
	if window <= 0 {
		window = DefaultGameWindow
	}
	return &GameLogExtractor{fetcher: fetcher, window: window}
}

func (e *GameLogExtractor) Window() int {
	return e.window
}

// Extract returns at most Window() complete games from the page at url, most
// recent last.
func (e *GameLogExtractor) Extract(ctx context.Context, url string) ([]models.GameRow, error) {
	log, err := e.Load(ctx, url)
	if err != nil {
		return nil, err
	}
	return log.Recent(e.window), nil
}

// Load fetches and parses the whole table.
func (e *GameLogExtractor) Load(ctx context.Context, url string) (*GameLog, error) {
	page, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	log, err := ParseGameLog(page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	log.URL = url
	return log, nil
}

// Sports-reference pages ship secondary tables inside HTML comments.
var commentMarkers = strings.NewReplacer("<!--", "", "-->", "")

// ParseGameLog locates the game log table and returns its complete rows.
// The regular season table (#pgl_basic) wins; otherwise the first table whose
// header row names every scoring column is used.
func ParseGameLog(page string) (*GameLog, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(commentMarkers.Replace(page)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dfs.ErrParse, err)
	}

	var log *GameLog
	for _, selector := range []string{"table#pgl_basic", "table"} {
		doc.Find(selector).EachWithBreak(func(_ int, table *goquery.Selection) bool {
			log = parseStatsTable(table)
			return log == nil
		})
		if log != nil {
			return log, nil
		}
	}
	return nil, dfs.ErrParse
}

func parseStatsTable(table *goquery.Selection) *GameLog {
	rows := table.Find("tr")
	headerIdx := -1
	var columns []string

	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		ths := tr.Find("th")
		if ths.Length() == 0 {
			return true
		}
		labels := ths.Map(func(_ int, th *goquery.Selection) string {
			return strings.TrimSpace(th.Text())
		})
		// the first header cell labels the row number column
		labels = labels[1:]
		if !containsAll(labels, models.ScoringStats) {
			return true
		}
		headerIdx = i
		columns = columnNames(labels)
		return false
	})
	if headerIdx < 0 {
		return nil
	}

	log := &GameLog{Columns: columns, Rows: []models.GameRow{}}
	rows.Each(func(i int, tr *goquery.Selection) {
		if i <= headerIdx || tr.HasClass("thead") {
			return
		}
		tds := tr.Find("td")
		if tds.Length() == 0 {
			// repeated header or section label
			return
		}
		if tds.Length() < len(columns) {
			log.Dropped++
			return
		}
		cells := tds.Map(func(_ int, td *goquery.Selection) string {
			return td.Text()
		})
		if tr.Find("th").Length() == 0 && len(cells) > len(columns) {
			// row number rendered as td
			cells = cells[1:]
		}
		row := models.NewGameRow(columns, cells)
		if !row.HasNumeric(models.ScoringStats) {
			log.Dropped++
			return
		}
		log.Rows = append(log.Rows, row)
	})
	return log
}

// columnNames gives blank and repeated header labels positional names so
// every column has a distinct key.
func columnNames(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	columns := make([]string, len(labels))
	for i, label := range labels {
		if label == "" || seen[label] {
			label = fmt.Sprintf("col_%d", i+1)
		}
		seen[label] = true
		columns[i] = label
	}
	return columns
}

func containsAll(labels, required []string) bool {
	present := make(map[string]bool, len(labels))
	for _, label := range labels {
		present[label] = true
	}
	for _, name := range required {
		if !present[name] {
			return false
		}
	}
	return true
}
