package providers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
	"github.com/stitts-dev/nba-lineup/internal/models"
)

var playerHref = regexp.MustCompile(`^/players/[a-z]/[a-z0-9]+\.html$`)

// IndexLetters are the player index pages, one per last-name initial.
var IndexLetters = strings.Split("abcdefghijklmnopqrstuvwxyz", "")

// DirectoryCrawler builds nickname to game log URL entries from the site's
// player index. Active players are listed in bold.
type DirectoryCrawler struct {
	fetcher PageFetcher
	baseURL string
	season  int
	logger  *logrus.Entry
}

func NewDirectoryCrawler(fetcher PageFetcher, baseURL string, season int, logger *logrus.Entry) *DirectoryCrawler {
	return &DirectoryCrawler{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		season:  season,
		logger:  logger,
	}
}

// Crawl walks every index letter. A letter that fails to load is logged and
// skipped; only context cancellation aborts the crawl.
func (c *DirectoryCrawler) Crawl(ctx context.Context) ([]models.DirectoryEntry, error) {
	var entries []models.DirectoryEntry
	seen := make(map[string]bool)
	for _, letter := range IndexLetters {
		page, err := c.CrawlLetter(ctx, letter)
		if err != nil {
			if ctx.Err() != nil {
				return entries, ctx.Err()
			}
			c.logger.WithError(err).WithField("letter", letter).Warn("skipping player index page")
			continue
		}
		for _, entry := range page {
			if seen[entry.Nickname] {
				c.logger.WithField("nickname", entry.Nickname).Warn("duplicate nickname in player index, keeping first")
				continue
			}
			seen[entry.Nickname] = true
			entries = append(entries, entry)
		}
	}
	c.logger.WithField("players", len(entries)).Info("player index crawled")
	return entries, nil
}

// CrawlLetter fetches and parses one index page.
func (c *DirectoryCrawler) CrawlLetter(ctx context.Context, letter string) ([]models.DirectoryEntry, error) {
	url := fmt.Sprintf("%s/players/%s/", c.baseURL, letter)
	page, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	entries, err := ParsePlayerIndex(page, c.baseURL, c.season)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return entries, nil
}

// ParsePlayerIndex returns an entry for every bold player link on an index page.
func ParsePlayerIndex(page, baseURL string, season int) ([]models.DirectoryEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(commentMarkers.Replace(page)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dfs.ErrParse, err)
	}

	links := doc.Find("table#players strong a")
	if links.Length() == 0 {
		links = doc.Find(`strong a[href^="/players/"]`)
	}

	baseURL = strings.TrimRight(baseURL, "/")
	entries := []models.DirectoryEntry{}
	links.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !playerHref.MatchString(href) {
			return
		}
		name := strings.TrimSpace(a.Text())
		nickname := models.Nickname(name)
		if nickname == "" {
			return
		}
		entries = append(entries, models.DirectoryEntry{
			Nickname: nickname,
			Name:     name,
			URL:      fmt.Sprintf("%s%s/gamelog/%d", baseURL, strings.TrimSuffix(href, ".html"), season),
		})
	})
	return entries, nil
}
