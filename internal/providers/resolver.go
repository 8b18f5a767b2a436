package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
	"github.com/stitts-dev/nba-lineup/internal/models"
)

// DefaultMaxSuffixBumps bounds how far the numeric slug suffix is incremented.
const DefaultMaxSuffixBumps = 4

// ProfileKey is the site's player slug: <letter>/<lastKey><firstKey><suffix>.
type ProfileKey struct {
	Letter   string
	LastKey  string
	FirstKey string
	Suffix   int
}

// GuessProfileKey derives the usual slug: the first five letters of the last
// name, the first two of the first name, suffix 01.
func GuessProfileKey(firstName, lastName string) (ProfileKey, bool) {
	last := models.URLKey(lastName)
	first := models.URLKey(firstName)
	if last == "" {
		return ProfileKey{}, false
	}
	return ProfileKey{
		Letter:   last[:1],
		LastKey:  truncate(last, 5),
		FirstKey: truncate(first, 2),
		Suffix:   1,
	}, true
}

func (k ProfileKey) Slug() string {
	return fmt.Sprintf("%s/%s%s%02d", k.Letter, k.LastKey, k.FirstKey, k.Suffix)
}

// GameLogURL builds the season game log address for the slug.
func (k ProfileKey) GameLogURL(baseURL string, season int) string {
	return fmt.Sprintf("%s/players/%s/gamelog/%d", strings.TrimRight(baseURL, "/"), k.Slug(), season)
}

// Strategy proposes profile keys to try, given the primary guess and the
// player's names.
type Strategy interface {
	Name() string
	Candidates(primary ProfileKey, firstName, lastName string) []ProfileKey
}

// PrimaryGuess tries the derived slug as is.
type PrimaryGuess struct{}

func (PrimaryGuess) Name() string { return "primary" }

func (PrimaryGuess) Candidates(primary ProfileKey, _, _ string) []ProfileKey {
	return []ProfileKey{primary}
}

// SuffixIncrement walks 02, 03, ... for players who share a slug with an
// earlier player.
type SuffixIncrement struct {
	MaxBumps int
}

func (SuffixIncrement) Name() string { return "suffix_increment" }

func (s SuffixIncrement) Candidates(primary ProfileKey, _, _ string) []ProfileKey {
	keys := make([]ProfileKey, 0, s.MaxBumps)
	for bump := 1; bump <= s.MaxBumps; bump++ {
		key := primary
		key.Suffix = primary.Suffix + bump
		keys = append(keys, key)
	}
	return keys
}

// FirstKeySwap reverses the two first-name letters ("jo" -> "oj") with the
// suffix reset to 01.
type FirstKeySwap struct{}

func (FirstKeySwap) Name() string { return "first_key_swap" }

func (FirstKeySwap) Candidates(primary ProfileKey, _, _ string) []ProfileKey {
	if len(primary.FirstKey) != 2 || primary.FirstKey[0] == primary.FirstKey[1] {
		return nil
	}
	key := primary
	key.FirstKey = string([]byte{primary.FirstKey[1], primary.FirstKey[0]})
	key.Suffix = 1
	return []ProfileKey{key}
}

// LastNameKey replaces the first-name letters with the first two letters of
// the last name, suffix 01.
type LastNameKey struct{}

func (LastNameKey) Name() string { return "last_name_key" }

func (LastNameKey) Candidates(primary ProfileKey, _, lastName string) []ProfileKey {
	last := models.URLKey(lastName)
	if last == "" {
		return nil
	}
	key := primary
	key.FirstKey = truncate(last, 2)
	key.Suffix = 1
	return []ProfileKey{key}
}

// DefaultStrategies is the fixed heuristic order used when no directory entry exists.
func DefaultStrategies(maxSuffixBumps int) []Strategy {
	return []Strategy{
		PrimaryGuess{},
		SuffixIncrement{MaxBumps: maxSuffixBumps},
		FirstKeySwap{},
		LastNameKey{},
	}
}

// Directory maps nicknames to canonical game log URLs.
type Directory interface {
	Lookup(nickname string) (string, bool)
}

// DirectoryMap is an in-memory Directory.
type DirectoryMap map[string]string

func (d DirectoryMap) Lookup(nickname string) (string, bool) {
	url, ok := d[nickname]
	return url, ok && url != ""
}

// Candidate is one URL the resolver will try and the strategy that produced it.
type Candidate struct {
	URL      string
	Strategy string
}

// Resolver finds the game log page for a player: a known URL or directory
// entry first, then the guess strategies in order.
type Resolver struct {
	extractor  *GameLogExtractor
	directory  Directory
	strategies []Strategy
	baseURL    string
	season     int
	logger     *logrus.Entry
}

type ResolverOptions struct {
	BaseURL    string
	Season     int
	Directory  Directory
	Strategies []Strategy
}

func NewResolver(extractor *GameLogExtractor, opts ResolverOptions, logger *logrus.Entry) *Resolver {
	strategies := opts.Strategies
	if strategies == nil {
		strategies = DefaultStrategies(DefaultMaxSuffixBumps)
	}
	return &Resolver{
		extractor:  extractor,
		directory:  opts.Directory,
		strategies: strategies,
		baseURL:    opts.BaseURL,
		season:     opts.Season,
		logger:     logger,
	}
}

// Candidates lists the URLs Resolve would try for a player, in order and
// without repeats.
func (r *Resolver) Candidates(player *models.Player) []Candidate {
	if player.ProfileURL != "" {
		return []Candidate{{URL: player.ProfileURL, Strategy: "profile_url"}}
	}
	if r.directory != nil {
		if url, ok := r.directory.Lookup(player.Nickname); ok {
			return []Candidate{{URL: url, Strategy: "directory"}}
		}
	}

	primary, ok := GuessProfileKey(player.FirstName, player.LastName)
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []Candidate
	for _, strategy := range r.strategies {
		for _, key := range strategy.Candidates(primary, player.FirstName, player.LastName) {
			url := key.GameLogURL(r.baseURL, r.season)
			if seen[url] {
				continue
			}
			seen[url] = true
			candidates = append(candidates, Candidate{URL: url, Strategy: strategy.Name()})
		}
	}
	return candidates
}

// Resolve returns the first candidate page holding a game log table. Missing
// pages and pages without a table move on to the next candidate; any other
// network failure stops resolution.
func (r *Resolver) Resolve(ctx context.Context, player *models.Player) (*GameLog, error) {
	candidates := r.Candidates(player)
	for _, candidate := range candidates {
		log, err := r.extractor.Load(ctx, candidate.URL)
		if err == nil {
			r.logger.WithFields(logrus.Fields{
				"player":   player.Nickname,
				"strategy": candidate.Strategy,
				"url":      candidate.URL,
			}).Debug("resolved profile")
			return log, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !IsMissing(err) && !errors.Is(err, dfs.ErrParse) {
			return nil, err
		}
		r.logger.WithFields(logrus.Fields{
			"player":   player.Nickname,
			"strategy": candidate.Strategy,
			"url":      candidate.URL,
		}).Debug("no game log at candidate")
	}
	return nil, fmt.Errorf("%w: %s after %d candidates", dfs.ErrNotFound, player.Nickname, len(candidates))
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
