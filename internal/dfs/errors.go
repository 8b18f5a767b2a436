// Package dfs holds the error taxonomy shared by the projection pipeline and
// the lineup optimizer.
package dfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means every profile URL heuristic was tried without
	// reaching a page that carries a game log table.
	ErrNotFound = errors.New("player profile not found")
	// ErrParse means a page was fetched but held no usable stats table.
	ErrParse = errors.New("game log table not found")
	// ErrNetwork means the fetch itself failed.
	ErrNetwork = errors.New("network error")
	// ErrInfeasible means no roster satisfies the salary cap and position counts.
	ErrInfeasible = errors.New("no feasible lineup")
)

// IsRecoverable reports whether a per-player failure should fall back to the
// player's baseline FPPG instead of aborting the run.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrParse) || errors.Is(err, ErrNetwork)
}

// NetworkError wraps a transport failure or an unexpected HTTP status.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d for %s", ErrNetwork, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s: %s: %v", ErrNetwork, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}
