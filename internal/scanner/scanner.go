// Package scanner orchestrates BWB searches across ticker and expiry
// partitions of a chain and ranks the combined results.
package scanner

import (
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/openquant/bwb-scanner/internal/chain"
	"github.com/openquant/bwb-scanner/internal/models"
	"github.com/openquant/bwb-scanner/internal/strategy"
)

// Scanner runs the combination search per expiry partition and merges the
// results into a single score-ranked list. An optional ResultCache memoizes
// (ticker, expiry) requests; it never changes result content versus an
// uncached call.
type Scanner struct {
	search *strategy.Search
	cache  *ResultCache
	logger *logrus.Logger
}

// NewScanner creates a Scanner with the given policy. cache may be nil to
// disable memoization.
func NewScanner(policy strategy.Policy, cache *ResultCache, logger *logrus.Logger) *Scanner {
	return &Scanner{
		search: strategy.NewSearch(policy),
		cache:  cache,
		logger: logger,
	}
}

// Scan screens one ticker and one expiry of the chain. The result is sorted
// by score descending, ties keeping emission order. An unknown ticker or a
// chain with no survivors yields an empty, non-nil slice.
func (s *Scanner) Scan(rows []models.Contract, ticker, expiry string) []models.BWBPosition {
	key := Key(ticker, expiry)
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			s.logger.WithField("key", key).Debug("Scan served from cache")
			return hit
		}
	}

	positions := s.scanExpiry(rows, ticker, expiry)
	sortByScore(positions)

	if s.cache != nil {
		s.cache.Put(key, positions)
	}
	return positions
}

// ScanAll screens every expiry of the ticker and merges the results into one
// score-ranked list. Expiry partitions are searched concurrently but merged
// in ascending expiry order before the stable sort, so output is
// deterministic for a given chain.
func (s *Scanner) ScanAll(rows []models.Contract, ticker string) []models.BWBPosition {
	key := Key(ticker, "")
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			s.logger.WithField("key", key).Debug("ScanAll served from cache")
			return hit
		}
	}

	expiries := chain.Expiries(rows, ticker)
	partitions := make([][]models.BWBPosition, len(expiries))

	var g errgroup.Group
	for i, expiry := range expiries {
		i, expiry := i, expiry
		g.Go(func() error {
			partitions[i] = s.scanExpiry(rows, ticker, expiry)
			return nil
		})
	}
	// The search is pure computation; the group carries no errors.
	_ = g.Wait()

	combined := make([]models.BWBPosition, 0)
	for _, part := range partitions {
		combined = append(combined, part...)
	}
	sortByScore(combined)

	if s.cache != nil {
		s.cache.Put(key, combined)
	}
	return combined
}

// scanExpiry filters the chain down to one calls-only partition and runs the
// combination search over it.
func (s *Scanner) scanExpiry(rows []models.Contract, ticker, expiry string) []models.BWBPosition {
	partition := chain.CallsOnly(chain.ByTickerExpiry(rows, ticker, expiry))
	if len(partition) == 0 {
		return []models.BWBPosition{}
	}
	return s.search.FindAll(partition)
}

// sortByScore sorts positions by score descending; the sort is stable so
// ties keep their emission order.
func sortByScore(positions []models.BWBPosition) {
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].Score > positions[j].Score
	})
}
