// Package chain handles sourcing, cleaning and filtering of options chain
// data before it reaches the scanner.
package chain

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"github.com/openquant/bwb-scanner/internal/models"
)

// ErrNoData indicates a chain source produced zero usable rows.
var ErrNoData = errors.New("options chain contains no usable rows")

// Loader reads options chain CSV data into typed contract rows, normalizing
// and dropping rows that fail market-data validation. Rows are dropped
// silently except for a single warning with the drop count.
type Loader struct {
	logger *logrus.Logger
}

// NewLoader creates a Loader that reports dropped rows through the given logger.
func NewLoader(logger *logrus.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadFile reads and cleans an options chain from a CSV file on disk.
func (l *Loader) LoadFile(path string) ([]models.Contract, error) {
	f, err := os.Open(path) // #nosec G304 -- path is a user-provided chain file
	if err != nil {
		return nil, fmt.Errorf("opening chain file: %w", err)
	}
	defer func() { _ = f.Close() }()

	chain, err := l.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing chain file %s: %w", path, err)
	}
	return chain, nil
}

// Parse decodes CSV rows from r and applies normalization and validation.
// An unknown option type anywhere in the file is a hard error; rows failing
// market-data checks are dropped and counted.
func (l *Loader) Parse(r io.Reader) ([]models.Contract, error) {
	var rows []*models.Contract
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("decoding chain csv: %w", err)
	}

	clean := make([]models.Contract, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		row.Normalize()
		if err := row.CheckType(); err != nil {
			return nil, err
		}
		if err := row.Validate(); err != nil {
			dropped++
			continue
		}
		clean = append(clean, *row)
	}

	if dropped > 0 {
		l.logger.WithField("dropped", dropped).Warn("Removed rows with invalid market data")
	}
	if len(clean) == 0 {
		return nil, ErrNoData
	}
	return clean, nil
}

// ByTickerExpiry returns the rows matching the (uppercased) ticker, and the
// expiry when one is given. An empty expiry matches all expiries.
func ByTickerExpiry(chain []models.Contract, ticker, expiry string) []models.Contract {
	upper := strings.ToUpper(ticker)
	out := make([]models.Contract, 0)
	for _, c := range chain {
		if c.Symbol != upper {
			continue
		}
		if expiry != "" && c.Expiry != expiry {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CallsOnly returns only the call rows of the chain.
func CallsOnly(chain []models.Contract) []models.Contract {
	out := make([]models.Contract, 0, len(chain))
	for _, c := range chain {
		if c.IsCall() {
			out = append(out, c)
		}
	}
	return out
}

// Expiries returns the distinct expiries present for the ticker, in
// ascending order, so multi-expiry scans partition deterministically.
func Expiries(chain []models.Contract, ticker string) []string {
	upper := strings.ToUpper(ticker)
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, c := range chain {
		if c.Symbol != upper || seen[c.Expiry] {
			continue
		}
		seen[c.Expiry] = true
		out = append(out, c.Expiry)
	}
	sort.Strings(out)
	return out
}
