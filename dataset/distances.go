package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/qroute/distance"
)

// ErrMalformed is returned for rows that cannot be parsed.
var ErrMalformed = errors.New("dataset: malformed row")

// ReadDistances parses a from,to,distance CSV stream into a distance.Table.
// The first row is treated as a header and skipped. Fields are trimmed.
func ReadDistances(r io.Reader) (*distance.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	tbl := distance.NewTable()
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("distances line %d: %w: %v", line, ErrMalformed, err)
		}
		if line == 1 {
			continue // header
		}

		d, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("distances line %d: %w: %v", line, ErrMalformed, err)
		}
		if err = tbl.Set(strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]), d); err != nil {
			return nil, fmt.Errorf("distances line %d: %w", line, err)
		}
	}

	return tbl, nil
}

// LoadDistances opens path and reads it with ReadDistances.
func LoadDistances(path string) (*distance.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open distances: %w", err)
	}
	defer f.Close()

	return ReadDistances(f)
}
