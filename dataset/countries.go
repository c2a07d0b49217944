package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUnknownCountry is returned when a name or code is not in the directory.
var ErrUnknownCountry = errors.New("dataset: unknown country")

// Countries is a bidirectional name <-> code directory.
type Countries struct {
	byName map[string]string
	byCode map[string]string
}

// ReadCountries parses a name,code CSV stream. The first row is a header.
// A duplicate name or code is rejected as malformed.
func ReadCountries(r io.Reader) (*Countries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	c := &Countries{byName: make(map[string]string), byCode: make(map[string]string)}
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("countries line %d: %w: %v", line, ErrMalformed, err)
		}
		if line == 1 {
			continue
		}

		name, code := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if name == "" || code == "" {
			return nil, fmt.Errorf("countries line %d: %w: empty field", line, ErrMalformed)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("countries line %d: %w: duplicate name %q", line, ErrMalformed, name)
		}
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("countries line %d: %w: duplicate code %q", line, ErrMalformed, code)
		}
		c.byName[name] = code
		c.byCode[code] = name
	}

	return c, nil
}

// LoadCountries opens path and reads it with ReadCountries.
func LoadCountries(path string) (*Countries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open countries: %w", err)
	}
	defer f.Close()

	return ReadCountries(f)
}

// Code returns the code for a display name. Matching is exact.
func (c *Countries) Code(name string) (string, error) {
	code, ok := c.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, name)
	}

	return code, nil
}

// Name returns the display name for a code.
func (c *Countries) Name(code string) (string, error) {
	name, ok := c.byCode[code]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, code)
	}

	return name, nil
}

// Codes resolves a list of names or codes to codes, preserving order.
// Each entry is tried as a display name first, then as a code.
func (c *Countries) Codes(entries []string) ([]string, error) {
	out := make([]string, len(entries))
	for i, e := range entries {
		if code, ok := c.byName[e]; ok {
			out[i] = code
			continue
		}
		if _, ok := c.byCode[e]; ok {
			out[i] = e
			continue
		}

		return nil, fmt.Errorf("%w: %q", ErrUnknownCountry, e)
	}

	return out, nil
}

// Names returns every display name, sorted.
func (c *Countries) Names() []string {
	out := make([]string, 0, len(c.byName))
	for n := range c.byName {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}

// Len returns the number of countries.
func (c *Countries) Len() int { return len(c.byName) }
