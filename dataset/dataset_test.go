package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/qroute/dataset"
	"github.com/katalvlaran/qroute/distance"
	"github.com/stretchr/testify/require"
)

const distancesCSV = `from,to,distance
DNK, NLD, 420
NLD, DNK, 420
DNK,NOR,350
`

const countriesCSV = `name,code
Denmark, DNK
Netherlands, NLD
"Korea, Republic of", KOR
`

func TestReadDistances(t *testing.T) {
	tbl, err := dataset.ReadDistances(strings.NewReader(distancesCSV))
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())

	d, ok := tbl.Lookup("DNK", "NOR")
	require.True(t, ok)
	require.Equal(t, 350.0, d)
	_, ok = tbl.Lookup("NOR", "DNK")
	require.False(t, ok)
}

func TestReadDistances_Malformed(t *testing.T) {
	_, err := dataset.ReadDistances(strings.NewReader("from,to,distance\nA,B,far\n"))
	require.ErrorIs(t, err, dataset.ErrMalformed)

	_, err = dataset.ReadDistances(strings.NewReader("from,to,distance\nA,B\n"))
	require.ErrorIs(t, err, dataset.ErrMalformed)

	_, err = dataset.ReadDistances(strings.NewReader("from,to,distance\nA,B,-3\n"))
	require.ErrorIs(t, err, distance.ErrInvalidDistance)
}

func TestReadCountries(t *testing.T) {
	c, err := dataset.ReadCountries(strings.NewReader(countriesCSV))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	code, err := c.Code("Korea, Republic of")
	require.NoError(t, err)
	require.Equal(t, "KOR", code)

	name, err := c.Name("DNK")
	require.NoError(t, err)
	require.Equal(t, "Denmark", name)

	_, err = c.Code("Atlantis")
	require.ErrorIs(t, err, dataset.ErrUnknownCountry)

	codes, err := c.Codes([]string{"Netherlands", "DNK"})
	require.NoError(t, err)
	require.Equal(t, []string{"NLD", "DNK"}, codes)

	require.Equal(t, []string{"Denmark", "Korea, Republic of", "Netherlands"}, c.Names())
}

func TestReadCountries_Duplicate(t *testing.T) {
	_, err := dataset.ReadCountries(strings.NewReader("name,code\nDenmark,DNK\nDanmark,DNK\n"))
	require.ErrorIs(t, err, dataset.ErrMalformed)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	dp := filepath.Join(dir, "distances.csv")
	cp := filepath.Join(dir, "countries.csv")
	require.NoError(t, os.WriteFile(dp, []byte(distancesCSV), 0o600))
	require.NoError(t, os.WriteFile(cp, []byte(countriesCSV), 0o600))

	tbl, err := dataset.LoadDistances(dp)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())

	c, err := dataset.LoadCountries(cp)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	_, err = dataset.LoadDistances(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
}
