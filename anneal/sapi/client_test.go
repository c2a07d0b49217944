package sapi_test

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qroute/anneal"
	"github.com/katalvlaran/qroute/anneal/exact"
	"github.com/katalvlaran/qroute/anneal/sapi"
	"github.com/katalvlaran/qroute/matrix"
	"github.com/katalvlaran/qroute/qubo"
)

const testToken = "DEV-0123456789"

// fakeSAPI is an in-memory SAPI endpoint. It answers every problem by
// decoding the qp payload back into a QUBO and solving it exactly.
type fakeSAPI struct {
	t       *testing.T
	solvers []sapi.SolverInfo

	mu        sync.Mutex
	polls     int
	pending   int    // polls answered IN_PROGRESS before completing
	final     string // terminal status, COMPLETED by default
	fail      int    // status code for every request when non-zero
	requests  int
	submitted map[string]any
	answers   map[string]json.RawMessage
}

func newFakeSAPI(t *testing.T) (*fakeSAPI, *httptest.Server) {
	f := &fakeSAPI{t: t, answers: map[string]json.RawMessage{}}
	f.solvers = []sapi.SolverInfo{
		{ID: "Advantage_test", Status: "ONLINE", Properties: grid(9, sapi.CategoryQPU)},
		{ID: "DW_2000Q_test", Status: "OFFLINE", Properties: grid(9, sapi.CategoryQPU)},
		{ID: "hybrid_binary_quadratic_model_version2", Status: "ONLINE", Properties: sapi.Properties{Category: sapi.CategoryHybrid}},
		{ID: "Advantage_small", Status: "ONLINE", Properties: grid(4, sapi.CategoryQPU)},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	return f, srv
}

// grid exposes qubits 0..n-1, fully coupled.
func grid(n int, category string) sapi.Properties {
	p := sapi.Properties{Category: category, NumQubits: n, SupportedProblemTypes: []string{"ising", "qubo"}}
	for i := 0; i < n; i++ {
		p.Qubits = append(p.Qubits, i)
		for j := i + 1; j < n; j++ {
			p.Couplers = append(p.Couplers, [2]int{i, j})
		}
	}

	return p
}

func (f *fakeSAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	if f.fail != 0 {
		w.WriteHeader(f.fail)
		_, _ = io.WriteString(w, `{"error_msg":"forced failure"}`)
		return
	}
	if r.Header.Get("X-Auth-Token") != testToken {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error_msg":"Invalid token or access denied"}`)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/sapi/")
	switch {
	case r.Method == http.MethodGet && path == "solvers/remote/":
		writeJSON(w, f.solvers)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "solvers/remote/"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "solvers/remote/"), "/")
		for _, s := range f.solvers {
			if s.ID == id {
				writeJSON(w, s)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPost && path == "problems/":
		var reqs []map[string]any
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&reqs))
		require.Len(f.t, reqs, 1)
		f.submitted = reqs[0]
		f.answers["p-1"] = f.solve(reqs[0])
		writeJSON(w, []map[string]any{{"id": "p-1", "status": sapi.StatusPending, "solver": reqs[0]["solver"]}})
	case r.Method == http.MethodGet && path == "problems/p-1/":
		f.polls++
		if f.polls <= f.pending {
			writeJSON(w, map[string]any{"id": "p-1", "status": sapi.StatusInProgress})
			return
		}
		final := f.final
		if final == "" {
			final = sapi.StatusCompleted
		}
		body := map[string]any{"id": "p-1", "status": final, "solver": f.submitted["solver"]}
		if final == sapi.StatusCompleted {
			body["answer"] = f.answers["p-1"]
		} else {
			body["error_message"] = "solver error"
		}
		writeJSON(w, body)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// solve rebuilds the QUBO from the qp payload and answers with its two
// lowest-energy assignments, without offset, as a real QPU would.
func (f *fakeSAPI) solve(req map[string]any) json.RawMessage {
	data := req["data"].(map[string]any)
	lin := floats(f.t, data["lin"].(string))
	quad := floats(f.t, data["quad"].(string))

	var props sapi.Properties
	for _, s := range f.solvers {
		if s.ID == req["solver"] {
			props = s.Properties
		}
	}
	var (
		active []int32
		n      int
	)
	for i, v := range lin {
		if !math.IsNaN(v) {
			active = append(active, int32(i))
			n++
		}
	}
	// Brute force over the active qubits.
	type cand struct {
		bits []uint8
		e    float64
	}
	var best []cand
	for mask := 0; mask < 1<<n; mask++ {
		bits := make([]uint8, n)
		e := 0.0
		for i := 0; i < n; i++ {
			bits[i] = uint8(mask >> i & 1)
			if bits[i] == 1 {
				e += lin[active[i]]
			}
		}
		for i, cp := range props.Couplers {
			if bits[cp[0]] == 1 && bits[cp[1]] == 1 {
				e += quad[i]
			}
		}
		best = append(best, cand{bits: bits, e: e})
		// keep the two lowest, first seen wins ties
		for k := len(best) - 1; k > 0 && best[k].e < best[k-1].e; k-- {
			best[k], best[k-1] = best[k-1], best[k]
		}
		if len(best) > 2 {
			best = best[:2]
		}
	}

	var (
		packed   []byte
		energies []float64
	)
	for _, c := range best {
		row := make([]byte, (n+7)/8)
		for i, b := range c.bits {
			if b == 1 {
				row[i/8] |= 1 << (7 - uint(i%8))
			}
		}
		packed = append(packed, row...)
		energies = append(energies, c.e)
	}
	raw, err := json.Marshal(map[string]any{
		"format":           "qp",
		"num_variables":    len(lin),
		"active_variables": int32s(active),
		"solutions":        base64.StdEncoding.EncodeToString(packed),
		"energies":         floatString(energies),
		"num_occurrences":  int32s([]int32{40, 10}),
	})
	require.NoError(f.t, err)

	return raw
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func floats(t *testing.T, s string) []float64 {
	buf, err := base64.StdEncoding.DecodeString(s)
	require.NoError(t, err)
	out := make([]float64, len(buf)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}

	return out
}

func floatString(xs []float64) string {
	buf := make([]byte, 8*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(x))
	}

	return base64.StdEncoding.EncodeToString(buf)
}

func int32s(xs []int32) string {
	buf := make([]byte, 4*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(x))
	}

	return base64.StdEncoding.EncodeToString(buf)
}

func threeCities(t *testing.T) *qubo.QUBO {
	t.Helper()
	dist, err := matrix.NewFromRows([][]float64{
		{0, 2, 4},
		{2, 0, 3},
		{4, 3, 0},
	})
	require.NoError(t, err)
	q, err := qubo.Encode(dist)
	require.NoError(t, err)

	return q
}

func newClient(t *testing.T, url string, opts ...sapi.Option) *sapi.Client {
	t.Helper()
	logger, _ := test.NewNullLogger()
	opts = append([]sapi.Option{
		sapi.WithLogger(logger),
		sapi.WithPollInterval(time.Millisecond),
	}, opts...)
	c, err := sapi.New(url+"/sapi", testToken, opts...)
	require.NoError(t, err)

	return c
}

func TestNew(t *testing.T) {
	_, err := sapi.New("", " ")
	require.ErrorIs(t, err, sapi.ErrNoToken)

	_, err = sapi.New("ftp://example.com", testToken)
	require.Error(t, err)

	c, err := sapi.New("", testToken, sapi.WithSolver("Advantage_system4.1"))
	require.NoError(t, err)
	require.Equal(t, "Advantage_system4.1", c.Name())
}

func TestSolvers_Filter(t *testing.T) {
	_, srv := newFakeSAPI(t)
	c := newClient(t, srv.URL)

	got, err := c.Solvers(context.Background(), sapi.DefaultFilter)
	require.NoError(t, err)
	ids := []string{}
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	require.Equal(t, []string{"Advantage_small", "Advantage_test"}, ids)

	got, err = c.Solvers(context.Background(), sapi.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 4)

	got, err = c.Solvers(context.Background(), sapi.Filter{Online: true, Hybrid: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Hybrid())
}

func TestSolver_NotFound(t *testing.T) {
	_, srv := newFakeSAPI(t)
	c := newClient(t, srv.URL)

	_, err := c.Solver(context.Background(), "nope")
	require.ErrorIs(t, err, sapi.ErrSolverNotFound)
	_, err = c.Solver(context.Background(), "../problems")
	require.ErrorIs(t, err, sapi.ErrSolverNotFound)
}

func TestSample_EndToEnd(t *testing.T) {
	f, srv := newFakeSAPI(t)
	f.pending = 2
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	c := newClient(t, srv.URL, sapi.WithSolver("Advantage_test"), sapi.WithLogger(logger))
	q := threeCities(t)

	set, _, err := anneal.Solve(context.Background(), c, q, 3, anneal.Config{NumReads: 50, AnnealingTime: 20 * time.Microsecond, Label: "tsp-3"})
	require.NoError(t, err)
	require.Equal(t, "Advantage_test", set.Solver)
	require.Equal(t, "p-1", set.ProblemID)
	require.Len(t, set.Samples, 2)
	require.Equal(t, 3, f.polls)

	// The remote answer must agree with local exhaustive sampling.
	want, err := exact.Sampler{}.Sample(context.Background(), q, anneal.Params{NumReads: 2})
	require.NoError(t, err)
	for i := range want.Samples {
		require.Equal(t, want.Samples[i].Energy, set.Samples[i].Energy)
		e, err := q.Energy(set.Samples[i].Bits)
		require.NoError(t, err)
		require.Equal(t, e, set.Samples[i].Energy)
	}
	require.Equal(t, 40, set.Samples[0].Occurrences)

	params := f.submitted["params"].(map[string]any)
	require.EqualValues(t, 50, params["num_reads"])
	require.EqualValues(t, 20, params["annealing_time"])
	require.Equal(t, "qubo", f.submitted["type"])
	require.Equal(t, "tsp-3", f.submitted["label"])

	var submittedLogged bool
	for _, e := range hook.AllEntries() {
		if e.Message == "problem submitted" {
			submittedLogged = true
			require.Equal(t, "p-1", e.Data["problem_id"])
		}
	}
	require.True(t, submittedLogged)
}

func TestSample_Failures(t *testing.T) {
	q := threeCities(t)

	cases := []struct {
		name   string
		setup  func(f *fakeSAPI)
		solver string
		token  string
		want   error
	}{
		{name: "offline", solver: "DW_2000Q_test", want: sapi.ErrSolverOffline},
		{name: "unknown solver", solver: "Advantage_missing", want: sapi.ErrSolverNotFound},
		{name: "too small", solver: "Advantage_small", want: sapi.ErrNotEmbeddable},
		{name: "unauthorized", solver: "Advantage_test", token: "wrong", want: sapi.ErrUnauthorized},
		{name: "failed", solver: "Advantage_test", setup: func(f *fakeSAPI) { f.final = sapi.StatusFailed }, want: sapi.ErrProblemFailed},
		{name: "cancelled", solver: "Advantage_test", setup: func(f *fakeSAPI) { f.final = sapi.StatusCancelled }, want: sapi.ErrProblemCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, srv := newFakeSAPI(t)
			if tc.setup != nil {
				tc.setup(f)
			}
			token := testToken
			if tc.token != "" {
				token = tc.token
			}
			logger, _ := test.NewNullLogger()
			c, err := sapi.New(srv.URL+"/sapi", token, sapi.WithLogger(logger), sapi.WithPollInterval(time.Millisecond))
			require.NoError(t, err)

			_, _, err = anneal.Solve(context.Background(), c, q, 3, anneal.Config{Solver: tc.solver})
			var sue *anneal.SolveUnavailableError
			require.ErrorAs(t, err, &sue)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSample_BreakerOpens(t *testing.T) {
	f, srv := newFakeSAPI(t)
	f.fail = http.StatusServiceUnavailable
	c := newClient(t, srv.URL, sapi.WithBreaker(gobreaker.Settings{
		Timeout:     time.Hour,
		ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 2 },
	}))

	for i := 0; i < 2; i++ {
		_, err := c.Solvers(context.Background(), sapi.DefaultFilter)
		var he *sapi.HTTPError
		require.ErrorAs(t, err, &he)
		require.Equal(t, http.StatusServiceUnavailable, he.StatusCode)
		require.Contains(t, err.Error(), "forced failure")
	}

	_, err := c.Solvers(context.Background(), sapi.DefaultFilter)
	require.True(t, errors.Is(err, gobreaker.ErrOpenState))
	require.Equal(t, 2, f.requests, "open breaker must not reach the server")
}

func TestSample_ClientErrorsDoNotTrip(t *testing.T) {
	f, srv := newFakeSAPI(t)
	c, err := sapi.New(srv.URL+"/sapi", "bad-token", sapi.WithBreaker(gobreaker.Settings{
		ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 1 },
	}))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = c.Solvers(context.Background(), sapi.DefaultFilter)
		require.ErrorIs(t, err, sapi.ErrUnauthorized)
	}
	require.Equal(t, 3, f.requests)
}

func TestSample_ContextTimeout(t *testing.T) {
	f, srv := newFakeSAPI(t)
	f.pending = 1 << 30
	c := newClient(t, srv.URL, sapi.WithSolver("Advantage_test"), sapi.WithPollInterval(5*time.Millisecond))

	_, _, err := anneal.Solve(context.Background(), c, threeCities(t), 3, anneal.Config{Timeout: 50 * time.Millisecond})
	var sue *anneal.SolveUnavailableError
	require.ErrorAs(t, err, &sue)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
