package sapi

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/katalvlaran/qroute/qubo"
)

// qpData is the "qp" problem payload.
type qpData struct {
	Format string `json:"format"`
	Lin    string `json:"lin"`
	Quad   string `json:"quad"`
}

// qpAnswer is the "qp" answer payload.
type qpAnswer struct {
	Format          string `json:"format"`
	NumVariables    int    `json:"num_variables"`
	ActiveVariables string `json:"active_variables"`
	Solutions       string `json:"solutions"`
	Energies        string `json:"energies"`
	NumOccurrences  string `json:"num_occurrences"`
}

// encodeQP lays q out on the solver graph. Variable v is qubit v. Every
// variable must be a working qubit and every coupling a working coupler.
//
// Complexity: O(num_qubits + couplers + terms).
func encodeQP(q *qubo.QUBO, props Properties) (qpData, error) {
	numQubits := props.NumQubits
	for _, qb := range props.Qubits {
		if qb+1 > numQubits {
			numQubits = qb + 1
		}
	}
	if q.Vars() > numQubits {
		return qpData{}, fmt.Errorf("%d variables on %d qubits: %w", q.Vars(), numQubits, ErrNotEmbeddable)
	}

	working := make([]bool, numQubits)
	for _, qb := range props.Qubits {
		if qb >= 0 {
			working[qb] = true
		}
	}
	lin := make([]float64, numQubits)
	for i := range lin {
		if !working[i] {
			lin[i] = math.NaN()
		}
	}

	couplerAt := make(map[qubo.Pair]int, len(props.Couplers))
	for i, cp := range props.Couplers {
		u, v := cp[0], cp[1]
		if u > v {
			u, v = v, u
		}
		couplerAt[qubo.Pair{U: u, V: v}] = i
	}
	quad := make([]float64, len(props.Couplers))

	for _, t := range q.Terms() {
		if !working[t.U] || !working[t.V] {
			bad := t.U
			if working[t.U] {
				bad = t.V
			}
			return qpData{}, fmt.Errorf("qubit %d is not working: %w", bad, ErrNotEmbeddable)
		}
		if t.U == t.V {
			lin[t.U] = t.Coeff
			continue
		}
		i, ok := couplerAt[qubo.Pair{U: t.U, V: t.V}]
		if !ok {
			return qpData{}, fmt.Errorf("no coupler between qubits %d and %d: %w", t.U, t.V, ErrNotEmbeddable)
		}
		quad[i] = t.Coeff
	}

	return qpData{
		Format: "qp",
		Lin:    encodeFloat64s(lin),
		Quad:   encodeFloat64s(quad),
	}, nil
}

// decodedAnswer is a qp answer unpacked over its active variables.
type decodedAnswer struct {
	active      []int
	solutions   [][]uint8 // one row per sample, indexed like active
	energies    []float64
	occurrences []int
}

// decodeQP unpacks a qp answer. Solution rows pack the active variables
// MSB-first, each row padded to a whole byte.
func decodeQP(a qpAnswer) (decodedAnswer, error) {
	if a.Format != "" && a.Format != "qp" {
		return decodedAnswer{}, fmt.Errorf("format %q: %w", a.Format, ErrMalformedAnswer)
	}
	activeRaw, err := decodeInt32s(a.ActiveVariables)
	if err != nil {
		return decodedAnswer{}, fmt.Errorf("active_variables: %w", err)
	}
	energies, err := decodeFloat64s(a.Energies)
	if err != nil {
		return decodedAnswer{}, fmt.Errorf("energies: %w", err)
	}
	packed, err := base64.StdEncoding.DecodeString(a.Solutions)
	if err != nil {
		return decodedAnswer{}, fmt.Errorf("solutions: %v: %w", err, ErrMalformedAnswer)
	}

	var (
		out      = decodedAnswer{energies: energies}
		rowBytes = (len(activeRaw) + 7) / 8
		rows     = len(energies)
	)
	if len(packed) != rowBytes*rows {
		return decodedAnswer{}, fmt.Errorf("solutions: %d bytes for %d rows of %d: %w", len(packed), rows, rowBytes, ErrMalformedAnswer)
	}
	out.active = make([]int, len(activeRaw))
	for i, v := range activeRaw {
		out.active[i] = int(v)
	}
	out.solutions = make([][]uint8, rows)
	for r := 0; r < rows; r++ {
		row := packed[r*rowBytes : (r+1)*rowBytes]
		bits := make([]uint8, len(activeRaw))
		for i := range bits {
			bits[i] = row[i/8] >> (7 - uint(i%8)) & 1
		}
		out.solutions[r] = bits
	}

	if a.NumOccurrences == "" {
		out.occurrences = make([]int, rows)
		for i := range out.occurrences {
			out.occurrences[i] = 1
		}
		return out, nil
	}
	occ, err := decodeInt32s(a.NumOccurrences)
	if err != nil {
		return decodedAnswer{}, fmt.Errorf("num_occurrences: %w", err)
	}
	if len(occ) != rows {
		return decodedAnswer{}, fmt.Errorf("num_occurrences: %d for %d rows: %w", len(occ), rows, ErrMalformedAnswer)
	}
	out.occurrences = make([]int, rows)
	for i, v := range occ {
		out.occurrences[i] = int(v)
	}

	return out, nil
}

func encodeFloat64s(xs []float64) string {
	buf := make([]byte, 8*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(x))
	}

	return base64.StdEncoding.EncodeToString(buf)
}

func decodeFloat64s(s string) ([]float64, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(buf)%8 != 0 {
		return nil, fmt.Errorf("%d bytes, %v: %w", len(buf), err, ErrMalformedAnswer)
	}
	out := make([]float64, len(buf)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}

	return out, nil
}

func decodeInt32s(s string) ([]int32, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(buf)%4 != 0 {
		return nil, fmt.Errorf("%d bytes, %v: %w", len(buf), err, ErrMalformedAnswer)
	}
	out := make([]int32, len(buf)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
	}

	return out, nil
}
