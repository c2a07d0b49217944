package sapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Solver categories reported in SolverInfo.Properties.Category.
const (
	CategoryQPU      = "qpu"
	CategoryHybrid   = "hybrid"
	CategorySoftware = "software"
)

// SolverInfo is one entry of the solver listing.
type SolverInfo struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Description string     `json:"description"`
	AvgLoad     float64    `json:"avg_load"`
	Properties  Properties `json:"properties"`
}

// Properties are the solver properties the client relies on.
type Properties struct {
	Category              string   `json:"category"`
	NumQubits             int      `json:"num_qubits"`
	Qubits                []int    `json:"qubits"`
	Couplers              [][2]int `json:"couplers"`
	SupportedProblemTypes []string `json:"supported_problem_types"`
	ChipID                string   `json:"chip_id"`
	Topology              Topology `json:"topology"`
}

// Topology names the hardware graph family.
type Topology struct {
	Type  string `json:"type"`
	Shape []int  `json:"shape"`
}

// Online reports whether the solver accepts problems. A missing status
// counts as online, as older endpoints omit it.
func (s SolverInfo) Online() bool {
	return s.Status == "" || strings.EqualFold(s.Status, "ONLINE")
}

// Category returns the solver category, inferring it from the id when the
// property is absent.
func (s SolverInfo) Category() string {
	if s.Properties.Category != "" {
		return strings.ToLower(s.Properties.Category)
	}
	switch {
	case strings.Contains(strings.ToLower(s.ID), "hybrid"):
		return CategoryHybrid
	case len(s.Properties.Qubits) > 0:
		return CategoryQPU
	default:
		return CategorySoftware
	}
}

// QPU reports whether the solver is a quantum processing unit.
func (s SolverInfo) QPU() bool { return s.Category() == CategoryQPU }

// Hybrid reports whether the solver is a hybrid solver.
func (s SolverInfo) Hybrid() bool { return s.Category() == CategoryHybrid }

// Accepts reports whether the solver lists problemType (or lists nothing).
func (s SolverInfo) Accepts(problemType string) bool {
	if len(s.Properties.SupportedProblemTypes) == 0 {
		return true
	}
	for _, t := range s.Properties.SupportedProblemTypes {
		if t == problemType {
			return true
		}
	}

	return false
}

// Filter selects solvers. Online keeps only online solvers. QPU and Hybrid
// select categories; when both are false every category is kept.
type Filter struct {
	Online bool
	QPU    bool
	Hybrid bool
}

// DefaultFilter lists online standalone QPUs, no hybrid solvers.
var DefaultFilter = Filter{Online: true, QPU: true, Hybrid: false}

// Match reports whether s passes the filter.
func (f Filter) Match(s SolverInfo) bool {
	if f.Online && !s.Online() {
		return false
	}
	if !f.QPU && !f.Hybrid {
		return true
	}

	return (f.QPU && s.QPU()) || (f.Hybrid && s.Hybrid())
}

// Solvers lists the solvers matching f, ordered by id.
func (c *Client) Solvers(ctx context.Context, f Filter) ([]SolverInfo, error) {
	var all []SolverInfo
	if err := c.do(ctx, http.MethodGet, "solvers/remote/", nil, &all); err != nil {
		return nil, err
	}

	out := make([]SolverInfo, 0, len(all))
	for _, s := range all {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	c.log.WithField("solvers", len(out)).Debug("listed solvers")

	return out, nil
}

// Solver fetches one solver by id.
func (c *Client) Solver(ctx context.Context, id string) (SolverInfo, error) {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, "/?#") {
		return SolverInfo{}, fmt.Errorf("sapi: solver id %q: %w", id, ErrSolverNotFound)
	}

	var info SolverInfo
	err := c.do(ctx, http.MethodGet, "solvers/remote/"+url.PathEscape(id)+"/", nil, &info)
	var he *HTTPError
	if errors.As(err, &he) && he.StatusCode == http.StatusNotFound {
		return SolverInfo{}, fmt.Errorf("sapi: solver %q: %w", id, ErrSolverNotFound)
	}
	if err != nil {
		return SolverInfo{}, err
	}

	return info, nil
}
