package sapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/qroute/anneal"
	"github.com/katalvlaran/qroute/qubo"
)

// Remote problem states.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusCancelled  = "CANCELLED"
)

// problemRequest is one submitted problem.
type problemRequest struct {
	Solver string         `json:"solver"`
	Type   string         `json:"type"`
	Data   qpData         `json:"data"`
	Params map[string]any `json:"params"`
	Label  string         `json:"label,omitempty"`
}

// problemStatus is the status (and, once completed, the answer) of a problem.
type problemStatus struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	Solver       string    `json:"solver"`
	Type         string    `json:"type"`
	ErrorMessage string    `json:"error_message"`
	Answer       *qpAnswer `json:"answer"`
}

func (s problemStatus) done() bool {
	switch s.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

var _ anneal.Sampler = (*Client)(nil)

// Sample implements anneal.Sampler: it checks the solver, submits q, polls
// until the problem is done and returns the answer as a SampleSet whose
// energies include q.Offset().
func (c *Client) Sample(ctx context.Context, q *qubo.QUBO, p anneal.Params) (anneal.SampleSet, error) {
	if q == nil {
		return anneal.SampleSet{}, anneal.ErrNilQUBO
	}
	solverID := p.Solver
	if solverID == "" {
		solverID = c.solver
	}
	if solverID == "" {
		return anneal.SampleSet{}, anneal.ErrNoSolver
	}
	log := c.log.WithFields(logrus.Fields{"solver": solverID, "variables": q.Vars()})

	info, err := c.Solver(ctx, solverID)
	if err != nil {
		return anneal.SampleSet{}, err
	}
	if !info.Online() {
		return anneal.SampleSet{}, fmt.Errorf("%s is %s: %w", solverID, info.Status, ErrSolverOffline)
	}
	if !info.Accepts("qubo") {
		return anneal.SampleSet{}, fmt.Errorf("%s: %w", solverID, ErrUnsupportedProblem)
	}
	data, err := encodeQP(q, info.Properties)
	if err != nil {
		return anneal.SampleSet{}, fmt.Errorf("sapi: %s: %w", solverID, err)
	}

	params := map[string]any{
		"num_reads":   p.NumReads,
		"answer_mode": "histogram",
	}
	if p.AnnealingTime > 0 {
		params["annealing_time"] = float64(p.AnnealingTime) / float64(time.Microsecond)
	}
	req := []problemRequest{{
		Solver: solverID,
		Type:   "qubo",
		Data:   data,
		Params: params,
		Label:  p.Label,
	}}

	var submitted []problemStatus
	if err = c.do(ctx, http.MethodPost, "problems/", req, &submitted); err != nil {
		return anneal.SampleSet{}, err
	}
	if len(submitted) != 1 || submitted[0].ID == "" {
		return anneal.SampleSet{}, fmt.Errorf("sapi: submit answered %d problems: %w", len(submitted), ErrMalformedAnswer)
	}
	status := submitted[0]
	log = log.WithField("problem_id", status.ID)
	log.Info("problem submitted")

	poller := c.newPoller()
	for !status.done() || (status.Status == StatusCompleted && status.Answer == nil) {
		if err = waitPoll(ctx, poller); err != nil {
			return anneal.SampleSet{}, fmt.Errorf("sapi: waiting for %s: %w", status.ID, err)
		}
		var next problemStatus
		if err = c.do(ctx, http.MethodGet, "problems/"+url.PathEscape(status.ID)+"/", nil, &next); err != nil {
			return anneal.SampleSet{}, err
		}
		if next.ID == "" {
			next.ID = status.ID
		}
		status = next
		log.WithField("status", status.Status).Debug("polled problem")
	}

	switch status.Status {
	case StatusFailed:
		return anneal.SampleSet{}, fmt.Errorf("sapi: problem %s: %s: %w", status.ID, status.ErrorMessage, ErrProblemFailed)
	case StatusCancelled:
		return anneal.SampleSet{}, fmt.Errorf("sapi: problem %s: %w", status.ID, ErrProblemCancelled)
	}

	set, err := toSampleSet(q, *status.Answer)
	if err != nil {
		return anneal.SampleSet{}, fmt.Errorf("sapi: problem %s: %w", status.ID, err)
	}
	set.Solver = solverID
	if status.Solver != "" {
		set.Solver = status.Solver
	}
	set.ProblemID = status.ID
	log.WithField("samples", set.Len()).Info("problem completed")

	return set, nil
}

// toSampleSet projects the answer onto the QUBO variables.
func toSampleSet(q *qubo.QUBO, a qpAnswer) (anneal.SampleSet, error) {
	ans, err := decodeQP(a)
	if err != nil {
		return anneal.SampleSet{}, err
	}

	column := make([]int, q.Vars())
	for v := range column {
		column[v] = -1
	}
	for i, qb := range ans.active {
		if qb >= 0 && qb < len(column) {
			column[qb] = i
		}
	}
	for v, col := range column {
		if col < 0 {
			return anneal.SampleSet{}, fmt.Errorf("variable %d not in the answer: %w", v, ErrMalformedAnswer)
		}
	}

	set := anneal.SampleSet{Samples: make([]anneal.Sample, len(ans.solutions))}
	for r, row := range ans.solutions {
		bits := make([]uint8, q.Vars())
		for v, col := range column {
			bits[v] = row[col]
		}
		set.Samples[r] = anneal.Sample{
			Bits:        bits,
			Energy:      ans.energies[r] + q.Offset(),
			Occurrences: ans.occurrences[r],
		}
	}

	return set, nil
}
