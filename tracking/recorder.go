package tracking

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// RunRecord is a complete run logged in one call.
type RunRecord struct {
	Experiment string
	Name       string
	Params     map[string]string
	Metrics    map[string]float64
}

// Record logs rec as a finished run and returns its id. If logging fails
// part way, the run is marked FAILED.
func (s *Store) Record(ctx context.Context, rec RunRecord) (id string, err error) {
	exp, err := s.GetOrCreateExperiment(ctx, rec.Experiment)
	if err != nil {
		return "", err
	}

	run, err := s.StartRun(ctx, exp.ID, rec.Name)
	if err != nil {
		return "", err
	}

	defer func() {
		status := StatusFinished
		if err != nil {
			status = StatusFailed
		}
		err = multierr.Append(err, s.EndRun(ctx, run.ID, status))
	}()

	for _, k := range sortedKeys(rec.Params) {
		if err := s.LogParam(ctx, run.ID, k, rec.Params[k]); err != nil {
			return run.ID, fmt.Errorf("record run: %w", err)
		}
	}
	for _, k := range sortedKeys(rec.Metrics) {
		if err := s.LogMetric(ctx, run.ID, k, rec.Metrics[k], 0); err != nil {
			return run.ID, fmt.Errorf("record run: %w", err)
		}
	}
	return run.ID, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
