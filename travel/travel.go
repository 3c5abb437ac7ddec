package travel

import (
	"context"
)

// Estimator returns travel durations, in whole minutes, between each
// consecutive pair of addresses. For n addresses it yields n-1 legs.
// Implementations signal failure through the error; callers treat any
// failure the same as having no estimator at all.
type Estimator interface {
	Legs(ctx context.Context, addresses []string) ([]int, error)
}

// FlatEstimator assumes a fixed buffer between every pair of stops.
// It is the fallback whenever no provider is configured or the
// provider fails.
type FlatEstimator struct {
	Minutes int
}

func (f FlatEstimator) Legs(_ context.Context, addresses []string) ([]int, error) {
	if len(addresses) < 2 {
		return nil, nil
	}
	legs := make([]int, len(addresses)-1)
	for i := range legs {
		legs[i] = f.Minutes
	}
	return legs, nil
}
