package main

import (
	"context"

	"github.com/evgenyvinnik/MCPlator-sub000/internal/anim"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/calc"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/calcapi"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/observability"
)

// initMetrics initialises all metric providers and application-specific
// metric instruments. Add new domain InitMetrics calls here as the project grows.
func initMetrics(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := calc.InitMetrics(); err != nil {
		return nil, err
	}

	if err := anim.InitMetrics(); err != nil {
		return nil, err
	}

	if err := calcapi.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}
