package smaug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/dmitrymomot/smaug/pkg/async"
	"github.com/dmitrymomot/smaug/pkg/logger"
)

type probe struct {
	name  string
	check func(context.Context) error
}

// Report maps each probed component to its error, nil when healthy.
type Report map[string]error

// Healthy reports whether every component answered.
func (r Report) Healthy() bool {
	for _, err := range r {
		if err != nil {
			return false
		}
	}
	return true
}

// Components returns the probed component names in sorted order.
func (r Report) Components() []string {
	return slices.Sorted(maps.Keys(r))
}

// Health probes every registered component concurrently and waits for all of
// them. The returned error joins ErrBackendUnavailable with every failure.
func (s *Service) Health(ctx context.Context) (Report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.healthTimeout)
	defer cancel()

	s.mu.Lock()
	probes := slices.Clone(s.probes)
	s.mu.Unlock()

	futures := make([]*async.Future[struct{}], len(probes))
	for i, p := range probes {
		futures[i] = async.Async(ctx, p, func(ctx context.Context, p probe) (struct{}, error) {
			return struct{}{}, p.check(ctx)
		})
	}

	report := make(Report, len(probes))
	var errs []error
	for _, res := range async.Settle(ctx, futures...) {
		name := probes[res.Index].name
		report[name] = res.Err
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, res.Err))
		}
	}

	if len(errs) > 0 {
		s.logger.WarnContext(ctx, "health check failed",
			logger.Component("smaug"),
			logger.Errors(errs...),
		)
		return report, errors.Join(append([]error{ErrBackendUnavailable}, errs...)...)
	}
	s.logger.DebugContext(ctx, "health check passed", slog.Int("components", len(report)))
	return report, nil
}
