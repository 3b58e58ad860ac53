// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package sync

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/streamatlas/internal/config"
	"github.com/tomtom215/streamatlas/internal/logging"
	"github.com/tomtom215/streamatlas/internal/metrics"
)

// BreakerClient wraps the retrying Client with a circuit breaker so a dead
// upstream fails fast instead of burning the full retry budget on every
// call. One breaker per upstream: platform discovery and catalog pulls
// share one, metadata pulls another.
//
// The breaker uses real time for its open/half-open transitions; tests
// exercise the wrapped Client directly.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewBreakerClient wraps client in a named circuit breaker. The breaker
// opens after cfg.BreakerMaxFailures consecutive failures and probes again
// after cfg.BreakerTimeout.
func NewBreakerClient(name string, client *Client, cfg *config.IngestConfig) *BreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1, // One probe request in half-open state
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	return &BreakerClient{client: client, cb: cb, name: name}
}

// GetJSON performs a protected GET/decode. Returns gobreaker.ErrOpenState
// without touching the network while the breaker is open.
func (bc *BreakerClient) GetJSON(ctx context.Context, reqURL string, result interface{}) error {
	_, err := bc.cb.Execute(func() (any, error) {
		return nil, bc.client.GetJSON(ctx, reqURL, result)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "rejected").Inc()
			logging.Warn().Str("breaker", bc.name).Err(err).Msg("Upstream request rejected by circuit breaker")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "failure").Inc()
		}
		return err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "success").Inc()
	return nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
