// Package strategy implements the interchangeable decomposition strategies
// and the ordered fallback chain that runs them.
package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/teamplan/alloc/internal/domain/model"
	"github.com/teamplan/alloc/pkg/logger"
	"github.com/teamplan/alloc/pkg/metrics"
)

// Request describes one decomposition request.
type Request struct {
	TaskDescription string
	TaskType        string
}

// DraftTeam is one team's slice of a decomposition draft.
type DraftTeam struct {
	Key       string
	Reasoning string
	Subtasks  []model.Subtask
}

// Draft is the normalized pre-scoring output shared by all strategies. Teams
// preserves the order the decomposition referenced them in; every referenced
// team appears, even with zero subtasks.
type Draft struct {
	TaskType    string
	AIGenerated bool
	Reasoning   string
	Steps       []model.LLMStep
	Teams       []DraftTeam
}

// Strategy produces a decomposition draft for a request against an org
// snapshot.
type Strategy interface {
	// Name identifies the strategy in results, logs and metrics.
	Name() string

	// Decompose turns the request into a draft. A returned error means the
	// whole strategy failed; drafts are never partial.
	Decompose(ctx context.Context, req Request, org model.Org) (*Draft, error)
}

// ErrExhausted reports that every strategy in a chain failed. With the
// template strategy terminating the chain this should not occur.
var ErrExhausted = errors.New("all decomposition strategies failed")

// Chain runs strategies in order until one succeeds. Cancellation stops the
// chain immediately instead of falling through.
type Chain struct {
	strategies []Strategy
	log        logger.Logger
}

// NewChain builds a fallback chain. The last strategy should be one that
// cannot fail.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{
		strategies: strategies,
		log:        logger.Named("strategy"),
	}
}

// Decompose runs the chain and returns the first successful draft together
// with the winning strategy's name.
func (c *Chain) Decompose(ctx context.Context, req Request, org model.Org) (*Draft, string, error) {
	var lastErr error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		draft, err := s.Decompose(ctx, req, org)
		if err == nil {
			return draft, s.Name(), nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, "", err
		}
		lastErr = err
		metrics.RecordStrategyFallback(s.Name())
		c.log.Warn(ctx, "strategy failed, falling back",
			logger.String("strategy", s.Name()),
			logger.Error(err),
		)
	}
	if lastErr == nil {
		lastErr = ErrExhausted
	}
	return nil, "", fmt.Errorf("%w: %w", ErrExhausted, lastErr)
}
