package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds a single evaluation when Engine.Timeout is unset.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when user code runs past the engine timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to an Evaluate call whose result arrived
	// after a newer call had started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	design *Design
	errors []EvalError
	err    error
}

func (e *Engine) timeout() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	return DefaultTimeout
}

// wait returns the result sent on ch for generation gen. On timeout or
// cancellation the evaluating goroutine is abandoned; ch must be buffered
// so its send never blocks.
func (e *Engine) wait(ctx context.Context, ch <-chan evalResult, gen uint64) (*Design, []EvalError, error) {
	limit := e.timeout()
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		stale := gen != e.generation
		e.mu.Unlock()
		if stale {
			return nil, nil, ErrSuperseded
		}
		return res.design, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}
