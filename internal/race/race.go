// Package race runs a set of keyed asynchronous probes concurrently and
// collects the winners. The first success arms a grace timer; slower probes
// that finish before the timer fires are still collected, so a caller gets
// more than one candidate when several endpoints are close in latency.
package race

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoProbes is returned when Run is called with an empty probe list.
var ErrNoProbes = errors.New("no probes to run")

// Probe is one keyed asynchronous operation competing in a race.
// Keys must be unique within a single Run call.
type Probe[T any] struct {
	Key string
	Run func(ctx context.Context) (T, error)
}

// Result is one successful probe outcome.
type Result[T any] struct {
	Key   string
	Value T
}

// Outcome accumulates the settled probes of one race. Wins are ordered by
// completion time (fastest first). Errors maps a probe key to its failure.
// Probes still outstanding when the race resolved appear in neither.
type Outcome[T any] struct {
	Wins   []Result[T]
	Errors map[string]error
}

// Run starts all probes concurrently and waits for them to settle.
//
// The first success arms a one-shot timer for grace; the race resolves at the
// earlier of the timer firing or every probe settling. When all probes fail,
// Run waits for the last failure and returns an Outcome with no wins — an
// empty Wins slice is how callers detect total failure, not an error return.
//
// Outstanding probes are not cancelled on resolution; they keep running on
// their own context until they settle and their results are dropped. Probes
// must carry their own timeout so stragglers eventually terminate.
func Run[T any](ctx context.Context, probes []Probe[T], grace time.Duration) (*Outcome[T], error) {
	if len(probes) == 0 {
		return nil, ErrNoProbes
	}
	seen := make(map[string]struct{}, len(probes))
	for _, p := range probes {
		if _, dup := seen[p.Key]; dup {
			return nil, fmt.Errorf("duplicate probe key %q", p.Key)
		}
		seen[p.Key] = struct{}{}
	}

	type settled struct {
		key   string
		value T
		err   error
	}

	// Buffered to capacity so straggler goroutines can always deliver and
	// exit after the race has resolved.
	ch := make(chan settled, len(probes))
	for _, p := range probes {
		go func(p Probe[T]) {
			v, err := p.Run(ctx)
			ch <- settled{key: p.Key, value: v, err: err}
		}(p)
	}

	out := &Outcome[T]{Errors: make(map[string]error)}

	var graceTimer *time.Timer
	var graceC <-chan time.Time
	defer func() {
		if graceTimer != nil {
			graceTimer.Stop()
		}
	}()

	for done := 0; done < len(probes); {
		select {
		case s := <-ch:
			done++
			if s.err != nil {
				out.Errors[s.key] = s.err
				continue
			}
			out.Wins = append(out.Wins, Result[T]{Key: s.key, Value: s.value})
			if graceTimer == nil {
				graceTimer = time.NewTimer(grace)
				graceC = graceTimer.C
			}
		case <-graceC:
			return out, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}
