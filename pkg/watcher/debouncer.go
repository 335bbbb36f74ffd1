package watcher

import (
	"context"
	"slices"
	"time"

	"github.com/ritzau/diagram-canvas/pkg/logging"
)

// Debouncer batches rapid file system events so a burst of saves causes a
// single reload.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer. A batch is emitted once no
// event has arrived for quietPeriod, or maxWait after its first event.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func (d *Debouncer) run(ctx context.Context) {
	var (
		quiet       = time.NewTimer(d.quietPeriod)
		deadline    = time.NewTimer(d.maxWait)
		accumulated = make(map[ChangeType][]string)
		order       []ChangeType // by most recent event, oldest first
		eventCount  int
	)
	stopTimer(quiet)
	stopTimer(deadline)

	flush := func() {
		stopTimer(quiet)
		stopTimer(deadline)
		if eventCount == 0 {
			return
		}

		logging.Debug("flushing accumulated events", "count", eventCount)

		// The type seen last is emitted last, so a consumer acting on the
		// final batch sees the file's final state.
		for _, ct := range order {
			if paths := accumulated[ct]; len(paths) > 0 {
				d.output <- ChangeEvent{Type: ct, Paths: paths, Timestamp: time.Now()}
			}
		}

		accumulated = make(map[ChangeType][]string)
		order = order[:0]
		eventCount = 0
	}

	defer close(d.output)

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				return
			}

			// A path's latest change supersedes its earlier ones of other
			// types: written then removed is just removed.
			for ct, paths := range accumulated {
				if ct == event.Type {
					continue
				}
				accumulated[ct] = slices.DeleteFunc(paths, func(p string) bool {
					return slices.Contains(event.Paths, p)
				})
			}
			accumulated[event.Type] = append(accumulated[event.Type], event.Paths...)
			order = append(slices.DeleteFunc(order, func(ct ChangeType) bool {
				return ct == event.Type
			}), event.Type)
			if eventCount == 0 {
				deadline.Reset(d.maxWait)
			}
			eventCount++

			stopTimer(quiet)
			quiet.Reset(d.quietPeriod)

		case <-quiet.C:
			flush()

		case <-deadline.C:
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
