package mirror

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/pprof/profile"
)

var errAlreadyProfiling = errors.New("profiler is already active")

type _globalProfiler struct {
	p       profiler
	enabled int32
}

var globalProfiler _globalProfiler

// profiler aggregates exact per-routine invocation counts and cumulative
// time. It is not a sampling profiler: every dispatch is recorded while
// enabled, which keeps the numbers exact at the cost of some overhead.
// Counters are updated with atomics so that the dispatch path takes no
// lock; the mutex only guards the start/stop transitions, which may come
// from a different goroutine.
type profiler struct {
	mu      sync.Mutex
	running bool
	w       io.Writer
	start   time.Time

	counts [opCount]int64
	nanos  [opCount]int64
}

func (p *profiler) record(op Op, d time.Duration) {
	atomic.AddInt64(&p.counts[op], 1)
	atomic.AddInt64(&p.nanos[op], int64(d))
}

func (p *profiler) reset(w io.Writer) {
	p.mu.Lock()
	p.w = w
	p.start = time.Now()
	p.running = true
	for i := range p.counts {
		atomic.StoreInt64(&p.counts[i], 0)
		atomic.StoreInt64(&p.nanos[i], 0)
	}
	p.mu.Unlock()
}

func (p *profiler) stop() (*profile.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil, nil
	}
	p.running = false
	pr := p.buildProfile(time.Since(p.start))
	if p.w != nil {
		if err := pr.Write(p.w); err != nil {
			return pr, err
		}
	}
	return pr, nil
}

// buildProfile renders the counters into a pprof profile: one sample per
// routine that was dispatched at least once, valued by invocation count
// and cumulative nanoseconds and labeled with the routine name.
func (p *profiler) buildProfile(d time.Duration) *profile.Profile {
	pr := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "dispatches", Unit: "count"},
			{Type: "time", Unit: "nanoseconds"},
		},
		PeriodType:    &profile.ValueType{Type: "dispatches", Unit: "count"},
		Period:        1,
		TimeNanos:     p.start.UnixNano(),
		DurationNanos: int64(d),
	}

	for op := OpGet; op < opCount; op++ {
		count := atomic.LoadInt64(&p.counts[op])
		if count == 0 {
			continue
		}
		fn := &profile.Function{
			ID:   uint64(op) + 1,
			Name: "mirror.Reflect." + op.String(),
		}
		loc := &profile.Location{
			ID:   uint64(op) + 1,
			Line: []profile.Line{{Function: fn}},
		}
		pr.Function = append(pr.Function, fn)
		pr.Location = append(pr.Location, loc)
		pr.Sample = append(pr.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{count, atomic.LoadInt64(&p.nanos[op])},
			Label:    map[string][]string{"routine": {op.String()}},
		})
	}
	return pr
}

// StartProfile enables the dispatch profiler. All dispatches in all
// Runtimes are recorded until StopProfile is called. When w is non-nil the
// profile is written to it on stop in the pprof format. Returns
// an error when the profiler is already active.
func StartProfile(w io.Writer) error {
	if !atomic.CompareAndSwapInt32(&globalProfiler.enabled, 0, 1) {
		return errAlreadyProfiling
	}
	globalProfiler.p.reset(w)
	return nil
}

// StopProfile disables the profiler started by StartProfile, writes the
// profile to the writer that was supplied to it (when non-nil) and returns
// the built profile. Calling it while no profile is active returns nil.
func StopProfile() (*profile.Profile, error) {
	atomic.StoreInt32(&globalProfiler.enabled, 0)
	return globalProfiler.p.stop()
}
