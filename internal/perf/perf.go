// Package perf collects timing samples and counters for the render loop and
// logs a summary at a fixed interval. It is off unless REQTTY_PROFILE is set.
package perf

import (
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyrewlee/reqtty/internal/logging"
)

const (
	sampleWindow      = 256
	defaultIntervalMs = 5000
)

type stat struct {
	count   int64
	total   time.Duration
	min     time.Duration
	max     time.Duration
	samples []time.Duration
	idx     int
	full    bool
}

// StatSnapshot summarizes one timer since the previous snapshot.
type StatSnapshot struct {
	Name  string
	Count int64
	Avg   time.Duration
	Min   time.Duration
	Max   time.Duration
	P95   time.Duration
}

// CounterSnapshot is one counter's total since the previous snapshot.
type CounterSnapshot struct {
	Name  string
	Value int64
}

var (
	enabled     atomic.Bool
	logInterval atomic.Int64
	lastLog     atomic.Int64

	mu       sync.Mutex
	stats    = map[string]*stat{}
	counters = map[string]int64{}
)

func init() {
	enabled.Store(envEnabled(os.Getenv("REQTTY_PROFILE")))
	logInterval.Store(int64(envInterval(os.Getenv("REQTTY_PROFILE_INTERVAL_MS"))))
}

// Enabled reports whether samples are being collected.
func Enabled() bool { return enabled.Load() }

// SetEnabled turns collection on or off and sets the summary interval. A
// non-positive interval disables periodic logging; Flush still works.
func SetEnabled(on bool, interval time.Duration) {
	enabled.Store(on)
	logInterval.Store(int64(interval))
	lastLog.Store(0)
}

// Time starts a timer; call the returned func to record the sample.
func Time(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() { Record(name, time.Since(start)) }
}

// Record adds one duration sample.
func Record(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	s, ok := stats[name]
	if !ok {
		s = &stat{samples: make([]time.Duration, sampleWindow)}
		stats[name] = s
	}
	s.count++
	s.total += d
	if s.count == 1 || d < s.min {
		s.min = d
	}
	s.max = max(s.max, d)
	s.samples[s.idx] = d
	s.idx++
	if s.idx == len(s.samples) {
		s.idx = 0
		s.full = true
	}
	mu.Unlock()
	maybeLog()
}

// Count adds delta to a named counter.
func Count(name string, delta int64) {
	if !enabled.Load() || delta == 0 {
		return
	}
	mu.Lock()
	counters[name] += delta
	mu.Unlock()
	maybeLog()
}

func maybeLog() {
	interval := time.Duration(logInterval.Load())
	if interval <= 0 {
		return
	}
	now := time.Now().UnixNano()
	last := lastLog.Load()
	if last != 0 && time.Duration(now-last) < interval {
		return
	}
	if !lastLog.CompareAndSwap(last, now) {
		return
	}
	logSnapshot("PERF")
}

// Flush logs and resets everything collected so far.
func Flush(reason string) {
	if !enabled.Load() {
		return
	}
	prefix := "PERF SUMMARY"
	if r := strings.TrimSpace(reason); r != "" {
		prefix += " " + r
	}
	logSnapshot(prefix)
}

func logSnapshot(prefix string) {
	timers, totals := Snapshot()
	for _, s := range timers {
		logging.Info("%s %s count=%d avg=%s p95=%s min=%s max=%s",
			prefix, s.Name, s.Count, s.Avg, s.P95, s.Min, s.Max)
	}
	for _, c := range totals {
		logging.Info("%s %s count=%d", prefix, c.Name, c.Value)
	}
}

// Snapshot returns the stats gathered since the last snapshot, sorted by
// name, and resets them.
func Snapshot() ([]StatSnapshot, []CounterSnapshot) {
	mu.Lock()
	defer mu.Unlock()

	timers := make([]StatSnapshot, 0, len(stats))
	for name, s := range stats {
		if s.count == 0 {
			continue
		}
		timers = append(timers, StatSnapshot{
			Name:  name,
			Count: s.count,
			Avg:   time.Duration(int64(s.total) / s.count),
			Min:   s.min,
			Max:   s.max,
			P95:   p95(s.samples, s.idx, s.full),
		})
		*s = stat{samples: s.samples}
	}
	totals := make([]CounterSnapshot, 0, len(counters))
	for name, v := range counters {
		totals = append(totals, CounterSnapshot{Name: name, Value: v})
	}
	clear(counters)

	sort.Slice(timers, func(i, j int) bool { return timers[i].Name < timers[j].Name })
	sort.Slice(totals, func(i, j int) bool { return totals[i].Name < totals[j].Name })
	return timers, totals
}

func p95(samples []time.Duration, idx int, full bool) time.Duration {
	n := idx
	if full {
		n = len(samples)
	}
	if n == 0 {
		return 0
	}
	window := append([]time.Duration(nil), samples[:n]...)
	sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
	pos := int(math.Ceil(0.95*float64(n))) - 1
	return window[min(max(pos, 0), n-1)]
}

func envEnabled(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

func envInterval(raw string) time.Duration {
	ms := defaultIntervalMs
	if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v > 0 {
		ms = v
	}
	return time.Duration(ms) * time.Millisecond
}
