// internal/throttle/limiter.go
package throttle

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type failureWindow struct {
	attempts []time.Time
	lastSeen time.Time
}

type Options struct {
	// General per-key request budget.
	RequestLimit  int
	RequestWindow time.Duration
	// Failed login/register attempts allowed per key per window.
	MaxFailures   int
	FailureWindow time.Duration
	// How often idle entries are swept. Zero disables the sweeper.
	SweepInterval time.Duration
}

// Limiter tracks per-key (client IP) request volume and authentication
// failures. It is an injected service, not package state: every instance
// owns its maps and its sweeper goroutine.
type Limiter struct {
	mtx      sync.Mutex
	visitors map[string]*visitor
	failures map[string]*failureWindow
	opts     Options
	done     chan struct{}
}

func New(opts Options) *Limiter {
	if opts.RequestLimit <= 0 {
		opts.RequestLimit = 100
	}
	if opts.RequestWindow <= 0 {
		opts.RequestWindow = 15 * time.Minute
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = 5
	}
	if opts.FailureWindow <= 0 {
		opts.FailureWindow = time.Hour
	}

	l := &Limiter{
		visitors: make(map[string]*visitor),
		failures: make(map[string]*failureWindow),
		opts:     opts,
		done:     make(chan struct{}),
	}

	if opts.SweepInterval > 0 {
		go l.sweep()
	}

	return l
}

// Close stops the sweeper goroutine.
func (l *Limiter) Close() {
	close(l.done)
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mtx.Lock()
			for key, v := range l.visitors {
				if time.Since(v.lastSeen) > l.opts.RequestWindow {
					delete(l.visitors, key)
				}
			}
			for key, f := range l.failures {
				if time.Since(f.lastSeen) > l.opts.FailureWindow {
					delete(l.failures, key)
				}
			}
			l.mtx.Unlock()
		}
	}
}

// Allow reports whether key has general request budget left.
func (l *Limiter) Allow(key string) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limit := rate.Limit(float64(l.opts.RequestLimit) / l.opts.RequestWindow.Seconds())
		v = &visitor{limiter: rate.NewLimiter(limit, l.opts.RequestLimit)}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Blocked reports whether key has exhausted its failure budget, and if so
// how long until the oldest counted failure leaves the window.
func (l *Limiter) Blocked(key string) (time.Duration, bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	f, exists := l.failures[key]
	if !exists {
		return 0, false
	}

	live := l.prune(f)
	if len(live) < l.opts.MaxFailures {
		return 0, false
	}
	retryAfter := time.Until(live[0].Add(l.opts.FailureWindow))
	if retryAfter < 0 {
		retryAfter = 0
	}
	return retryAfter, true
}

// RecordFailure counts one failed authentication attempt against key.
func (l *Limiter) RecordFailure(key string) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	f, exists := l.failures[key]
	if !exists {
		f = &failureWindow{}
		l.failures[key] = f
	}
	f.attempts = append(l.prune(f), time.Now())
	f.lastSeen = time.Now()
}

// Reset clears the failure counter for key. Called on successful login.
func (l *Limiter) Reset(key string) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	delete(l.failures, key)
}

// prune drops attempts older than the window. Caller holds the lock.
func (l *Limiter) prune(f *failureWindow) []time.Time {
	cutoff := time.Now().Add(-l.opts.FailureWindow)
	live := f.attempts[:0]
	for _, t := range f.attempts {
		if t.After(cutoff) {
			live = append(live, t)
		}
	}
	f.attempts = live
	return live
}

// NormalizeIP collapses equivalent textual IP representations (IPv4,
// IPv4-mapped IPv6) onto one key so a client cannot dodge its counters.
func NormalizeIP(addr string) string {
	ip := net.ParseIP(addr)
	if ip == nil {
		return addr
	}
	if v4 := ip.To4(); v4 != nil {
		return v4.String()
	}
	return ip.String()
}
