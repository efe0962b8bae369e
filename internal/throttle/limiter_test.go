// internal/throttle/limiter_test.go
package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlockedAfterMaxFailures(t *testing.T) {
	l := New(Options{MaxFailures: 5, FailureWindow: time.Hour})
	defer l.Close()

	for i := 0; i < 4; i++ {
		l.RecordFailure("login:1.2.3.4")
		_, blocked := l.Blocked("login:1.2.3.4")
		assert.False(t, blocked, "attempt %d should not block", i+1)
	}

	l.RecordFailure("login:1.2.3.4")
	retryAfter, blocked := l.Blocked("login:1.2.3.4")
	assert.True(t, blocked)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(Options{MaxFailures: 2, FailureWindow: time.Hour})
	defer l.Close()

	l.RecordFailure("login:1.2.3.4")
	l.RecordFailure("login:1.2.3.4")

	_, blocked := l.Blocked("login:1.2.3.4")
	assert.True(t, blocked)
	_, blocked = l.Blocked("login:5.6.7.8")
	assert.False(t, blocked)
	_, blocked = l.Blocked("register:1.2.3.4")
	assert.False(t, blocked)
}

func TestResetClearsFailures(t *testing.T) {
	l := New(Options{MaxFailures: 2, FailureWindow: time.Hour})
	defer l.Close()

	l.RecordFailure("login:1.2.3.4")
	l.RecordFailure("login:1.2.3.4")
	_, blocked := l.Blocked("login:1.2.3.4")
	assert.True(t, blocked)

	l.Reset("login:1.2.3.4")
	_, blocked = l.Blocked("login:1.2.3.4")
	assert.False(t, blocked)
}

func TestFailuresExpireWithWindow(t *testing.T) {
	l := New(Options{MaxFailures: 2, FailureWindow: 50 * time.Millisecond})
	defer l.Close()

	l.RecordFailure("login:1.2.3.4")
	l.RecordFailure("login:1.2.3.4")
	_, blocked := l.Blocked("login:1.2.3.4")
	assert.True(t, blocked)

	time.Sleep(80 * time.Millisecond)
	_, blocked = l.Blocked("login:1.2.3.4")
	assert.False(t, blocked)
}

func TestAllowEnforcesRequestBudget(t *testing.T) {
	l := New(Options{RequestLimit: 3, RequestWindow: time.Hour})
	defer l.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "request %d should pass", i+1)
	}
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"), "other clients keep their own budget")
}

func TestNormalizeIP(t *testing.T) {
	assert.Equal(t, "1.2.3.4", NormalizeIP("1.2.3.4"))
	assert.Equal(t, "1.2.3.4", NormalizeIP("::ffff:1.2.3.4"))
	assert.Equal(t, "::1", NormalizeIP("::1"))
	assert.Equal(t, "not-an-ip", NormalizeIP("not-an-ip"))
}
