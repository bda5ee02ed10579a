// retry.go retries writes that fail with transient SQLite errors.
//
// The CLI routinely runs from several places at once: a shell alias
// recording a check-in while a cron job queries status against the same
// file. WAL mode plus the busy_timeout pragma absorbs most of that, but
// modernc.org/sqlite can still surface SQLITE_BUSY, SQLITE_LOCKED, or a
// short WAL read (IOERR_SHORT_READ, code 522) under simultaneous
// writers. Writes therefore get a few attempts with exponential backoff
// and jitter before the error is reported.
package store

import (
	"math/rand"
	"strings"
	"time"
)

// backoffPolicy controls how transient write failures are retried.
type backoffPolicy struct {
	attempts int           // total tries, including the first
	base     time.Duration // first backoff step, also the jitter bound
	cap      time.Duration // upper bound on the un-jittered step
}

// writeBackoff is the policy for all store write operations.
var writeBackoff = backoffPolicy{
	attempts: 4,
	base:     50 * time.Millisecond,
	cap:      500 * time.Millisecond,
}

// transientErr reports whether err looks like a transient SQLite failure
// worth retrying. modernc.org/sqlite embeds the code in the message, so
// this matches on both the symbolic names and the numeric forms.
func transientErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"IOERR_SHORT_READ",
		"database is locked",
		"database table is locked",
		"(5)",   // SQLITE_BUSY code
		"(6)",   // SQLITE_LOCKED code
		"(522)", // SQLITE_IOERR_SHORT_READ code
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// withBackoff runs fn until it succeeds, fails with a non-transient
// error, or the attempt budget runs out. The last error is returned.
func withBackoff(p backoffPolicy, fn func() error) error {
	var err error
	for i := 0; i < p.attempts; i++ {
		if err = fn(); err == nil || !transientErr(err) {
			return err
		}
		if i < p.attempts-1 {
			time.Sleep(p.sleep(i))
		}
	}
	return err
}

// sleep is base doubled per attempt and capped, plus up to base of
// jitter so simultaneous writers fan out instead of colliding again.
func (p backoffPolicy) sleep(attempt int) time.Duration {
	d := p.base << uint(attempt)
	if d > p.cap {
		d = p.cap
	}
	return d + time.Duration(rand.Int63n(int64(p.base)))
}
