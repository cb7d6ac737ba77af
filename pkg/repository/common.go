package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// newRetrier makes the backoff used for writes contending on the sqlite lock
func newRetrier() *repeater.Repeater {
	return repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
}

// errCritical is passed to the retrier as the terminating error
var errCritical = errors.New("critical")

// criticalError stops the retrier, anything but a lock error is final
type criticalError struct {
	err error
}

// Is makes every criticalError match errCritical
func (e *criticalError) Is(target error) bool {
	return target == errCritical
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error {
	return e.err
}

// isLockError reports sqlite busy and lock errors
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// likeEscaper escapes LIKE wildcards in user input, used with ESCAPE '\'
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
