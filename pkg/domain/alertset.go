package domain

import (
	"errors"
	"time"
)

// errors reported by the alert pipeline
var (
	ErrNoLocation    = errors.New("no location found")
	ErrNoFeedData    = errors.New("no feed data")
	ErrMalformedFeed = errors.New("malformed feed")
	ErrNotFound      = errors.New("not found")
)

// ErrorKind is a stable identifier of the pipeline failure exposed to consumers
type ErrorKind string

// enum of error kinds
const (
	ErrorKindNone       ErrorKind = ""
	ErrorKindNoLocation ErrorKind = "no_location"
	ErrorKindNoFeedData ErrorKind = "no_feed_data"
)

// KindOf maps a pipeline error to its ErrorKind
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrNoLocation):
		return ErrorKindNoLocation
	default:
		return ErrorKindNoFeedData
	}
}

// AlertSet is the outcome of a single alert request.
// Err holds the earliest failure only; Entries is empty whenever Err is set.
type AlertSet struct {
	Location    Location
	Scope       Scope
	Limit       int
	FeedURL     string
	Entries     []AlertEntry
	Latitude    float64
	Longitude   float64
	RefreshRate int // minutes
	Err         error

	FeedID        string
	FeedGenerator string
	FeedUpdated   *time.Time
	FeedTitle     string
	FeedLink      string
}

// ErrorKind returns the kind of the recorded failure, empty if none
func (s *AlertSet) ErrorKind() ErrorKind {
	return KindOf(s.Err)
}

// ErrorMessage returns a short user facing message for the recorded failure
func (s *AlertSet) ErrorMessage() string {
	switch s.ErrorKind() {
	case ErrorKindNoLocation:
		return "Weather alert location could not be found"
	case ErrorKindNoFeedData:
		return "Weather alerts are currently unavailable"
	}
	return ""
}
