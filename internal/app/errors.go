// Package app holds the application services and business logic.
package app

import (
	"errors"
	"time"

	"fitreport/internal/trend"
)

var (
	// ErrInvalidInput wraps every validation failure of user input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrProfileNotFound indicates the user has not configured a program yet.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInsufficientHistory indicates there is no logged weight to anchor
	// the target trajectory on.
	ErrInsufficientHistory = trend.ErrMissingBaseline
)

// Clock cuts instants into calendar days in a fixed location.
type Clock struct {
	Now func() time.Time
	Loc *time.Location
}

// SystemClock reads the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Now: time.Now, Loc: loc}
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today returns the current local day as "2006-01-02".
func (c Clock) Today() string {
	loc := c.Loc
	if loc == nil {
		loc = time.Local
	}
	return c.now().In(loc).Format(trend.DayLayout)
}
