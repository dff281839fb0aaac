// Package busy tracks whether requests to the collection API are in flight.
// It is the application-scoped replacement for a global wait cursor.
package busy

import (
	"sync"
	"sync/atomic"
)

// State is the cursor state shown to the user.
type State string

const (
	StateDefault State = "default"
	StateWait    State = "wait"
)

// Indicator counts in-flight requests. The zero value is ready to use.
type Indicator struct {
	inFlight atomic.Int64
}

// New returns an idle Indicator.
func New() *Indicator {
	return &Indicator{}
}

// Enter marks one request as in flight and returns the function that
// settles it. Calling the returned function more than once has no effect.
func (i *Indicator) Enter() (leave func()) {
	i.inFlight.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { i.inFlight.Add(-1) })
	}
}

// InFlight returns the number of unsettled requests.
func (i *Indicator) InFlight() int64 {
	return i.inFlight.Load()
}

// Busy reports whether any request is in flight.
func (i *Indicator) Busy() bool {
	return i.InFlight() > 0
}

// State returns StateWait while busy and StateDefault otherwise.
func (i *Indicator) State() State {
	if i.Busy() {
		return StateWait
	}
	return StateDefault
}
