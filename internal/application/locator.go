package application

import "sync/atomic"

// Locator holds the location of the backing store.
// Readers always see the latest successful write; sessions must read it when they open.
type Locator struct {
	current atomic.Pointer[string]
}

// NewLocator creates a locator with a validated initial location
func NewLocator(initial string) (*Locator, error) {
	l := &Locator{}
	if err := l.SetLocation(initial); err != nil {
		return nil, err
	}
	return l, nil
}

// Location returns the current location
func (l *Locator) Location() string {
	if p := l.current.Load(); p != nil {
		return *p
	}
	return ""
}

// SetLocation replaces the location. Blank values are rejected and the previous value is kept.
func (l *Locator) SetLocation(location string) error {
	if err := ValidateRequired("location", location); err != nil {
		return err
	}
	l.current.Store(&location)
	return nil
}

// Swap replaces the location and returns the one it replaced in a single atomic step.
// A blank value is rejected and the current location is returned unchanged.
func (l *Locator) Swap(location string) (string, error) {
	if err := ValidateRequired("location", location); err != nil {
		return l.Location(), err
	}
	if p := l.current.Swap(&location); p != nil {
		return *p, nil
	}
	return "", nil
}
