package application

import "time"

// Clock interface so services can be tested with a fixed time
type Clock interface {
	Now() time.Time
}

// SystemClock default implementation, uses time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
