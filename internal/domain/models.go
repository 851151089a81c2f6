package domain

import "time"

// CountSample is one reading of the total-messages endpoint
type CountSample struct {
	Count int64
	At    time.Time
}

// Run is a counter animation from Start to End
type Run struct {
	Start float64
	End   float64
}

// FetchStatus summarises the latest poll for display
type FetchStatus struct {
	LastSample CountSample
	LastError  string
	Fetches    int
	Failures   int
}
