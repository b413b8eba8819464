package synchronizer

import "fmt"

// FetchError means the upstream dataset could not be retrieved: network
// failure, timeout, or a non-2xx status.
type FetchError struct {
	URL    string
	Status int // zero when no response arrived
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ProcessingError means the dataset arrived but could not be turned into
// records.  Index is the offending entry, or -1 for the payload as a whole.
type ProcessingError struct {
	Index int
	Err   error
}

func (e *ProcessingError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("processing countries data: %v", e.Err)
	}
	return fmt.Sprintf("processing countries data: entry %d: %v", e.Index, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
