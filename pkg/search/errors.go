package search

import "errors"

// UnavailableError reports that the index backend is down or unreachable.
// Not worth retrying; the turn degrades to an apology reply.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return "search unavailable: " + e.Err.Error()
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// TransientError marks a failure that a single retry may clear, such as a
// timeout or a dropped connection mid-query.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient search error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
