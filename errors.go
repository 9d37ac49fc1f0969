package raptor

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Error kinds per the request-handling contract: InvalidRequest aborts
// before any iteration starts, DataInconsistency is contained to the
// offending pattern, Cancelled returns whatever was already committed.
// UnreachableDestination is deliberately not an error - it is an empty
// result.

var (
	// ErrInvalidRequest is returned (wrapped) when the request fails
	// validation before a single iteration runs.
	ErrInvalidRequest = pkgerrors.New("raptor: invalid request")

	// ErrDataInconsistency marks a FIFO ordering violation or a
	// non-monotone schedule detected mid-scan. It never escapes
	// Route; it is logged once and the offending pattern is then
	// scanned with the linear trip search instead of binary search.
	ErrDataInconsistency = pkgerrors.New("raptor: data inconsistency")

	// ErrCancelled is returned when the request's context is done
	// between iterations or rounds. Whatever destination arrivals
	// were already committed are still returned alongside it.
	ErrCancelled = pkgerrors.New("raptor: cancelled")
)

// InvalidRequestError carries the specific reason a request failed
// validation, wrapped with a stack trace since construction-time
// validation failures are rare and a trace is cheap here.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("raptor: invalid request: %s", e.Reason)
}

func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(reason string) error {
	return pkgerrors.WithStack(&InvalidRequestError{Reason: reason})
}

// dataInconsistencyError is constructed on the hot path (once per
// offending pattern, per request) so it skips pkgerrors.Wrap's stack
// capture and uses WithMessage instead.
type dataInconsistencyError struct {
	PatternIdx int
	Detail     string
}

func (e *dataInconsistencyError) Error() string {
	return fmt.Sprintf("raptor: pattern %d: %s", e.PatternIdx, e.Detail)
}

func (e *dataInconsistencyError) Unwrap() error {
	return ErrDataInconsistency
}

func newDataInconsistency(patternIdx int, detail string) error {
	return pkgerrors.WithMessage(&dataInconsistencyError{PatternIdx: patternIdx, Detail: detail}, "data inconsistency")
}

// wrapCancelled folds a context error into ErrCancelled so callers can
// test for it with errors.Is regardless of whether ctx.Err() was
// Canceled or DeadlineExceeded.
func wrapCancelled(cause error) error {
	return pkgerrors.WithMessage(ErrCancelled, cause.Error())
}
