package deployer

import (
	"errors"
	"io/fs"
)

// Outcome is the closed set of results a deployment run can end with.
// Its numeric value is the process exit code.
type Outcome int

const (
	// OutcomeSuccess means the full pipeline completed.
	OutcomeSuccess Outcome = 0
	// OutcomeIOError covers local filesystem problems, including a
	// source path that does not exist.
	OutcomeIOError Outcome = 1
	// OutcomeInvalidRequest covers missing or malformed parameters.
	OutcomeInvalidRequest Outcome = 2
	// OutcomeGeneral covers everything else, including remote failures.
	OutcomeGeneral Outcome = 3
)

// String returns a short label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeIOError:
		return "i/o error"
	case OutcomeInvalidRequest:
		return "invalid request"
	default:
		return "general error"
	}
}

// Code returns the process exit code for the outcome.
func (o Outcome) Code() int {
	return int(o)
}

var (
	// ErrInvalidRequest marks request-validation failures: missing
	// parameters or a concurrent deployment already in progress.
	ErrInvalidRequest = errors.New("invalid deployment request")

	// ErrLocalIO marks local filesystem failures: a missing source,
	// packaging errors, artifact cleanup errors.
	ErrLocalIO = errors.New("local i/o failure")
)

// ClassifyError maps a run's error to its outcome.
// Remote and session failures deliberately fall into OutcomeGeneral.
func ClassifyError(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrInvalidRequest):
		return OutcomeInvalidRequest
	case errors.Is(err, ErrLocalIO), errors.Is(err, fs.ErrNotExist):
		return OutcomeIOError
	default:
		return OutcomeGeneral
	}
}
