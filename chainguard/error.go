package chainguard

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of header rejection.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrDuplicateBlock indicates a header with the same hash is already
	// known.
	ErrDuplicateBlock ErrorCode = iota

	// ErrOrphanBlock indicates the previous block of the header is not
	// known.
	ErrOrphanBlock

	// ErrBadCheckpoint indicates the header is at a checkpointed height
	// but does not have the checkpointed hash. This is a hard violation,
	// the header is rejected no matter how much work its chain has.
	ErrBadCheckpoint

	// ErrForkTooOld indicates the header forks the chain below the most
	// recent checkpoint the node knows about.
	ErrForkTooOld

	// ErrForkBehindSyncCheckpoint indicates the chain of the header forks
	// from the best chain at or below the sync checkpoint, so it would
	// replace the sync checkpoint if it took over.
	ErrForkBehindSyncCheckpoint

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicateBlock:           "ErrDuplicateBlock",
	ErrOrphanBlock:              "ErrOrphanBlock",
	ErrBadCheckpoint:            "ErrBadCheckpoint",
	ErrForkTooOld:               "ErrForkTooOld",
	ErrForkBehindSyncCheckpoint: "ErrForkBehindSyncCheckpoint",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}

	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a header that was refused by the guard. The caller can
// use type assertions or IsErrorCode to find out the specific reason.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether err is a RuleError with the passed code.
func IsErrorCode(err error, c ErrorCode) bool {
	var ruleErr RuleError
	if !errors.As(err, &ruleErr) {
		return false
	}

	return ruleErr.ErrorCode == c
}
