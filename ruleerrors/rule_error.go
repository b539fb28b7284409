// Package ruleerrors enumerates the consensus-critical error taxonomy of
// the block-apply core (spec §7). It follows the teacher's RuleError
// shape: a lightweight value type wrapping a message and an optional
// inner error, always constructed through errors.WithStack so a fatal
// error surfaces with a stack trace usable by an external log sink.
package ruleerrors

import "github.com/pkg/errors"

// RuleError identifies a fatal or recoverable condition raised by the
// core. The caller can use type assertions (via errors.As) to determine
// which specific condition occurred.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface.
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface.
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) error {
	return errors.WithStack(RuleError{message: message})
}

// Fatal conditions (spec §7): these always abort the current block and
// trigger a full undo. None are ever recovered from inside the core.
var (
	// ErrUndoHistoryExceeded indicates head-last_irreversible has grown
	// to or past MaxUndoHistory without the skip-undo-check flag set.
	ErrUndoHistoryExceeded = newRuleError("ErrUndoHistoryExceeded")

	// ErrArithmeticOverflow indicates a 128-bit multiplication, a price
	// rescale, or a call-price computation produced a value that does
	// not fit in the consensus-critical range (spec §4.1).
	ErrArithmeticOverflow = newRuleError("ErrArithmeticOverflow")

	// ErrDivisionByZero indicates a price or ratio operation was asked
	// to divide by a zero-amount leg.
	ErrDivisionByZero = newRuleError("ErrDivisionByZero")

	// ErrInvariantViolation indicates a data-model invariant from spec
	// §3 was broken (e.g. has_settlement without a valid settlement
	// price, or a structurally invalid price reaching a numeric op).
	ErrInvariantViolation = newRuleError("ErrInvariantViolation")

	// ErrBlackSwanDuringMarginOp indicates a margin-call maintenance
	// pass (not forced-settlement matching) discovered a black swan.
	// This must never happen during ordinary margin maintenance; spec
	// §4.4 requires it to be fatal.
	ErrBlackSwanDuringMarginOp = newRuleError("ErrBlackSwanDuringMarginOp")
)

// Recoverable conditions (spec §7): caught and handled locally by the
// sweeper or matcher that raised them; they never escape to ApplyBlock.
var (
	// ErrBlackSwanDuringSettleMatch indicates the forced-settlement
	// matcher (spec §4.6) discovered that matching the current order
	// would trigger a black swan. The caller cancels the offending
	// order and continues with the next one.
	ErrBlackSwanDuringSettleMatch = newRuleError("ErrBlackSwanDuringSettleMatch")

	// ErrProposalExecutionFailed indicates an expired proposal's
	// transaction could not be pushed (spec §4.5). The caller removes the
	// proposal regardless; the failure is not logged.
	ErrProposalExecutionFailed = newRuleError("ErrProposalExecutionFailed")
)

// IsFatal reports whether err represents one of the fatal conditions that
// must abort block application, as opposed to one of the two conditions
// §7 declares recoverable within their own sweeper.
func IsFatal(err error) bool {
	var ruleErr RuleError
	if !errors.As(err, &ruleErr) {
		return true
	}
	switch ruleErr.message {
	case "ErrBlackSwanDuringSettleMatch", "ErrProposalExecutionFailed":
		return false
	default:
		return true
	}
}
