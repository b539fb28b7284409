package ruleerrors

import (
	"errors"
	"testing"
)

func TestRuleErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	wrapped := RuleError{message: "ErrInvariantViolation", inner: inner}

	if wrapped.Unwrap() != inner {
		t.Fatalf("Unwrap: expected %v, got %v", inner, wrapped.Unwrap())
	}
	if wrapped.Cause() != inner {
		t.Fatalf("Cause: expected %v, got %v", inner, wrapped.Cause())
	}

	want := "ErrInvariantViolation: boom"
	if wrapped.Error() != want {
		t.Fatalf("Error: expected %q, got %q", want, wrapped.Error())
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"undo history exceeded is fatal", ErrUndoHistoryExceeded, true},
		{"arithmetic overflow is fatal", ErrArithmeticOverflow, true},
		{"division by zero is fatal", ErrDivisionByZero, true},
		{"invariant violation is fatal", ErrInvariantViolation, true},
		{"black swan during margin op is fatal", ErrBlackSwanDuringMarginOp, true},
		{"black swan during settle match is recoverable", ErrBlackSwanDuringSettleMatch, false},
		{"proposal execution failed is recoverable", ErrProposalExecutionFailed, false},
		{"unknown error type defaults to fatal", errors.New("some other failure"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Fatalf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
