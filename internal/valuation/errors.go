package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidMergeError is returned when a merge would leave a non-positive quantity.
type InvalidMergeError struct {
	Symbol   string
	Quantity decimal.Decimal
}

func (e *InvalidMergeError) Error() string {
	return fmt.Sprintf("invalid merge for %q: resulting quantity %s must be positive", e.Symbol, e.Quantity.String())
}

// InvalidPositionError is returned for input rejected before reaching the engine.
type InvalidPositionError struct {
	Symbol string
	Reason string
}

func (e *InvalidPositionError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("invalid position: %s", e.Reason)
	}
	return fmt.Sprintf("invalid position %q: %s", e.Symbol, e.Reason)
}

// InvalidChangeError is returned by Simulate for a change that cannot be applied.
type InvalidChangeError struct {
	Index  int
	Symbol string
	Reason string
}

func (e *InvalidChangeError) Error() string {
	return fmt.Sprintf("change #%d (%s): %s", e.Index+1, e.Symbol, e.Reason)
}
