// internal/core/domain/errors.go
package domain

import "errors"

// ErrInsufficientStock is reported by the ledger when a conditional stock
// decrement cannot be satisfied. It is an expected outcome: the purchase path
// converts it into a denied result instead of surfacing it to callers. Any
// other ledger error is treated as an infrastructure failure and propagates
// unchanged.
var ErrInsufficientStock = errors.New("insufficient stock")
