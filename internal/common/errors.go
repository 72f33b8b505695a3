package common

import "errors"

// Error taxonomy (kinds, not types). InvalidOrder is the core's own sentinel;
// UnknownCancelTarget has no error value (CancelOrder reports it by returning
// false); MalformedInput belongs to internal/ingest and never reaches the
// core (it is surfaced before an Order value ever exists).
var (
	// ErrInvalidOrder marks a programmer error, not a runtime condition the
	// core recovers from: the order book returns it for a non-positive qty or
	// an order carrying an unknown OrderType. A Limit/IOC row without a price
	// is rejected by internal/ingest instead.
	ErrInvalidOrder = errors.New("invalid order")
)
