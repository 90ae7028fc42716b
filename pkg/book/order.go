package book

import (
	"fmt"
	"strings"
)

// Side tags an order as resting on the bid or ask side of the book.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide accepts "buy"/"sell" in any casing.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("side must be 'buy' or 'sell', got %q", s)
	}
}

// Order is a price-limited quantity order. IDs are caller-assigned and never
// reused. Price is in integer minor-currency units (cents), Qty in integer
// lots. Qty is decremented in place as the order fills; an order leaves the
// book when Qty reaches zero or it is cancelled.
type Order struct {
	ID    uint64
	Side  Side
	Price int64
	Qty   int64
}

// Trade records one match step: Qty traded at Price between the incoming
// taker and the resting maker. Price is always the maker's limit.
type Trade struct {
	Price   int64
	Qty     int64
	TakerID uint64
	MakerID uint64
}

// PriceLevel is the aggregate view of one price on one side: the summed
// quantity of every order resting there. Computed on demand, never stored.
type PriceLevel struct {
	Price int64
	Qty   int64
}

// Snapshot is a depth-bounded read-only view of both sides, best price first.
type Snapshot struct {
	Bids []PriceLevel
	Asks []PriceLevel
}
