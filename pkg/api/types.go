package api

// Wire types for REST endpoints and WebSocket messages.

// ==============================
// REST Types
// ==============================

// PriceLevel is one aggregated book level on the wire.
type PriceLevel struct {
	Price int64 `json:"price"` // minor-currency units (cents)
	Qty   int64 `json:"qty"`
}

// BookView is a depth-bounded book snapshot, best price first per side.
type BookView struct {
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
}

// TradeView is one executed trade on the wire.
type TradeView struct {
	Price        int64  `json:"price"`
	Qty          int64  `json:"qty"`
	TakerOrderID uint64 `json:"taker_order_id"`
	MakerOrderID uint64 `json:"maker_order_id"`
}

// SubmitOrderRequest is the payload for POST /orders. Pointer fields
// distinguish a missing field from a zero value.
type SubmitOrderRequest struct {
	Side  *string `json:"side"` // "buy" or "sell", case-insensitive
	Price *int64  `json:"price"`
	Qty   *int64  `json:"qty"`
}

// SubmitOrderResponse reports the assigned id, the trades the order caused
// and the book state after matching.
type SubmitOrderResponse struct {
	OrderID uint64      `json:"order_id"`
	Trades  []TradeView `json:"trades"`
	Book    BookView    `json:"book"`
}

// CancelOrderResponse is returned by DELETE /orders/{id} on success.
type CancelOrderResponse struct {
	Cancelled bool     `json:"cancelled"`
	OrderID   uint64   `json:"order_id"`
	Book      BookView `json:"book"`
}

// TradesResponse wraps GET /trades.
type TradesResponse struct {
	Trades []TradeView `json:"trades"`
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest is sent by a client to subscribe to channels
// ("book", "trades").
type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"`
}

// BookUpdate is broadcast on the "book" channel after every mutation.
type BookUpdate struct {
	Type      string       `json:"type"` // "book"
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	Timestamp int64        `json:"timestamp"` // Unix milliseconds
}

// TradeUpdate is broadcast on the "trades" channel per execution.
type TradeUpdate struct {
	Type         string `json:"type"` // "trade"
	Price        int64  `json:"price"`
	Qty          int64  `json:"qty"`
	TakerOrderID uint64 `json:"taker_order_id"`
	MakerOrderID uint64 `json:"maker_order_id"`
	Timestamp    int64  `json:"timestamp"`
}
