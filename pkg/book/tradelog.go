package book

// DefaultTradeLogCap bounds the rolling trade history kept in memory.
const DefaultTradeLogCap = 1000

// TradeLog is a bounded, insertion-ordered history of executed trades. Once
// the capacity is reached, recording a new trade evicts the oldest one, so
// the log always holds the most recent trades. It is observational only and
// never feeds back into matching.
type TradeLog struct {
	trades []Trade
	cap    int
}

// NewTradeLog creates a log holding at most cap trades. cap <= 0 falls back
// to DefaultTradeLogCap.
func NewTradeLog(cap int) *TradeLog {
	if cap <= 0 {
		cap = DefaultTradeLogCap
	}
	return &TradeLog{
		trades: make([]Trade, 0, cap),
		cap:    cap,
	}
}

// Record appends a trade, evicting the oldest entry when full.
func (t *TradeLog) Record(trade Trade) {
	if len(t.trades) == t.cap {
		copy(t.trades, t.trades[1:])
		t.trades[len(t.trades)-1] = trade
		return
	}
	t.trades = append(t.trades, trade)
}

// Recent returns up to limit trades, newest first. The returned slice is a
// copy; callers may hold on to it.
func (t *TradeLog) Recent(limit int) []Trade {
	if limit < 0 {
		limit = 0
	}
	n := len(t.trades)
	if limit > n {
		limit = n
	}
	out := make([]Trade, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, t.trades[i])
	}
	return out
}

// Clear empties the log.
func (t *TradeLog) Clear() {
	t.trades = t.trades[:0]
}

// Len reports how many trades are currently held.
func (t *TradeLog) Len() int {
	return len(t.trades)
}
