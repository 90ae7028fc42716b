package book

import "sort"

// bookSide holds the resting orders of one side: a FIFO queue per price plus
// a heap of live prices for O(1) best-price lookup. Bids are price-descending
// (desc=true), asks ascending.
type bookSide struct {
	levels map[int64][]*Order
	prices *priceHeap
}

func newBookSide(desc bool) *bookSide {
	return &bookSide{
		levels: make(map[int64][]*Order),
		prices: newPriceHeap(desc),
	}
}

func (s *bookSide) best() (int64, bool) {
	return s.prices.peek()
}

// insert appends o to the queue at its price, creating the level if absent.
func (s *bookSide) insert(o *Order) {
	if len(s.levels[o.Price]) == 0 {
		s.prices.push(o.Price)
	}
	s.levels[o.Price] = append(s.levels[o.Price], o)
}

// dropLevel removes an emptied price level. Must only be called when the
// queue at price is empty; no price key ever maps to an empty queue.
func (s *bookSide) dropLevel(price int64) {
	delete(s.levels, price)
	s.prices.remove(price)
}

// snapshotLevels aggregates up to depth levels, best price first.
func (s *bookSide) snapshotLevels(depth int) []PriceLevel {
	out := make([]PriceLevel, 0, len(s.levels))
	for price, queue := range s.levels {
		var qty int64
		for _, o := range queue {
			qty += o.Qty
		}
		out = append(out, PriceLevel{Price: price, Qty: qty})
	}
	if s.prices.desc {
		sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	}
	if depth < 0 {
		depth = 0
	}
	if len(out) > depth {
		out = out[:depth]
	}
	return out
}

// orderRef locates a resting order for O(1) cancellation: which side it
// rests on and at what price. Kept consistent with every insert and removal.
type orderRef struct {
	side  Side
	price int64
}

// Book is a single-instrument limit order book: two independently ordered
// sides of FIFO price levels, matched under price-time priority, plus a
// bounded log of executed trades.
//
// Book does no locking. Callers running it under concurrent access must
// serialize mutations behind a single exclusive boundary; see pkg/api.
type Book struct {
	bids *bookSide
	asks *bookSide

	index map[uint64]orderRef // order ID -> resting location

	trades *TradeLog
}

// NewBook creates an empty book whose trade log holds up to tradeLogCap
// entries (DefaultTradeLogCap when <= 0).
func NewBook(tradeLogCap int) *Book {
	return &Book{
		bids:   newBookSide(true),
		asks:   newBookSide(false),
		index:  make(map[uint64]orderRef),
		trades: NewTradeLog(tradeLogCap),
	}
}

func (b *Book) side(s Side) *bookSide {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// rest inserts o at the back of its side's queue at its limit price, making
// it the newest order at that price. o is already a private copy.
func (b *Book) rest(o Order) {
	b.side(o.Side).insert(&o)
	b.index[o.ID] = orderRef{side: o.Side, price: o.Price}
}

// Add rests an order without matching. Pre-seeding only; live order flow
// goes through Submit.
func (b *Book) Add(o Order) {
	b.rest(o)
}

// Submit matches an incoming order against the opposite side under
// price-time priority and returns the resulting trades in execution order.
// Every trade executes at the resting (maker) order's price. Whatever
// quantity remains after the spread can no longer be crossed rests in the
// book; a fully filled order never rests. Trades are recorded into the
// trade log as they are produced.
func (b *Book) Submit(o Order) []Trade {
	var trades []Trade

	opp := b.asks
	crosses := func(best int64) bool { return best <= o.Price }
	if o.Side == Sell {
		opp = b.bids
		crosses = func(best int64) bool { return best >= o.Price }
	}

	for o.Qty > 0 {
		best, ok := opp.best()
		if !ok || !crosses(best) {
			break // spread cannot be crossed
		}
		queue := opp.levels[best]
		for o.Qty > 0 && len(queue) > 0 {
			maker := queue[0] // earliest arrival at the best price
			qty := min(o.Qty, maker.Qty)
			o.Qty -= qty
			maker.Qty -= qty

			tr := Trade{Price: best, Qty: qty, TakerID: o.ID, MakerID: maker.ID}
			trades = append(trades, tr)
			b.trades.Record(tr)

			if maker.Qty == 0 {
				queue = queue[1:]
				opp.levels[best] = queue
				delete(b.index, maker.ID)
			}
		}
		if len(queue) == 0 {
			opp.dropLevel(best)
		}
	}

	if o.Qty > 0 {
		b.rest(o)
	}
	return trades
}

// Cancel removes the resting order with the given ID, dropping its price
// level if that leaves the queue empty. Returns false if no such order
// rests on either side.
func (b *Book) Cancel(id uint64) bool {
	ref, ok := b.index[id]
	if !ok {
		return false
	}
	side := b.side(ref.side)
	queue := side.levels[ref.price]
	for i, o := range queue {
		if o.ID == id {
			queue = append(queue[:i], queue[i+1:]...)
			if len(queue) == 0 {
				side.dropLevel(ref.price)
			} else {
				side.levels[ref.price] = queue
			}
			delete(b.index, id)
			return true
		}
	}
	// Index said the order rests here but the queue disagrees.
	panic("book: order index out of sync with price level")
}

// BestBid returns the highest resting bid price. ok is false when there are
// no bids.
func (b *Book) BestBid() (int64, bool) {
	return b.bids.best()
}

// BestAsk returns the lowest resting ask price. ok is false when there are
// no asks.
func (b *Book) BestAsk() (int64, bool) {
	return b.asks.best()
}

// SnapshotDepth aggregates up to depth price levels per side, best first.
// It never mutates the book; repeated calls without intervening mutation
// yield identical results.
func (b *Book) SnapshotDepth(depth int) Snapshot {
	return Snapshot{
		Bids: b.bids.snapshotLevels(depth),
		Asks: b.asks.snapshotLevels(depth),
	}
}

// Recent returns up to limit executed trades, newest first.
func (b *Book) Recent(limit int) []Trade {
	return b.trades.Recent(limit)
}

// ClearTrades empties the trade log. The resting book is untouched.
func (b *Book) ClearTrades() {
	b.trades.Clear()
}
