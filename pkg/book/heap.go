package book

import "container/heap"

// priceHeap tracks the set of live price levels for one side of the book so
// the best price is an O(1) peek. desc=true keeps the highest price on top
// (bids), desc=false the lowest (asks). A price appears at most once: it is
// pushed when its level is created and removed when the level empties.
type priceHeap struct {
	prices []int64
	desc   bool
}

func newPriceHeap(desc bool) *priceHeap {
	h := &priceHeap{desc: desc}
	heap.Init(h)
	return h
}

func (h *priceHeap) Len() int { return len(h.prices) }

func (h *priceHeap) Less(i, j int) bool {
	if h.desc {
		return h.prices[i] > h.prices[j]
	}
	return h.prices[i] < h.prices[j]
}

func (h *priceHeap) Swap(i, j int) { h.prices[i], h.prices[j] = h.prices[j], h.prices[i] }

func (h *priceHeap) Push(x interface{}) {
	h.prices = append(h.prices, x.(int64))
}

func (h *priceHeap) Pop() interface{} {
	old := h.prices
	n := len(old)
	x := old[n-1]
	h.prices = old[:n-1]
	return x
}

// peek returns the best price without removing it. ok is false when the side
// is empty.
func (h *priceHeap) peek() (int64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}

func (h *priceHeap) push(price int64) { heap.Push(h, price) }

// remove deletes a price from the heap. Linear scan, but only runs when a
// whole level disappears.
func (h *priceHeap) remove(price int64) {
	for i, p := range h.prices {
		if p == price {
			heap.Remove(h, i)
			return
		}
	}
}
