package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"limitbook/pkg/book"
)

var journalPrefix = []byte("t:")

// keys: t:<8-byte-big-endian-sequence>
func kTrade(seq uint64) []byte {
	k := make([]byte, len(journalPrefix)+8)
	copy(k, journalPrefix)
	binary.BigEndian.PutUint64(k[len(journalPrefix):], seq)
	return k
}

// TradeJournal is an append-only pebble log of executed trades, kept for
// audit. It is write-mostly: nothing in the matching path ever reads it
// back, so the in-memory book stays the single source of truth.
type TradeJournal struct {
	mu  sync.Mutex
	db  *pebble.DB
	seq uint64
}

// OpenTradeJournal opens (or creates) a journal at path and resumes the
// sequence counter after the last persisted trade.
func OpenTradeJournal(path string) (*TradeJournal, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open trade journal: %w", err)
	}
	j := &TradeJournal{db: db}

	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: kTrade(0),
		UpperBound: kTrade(^uint64(0)),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open trade journal: %w", err)
	}
	if iter.Last() {
		key := iter.Key()
		j.seq = binary.BigEndian.Uint64(key[len(journalPrefix):]) + 1
	}
	if err := iter.Close(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *TradeJournal) Close() error { return j.db.Close() }

// Append persists one trade under the next sequence number.
func (j *TradeJournal) Append(t book.Trade) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t); err != nil {
		return fmt.Errorf("encode trade: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.db.Set(kTrade(j.seq), buf.Bytes(), pebble.Sync); err != nil {
		return fmt.Errorf("append trade: %w", err)
	}
	j.seq++
	return nil
}

// Len reports how many trades have been journaled over the journal's
// lifetime, including previous runs.
func (j *TradeJournal) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.seq
}

// Range calls fn for every journaled trade in append order, stopping at the
// first error.
func (j *TradeJournal) Range(fn func(book.Trade) error) error {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: kTrade(0),
		UpperBound: kTrade(^uint64(0)),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for valid := iter.First(); valid; valid = iter.Next() {
		var t book.Trade
		if err := gob.NewDecoder(bytes.NewReader(iter.Value())).Decode(&t); err != nil {
			return fmt.Errorf("decode trade: %w", err)
		}
		if err := fn(t); err != nil {
			return err
		}
	}
	return iter.Error()
}
