package storage

import (
	"reflect"
	"testing"

	"limitbook/pkg/book"
)

func TestTradeJournalAppendRange(t *testing.T) {
	j, err := OpenTradeJournal(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer j.Close()

	trades := []book.Trade{
		{Price: 10000, Qty: 5, TakerID: 20, MakerID: 10},
		{Price: 10000, Qty: 4, TakerID: 20, MakerID: 11},
		{Price: 10100, Qty: 10, TakerID: 30, MakerID: 1},
	}
	for _, tr := range trades {
		if err := j.Append(tr); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if j.Len() != 3 {
		t.Errorf("len = %d, want 3", j.Len())
	}

	var got []book.Trade
	if err := j.Range(func(tr book.Trade) error {
		got = append(got, tr)
		return nil
	}); err != nil {
		t.Fatalf("range: %v", err)
	}
	if !reflect.DeepEqual(got, trades) {
		t.Errorf("ranged trades = %v, want %v", got, trades)
	}
}

func TestTradeJournalResumesSequence(t *testing.T) {
	dir := t.TempDir()

	j, err := OpenTradeJournal(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := j.Append(book.Trade{Price: 1, Qty: 1, TakerID: 2, MakerID: 1}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	j, err = OpenTradeJournal(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()
	if j.Len() != 1 {
		t.Errorf("resumed len = %d, want 1", j.Len())
	}
	if err := j.Append(book.Trade{Price: 2, Qty: 1, TakerID: 3, MakerID: 1}); err != nil {
		t.Fatalf("append after reopen: %v", err)
	}

	var prices []int64
	if err := j.Range(func(tr book.Trade) error {
		prices = append(prices, tr.Price)
		return nil
	}); err != nil {
		t.Fatalf("range: %v", err)
	}
	if !reflect.DeepEqual(prices, []int64{1, 2}) {
		t.Errorf("prices = %v, want [1 2]", prices)
	}
}
