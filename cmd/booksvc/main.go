package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"limitbook/params"
	"limitbook/pkg/api"
	"limitbook/pkg/book"
	"limitbook/pkg/storage"
	"limitbook/pkg/util"
)

func main() {
	// Load config from .env file and environment variables.
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLogger()
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		logger, err = util.NewLoggerWithFile(logFile)
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	b := book.NewBook(cfg.Book.TradeLogCap)

	// Seed a small resting book so the endpoints have something to show.
	b.Add(book.Order{ID: 1, Side: book.Sell, Price: 10100, Qty: 10})
	b.Add(book.Order{ID: 2, Side: book.Sell, Price: 10200, Qty: 10})
	b.Add(book.Order{ID: 10, Side: book.Buy, Price: 10000, Qty: 5})
	b.Add(book.Order{ID: 11, Side: book.Buy, Price: 10000, Qty: 7})

	var journal *storage.TradeJournal
	if cfg.Journal.Path != "" {
		journal, err = storage.OpenTradeJournal(cfg.Journal.Path)
		if err != nil {
			sugar.Fatalw("trade_journal_open_failed", "path", cfg.Journal.Path, "err", err)
		}
		defer journal.Close()
		sugar.Infow("trade_journal_enabled", "path", cfg.Journal.Path, "journaled", journal.Len())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(b, cfg.API, journal, sugar)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.API.Addr)
	}()

	sugar.Infow("booksvc_started",
		"addr", cfg.API.Addr,
		"depth_default", cfg.API.DefaultDepth,
		"trade_log_cap", cfg.Book.TradeLogCap)

	select {
	case <-ctx.Done():
		sugar.Info("shutting down")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}
}
