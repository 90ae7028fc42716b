package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"limitbook/params"
	"limitbook/pkg/book"
	"limitbook/pkg/storage"
)

// firstOrderID is where server-assigned order ids start; ids below it are
// reserved for pre-seeded orders.
const firstOrderID = 100

// Server exposes the order book over REST and WebSocket. The book itself is
// not thread-safe, so every access goes through s.mu: one exclusive
// boundary, no locking inside the matching path.
type Server struct {
	mu   sync.Mutex
	book *book.Book

	journal *storage.TradeJournal // nil when journaling is disabled

	router *mux.Router
	hub    *Hub
	log    *zap.SugaredLogger
	cfg    params.API

	nextOrderID atomic.Uint64
}

// NewServer wires the router. journal may be nil.
func NewServer(b *book.Book, cfg params.API, journal *storage.TradeJournal, logger *zap.SugaredLogger) *Server {
	s := &Server{
		book:    b,
		journal: journal,
		router:  mux.NewRouter(),
		hub:     NewHub(logger),
		log:     logger,
		cfg:     cfg,
	}
	s.nextOrderID.Store(firstOrderID)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/book", s.handleGetBook).Methods("GET")
	s.router.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	s.router.HandleFunc("/orders/{id}", s.handleCancelOrder).Methods("DELETE")
	s.router.HandleFunc("/trades", s.handleGetTrades).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the full middleware-wrapped handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// Start runs the WebSocket hub and serves HTTP until the listener fails.
func (s *Server) Start(addr string) error {
	go s.hub.Run()
	s.log.Infow("api_server_starting", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	depth := s.depthOrDefault(r)

	s.mu.Lock()
	snap := s.book.SnapshotDepth(depth)
	s.mu.Unlock()

	respondJSON(w, toBookView(snap))
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}
	if req.Side == nil || req.Price == nil || req.Qty == nil {
		respondError(w, http.StatusBadRequest, "missing required fields: side, price, qty", "")
		return
	}
	side, err := book.ParseSide(*req.Side)
	if err != nil {
		respondError(w, http.StatusBadRequest, "side must be 'buy' or 'sell'", err.Error())
		return
	}
	if *req.Price <= 0 || *req.Qty <= 0 {
		respondError(w, http.StatusBadRequest, "price and qty must be positive", "")
		return
	}

	id := s.nextOrderID.Add(1) - 1
	o := book.Order{ID: id, Side: side, Price: *req.Price, Qty: *req.Qty}

	depth := s.depthOrDefault(r)
	s.mu.Lock()
	trades := s.book.Submit(o)
	snap := s.book.SnapshotDepth(depth)
	s.mu.Unlock()

	s.log.Infow("order_submitted",
		"order_id", id, "side", side.String(), "price", o.Price, "qty", *req.Qty,
		"trades", len(trades))

	s.journalTrades(trades)
	s.broadcastTrades(trades)
	s.broadcastBook(snap)

	respondJSON(w, SubmitOrderResponse{
		OrderID: id,
		Trades:  toTradeViews(trades),
		Book:    toBookView(snap),
	})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id", err.Error())
		return
	}

	depth := s.depthOrDefault(r)
	s.mu.Lock()
	cancelled := s.book.Cancel(id)
	snap := s.book.SnapshotDepth(depth)
	s.mu.Unlock()

	if !cancelled {
		respondError(w, http.StatusNotFound, "order not found", "")
		return
	}

	s.log.Infow("order_cancelled", "order_id", id)
	s.broadcastBook(snap)

	respondJSON(w, CancelOrderResponse{
		Cancelled: true,
		OrderID:   id,
		Book:      toBookView(snap),
	})
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.DefaultTradeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			limit = n
		}
	}

	s.mu.Lock()
	trades := s.book.Recent(limit)
	s.mu.Unlock()

	respondJSON(w, TradesResponse{Trades: toTradeViews(trades)})
}

// ==============================
// Helpers
// ==============================

// depthOrDefault reads the depth query parameter, falling back to the
// configured default when absent or unusable.
func (s *Server) depthOrDefault(r *http.Request) int {
	raw := r.URL.Query().Get("depth")
	if raw == "" {
		return s.cfg.DefaultDepth
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return s.cfg.DefaultDepth
	}
	return n
}

func (s *Server) journalTrades(trades []book.Trade) {
	if s.journal == nil {
		return
	}
	for _, t := range trades {
		if err := s.journal.Append(t); err != nil {
			s.log.Errorw("trade_journal_append_failed", "err", err)
			return
		}
	}
}

func (s *Server) broadcastBook(snap book.Snapshot) {
	view := toBookView(snap)
	s.hub.BroadcastToChannel(ChannelBook, BookUpdate{
		Type:      "book",
		Bids:      view.Bids,
		Asks:      view.Asks,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (s *Server) broadcastTrades(trades []book.Trade) {
	now := time.Now().UnixMilli()
	for _, t := range trades {
		s.hub.BroadcastToChannel(ChannelTrades, TradeUpdate{
			Type:         "trade",
			Price:        t.Price,
			Qty:          t.Qty,
			TakerOrderID: t.TakerID,
			MakerOrderID: t.MakerID,
			Timestamp:    now,
		})
	}
}

func toBookView(snap book.Snapshot) BookView {
	view := BookView{
		Bids: make([]PriceLevel, len(snap.Bids)),
		Asks: make([]PriceLevel, len(snap.Asks)),
	}
	for i, lvl := range snap.Bids {
		view.Bids[i] = PriceLevel{Price: lvl.Price, Qty: lvl.Qty}
	}
	for i, lvl := range snap.Asks {
		view.Asks[i] = PriceLevel{Price: lvl.Price, Qty: lvl.Qty}
	}
	return view
}

func toTradeViews(trades []book.Trade) []TradeView {
	out := make([]TradeView, len(trades))
	for i, t := range trades {
		out[i] = TradeView{
			Price:        t.Price,
			Qty:          t.Qty,
			TakerOrderID: t.TakerID,
			MakerOrderID: t.MakerID,
		}
	}
	return out
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Message: message,
	})
}
