// Package server exposes one Trader over HTTP. The surface is
// deliberately thin: deserialize the request, call the simulation core,
// serialize its snapshot.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sevencore/tradesim/sim"
)

// Config carries the fixed reset target: GET / restores the trader to
// this balance and ticker.
type Config struct {
	ResetBalance float64
	ResetTicker  string
	Logger       *zap.Logger
}

type Server struct {
	trader *sim.Trader
	log    *zap.Logger

	resetBalance float64
	resetTicker  string
}

func New(trader *sim.Trader, cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Server{
		trader:       trader,
		log:          log,
		resetBalance: cfg.ResetBalance,
		resetTicker:  cfg.ResetTicker,
	}
}

// Router builds the route table. Unknown trade actions are routed like
// any other and treated as hold by the handler.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleReset).Methods(http.MethodGet)
	r.HandleFunc("/data", s.handleData).Methods(http.MethodGet)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/trade/{action}", s.handleTrade).Methods(http.MethodPost)
	r.Use(s.logRequests)
	return r
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.trader.Reset(s.resetBalance, s.resetTicker)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("LIVE"))
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.trader.Snapshot())
}

type historyEntry struct {
	ID            string  `json:"id"`
	Time          string  `json:"time"`
	AccountBefore float64 `json:"account_before"`
	Action        string  `json:"action"`
	Amount        float64 `json:"amount"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records := s.trader.History()

	out := make([]historyEntry, len(records))
	for i, rec := range records {
		out[i] = historyEntry{
			ID:            rec.ID,
			Time:          rec.Time.Format(time.RFC3339Nano),
			AccountBefore: rec.AccountBefore,
			Action:        rec.Action.Type.String(),
			Amount:        rec.Action.Amount,
		}
	}

	writeJSON(w, http.StatusOK, out)
}

type tradeResponse struct {
	sim.Snapshot
	Warning string `json:"warning,omitempty"`
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form body", http.StatusBadRequest)
		return
	}

	amount, err := strconv.ParseFloat(r.PostFormValue("amount"), 64)
	if err != nil {
		http.Error(w, "amount must be a number", http.StatusBadRequest)
		return
	}

	var action sim.Action
	switch mux.Vars(r)["action"] {
	case "buy":
		action = sim.Buy(amount)
	case "sell":
		action = sim.Sell(amount)
	default:
		action = sim.Hold()
	}

	snap, err := s.trader.Trade(r.Context(), action)

	resp := tradeResponse{Snapshot: snap}
	switch {
	case err == nil:
	case errors.Is(err, sim.ErrSinkFailure):
		// Local state applied; report the sink problem without failing
		// the request.
		s.log.Warn("order sink failure", zap.Error(err))
		resp.Warning = err.Error()
	case errors.Is(err, sim.ErrEndOfData):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, sim.ErrSourceUnavailable), errors.Is(err, sim.ErrInvalidPrice):
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	default:
		s.log.Error("trade failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
