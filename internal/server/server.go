// Package server exposes a small HTTP control surface over a running
// trading session: read-only status endpoints plus a parameter update
// endpoint for live tuning.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/idtwin/crypto-auto-trader/internal/engine"
	"github.com/idtwin/crypto-auto-trader/internal/logger"
	"github.com/idtwin/crypto-auto-trader/internal/types"
)

// StatusServer serves session state over HTTP.
type StatusServer struct {
	coordinator *engine.Coordinator
	log         *logger.Logger

	httpServer *http.Server
	listener   net.Listener
}

// NewStatusServer creates a status server over the given coordinator.
func NewStatusServer(coordinator *engine.Coordinator, log *logger.Logger) *StatusServer {
	return &StatusServer{
		coordinator: coordinator,
		log:         log,
	}
}

// Start starts the server on the given address. If address is empty or ":0",
// a random available port is used.
func (s *StatusServer) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	s.listener = listener

	router := mux.NewRouter()
	router.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/status", s.handleStatus).Methods("GET")
	router.HandleFunc("/api/portfolio", s.handlePortfolio).Methods("GET")
	router.HandleFunc("/api/trades", s.handleTrades).Methods("GET")
	router.HandleFunc("/api/config/schema", s.handleConfigSchema).Methods("GET")
	router.HandleFunc("/api/params", s.handleUpdateParams).Methods("POST")

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.log.Error("status server error", zap.Error(err))
		}
	}()

	s.log.Info("status server listening", zap.String("address", s.Address()))

	return nil
}

// Stop shuts the server down gracefully.
func (s *StatusServer) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *StatusServer) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *StatusServer) BaseURL() string {
	return "http://" + s.Address()
}

func (s *StatusServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.coordinator.Snapshot())
}

// portfolioResponse is the portfolio view returned by /api/portfolio.
type portfolioResponse struct {
	CashBalance    float64                   `json:"cash_balance"`
	InitialBalance float64                   `json:"initial_balance"`
	PortfolioValue float64                   `json:"portfolio_value"`
	Positions      map[string]types.Position `json:"positions"`
	TotalReturnPct float64                   `json:"total_return_pct"`
}

func (s *StatusServer) handlePortfolio(w http.ResponseWriter, _ *http.Request) {
	value, err := s.coordinator.PortfolioValue()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)

		return
	}

	snapshot := s.coordinator.Snapshot()

	returnPct := 0.0
	if snapshot.InitialBalance > 0 {
		returnPct = (value - snapshot.InitialBalance) / snapshot.InitialBalance * 100
	}

	writeJSON(w, http.StatusOK, portfolioResponse{
		CashBalance:    snapshot.CashBalance,
		InitialBalance: snapshot.InitialBalance,
		PortfolioValue: value,
		Positions:      snapshot.Positions,
		TotalReturnPct: returnPct,
	})
}

func (s *StatusServer) handleTrades(w http.ResponseWriter, _ *http.Request) {
	records, err := s.coordinator.TradeHistory()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)

		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (s *StatusServer) handleConfigSchema(w http.ResponseWriter, _ *http.Request) {
	schema, err := engine.ConfigSchema()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(schema))
}

// paramsRequest carries a live parameter update. Nil fields are left
// untouched.
type paramsRequest struct {
	ShortWindow    *int     `json:"short_window"`
	LongWindow     *int     `json:"long_window"`
	MaxPositionPct *float64 `json:"max_position_pct"`
	MaxExposurePct *float64 `json:"max_exposure_pct"`
}

// paramsResponse reports which updates were applied. Rejected values leave
// the previous setting in place.
type paramsResponse struct {
	WindowsApplied     bool            `json:"windows_applied"`
	PositionPctApplied bool            `json:"position_pct_applied"`
	ExposurePctApplied bool            `json:"exposure_pct_applied"`
	Snapshot           engine.Snapshot `json:"snapshot"`
}

func (s *StatusServer) handleUpdateParams(w http.ResponseWriter, r *http.Request) {
	var req paramsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	current := s.coordinator.Snapshot()

	response := paramsResponse{}

	if req.ShortWindow != nil || req.LongWindow != nil {
		short := current.ShortWindow
		if req.ShortWindow != nil {
			short = *req.ShortWindow
		}

		long := current.LongWindow
		if req.LongWindow != nil {
			long = *req.LongWindow
		}

		response.WindowsApplied = s.coordinator.UpdateStrategyWindows(short, long)
	}

	if req.MaxPositionPct != nil || req.MaxExposurePct != nil {
		positionPct := current.MaxPositionPct
		if req.MaxPositionPct != nil {
			positionPct = *req.MaxPositionPct
		}

		exposurePct := current.MaxExposurePct
		if req.MaxExposurePct != nil {
			exposurePct = *req.MaxExposurePct
		}

		response.PositionPctApplied, response.ExposurePctApplied = s.coordinator.UpdateRiskLimits(positionPct, exposurePct)
	}

	response.Snapshot = s.coordinator.Snapshot()

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
