package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/gameconfig"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/history"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/httpapi/dto"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/ledger"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
	"github.com/tron-PC28/TRON-HASH-PC28/pkg/contracts/events"
)

// Clock exposes the poller's view of the running round.
type Clock interface {
	Snapshot() (tip int64, state pc28.RoundState, latest *pc28.RoundResult, recent []pc28.RoundResult)
}

// Publisher pushes bet_rejected events out.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Server consumes the upstream commands: bet placement and cancellation
// from players, config edits from the admin layer, and read models for
// both. Authentication of the admin surface is an external concern.
type Server struct {
	Log     *zap.Logger
	Games   *gameconfig.Store
	Ledger  *ledger.Ledger
	Clock   Clock
	Reports *history.Postgres // nil when history is unavailable
	Publ    Publisher
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/bets", s.placeBet)
	r.Delete("/bets", s.cancelAll)
	r.Delete("/bets/{type}", s.cancelType)

	r.Get("/state", s.getState)
	r.Get("/games", s.listGames)
	r.Get("/games/{id}", s.getGame)
	r.Get("/history/settled", s.recentSettled)

	r.Put("/admin/games/{id}/odds", s.updateOdds)
	r.Put("/admin/games/{id}/status", s.setStatus)
	r.Put("/admin/games/{id}/special-rules", s.setSpecialRules)
	r.Put("/admin/limits", s.applyLimits)
	r.Get("/admin/reports/games", s.gameTotals)

	return r
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	t, err := pc28.ParseBetType(req.Type)
	if err != nil {
		s.reject(w, r, req, "INVALID", err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		s.reject(w, r, req, "INVALID", "amount must be a positive number")
		return
	}

	cfg, err := s.Games.Get(req.GameID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	_, state, _, _ := s.Clock.Snapshot()
	if st := gameconfig.StateFor(cfg.Status, state.Locked); st != gameconfig.StateOpen {
		code := "LOCKED"
		if st != gameconfig.StateLocked {
			code = "PAUSED"
		}
		s.reject(w, r, req, code, "game is not accepting bets")
		return
	}

	wager, err := s.Ledger.Place(cfg, t, amount, state.NextIssue)
	if err != nil {
		s.reject(w, r, req, ledger.ReasonCode(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, dto.PlaceBetResponse{Wager: wager})
}

func (s *Server) cancelAll(w http.ResponseWriter, r *http.Request) {
	s.cancel(w, r, func(gameID string, issue int64) decimal.Decimal {
		return s.Ledger.CancelAll(gameID, issue)
	})
}

func (s *Server) cancelType(w http.ResponseWriter, r *http.Request) {
	t, err := pc28.ParseBetType(chi.URLParam(r, "type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.cancel(w, r, func(gameID string, issue int64) decimal.Decimal {
		return s.Ledger.CancelType(gameID, issue, t)
	})
}

// cancel refunds pending wagers for the next unsettled issue. Once the
// round is locked the wagers ride to settlement; cancellation is refused,
// not queued.
func (s *Server) cancel(w http.ResponseWriter, r *http.Request, fn func(string, int64) decimal.Decimal) {
	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		http.Error(w, "game_id required", http.StatusBadRequest)
		return
	}
	if _, err := s.Games.Get(gameID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	_, state, _, _ := s.Clock.Snapshot()
	if state.Locked {
		writeStatusJSON(w, http.StatusConflict, dto.RejectResponse{
			Reason:  "LOCKED",
			Message: "round is locked, wagers ride to settlement",
		})
		return
	}

	refund := fn(gameID, state.NextIssue)
	writeJSON(w, dto.CancelResponse{Refund: refund.String()})
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	tip, state, latest, recent := s.Clock.Snapshot()
	player, house := s.Ledger.Balances()
	writeJSON(w, dto.StateResponse{
		TipHeight:     tip,
		Round:         state,
		PlayerBalance: player.String(),
		HouseBalance:  house.String(),
		LatestResult:  latest,
		RecentResults: recent,
	})
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Games.List())
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.Games.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, cfg)
}

func (s *Server) recentSettled(w http.ResponseWriter, r *http.Request) {
	if s.Reports == nil {
		http.Error(w, "history not available", http.StatusServiceUnavailable)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	ws, err := s.Reports.RecentSettled(r.Context(), r.URL.Query().Get("game_id"), limit)
	if err != nil {
		s.Log.Error("recent settled query failed", zap.Error(err))
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, ws)
}

func (s *Server) updateOdds(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateOddsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	t, err := pc28.ParseBetType(req.Type)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	odds, err := decimal.NewFromString(req.Odds)
	if err != nil {
		http.Error(w, "odds must be a number", http.StatusUnprocessableEntity)
		return
	}
	s.adminWrite(w, r, s.Games.UpdateOdds(chi.URLParam(r, "id"), t, odds))
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	s.adminWrite(w, r, s.Games.SetStatus(chi.URLParam(r, "id"), gameconfig.GameStatus(req.Status)))
}

func (s *Server) setSpecialRules(w http.ResponseWriter, r *http.Request) {
	var req dto.SetSpecialRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	single, err := decimal.NewFromString(req.SingleOdds)
	if err != nil {
		http.Error(w, "single_odds must be a number", http.StatusUnprocessableEntity)
		return
	}
	combo, err := decimal.NewFromString(req.ComboOdds)
	if err != nil {
		http.Error(w, "combo_odds must be a number", http.StatusUnprocessableEntity)
		return
	}
	s.adminWrite(w, r, s.Games.SetSpecialRules(chi.URLParam(r, "id"), req.Enabled, single, combo))
}

func (s *Server) applyLimits(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyLimitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	minBet, err := decimal.NewFromString(req.MinBet)
	if err != nil {
		http.Error(w, "min_bet must be a number", http.StatusUnprocessableEntity)
		return
	}
	maxBet, err := decimal.NewFromString(req.MaxBet)
	if err != nil {
		http.Error(w, "max_bet must be a number", http.StatusUnprocessableEntity)
		return
	}
	s.adminWrite(w, r, s.Games.ApplyLimits(req.GameIDs, minBet, maxBet))
}

func (s *Server) gameTotals(w http.ResponseWriter, r *http.Request) {
	if s.Reports == nil {
		http.Error(w, "history not available", http.StatusServiceUnavailable)
		return
	}
	totals, err := s.Reports.TotalsByGame(r.Context())
	if err != nil {
		s.Log.Error("totals query failed", zap.Error(err))
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, totals)
}

func (s *Server) adminWrite(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, gameconfig.ErrUnknownGame):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	}
}

// reject answers 422 with the reason code and mirrors it to the event bus.
func (s *Server) reject(w http.ResponseWriter, r *http.Request, req dto.PlaceBetRequest, code, msg string) {
	if s.Publ != nil {
		ev := events.BetRejected{
			GameID:   req.GameID,
			Type:     req.Type,
			Amount:   req.Amount,
			Reason:   code,
			TsUnixMs: time.Now().UnixMilli(),
		}
		if b, err := json.Marshal(ev); err == nil {
			if err := s.Publ.Publish(r.Context(), req.GameID, b); err != nil {
				s.Log.Warn("publish bet_rejected failed", zap.Error(err))
			}
		}
	}
	writeStatusJSON(w, http.StatusUnprocessableEntity, dto.RejectResponse{Reason: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
