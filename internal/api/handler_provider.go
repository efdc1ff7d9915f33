package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mavrin/wagervault/internal/repos/accounts"
	"github.com/mavrin/wagervault/internal/repos/sessions"
	"github.com/mavrin/wagervault/internal/services/engine"
	"github.com/mavrin/wagervault/internal/wager"
)

// HandlerProvider wraps the settlement engine and exposes HTTP handlers.
type HandlerProvider struct {
	eng *engine.Engine
}

// NewHandler returns a new handler provider.
func NewHandler(eng *engine.Engine) *HandlerProvider {
	return &HandlerProvider{eng: eng}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
// The caller always sees the specific tag.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, sessions.ErrSessionNotFound),
		errors.Is(err, accounts.ErrAccountNotFound),
		errors.Is(err, wager.ErrPlayerNotFound):
		status = http.StatusNotFound

	case errors.Is(err, sessions.ErrDuplicateSession),
		errors.Is(err, wager.ErrPlayerAlreadyJoined),
		errors.Is(err, wager.ErrInvalidSessionState),
		errors.Is(err, accounts.ErrInsufficientFunds):
		status = http.StatusConflict

	case errors.Is(err, wager.ErrUnauthorized):
		status = http.StatusForbidden

	case errors.Is(err, wager.ErrTeamIsFull),
		errors.Is(err, wager.ErrSameTeamKill),
		errors.Is(err, wager.ErrPlayerHasNoSpawns),
		errors.Is(err, wager.ErrInvalidSettlementAccounts),
		errors.Is(err, wager.ErrInvalidTokenSource),
		errors.Is(err, wager.ErrArithmeticOverflow),
		errors.Is(err, wager.ErrArithmeticUnderflow),
		errors.Is(err, wager.ErrRecordSpaceExceeded):
		status = http.StatusUnprocessableEntity

	case errors.Is(err, wager.ErrInvalidTeam),
		errors.Is(err, wager.ErrSessionIDTooLong),
		errors.Is(err, wager.ErrSessionIDTooShort),
		errors.Is(err, wager.ErrInvalidGameMode),
		errors.Is(err, wager.ErrZeroBet),
		errors.Is(err, wager.ErrBetTooLarge):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("instruction failed", "error", err)
		writeError(w, status, "internal error")

		return
	}

	writeError(w, status, errorTag(err))
}

// errorTag reduces a wrapped engine error to its taxonomy sentinel text.
func errorTag(err error) string {
	for _, sentinel := range []error{
		sessions.ErrSessionNotFound, sessions.ErrDuplicateSession,
		accounts.ErrAccountNotFound, accounts.ErrInsufficientFunds,
		wager.ErrPlayerNotFound, wager.ErrPlayerAlreadyJoined,
		wager.ErrTeamIsFull, wager.ErrSameTeamKill,
		wager.ErrPlayerHasNoSpawns, wager.ErrInvalidSettlementAccounts,
		wager.ErrInvalidTokenSource, wager.ErrArithmeticOverflow,
		wager.ErrArithmeticUnderflow, wager.ErrRecordSpaceExceeded,
		wager.ErrInvalidTeam, wager.ErrSessionIDTooLong,
		wager.ErrSessionIDTooShort, wager.ErrInvalidGameMode,
		wager.ErrZeroBet, wager.ErrBetTooLarge,
		wager.ErrInvalidSessionState, wager.ErrUnauthorized,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	return err.Error()
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body")
		}

		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

func sessionIDFromPath(r *http.Request) (string, error) {
	id := chi.URLParam(r, "sessionId")
	if id == "" {
		return "", fmt.Errorf("missing sessionId")
	}

	return id, nil
}

type settlementPair struct {
	Player      string `json:"player"`
	Destination string `json:"destination"`
}

func parsePairs(raw []settlementPair) ([]engine.SettlementAccount, error) {
	pairs := make([]engine.SettlementAccount, 0, len(raw))

	for i, p := range raw {
		player, err := wager.ParseIdentity(p.Player)
		if err != nil {
			return nil, fmt.Errorf("account %d player: %w", i, err)
		}

		dest, err := wager.ParseIdentity(p.Destination)
		if err != nil {
			return nil, fmt.Errorf("account %d destination: %w", i, err)
		}

		pairs = append(pairs, engine.SettlementAccount{Player: player, Destination: dest})
	}

	return pairs, nil
}

// --- Handlers ---

type createSessionRequest struct {
	SessionID string `json:"sessionId"`
	Authority string `json:"authority"`
	Bet       uint64 `json:"bet"`
	Mode      string `json:"mode"`
}

// CreateSessionHandler handles POST /sessions.
func (h *HandlerProvider) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	authority, err := wager.ParseIdentity(req.Authority)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid authority")
		return
	}

	mode, err := wager.ParseGameMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid mode")
		return
	}

	err = h.eng.CreateSession(r.Context(), authority, req.SessionID, req.Bet, mode)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"sessionId":   req.SessionID,
		"sessionAddr": wager.SessionAddress(req.SessionID).String(),
		"vaultAddr":   wager.VaultAddress(req.SessionID).String(),
	})
}

type joinRequest struct {
	Caller string `json:"caller"`
	Source string `json:"source,omitempty"`
	Team   int    `json:"team"`
}

// JoinUserHandler handles POST /sessions/{sessionId}/join.
func (h *HandlerProvider) JoinUserHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req joinRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller, err := wager.ParseIdentity(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid caller")
		return
	}

	source := caller

	if req.Source != "" {
		source, err = wager.ParseIdentity(req.Source)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid source")
			return
		}
	}

	err = h.eng.JoinUser(r.Context(), caller, source, sessionID, req.Team)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type recordKillRequest struct {
	Caller     string `json:"caller"`
	KillerTeam int    `json:"killerTeam"`
	Killer     string `json:"killer"`
	VictimTeam int    `json:"victimTeam"`
	Victim     string `json:"victim"`
}

// RecordKillHandler handles POST /sessions/{sessionId}/kill.
func (h *HandlerProvider) RecordKillHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req recordKillRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller, err := wager.ParseIdentity(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid caller")
		return
	}

	killer, err := wager.ParseIdentity(req.Killer)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid killer")
		return
	}

	victim, err := wager.ParseIdentity(req.Victim)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid victim")
		return
	}

	err = h.eng.RecordKill(r.Context(), caller, sessionID, req.KillerTeam, killer, req.VictimTeam, victim)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PayToSpawnHandler handles POST /sessions/{sessionId}/spawn.
func (h *HandlerProvider) PayToSpawnHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req joinRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller, err := wager.ParseIdentity(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid caller")
		return
	}

	source := caller

	if req.Source != "" {
		source, err = wager.ParseIdentity(req.Source)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid source")
			return
		}
	}

	err = h.eng.PayToSpawn(r.Context(), caller, source, sessionID, req.Team)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type distributeRequest struct {
	Caller      string           `json:"caller"`
	WinningTeam int              `json:"winningTeam"`
	Accounts    []settlementPair `json:"accounts"`
}

// DistributeWinningsHandler handles POST /sessions/{sessionId}/distribute.
func (h *HandlerProvider) DistributeWinningsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req distributeRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller, err := wager.ParseIdentity(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid caller")
		return
	}

	pairs, err := parsePairs(req.Accounts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.eng.DistributeWinnings(r.Context(), caller, sessionID, req.WinningTeam, pairs)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type refundRequest struct {
	Caller   string           `json:"caller"`
	Accounts []settlementPair `json:"accounts"`
}

// RefundWagerHandler handles POST /sessions/{sessionId}/refund.
func (h *HandlerProvider) RefundWagerHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req refundRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller, err := wager.ParseIdentity(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid caller")
		return
	}

	pairs, err := parsePairs(req.Accounts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.eng.RefundWager(r.Context(), caller, sessionID, pairs)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type slotResponse struct {
	Player string `json:"player,omitempty"`
	Spawns uint16 `json:"spawns"`
	Kills  uint16 `json:"kills"`
}

type teamResponse struct {
	TotalStaked uint64         `json:"totalStaked"`
	Slots       []slotResponse `json:"slots"`
}

type sessionResponse struct {
	SessionID    string          `json:"sessionId"`
	SessionAddr  string          `json:"sessionAddr"`
	VaultAddr    string          `json:"vaultAddr"`
	Authority    string          `json:"authority"`
	Bet          uint64          `json:"bet"`
	Mode         string          `json:"mode"`
	Status       string          `json:"status"`
	CreatedAt    int64           `json:"createdAt"`
	VaultBalance uint64          `json:"vaultBalance"`
	Teams        [2]teamResponse `json:"teams"`
}

// GetSessionHandler handles GET /sessions/{sessionId}.
func (h *HandlerProvider) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.eng.GetSession(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s := snap.Session
	resp := sessionResponse{
		SessionID:    s.ID,
		SessionAddr:  snap.SessionAddr.String(),
		VaultAddr:    snap.VaultAddr.String(),
		Authority:    s.Authority.String(),
		Bet:          s.Bet,
		Mode:         s.Mode.String(),
		Status:       s.Status.String(),
		CreatedAt:    s.CreatedAt,
		VaultBalance: snap.VaultBalance,
	}

	for t := wager.TeamA; t <= wager.TeamB; t++ {
		team := teamResponse{TotalStaked: s.Teams[t].TotalStaked}

		for _, slot := range s.Teams[t].Slots {
			sr := slotResponse{Spawns: slot.Spawns, Kills: slot.Kills}
			if slot.Occupied() {
				sr.Player = slot.Player.String()
			}

			team.Slots = append(team.Slots, sr)
		}

		resp.Teams[t] = team
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetBalanceHandler handles GET /accounts/{addr}/balance.
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	addr, err := wager.ParseIdentity(chi.URLParam(r, "addr"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account address")
		return
	}

	balance, err := h.eng.GetBalance(r.Context(), addr)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"addr":    addr.String(),
		"balance": balance,
	})
}
