package e2etests

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

const (
	baseURL   = "http://localhost:8080"
	timeout   = 5 * time.Second
	waitReady = 20 * time.Second
)

// Holding accounts seeded by the migrator's dev data set.
const (
	player1   = "0100000000000000000000000000000000000000000000000000000000000000"
	player2   = "0200000000000000000000000000000000000000000000000000000000000000"
	player3   = "0300000000000000000000000000000000000000000000000000000000000000"
	authority = "aa00000000000000000000000000000000000000000000000000000000000000"
)

var httpClient = &http.Client{Timeout: timeout}

// newSessionID produces a fresh 32-char id so reruns against the same
// database never collide.
func newSessionID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

func TestE2E_WinnerTakesAllFlow(t *testing.T) {
	waitUntilReady(t)

	sessionID := newSessionID()
	p1Before := getBalance(t, player1)
	p2Before := getBalance(t, player2)

	t.Run("create_session", func(t *testing.T) {
		code, body := postJSON(t, "/sessions", map[string]any{
			"sessionId": sessionID,
			"authority": authority,
			"bet":       1000,
			"mode":      "winner-takes-all-1v1",
		})
		if code != http.StatusCreated {
			t.Fatalf("create: want 201, got %d (%s)", code, body)
		}
	})

	t.Run("duplicate_session_conflict", func(t *testing.T) {
		code, body := postJSON(t, "/sessions", map[string]any{
			"sessionId": sessionID,
			"authority": authority,
			"bet":       1000,
			"mode":      "winner-takes-all-1v1",
		})
		if code != http.StatusConflict {
			t.Fatalf("duplicate create: want 409, got %d (%s)", code, body)
		}
	})

	t.Run("both_players_join", func(t *testing.T) {
		code, body := postJSON(t, "/sessions/"+sessionID+"/join", map[string]any{
			"caller": player1,
			"team":   0,
		})
		if code != http.StatusOK {
			t.Fatalf("player1 join: want 200, got %d (%s)", code, body)
		}

		code, body = postJSON(t, "/sessions/"+sessionID+"/join", map[string]any{
			"caller": player2,
			"team":   1,
		})
		if code != http.StatusOK {
			t.Fatalf("player2 join: want 200, got %d (%s)", code, body)
		}

		s := getSession(t, sessionID)
		if s.Status != "in_progress" {
			t.Fatalf("after both joins: want in_progress, got %s", s.Status)
		}
		if s.VaultBalance != 2000 {
			t.Fatalf("escrowed vault: want 2000, got %d", s.VaultBalance)
		}
	})

	t.Run("late_join_rejected", func(t *testing.T) {
		code, body := postJSON(t, "/sessions/"+sessionID+"/join", map[string]any{
			"caller": player3,
			"team":   0,
		})
		if code != http.StatusConflict {
			t.Fatalf("late join: want 409, got %d (%s)", code, body)
		}
	})

	t.Run("kill_reported_by_authority", func(t *testing.T) {
		code, body := postJSON(t, "/sessions/"+sessionID+"/kill", map[string]any{
			"caller":     authority,
			"killerTeam": 0,
			"killer":     player1,
			"victimTeam": 1,
			"victim":     player2,
		})
		if code != http.StatusOK {
			t.Fatalf("kill: want 200, got %d (%s)", code, body)
		}
	})

	t.Run("kill_by_stranger_forbidden", func(t *testing.T) {
		code, body := postJSON(t, "/sessions/"+sessionID+"/kill", map[string]any{
			"caller":     player3,
			"killerTeam": 0,
			"killer":     player1,
			"victimTeam": 1,
			"victim":     player2,
		})
		if code != http.StatusForbidden {
			t.Fatalf("stranger kill: want 403, got %d (%s)", code, body)
		}
	})

	t.Run("distribute_pays_winner", func(t *testing.T) {
		code, body := postJSON(t, "/sessions/"+sessionID+"/distribute", map[string]any{
			"caller":      authority,
			"winningTeam": 0,
			"accounts": []map[string]string{
				{"player": player1, "destination": player1},
			},
		})
		if code != http.StatusOK {
			t.Fatalf("distribute: want 200, got %d (%s)", code, body)
		}

		s := getSession(t, sessionID)
		if s.Status != "completed" {
			t.Fatalf("settled status: want completed, got %s", s.Status)
		}
		if s.VaultBalance != 0 {
			t.Fatalf("settled vault: want 0, got %d", s.VaultBalance)
		}

		// Winner nets +1000 (their stake back plus the loser's),
		// loser nets -1000.
		if got := getBalance(t, player1); got != p1Before+1000 {
			t.Fatalf("winner balance: want %d, got %d", p1Before+1000, got)
		}
		if got := getBalance(t, player2); got != p2Before-1000 {
			t.Fatalf("loser balance: want %d, got %d", p2Before-1000, got)
		}
	})

	t.Run("second_distribute_conflict", func(t *testing.T) {
		code, body := postJSON(t, "/sessions/"+sessionID+"/distribute", map[string]any{
			"caller":      authority,
			"winningTeam": 0,
			"accounts": []map[string]string{
				{"player": player1, "destination": player1},
			},
		})
		if code != http.StatusConflict {
			t.Fatalf("second distribute: want 409, got %d (%s)", code, body)
		}
	})
}

func TestE2E_PayToSpawnRefundFlow(t *testing.T) {
	waitUntilReady(t)

	sessionID := newSessionID()
	p1Before := getBalance(t, player1)
	p2Before := getBalance(t, player2)

	code, body := postJSON(t, "/sessions", map[string]any{
		"sessionId": sessionID,
		"authority": authority,
		"bet":       1000,
		"mode":      "pay-to-spawn-1v1",
	})
	if code != http.StatusCreated {
		t.Fatalf("create: want 201, got %d (%s)", code, body)
	}

	code, body = postJSON(t, "/sessions/"+sessionID+"/join", map[string]any{
		"caller": player1,
		"team":   0,
	})
	if code != http.StatusOK {
		t.Fatalf("player1 join: want 200, got %d (%s)", code, body)
	}

	code, body = postJSON(t, "/sessions/"+sessionID+"/join", map[string]any{
		"caller": player2,
		"team":   1,
	})
	if code != http.StatusOK {
		t.Fatalf("player2 join: want 200, got %d (%s)", code, body)
	}

	// Two spawn purchases at bet/10 = 100 each.
	for i := 0; i < 2; i++ {
		code, body = postJSON(t, "/sessions/"+sessionID+"/spawn", map[string]any{
			"caller": player1,
			"team":   0,
		})
		if code != http.StatusOK {
			t.Fatalf("spawn purchase %d: want 200, got %d (%s)", i, code, body)
		}
	}

	s := getSession(t, sessionID)
	if s.VaultBalance != 2200 {
		t.Fatalf("vault with fees: want 2200, got %d", s.VaultBalance)
	}

	code, body = postJSON(t, "/sessions/"+sessionID+"/refund", map[string]any{
		"caller": authority,
		"accounts": []map[string]string{
			{"player": player1, "destination": player1},
			{"player": player2, "destination": player2},
		},
	})
	if code != http.StatusOK {
		t.Fatalf("refund: want 200, got %d (%s)", code, body)
	}

	// Refund restores everything each player put in, fees included.
	if got := getBalance(t, player1); got != p1Before {
		t.Fatalf("player1 after refund: want %d, got %d", p1Before, got)
	}
	if got := getBalance(t, player2); got != p2Before {
		t.Fatalf("player2 after refund: want %d, got %d", p2Before, got)
	}

	s = getSession(t, sessionID)
	if s.VaultBalance != 0 {
		t.Fatalf("vault after refund: want 0, got %d", s.VaultBalance)
	}
}

func TestE2E_Validation(t *testing.T) {
	waitUntilReady(t)

	t.Run("unknown_session_404", func(t *testing.T) {
		resp, err := httpClient.Get(baseURL + "/sessions/" + newSessionID())
		if err != nil {
			t.Fatalf("get session: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("unknown session: want 404, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid_mode_400", func(t *testing.T) {
		code, body := postJSON(t, "/sessions", map[string]any{
			"sessionId": newSessionID(),
			"authority": authority,
			"bet":       1000,
			"mode":      "coin-flip",
		})
		if code != http.StatusBadRequest {
			t.Fatalf("bad mode: want 400, got %d (%s)", code, body)
		}
	})

	t.Run("zero_bet_400", func(t *testing.T) {
		code, body := postJSON(t, "/sessions", map[string]any{
			"sessionId": newSessionID(),
			"authority": authority,
			"bet":       0,
			"mode":      "winner-takes-all-1v1",
		})
		if code != http.StatusBadRequest {
			t.Fatalf("zero bet: want 400, got %d (%s)", code, body)
		}
	})

	t.Run("foreign_stake_source_422", func(t *testing.T) {
		sessionID := newSessionID()

		code, body := postJSON(t, "/sessions", map[string]any{
			"sessionId": sessionID,
			"authority": authority,
			"bet":       1000,
			"mode":      "winner-takes-all-1v1",
		})
		if code != http.StatusCreated {
			t.Fatalf("create: want 201, got %d (%s)", code, body)
		}

		code, body = postJSON(t, "/sessions/"+sessionID+"/join", map[string]any{
			"caller": player1,
			"source": player2,
			"team":   0,
		})
		if code != http.StatusUnprocessableEntity {
			t.Fatalf("foreign source: want 422, got %d (%s)", code, body)
		}
	})
}

/* -------------------- helpers -------------------- */

func waitUntilReady(t *testing.T) {
	t.Helper()

	deadline := time.Now().Add(waitReady)

	for time.Now().Before(deadline) {
		resp, err := httpClient.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				return
			}
		}

		time.Sleep(500 * time.Millisecond)
	}

	t.Fatalf("service at %s not ready within %s", baseURL, waitReady)
}

func postJSON(t *testing.T, path string, payload any) (int, string) {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	return resp.StatusCode, string(body)
}

type sessionPayload struct {
	SessionID    string `json:"sessionId"`
	Status       string `json:"status"`
	VaultBalance uint64 `json:"vaultBalance"`
}

func getSession(t *testing.T, sessionID string) sessionPayload {
	t.Helper()

	u := fmt.Sprintf("%s/sessions/%s", baseURL, sessionID)

	resp, err := httpClient.Get(u)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: want 200, got %d (%s)", u, resp.StatusCode, string(b))
	}

	var payload sessionPayload

	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}

	if payload.SessionID != sessionID {
		t.Fatalf("sessionId mismatch: want %s, got %s", sessionID, payload.SessionID)
	}

	return payload
}

func getBalance(t *testing.T, addr string) uint64 {
	t.Helper()

	u := fmt.Sprintf("%s/accounts/%s/balance", baseURL, addr)

	resp, err := httpClient.Get(u)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: want 200, got %d (%s)", u, resp.StatusCode, string(b))
	}

	var payload struct {
		Addr    string `json:"addr"`
		Balance uint64 `json:"balance"`
	}

	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}

	return payload.Balance
}
