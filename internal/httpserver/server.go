// internal/httpserver/server.go
//
// HTTP server wiring for the evil hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess,
//     GET /game/{id}.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: see auth.go.
//   - Database persistence for game history and user stats.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Live sessions are held in the in-memory store; the DB only records
//     history rows, never the candidate set, so finished games stay dead
//     and in-flight games do not survive a restart.
//   - The response never includes the surviving candidate words. The "evil"
//     trick only works while the player believes a secret word exists.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/evil-hangman/go-server/internal/game"
	"github.com/evil-hangman/go-server/internal/store"
	"github.com/evil-hangman/go-server/internal/words"
)

// Defaults for POST /game/new when the client omits a field.
const (
	defaultLength     = 5
	defaultMaxGuesses = 8
)

// Server bundles router, in-memory game store, and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints — OPTIONAL AUTH (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)
	s.r.With(s.withOptionalAuth()).Get("/game/{id}", s.handleGetGame)

	// Daily Challenge — OPTIONAL AUTH (guests can play; result persisted on win)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	// Debug: dictionary counts
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		wc, lc := words.Stats()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"words": wc, "lengthCount": lc, "lengths": words.Lengths(),
		})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Length     int  `json:"length"`     // word length; default 5
	MaxGuesses *int `json:"maxGuesses"` // wrong-guess budget; default 8, 0 is legal
}
type newGameRes struct {
	GameID      string `json:"gameId"`
	Pattern     string `json:"pattern"`
	WordLength  int    `json:"wordLength"`
	GuessesLeft int    `json:"guessesLeft"`
}

// handleNewGame creates a new in-memory session and persists a DB "owner"
// row (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Length == 0 {
		req.Length = defaultLength
	}
	maxGuesses := defaultMaxGuesses
	if req.MaxGuesses != nil {
		maxGuesses = *req.MaxGuesses
	}

	sess, err := game.New(words.ByLength(req.Length), req.Length, maxGuesses)
	if err != nil {
		http.Error(w, `{"error":"invalid_config"}`, http.StatusBadRequest)
		return
	}
	pattern, err := sess.Pattern()
	if err != nil {
		// No dictionary word of the requested length: nothing to play.
		http.Error(w, `{"error":"no_words"}`, http.StatusBadRequest)
		return
	}

	owner, isUser := s.ownerID(w, r)
	g := store.NewGame(owner, sess)
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist owner row; the candidate set never touches the DB.
	now := time.Now().UTC().Format(time.RFC3339)
	ownerCol := "anonymous_id"
	if isUser {
		ownerCol = "user_id"
	}
	if _, err := s.db.Exec(`INSERT INTO games (id, `+ownerCol+`, word_length, max_guesses, started_at, status, guesses)
	                        VALUES (?,?,?,?,?,?,0)`, g.ID, owner, req.Length, maxGuesses, now, "playing"); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	_ = json.NewEncoder(w).Encode(newGameRes{
		GameID:      g.ID,
		Pattern:     pattern,
		WordLength:  req.Length,
		GuessesLeft: sess.GuessesLeft(),
	})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}
type guessRes struct {
	Pattern     string   `json:"pattern"`
	Occurrences int      `json:"occurrences"`
	GuessesLeft int      `json:"guessesLeft"`
	Guessed     []string `json:"guessed"`
	State       string   `json:"state"`          // "playing" | "won" | "lost"
	Word        string   `json:"word,omitempty"` // revealed on win/loss
}

// handleGuess applies a letter to an in-memory session, persists progress,
// and (if finished) updates user stats in a best-effort transaction.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	letter, ok := parseLetter(req.Letter)
	if !ok {
		http.Error(w, `{"error":"invalid_letter"}`, http.StatusBadRequest)
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	g.Lock()
	occ, err := g.Session.Record(letter)
	if err != nil {
		g.Unlock()
		switch {
		case errors.Is(err, game.ErrDuplicateGuess):
			http.Error(w, `{"error":"duplicate_guess"}`, http.StatusBadRequest)
		case errors.Is(err, game.ErrEmptyState):
			http.Error(w, `{"error":"game_over"}`, http.StatusConflict)
		default:
			http.Error(w, `{"error":"guess_failed"}`, http.StatusInternalServerError)
		}
		return
	}
	res := s.snapshot(g, occ)
	g.Unlock()

	if err := s.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist counters/history (best effort, non-fatal if it fails).
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	tx, _ := s.db.Begin()
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1 WHERE id=?`, g.ID); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}
	if res.State == "won" || res.State == "lost" {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=?`,
			res.State, time.Now().UTC().Format(time.RFC3339), g.ID); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := s.bumpStats(tx, me.ID, res.State == "won"); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	_ = tx.Commit()

	_ = json.NewEncoder(w).Encode(res)
}

// handleGetGame returns the public view of a live game. The candidate set
// stays server-side.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	g.Lock()
	res := s.snapshot(g, 0)
	g.Unlock()
	_ = json.NewEncoder(w).Encode(res)
}

// snapshot renders the player-visible state of a game. Caller holds g's lock.
func (s *Server) snapshot(g *store.Game, occ int) guessRes {
	sess := g.Session
	pattern, err := sess.Pattern()
	if err != nil {
		// Unreachable for games created through handleNewGame; the largest
		// partition always survives.
		pattern = ""
	}

	guessed := []string{}
	for _, r := range sess.Guesses() {
		guessed = append(guessed, string(r))
	}

	res := guessRes{
		Pattern:     pattern,
		Occurrences: occ,
		GuessesLeft: sess.GuessesLeft(),
		Guessed:     guessed,
		State:       "playing",
	}
	switch {
	case game.Solved(pattern):
		res.State = "won"
		res.Word = strings.ReplaceAll(pattern, " ", "")
	case sess.GuessesLeft() == 0:
		res.State = "lost"
		// The evil reveal: any surviving candidate will do, since all of
		// them were "the word" until a moment ago.
		if ws := sess.Words(); len(ws) > 0 {
			res.Word = ws[0]
		}
	}
	return res
}

// parseLetter extracts a single a–z letter from client input.
func parseLetter(s string) (rune, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	rs := []rune(s)
	if len(rs) != 1 || rs[0] < 'a' || rs[0] > 'z' {
		return 0, false
	}
	return rs[0], true
}

// ownerID resolves the stable owner of a request: the authenticated user ID
// when logged in, otherwise the anonymous cookie ID (set if absent).
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) (id string, isUser bool) {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID, true
	}
	return s.ensureAnonID(w, r), false
}
