// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a letter for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each user plays once per day (enforced by DB + in-memory session).
// The day's word length and guess budget are derived deterministically from
// date + salt, so every player fights the same adversary. Results are
// persisted on win only; a lost session stays locked in memory for the day.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evil-hangman/go-server/internal/daily"
	"github.com/evil-hangman/go-server/internal/game"
	"github.com/evil-hangman/go-server/internal/words"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	GameID    string
	UserID    string
	Challenge daily.Challenge
	Session   *game.Session
	Start     time.Time
	Guesses   int // letters submitted
	Finished  bool
	Won       bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// challengeNow returns today's deterministic challenge configuration.
func (d *dailyServer) challengeNow() daily.Challenge {
	return daily.ChallengeFor(time.Now(), d.salt, words.Lengths())
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID      string `json:"gameId"`
	Date        string `json:"date"`
	WordLength  int    `json:"wordLength"`
	GuessesLeft int    `json:"guessesLeft"`
	Pattern     string `json:"pattern"`
	Played      bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If user already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return its state.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	ch := d.challengeNow()
	if ch.Length == 0 {
		http.Error(w, `{"error":"no_words"}`, http.StatusInternalServerError)
		return
	}

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, ch.Date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: ch.Date, Played: true})
		return
	}

	// Reuse or create session in memory.
	key := uid + "|" + ch.Date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok {
		engine, err := game.New(words.ByLength(ch.Length), ch.Length, ch.MaxGuesses)
		if err != nil {
			d.mu.Unlock()
			http.Error(w, `{"error":"invalid_config"}`, http.StatusInternalServerError)
			return
		}
		sess = &dailySession{
			GameID:    genID(),
			UserID:    uid,
			Challenge: ch,
			Session:   engine,
			Start:     time.Now(),
		}
		d.sessions[key] = sess
	}
	pattern, _ := sess.Session.Pattern()
	res := dailyNewRes{
		GameID:      sess.GameID,
		Date:        ch.Date,
		WordLength:  ch.Length,
		GuessesLeft: sess.Session.GuessesLeft(),
		Pattern:     pattern,
	}
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Pattern     string `json:"pattern"`
	Occurrences int    `json:"occurrences"`
	GuessesLeft int    `json:"guessesLeft"`
	Guesses     int    `json:"guesses"`
	State       string `json:"state"` // in_progress | won | lost | locked
	Word        string `json:"word,omitempty"`
}

// handleGuess validates and applies a letter for today's daily session.
// - Ensures valid GameID and letter.
// - Rejects if no session; a finished session answers "locked".
// - Applies the letter through the adversarial engine.
// - Persists the result to DB on win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	letter, ok := parseLetter(p.Letter)
	if p.GameID == "" || !ok {
		http.Error(w, `{"error":"invalid_letter"}`, http.StatusBadRequest)
		return
	}

	ch := d.challengeNow()

	// Find session.
	key := uid + "|" + ch.Date
	d.mu.Lock()
	defer d.mu.Unlock()
	sess, found := d.sessions[key]
	if !found || sess.GameID != p.GameID {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}
	if sess.Finished {
		_ = json.NewEncoder(w).Encode(dailyGuessRes{State: "locked", Guesses: sess.Guesses})
		return
	}

	occ, err := sess.Session.Record(letter)
	if err != nil {
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
	sess.Guesses++

	pattern, _ := sess.Session.Pattern()
	res := dailyGuessRes{
		Pattern:     pattern,
		Occurrences: occ,
		GuessesLeft: sess.Session.GuessesLeft(),
		Guesses:     sess.Guesses,
		State:       "in_progress",
	}

	switch {
	case game.Solved(pattern):
		sess.Finished, sess.Won = true, true
		res.State = "won"
		res.Word = strings.ReplaceAll(pattern, " ", "")
		elapsed := int(time.Since(sess.Start).Milliseconds())
		_ = d.store.InsertResult(r.Context(), daily.Result{
			UserID: uid, Date: ch.Date, Length: ch.Length,
			Guesses: sess.Guesses, ElapsedMs: elapsed,
		})
	case sess.Session.GuessesLeft() == 0:
		// No DB row for a loss: the lock is the in-memory session itself,
		// which outlives the game until the date rolls over.
		sess.Finished = true
		res.State = "lost"
		if ws := sess.Session.Words(); len(ws) > 0 {
			res.Word = ws[0]
		}
	}

	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = d.challengeNow().Date
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
