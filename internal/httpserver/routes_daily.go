// internal/httpserver/routes_daily.go
//
// Daily challenge endpoints. Everyone gets the same word per UTC day,
// selected by a salted HMAC so the schedule cannot be read off the
// published answer list. Signed-in players get one attempt per day and a
// leaderboard slot on a win; guests can play but nothing is recorded.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/gridle-game/gridle/internal/daily"
	"github.com/gridle-game/gridle/internal/game"
	"github.com/gridle-game/gridle/internal/store"
	"github.com/gridle-game/gridle/internal/words"
)

// dailyRun tracks one in-flight daily attempt, keyed by game ID.
type dailyRun struct {
	userID    string // empty for guests
	date      string
	wordIndex int
	started   time.Time
}

// dailyRuns is the registry of active daily sessions.
type dailyRuns struct {
	mu   sync.Mutex
	runs map[string]dailyRun
}

func newDailyRuns() *dailyRuns {
	return &dailyRuns{runs: make(map[string]dailyRun)}
}

func (d *dailyRuns) put(id string, run dailyRun) {
	d.mu.Lock()
	d.runs[id] = run
	d.mu.Unlock()
}

func (d *dailyRuns) get(id string) (dailyRun, bool) {
	d.mu.Lock()
	run, ok := d.runs[id]
	d.mu.Unlock()
	return run, ok
}

func (d *dailyRuns) remove(id string) {
	d.mu.Lock()
	delete(d.runs, id)
	d.mu.Unlock()
}

// mountDaily registers the daily challenge routes on an optional-auth router.
func (s *Server) mountDaily(r chi.Router) {
	r.Post("/daily/new", s.handleDailyNew)
	r.Post("/daily/event", s.handleDailyEvent)
	r.Get("/daily/leaderboard", s.handleDailyLeaderboard)
}

// handleDailyNew starts today's challenge. Signed-in players who already
// have a recorded result for today get a 409.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	date := daily.DateKey(now)
	answers, _ := words.Stats()
	idx := daily.WordIndex(now, s.cfg.DailySalt, answers)

	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me != nil {
		played, err := daily.NewStore(s.db).AlreadyPlayed(r.Context(), me.ID, date)
		if err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("daily played check")
		}
		if played {
			http.Error(w, `{"error":"already_played","date":"`+date+`"}`, http.StatusConflict)
			return
		}
	}

	relay := newRelay()
	sess, err := game.NewSession(words.ForIndex(idx), game.WithSink(relay))
	if err != nil {
		log.Error().Err(err).Msg("create daily session")
		http.Error(w, `{"error":"create_failed"}`, http.StatusInternalServerError)
		return
	}
	s.hub.register(sess.ID(), relay)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save daily session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	run := dailyRun{date: date, wordIndex: idx, started: now}
	if me != nil {
		run.userID = me.ID
	}
	s.daily.put(sess.ID(), run)

	res := struct {
		stateRes
		Date string `json:"date"`
	}{snapshot(sess, ""), date}
	_ = json.NewEncoder(w).Encode(res)
}

// handleDailyEvent applies one input event to a daily session. Winning runs
// by signed-in players are persisted with elapsed time for the leaderboard.
func (s *Server) handleDailyEvent(w http.ResponseWriter, r *http.Request) {
	var req gameEventReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	in, ok := req.toInput()
	if !ok {
		http.Error(w, `{"error":"bad_event"}`, http.StatusBadRequest)
		return
	}
	run, ok := s.daily.get(req.GameID)
	if !ok {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	var res stateRes
	err := s.store.With(r.Context(), req.GameID, func(sess *game.Session) error {
		wasFinished := sess.Outcome().Finished()
		evErr := sess.Handle(in)
		notice, advisory := noticeFor(evErr)
		if !advisory {
			return evErr
		}
		res = snapshot(sess, notice)
		if !wasFinished && sess.Outcome().Finished() {
			s.finishDailyRun(r, sess, run)
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", req.GameID).Msg("apply daily event")
		http.Error(w, `{"error":"event_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// finishDailyRun records the outcome for signed-in players. Losses consume
// the day's attempt too, with guesses=0 marking a miss.
func (s *Server) finishDailyRun(r *http.Request, sess *game.Session, run dailyRun) {
	s.daily.remove(sess.ID())
	s.scheduleEviction(sess.ID())
	if run.userID == "" {
		return
	}
	guesses := len(sess.Guesses())
	if sess.Outcome() != game.OutcomeWon {
		guesses = 0
	}
	res := daily.Result{
		UserID:    run.userID,
		Date:      run.date,
		WordIndex: run.wordIndex,
		Guesses:   guesses,
		ElapsedMs: int(time.Since(run.started).Milliseconds()),
	}
	if err := daily.NewStore(s.db).InsertResult(r.Context(), res); err != nil {
		log.Warn().Err(err).Str("user", run.userID).Msg("insert daily result")
	}
}

// handleDailyLeaderboard lists today's (or ?date=) winners, fastest first.
func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	rows, err := daily.NewStore(s.db).Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily leaderboard")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}

	type lbEntry struct {
		Username  string `json:"username"`
		Guesses   int    `json:"guesses"`
		ElapsedMs int    `json:"elapsedMs"`
	}
	out := make([]lbEntry, 0, len(rows))
	for _, row := range rows {
		name := "?"
		if u, err := s.findUserByID(row.UserID); err == nil {
			name = u.Username
		}
		out = append(out, lbEntry{Username: name, Guesses: row.Guesses, ElapsedMs: row.ElapsedMs})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"date": date, "entries": out})
}
