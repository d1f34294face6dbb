// internal/httpserver/routes_game.go
//
// Free-play game endpoints. A game is created with POST /game/new; play is
// driven by POST /game/event, one input event (letter/delete/submit) per
// call, mirroring how a keyboard drives the engine. The full board and
// keyboard overlay come back on every event so clients stay stateless.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/rs/zerolog/log"

	"github.com/gridle-game/gridle/internal/game"
	"github.com/gridle-game/gridle/internal/store"
	"github.com/gridle-game/gridle/internal/words"
)

// boardCell is the wire form of one grid cell.
type boardCell struct {
	Letter string      `json:"letter"`
	Status game.Status `json:"status"`
}

// stateRes is the session snapshot returned by /game/event and /game/state.
type stateRes struct {
	GameID         string                 `json:"gameId"`
	Outcome        game.Outcome           `json:"outcome"`
	Row            int                    `json:"row"`
	Rows           int                    `json:"rows"`
	Cols           int                    `json:"cols"`
	Board          [][]boardCell          `json:"board"`
	Keyboard       map[string]game.Status `json:"keyboard"`
	AcceptingInput bool                   `json:"acceptingInput"`
	Notice         string                 `json:"notice,omitempty"` // advisory: incomplete_guess | unknown_word | input_rejected
	Answer         string                 `json:"answer,omitempty"` // revealed once finished
}

func snapshot(s *game.Session, notice string) stateRes {
	grid := s.Board()
	board := make([][]boardCell, len(grid))
	for i, row := range grid {
		board[i] = make([]boardCell, len(row))
		for j, c := range row {
			cell := boardCell{Status: c.Status}
			if c.Letter != 0 {
				cell.Letter = string(c.Letter)
			}
			board[i][j] = cell
		}
	}
	keys := make(map[string]game.Status)
	for l, st := range s.Keyboard() {
		keys[string(l)] = st
	}
	res := stateRes{
		GameID:         s.ID(),
		Outcome:        s.Outcome(),
		Row:            min(s.Rows()-1, boardRow(s)),
		Rows:           s.Rows(),
		Cols:           s.Cols(),
		Board:          board,
		Keyboard:       keys,
		AcceptingInput: s.AcceptingInput(),
		Notice:         notice,
	}
	if s.Outcome().Finished() {
		res.Answer = s.Answer()
	}
	return res
}

func boardRow(s *game.Session) int { return len(s.Guesses()) }

// noticeFor maps advisory engine errors to wire codes.
func noticeFor(err error) (string, bool) {
	switch {
	case err == nil:
		return "", true
	case errors.Is(err, game.ErrGuessIncomplete):
		return "incomplete_guess", true
	case errors.Is(err, game.ErrWordUnknown):
		return "unknown_word", true
	case errors.Is(err, game.ErrInputRejected):
		return "input_rejected", true
	default:
		return "", false
	}
}

// ------------------------------ /game/new ----------------------------------

type newGameReq struct {
	Answer string `json:"answer"` // optional fixed answer (testing/cheat)
	Rows   int    `json:"rows"`   // optional, defaults to 6
}

// handleNewGame creates a session, wires its event relay, and persists an
// owner row (user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	var src words.Source
	if req.Answer != "" {
		var err error
		if src, err = words.ForAnswer(req.Answer); err != nil {
			http.Error(w, `{"error":"bad_answer"}`, http.StatusBadRequest)
			return
		}
	} else {
		src = words.ForRandom()
	}

	// The websocket relay doubles as the session's presentation sink.
	relay := newRelay()
	opts := []game.Option{game.WithSink(relay)}
	if req.Rows > 0 && req.Rows <= 12 {
		opts = append(opts, game.WithRows(req.Rows))
	}
	sess, err := game.NewSession(src, opts...)
	if err != nil {
		log.Error().Err(err).Msg("create session")
		http.Error(w, `{"error":"create_failed"}`, http.StatusInternalServerError)
		return
	}
	s.hub.register(sess.ID(), relay)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Owner row. The answer column is filled on finish, never before.
	now := time.Now().UTC().Format(time.RFC3339)
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		if _, err := s.db.Exec(`INSERT INTO games (id, user_id, started_at, status, guesses) VALUES (?,?,?,?,0)`,
			sess.ID(), me.ID, now, "playing"); err != nil {
			log.Warn().Err(err).Str("gameId", sess.ID()).Msg("insert user game row")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		if _, err := s.db.Exec(`INSERT INTO games (id, anonymous_id, started_at, status, guesses) VALUES (?,?,?,?,0)`,
			sess.ID(), anon, now, "playing"); err != nil {
			log.Warn().Err(err).Str("gameId", sess.ID()).Msg("insert anon game row")
		}
	}

	_ = json.NewEncoder(w).Encode(snapshot(sess, ""))
}

// ----------------------------- /game/event ---------------------------------

type gameEventReq struct {
	GameID string `json:"gameId"`
	Type   string `json:"type"`   // "letter" | "delete" | "submit"
	Letter string `json:"letter"` // single character, for "letter"
}

func (req *gameEventReq) toInput() (game.Input, bool) {
	switch req.Type {
	case "letter":
		runes := []rune(req.Letter)
		if len(runes) != 1 {
			return game.Input{}, false
		}
		return game.Input{Kind: game.InputLetter, Letter: runes[0]}, true
	case "delete":
		return game.Input{Kind: game.InputDelete}, true
	case "submit":
		return game.Input{Kind: game.InputSubmit}, true
	default:
		return game.Input{}, false
	}
}

// handleGameEvent applies one input event to a stored session. Advisory
// engine errors come back as notices with a 200; the session never breaks.
func (s *Server) handleGameEvent(w http.ResponseWriter, r *http.Request) {
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
			s.persistFinish(r, sess)
		} else if in.Kind == game.InputSubmit && evErr == nil {
			s.persistGuess(r, sess)
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", req.GameID).Msg("apply event")
		http.Error(w, `{"error":"event_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// persistGuess bumps the guess counter for an evaluated row (best effort).
func (s *Server) persistGuess(r *http.Request, sess *game.Session) {
	if _, err := s.db.Exec(`UPDATE games SET guesses = guesses + 1 WHERE id=?`, sess.ID()); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID()).Msg("update guesses")
	}
}

// persistFinish finalizes the games row and bumps user stats in one
// best-effort transaction.
func (s *Server) persistFinish(r *http.Request, sess *game.Session) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`UPDATE games SET status=?, answer=?, finished_at=?, guesses=? WHERE id=?`,
		sess.Outcome().String(), sess.Answer(), now, len(sess.Guesses()), sess.ID()); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID()).Msg("finish game row")
	}
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		if err := bumpStats(tx, me.ID, sess.Outcome() == game.OutcomeWon); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
	_ = tx.Commit()

	s.scheduleEviction(sess.ID())
}

// ----------------------------- /game/state ---------------------------------

// handleGameState snapshots under the session's event lock: events mutate
// the same session and it is not safe for concurrent use.
func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("gameId")
	var res stateRes
	err := s.store.With(r.Context(), id, func(sess *game.Session) error {
		res = snapshot(sess, "")
		return nil
	})
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// ------------------------------ /game/qr -----------------------------------

const qrSize = 256

// handleGameQR renders a PNG QR code for a session's share URL.
func (s *Server) handleGameQR(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("gameId")
	if _, err := s.store.Get(r.Context(), id); err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	png, err := qrcode.Encode(s.cfg.BaseURL+"/#/"+id, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, `{"error":"qr_failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
