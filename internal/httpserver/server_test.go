package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/gridle-game/gridle/internal/store"
	"github.com/gridle-game/gridle/internal/words"
)

// newTestStack builds a server on a throwaway SQLite file with the real
// schema applied, returning both the Server and its test listener.
func newTestStack(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	require.NoError(t, words.Init())

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "sql", "0001_init.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	srv := New(store.NewMemoryStore(), db, Config{})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	_, ts := newTestStack(t)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// postJSON posts body and decodes the response into out (when out != nil).
func postJSON(t *testing.T, c *http.Client, url string, body, out any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := c.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func getJSON(t *testing.T, c *http.Client, url string, out any) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// typeWord sends one letter event per rune and returns the last snapshot.
func typeWord(t *testing.T, c *http.Client, base, gameID, word string) stateRes {
	t.Helper()
	var st stateRes
	for _, r := range word {
		resp := postJSON(t, c, base+"/game/event",
			gameEventReq{GameID: gameID, Type: "letter", Letter: string(r)}, &st)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	return st
}

func submit(t *testing.T, c *http.Client, base, gameID string) stateRes {
	t.Helper()
	var st stateRes
	resp := postJSON(t, c, base+"/game/event",
		gameEventReq{GameID: gameID, Type: "submit"}, &st)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return st
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := getJSON(t, newClient(t), ts.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGameWinFlow(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	var created stateRes
	resp := postJSON(t, c, ts.URL+"/game/new", map[string]any{"answer": "crane"}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, created.GameID)
	require.Equal(t, 6, created.Rows)
	require.Equal(t, 5, created.Cols)
	require.True(t, created.AcceptingInput)
	require.Empty(t, created.Answer)

	typeWord(t, c, ts.URL, created.GameID, "trace")
	st := submit(t, c, ts.URL, created.GameID)
	require.Equal(t, "playing", st.Outcome.String())
	require.Equal(t, "absent", st.Board[0][0].Status.String()) // t: not in crane
	require.Equal(t, "correct", st.Board[0][1].Status.String())
	require.Equal(t, "absent", st.Keyboard["t"].String())
	require.Equal(t, "present", st.Keyboard["c"].String()) // c at 3: wrong spot

	typeWord(t, c, ts.URL, created.GameID, "crane")
	st = submit(t, c, ts.URL, created.GameID)
	require.Equal(t, "won", st.Outcome.String())
	require.Equal(t, "crane", st.Answer)
	require.False(t, st.AcceptingInput)

	// Finished games reject further input with a notice, not an error.
	st = typeWord(t, c, ts.URL, created.GameID, "x")
	require.Equal(t, "input_rejected", st.Notice)
}

func TestGameAdvisoryNotices(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	var created stateRes
	postJSON(t, c, ts.URL+"/game/new", map[string]any{"answer": "crane"}, &created)

	// Short row.
	typeWord(t, c, ts.URL, created.GameID, "tra")
	st := submit(t, c, ts.URL, created.GameID)
	require.Equal(t, "incomplete_guess", st.Notice)
	require.Equal(t, 0, st.Row)

	// Fill with junk not on the allowed list.
	typeWord(t, c, ts.URL, created.GameID, "xq")
	st = submit(t, c, ts.URL, created.GameID)
	require.Equal(t, "unknown_word", st.Notice)
	require.Equal(t, "playing", st.Outcome.String())
}

func TestGameEventUnknownID(t *testing.T) {
	ts := newTestServer(t)
	var out map[string]any
	resp := postJSON(t, newClient(t), ts.URL+"/game/event",
		gameEventReq{GameID: "nope", Type: "submit"}, &out)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGameState(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	var created stateRes
	postJSON(t, c, ts.URL+"/game/new", map[string]any{"answer": "crane"}, &created)
	typeWord(t, c, ts.URL, created.GameID, "tr")

	var st stateRes
	resp := getJSON(t, c, ts.URL+"/game/state?gameId="+created.GameID, &st)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "t", st.Board[0][0].Letter)
	require.Equal(t, "r", st.Board[0][1].Letter)

	resp = getJSON(t, c, ts.URL+"/game/state?gameId=missing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGameQR(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	var created stateRes
	postJSON(t, c, ts.URL+"/game/new", nil, &created)

	resp, err := c.Get(ts.URL + "/game/qr?gameId=" + created.GameID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestSignupLoginMe(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	var created map[string]any
	resp := postJSON(t, c, ts.URL+"/auth/signup",
		signupReq{Username: "alice", Password: "hunter2hunter2"}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", created["username"])

	var me authUser
	resp = getJSON(t, c, ts.URL+"/auth/me", &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", me.Username)

	resp = postJSON(t, c, ts.URL+"/auth/signup",
		signupReq{Username: "ALICE", Password: "hunter2hunter2"}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postJSON(t, newClient(t), ts.URL+"/auth/login",
		loginReq{Username: "alice", Password: "wrongwrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c2 := newClient(t)
	resp = postJSON(t, c2, ts.URL+"/auth/login",
		loginReq{Username: "alice", Password: "hunter2hunter2"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = getJSON(t, c2, ts.URL+"/auth/me", &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	for _, tc := range []signupReq{
		{Username: "ab", Password: "longenough"},
		{Username: "spaced name", Password: "longenough"},
		{Username: "valid", Password: "short"},
	} {
		resp := postJSON(t, c, ts.URL+"/auth/signup", tc, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "%+v", tc)
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/auth/me", "/stats/me", "/games/mine"} {
		resp := getJSON(t, newClient(t), ts.URL+path, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestStatsAfterWin(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	postJSON(t, c, ts.URL+"/auth/signup", signupReq{Username: "bob", Password: "hunter2hunter2"}, nil)

	var created stateRes
	postJSON(t, c, ts.URL+"/game/new", map[string]any{"answer": "crane"}, &created)
	typeWord(t, c, ts.URL, created.GameID, "crane")
	st := submit(t, c, ts.URL, created.GameID)
	require.Equal(t, "won", st.Outcome.String())

	var stats map[string]any
	resp := getJSON(t, c, ts.URL+"/stats/me", &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, stats["gamesPlayed"])
	require.EqualValues(t, 1, stats["wins"])
	require.EqualValues(t, 1, stats["streak"])

	var games []map[string]any
	resp = getJSON(t, c, ts.URL+"/games/mine", &games)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, games, 1)
	require.Equal(t, "won", games[0]["status"])
}

func TestDaily(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	// Guests can play; nothing is recorded.
	var created struct {
		stateRes
		Date string `json:"date"`
	}
	resp := postJSON(t, c, ts.URL+"/daily/new", nil, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, created.GameID)
	require.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, created.Date)

	// Same day, same word: a second session has the same columns and an
	// event round-trips.
	typeWord(t, c, ts.URL, created.GameID, "stare")
	st := submit(t, c, ts.URL, created.GameID)
	require.Equal(t, 5, st.Cols)

	var lb map[string]any
	resp = getJSON(t, c, ts.URL+"/daily/leaderboard", &lb)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created.Date, lb["date"])
}

// State reads go through the same per-session lock as input events, so
// snapshots taken mid-play are always internally consistent.
func TestStateReadsDuringEvents(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	var created stateRes
	postJSON(t, c, ts.URL+"/game/new", map[string]any{"answer": "crane"}, &created)

	errCh := make(chan error, 64)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 40; i++ {
			typ, letter := "letter", "a"
			if i%5 == 4 {
				typ, letter = "delete", ""
			}
			body, _ := json.Marshal(gameEventReq{GameID: created.GameID, Type: typ, Letter: letter})
			resp, err := c.Post(ts.URL+"/game/event", "application/json", bytes.NewReader(body))
			if err != nil {
				errCh <- err
				return
			}
			resp.Body.Close()
		}
	}()

	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				resp, err := c.Get(ts.URL + "/game/state?gameId=" + created.GameID)
				if err != nil {
					errCh <- err
					return
				}
				var st stateRes
				err = json.NewDecoder(resp.Body).Decode(&st)
				resp.Body.Close()
				if err != nil {
					errCh <- err
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent request: %v", err)
	}
}

// Finished games are evicted from the in-memory store (and their relay
// from the hub) after the retention window; only the games row remains.
func TestFinishedSessionEviction(t *testing.T) {
	srv, ts := newTestStack(t)
	srv.retainFinished = 10 * time.Millisecond
	c := newClient(t)

	var created stateRes
	postJSON(t, c, ts.URL+"/game/new", map[string]any{"answer": "crane"}, &created)
	typeWord(t, c, ts.URL, created.GameID, "crane")
	st := submit(t, c, ts.URL, created.GameID)
	require.Equal(t, "won", st.Outcome.String())

	require.Eventually(t, func() bool {
		resp, err := c.Get(ts.URL + "/game/state?gameId=" + created.GameID)
		if err != nil {
			return false
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			return false
		}
		_, stillRegistered := srv.hub.lookup(created.GameID)
		return !stillRegistered
	}, 2*time.Second, 20*time.Millisecond)
}

func TestNotFoundJSON(t *testing.T) {
	ts := newTestServer(t)
	var out map[string]any
	resp := getJSON(t, newClient(t), ts.URL+"/definitely/not/here", &out)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "not_found", out["error"])
}
