package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	wordle "github.com/bcspragu/WordleSuggest"
	"github.com/bcspragu/WordleSuggest/index"
	"github.com/bcspragu/WordleSuggest/memdb"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/websocket"
)

var testWords = []string{
	"cloak", "snack", "coach", "macaw", "crane",
	"trace", "pacts", "attic", "slate", "stale",
}

func TestSessionFlow(t *testing.T) {
	env := setup()

	auth := env.createSession(t)

	got := env.session(t, auth)
	want := &Candidates{
		Count:   10,
		Words:   []string{"attic", "cloak", "coach", "crane", "macaw", "pacts", "slate", "snack", "stale", "trace"},
		History: []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected new session (-want +got)\n%s", diff)
	}

	got = env.applyClue(t, auth, "TRACE:ac")
	want = &Candidates{
		Count:   2,
		Words:   []string{"cloak", "macaw"},
		History: []string{"trace:ac"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected candidates after clue (-want +got)\n%s", diff)
	}

	// The session remembers the clue between requests.
	if diff := cmp.Diff(want, env.session(t, auth)); diff != "" {
		t.Errorf("unexpected reloaded session (-want +got)\n%s", diff)
	}

	got = env.reset(t, auth)
	if got.Count != 10 || len(got.History) != 0 {
		t.Errorf("reset session has %d candidates and history %q, want 10 and none", got.Count, got.History)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	env := setup()

	a, b := env.createSession(t), env.createSession(t)
	env.applyClue(t, a, "trace:ac")

	if got := env.session(t, b).Count; got != 10 {
		t.Errorf("second session has %d candidates, want 10", got)
	}
}

func TestErrors(t *testing.T) {
	env := setup()
	auth := env.createSession(t)

	unknown, err := env.sc.Encode(cookieEncName, wordle.SessionID("session_99"))
	if err != nil {
		t.Fatalf("failed to encode cookie: %v", err)
	}

	tests := []struct {
		desc     string
		method   string
		path     string
		auth     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			desc:     "no cookie",
			method:   http.MethodGet,
			path:     "/api/session",
			wantCode: http.StatusUnauthorized,
			wantBody: "no session",
		},
		{
			desc:     "garbage cookie",
			method:   http.MethodGet,
			path:     "/api/session",
			auth:     "not-a-real-cookie",
			wantCode: http.StatusUnauthorized,
			wantBody: "no session",
		},
		{
			desc:     "unknown session",
			method:   http.MethodPost,
			path:     "/api/session/reset",
			auth:     unknown,
			wantCode: http.StatusNotFound,
			wantBody: "session not found",
		},
		{
			desc:     "malformed body",
			method:   http.MethodPost,
			path:     "/api/session/clue",
			auth:     auth,
			body:     "{",
			wantCode: http.StatusBadRequest,
			wantBody: "malformed request body",
		},
		{
			desc:     "unknown word",
			method:   http.MethodPost,
			path:     "/api/session/clue",
			auth:     auth,
			body:     `{"clue": "zzzzz"}`,
			wantCode: http.StatusBadRequest,
			wantBody: `'zzzzz' is not a 5-letter word`,
		},
		{
			desc:     "unparseable clue",
			method:   http.MethodPost,
			path:     "/api/session/clue",
			auth:     auth,
			body:     `{"clue": "a:b:c:d"}`,
			wantCode: http.StatusBadRequest,
			wantBody: `invalid clue "a:b:c:d"`,
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(test.method, test.path, strings.NewReader(test.body))
			if test.auth != "" {
				addAuth(r, test.auth)
			}
			env.srv.ServeHTTP(w, r)

			if w.Code != test.wantCode {
				t.Errorf("got status %d, want %d", w.Code, test.wantCode)
			}
			if !strings.Contains(w.Body.String(), test.wantBody) {
				t.Errorf("body %q doesn't contain %q", w.Body.String(), test.wantBody)
			}
		})
	}

	// None of the failed clues touched the session.
	if got := env.session(t, auth); got.Count != 10 || len(got.History) != 0 {
		t.Errorf("session has %d candidates and history %q after bad clues, want 10 and none", got.Count, got.History)
	}
}

func TestWebsocketUpdates(t *testing.T) {
	env := setup()
	auth := env.createSession(t)

	ts := httptest.NewServer(env.srv)
	defer ts.Close()

	hdr := http.Header{}
	hdr.Add("Cookie", (&http.Cookie{Name: cookieName, Value: auth}).String())
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/session/ws", hdr)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	defer conn.Close()

	// The first message is a snapshot of the session.
	if got := readUpdate(t, conn); got.Count != 10 {
		t.Errorf("snapshot has %d candidates, want 10", got.Count)
	}

	env.applyClue(t, auth, "trace:ac")

	got := readUpdate(t, conn)
	want := &Update{
		Action: ActionCandidates,
		Candidates: &Candidates{
			Count:   2,
			Words:   []string{"cloak", "macaw"},
			History: []string{"trace:ac"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected update (-want +got)\n%s", diff)
	}
}

func TestWebsocket_RequiresSession(t *testing.T) {
	env := setup()

	ts := httptest.NewServer(env.srv)
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/session/ws", nil)
	if err == nil {
		t.Fatal("dial succeeded without a session cookie")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("got response %v, want status %d", resp, http.StatusUnauthorized)
	}
}

func TestWebsocket_SnapshotOnlyToNewWatcher(t *testing.T) {
	env := setup()
	auth := env.createSession(t)

	ts := httptest.NewServer(env.srv)
	defer ts.Close()

	first := dialWS(t, ts, auth)
	if got := readUpdate(t, first); got.Count != 10 {
		t.Errorf("first snapshot has %d candidates, want 10", got.Count)
	}
	second := dialWS(t, ts, auth)
	if got := readUpdate(t, second); got.Count != 10 {
		t.Errorf("second snapshot has %d candidates, want 10", got.Count)
	}

	env.applyClue(t, auth, "trace:ac")

	// Neither watcher gets another snapshot, just the update.
	for i, conn := range []*websocket.Conn{first, second} {
		if got := readUpdate(t, conn); got.Count != 2 {
			t.Errorf("watcher %d got an update with %d candidates, want 2", i, got.Count)
		}
	}
}

func TestWebsocket_ConcurrentClues(t *testing.T) {
	env := setup()
	auth := env.createSession(t)

	ts := httptest.NewServer(env.srv)
	defer ts.Close()

	conn := dialWS(t, ts, auth)
	readUpdate(t, conn)

	clues := []string{"trace:ac", "crane", "slate:a", "attic", "pacts:a", "coach:c"}
	var wg sync.WaitGroup
	for _, clue := range clues {
		wg.Add(1)
		go func(clue string) {
			defer wg.Done()
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/session/clue", strings.NewReader(`{"clue": "`+clue+`"}`))
			addAuth(r, auth)
			env.srv.ServeHTTP(w, r)
			if w.Code != http.StatusOK {
				t.Errorf("applying %q got status %d: %s", clue, w.Code, w.Body.String())
			}
		}(clue)
	}
	wg.Wait()

	var last *Update
	for range clues {
		last = readUpdate(t, conn)
	}

	// Updates arrive in the order the clues were applied, so the last one
	// matches the session.
	if diff := cmp.Diff(env.session(t, auth), last.Candidates); diff != "" {
		t.Errorf("last update doesn't match session (-want +got)\n%s", diff)
	}
}

func dialWS(t *testing.T, ts *httptest.Server, auth string) *websocket.Conn {
	t.Helper()
	hdr := http.Header{}
	hdr.Add("Cookie", (&http.Cookie{Name: cookieName, Value: auth}).String())
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/session/ws", hdr)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) *Update {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var u Update
	if err := conn.ReadJSON(&u); err != nil {
		t.Fatalf("failed to read update: %v", err)
	}
	return &u
}

func (env *testEnv) createSession(t *testing.T) string {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	if err := env.srv.serveCreateSession(w, r); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	auth := w.Header().Get("Set-Cookie")
	if !strings.HasPrefix(auth, cookieName+"=") {
		t.Fatalf("malformed session cookie %q", auth)
	}
	auth = strings.TrimPrefix(auth, cookieName+"=")
	if i := strings.Index(auth, ";"); i >= 0 {
		auth = auth[:i]
	}
	return auth
}

func (env *testEnv) session(t *testing.T, auth string) *Candidates {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	addAuth(r, auth)

	if err := env.srv.serveSession(w, r); err != nil {
		t.Fatalf("failed to load session: %v", err)
	}

	var c Candidates
	fromBody(t, w, &c)
	return &c
}

func (env *testEnv) applyClue(t *testing.T, auth, clue string) *Candidates {
	req := struct {
		Clue string `json:"clue"`
	}{clue}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/session/clue", toBody(t, req))
	addAuth(r, auth)

	if err := env.srv.serveClue(w, r); err != nil {
		t.Fatalf("failed to apply clue %q: %v", clue, err)
	}

	var c Candidates
	fromBody(t, w, &c)
	return &c
}

func (env *testEnv) reset(t *testing.T, auth string) *Candidates {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/session/reset", nil)
	addAuth(r, auth)

	if err := env.srv.serveReset(w, r); err != nil {
		t.Fatalf("failed to reset session: %v", err)
	}

	var c Candidates
	fromBody(t, w, &c)
	return &c
}

func addAuth(r *http.Request, auth string) {
	r.AddCookie(&http.Cookie{
		Name:  cookieName,
		Value: auth,
	})
}

func toBody(t *testing.T, body interface{}) io.Reader {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	return &buf
}

func fromBody(t *testing.T, w *httptest.ResponseRecorder, resp interface{}) {
	if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

type testEnv struct {
	db  *memdb.DB
	sc  *securecookie.SecureCookie
	srv *Srv
}

func setup() *testEnv {
	db := memdb.New(index.New(wordle.NewDictionary(testWords)))
	sc := setupCookies()

	return &testEnv{
		db:  db,
		sc:  sc,
		srv: New(db, sc),
	}
}

func setupCookies() *securecookie.SecureCookie {
	return securecookie.New(
		[]byte{
			1, 2, 3, 4, 5, 6, 7, 8,
			9, 10, 11, 12, 13, 14, 15, 16,
			17, 18, 19, 20, 21, 22, 23, 24,
			25, 26, 27, 28, 29, 30, 31, 32,
		},
		[]byte{
			33, 34, 35, 36, 37, 38, 39, 40,
			41, 42, 43, 44, 45, 46, 47, 48,
			49, 50, 51, 52, 53, 54, 55, 56,
			57, 58, 59, 60, 61, 62, 63, 64,
		})
}
