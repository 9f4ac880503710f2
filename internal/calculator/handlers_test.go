package calculator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"go-calculator/internal/calc"
	"go-calculator/internal/testutil"
)

func newTestRouter(t *testing.T, max int) (http.Handler, *Store) {
	t.Helper()
	store := NewStore(0, max, nil)
	h, err := NewHandler(store, calc.NewFormatter(language.AmericanEnglish))
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r, store
}

func createSession(t *testing.T, router http.Handler) SessionResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil)
	rr := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusCreated, rr.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, rr.Body, &resp)
	return resp
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	return testutil.ExecuteRequest(testutil.JSONRequest(http.MethodPost, path, body), router)
}

func TestCreateSessionStartsEmpty(t *testing.T) {
	router, store := newTestRouter(t, 0)

	resp := createSession(t, router)
	assert.NotEmpty(t, resp.SessionID)
	assert.Nil(t, resp.State.CurrentOperand)
	assert.Nil(t, resp.State.PreviousOperand)
	assert.Nil(t, resp.State.Operation)
	assert.False(t, resp.State.Overwrite)
	assert.Nil(t, resp.Changed)
	assert.Equal(t, 1, store.Len())
}

func TestCreateSessionLimit(t *testing.T) {
	router, _ := newTestRouter(t, 1)
	createSession(t, router)

	req := httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil)
	rr := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusServiceUnavailable, rr.Code)
}

func TestPostActionSequence(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	id := createSession(t, router).SessionID
	base := "/calculator/sessions/" + id + "/actions"

	for _, body := range []string{
		`{"type":"add-digit","digit":"1"}`,
		`{"type":"add-digit","digit":"2"}`,
		`{"type":"add-digit","digit":"0"}`,
		`{"type":"add-digit","digit":"0"}`,
		`{"type":"choose-operation","operation":"*"}`,
		`{"type":"add-digit","digit":"3"}`,
	} {
		rr := post(router, base, body)
		testutil.CheckResponseCode(t, http.StatusOK, rr.Code)
	}

	rr := post(router, base, `{"type":"evaluate"}`)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, rr.Body, &resp)
	require.NotNil(t, resp.State.CurrentOperand)
	assert.Equal(t, "3600", *resp.State.CurrentOperand)
	assert.Equal(t, "3,600", resp.State.Display.Current)
	assert.Nil(t, resp.State.PreviousOperand)
	assert.Nil(t, resp.State.Operation)
	assert.True(t, resp.State.Overwrite)
	require.NotNil(t, resp.Changed)
	assert.True(t, *resp.Changed)
}

func TestPostActionNoopReportsUnchanged(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	id := createSession(t, router).SessionID

	rr := post(router, "/calculator/sessions/"+id+"/actions", `{"type":"evaluate"}`)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, rr.Body, &resp)
	require.NotNil(t, resp.Changed)
	assert.False(t, *resp.Changed)
}

func TestPostActionRejectsInvalidBody(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	id := createSession(t, router).SessionID
	path := "/calculator/sessions/" + id + "/actions"

	for _, body := range []string{
		`not json`,
		`{"type":"add-digit"}`,
		`{"type":"add-digit","digit":"a"}`,
		`{"type":"choose-operation","operation":"^"}`,
		`{"type":"launch"}`,
	} {
		rr := post(router, path, body)
		testutil.CheckResponseCode(t, http.StatusBadRequest, rr.Code)

		assert.NotEmpty(t, testutil.ErrorMessage(t, rr.Body), body)
	}
}

func TestPostKeys(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	id := createSession(t, router).SessionID

	rr := post(router, "/calculator/sessions/"+id+"/keys",
		`{"keys":["1","2","?"],"script":"+3*4<enter>"}`)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, rr.Body, &resp)
	require.NotNil(t, resp.State.CurrentOperand)
	assert.Equal(t, "60", *resp.State.CurrentOperand)
}

func TestPostKeysRejectsBadScript(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	id := createSession(t, router).SessionID

	rr := post(router, "/calculator/sessions/"+id+"/keys", `{"script":"1<nope>"}`)
	testutil.CheckResponseCode(t, http.StatusBadRequest, rr.Code)
}

func TestGetSessionReflectsState(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	id := createSession(t, router).SessionID

	rr := post(router, "/calculator/sessions/"+id+"/keys", `{"script":"1234.5+"}`)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+id, nil)
	rr = testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, rr.Body, &resp)
	assert.Equal(t, id, resp.SessionID)
	assert.Nil(t, resp.State.CurrentOperand)
	require.NotNil(t, resp.State.PreviousOperand)
	assert.Equal(t, "1234.5", *resp.State.PreviousOperand)
	assert.Equal(t, "1,234.5 +", resp.State.Display.Previous)
}

func TestUnknownSession(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/calculator/sessions/missing", ""},
		{http.MethodDelete, "/calculator/sessions/missing", ""},
		{http.MethodPost, "/calculator/sessions/missing/actions", `{"type":"clear"}`},
		{http.MethodPost, "/calculator/sessions/missing/keys", `{"keys":["1"]}`},
		{http.MethodGet, "/calculator/sessions/missing/ws", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := testutil.ExecuteRequest(testutil.JSONRequest(tt.method, tt.path, tt.body), router)
			testutil.CheckResponseCode(t, http.StatusNotFound, rr.Code)
			assert.Equal(t, "session not found", testutil.ErrorMessage(t, rr.Body))
		})
	}
}

func TestDeleteSession(t *testing.T) {
	router, store := newTestRouter(t, 0)
	id := createSession(t, router).SessionID

	req := httptest.NewRequest(http.MethodDelete, "/calculator/sessions/"+id, nil)
	rr := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, store.Len())
}

func TestConcurrentKeysEachSeeTheirOwnResult(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	id := createSession(t, router).SessionID
	path := "/calculator/sessions/" + id + "/keys"

	const n = 40
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := post(router, path, `{"keys":["1"]}`)
			var resp SessionResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil || resp.State.CurrentOperand == nil {
				results <- ""
				return
			}
			results <- *resp.State.CurrentOperand
		}()
	}
	wg.Wait()
	close(results)

	// Every request appended one digit, so each reply must show a distinct length.
	seen := map[string]bool{}
	for cur := range results {
		require.NotEmpty(t, cur)
		assert.False(t, seen[cur], "two replies rendered the same state %q", cur)
		seen[cur] = true
	}
	assert.Len(t, seen, n)
}
