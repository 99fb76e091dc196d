package httpadapter_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/PabloGalante/callorder-agent/internal/adapters/http"
	"github.com/PabloGalante/callorder-agent/internal/adapters/llm"
	"github.com/PabloGalante/callorder-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/callorder-agent/internal/app/call"
	"github.com/PabloGalante/callorder-agent/internal/app/orders"
	"github.com/PabloGalante/callorder-agent/internal/menu"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	srv      http.Handler
	sessions *memory.SessionStore
	records  *memory.RecordStore
}

func newTestServer(t *testing.T, script ...string) testEnv {
	t.Helper()

	sessions := memory.NewSessionStore()
	records := memory.NewRecordStore()
	src := menu.NewStatic(menu.Default())

	callSvc := call.NewService(call.Deps{
		Sessions:  sessions,
		Responder: llm.NewMockResponder("END_CALL", script...),
		Menu:      src,
		Sink:      records,
	}, call.Options{Marker: "END_CALL"})

	srv := httpadapter.NewServer(httpadapter.Deps{
		Calls:    callSvc,
		Orders:   orders.NewService(records),
		Sessions: sessions,
		Menu:     src,
		Records:  records,
	})
	return testEnv{srv: srv, sessions: sessions, records: records}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestServer(t)

	w := do(t, env.srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	env.srv.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestInfoCarriesGreeting(t *testing.T) {
	env := newTestServer(t)

	body := decode(t, do(t, env.srv, http.MethodGet, "/", ""))
	assert.Equal(t, "Family Food", body["restaurant"])
	assert.Contains(t, body["greeting"], "Family Food")
}

func TestTurnFlowThroughTermination(t *testing.T) {
	env := newTestServer(t,
		"Delivery or takeaway?",
		"Classic Burger. Total 8.50 euros. Have a nice day! END_CALL",
	)

	w := do(t, env.srv, http.MethodPost, "/calls/CA1/turns", `{"text":"a classic burger"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode(t, w)
	assert.Equal(t, "Delivery or takeaway?", first["reply"])
	assert.Equal(t, "fulfillment_selection", first["stage"])
	assert.Equal(t, false, first["terminated"])

	w = do(t, env.srv, http.MethodGet, "/calls/CA1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["turns"], 2)

	w = do(t, env.srv, http.MethodPost, "/calls/CA1/turns", `{"text":"takeaway, thanks"}`)
	require.Equal(t, http.StatusOK, w.Code)
	last := decode(t, w)
	assert.Equal(t, true, last["terminated"])
	assert.NotContains(t, last["reply"], "END_CALL")
	assert.NotEmpty(t, last["order_id"])
	assert.NotNil(t, last["order"])

	// The call is gone once terminated.
	w = do(t, env.srv, http.MethodGet, "/calls/CA1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, env.srv, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.Equal(t, true, list["available"])
	assert.EqualValues(t, 1, list["total"])
}

func TestEmptyTextIsReprompted(t *testing.T) {
	env := newTestServer(t)

	w := do(t, env.srv, http.MethodPost, "/calls/CA1/turns", `{"text":"   "}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["reprompt"])

	_, ok := env.sessions.Get("CA1")
	assert.False(t, ok)
}

func TestInvalidBodyIsRejected(t *testing.T) {
	env := newTestServer(t)

	w := do(t, env.srv, http.MethodPost, "/calls/CA1/turns", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHangupEvicts(t *testing.T) {
	env := newTestServer(t, "Anything else?")

	do(t, env.srv, http.MethodPost, "/calls/CA1/turns", `{"text":"fries"}`)
	w := do(t, env.srv, http.MethodDelete, "/calls/CA1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, ok := env.sessions.Get("CA1")
	assert.False(t, ok)
}

func TestMenuAndStats(t *testing.T) {
	env := newTestServer(t, "Anything else?", "Anything else?")

	w := do(t, env.srv, http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w), "categories")

	do(t, env.srv, http.MethodPost, "/calls/CA1/turns", `{"text":"fries"}`)
	do(t, env.srv, http.MethodPost, "/calls/CA2/turns", `{"text":"tacos"}`)

	stats := decode(t, do(t, env.srv, http.MethodGet, "/api/calls", ""))
	assert.EqualValues(t, 2, stats["total"])
	assert.EqualValues(t, 2, stats["active"])
}

func TestClearWipesSessions(t *testing.T) {
	env := newTestServer(t, "Anything else?")
	do(t, env.srv, http.MethodPost, "/calls/CA1/turns", `{"text":"fries"}`)

	w := do(t, env.srv, http.MethodPost, "/api/clear", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["sessions"])

	total, _ := env.sessions.Stats()
	assert.Zero(t, total)
}

func TestOrdersRejectsBadLimit(t *testing.T) {
	env := newTestServer(t)

	w := do(t, env.srv, http.MethodGet, "/api/orders?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestServer(t)

	w := do(t, env.srv, http.MethodOptions, "/api/menu", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
