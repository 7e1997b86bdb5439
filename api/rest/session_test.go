package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amerihn/conference-event-planner/api/rest"
	"github.com/amerihn/conference-event-planner/config"
	"github.com/amerihn/conference-event-planner/planner"
	"github.com/amerihn/conference-event-planner/scheduler"
	"github.com/amerihn/conference-event-planner/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminKey = "admin-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, *planner.Manager) {
	t.Helper()
	m := testutil.SetupTestManager(t, time.Minute)
	sched := scheduler.New(zap.NewNop())
	t.Cleanup(sched.Stop)
	sec := config.SecurityConfig{JWTSecret: "test-secret", JWTTTLH: time.Hour}

	r := gin.New()
	rest.Register(r.Group("/api"), m, sched, config.ServerConfig{AdminKey: adminKey}, sec, zap.NewNop())
	return r, m
}

func do(r *gin.Engine, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// newSession creates a session and returns its id and Authorization header value.
func newSession(t *testing.T, r *gin.Engine) (string, string) {
	t.Helper()
	w := do(r, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	id, _ := resp["session_id"].(string)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, id)
	require.NotEmpty(t, token)
	return id, "Bearer " + token
}

func TestCreateSession(t *testing.T) {
	r, m := newRouter(t)
	id, _ := newSession(t, r)
	assert.Equal(t, 1, m.Count())

	w := do(r, http.MethodPost, "/api/sessions", nil)
	state := decode(t, w)["state"].(map[string]interface{})
	assert.NotEqual(t, id, state["session_id"])
	assert.Equal(t, float64(3), state["remaining_capacity"])
	assert.Equal(t, "editing", state["view"])
	assert.Len(t, state["venue"], 5)
	assert.Len(t, state["line_items"], 0)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newRouter(t)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/session", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/totals", nil, "Authorization", "Bearer junk").Code)
}

func TestCatalogsArePublic(t *testing.T) {
	r, _ := newRouter(t)
	w := do(r, http.MethodGet, "/api/catalogs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	venue := resp["venue"].([]interface{})
	first := venue[0].(map[string]interface{})
	assert.Equal(t, "Conference Room (Capacity:15)", first["name"])
	assert.Equal(t, "3500", first["cost"])
}

func TestAddOnFlow(t *testing.T) {
	r, _ := newRouter(t)
	_, auth := newSession(t, r)

	for _, p := range []string{"/api/addons/0/increment", "/api/addons/0/increment", "/api/addons/2/increment"} {
		w := do(r, http.MethodPost, p, nil, "Authorization", auth)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decode(t, w)["changed"])
	}

	totals := decode(t, do(r, http.MethodGet, "/api/totals", nil, "Authorization", auth))
	assert.Equal(t, "445", totals["av"])
	assert.Equal(t, "445", totals["grand"])
	assert.Equal(t, "0", totals["venue"])

	lines := decode(t, do(r, http.MethodGet, "/api/line-items", nil, "Authorization", auth))
	assert.Equal(t, float64(2), lines["count"])
	items := lines["items"].([]interface{})
	assert.Equal(t, "Projectors", items[0].(map[string]interface{})["name"])
	assert.Equal(t, "400", items[0].(map[string]interface{})["subtotal"])
}

func TestCapacityLimitedVenue(t *testing.T) {
	r, _ := newRouter(t)
	_, auth := newSession(t, r)

	for i := 0; i < 3; i++ {
		w := do(r, http.MethodPost, "/api/venue/1/increment", nil, "Authorization", auth)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := do(r, http.MethodPost, "/api/venue/1/increment", nil, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["changed"])
	state := resp["state"].(map[string]interface{})
	assert.Equal(t, float64(0), state["remaining_capacity"])
	assert.Equal(t, "16500", state["totals"].(map[string]interface{})["venue"])

	w = do(r, http.MethodPost, "/api/venue/0/decrement", nil, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["changed"])
}

func TestIndexErrors(t *testing.T) {
	r, _ := newRouter(t)
	_, auth := newSession(t, r)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/venue/99/increment", nil, "Authorization", auth).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/meals/-1/toggle", nil, "Authorization", auth).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/addons/x/increment", nil, "Authorization", auth).Code)
}

func TestMealsFollowPeople(t *testing.T) {
	r, _ := newRouter(t)
	_, auth := newSession(t, r)

	w := do(r, http.MethodPut, "/api/people", map[string]int{"count": 4}, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPost, "/api/meals/2/toggle", nil, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "260", decode(t, do(r, http.MethodGet, "/api/totals", nil, "Authorization", auth))["meals"])

	w = do(r, http.MethodPut, "/api/people", map[string]int{"count": 6}, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "390", decode(t, do(r, http.MethodGet, "/api/totals", nil, "Authorization", auth))["meals"])

	lines := decode(t, do(r, http.MethodGet, "/api/line-items", nil, "Authorization", auth))
	item := lines["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Meals for 6 people", item["label"])
}

func TestSetPeopleValidation(t *testing.T) {
	r, _ := newRouter(t)
	_, auth := newSession(t, r)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/people", map[string]int{"count": 0}, "Authorization", auth).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/people", map[string]string{}, "Authorization", auth).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/people", map[string]string{"count": "many"}, "Authorization", auth).Code)

	state := decode(t, do(r, http.MethodGet, "/api/session", nil, "Authorization", auth))
	assert.Equal(t, float64(1), state["people"])
}

func TestViewToggleAndNavigate(t *testing.T) {
	r, _ := newRouter(t)
	_, auth := newSession(t, r)

	w := do(r, http.MethodPost, "/api/view/toggle", nil, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "summary", decode(t, w)["view"])

	w = do(r, http.MethodPost, "/api/view/navigate", map[string]string{"section": "#addons"}, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "editing", resp["view"])
	assert.Equal(t, "addons", resp["section"])

	w = do(r, http.MethodPost, "/api/view/navigate", map[string]string{"section": "checkout"}, "Authorization", auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetAndEnd(t *testing.T) {
	r, m := newRouter(t)
	_, auth := newSession(t, r)

	do(r, http.MethodPost, "/api/venue/0/increment", nil, "Authorization", auth)
	w := do(r, http.MethodPost, "/api/session/reset", nil, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", decode(t, w)["grand"])

	require.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/session", nil, "Authorization", auth).Code)
	assert.Zero(t, m.Count())
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/session", nil, "Authorization", auth).Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	r, _ := newRouter(t)
	_, a := newSession(t, r)
	_, b := newSession(t, r)

	do(r, http.MethodPost, "/api/venue/0/increment", nil, "Authorization", a)
	assert.Equal(t, "3500", decode(t, do(r, http.MethodGet, "/api/totals", nil, "Authorization", a))["grand"])
	assert.Equal(t, "0", decode(t, do(r, http.MethodGet, "/api/totals", nil, "Authorization", b))["grand"])
}
