package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amerihn/conference-event-planner/config"
	mw "github.com/amerihn/conference-event-planner/middleware"
	"github.com/amerihn/conference-event-planner/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var sec = config.SecurityConfig{JWTSecret: "sse-secret", JWTTTLH: time.Hour}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestServeSSE_RejectsMissingToken(t *testing.T) {
	m := testutil.SetupTestManager(t, time.Minute)
	r := gin.New()
	r.GET("/sse", NewHandler(m, sec, zap.NewNop()).ServeSSE)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sse", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sse?token=bogus", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServeSSE_StreamsSummaries(t *testing.T) {
	m := testutil.SetupTestManager(t, time.Minute)
	s, err := m.Create(context.Background())
	require.NoError(t, err)
	token, err := mw.GenerateToken(s.ID, sec.JWTSecret, time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/sse", NewHandler(m, sec, zap.NewNop()).ServeSSE)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sse?token="+token, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rd := bufio.NewReader(resp.Body)
	readData := func() string {
		for {
			line, err := rd.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}
	}

	first := readData()
	assert.Contains(t, first, `"grand":"0"`)

	_, err = s.Increment("av", 0)
	require.NoError(t, err)
	require.NoError(t, m.Publish(ctx, s))

	next := readData()
	assert.Contains(t, next, `"grand":"200"`)
}
