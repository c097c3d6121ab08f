package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
)

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "DEBUG"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			var buf bytes.Buffer
			router := gin.New()
			router.Use(NewRequestLogger(logging.NewLogger(&buf, logging.LogLevelDebug)).Handle())
			router.GET("/x", func(c *gin.Context) { c.Status(tc.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

			var entry map[string]any
			if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
				t.Fatalf("Expected one JSON log line, got %q", buf.String())
			}
			if entry["level"] != tc.level {
				t.Errorf("Expected level %s, got %v", tc.level, entry["level"])
			}
			if entry["path"] != "/x" || entry["status"] != float64(tc.status) {
				t.Errorf("Unexpected log entry: %v", entry)
			}
		})
	}
}
