package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkrelay/internal/recorder"
)

type fixedStats recorder.Stats

func (f fixedStats) Stats() recorder.Stats { return recorder.Stats(f) }

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name         string
		stats        StatsProvider
		wantRecorder bool
	}{
		{"with recorder", fixedStats{Enqueued: 10, Dropped: 2, Written: 7, Failed: 1}, true},
		{"without recorder", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthHandler(tt.stats).Health)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/health", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Code int          `json:"code"`
				Data HealthStatus `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, 0, body.Code)
			assert.Equal(t, "ok", body.Data.Status)
			if tt.wantRecorder {
				require.NotNil(t, body.Data.Recorder)
				assert.Equal(t, uint64(2), body.Data.Recorder.Dropped)
				assert.Equal(t, uint64(7), body.Data.Recorder.Written)
			} else {
				assert.Nil(t, body.Data.Recorder)
			}
		})
	}
}
