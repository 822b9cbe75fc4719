package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"linkrelay/internal/config"
	"linkrelay/internal/handler"
	"linkrelay/internal/mocks"
	"linkrelay/internal/model"
	"linkrelay/internal/mq"
	"linkrelay/internal/recorder"
	"linkrelay/internal/render"
	"linkrelay/internal/repository"
	"linkrelay/internal/service"
	"linkrelay/internal/visitor"
	"linkrelay/pkg/middleware"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: 8080, Mode: gin.TestMode},
		Session: config.SessionConfig{Name: "linkrelay", Secret: "0123456789abcdef0123456789abcdef", MaxAge: 3600},
	}
}

func newTestRepo(t *testing.T) *repository.LinkRepository {
	repo, err := repository.NewLinkRepository(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "linkrelay.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.AutoMigrate(context.Background()))
	return repo
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *int) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	calls := 0
	resolver := mocks.NewMockResolverInterface(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *service.ResolveRequest) (*service.Outcome, error) {
			calls++
			return nil, service.ErrNotFound
		}).AnyTimes()

	clicks := recorder.NewRecorder(recorder.SinkFunc(func(context.Context, *model.ClickEvent) error { return nil }), config.RecorderConfig{})
	limiter := middleware.NewIPRateLimiter(rate.Every(time.Hour), 1)
	return setupRouter(cfg, resolver, render.MustNewRenderer(), visitor.NewResolver(nil), clicks, limiter), &calls
}

func postUnlock(router *gin.Engine, remoteAddr, forwardedFor string) int {
	w := httptest.NewRecorder()
	form := url.Values{"password": {"guess"}}
	req, _ := http.NewRequest("POST", "/vault/unlock", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	router.ServeHTTP(w, req)
	return w.Code
}

func getWithPassword(router *gin.Engine, remoteAddr, password string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/vault", nil)
	req.RemoteAddr = remoteAddr
	if password != "" {
		req.Header.Set(handler.PasswordHeader, password)
	}
	router.ServeHTTP(w, req)
	return w.Code
}

func TestSetupRouter(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"recorder"`)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("unknown short code", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/nope", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unlock is rate limited per client", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, postUnlock(router, "203.0.113.9:4000", ""))
		assert.Equal(t, http.StatusTooManyRequests, postUnlock(router, "203.0.113.9:4000", ""))
	})
}

func TestSetupRouter_PasswordAttemptsShareOneLimit(t *testing.T) {
	t.Run("header passwords on GET are limited", func(t *testing.T) {
		router, calls := newTestRouter(t, testConfig())

		limited := 0
		for i := 0; i < 20; i++ {
			if getWithPassword(router, "9.9.9.9:5000", "guess") == http.StatusTooManyRequests {
				limited++
			}
		}

		assert.Equal(t, 19, limited)
		assert.Equal(t, 1, *calls)
	})

	t.Run("GET and POST draw from the same budget", func(t *testing.T) {
		router, calls := newTestRouter(t, testConfig())

		assert.Equal(t, http.StatusNotFound, getWithPassword(router, "9.9.9.9:5000", "guess"))
		assert.Equal(t, http.StatusTooManyRequests, postUnlock(router, "9.9.9.9:5000", ""))
		assert.Equal(t, 1, *calls)
	})

	t.Run("plain visits are not limited", func(t *testing.T) {
		router, calls := newTestRouter(t, testConfig())

		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusNotFound, getWithPassword(router, "9.9.9.9:5000", ""))
		}
		assert.Equal(t, 5, *calls)
	})

	t.Run("forwarded addresses from untrusted peers are ignored", func(t *testing.T) {
		router, calls := newTestRouter(t, testConfig())

		limited := 0
		for i := 0; i < 20; i++ {
			xff := fmt.Sprintf("198.51.100.%d", i+1)
			if postUnlock(router, "9.9.9.9:5000", xff) == http.StatusTooManyRequests {
				limited++
			}
		}

		assert.Equal(t, 19, limited)
		assert.Equal(t, 1, *calls)
	})

	t.Run("forwarded addresses from a trusted proxy are honoured", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.TrustedProxies = []string{"10.0.0.1"}
		router, calls := newTestRouter(t, cfg)

		assert.Equal(t, http.StatusNotFound, postUnlock(router, "10.0.0.1:5000", "198.51.100.1"))
		assert.Equal(t, http.StatusNotFound, postUnlock(router, "10.0.0.1:5000", "198.51.100.2"))
		assert.Equal(t, http.StatusTooManyRequests, postUnlock(router, "10.0.0.1:5000", "198.51.100.1"))
		assert.Equal(t, 2, *calls)
	})
}

func TestClickHandler(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	link := &model.Link{ShortCode: "promo", DestinationURL: "https://example.com", IsActive: true}
	require.NoError(t, repo.DB().Create(link).Error)

	handle := clickHandler(repo)

	event := &model.ClickEvent{EventID: "2b1f0d8e-7a43-4f5c-9d55-0a3c1f7e9b21", LinkID: link.ID, ClickedAt: time.Now().UTC()}
	require.NoError(t, handle(ctx, event))
	// redelivery is absorbed
	require.NoError(t, handle(ctx, event))

	got, err := repo.GetLinkByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalClicks)

	orphan := &model.ClickEvent{EventID: "8c0e4b52-1d7a-4a8e-b3f6-5e2d9c7a1f40", LinkID: link.ID + 100, ClickedAt: time.Now().UTC()}
	err = handle(ctx, orphan)
	assert.ErrorIs(t, err, mq.ErrInvalidMessage)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestNewSessionStore(t *testing.T) {
	cfg := testConfig().Session
	assert.NotNil(t, newSessionStore(cfg))

	cfg.Secret = ""
	assert.NotNil(t, newSessionStore(cfg))
}
