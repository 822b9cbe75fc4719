package handler

import (
	"errors"
	"net/http"
	"strconv"

	"linkrelay/internal/access"
	"linkrelay/internal/render"
	"linkrelay/internal/service"
	"linkrelay/internal/visitor"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	// PasswordHeader lets API clients present a link password on GET
	PasswordHeader = "X-Link-Password"
	// VisitorCookie holds the stable visitor id used for A/B bucketing
	VisitorCookie = "lr_vid"
	// RetryAfterSeconds is advertised on 503 responses
	RetryAfterSeconds = 5

	visitorCookieMaxAge = 365 * 24 * 3600
	unlockKeyPrefix     = "unlock:"
)

// ResolveHandler serves short code resolution and password unlocks
type ResolveHandler struct {
	resolver     service.ResolverInterface
	renderer     *render.Renderer
	visitors     *visitor.Resolver
	secureCookie bool
}

// NewResolveHandler creates a new ResolveHandler
func NewResolveHandler(
	resolver service.ResolverInterface,
	renderer *render.Renderer,
	visitors *visitor.Resolver,
	secureCookie bool,
) *ResolveHandler {
	return &ResolveHandler{
		resolver:     resolver,
		renderer:     renderer,
		visitors:     visitors,
		secureCookie: secureCookie,
	}
}

// Resolve handles GET /:shortCode
// @Summary Resolve a short link
// @Description Redirects, serves an interstitial page, asks for a password or rejects the visit
// @Tags resolve
// @Param shortCode path string true "Short code"
// @Param X-Link-Password header string false "Link password"
// @Success 302
// @Success 200 {string} string "Interstitial page"
// @Failure 401 {string} string "Password prompt"
// @Failure 403 {string} string "Device not allowed"
// @Failure 404 {string} string "Not found or inactive"
// @Failure 410 {string} string "Expired or click limit reached"
// @Failure 503 {string} string "Temporarily unavailable"
// @Router /{shortCode} [get]
func (h *ResolveHandler) Resolve(c *gin.Context) {
	h.serve(c, c.GetHeader(PasswordHeader), false)
}

// Unlock handles POST /:shortCode/unlock
// @Summary Unlock a password protected short link
// @Description Verifies the submitted password and remembers the unlock in the session
// @Tags resolve
// @Accept x-www-form-urlencoded
// @Param shortCode path string true "Short code"
// @Param password formData string true "Link password"
// @Success 303
// @Success 200 {string} string "Interstitial page"
// @Failure 401 {string} string "Password prompt"
// @Failure 429 {object} ErrorResponse
// @Router /{shortCode}/unlock [post]
func (h *ResolveHandler) Unlock(c *gin.Context) {
	h.serve(c, c.PostForm("password"), true)
}

// CarriesPassword reports whether a GET presents a link password. Such
// requests share the unlock rate limit.
func CarriesPassword(c *gin.Context) bool {
	return c.GetHeader(PasswordHeader) != ""
}

func (h *ResolveHandler) serve(c *gin.Context, password string, submitted bool) {
	shortCode := c.Param("shortCode")
	session := sessions.Default(c)

	cookieID, _ := c.Cookie(VisitorCookie)
	info := h.visitors.FromRequest(c.Request, c.ClientIP(), cookieID)
	if info.VisitorID != cookieID {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(VisitorCookie, info.VisitorID, visitorCookieMaxAge, "/", "", h.secureCookie, true)
	}

	token, _ := session.Get(unlockKeyPrefix + shortCode).(string)

	out, err := h.resolver.Resolve(c.Request.Context(), &service.ResolveRequest{
		ShortCode:   shortCode,
		Password:    password,
		UnlockToken: token,
		Visitor:     info,
	})

	// responses depend on the visitor and on live counters
	c.Header("Cache-Control", "private, no-store")

	if err != nil {
		h.fail(c, shortCode, err)
		return
	}

	if out.UnlockToken != "" {
		session.Set(unlockKeyPrefix+shortCode, out.UnlockToken)
		if err := session.Save(); err != nil {
			log.Error().Err(err).Str("short_code", shortCode).Msg("Failed to save unlock session")
		}
	}

	switch out.Kind {
	case service.Redirect:
		status := http.StatusFound
		if submitted {
			status = http.StatusSeeOther
		}
		c.Redirect(status, out.Page.Location)
	case service.Interstitial:
		c.Data(http.StatusOK, "text/html; charset=utf-8", out.Page.HTML)
	case service.AwaitingPassword:
		h.prompt(c, shortCode)
	case service.Denied:
		h.deny(c, out.Reason)
	default:
		h.fail(c, shortCode, errors.New("unknown outcome "+out.Kind.String()))
	}
}

func (h *ResolveHandler) prompt(c *gin.Context, shortCode string) {
	page, err := h.renderer.PasswordPage(shortCode)
	if err != nil {
		log.Error().Err(err).Str("short_code", shortCode).Msg("Failed to render password page")
		c.String(http.StatusUnauthorized, "Password required")
		return
	}
	c.Data(http.StatusUnauthorized, "text/html; charset=utf-8", page)
}

func (h *ResolveHandler) deny(c *gin.Context, reason access.Reason) {
	switch reason {
	case access.ReasonExpired:
		h.errorPage(c, http.StatusGone, "Link expired", "This link has expired.")
	case access.ReasonLimitReached:
		h.errorPage(c, http.StatusGone, "Link unavailable", "This link is no longer available.")
	case access.ReasonDeviceBlocked:
		h.errorPage(c, http.StatusForbidden, "Not available", "This link is not available on your device.")
	default:
		// inactive links are indistinguishable from missing ones
		h.errorPage(c, http.StatusNotFound, "Link not found", "The link you followed does not exist.")
	}
}

func (h *ResolveHandler) fail(c *gin.Context, shortCode string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.errorPage(c, http.StatusNotFound, "Link not found", "The link you followed does not exist.")
	case errors.Is(err, service.ErrUnavailable):
		c.Header("Retry-After", strconv.Itoa(RetryAfterSeconds))
		h.errorPage(c, http.StatusServiceUnavailable, "Temporarily unavailable", "Please try again in a moment.")
	default:
		log.Error().Err(err).Str("short_code", shortCode).Msg("Failed to resolve short link")
		h.errorPage(c, http.StatusInternalServerError, "Something went wrong", "Please try again later.")
	}
}

func (h *ResolveHandler) errorPage(c *gin.Context, status int, title, message string) {
	page, err := h.renderer.ErrorPage(status, title, message)
	if err != nil {
		c.String(status, message)
		return
	}
	c.Data(status, "text/html; charset=utf-8", page)
}
