package auth

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFHeader is the request header state-changing requests must carry.
const CSRFHeader = "X-CSRF-Token"

// CSRFOptions configures the anti-forgery guard.
type CSRFOptions struct {
	// Key is the 32 byte authentication key. Empty disables the guard.
	Key []byte
	// Secure marks the token cookie Secure and enforces the HTTPS origin checks.
	Secure bool
	// TrustedOrigins are extra hosts allowed to send cross-origin unsafe requests.
	TrustedOrigins []string
}

// Protect wraps next with gorilla/csrf double-submit protection for every
// POST, PUT, PATCH and DELETE request. Safe methods pass through and receive a token.
func Protect(next http.Handler, opts CSRFOptions) http.Handler {
	if len(opts.Key) == 0 {
		slog.Warn("CSRF protection disabled: CSRF_KEY is empty")
		return next
	}
	protect := csrf.Protect(opts.Key,
		csrf.Secure(opts.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader(CSRFHeader),
		csrf.TrustedOrigins(opts.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)
	h := protect(next)
	if opts.Secure {
		return h
	}
	// Plain HTTP deployments (local dev) skip the TLS-only Referer check.
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	slog.Warn("CSRF check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"invalid CSRF token"}`))
}

// CSRFToken returns the token for the current request, both in the JSON body
// and in the X-CSRF-Token response header. Empty when protection is disabled.
func CSRFToken(c *gin.Context) {
	token := csrf.Token(c.Request)
	if token != "" {
		c.Header(CSRFHeader, token)
	}
	c.JSON(http.StatusOK, gin.H{"csrf_token": token})
}
