package httpapi

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/photoframe/internal/common"
	"github.com/dmitrijs2005/photoframe/internal/server/auth"
	"github.com/dmitrijs2005/photoframe/internal/server/models"
	"github.com/gin-gonic/gin"
)

const identityContextKey = "identity"

// Identity is the request-scoped projection of an authenticated principal.
// It lives for one request and is never persisted.
type Identity struct {
	ID    string
	Email string
	Role  models.Role
}

// CurrentIdentity extracts the identity attached by Authenticate.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return Identity{}, false
	}
	ident, ok := v.(Identity)
	return ident, ok
}

// Authenticate is the single point where raw credential material becomes a
// trusted identity. It verifies the bearer token and re-resolves the subject
// against the credential store, so a deleted account cannot keep using an
// otherwise valid token. The distinct unauthorized outcomes stay
// distinguishable through their response codes.
func (s *Server) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respondError(c, common.ErrMissingCredential)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			respondError(c, err)
			return
		}

		user, err := s.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// token is genuine but the subject is gone: identity drift,
				// not forgery
				respondError(c, common.ErrUnknownSubject)
				return
			}
			respondError(c, common.ErrorInternal)
			return
		}

		c.Set(identityContextKey, Identity{ID: user.ID, Email: user.Email, Role: user.Role})
		c.Next()
	}
}

// RequireRole rejects identities whose role does not outrank the required
// one. A missing identity means the route is miswired, but the response is
// still a safe unauthorized.
func (s *Server) RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		if !ok {
			respondError(c, common.ErrUnauthenticated)
			return
		}
		if !ident.Role.Outranks(required) {
			respondError(c, common.ErrInsufficientRole)
			return
		}
		c.Next()
	}
}

// UploadRateLimit bounds upload attempts per identity. It keys on the
// authenticated identity id, never the client address, so the limit follows
// the principal across connections. Must be mounted after Authenticate; a
// rejected request never reaches the blob store.
func (s *Server) UploadRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		if !ok {
			respondError(c, common.ErrUnauthenticated)
			return
		}
		if err := s.limiter.Allow(ident.ID); err != nil {
			respondError(c, err)
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request with the resolved status.
func (s *Server) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
