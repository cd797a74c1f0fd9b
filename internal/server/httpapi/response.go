package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/photoframe/internal/common"
	"github.com/gin-gonic/gin"
)

// errorBody is the uniform failure response: a stable machine-readable code
// plus a human-readable message. Codes are part of the API contract; clients
// use them to decide between refresh, re-login and give-up.
type errorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type mapping struct {
	status  int
	code    string
	message string
}

var errorMappings = []struct {
	sentinel error
	mapping  mapping
}{
	{common.ErrMissingCredential, mapping{http.StatusUnauthorized, "MISSING_CREDENTIAL", "Authorization token required (Bearer token)"}},
	{common.ErrTokenExpired, mapping{http.StatusUnauthorized, "TOKEN_EXPIRED", "Token expired"}},
	{common.ErrInvalidToken, mapping{http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token"}},
	{common.ErrUnknownSubject, mapping{http.StatusUnauthorized, "UNKNOWN_SUBJECT", "User not found - token invalid"}},
	{common.ErrUnauthenticated, mapping{http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required"}},
	{common.ErrInsufficientRole, mapping{http.StatusForbidden, "INSUFFICIENT_ROLE", "Admin privileges required"}},
	{common.ErrInvalidCredential, mapping{http.StatusUnauthorized, "INVALID_CREDENTIAL", "Invalid email or password"}},
	{common.ErrEmailTaken, mapping{http.StatusConflict, "EMAIL_TAKEN", "User already exists with this email"}},
	{common.ErrRateLimitExceeded, mapping{http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many uploads. Please try again after a minute."}},
	{common.ErrStorageUpload, mapping{http.StatusBadGateway, "STORAGE_UPLOAD_FAILED", "Failed to store the uploaded file"}},
	{common.ErrStorageDelete, mapping{http.StatusBadGateway, "STORAGE_DELETE_FAILED", "Failed to delete the stored file"}},
	{common.ErrMetadataPersist, mapping{http.StatusInternalServerError, "METADATA_PERSIST_FAILED", "Failed to save photo metadata"}},
	{common.ErrPartialDelete, mapping{http.StatusInternalServerError, "PARTIAL_DELETE_FAILURE", "Photo partially deleted; flagged for reconciliation"}},
	{common.ErrorValidation, mapping{http.StatusBadRequest, "VALIDATION_FAILED", "Invalid request"}},
	{common.ErrorNotFound, mapping{http.StatusNotFound, "NOT_FOUND", "Photo not found"}},
}

// respondError translates a failure into the structured response and aborts
// the request. Unrecognized errors are masked as INTERNAL: no request failure
// is fatal to the process and no internals leak to the client.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			c.AbortWithStatusJSON(m.mapping.status, errorBody{
				Code:    m.mapping.code,
				Message: m.mapping.message,
			})
			return
		}
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{
		Code:    "INTERNAL",
		Message: "Internal server error",
	})
}
