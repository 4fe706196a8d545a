package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	msgValidationFailed   = "Validation failed"
	msgDuplicateEmail     = "Email already exist"
	msgInvalidCredentials = "Invalid email or password"
	msgUnauthorized       = "Unauthorized"
	msgInternal           = "Internal server error"
)

// writeError maps err to a status and a body that leaks no internals.
// Anything not in the expected set is logged with full detail.
func (h *Handler) writeError(c *gin.Context, err error) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgValidationFailed, "details": ve.Fields})
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgValidationFailed, "details": []common.FieldError{}})
	case errors.Is(err, common.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": msgDuplicateEmail})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
	case errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
	default:
		h.log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(requestIDKey),
			"err", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}
