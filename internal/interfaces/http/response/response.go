package response

import (
	"github.com/gin-gonic/gin"
	domainerrors "wallet-registry.backend/internal/domain/errors"
)

// Success sends a success response.
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends the uniform error envelope {error:{code,message}}.
func Error(c *gin.Context, err error) {
	appErr, ok := err.(*domainerrors.AppError)
	if !ok {
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Status, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// AbortError writes the envelope and aborts the handler chain; for use from
// middleware.
func AbortError(c *gin.Context, err error) {
	appErr, ok := err.(*domainerrors.AppError)
	if !ok {
		appErr = domainerrors.InternalError(err)
	}

	c.AbortWithStatusJSON(appErr.Status, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
