package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visadesk/backend/internal/apperrors"
)

// respondError maps a core error onto its HTTP status and stable code.
// Only the taxonomy message reaches the client; wrapped internals stay
// in the server log.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.HTTPStatus() >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, appErr)
	}
	c.JSON(appErr.HTTPStatus(), gin.H{
		"code":  appErr.Code(),
		"error": appErr.Message,
	})
}
