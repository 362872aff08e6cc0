package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/pkg/response"
)

// statusOf maps an error classification to its transport status. Every
// handler goes through writeError so the mapping lives in one place.
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation, apperr.KindInvalidTransition, apperr.KindInvalidState:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// never leak internals to the client
		msg = "internal server error"
	}
	response.Error[any](c, status, msg, nil)
}
