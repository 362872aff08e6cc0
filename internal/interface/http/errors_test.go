package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novamart/storefront-api/internal/domain/apperr"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("page not found"), http.StatusNotFound},
		{apperr.Validation("rating must be between 1 and 5"), http.StatusBadRequest},
		{apperr.InvalidTransition("order has already been delivered"), http.StatusBadRequest},
		{apperr.InvalidState("order has not been delivered yet"), http.StatusBadRequest},
		{apperr.Unauthorized("invalid email or password"), http.StatusUnauthorized},
		{apperr.Forbidden("not your order"), http.StatusForbidden},
		{apperr.Conflict("email already registered"), http.StatusConflict},
		{apperr.Internal("boom", nil), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, statusOf(c.err), "%v", c.err)
	}
}
