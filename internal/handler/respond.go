package handler

import (
	"errors"
	"net/http"

	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/gin-gonic/gin"
)

// httpStatus maps the service error taxonomy onto distinct statuses so the UI
// can tell "not created", "not authorized" and "wrong state" apart.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, pkg.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, pkg.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, pkg.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pkg.ErrInvalidState),
		errors.Is(err, pkg.ErrDuplicateMember),
		errors.Is(err, pkg.ErrLastAdmin):
		return http.StatusConflict
	case errors.Is(err, pkg.ErrResolutionFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(httpStatus(err), gin.H{"msg": err.Error()})
}

func currentUserID(c *gin.Context) uint64 {
	v, _ := c.Get("user_id")
	id, _ := v.(uint64)
	return id
}
