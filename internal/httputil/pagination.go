package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/dandi-labs/dandi/internal/errors"
)

const (
	// DefaultPageLimit is used when the limit query parameter is absent.
	DefaultPageLimit = 20
	// MaxPageLimit caps the limit query parameter.
	MaxPageLimit = 100
)

var (
	errInvalidOffset = apperrors.Wrap(
		apperrors.ErrInvalidInput,
		"invalid offset parameter: must be a non-negative integer",
	)
	errInvalidLimit = apperrors.Wrap(
		apperrors.ErrInvalidInput,
		"invalid limit parameter: must be between 1 and 100",
	)
)

// ParsePagination parses the offset and limit query parameters.
// Errors wrap ErrInvalidInput so HandleErrorGin answers them with 400.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, errInvalidOffset
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return 0, 0, errInvalidLimit
	}

	return offset, limit, nil
}
