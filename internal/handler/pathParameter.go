package handler

import (
	"strconv"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gin-gonic/gin"
)

// GetPathParameter parses the named path parameter as an id. On failure it
// records a bad request error for the error handler middleware and reports
// false so the caller can bail out.
func GetPathParameter(c *gin.Context, parameter string) (uint, bool) {
	value := c.Param(parameter)
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("error parsing %q: %v", parameter, err))
		return 0, false
	}
	return uint(id), true
}
