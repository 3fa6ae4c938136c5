package middleware

import (
	"net/http"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Message string              `json:"message"`
	Fields  []errdef.FieldError `json:"fields,omitempty"`
}

// ErrorHandler maps the errdef taxonomy onto HTTP status codes after the
// handler chain has run. Anything outside the taxonomy is reported as a
// generic internal error; the correlation id is all a caller gets to see.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil {
			return
		}
		if c.Writer.Written() {
			return
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.JSON(status, errorResponse{Message: err.Error()})
			return
		}

		// nolint:gocritic
		if errdef.IsValidation(err) {
			c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error(), Fields: errdef.ValidationFields(err)})
		} else if errdef.IsBadRequest(err) {
			c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
		} else if errdef.IsUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, errorResponse{Message: err.Error()})
		} else if errdef.IsForbidden(err) {
			c.JSON(http.StatusForbidden, errorResponse{Message: err.Error()})
		} else if errdef.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse{Message: err.Error()})
		} else if errdef.IsConflict(err) || errdef.IsDuplicated(err) {
			c.JSON(http.StatusConflict, errorResponse{Message: err.Error()})
		} else if errdef.IsUnsupportedMediaType(err) {
			c.JSON(http.StatusUnsupportedMediaType, errorResponse{Message: err.Error()})
		} else if errdef.IsTooManyRequests(err) {
			c.JSON(http.StatusTooManyRequests, errorResponse{Message: err.Error()})
		} else {
			id, _ := GetCorrelationID(c.Request.Context())
			message := "something went wrong. We'll look into it if you send us the id \"" + id + "\" :)"
			c.JSON(http.StatusInternalServerError, errorResponse{Message: message})
		}
	}
}
