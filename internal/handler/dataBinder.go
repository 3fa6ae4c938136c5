package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gatherhub/event-manager/internal/errdef"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func DataBinder(c *gin.Context, req interface{}) error {
	if c.ContentType() != "application/json" && c.ContentType() != "multipart/form-data" {
		reason := fmt.Sprintf("%s only accepts content of type application/json or multipart/form-data", c.FullPath())
		return errdef.NewUnsupportedMediaType("%s", reason)
	}

	if err := c.ShouldBind(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return errdef.NewValidation(fieldErrors(validationErrors))
		}
		return errdef.NewBadRequest("error binding data: %v", err)
	}

	return nil
}

// QueryBinder binds query parameters. Unlike [DataBinder] it doesn't require a
// request body content type.
func QueryBinder(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return errdef.NewValidation(fieldErrors(validationErrors))
		}
		return errdef.NewBadRequest("error binding query parameters: %v", err)
	}

	return nil
}

func fieldErrors(validationErrors validator.ValidationErrors) []errdef.FieldError {
	fields := make([]errdef.FieldError, len(validationErrors))
	for i, fieldError := range validationErrors {
		field := lowerFirst(fieldError.Field())
		fields[i] = errdef.FieldError{
			Field:   field,
			Message: fieldMessage(field, fieldError),
		}
	}
	return fields
}

func fieldMessage(field string, fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a well-formed URL", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fieldError.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, fieldError.Param())
	case "oneOf":
		return fmt.Sprintf("%s must be one of: %s", field, fieldError.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
