package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "BadRequest",
			err:            errdef.NewBadRequest("bad"),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unauthorized",
			err:            errdef.NewUnauthorized("no"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Forbidden",
			err:            errdef.NewForbidden("no"),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "NotFound",
			err:            errdef.NewNotFound("gone"),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Conflict",
			err:            errdef.NewConflict("already"),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Duplicated",
			err:            errdef.NewDuplicated("twice"),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "UnsupportedMediaType",
			err:            errdef.NewUnsupportedMediaType("nope"),
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "TooManyRequests",
			err:            errdef.NewTooManyRequests("slow down"),
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name:           "UnknownErrorBecomesInternal",
			err:            errors.New("database exploded"),
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recorder := serve(t, test.err)

			assert.Equal(t, test.expectedStatus, recorder.Code)
		})
	}
}

func TestErrorHandler_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := serve(t, errors.New("database exploded"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.NotContains(t, body["message"], "database exploded")
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	err := errdef.NewValidation([]errdef.FieldError{
		{Field: "title", Message: "title is required"},
		{Field: "coverUrl", Message: "coverUrl must be a well-formed URL"},
	})
	recorder := serve(t, err)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body struct {
		Message string              `json:"message"`
		Fields  []errdef.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Fields, 2)
	assert.Equal(t, "title", body.Fields[0].Field)
}

func serve(t *testing.T, err error) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(CorrelationID())
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(err)
	})

	recorder := httptest.NewRecorder()
	request, reqErr := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, reqErr)
	r.ServeHTTP(recorder, request)
	return recorder
}
