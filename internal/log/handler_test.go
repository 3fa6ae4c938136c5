package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/gatherhub/event-manager/internal/log"
	"github.com/gatherhub/event-manager/internal/middleware"
	"github.com/gatherhub/event-manager/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_AddsCorrelationIDAndUser(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(log.New(slog.NewJSONHandler(&buf, nil)))

	ctx := middleware.NewContextWithCorrelationID(context.Background(), "some-id")
	ctx = model.NewContextWithUser(ctx, &model.User{ID: 42})

	logger.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "some-id", record[middleware.RequestLoggerKeyCorrelationID])
	assert.Equal(t, float64(42), record[middleware.RequestLoggerKeyUserID])
}

func TestContextHandler_NoContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(log.New(slog.NewJSONHandler(&buf, nil)))

	logger.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, middleware.RequestLoggerKeyCorrelationID)
	assert.NotContains(t, record, middleware.RequestLoggerKeyUserID)
}
