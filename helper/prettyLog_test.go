package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(opts PrettyHandlerOptions) (*PrettyHandler, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewPrettyHandler(&buf, opts), &buf
}

func TestNewPrettyHandler(t *testing.T) {
	t.Run("Create handler with default options", func(t *testing.T) {
		handler, _ := newTestHandler(PrettyHandlerOptions{})

		require.NotNil(t, handler)
		assert.NotNil(t, handler.Handler, "Expected handler to wrap a non-nil slog handler")
		assert.NotNil(t, handler.l, "Expected handler to have a non-nil logger field")
	})

	t.Run("Create handler with debug level", func(t *testing.T) {
		handler, _ := newTestHandler(PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
		})

		assert.NotNil(t, handler)
	})

	t.Run("Create handler with AddSource option", func(t *testing.T) {
		handler, _ := newTestHandler(PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{AddSource: true},
		})

		assert.NotNil(t, handler)
	})
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("Handle DEBUG level log", func(t *testing.T) {
		handler, buf := newTestHandler(PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
		})

		record := slog.NewRecord(time.Now(), slog.LevelDebug, "Failed to check coplanarity", 0)
		record.AddAttrs(slog.String("face1", "face_0"))

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		output := buf.String()
		assert.Contains(t, output, "DEBUG:", "Expected output to contain DEBUG level")
		assert.Contains(t, output, "Failed to check coplanarity", "Expected output to contain the message")
		assert.Contains(t, output, "face1", "Expected output to contain attribute key")
		assert.Contains(t, output, "face_0", "Expected output to contain attribute value")
	})

	t.Run("Handle INFO level log", func(t *testing.T) {
		handler, buf := newTestHandler(PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "Graph built", 0)
		record.AddAttrs(slog.Int("nodes", 27))

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		output := buf.String()
		assert.Contains(t, output, "INFO:", "Expected output to contain INFO level")
		assert.Contains(t, output, "Graph built", "Expected output to contain the message")
		assert.Contains(t, output, "nodes", "Expected output to contain attribute key")
		assert.Contains(t, output, "27", "Expected output to contain attribute value")
	})

	t.Run("Handle WARN level log", func(t *testing.T) {
		handler, buf := newTestHandler(PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelWarn, "Failed to compute attributes", 0)
		record.AddAttrs(slog.String("node_id", "edge_3"), slog.Bool("degraded", true))

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		output := buf.String()
		assert.Contains(t, output, "WARN:", "Expected output to contain WARN level")
		assert.Contains(t, output, "Failed to compute attributes", "Expected output to contain the message")
		assert.Contains(t, output, "node_id", "Expected output to contain attribute key")
		assert.Contains(t, output, "edge_3", "Expected output to contain attribute value")
		assert.Contains(t, output, "true", "Expected output to contain boolean attribute value")
	})

	t.Run("Handle ERROR level log", func(t *testing.T) {
		handler, buf := newTestHandler(PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelError, "Failed to persist graph", 0)
		record.AddAttrs(slog.String("error", "connection refused"))

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		output := buf.String()
		assert.Contains(t, output, "ERROR:", "Expected output to contain ERROR level")
		assert.Contains(t, output, "Failed to persist graph", "Expected output to contain the message")
		assert.Contains(t, output, "connection refused", "Expected output to contain attribute value")
	})

	t.Run("Handle log with no attributes", func(t *testing.T) {
		handler, buf := newTestHandler(PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "Building attributed adjacency graph", 0)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		output := buf.String()
		assert.Contains(t, output, "Building attributed adjacency graph", "Expected output to contain the message")
		assert.Contains(t, output, "{}", "Expected output to contain empty JSON object for attributes")
	})

	t.Run("Handle log with multiple attributes", func(t *testing.T) {
		handler, buf := newTestHandler(PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "Recognized features", 0)
		record.AddAttrs(
			slog.String("recognizer", "hole"),
			slog.Int("features", 2),
			slog.Bool("through", true),
		)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		output := buf.String()
		assert.Contains(t, output, "Recognized features", "Expected output to contain the message")
		assert.Contains(t, output, "recognizer", "Expected output to contain first attribute")
		assert.Contains(t, output, "hole", "Expected output to contain first attribute value")
		assert.Contains(t, output, "features", "Expected output to contain second attribute")
		assert.Contains(t, output, "2", "Expected output to contain second attribute value")
		assert.Contains(t, output, "through", "Expected output to contain third attribute")
		assert.Contains(t, output, "true", "Expected output to contain third attribute value")
	})

	t.Run("Handle log with nested attributes", func(t *testing.T) {
		handler, buf := newTestHandler(PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "Query executed", 0)
		record.AddAttrs(slog.Any("statistics", map[string]interface{}{
			"matched": 4,
			"sort_by": "area",
		}))

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		output := buf.String()
		assert.Contains(t, output, "Query executed", "Expected output to contain the message")
		assert.Contains(t, output, "statistics", "Expected output to contain attribute key")
		assert.Contains(t, output, "sort_by", "Expected output to contain nested attribute key")
	})

	t.Run("Handle log formats timestamp correctly", func(t *testing.T) {
		handler, buf := newTestHandler(PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "Stored model graph", 0)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		// Timestamp prefix is [HH:MM:SS.mmm]
		assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, buf.String(),
			"Expected output to contain properly formatted timestamp")
	})

	t.Run("Handle log with context value", func(t *testing.T) {
		handler, buf := newTestHandler(PrettyHandlerOptions{})

		type ctxKey string
		ctx := context.WithValue(context.Background(), ctxKey("model_id"), "ab12cd34")

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "Deleted model graph", 0)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		assert.Contains(t, buf.String(), "Deleted model graph", "Expected output to contain the message")
	})
}

func TestPrettyHandlerOptions(t *testing.T) {
	t.Run("All fields set", func(t *testing.T) {
		opts := PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
				ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
					return a
				},
			},
		}

		handler, _ := newTestHandler(opts)

		assert.NotNil(t, handler, "Expected handler to be created with all options set")
	})

	t.Run("Empty options", func(t *testing.T) {
		handler, _ := newTestHandler(PrettyHandlerOptions{})

		assert.NotNil(t, handler, "Expected handler to be created with empty options")
	})
}
