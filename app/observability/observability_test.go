package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Environment: "test", LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", slog.String("player", "Alice"))

	out := buf.String()
	require.NotContains(t, out, "dropped")
	require.True(t, strings.HasPrefix(out, "{"))
	require.Contains(t, out, `"env":"test"`)
	require.Contains(t, out, `"player":"Alice"`)
}

func TestMetrics(t *testing.T) {
	obs, err := InitWithWriter(context.Background(), Config{}, &bytes.Buffer{})
	require.NoError(t, err)
	m := obs.Metrics

	m.RecordReload(nil)
	m.RecordReload(errors.New("boom"))
	m.RecordReload(nil)
	require.Equal(t, 2.0, testutil.ToFloat64(m.reloads.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues("error")))

	m.SetSnapshotSize(12, 7)
	require.Equal(t, 12.0, testutil.ToFloat64(m.players))
	require.Equal(t, 7.0, testutil.ToFloat64(m.matched))

	m.RecordProfileLookup("matched")
	require.Equal(t, 1.0, testutil.ToFloat64(m.profileLookups.WithLabelValues("matched")))

	m.RecordChartRender("rating", "dark")
	require.Equal(t, 1.0, testutil.ToFloat64(m.chartRenders.WithLabelValues("rating", "dark")))

	m.RecordHTTPRequest("", 0)
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("unmatched", "200")))

	count, err := testutil.GatherAndCount(obs.Registry)
	require.NoError(t, err)
	require.Positive(t, count)
}
