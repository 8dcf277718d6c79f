package startup

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/isabella232/azure-intelligent-edge-patterns/internal/domain"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/metrics"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/ports"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/testutil"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(store *testutil.PartStore, buf *bytes.Buffer) PartsApp {
	return PartsApp{
		Parts:      store,
		Logger:     slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		CreateDemo: true,
	}
}

func TestIsRunServer(t *testing.T) {
	assert.True(t, IsRunServer([]string{"runserver"}))
	assert.True(t, IsRunServer([]string{"--verbose", "runserver", "0.0.0.0:8000"}))
	assert.False(t, IsRunServer([]string{"migrate"}))
	assert.False(t, IsRunServer([]string{"run-server"}))
	assert.False(t, IsRunServer(nil))
}

func TestReady_SeedsEveryDemoPartOnce(t *testing.T) {
	// --- Arrange ---
	store := testutil.NewPartStore()
	var logs bytes.Buffer
	app := newApp(store, &logs)

	// --- Act ---
	err := app.Ready(context.Background(), []string{"runserver"})

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, DemoPartNames, 20)
	assert.Equal(t, 20, store.Len())
	assert.Equal(t, DemoPartNames, store.DemoCalls, "parts are upserted in list order")
	for _, name := range DemoPartNames {
		assert.Equal(t, 1, store.Count(name, true), name)
	}

	parts, err := store.List(context.Background(), demoOnly())
	require.NoError(t, err)
	for _, p := range parts {
		assert.Equal(t, domain.DemoDescription, p.Description)
		assert.True(t, p.IsDemo)
	}

	out := logs.String()
	assert.Contains(t, out, "parts app ready while running server")
	assert.Contains(t, out, "creating demo parts finished")
	assert.Contains(t, out, "parts app ready end")
}

func TestReady_IsIdempotent(t *testing.T) {
	store := testutil.NewPartStore()
	app := newApp(store, &bytes.Buffer{})
	args := []string{"runserver"}

	require.NoError(t, app.Ready(context.Background(), args))
	require.NoError(t, app.Ready(context.Background(), args))

	assert.Equal(t, 20, store.Len())
	for _, name := range DemoPartNames {
		assert.Equal(t, 1, store.Count(name, true), name)
	}
}

func seededCount(result string) float64 {
	return promtestutil.ToFloat64(metrics.DemoPartsSeeded.WithLabelValues(result))
}

func TestReady_CountsCreatedThenUpdated(t *testing.T) {
	store := testutil.NewPartStore()
	var logs bytes.Buffer
	app := newApp(store, &logs)
	created, updated := seededCount("created"), seededCount("updated")

	require.NoError(t, app.Ready(context.Background(), []string{"runserver"}))
	assert.Equal(t, created+20, seededCount("created"))
	assert.Equal(t, updated, seededCount("updated"))
	assert.Contains(t, logs.String(), `msg="creating demo parts" count=20`)

	require.NoError(t, app.Ready(context.Background(), []string{"runserver"}))
	assert.Equal(t, created+20, seededCount("created"))
	assert.Equal(t, updated+20, seededCount("updated"))
}

func TestReady_RestoresDemoDescription(t *testing.T) {
	store := testutil.NewPartStore()
	store.Add(domain.Part{Name: "cat", Description: "edited", IsDemo: true})
	app := newApp(store, &bytes.Buffer{})

	require.NoError(t, app.Ready(context.Background(), []string{"runserver"}))

	parts, err := store.List(context.Background(), demoOnly())
	require.NoError(t, err)
	for _, p := range parts {
		if p.Name == "cat" {
			assert.Equal(t, domain.DemoDescription, p.Description)
		}
	}
	assert.Equal(t, 1, store.Count("cat", true))
}

func TestReady_LeavesUserPartsAlone(t *testing.T) {
	store := testutil.NewPartStore()
	store.Add(domain.Part{Name: "person", Description: "worker on the line"})
	app := newApp(store, &bytes.Buffer{})

	require.NoError(t, app.Ready(context.Background(), []string{"runserver"}))

	assert.Equal(t, 1, store.Count("person", false))
	assert.Equal(t, 1, store.Count("person", true))
	assert.Equal(t, 21, store.Len())
}

func TestReady_WithoutRunServerDoesNothing(t *testing.T) {
	store := testutil.NewPartStore()
	var logs bytes.Buffer
	app := newApp(store, &logs)

	require.NoError(t, app.Ready(context.Background(), []string{"migrate"}))

	assert.Zero(t, store.Len())
	assert.Empty(t, store.DemoCalls)
	assert.Empty(t, logs.String())
}

func TestReady_DemoCreationDisabled(t *testing.T) {
	store := testutil.NewPartStore()
	app := newApp(store, &bytes.Buffer{})
	app.CreateDemo = false

	require.NoError(t, app.Ready(context.Background(), []string{"runserver"}))
	assert.Zero(t, store.Len())
}

func TestReady_StorageFailureAbortsBatch(t *testing.T) {
	store := testutil.NewPartStore()
	store.FailOn = "cat"
	store.Err = errors.New("connection reset")
	var logs bytes.Buffer
	app := newApp(store, &logs)

	err := app.Ready(context.Background(), []string{"runserver"})

	require.Error(t, err)
	assert.ErrorIs(t, err, store.Err)
	assert.Contains(t, err.Error(), `"cat"`)
	assert.Equal(t, "cat", store.DemoCalls[len(store.DemoCalls)-1], "no upsert after the failure")
	assert.Equal(t, 7, store.Len())
	assert.NotContains(t, logs.String(), "creating demo parts finished")
}

func TestSeedDemoParts_HonoursCancellation(t *testing.T) {
	store := testutil.NewPartStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SeedDemoParts(ctx, store, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.Len())
}

func demoOnly() ports.PartFilter {
	yes := true
	return ports.PartFilter{IsDemo: &yes}
}
