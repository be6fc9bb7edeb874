package observability

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/annel0/voxelcore/internal/physics"
	"github.com/annel0/voxelcore/internal/world"
)

func TestTickSpansExported(t *testing.T) {
	ctx := context.Background()
	exp := tracetest.NewInMemoryExporter()
	tp, err := NewTracerProvider(ctx, "voxelcore-test", exp)
	require.NoError(t, err)

	m, err := world.NewMap(ctx, world.MustMapSize(1, 1), world.EmptyGenerator{})
	require.NoError(t, err)
	sim := physics.NewSimulation(m, physics.WithTracer(tp.Tracer("test")))
	_, err = sim.SpawnBody(physics.Body{Footprint: physics.PlayerFootprint, Position: mgl32.Vec3{4, 10, 4}})
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, sim.Tick(ctx))
	}
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exp.GetSpans()
	require.Len(t, spans, 3)
	for _, s := range spans {
		assert.Equal(t, "physics.Tick", s.Name)
		name, ok := s.Resource.Set().Value(semconv.ServiceNameKey)
		require.True(t, ok)
		assert.Equal(t, "voxelcore-test", name.AsString())
	}
	require.NoError(t, tp.Shutdown(ctx))
}
