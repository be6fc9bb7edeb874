package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadWithoutPath(t *testing.T) {
	t.Setenv("VOXEL_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, GeneratorNoise, cfg.World.GetGenerator())
	assert.Equal(t, 25*time.Millisecond, cfg.Physics.GetTickInterval())
	assert.Equal(t, float32(-0.01), cfg.Physics.GetGravity())
	assert.Equal(t, 1, cfg.Physics.GetParallel())
	assert.Equal(t, float32(8), cfg.Picking.GetMaxDistance())
	assert.Equal(t, 0.03, cfg.World.GetNoiseScale())
	assert.Equal(t, 0.07, cfg.World.GetColorScale())
	assert.Equal(t, "voxelcore", cfg.Tracing.GetServiceName())
	assert.Equal(t, 1024, cfg.Events.GetBuffer())
	assert.Equal(t, time.Hour, cfg.Events.GetRetention())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
world:
  width: 2
  height: 3
  seed: 42
  generator: Flat
physics:
  tick_interval: 50ms
  gravity: 0
  parallel: 4
picking:
  max_distance: 5.5
logging:
  level: debug
metrics:
  addr: ":9100"
http:
  addr: ":8088"
tracing:
  enabled: true
events:
  buffer: 64
  nats_url: nats://127.0.0.1:4222
  retention: 10m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.World.GetWidth())
	assert.Equal(t, 3, cfg.World.GetHeight())
	assert.Equal(t, int64(42), cfg.World.GetSeed())
	assert.Equal(t, GeneratorFlat, cfg.World.GetGenerator())
	assert.Equal(t, 50*time.Millisecond, cfg.Physics.GetTickInterval())
	assert.Equal(t, float32(0), cfg.Physics.GetGravity(), "явный ноль отключает гравитацию")
	assert.Equal(t, 4, cfg.Physics.GetParallel())
	assert.Equal(t, float32(5.5), cfg.Picking.GetMaxDistance())
	assert.Equal(t, "debug", cfg.Logging.GetLevel())
	assert.Equal(t, ":9100", cfg.Metrics.GetAddr())
	assert.Equal(t, ":8088", cfg.HTTP.GetAddr())
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 64, cfg.Events.GetBuffer())
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.GetNatsURL())
	assert.Equal(t, 10*time.Minute, cfg.Events.GetRetention())
	assert.Equal(t, "VOXEL", cfg.Events.GetStream())
}

func TestLoadFromEnvPath(t *testing.T) {
	t.Setenv("VOXEL_CONFIG", writeConfig(t, "world:\n  generator: empty\n"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, GeneratorEmpty, cfg.World.GetGenerator())
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("VOXEL_WORLD_WIDTH", "7")
	t.Setenv("VOXEL_WORLD_HEIGHT", "не число")
	t.Setenv("VOXEL_SEED", "-5")
	t.Setenv("VOXEL_METRICS_ADDR", "127.0.0.1:2113")
	t.Setenv("VOXEL_LOG_LEVEL", "warn")

	cfg := Default()
	assert.Equal(t, 7, cfg.World.GetWidth())
	assert.Equal(t, 4, cfg.World.GetHeight(), "некорректное значение окружения игнорируется")
	assert.Equal(t, int64(-5), cfg.World.GetSeed())
	assert.Equal(t, "127.0.0.1:2113", cfg.Metrics.GetAddr())
	assert.Equal(t, "warn", cfg.Logging.GetLevel())

	// значение из файла важнее окружения
	cfg.World.Width = 2
	assert.Equal(t, 2, cfg.World.GetWidth())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "world: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "world:\n  generator: caves\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "world:\n  width: 300\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
