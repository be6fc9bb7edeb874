package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig - конфигурация прочитана, но значения недопустимы
var ErrInvalidConfig = errors.New("invalid config")

// Генераторы мира
const (
	GeneratorEmpty = "empty"
	GeneratorFlat  = "flat"
	GeneratorNoise = "noise"
)

// Config корневая структура конфигурации.
// Незаданные поля берутся из переменных окружения, затем из значений по умолчанию.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Physics PhysicsConfig `yaml:"physics"`
	Picking PickingConfig `yaml:"picking"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	HTTP    HTTPConfig    `yaml:"http"`
	Tracing TracingConfig `yaml:"tracing"`
	Events  EventsConfig  `yaml:"events"`
}

type WorldConfig struct {
	Width      int     `yaml:"width"`  // В чанках
	Height     int     `yaml:"height"` // В чанках
	Seed       int64   `yaml:"seed"`
	Generator  string  `yaml:"generator"`
	NoiseScale float64 `yaml:"noise_scale"`
	ColorScale float64 `yaml:"color_scale"`
}

type PhysicsConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	Gravity      *float32      `yaml:"gravity"` // nil - значение по умолчанию, 0 отключает гравитацию
	Parallel     int           `yaml:"parallel"`
}

type PickingConfig struct {
	MaxDistance float32 `yaml:"max_distance"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"` // Пусто - HTTP API выключен
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type EventsConfig struct {
	Buffer    int           `yaml:"buffer"`   // Размер буфера in-memory шины
	NatsURL   string        `yaml:"nats_url"` // Задан - события идут в NATS JetStream
	Stream    string        `yaml:"stream"`
	Retention time.Duration `yaml:"retention"`
}

// Default возвращает пустую конфигурацию: все значения берутся из окружения и умолчаний
func Default() *Config {
	return &Config{}
}

// GetWidth возвращает ширину карты с поддержкой fallback значений
func (w *WorldConfig) GetWidth() int {
	return getIntWithEnvFallback(w.Width, "VOXEL_WORLD_WIDTH", 4)
}

// GetHeight возвращает глубину карты с поддержкой fallback значений
func (w *WorldConfig) GetHeight() int {
	return getIntWithEnvFallback(w.Height, "VOXEL_WORLD_HEIGHT", 4)
}

// GetSeed возвращает зерно генератора; 0 в конфиге означает "не задано"
func (w *WorldConfig) GetSeed() int64 {
	if w.Seed != 0 {
		return w.Seed
	}
	if envVal := os.Getenv("VOXEL_SEED"); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
	}
	return 1
}

func (w *WorldConfig) GetGenerator() string {
	if w.Generator == "" {
		return GeneratorNoise
	}
	return strings.ToLower(w.Generator)
}

func (w *WorldConfig) GetNoiseScale() float64 {
	if w.NoiseScale > 0 {
		return w.NoiseScale
	}
	return 0.03
}

func (w *WorldConfig) GetColorScale() float64 {
	if w.ColorScale > 0 {
		return w.ColorScale
	}
	return 0.07
}

func (p *PhysicsConfig) GetTickInterval() time.Duration {
	if p.TickInterval > 0 {
		return p.TickInterval
	}
	return 25 * time.Millisecond
}

func (p *PhysicsConfig) GetGravity() float32 {
	if p.Gravity != nil {
		return *p.Gravity
	}
	return -0.01
}

// GetParallel возвращает число горутин для разрешения тел (не меньше 1)
func (p *PhysicsConfig) GetParallel() int {
	if p.Parallel > 0 {
		return p.Parallel
	}
	return 1
}

func (p *PickingConfig) GetMaxDistance() float32 {
	if p.MaxDistance > 0 {
		return p.MaxDistance
	}
	return 8
}

func (l *LoggingConfig) GetLevel() string {
	return getStringWithEnvFallback(l.Level, "VOXEL_LOG_LEVEL", "info")
}

// GetAddr возвращает адрес Prometheus /metrics
func (m *MetricsConfig) GetAddr() string {
	return getStringWithEnvFallback(m.Addr, "VOXEL_METRICS_ADDR", ":2112")
}

// GetAddr возвращает адрес HTTP API; пустая строка выключает его
func (h *HTTPConfig) GetAddr() string {
	return getStringWithEnvFallback(h.Addr, "VOXEL_HTTP_ADDR", "")
}

func (t *TracingConfig) GetServiceName() string {
	if t.ServiceName != "" {
		return t.ServiceName
	}
	return "voxelcore"
}

// Validate проверяет значения после применения fallback
func (c *Config) Validate() error {
	switch c.World.GetGenerator() {
	case GeneratorEmpty, GeneratorFlat, GeneratorNoise:
	default:
		return fmt.Errorf("%w: unknown generator %q", ErrInvalidConfig, c.World.Generator)
	}
	for _, side := range []int{c.World.GetWidth(), c.World.GetHeight()} {
		if side < 1 || side > 255 {
			return fmt.Errorf("%w: world side %d out of 1..255", ErrInvalidConfig, side)
		}
	}
	return nil
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configVal int, envVar string, defaultVal int) int {
	if configVal > 0 {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

func getStringWithEnvFallback(configVal, envVar, defaultVal string) string {
	if configVal != "" {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultVal
}

// Load читает YAML файл конфигурации.
// Если path == "", берёт путь из ENV VOXEL_CONFIG; если и он пуст, возвращает Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e *EventsConfig) GetBuffer() int {
	return getIntWithEnvFallback(e.Buffer, "VOXEL_EVENTS_BUFFER", 1024)
}

// GetNatsURL возвращает адрес NATS; пустая строка - шина в памяти процесса
func (e *EventsConfig) GetNatsURL() string {
	return getStringWithEnvFallback(e.NatsURL, "VOXEL_NATS_URL", "")
}

func (e *EventsConfig) GetStream() string {
	if e.Stream != "" {
		return e.Stream
	}
	return "VOXEL"
}

func (e *EventsConfig) GetRetention() time.Duration {
	if e.Retention > 0 {
		return e.Retention
	}
	return time.Hour
}
