package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/annel0/voxelcore/internal/api"
	"github.com/annel0/voxelcore/internal/config"
	"github.com/annel0/voxelcore/internal/eventbus"
	"github.com/annel0/voxelcore/internal/logging"
	"github.com/annel0/voxelcore/internal/observability"
	"github.com/annel0/voxelcore/internal/physics"
	"github.com/annel0/voxelcore/internal/world"
	"github.com/annel0/voxelcore/internal/world/block"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию VOXEL_CONFIG)")
	flag.Parse()

	if err := logging.InitDefaultLogger("sandbox"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	level, err := logging.ParseLevel(cfg.Logging.GetLevel())
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	logging.SetDefaultLevel(level)
	logging.GetLoggerManager().SetAllLevels(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Tracing.GetServiceName())
		if err != nil {
			logging.Error("❌ Ошибка инициализации трассировки: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Warn("Ошибка остановки трассировки: %v", err)
				}
			}()
		}
	}

	if err := run(ctx, cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Песочница остановлена")
}

func newGenerator(cfg *config.Config) (world.Generator, error) {
	switch cfg.World.GetGenerator() {
	case config.GeneratorEmpty:
		return world.EmptyGenerator{}, nil
	case config.GeneratorFlat:
		return world.NewFlatGenerator(
			world.Layer{Block: block.Blue, Count: 1},
			world.Layer{Block: block.Green, Count: 3},
		)
	default:
		return world.NewNoiseGenerator(cfg.World.GetSeed(), cfg.World.GetNoiseScale(), cfg.World.GetColorScale()), nil
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	size, err := world.NewMapSize(cfg.World.GetWidth(), cfg.World.GetHeight())
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	m, err := world.NewMap(ctx, size, gen)
	if err != nil {
		return err
	}
	logging.Info("🌍 Мир %s сгенерирован за %s (генератор %s)", size, time.Since(start), cfg.World.GetGenerator())

	bus, err := newEventBus(cfg)
	if err != nil {
		return err
	}
	defer bus.Close()
	if _, err := eventbus.StartLoggingListener(ctx, bus, logging.GetComponentLogger("events")); err != nil {
		return err
	}
	busMetrics := eventbus.NewMetricsExporter(bus, nil)
	busMetrics.Start(time.Second)
	defer busMetrics.Stop()

	sim := physics.NewSimulation(m,
		physics.WithGravity(cfg.Physics.GetGravity()),
		physics.WithParallel(cfg.Physics.GetParallel()),
		physics.WithTickInterval(cfg.Physics.GetTickInterval()),
		physics.WithMetrics(physics.NewMetrics(nil)),
		physics.WithEvents(bus),
	)

	ws := size.WorldSize()
	player, err := sim.SpawnBody(physics.Body{
		Footprint:  physics.PlayerFootprint,
		Gravity:    true,
		Controlled: true,
		Position:   mgl32.Vec3{float32(ws.X) / 2, float32(ws.Y - 2), float32(ws.Z) / 2},
	})
	if err != nil {
		return err
	}
	logging.Info("🧍 Игрок %s создан", player)

	g, ctx := errgroup.WithContext(ctx)

	if addr := cfg.Metrics.GetAddr(); addr != "" {
		g.Go(func() error { return serveMetrics(ctx, addr) })
	}
	if addr := cfg.HTTP.GetAddr(); addr != "" {
		server := api.NewRestServer(api.Config{
			Addr:         addr,
			Simulation:   sim,
			PickDistance: cfg.Picking.GetMaxDistance(),
			Events:       bus,
		})
		g.Go(func() error { return server.Run(ctx) })
	}
	g.Go(func() error { return loop(ctx, sim, player) })

	return g.Wait()
}

// newEventBus выбирает JetStream, если задан адрес NATS, иначе шину в памяти
func newEventBus(cfg *config.Config) (eventbus.EventBus, error) {
	url := cfg.Events.GetNatsURL()
	if url == "" {
		return eventbus.NewMemoryBus(cfg.Events.GetBuffer()), nil
	}
	bus, err := eventbus.NewJetStreamBus(url, cfg.Events.GetStream(), cfg.Events.GetRetention())
	if err != nil {
		return nil, err
	}
	logging.Info("📨 События публикуются в NATS %s (стрим %s)", url, cfg.Events.GetStream())
	return bus, nil
}

// loop крутит фиксированный шаг физики по реальному времени
func loop(ctx context.Context, sim *physics.Simulation, player uuid.UUID) error {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	report := time.NewTicker(5 * time.Second)
	defer report.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if _, err := sim.Advance(ctx, now.Sub(last)); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			last = now
		case <-report.C:
			if b, ok := sim.Body(player); ok {
				logging.Debug("тик %d: игрок в %v, скорость %v", sim.Ticks(), b.Position, b.Velocity)
			}
		}
	}
}

// serveMetrics отдаёт /metrics из реестра по умолчанию
func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
