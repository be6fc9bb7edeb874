package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/voxelcore/internal/eventbus"
	"github.com/annel0/voxelcore/internal/logging"
	"github.com/annel0/voxelcore/internal/middleware"
	"github.com/annel0/voxelcore/internal/physics"
	"github.com/annel0/voxelcore/internal/world"
)

// RestServer - HTTP API песочницы: блоки, тела, спрайты и выбор блока взглядом
type RestServer struct {
	router       *gin.Engine
	sim          *physics.Simulation
	world        *world.Map
	addr         string
	pickDistance float32
	stats        *ServerMetrics
	events       eventbus.EventBus
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr         string              // адрес для запуска сервера
	Simulation   *physics.Simulation // симуляция и её карта
	PickDistance float32             // дальность выбора блока
	Registerer   prometheus.Registerer
	Gatherer     prometheus.Gatherer
	Events       eventbus.EventBus // изменения блоков и чанков; nil - не публикуются
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Addr == "" {
		config.Addr = ":8088"
	}
	if config.PickDistance <= 0 {
		config.PickDistance = world.DefaultPickDistance
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New() // без стандартного logger/recovery
	router.Use(gin.Recovery())

	// === Observability middleware ===
	router.Use(otelgin.Middleware("voxel_api"))
	router.Use(middleware.NewRequestLogger().Handler())

	promMw := middleware.NewPrometheusMiddleware("voxel_api", config.Registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	server := &RestServer{
		router:       router,
		sim:          config.Simulation,
		world:        config.Simulation.World(),
		addr:         config.Addr,
		pickDistance: config.PickDistance,
		stats:        NewServerMetrics(),
		events:       config.Events,
	}
	server.setupRoutes()
	return server
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")
	{
		api.GET("/world", rs.handleWorld)
		api.GET("/stats", rs.handleStats)

		api.GET("/chunks", rs.handleChunks)
		api.POST("/chunks/:x/:z/clean", rs.handleMarkClean)

		api.GET("/blocks/:x/:y/:z", rs.handleGetBlock)
		api.PUT("/blocks/:x/:y/:z", rs.handlePlaceBlock)
		api.DELETE("/blocks/:x/:y/:z", rs.handleBreakBlock)

		api.GET("/bodies", rs.handleBodies)
		api.GET("/bodies/:id", rs.handleBody)
		api.POST("/bodies/:id/intent", rs.handleIntent)
		api.POST("/bodies/:id/fire", rs.handleFire)
		api.GET("/bodies/:id/pick", rs.handlePick)

		api.GET("/sprites", rs.handleSprites)
	}

	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// Run обслуживает запросы до отмены ctx, затем плавно останавливает сервер
func (rs *RestServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              rs.addr,
		Handler:           rs.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logging.Info("🌐 HTTP API доступен по адресу %s", rs.addr)

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
