package physics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - счётчики физической симуляции
type Metrics struct {
	ticks            prometheus.Counter
	collisions       *prometheus.CounterVec
	spritesDestroyed *prometheus.CounterVec
	tickDuration     prometheus.Histogram
	bodies           prometheus.Gauge
	sprites          prometheus.Gauge
}

// NewMetrics создаёт метрики и регистрирует их в reg (nil - реестр по умолчанию)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "physics",
			Name:      "ticks_total",
			Help:      "Количество выполненных физических тиков",
		}),
		collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "physics",
			Name:      "collisions_total",
			Help:      "Столкновения тел с блоками по осям",
		}, []string{"axis"}),
		spritesDestroyed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "physics",
			Name:      "sprites_destroyed_total",
			Help:      "Уничтоженные спрайты по причинам",
		}, []string{"reason"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxel",
			Subsystem: "physics",
			Name:      "tick_duration_seconds",
			Help:      "Длительность физического тика",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Subsystem: "physics",
			Name:      "bodies",
			Help:      "Текущее число тел",
		}),
		sprites: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Subsystem: "physics",
			Name:      "sprites",
			Help:      "Текущее число спрайтов",
		}),
	}
	reg.MustRegister(m.ticks, m.collisions, m.spritesDestroyed, m.tickDuration, m.bodies, m.sprites)
	return m
}

func (m *Metrics) observeSweep(res SweepResult) {
	if m == nil {
		return
	}
	for axis, blocked := range res.Blocked {
		if blocked {
			m.collisions.WithLabelValues(axisLabels[axis]).Inc()
		}
	}
}

func (m *Metrics) observeDestroyed(reason DestroyReason) {
	if m == nil {
		return
	}
	m.spritesDestroyed.WithLabelValues(reason.String()).Inc()
}

func (m *Metrics) observeTick(seconds float64, bodies, sprites int) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(seconds)
	m.bodies.Set(float64(bodies))
	m.sprites.Set(float64(sprites))
}

var axisLabels = [3]string{"x", "y", "z"}
