package physics

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/annel0/voxelcore/internal/eventbus"
	"github.com/annel0/voxelcore/internal/logging"
	"github.com/annel0/voxelcore/internal/world"
	"github.com/annel0/voxelcore/internal/world/block"
)

var (
	ErrUnknownEntity    = errors.New("unknown entity")
	ErrInvalidFootprint = errors.New("invalid footprint")
)

const (
	tracerName  = "github.com/annel0/voxelcore/internal/physics"
	eventSource = "physics"
)

// Option настраивает Simulation
type Option func(*Simulation)

// WithGravity задаёт прирост вертикальной скорости за тик
func WithGravity(g float32) Option {
	return func(s *Simulation) { s.gravity = g }
}

// WithParallel разрешает разрешать тела в limit горутинах
func WithParallel(limit int) Option {
	return func(s *Simulation) { s.parallel = limit }
}

// WithTickInterval задаёт длину тика для Advance
func WithTickInterval(d time.Duration) Option {
	return func(s *Simulation) { s.timer = NewFixedTimer(d) }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Simulation) { s.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Simulation) { s.tracer = t }
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithEvents публикует появление и исчезновение тел и спрайтов в шину
func WithEvents(bus eventbus.EventBus) Option {
	return func(s *Simulation) { s.events = bus }
}

// Simulation - физическая фаза мира. Каждый тик безусловно и по порядку
// выполняет гравитацию, ввод игроков, коллизии тел и коллизии спрайтов.
// Наблюдаемые позиции обновляются в Sync.
type Simulation struct {
	mu       sync.Mutex
	world    *world.Map
	resolver *Resolver
	timer    *FixedTimer
	gravity  float32
	parallel int
	metrics  *Metrics
	tracer   trace.Tracer
	log      *logging.Logger
	events   eventbus.EventBus

	bodies  []*Body
	sprites []*Projectile
	ticks   uint64
}

// NewSimulation создаёт симуляцию над картой
func NewSimulation(m *world.Map, opts ...Option) *Simulation {
	s := &Simulation{
		world:    m,
		resolver: NewResolver(m),
		timer:    NewFixedTimer(DefaultTickInterval),
		gravity:  DefaultGravity,
		parallel: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.log == nil {
		s.log = logging.GetPhysicsLogger()
	}
	return s
}

// World возвращает карту симуляции
func (s *Simulation) World() *world.Map { return s.world }

// Resolver возвращает резолвер коллизий
func (s *Simulation) Resolver() *Resolver { return s.resolver }

// Ticks возвращает число выполненных тиков
func (s *Simulation) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// SpawnBody добавляет тело и сразу задаёт ему физическую позицию
func (s *Simulation) SpawnBody(b Body) (uuid.UUID, error) {
	if !b.Footprint.Valid() {
		return uuid.Nil, fmt.Errorf("spawn body: %w", ErrInvalidFootprint)
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.seed(s.world.Bound())

	s.mu.Lock()
	if s.findBody(b.ID) >= 0 {
		s.mu.Unlock()
		return uuid.Nil, fmt.Errorf("spawn body %s: duplicate id", b.ID)
	}
	id, pos := b.ID, b.Position
	s.bodies = append(s.bodies, &b)
	s.mu.Unlock()

	s.log.Debug("тело %s появилось в %v", id, pos)
	s.emit(context.Background(), eventbus.TypeBodySpawned, entityEvent(id, pos, ""))
	return id, nil
}

// SpawnSprite добавляет спрайт
func (s *Simulation) SpawnSprite(p Projectile) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.phys = p.Position

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sprites = append(s.sprites, &p)
	return p.ID
}

// Fire выпускает красный спрайт из глаз тела по направлению взгляда
func (s *Simulation) Fire(id uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	i := s.findBody(id)
	if i < 0 {
		s.mu.Unlock()
		return uuid.Nil, fmt.Errorf("fire from %s: %w", id, ErrUnknownEntity)
	}
	b := *s.bodies[i]
	s.mu.Unlock()

	eye := b.Eye()
	sid := s.SpawnSprite(Projectile{
		Sprite:   Sprite{Radius: ProjectileRadius, Color: block.ColorRed},
		Position: eye,
		Velocity: b.Look().Mul(ProjectileSpeed),
	})
	fired := entityEvent(sid, eye, "")
	fired.Owner = id.String()
	s.emit(context.Background(), eventbus.TypeSpriteFired, fired)
	return sid, nil
}

// Body возвращает копию тела
func (s *Simulation) Body(id uuid.UUID) (Body, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findBody(id); i >= 0 {
		return *s.bodies[i], true
	}
	return Body{}, false
}

// Bodies перечисляет копии тел на момент вызова
func (s *Simulation) Bodies() iter.Seq[Body] {
	s.mu.Lock()
	snapshot := make([]Body, len(s.bodies))
	for i, b := range s.bodies {
		snapshot[i] = *b
	}
	s.mu.Unlock()

	return func(yield func(Body) bool) {
		for _, b := range snapshot {
			if !yield(b) {
				return
			}
		}
	}
}

// Sprites перечисляет копии спрайтов на момент вызова
func (s *Simulation) Sprites() iter.Seq[Projectile] {
	s.mu.Lock()
	snapshot := make([]Projectile, len(s.sprites))
	for i, p := range s.sprites {
		snapshot[i] = *p
	}
	s.mu.Unlock()

	return func(yield func(Projectile) bool) {
		for _, p := range snapshot {
			if !yield(p) {
				return
			}
		}
	}
}

// SetIntent задаёт ввод для тела и делает его управляемым
func (s *Simulation) SetIntent(id uuid.UUID, in Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findBody(id)
	if i < 0 {
		return fmt.Errorf("set intent %s: %w", id, ErrUnknownEntity)
	}
	s.bodies[i].Controlled = true
	s.bodies[i].Intent = in
	return nil
}

// Teleport переносит тело. Физическая позиция задаётся заново в ближайшем Sync,
// до этого тело не участвует в коллизиях.
func (s *Simulation) Teleport(id uuid.UUID, pos mgl32.Vec3) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findBody(id)
	if i < 0 {
		return fmt.Errorf("teleport %s: %w", id, ErrUnknownEntity)
	}
	s.bodies[i].Position = pos
	s.bodies[i].seeded = false
	return nil
}

// Remove удаляет тело или спрайт
func (s *Simulation) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	if i := s.findBody(id); i >= 0 {
		b := s.bodies[i]
		s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
		s.mu.Unlock()
		s.emit(context.Background(), eventbus.TypeBodyRemoved, entityEvent(id, b.Position, ""))
		return true
	}
	defer s.mu.Unlock()
	for i, p := range s.sprites {
		if p.ID == id {
			s.sprites = append(s.sprites[:i], s.sprites[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Simulation) findBody(id uuid.UUID) int {
	for i, b := range s.bodies {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Tick выполняет один физический шаг
func (s *Simulation) Tick(ctx context.Context) error {
	destroyed, err := s.step(ctx)
	for _, ev := range destroyed {
		s.emit(ctx, eventbus.TypeSpriteDestroyed, ev)
	}
	return err
}

func (s *Simulation) step(ctx context.Context) ([]eventbus.EntityChanged, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "physics.Tick")
	defer span.End()
	span.SetAttributes(
		attribute.Int("physics.bodies", len(s.bodies)),
		attribute.Int("physics.sprites", len(s.sprites)),
	)

	start := time.Now()

	s.applyGravity()
	s.applyIntents()
	if err := s.resolveBodies(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("physics tick %d: %w", s.ticks+1, err)
	}
	destroyed := s.resolveSprites()

	s.ticks++
	s.metrics.observeTick(time.Since(start).Seconds(), len(s.bodies), len(s.sprites))
	return destroyed, nil
}

func (s *Simulation) applyGravity() {
	for _, b := range s.bodies {
		if b.Gravity {
			b.Velocity[1] += s.gravity
		}
	}
}

func (s *Simulation) applyIntents() {
	for _, b := range s.bodies {
		if b.Controlled {
			b.applyIntent()
		}
	}
}

func (s *Simulation) resolveBodies(ctx context.Context) error {
	if s.parallel <= 1 || len(s.bodies) < 2 {
		for _, b := range s.bodies {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.resolveBody(b)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	for _, b := range s.bodies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.resolveBody(b)
			return nil
		})
	}
	return g.Wait()
}

// resolveBody трогает только своё тело и читает карту
func (s *Simulation) resolveBody(b *Body) {
	if !b.seeded {
		return
	}
	res := s.resolver.Sweep(b.Footprint, b.phys, b.Velocity)
	b.phys = res.Position
	b.Velocity = res.Velocity
	b.cached = res.Bound

	if res.Collided() {
		s.metrics.observeSweep(res)
		s.log.Debug("тело %s упёрлось %v в %v", b.ID, res.Blocked, res.Position)
	}
}

func (s *Simulation) resolveSprites() []eventbus.EntityChanged {
	var destroyed []eventbus.EntityChanged
	alive := s.sprites[:0]
	for _, p := range s.sprites {
		next, reason := s.resolver.StepSprite(p.Sprite, p.phys, p.Velocity)
		if reason != Alive {
			s.metrics.observeDestroyed(reason)
			s.log.Debug("спрайт %s уничтожен (%s) в %v", p.ID, reason, p.phys)
			if s.events != nil {
				destroyed = append(destroyed, entityEvent(p.ID, p.phys, reason.String()))
			}
			continue
		}
		p.phys = next
		alive = append(alive, p)
	}
	clear(s.sprites[len(alive):])
	s.sprites = alive
	return destroyed
}

func entityEvent(id uuid.UUID, pos mgl32.Vec3, reason string) eventbus.EntityChanged {
	return eventbus.EntityChanged{ID: id.String(), Position: [3]float32(pos), Reason: reason}
}

// emit публикует событие без блокировки симуляции; ошибки шины только логируются
func (s *Simulation) emit(ctx context.Context, eventType string, payload eventbus.EntityChanged) {
	if s.events == nil {
		return
	}
	if err := eventbus.Emit(ctx, s.events, eventSource, eventType, 0, payload); err != nil {
		s.log.Warn("событие %s не отправлено: %v", eventType, err)
	}
}

// Advance продвигает таймер на dt, выполняет сработавшие тики и синхронизирует позиции.
// Возвращает число выполненных тиков.
func (s *Simulation) Advance(ctx context.Context, dt time.Duration) (int, error) {
	s.mu.Lock()
	n := s.timer.Advance(dt)
	s.mu.Unlock()

	for i := range n {
		if err := s.Tick(ctx); err != nil {
			return i, err
		}
	}

	s.mu.Lock()
	fraction := s.timer.Fraction()
	s.mu.Unlock()
	s.Sync(fraction)
	return n, nil
}

// Sync обновляет наблюдаемые позиции: phys + vel*fraction, прижатые к границе тела.
// Тела без физической позиции получают её здесь.
func (s *Simulation) Sync(fraction float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	worldBound := s.world.Bound()
	for _, b := range s.bodies {
		if !b.seeded {
			b.seed(worldBound)
			continue
		}
		b.Position = b.cached.Apply(b.phys.Add(b.Velocity.Mul(fraction)))
	}
	for _, p := range s.sprites {
		p.Position = worldBound.Apply(p.phys.Add(p.Velocity.Mul(fraction)))
	}
}
