package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("событие не доставлено")
		return nil
	}
}

func TestMemoryBusDelivers(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	got := make(chan *Event, 4)
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{TypeBlockPlaced}}, func(_ context.Context, ev *Event) {
		got <- ev
	})
	require.NoError(t, err)

	require.NoError(t, Emit(context.Background(), bus, "api", TypeBlockBroken, 1, BlockChanged{Position: [3]int{1, 2, 3}}))
	require.NoError(t, Emit(context.Background(), bus, "api", TypeBlockPlaced, HighPriority, BlockChanged{Position: [3]int{4, 5, 6}, Block: "red"}))

	ev := receive(t, got)
	assert.Equal(t, TypeBlockPlaced, ev.Type)
	assert.Equal(t, "api", ev.Source)
	assert.NotEmpty(t, ev.ID)

	var payload BlockChanged
	require.NoError(t, ev.Decode(&payload))
	assert.Equal(t, BlockChanged{Position: [3]int{4, 5, 6}, Block: "red"}, payload)

	select {
	case ev := <-got:
		t.Fatalf("фильтр пропустил %s", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, uint64(2), bus.Metrics().Published)
}

func TestMemoryBusUnsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()

	got := make(chan *Event, 4)
	sub, err := bus.Subscribe(context.Background(), Filter{Sources: []string{"physics"}}, func(_ context.Context, ev *Event) {
		got <- ev
	})
	require.NoError(t, err)

	require.NoError(t, Emit(context.Background(), bus, "physics", TypeSpriteDestroyed, 1, EntityChanged{ID: "a"}))
	receive(t, got)

	sub.Unsubscribe()
	require.NoError(t, Emit(context.Background(), bus, "physics", TypeSpriteDestroyed, 1, EntityChanged{ID: "b"}))
	select {
	case <-got:
		t.Fatal("после отписки событий быть не должно")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBusBackpressure(t *testing.T) {
	// без подписчиков и с закрытой шиной буфер никто не разбирает
	mb := &memoryBus{
		subscribers: map[int]subscriber{},
		buffer:      make(chan *Event, 1),
		done:        make(chan struct{}),
	}

	low := &Event{Type: TypeSpriteFired, Priority: 0}
	require.NoError(t, mb.Publish(context.Background(), low))
	require.NoError(t, mb.Publish(context.Background(), low), "низкий приоритет дропается молча")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := mb.Publish(ctx, &Event{Type: TypeBlockPlaced, Priority: HighPriority})
	assert.ErrorIs(t, err, context.DeadlineExceeded, "высокий приоритет ждёт места")

	stats := mb.Metrics()
	assert.Equal(t, uint64(1), stats.Published)
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, 1, stats.InFlight)
}

func TestMemoryBusClosed(t *testing.T) {
	bus := NewMemoryBus(4)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, Emit(context.Background(), bus, "api", TypeBlockPlaced, 1, BlockChanged{}), ErrClosed)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Event) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEmitNilBus(t *testing.T) {
	assert.NoError(t, Emit(context.Background(), nil, "api", TypeBlockPlaced, 1, BlockChanged{}))
}

func TestEmitBadPayload(t *testing.T) {
	bus := NewMemoryBus(1)
	defer bus.Close()
	assert.Error(t, Emit(context.Background(), bus, "api", TypeBlockPlaced, 1, make(chan int)))
}

func TestMetricsExporter(t *testing.T) {
	bus := NewMemoryBus(8)
	defer bus.Close()
	m := NewMetricsExporter(bus, prometheus.NewRegistry())

	for range 3 {
		require.NoError(t, Emit(context.Background(), bus, "api", TypeBlockPlaced, 1, BlockChanged{}))
	}
	m.Collect()
	assert.Equal(t, float64(3), testutil.ToFloat64(m.published))

	// повторный сбор без новых событий ничего не добавляет
	m.Collect()
	assert.Equal(t, float64(3), testutil.ToFloat64(m.published))

	m.Start(time.Millisecond)
	m.Stop()
	m.Stop()
}
