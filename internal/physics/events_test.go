package physics

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxelcore/internal/eventbus"
)

func TestSimulationEvents(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	defer bus.Close()

	got := make(chan *eventbus.Event, 16)
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{Sources: []string{"physics"}}, func(_ context.Context, ev *eventbus.Event) {
		got <- ev
	})
	require.NoError(t, err)

	s, _ := newTestSimulation(t, WithEvents(bus))
	id, err := s.SpawnBody(Body{Footprint: PlayerFootprint, Position: mgl32.Vec3{4, 1, 4}, Pitch: 1.5})
	require.NoError(t, err)
	sid, err := s.Fire(id)
	require.NoError(t, err)

	// спрайт смотрит почти вертикально вниз и врезается в пол
	tickN(t, s, 20)
	require.True(t, s.Remove(id))

	seen := map[string]eventbus.EntityChanged{}
	deadline := time.After(2 * time.Second)
	for len(seen) < 4 {
		select {
		case ev := <-got:
			var payload eventbus.EntityChanged
			require.NoError(t, ev.Decode(&payload))
			seen[ev.Type] = payload
		case <-deadline:
			t.Fatalf("получены не все события: %v", seen)
		}
	}

	assert.Equal(t, id.String(), seen[eventbus.TypeBodySpawned].ID)
	assert.Equal(t, sid.String(), seen[eventbus.TypeSpriteFired].ID)
	assert.Equal(t, id.String(), seen[eventbus.TypeSpriteFired].Owner)
	assert.Equal(t, sid.String(), seen[eventbus.TypeSpriteDestroyed].ID)
	assert.Equal(t, HitBlock.String(), seen[eventbus.TypeSpriteDestroyed].Reason)
	assert.Equal(t, id.String(), seen[eventbus.TypeBodyRemoved].ID)
}
