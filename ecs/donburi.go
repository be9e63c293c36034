package ecs

import (
	"github.com/phanxgames/willowfx"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EffectEventType is the Donburi event type for willowfx scene events.
// Subscribe to this in your ECS systems to receive effect errors and
// screenshot notifications.
var EffectEventType = events.NewEventType[willowfx.EffectEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Events are published to EffectEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) willowfx.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event willowfx.EffectEvent) {
	EffectEventType.Publish(s.world, event)
}
