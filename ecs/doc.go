// Package ecs provides ECS adapters for willowfx scene events.
//
// The primary adapter is [NewDonburiSink], which bridges willowfx effect
// events (effect errors, written screenshots) into a [Donburi] world as typed
// events. Subscribe to [EffectEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
