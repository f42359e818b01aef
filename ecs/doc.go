// Package ecs plugs eye engines into a [Donburi] world.
//
// Each eye-pair is an entity carrying an [Eyes] component. Engine events
// (blinks, idle moves, pulses, sweat resets) are published to [EyesEventType]
// so ECS systems can react to them. [RenderAll] renders every eye-pair of a
// world for one frame.
//
// Usage:
//
//	world := donburi.NewWorld()
//	entity := ecs.NewEyes(world, 128, 64)
//	// per frame:
//	ecs.RenderAll(world, nowMs)
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
