// Package ecs provides ECS adapters for vetbuddy's timeline lifecycle events.
//
// The primary adapter is [NewDonburiSink], which bridges sequencer events
// (fired, completed, retired) into a [Donburi] world as typed events.
// Subscribe to [TimelineEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	page.Sequencer().SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
