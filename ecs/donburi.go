package ecs

import (
	"github.com/phanxgames/vetbuddy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TimelineEventType carries fired, completed and retired notices for page
// timelines. Systems that start audio cues or analytics when a section
// reveals itself subscribe here.
var TimelineEventType = events.NewEventType[vetbuddy.TimelineEvent]()

// worldSink queues each timeline event on a Donburi world. Nothing reaches
// subscribers until the world's next ProcessEvents.
type worldSink struct {
	world donburi.World
}

// NewDonburiSink returns a vetbuddy.EventSink for Sequencer.SetEventSink or
// vetbuddy.WithEventSink that publishes into world.
func NewDonburiSink(world donburi.World) vetbuddy.EventSink {
	return worldSink{world: world}
}

func (s worldSink) EmitEvent(event vetbuddy.TimelineEvent) {
	TimelineEventType.Publish(s.world, event)
}
