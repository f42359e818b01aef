package ecs

import (
	"errors"
	"fmt"
	"image"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/boteyes"
)

// EyesEvent is an engine event tagged with the entity whose engine emitted
// it.
type EyesEvent struct {
	Entity donburi.Entity
	boteyes.Event
}

// EyesEventType is the Donburi event type for engine events. Subscribe to
// it in your ECS systems to react to blinks, idle moves and pulses.
var EyesEventType = events.NewEventType[EyesEvent]()

// Eyes is the component holding one eye-pair: its engine and the canvas it
// renders into.
type Eyes struct {
	Engine *boteyes.Engine
	Canvas *image.Gray
}

// EyesComponent is the Donburi component type for Eyes.
var EyesComponent = donburi.NewComponentType[Eyes]()

var eyesQuery = donburi.NewQuery(filter.Contains(EyesComponent))

type donburiSink struct {
	world  donburi.World
	entity donburi.Entity
}

// NewDonburiSink creates an EventSink that publishes to EyesEventType,
// tagging every event with entity. Events are queued; consume them with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World, entity donburi.Entity) boteyes.EventSink {
	return &donburiSink{world: world, entity: entity}
}

func (s *donburiSink) EmitEvent(event boteyes.Event) {
	EyesEventType.Publish(s.world, EyesEvent{Entity: s.entity, Event: event})
}

// NewEyes creates an entity with an Eyes component for a width x height
// screen. The engine publishes its events through a Donburi sink; extra
// options are applied after it, so a WithEventSink option replaces it.
func NewEyes(world donburi.World, width, height int, opts ...boteyes.Option) donburi.Entity {
	entity := world.Create(EyesComponent)
	entry := world.Entry(entity)

	opts = append([]boteyes.Option{boteyes.WithEventSink(NewDonburiSink(world, entity))}, opts...)
	EyesComponent.Set(entry, &Eyes{
		Engine: boteyes.New(width, height, opts...),
		Canvas: boteyes.NewCanvas(width, height),
	})
	return entity
}

// RenderAll renders the frame at timeMs for every entity with an Eyes
// component. Entities whose render fails are skipped; their errors are
// joined into the result.
func RenderAll(world donburi.World, timeMs uint64) error {
	var errs []error
	eyesQuery.Each(world, func(entry *donburi.Entry) {
		eyes := EyesComponent.Get(entry)
		if eyes.Engine == nil || eyes.Canvas == nil {
			return
		}
		if err := eyes.Engine.Render(eyes.Canvas, timeMs); err != nil {
			errs = append(errs, fmt.Errorf("entity %v: %w", entry.Entity(), err))
		}
	})
	return errors.Join(errs...)
}
