package animation

// FinishEvent is delivered once per entry into the finished state.
type FinishEvent struct {
	Animation    *Animation
	Target       Target
	CurrentTime  float64
	TimelineTime float64
}

// FinishHandler is called with each finish event of an animation.
type FinishHandler func(FinishEvent)

// ListenerID identifies a registered finish handler.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn FinishHandler
}

type queuedEvent struct {
	event    FinishEvent
	handlers []FinishHandler
	epoch    uint64
}

// Outbox collects finish events during a tick so they can be delivered
// after it. The zero value is ready to use.
type Outbox struct {
	queue []queuedEvent
}

func (o *Outbox) push(ev FinishEvent, handlers []FinishHandler, epoch uint64) {
	o.queue = append(o.queue, queuedEvent{event: ev, handlers: handlers, epoch: epoch})
}

// Len returns the number of queued events.
func (o *Outbox) Len() int { return len(o.queue) }

// Dispatch delivers every queued event in order and returns how many were
// delivered. Events of animations cancelled after queuing are dropped.
// Events queued by a handler are left for the next Dispatch.
func (o *Outbox) Dispatch() int {
	queue := o.queue
	o.queue = nil

	delivered := 0
	for _, q := range queue {
		if q.event.Animation != nil && q.event.Animation.cancelEpoch != q.epoch {
			continue
		}
		for _, h := range q.handlers {
			h(q.event)
		}
		delivered++
	}
	return delivered
}
