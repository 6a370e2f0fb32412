package event

import (
	"time"

	"github.com/schedsim/feedq/internal/clock"
)

// Context identifies what a published event refers to: the simulation run,
// the process and the queue transition that produced it.
type Context struct {
	SimulationID string `json:"simulationID"`
	ProcessID    string `json:"processID"`
	EventType    string `json:"eventType"`
	Service      string `json:"service"`
	Level        int    `json:"level"`
	TimeTakenMs  int    `json:"timeTakenMs"`
}

// Event carries a payload of type T together with the context describing
// where in the simulation it originated.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}

// erased copies the event with its payload type removed so it can travel on
// the firehose queue.
func (e *Event[T]) erased() *Event[any] {
	return &Event[any]{
		Context:   e.Context,
		CreatedAt: e.CreatedAt,
		Metadata:  e.Metadata,
		Data:      e.Data,
	}
}
