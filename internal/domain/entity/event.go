package entity

import (
	"context"
	"fmt"
)

type EventType string

const (
	EventToolCall   EventType = "tool_call"
	EventToolResult EventType = "tool_result"
)

// TurnEvent reports tool activity inside a turn to observers.
type TurnEvent struct {
	Type   EventType      `json:"type"`
	Name   string         `json:"name"`
	ID     string         `json:"id"`
	Args   map[string]any `json:"args,omitempty"`
	Result string         `json:"result,omitempty"`
}

type EventHandler func(ctx context.Context, ev TurnEvent) error

// FanOut delivers each event to every non-nil handler and reports the first
// error after all of them ran. A panicking handler is reported as an error
// and does not stop the ones after it.
func FanOut(handlers ...EventHandler) EventHandler {
	var active []EventHandler
	for _, h := range handlers {
		if h != nil {
			active = append(active, h)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(ctx context.Context, ev TurnEvent) error {
		var first error
		for _, h := range active {
			if err := deliver(ctx, h, ev); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
}

func deliver(ctx context.Context, h EventHandler, ev TurnEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked on %s: %v", ev.Type, r)
		}
	}()
	return h(ctx, ev)
}
