// Package events describes what the booking API announces after a write and
// fans it out to the websocket hub and the message queue.
package events

import (
	"context"
	"errors"
	"time"
)

const RoutingKeyAppointmentCreated = "appointment.created"

type AppointmentCreated struct {
	Type          string    `json:"type"`
	AppointmentID int64     `json:"appointment_id"`
	UserID        int64     `json:"user_id"`
	DoctorID      int64     `json:"doctor_id"`
	StartsAt      time.Time `json:"starts_at"`
	Reason        *string   `json:"reason,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, evt AppointmentCreated) error
}

// Fanout delivers to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, evt AppointmentCreated) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type JSONPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Queue forwards events to a topic exchange under their routing key.
type Queue struct {
	P JSONPublisher
}

func (q Queue) Publish(ctx context.Context, evt AppointmentCreated) error {
	evt.Type = RoutingKeyAppointmentCreated
	return q.P.PublishJSON(ctx, RoutingKeyAppointmentCreated, evt)
}
