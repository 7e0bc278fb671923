package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recorder struct {
	got []AppointmentCreated
	err error
}

func (r *recorder) Publish(_ context.Context, evt AppointmentCreated) error {
	r.got = append(r.got, evt)
	return r.err
}

type jsonRecorder struct {
	key string
	v   any
}

func (j *jsonRecorder) PublishJSON(_ context.Context, key string, v any) error {
	j.key, j.v = key, v
	return nil
}

func TestFanoutDeliversToAll(t *testing.T) {
	a := &recorder{}
	b := &recorder{err: errors.New("queue down")}
	c := &recorder{}

	evt := AppointmentCreated{AppointmentID: 1, UserID: 2, DoctorID: 3, StartsAt: time.Now()}
	err := Fanout{a, nil, b, c}.Publish(context.Background(), evt)
	if err == nil || err.Error() != "queue down" {
		t.Errorf("expected joined error, got %v", err)
	}
	for i, r := range []*recorder{a, b, c} {
		if len(r.got) != 1 || r.got[0].AppointmentID != 1 {
			t.Errorf("publisher %d: got %+v", i, r.got)
		}
	}
}

func TestQueueUsesRoutingKey(t *testing.T) {
	j := &jsonRecorder{}
	if err := (Queue{P: j}).Publish(context.Background(), AppointmentCreated{AppointmentID: 5}); err != nil {
		t.Fatal(err)
	}
	if j.key != RoutingKeyAppointmentCreated {
		t.Errorf("key: got %q", j.key)
	}
	evt, ok := j.v.(AppointmentCreated)
	if !ok || evt.Type != RoutingKeyAppointmentCreated || evt.AppointmentID != 5 {
		t.Errorf("payload: got %+v", j.v)
	}
}
