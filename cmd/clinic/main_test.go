package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	bookingModels "github.com/c14220110/clinic-appointments/internal/booking/models"
	"github.com/c14220110/clinic-appointments/internal/cabinet"
)

func TestParseForm(t *testing.T) {
	form, err := parseForm([]string{"doctor_id=1", "reason=a=b", "appointment_date=2030-01-01T10:00:00Z"})
	if err != nil {
		t.Fatal(err)
	}
	if form["doctor_id"] != "1" || form["reason"] != "a=b" || form["appointment_date"] != "2030-01-01T10:00:00Z" {
		t.Errorf("form %v", form)
	}
	if _, err := parseForm([]string{"oops"}); err == nil {
		t.Error("expected error for missing '='")
	}
}

func TestRunUsage(t *testing.T) {
	if code := run(nil); code != 2 {
		t.Errorf("exit %d, want 2", code)
	}
	if code := run([]string{"-session", t.TempDir() + "/s.json", "dance"}); code != 2 {
		t.Errorf("unknown action: exit %d, want 2", code)
	}
}

func TestTerminalViewAppointments(t *testing.T) {
	var out bytes.Buffer
	v := &terminalView{out: &out, errOut: &out}
	reason := "checkup"
	a := bookingModels.NewUserAppointment(1, time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC), &reason, 1, "Dr. Smith", "Cardiologist")

	v.ShowAppointments(cabinet.Tabs{Upcoming: []bookingModels.UserAppointment{a}, Past: []bookingModels.UserAppointment{}, Selected: cabinet.TabUpcoming})
	got := out.String()
	for _, want := range []string{"upcoming (1) | past (0)", "Dr. Smith", "checkup"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	v.ShowAppointments(cabinet.Tabs{Upcoming: []bookingModels.UserAppointment{a}, Selected: cabinet.TabPast})
	if !strings.Contains(out.String(), "no appointments") {
		t.Errorf("past tab output:\n%s", out.String())
	}
}
