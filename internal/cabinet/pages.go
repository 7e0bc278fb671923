package cabinet

import (
	"slices"
	"time"

	"github.com/c14220110/clinic-appointments/internal/booking/models"
)

type Page string

const (
	PageHome    Page = "home"
	PageCabinet Page = "cabinet"
	PageBooking Page = "booking"
)

// Protected pages need a signed-in user.
func (p Page) Protected() bool {
	return p == PageCabinet || p == PageBooking
}

// Gate returns the page to render when the visitor asks for p: anonymous
// visitors of a protected page land on the home page.
func Gate(s *Session, p Page) Page {
	if p.Protected() && !s.LoggedIn() {
		return PageHome
	}
	return p
}

// HeaderState is the top bar: sign-in links for visitors, a greeting and the
// cabinet link for users.
type HeaderState struct {
	Authenticated bool
	Greeting      string
}

func Header(s *Session) HeaderState {
	u := s.User()
	if u == nil {
		return HeaderState{}
	}
	return HeaderState{Authenticated: true, Greeting: "Hello, " + u.Username + "!"}
}

type Tab string

const (
	TabUpcoming Tab = "upcoming"
	TabPast     Tab = "past"
)

// Tabs is the cabinet's split of the user's appointments.
type Tabs struct {
	Upcoming []models.UserAppointment
	Past     []models.UserAppointment
	Selected Tab
}

// Partition splits appointments on now using their starts_at instant.
// Upcoming is strictly after now, soonest first. Past is everything else,
// latest first. The upcoming tab is selected.
func Partition(list []models.UserAppointment, now time.Time) Tabs {
	tabs := Tabs{
		Upcoming: []models.UserAppointment{},
		Past:     []models.UserAppointment{},
		Selected: TabUpcoming,
	}
	for _, a := range list {
		if a.StartsAt.After(now) {
			tabs.Upcoming = append(tabs.Upcoming, a)
		} else {
			tabs.Past = append(tabs.Past, a)
		}
	}
	slices.SortStableFunc(tabs.Upcoming, func(a, b models.UserAppointment) int {
		return a.StartsAt.Compare(b.StartsAt)
	})
	slices.SortStableFunc(tabs.Past, func(a, b models.UserAppointment) int {
		return b.StartsAt.Compare(a.StartsAt)
	})
	return tabs
}
