package models

import "time"

// Layouts of the date/time split kept in appointment listings.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// DoctorSummary is one row of GET /api/doctors.
type DoctorSummary struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type Doctor struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Specialty string  `json:"specialty"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// CreateAppointmentRequest is the body of POST /api/appointments. IDs are
// pointers so that an absent field is told apart from zero.
type CreateAppointmentRequest struct {
	UserID          *int64  `json:"user_id" validate:"required"`
	DoctorID        *int64  `json:"doctor_id" validate:"required"`
	AppointmentDate string  `json:"appointment_date" validate:"required,rfc3339"`
	Reason          *string `json:"reason"`
}

type Appointment struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	DoctorID        int64     `json:"doctor_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Reason          *string   `json:"reason"`
}

type AppointmentResponse struct {
	Message     string      `json:"message"`
	Appointment Appointment `json:"appointment"`
}

// UserAppointment is one row of GET /api/user/appointments. StartsAt is the
// authoritative instant; the date and time columns are its UTC rendering.
type UserAppointment struct {
	ID              int64     `json:"id"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	StartsAt        time.Time `json:"starts_at"`
	Reason          *string   `json:"reason"`
	DoctorID        int64     `json:"doctor_id"`
	DoctorName      string    `json:"doctor_name"`
	Specialty       string    `json:"specialty"`
}

// NewUserAppointment fills the derived date and time columns from startsAt.
func NewUserAppointment(id int64, startsAt time.Time, reason *string, doctorID int64, doctorName, specialty string) UserAppointment {
	startsAt = startsAt.UTC()
	return UserAppointment{
		ID:              id,
		AppointmentDate: startsAt.Format(DateLayout),
		AppointmentTime: startsAt.Format(TimeLayout),
		StartsAt:        startsAt,
		Reason:          reason,
		DoctorID:        doctorID,
		DoctorName:      doctorName,
		Specialty:       specialty,
	}
}
