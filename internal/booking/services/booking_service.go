package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"github.com/c14220110/clinic-appointments/internal/booking/models"
	"github.com/c14220110/clinic-appointments/internal/common/events"
	"github.com/c14220110/clinic-appointments/pkg/apierror"
	"github.com/c14220110/clinic-appointments/pkg/storage"
	"github.com/c14220110/clinic-appointments/pkg/utils"
)

type BookingService struct {
	DB       *storage.DB
	Validate *validator.Validate
	// Events may be nil.
	Events events.Publisher
}

func NewBookingService(db *storage.DB, validate *validator.Validate, pub events.Publisher) *BookingService {
	return &BookingService{DB: db, Validate: validate, Events: pub}
}

func (s *BookingService) ListDoctors(ctx context.Context) ([]models.DoctorSummary, apierror.ErrorResponse) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, specialty FROM doctors ORDER BY name")
	if err != nil {
		log.Errorf("failed to fetch doctors: %v", err)
		return nil, apierror.InternalServerError
	}
	defer rows.Close()

	doctors := []models.DoctorSummary{}
	for rows.Next() {
		var d models.DoctorSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty); err != nil {
			log.Errorf("failed to scan doctor: %v", err)
			return nil, apierror.InternalServerError
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("failed to iterate doctors: %v", err)
		return nil, apierror.InternalServerError
	}
	return doctors, nil
}

func (s *BookingService) GetDoctor(ctx context.Context, id int64) (*models.Doctor, apierror.ErrorResponse) {
	var d models.Doctor
	err := s.DB.QueryRow(ctx,
		"SELECT id, name, specialty, phone, email FROM doctors WHERE id = ?", id,
	).Scan(&d.ID, &d.Name, &d.Specialty, &d.Phone, &d.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierror.DoctorNotFoundError
	}
	if err != nil {
		log.Errorf("failed to fetch doctor %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return &d, nil
}

// CreateAppointment stores one appointment. A missing user or doctor is
// reported as a referential error, detected by the foreign keys.
func (s *BookingService) CreateAppointment(ctx context.Context, req *models.CreateAppointmentRequest) (*models.Appointment, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}
	startsAt, err := time.Parse(time.RFC3339, req.AppointmentDate)
	if err != nil {
		return nil, apierror.FromValidationError(err)
	}
	if req.Reason != nil && *req.Reason == "" {
		req.Reason = nil
	}

	appt := &models.Appointment{
		UserID:          *req.UserID,
		DoctorID:        *req.DoctorID,
		AppointmentDate: startsAt.UTC().Truncate(time.Microsecond),
		Reason:          req.Reason,
	}
	appt.ID, err = s.DB.Insert(ctx,
		"INSERT INTO appointments (user_id, doctor_id, appointment_date, reason) VALUES (?, ?, ?, ?)",
		appt.UserID, appt.DoctorID, appt.AppointmentDate, appt.Reason,
	)
	if err != nil {
		if storage.IsForeignKeyViolation(err) {
			return nil, apierror.InvalidReferenceError
		}
		log.Errorf("failed to create appointment for user %d: %v", appt.UserID, err)
		return nil, apierror.InternalServerError
	}

	s.announce(ctx, appt)
	return appt, nil
}

func (s *BookingService) announce(ctx context.Context, appt *models.Appointment) {
	if s.Events == nil {
		return
	}
	evt := events.AppointmentCreated{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		DoctorID:      appt.DoctorID,
		StartsAt:      appt.AppointmentDate,
		Reason:        appt.Reason,
	}
	if err := s.Events.Publish(ctx, evt); err != nil {
		log.Warnf("appointment %d stored but event not published: %v", appt.ID, err)
	}
}

// ListUserAppointments returns the user's appointments, latest first.
func (s *BookingService) ListUserAppointments(ctx context.Context, userID int64) ([]models.UserAppointment, apierror.ErrorResponse) {
	rows, err := s.DB.Query(ctx, `
		SELECT a.id, a.appointment_date, a.reason, d.id, d.name, d.specialty
		FROM appointments a
		JOIN doctors d ON a.doctor_id = d.id
		WHERE a.user_id = ?
		ORDER BY a.appointment_date DESC, a.id DESC`, userID)
	if err != nil {
		log.Errorf("failed to fetch appointments for user %d: %v", userID, err)
		return nil, apierror.InternalServerError
	}
	defer rows.Close()

	list := []models.UserAppointment{}
	for rows.Next() {
		var (
			id, doctorID      int64
			startsAt          time.Time
			reason            *string
			doctor, specialty string
		)
		if err := rows.Scan(&id, &startsAt, &reason, &doctorID, &doctor, &specialty); err != nil {
			log.Errorf("failed to scan appointment: %v", err)
			return nil, apierror.InternalServerError
		}
		list = append(list, models.NewUserAppointment(id, startsAt, reason, doctorID, doctor, specialty))
	}
	if err := rows.Err(); err != nil {
		log.Errorf("failed to iterate appointments: %v", err)
		return nil, apierror.InternalServerError
	}
	return list, nil
}
