package cabinet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	authModels "github.com/c14220110/clinic-appointments/internal/auth/models"
	bookingModels "github.com/c14220110/clinic-appointments/internal/booking/models"
)

// APIError is a non-2xx answer. Message is the server's text, shown to the
// user as is.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Message }

// API is the part of the server the controller talks to.
type API interface {
	Register(ctx context.Context, username, email, password string) (*authModels.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*authModels.AuthResponse, error)
	Doctors(ctx context.Context) ([]bookingModels.DoctorSummary, error)
	Book(ctx context.Context, token string, req bookingModels.CreateAppointmentRequest) (*bookingModels.AppointmentResponse, error)
	Appointments(ctx context.Context, token string, userID int64) ([]bookingModels.UserAppointment, error)
}

type APIClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *APIClient) Register(ctx context.Context, username, email, password string) (*authModels.AuthResponse, error) {
	var out authModels.AuthResponse
	body := authModels.RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/register", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*authModels.AuthResponse, error) {
	var out authModels.AuthResponse
	body := authModels.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Doctors(ctx context.Context) ([]bookingModels.DoctorSummary, error) {
	var out []bookingModels.DoctorSummary
	if err := c.do(ctx, http.MethodGet, "/api/doctors", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) Book(ctx context.Context, token string, req bookingModels.CreateAppointmentRequest) (*bookingModels.AppointmentResponse, error) {
	var out bookingModels.AppointmentResponse
	if err := c.do(ctx, http.MethodPost, "/api/appointments", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Appointments(ctx context.Context, token string, userID int64) ([]bookingModels.UserAppointment, error) {
	var out []bookingModels.UserAppointment
	path := "/api/user/appointments?" + url.Values{"user_id": {strconv.FormatInt(userID, 10)}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{Status: res.StatusCode}
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		apiErr.Status = res.StatusCode
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
