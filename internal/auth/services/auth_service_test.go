package services_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/c14220110/clinic-appointments/internal/auth/models"
	"github.com/c14220110/clinic-appointments/internal/auth/services"
	"github.com/c14220110/clinic-appointments/pkg/apierror"
	"github.com/c14220110/clinic-appointments/pkg/storage/storagetest"
	"github.com/c14220110/clinic-appointments/pkg/utils"
)

func setup(t *testing.T) *services.AuthService {
	t.Helper()
	tokens, err := utils.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	return services.NewAuthService(storagetest.NewDB(t), utils.NewValidator(), tokens)
}

func TestRegisterThenLogin(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	reg, apierr := s.Register(ctx, &models.RegisterRequest{Username: "Ann", Email: "ann@x.com", Password: "p"})
	if apierr != nil {
		t.Fatalf("register: %v", apierr)
	}
	if reg.User.ID != 1 || reg.User.Username != "Ann" || reg.Token == "" {
		t.Fatalf("unexpected register response %+v", reg)
	}

	login, apierr := s.Login(ctx, &models.LoginRequest{Email: "ann@x.com", Password: "p"})
	if apierr != nil {
		t.Fatalf("login: %v", apierr)
	}
	if login.User != reg.User {
		t.Errorf("login user %+v, want %+v", login.User, reg.User)
	}

	claims, err := s.Tokens.ValidateJWTToken(login.Token)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if claims.UserID != reg.User.ID {
		t.Errorf("token user %d, want %d", claims.UserID, reg.User.ID)
	}
}

func TestRegisterStoresHash(t *testing.T) {
	s := setup(t)
	if _, apierr := s.Register(context.Background(), &models.RegisterRequest{Username: "Ann", Email: "ann@x.com", Password: "secret"}); apierr != nil {
		t.Fatal(apierr)
	}
	var stored string
	if err := s.DB.QueryRow(context.Background(), "SELECT password FROM users WHERE email = ?", "ann@x.com").Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if stored == "secret" || !utils.CheckPassword(stored, "secret") {
		t.Errorf("password not stored as bcrypt hash: %q", stored)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := setup(t)

	tests := []struct {
		name string
		req  models.RegisterRequest
		msg  string
	}{
		{"all missing", models.RegisterRequest{}, "Missing required fields: username, email, password"},
		{"blank username", models.RegisterRequest{Username: "  ", Email: "a@b.com", Password: "p"}, "Missing required fields: username"},
		{"bad email", models.RegisterRequest{Username: "A", Email: "nope", Password: "p"}, "email must be a valid email address"},
		{"multibyte password over bcrypt limit", models.RegisterRequest{Username: "A", Email: "a@b.com", Password: strings.Repeat("é", 40)}, "password must be at most 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, apierr := s.Register(context.Background(), &tt.req)
			if apierr == nil {
				t.Fatal("expected error")
			}
			if apierr.Code() != http.StatusBadRequest || apierr.Error() != tt.msg {
				t.Errorf("got %d %q, want 400 %q", apierr.Code(), apierr.Error(), tt.msg)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	if _, apierr := s.Register(ctx, &models.RegisterRequest{Username: "Ann", Email: "ann@x.com", Password: "p"}); apierr != nil {
		t.Fatal(apierr)
	}
	_, apierr := s.Register(ctx, &models.RegisterRequest{Username: "Other", Email: "ann@x.com", Password: "q"})
	if apierr != apierror.UserAlreadyExistsError {
		t.Fatalf("got %v, want duplicate error", apierr)
	}
}

func TestPasswordWhitespaceIsKept(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	if _, apierr := s.Register(ctx, &models.RegisterRequest{Username: "Ann", Email: " ann@x.com ", Password: " p "}); apierr != nil {
		t.Fatal(apierr)
	}
	if _, apierr := s.Login(ctx, &models.LoginRequest{Email: "ann@x.com", Password: "p"}); apierr != apierror.InvalidPasswordError {
		t.Errorf("trimmed password: got %v, want InvalidPasswordError", apierr)
	}
	if _, apierr := s.Login(ctx, &models.LoginRequest{Email: "ann@x.com", Password: " p "}); apierr != nil {
		t.Errorf("exact password: %v", apierr)
	}
}

func TestCreateUserUniqueViolation(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	if _, err := s.DB.Exec(ctx, "INSERT INTO users (username, email, password) VALUES (?, ?, ?)", "Ann", "ann@x.com", "hash"); err != nil {
		t.Fatal(err)
	}

	// a registration that passed the email check before the row above landed
	apierr := services.CreateUser(s, ctx, &models.User{Username: "Other", Email: "ann@x.com", Password: "hash"})
	if apierr != apierror.UserAlreadyExistsError {
		t.Fatalf("got %v, want UserAlreadyExistsError", apierr)
	}

	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", "ann@x.com").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("got %d users, want 1", count)
	}
}

func TestRegisterConcurrentDuplicates(t *testing.T) {
	s := setup(t)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, apierr := s.Register(context.Background(), &models.RegisterRequest{Username: "Ann", Email: "race@x.com", Password: "p"})
			mu.Lock()
			defer mu.Unlock()
			switch apierr {
			case nil:
				successes++
			case apierror.UserAlreadyExistsError:
				conflicts++
			default:
				t.Errorf("unexpected error %v", apierr)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || conflicts != n-1 {
		t.Errorf("successes=%d conflicts=%d, want 1 and %d", successes, conflicts, n-1)
	}
}

func TestLoginFailures(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	if _, apierr := s.Register(ctx, &models.RegisterRequest{Username: "Ann", Email: "ann@x.com", Password: "p"}); apierr != nil {
		t.Fatal(apierr)
	}

	tests := []struct {
		name string
		req  models.LoginRequest
		code int
	}{
		{"missing password", models.LoginRequest{Email: "ann@x.com"}, http.StatusBadRequest},
		{"unknown email", models.LoginRequest{Email: "bob@x.com", Password: "p"}, http.StatusBadRequest},
		{"wrong password", models.LoginRequest{Email: "ann@x.com", Password: "wrong"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, apierr := s.Login(ctx, &tt.req)
			if apierr == nil {
				t.Fatal("expected error")
			}
			if apierr.Code() != tt.code {
				t.Errorf("code %d, want %d (%s)", apierr.Code(), tt.code, apierr.Error())
			}
		})
	}
}
