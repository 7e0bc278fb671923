package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"github.com/c14220110/clinic-appointments/internal/auth/models"
	"github.com/c14220110/clinic-appointments/pkg/apierror"
	"github.com/c14220110/clinic-appointments/pkg/storage"
	"github.com/c14220110/clinic-appointments/pkg/utils"
)

type AuthService struct {
	DB       *storage.DB
	Validate *validator.Validate
	Tokens   *utils.TokenIssuer
}

func NewAuthService(db *storage.DB, validate *validator.Validate, tokens *utils.TokenIssuer) *AuthService {
	return &AuthService{DB: db, Validate: validate, Tokens: tokens}
}

// Register creates a user and returns its identity with a fresh token.
// The email pre-check only gives a friendlier answer; the unique constraint on
// users.email decides concurrent registrations.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	exists, err := s.emailExists(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to check if email %s is registered: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}
	if exists {
		return nil, apierror.UserAlreadyExistsError
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	user := &models.User{Username: req.Username, Email: req.Email, Password: hash}
	if apierr := s.createUser(ctx, user); apierr != nil {
		return nil, apierr
	}

	return s.respond("Registration successful!", user)
}

func (s *AuthService) createUser(ctx context.Context, user *models.User) apierror.ErrorResponse {
	id, err := s.DB.Insert(ctx,
		"INSERT INTO users (username, email, password) VALUES (?, ?, ?)",
		user.Username, user.Email, user.Password,
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return apierror.UserAlreadyExistsError
		}
		log.Errorf("failed to create user %s: %v", user.Email, err)
		return apierror.InternalServerError
	}
	user.ID = id
	return nil
}

// Login checks the credentials. Unknown email and wrong password are distinct
// errors; the client shows both as a failed login.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.UserNotFoundError
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		return nil, apierror.InvalidPasswordError
	}

	return s.respond("Login successful!", user)
}

func (s *AuthService) respond(message string, user *models.User) (*models.AuthResponse, apierror.ErrorResponse) {
	token, err := s.Tokens.GenerateJWTToken(user.ID, user.Username, user.Email)
	if err != nil {
		log.Errorf("failed to sign token for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return &models.AuthResponse{Message: message, User: user.Identity(), Token: token}, nil
}

func (s *AuthService) emailExists(ctx context.Context, email string) (bool, error) {
	var one int
	err := s.DB.QueryRow(ctx, "SELECT 1 FROM users WHERE email = ?", email).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRow(ctx,
		"SELECT id, username, email, password FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
