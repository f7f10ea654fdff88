package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"officehours/internal/apperror"
	"officehours/internal/model"
	"officehours/internal/repository"
)

// ErrInvalidCredentials is returned by Authenticate for a wrong email or
// password. The transport layer maps it to 401 without distinguishing the
// two cases.
var ErrInvalidCredentials = errors.New("invalid email or password")

const minPasswordLength = 6

type UserService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register creates a new user with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, name, email, password, role, studentNumber, department string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	var fields []apperror.FieldError
	if name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if email == "" || !strings.Contains(email, "@") {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "a valid email is required"})
	}
	if len(password) < minPasswordLength {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "password must be at least 6 characters"})
	}
	if !model.ValidRole(role) {
		fields = append(fields, apperror.FieldError{Field: "role", Message: "role must be student or professor"})
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("validation failed", fields...)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:            uuid.New(),
		Name:          name,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          model.Role(role),
		StudentNumber: studentNumber,
		Department:    department,
		IsActive:      true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

// Authenticate verifies a credential pair and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile returns the user's own record.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

// UpdateProfile changes the user's name and email, keeping emails unique.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if name == "" || email == "" {
		return nil, apperror.Validation("name and email are required")
	}

	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != current.Email {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.Conflict("email already exists")
		}
	}

	updated, err := s.userRepo.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.NotFound("user not found")
	}

	return updated, nil
}

// ListProfessors returns all active professors.
func (s *UserService) ListProfessors(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.ListProfessors(ctx)
}

// GetProfessor returns an active professor by id.
func (s *UserService) GetProfessor(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != model.RoleProfessor {
		return nil, apperror.NotFound("professor not found")
	}
	return user, nil
}
