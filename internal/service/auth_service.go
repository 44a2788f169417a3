package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/pkg/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("a staff member with this email already exists")
	ErrStaffNotFound      = errors.New("staff member not found")
)

type StaffRepository interface {
	Create(ctx context.Context, s *domain.StaffMember) error
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	GetByID(ctx context.Context, id uint) (*domain.StaffMember, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type AuthService struct {
	staffRepo StaffRepository
	sessions  *auth.SessionManager
	auditSvc  *AuditService
	log       *zap.Logger
}

func NewAuthService(staffRepo StaffRepository, sessions *auth.SessionManager, auditSvc *AuditService, log *zap.Logger) *AuthService {
	return &AuthService{staffRepo: staffRepo, sessions: sessions, auditSvc: auditSvc, log: log}
}

// Login verifies the credential against the stored bcrypt hash and
// establishes the session used as the acting identity from here on.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, &ValidationError{Fields: []string{"email and password are required"}}
	}

	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		// Burn a hash comparison anyway so a missing account is not
		// distinguishable by response time.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt", zap.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	token, sess, err := s.sessions.Issue(staff)
	if err != nil {
		s.log.Error("failed to issue session token", zap.Error(err))
		return "", nil, fmt.Errorf("issuing session token: %w", err)
	}

	s.auditSvc.Record(*sess, domain.ActionLogin, domain.StaffMember{}.TableName(), staff.ID,
		fmt.Sprintf("login: %s", staff.FullName()))

	s.log.Info("staff member logged in", zap.Uint("staff_id", staff.ID))
	return token, sess, nil
}

// Resume validates a previously issued token.
func (s *AuthService) Resume(token string) (*domain.Session, error) {
	return s.sessions.Validate(token)
}

type CreateStaffCommand struct {
	Email     string
	Password  string
	LastName  string
	FirstName string
	Role      domain.Role
	Specialty string
	Phone     string
}

// CreateStaff registers a new staff account. Admin only.
func (s *AuthService) CreateStaff(ctx context.Context, cmd *CreateStaffCommand, sess domain.Session) (*domain.StaffMember, error) {
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}

	var errs []string
	if strings.TrimSpace(cmd.Email) == "" {
		errs = append(errs, "email is required")
	}
	if len(cmd.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if !cmd.Role.IsValid() {
		errs = append(errs, "role is invalid")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	staff := &domain.StaffMember{
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		PasswordHash: string(hash),
		LastName:     strings.TrimSpace(cmd.LastName),
		FirstName:    strings.TrimSpace(cmd.FirstName),
		Role:         cmd.Role,
		Specialty:    cmd.Specialty,
		Phone:        cmd.Phone,
	}

	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}

	s.auditSvc.Record(sess, domain.ActionCreate, domain.StaffMember{}.TableName(), staff.ID,
		fmt.Sprintf("staff account: %s (%s)", staff.Email, staff.Role))

	return staff, nil
}

// ChangePassword updates the caller's own password after verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, sess domain.Session, currentPassword, newPassword string) error {
	staff, err := s.staffRepo.GetByID(ctx, sess.StaffID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if len(newPassword) < 8 {
		return &ValidationError{Fields: []string{"password must be at least 8 characters"}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.staffRepo.UpdatePassword(ctx, staff.ID, string(hash)); err != nil {
		return err
	}

	s.auditSvc.Record(sess, domain.ActionUpdate, domain.StaffMember{}.TableName(), staff.ID, "password changed")
	return nil
}
