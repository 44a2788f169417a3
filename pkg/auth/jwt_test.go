package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/domain"
)

func testManager(ttl time.Duration) *SessionManager {
	return NewSessionManager(config.SessionConfig{
		Secret: "test-secret-at-least-32-characters!!",
		TTL:    ttl,
		Issuer: "clinicdesk-test",
	})
}

func testStaff() *domain.StaffMember {
	return &domain.StaffMember{
		ID:        7,
		Email:     "dr@clinic.local",
		LastName:  "Essomba",
		FirstName: "Jean",
		Role:      domain.RoleAdmin,
	}
}

func TestIssueAndValidate(t *testing.T) {
	m := testManager(time.Hour)

	token, sess, err := m.Issue(testStaff())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if sess.StaffID != 7 || sess.Role != domain.RoleAdmin {
		t.Fatalf("issued session = %+v", sess)
	}

	got, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.StaffID != sess.StaffID || got.Email != sess.Email || got.Role != sess.Role {
		t.Errorf("round trip lost fields: %+v vs %+v", got, sess)
	}
	if !got.IsAdmin() {
		t.Error("admin role lost in transit")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, _, err := testManager(time.Hour).Issue(testStaff())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewSessionManager(config.SessionConfig{
		Secret: "a-completely-different-secret-here!!",
		TTL:    time.Hour,
		Issuer: "clinicdesk-test",
	})
	if _, err := other.Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateExpired(t *testing.T) {
	m := testManager(-time.Minute)
	token, _, err := m.Issue(testStaff())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	if _, err := testManager(time.Hour).Validate("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
