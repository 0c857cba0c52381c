package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

const testSecret = "test-secret-key"

func newTestAuthService() AuthService {
	return NewAuthService(newMockUserRepository(), testSecret, time.Hour)
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestAuthService()

	signup, err := s.Signup(context.Background(), &models.SignupRequest{
		Email:    "dev@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if signup.AccessToken == "" {
		t.Error("Expected access token after signup")
	}
	if signup.User.ID == "" {
		t.Error("Expected user ID to be assigned")
	}
	if claims, err := s.ValidateToken(signup.AccessToken); err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	} else if claims.UserID != signup.User.ID {
		t.Errorf("Expected claims user %q, got %q", signup.User.ID, claims.UserID)
	}

	login, err := s.Login(context.Background(), &models.LoginRequest{
		Email:    "dev@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != signup.User.ID {
		t.Errorf("Expected same user on login, got %q vs %q", login.User.ID, signup.User.ID)
	}

	claims, err := s.ValidateToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Email != "dev@example.com" {
		t.Errorf("Expected email claim, got %q", claims.Email)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := newTestAuthService()

	req := &models.SignupRequest{Email: "dev@example.com", Password: "hunter22"}
	if _, err := s.Signup(context.Background(), req); err != nil {
		t.Fatalf("first Signup failed: %v", err)
	}
	if _, err := s.Signup(context.Background(), req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestAuthService()

	if _, err := s.Signup(context.Background(), &models.SignupRequest{
		Email:    "dev@example.com",
		Password: "hunter22",
	}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if _, err := s.Login(context.Background(), &models.LoginRequest{
		Email:    "dev@example.com",
		Password: "wrong",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for bad password, got %v", err)
	}

	if _, err := s.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter22",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	s := newTestAuthService()

	signup, err := s.Signup(context.Background(), &models.SignupRequest{
		Email:    "dev@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	other := NewAuthService(newMockUserRepository(), "different-secret", time.Hour)
	if _, err := other.ValidateToken(signup.AccessToken); err == nil {
		t.Error("Expected token signed with another secret to be rejected")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	expired := NewAuthService(newMockUserRepository(), testSecret, -time.Minute)

	signup, err := expired.Signup(context.Background(), &models.SignupRequest{
		Email:    "dev@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if _, err := expired.ValidateToken(signup.AccessToken); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}
