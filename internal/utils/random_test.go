package utils

import (
	"strings"
	"testing"

	"github.com/ait-csi/notice-board/backend/internal/domain"
)

func TestGenerateRandomPassword(t *testing.T) {
	for _, length := range []int{8, 12, 20} {
		password := GenerateRandomPassword(length)
		if len(password) != length {
			t.Fatalf("expected password of length %d, got %d", length, len(password))
		}
	}
}

func TestGenerateRandomToken(t *testing.T) {
	token, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token) != 32 {
		t.Fatalf("expected token of length 32, got %d", len(token))
	}
	for _, r := range token {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Fatalf("token contains non-hex character %q", r)
		}
	}

	other, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == other {
		t.Fatal("two generated tokens should not collide")
	}
}

func TestGenerateRandomUser(t *testing.T) {
	user, err := GenerateRandomUser("secret", "aitpune.edu.in")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(user.Email, "@aitpune.edu.in") {
		t.Fatalf("expected institutional email, got %s", user.Email)
	}
	if user.Status != domain.StatusActive {
		t.Fatalf("expected active seed user, got %s", user.Status)
	}

	switch user.Role {
	case domain.RoleStudent:
		if user.StudentProfile == nil {
			t.Fatal("student seed user should have a student profile")
		}
	default:
		if user.AdminProfile == nil {
			t.Fatal("admin seed user should have an admin profile")
		}
	}
}
