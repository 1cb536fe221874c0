package repository

import (
	"strings"
	"testing"

	"github.com/ait-csi/notice-board/backend/internal/domain"
)

// 用户从学生被提升为管理员后重新 onboarding 时，
// 旧的学生档案必须在同一个事务中被删除，反之亦然
func TestOnboardProfileQueries(t *testing.T) {
	t.Run("student onboarding removes any admin profile", func(t *testing.T) {
		user := &domain.User{
			ID:   7,
			Role: domain.RoleStudent,
			StudentProfile: &domain.StudentProfile{
				Branch:             "COMP",
				RegistrationNumber: 12345,
				Year:               "3",
			},
		}

		cleanup, upsert, args := onboardProfileQueries(user)

		if !strings.Contains(cleanup, "DELETE FROM admin_profiles") {
			t.Fatalf("expected admin profile cleanup, got %q", cleanup)
		}
		if !strings.Contains(upsert, "INSERT INTO student_profiles") {
			t.Fatalf("expected student profile upsert, got %q", upsert)
		}
		if len(args) != 4 || args[0] != user.ID {
			t.Fatalf("unexpected upsert args: %v", args)
		}
	})

	t.Run("admin onboarding removes any student profile", func(t *testing.T) {
		user := &domain.User{
			ID:   7,
			Role: domain.RoleAdmin,
			AdminProfile: &domain.AdminProfile{
				Designation: "Faculty Coordinator",
				Phone:       "9000000000",
			},
		}

		cleanup, upsert, args := onboardProfileQueries(user)

		if !strings.Contains(cleanup, "DELETE FROM student_profiles") {
			t.Fatalf("expected student profile cleanup, got %q", cleanup)
		}
		if !strings.Contains(upsert, "INSERT INTO admin_profiles") {
			t.Fatalf("expected admin profile upsert, got %q", upsert)
		}
		if len(args) != 3 || args[0] != user.ID {
			t.Fatalf("unexpected upsert args: %v", args)
		}
	})

	t.Run("no profile means no statements", func(t *testing.T) {
		user := &domain.User{ID: 7, Role: domain.RoleStudent}

		cleanup, upsert, args := onboardProfileQueries(user)

		if cleanup != "" || upsert != "" || args != nil {
			t.Fatalf("expected no statements, got cleanup=%q upsert=%q args=%v", cleanup, upsert, args)
		}
	})
}
