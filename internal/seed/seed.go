package seed

import (
	"log/slog"
	"math/rand"

	"github.com/ait-csi/notice-board/backend/internal/domain"
	"github.com/ait-csi/notice-board/backend/internal/repository"
	"github.com/ait-csi/notice-board/backend/internal/utils"
)

// SeedRandomUsers 插入 n 个已激活的随机用户（含档案）
func SeedRandomUsers(repo *repository.Repository, n int, password string, emailDomain string) {
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(password, emailDomain)
		if err != nil {
			slog.Error("生成随机用户失败", "error", err)
			return
		}

		// 随机邮箱可能撞车，撞车直接跳过
		exists, err := repo.CheckEmailIfExists(user.Email)
		if err != nil {
			slog.Error("检查邮箱是否存在失败", "error", err)
			return
		}
		if exists {
			continue
		}

		// 先插入用户行，再通过 onboarding 的 upsert 建立档案
		profile := user.StudentProfile
		adminProfile := user.AdminProfile
		user.StudentProfile = nil
		user.AdminProfile = nil

		if err := repo.CreateUser(user); err != nil {
			slog.Error("插入随机用户失败", "error", err)
			continue
		}

		user.StudentProfile = profile
		user.AdminProfile = adminProfile
		if err := repo.OnboardUser(user); err != nil {
			slog.Error("插入随机用户档案失败", "error", err)
			continue
		}

		slog.Info("已插入随机用户", "email", user.Email, "role", user.Role)
	}
}

var noticeTitlePrefixes = []string{
	"Exam Notice",
	"Holiday Notice",
	"Placement Drive",
	"Fee Payment Reminder",
	"Workshop Announcement",
}

var noticeTags = []string{"exam", "holiday", "placement", "fees", "workshop", "general"}

// SeedRandomNotices 以随机管理员的身份插入 n 条公告
func SeedRandomNotices(repo *repository.Repository, n int) {
	users, err := repo.GetAllUsers()
	if err != nil {
		slog.Error("获取用户列表失败", "error", err)
		return
	}

	admins := make([]*domain.User, 0)
	for _, user := range users {
		if user.Role.IsAdminTier() {
			admins = append(admins, user)
		}
	}
	if len(admins) == 0 {
		slog.Error("数据库中没有管理员，无法插入公告")
		return
	}

	for i := 0; i < n; i++ {
		admin := admins[rand.Intn(len(admins))]

		tags := []string{noticeTags[rand.Intn(len(noticeTags))]}
		notice := &domain.Notice{
			AdminID:     admin.ID,
			AdminEmail:  admin.Email,
			Title:       noticeTitlePrefixes[rand.Intn(len(noticeTitlePrefixes))] + " " + utils.GenerateRandomID(0, 4),
			Body:        "<p>" + utils.GenerateRandomID(40, 10) + "</p>",
			Tags:        tags,
			IsPublished: rand.Intn(2) == 0,
		}

		if err := repo.CreateNotice(notice); err != nil {
			slog.Error("插入随机公告失败", "error", err)
			continue
		}

		slog.Info("已插入随机公告", "title", notice.Title, "admin", admin.Email)
	}
}
