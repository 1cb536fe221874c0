package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ait-csi/notice-board/backend/internal/domain"
	"github.com/ait-csi/notice-board/backend/internal/utils"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/crypto/bcrypt"
)

// publishMail 将邮件消息序列化后投递到 email_queue，由 mail worker 异步发送
func (h *Handler) publishMail(msg domain.MailMessage) error {
	mailData, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(CurrentUserCtx).(*domain.User)
	h.successResponse(w, r, "fetched profile", user)
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched user list", users)
}

func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required,oneof=STUDENT ADMIN SUPER_ADMIN"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 无论调用者是谁，都只允许邀请机构域名下的邮箱
	if !strings.HasSuffix(req.Email, "@"+h.config.Email.UserDomain) {
		h.badRequest(w, r, fmt.Errorf("only %s email addresses can be invited", h.config.Email.UserDomain))
		return
	}

	// 生成随机临时密码
	tempPassword := utils.GenerateRandomPassword(h.config.Invite.TempPasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.Role(req.Role),
		Status:       domain.StatusInvited,
	}

	if err := h.repository.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key":
			h.badRequest(w, r, errors.New("this email has already been invited"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 生成验证令牌并存入 redis，令牌过期由 TTL 控制
	token, err := utils.GenerateRandomToken(h.config.Invite.TokenLength)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	tokenTTL := time.Duration(h.config.Invite.TokenExpiration) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	if err := h.redisClient.Set(ctx, verifyTokenKey(token), user.Email, tokenTTL).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := h.redisClient.SAdd(ctx, verifyTokensForEmailKey(user.Email), token).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := h.redisClient.Expire(ctx, verifyTokensForEmailKey(user.Email), tokenTTL).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 投递邀请邮件
	mailMessage := domain.MailMessage{
		Type: "invite_user",
		To:   user.Email,
		Data: domain.InviteUserMailData{
			Email:        user.Email,
			Role:         user.Role,
			Token:        token,
			TempPassword: tempPassword,
			Expiration:   h.config.Invite.TokenExpiration / 3600, // 邮件中以小时展示
		},
	}

	if err := h.publishMail(mailMessage); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "invitation sent", user)
}

func (h *Handler) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	target := r.Context().Value(TargetUserCtx).(*domain.User)

	var req struct {
		Role string `json:"role" validate:"required,oneof=STUDENT ADMIN SUPER_ADMIN"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	target.Role = domain.Role(req.Role)

	if err := h.repository.UpdateUser(target); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "user was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	mailMessage := domain.MailMessage{
		Type: "role_changed",
		To:   target.Email,
		Data: domain.RoleChangedMailData{
			Name:    target.Name,
			NewRole: target.Role,
		},
	}
	if err := h.publishMail(mailMessage); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "role updated", target)
}

func (h *Handler) ChangeUserStatus(w http.ResponseWriter, r *http.Request) {
	target := r.Context().Value(TargetUserCtx).(*domain.User)

	// 管理员只能在 ACTIVE 和 INACTIVE 之间切换，INVITED 只能由邀请流程产生
	var req struct {
		Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	target.Status = domain.UserStatus(req.Status)

	if err := h.repository.UpdateUser(target); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "user was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "status updated", target)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	target := r.Context().Value(TargetUserCtx).(*domain.User)

	if err := h.repository.DeleteUser(target.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "user deleted", nil)
}

// OnboardUser 是受邀用户的一次性自助开通：补全个人信息、建立角色对应的档案，
// 并将状态流转为 ACTIVE。重复调用只会更新档案，不会报错
func (h *Handler) OnboardUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(CurrentUserCtx).(*domain.User)

	var req struct {
		Name               string `json:"name" validate:"required"`
		Phone              string `json:"phone" validate:"required"`
		Branch             string `json:"branch" validate:"omitempty,oneof=COMP IT ENTC MECH"`
		RegistrationNumber int64  `json:"registrationNumber" validate:"omitempty,gt=0"`
		Year               string `json:"year" validate:"omitempty,oneof=3 4"`
		Designation        string `json:"designation"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user.Name = req.Name
	user.Phone = req.Phone
	user.Status = domain.StatusActive

	switch user.Role {
	case domain.RoleStudent:
		if req.Branch == "" || req.RegistrationNumber == 0 || req.Year == "" {
			h.badRequest(w, r, errors.New("branch, registrationNumber and year are required for students"))
			return
		}
		user.StudentProfile = &domain.StudentProfile{
			Branch:             req.Branch,
			RegistrationNumber: req.RegistrationNumber,
			Year:               req.Year,
		}
		user.AdminProfile = nil
	default:
		user.AdminProfile = &domain.AdminProfile{
			Designation: req.Designation,
			Phone:       req.Phone,
		}
		user.StudentProfile = nil
	}

	if err := h.repository.OnboardUser(user); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "onboarding failed, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "onboarding completed", user)
}
