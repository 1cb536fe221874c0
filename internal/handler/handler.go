package handler

import (
	"github.com/ait-csi/notice-board/backend/internal/config"
	"github.com/ait-csi/notice-board/backend/internal/domain"
	"github.com/ait-csi/notice-board/backend/internal/repository"
	"github.com/ait-csi/notice-board/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	storage     *storage.Storage

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client, store *storage.Storage) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		storage:     store,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(h.cors)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/verify-email", h.VerifyEmail)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.currentUser)

		r.Get("/my-info", h.GetMyInfo)

		r.Route("/users", func(r chi.Router) {
			r.With(h.requirePermission(domain.ActionListUsers)).Get("/", h.GetAllUsers)
			r.With(h.requirePermission(domain.ActionInviteUser)).Post("/invite", h.InviteUser)
			// onboarding 对 INVITED 状态开放，这是唯一允许非 ACTIVE 用户调用的写操作
			r.With(h.requirePermission(domain.ActionOnboard)).Post("/onboard", h.OnboardUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Use(h.preventOperateInitialAdmin)
				r.With(h.requirePermission(domain.ActionChangeUserRole)).Patch("/role", h.ChangeUserRole)
				r.With(h.requirePermission(domain.ActionChangeUserStatus)).Patch("/status", h.ChangeUserStatus)
				r.With(h.requirePermission(domain.ActionDeleteUser)).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/notices", func(r chi.Router) {
			r.With(h.requirePermission(domain.ActionReadNotices)).Get("/", h.GetPublishedNotices)
			r.With(h.requirePermission(domain.ActionReadNotices)).Get("/search", h.SearchNotices)
			r.With(h.requirePermission(domain.ActionListMyNotices)).Get("/my", h.GetMyNotices)
			r.With(h.requirePermission(domain.ActionCreateNotice)).Post("/", h.CreateNotice)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.noticeInfo)
				r.With(h.requirePermission(domain.ActionReadNotices)).Get("/", h.GetNotice)
				r.With(h.requirePermission(domain.ActionUpdateNotice)).Patch("/", h.UpdateNotice)
				r.With(h.requirePermission(domain.ActionDeleteNotice)).Delete("/", h.DeleteNotice)
				r.With(h.requirePermission(domain.ActionPublishNotice)).Patch("/status", h.ChangeNoticeStatus)
			})
		})

		r.Route("/attachments", func(r chi.Router) {
			r.With(h.requirePermission(domain.ActionCreatePresignedURL)).Post("/presign", h.CreatePresignedURL)
			r.With(h.requirePermission(domain.ActionDeleteAttachment)).Delete("/{id}", h.DeleteAttachment)
		})
	})
}
