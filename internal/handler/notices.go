package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ait-csi/notice-board/backend/internal/domain"
	"github.com/ait-csi/notice-board/backend/internal/repository"
	"github.com/ait-csi/notice-board/backend/internal/utils"
	"github.com/jackc/pgx/v5/pgconn"
)

// noticeRequest 是创建和更新公告共用的请求体
type noticeRequest struct {
	Title       string   `json:"title" validate:"required,max=80"` // max 必须等于 domain.NoticeTitleMaxLength
	Body        string   `json:"body" validate:"required"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"isPublished"`
	Attachments []struct {
		FileID   string `json:"fileID" validate:"required"`
		Filename string `json:"filename" validate:"required"`
		Filetype string `json:"filetype" validate:"required"`
	} `json:"attachments" validate:"dive"`
}

func (req *noticeRequest) apply(notice *domain.Notice) {
	notice.Title = req.Title
	notice.Body = req.Body
	notice.Tags = req.Tags
	notice.IsPublished = req.IsPublished

	notice.Attachments = make([]domain.Attachment, 0, len(req.Attachments))
	for _, att := range req.Attachments {
		notice.Attachments = append(notice.Attachments, domain.Attachment{
			FileID:   att.FileID,
			Filename: att.Filename,
			Filetype: att.Filetype,
		})
	}
}

// parsePage 解析 page 查询参数，缺省为第 1 页
func parsePage(value string) (int, error) {
	if value == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(value)
	if err != nil || page < 1 {
		return 0, errors.New("invalid page number")
	}
	return page, nil
}

type noticeListResponse struct {
	TotalNotice int64            `json:"totalNotice"`
	TotalPages  int              `json:"totalPages"`
	Notices     []*domain.Notice `json:"notices"`
}

func (h *Handler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(CurrentUserCtx).(*domain.User)

	var req noticeRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	notice := &domain.Notice{
		AdminID:    user.ID,
		AdminEmail: user.Email,
	}
	req.apply(notice)

	if err := h.repository.CreateNotice(notice); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "attachments_file_id_key":
			h.badRequest(w, r, errors.New("an attachment with the same file id already exists"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "notice created", notice)
}

func (h *Handler) UpdateNotice(w http.ResponseWriter, r *http.Request) {
	notice := r.Context().Value(NoticeCtx).(*domain.Notice)

	var req noticeRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	req.apply(notice)

	if err := h.repository.UpdateNotice(notice); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "notice was modified concurrently, please retry")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "attachments_file_id_key":
			h.badRequest(w, r, errors.New("an attachment with the same file id already exists"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "notice updated", notice)
}

func (h *Handler) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	notice := r.Context().Value(NoticeCtx).(*domain.Notice)

	fileIDs, err := h.repository.DeleteNotice(notice.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 对象存储中的清理放在事务提交之后，失败只记录日志：
	// 数据库里的删除已经生效，不能再向调用方报告删除失败
	for _, fileID := range fileIDs {
		if err := h.storage.DeleteObject(r.Context(), fileID); err != nil {
			slog.Error("failed to delete attachment object", "fileID", fileID, "error", err)
		}
	}

	h.successResponse(w, r, "notice deleted", nil)
}

func (h *Handler) ChangeNoticeStatus(w http.ResponseWriter, r *http.Request) {
	notice := r.Context().Value(NoticeCtx).(*domain.Notice)

	var req struct {
		IsPublished *bool `json:"isPublished" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ChangeNoticeStatus(notice.ID, *req.IsPublished); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "notice does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "notice status updated", map[string]any{
		"id":          notice.ID,
		"isPublished": *req.IsPublished,
	})
}

func (h *Handler) GetPublishedNotices(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	total, notices, err := h.repository.GetPublishedNotices(page)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched notices", noticeListResponse{
		TotalNotice: total,
		TotalPages:  utils.TotalPages(total, repository.NoticePageSize),
		Notices:     notices,
	})
}

func (h *Handler) GetMyNotices(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(CurrentUserCtx).(*domain.User)

	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	total, notices, err := h.repository.GetNoticesByAdmin(user.ID, page)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched your notices", noticeListResponse{
		TotalNotice: total,
		TotalPages:  utils.TotalPages(total, repository.NoticePageSize),
		Notices:     notices,
	})
}

func (h *Handler) GetNotice(w http.ResponseWriter, r *http.Request) {
	notice := r.Context().Value(NoticeCtx).(*domain.Notice)

	// 附件带上限时下载链接
	for i := range notice.Attachments {
		url, err := h.storage.PresignDownload(r.Context(), notice.Attachments[i].FileID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		notice.Attachments[i].DownloadURL = url
	}

	h.successResponse(w, r, "fetched notice", notice)
}

func (h *Handler) SearchNotices(w http.ResponseWriter, r *http.Request) {
	sanitized := utils.SanitizeSearchText(r.URL.Query().Get("q"))
	if sanitized == "" {
		h.badRequest(w, r, errors.New("invalid search text"))
		return
	}

	notices, err := h.repository.SearchNoticesByTitle(sanitized)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "search completed", notices)
}
