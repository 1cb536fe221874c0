package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// CreatePresignedURL 为即将上传的文件签发限时上传凭证。
// 上传本身由客户端直接对对象存储发起，随后在创建或更新公告时注册为附件行。
func (h *Handler) CreatePresignedURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filepath string `json:"filepath" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	key := strings.TrimPrefix(req.Filepath, "/")
	if key == "" {
		h.badRequest(w, r, errors.New("invalid filepath"))
		return
	}

	url, err := h.storage.PresignUpload(r.Context(), key)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "presigned url created", map[string]any{
		"fileID":    key,
		"uploadURL": url,
		"expiresIn": h.config.S3.PresignExpiration,
	})
}

func (h *Handler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid attachment id")
		return
	}

	att, err := h.repository.GetAttachmentByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "attachment does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.DeleteAttachment(id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "attachment does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 行删除已提交，对象清理失败只记录日志
	if err := h.storage.DeleteObject(r.Context(), att.FileID); err != nil {
		slog.Error("failed to delete attachment object", "fileID", att.FileID, "error", err)
	}

	h.successResponse(w, r, "attachment deleted", nil)
}
