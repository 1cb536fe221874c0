package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ait-csi/notice-board/backend/internal/domain"
)

func (r *Repository) GetAttachmentByID(id int64) (*domain.Attachment, error) {
	query := `
		SELECT notice_id, file_id, filename, filetype FROM attachments WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	att := &domain.Attachment{ID: id}
	dst := []any{&att.NoticeID, &att.FileID, &att.Filename, &att.Filetype}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return att, nil
}

func (r *Repository) DeleteAttachment(id int64) error {
	query := `
		DELETE FROM attachments WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
