package repository

import (
	"context"
	"time"

	"github.com/ait-csi/notice-board/backend/internal/domain"
)

// NoticePageSize 是公告列表固定的每页条数
const NoticePageSize = 10

// CreateNotice 在同一个事务中写入公告行、标签行和附件行
func (r *Repository) CreateNotice(notice *domain.Notice) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO notices (admin_id, title, body, is_published)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, version
	`
	args := []any{notice.AdminID, notice.Title, notice.Body, notice.IsPublished}
	dst := []any{&notice.ID, &notice.CreatedAt, &notice.UpdatedAt, &notice.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	for _, tag := range notice.Tags {
		query = `
			INSERT INTO notice_tags (notice_id, tag) VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, notice.ID, tag); err != nil {
			return err
		}
	}

	for i := range notice.Attachments {
		query = `
			INSERT INTO attachments (notice_id, file_id, filename, filetype)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		att := &notice.Attachments[i]
		if err := tx.QueryRowContext(ctx, query, notice.ID, att.FileID, att.Filename, att.Filetype).Scan(&att.ID); err != nil {
			return err
		}
		att.NoticeID = notice.ID
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateNotice 按 file_id upsert 附件行、重建标签行并更新公告行，整体在一个事务中
func (r *Repository) UpdateNotice(notice *domain.Notice) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := range notice.Attachments {
		query := `
			INSERT INTO attachments (notice_id, file_id, filename, filetype)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (file_id) DO UPDATE
			SET filename = EXCLUDED.filename, filetype = EXCLUDED.filetype
			RETURNING id
		`
		att := &notice.Attachments[i]
		if err := tx.QueryRowContext(ctx, query, notice.ID, att.FileID, att.Filename, att.Filetype).Scan(&att.ID); err != nil {
			return err
		}
		att.NoticeID = notice.ID
	}

	query := `
		DELETE FROM notice_tags WHERE notice_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, notice.ID); err != nil {
		return err
	}

	for _, tag := range notice.Tags {
		query = `
			INSERT INTO notice_tags (notice_id, tag) VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, notice.ID, tag); err != nil {
			return err
		}
	}

	query = `
		UPDATE notices
		SET title = $1, body = $2, is_published = $3, updated_at = now(), version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING updated_at, version
	`
	args := []any{notice.Title, notice.Body, notice.IsPublished, notice.ID, notice.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&notice.UpdatedAt, &notice.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// DeleteNotice 在一个事务中删除公告及其全部子行，
// 返回被删除附件的 file_id 列表，对象存储中的清理由调用方在事务提交之后进行
func (r *Repository) DeleteNotice(id int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		SELECT file_id FROM attachments WHERE notice_id = $1
	`
	rows, err := tx.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fileIDs := make([]string, 0)
	for rows.Next() {
		var fileID string
		if err := rows.Scan(&fileID); err != nil {
			return nil, err
		}
		fileIDs = append(fileIDs, fileID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		DELETE FROM attachments WHERE notice_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return nil, err
	}

	query = `
		DELETE FROM notice_tags WHERE notice_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return nil, err
	}

	query = `
		DELETE FROM notices WHERE id = $1
		RETURNING id
	`
	var deletedID int64
	if err := tx.QueryRowContext(ctx, query, id).Scan(&deletedID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return fileIDs, nil
}

func (r *Repository) ChangeNoticeStatus(id int64, isPublished bool) error {
	query := `
		UPDATE notices
		SET is_published = $2, updated_at = now(), version = version + 1
		WHERE id = $1
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var updatedID int64
	if err := r.dbpool.QueryRowContext(ctx, query, id, isPublished).Scan(&updatedID); err != nil {
		return err
	}

	return nil
}

const noticeWithAdminQuery = `
	SELECT n.id, n.title, n.body, n.is_published, n.admin_id, u.email, n.created_at, n.updated_at, n.version
	FROM notices n
	JOIN users u ON n.admin_id = u.id
`

func scanNotice(dst interface{ Scan(...any) error }, notice *domain.Notice) error {
	return dst.Scan(
		&notice.ID, &notice.Title, &notice.Body, &notice.IsPublished,
		&notice.AdminID, &notice.AdminEmail, &notice.CreatedAt, &notice.UpdatedAt, &notice.Version,
	)
}

// fillNoticeChildren 补全公告的标签和附件
func (r *Repository) fillNoticeChildren(ctx context.Context, notice *domain.Notice) error {
	query := `
		SELECT tag FROM notice_tags WHERE notice_id = $1 ORDER BY tag
	`
	rows, err := r.dbpool.QueryContext(ctx, query, notice.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	notice.Tags = make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return err
		}
		notice.Tags = append(notice.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	query = `
		SELECT id, file_id, filename, filetype FROM attachments WHERE notice_id = $1 ORDER BY id
	`
	attRows, err := r.dbpool.QueryContext(ctx, query, notice.ID)
	if err != nil {
		return err
	}
	defer attRows.Close()

	notice.Attachments = make([]domain.Attachment, 0)
	for attRows.Next() {
		att := domain.Attachment{NoticeID: notice.ID}
		if err := attRows.Scan(&att.ID, &att.FileID, &att.Filename, &att.Filetype); err != nil {
			return err
		}
		notice.Attachments = append(notice.Attachments, att)
	}
	if err := attRows.Err(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetNoticeByID(id int64) (*domain.Notice, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	notice := &domain.Notice{}
	row := r.dbpool.QueryRowContext(ctx, noticeWithAdminQuery+` WHERE n.id = $1`, id)
	if err := scanNotice(row, notice); err != nil {
		return nil, err
	}

	if err := r.fillNoticeChildren(ctx, notice); err != nil {
		return nil, err
	}

	return notice, nil
}

func (r *Repository) queryNoticePage(ctx context.Context, query string, args ...any) ([]*domain.Notice, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notices := make([]*domain.Notice, 0, NoticePageSize)
	for rows.Next() {
		notice := &domain.Notice{}
		if err := scanNotice(rows, notice); err != nil {
			return nil, err
		}
		notices = append(notices, notice)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, notice := range notices {
		if err := r.fillNoticeChildren(ctx, notice); err != nil {
			return nil, err
		}
	}

	return notices, nil
}

// GetPublishedNotices 返回已发布公告的总数和第 pageNo 页（从 1 开始），按创建时间倒序
func (r *Repository) GetPublishedNotices(pageNo int) (int64, []*domain.Notice, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var total int64
	query := `
		SELECT COUNT(*) FROM notices WHERE is_published = TRUE
	`
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, nil, err
	}

	query = noticeWithAdminQuery + `
		WHERE n.is_published = TRUE
		ORDER BY n.created_at DESC
		LIMIT $1 OFFSET $2
	`
	notices, err := r.queryNoticePage(ctx, query, NoticePageSize, (pageNo-1)*NoticePageSize)
	if err != nil {
		return 0, nil, err
	}

	return total, notices, nil
}

// GetNoticesByAdmin 返回某个管理员自己的公告（含未发布），按更新时间倒序
func (r *Repository) GetNoticesByAdmin(adminID int64, pageNo int) (int64, []*domain.Notice, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var total int64
	query := `
		SELECT COUNT(*) FROM notices WHERE admin_id = $1
	`
	if err := r.dbpool.QueryRowContext(ctx, query, adminID).Scan(&total); err != nil {
		return 0, nil, err
	}

	query = noticeWithAdminQuery + `
		WHERE n.admin_id = $1
		ORDER BY n.updated_at DESC
		LIMIT $2 OFFSET $3
	`
	notices, err := r.queryNoticePage(ctx, query, adminID, NoticePageSize, (pageNo-1)*NoticePageSize)
	if err != nil {
		return 0, nil, err
	}

	return total, notices, nil
}

// SearchNoticesByTitle 对标题做与搜索词相同的规范化之后做不区分大小写的中缀匹配，
// 返回全部匹配结果（不分页）
func (r *Repository) SearchNoticesByTitle(sanitizedText string) ([]*domain.Notice, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := noticeWithAdminQuery + `
		WHERE n.is_published = TRUE
		  AND regexp_replace(n.title, '[^a-zA-Z0-9]', '', 'g') ILIKE '%' || $1 || '%'
		ORDER BY n.created_at DESC
	`
	return r.queryNoticePage(ctx, query, sanitizedText)
}
