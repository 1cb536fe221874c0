package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ait-csi/notice-board/backend/internal/domain"
)

func (r *Repository) CreateUser(user *domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO users (email, password_hash, name, phone, role, status, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	args := []any{user.Email, user.PasswordHash, user.Name, user.Phone, user.Role, user.Status, user.EmailVerified}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.Version); err != nil {
		return err
	}

	return nil
}

// scanUserWithProfiles 解析带有两张档案表 LEFT JOIN 的一行用户数据
func scanUserWithProfiles(row *sql.Row, user *domain.User) error {
	var (
		branch             sql.NullString
		registrationNumber sql.NullInt64
		year               sql.NullString
		designation        sql.NullString
		adminPhone         sql.NullString
	)

	dst := []any{
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Phone,
		&user.Role, &user.Status, &user.EmailVerified, &user.CreatedAt, &user.Version,
		&branch, &registrationNumber, &year,
		&designation, &adminPhone,
	}
	if err := row.Scan(dst...); err != nil {
		return err
	}

	if branch.Valid {
		user.StudentProfile = &domain.StudentProfile{
			Branch:             branch.String,
			RegistrationNumber: registrationNumber.Int64,
			Year:               year.String,
		}
	}
	if designation.Valid {
		user.AdminProfile = &domain.AdminProfile{
			Designation: designation.String,
			Phone:       adminPhone.String,
		}
	}

	return nil
}

const userWithProfilesQuery = `
	SELECT
		u.id, u.email, u.password_hash, u.name, u.phone,
		u.role, u.status, u.email_verified, u.created_at, u.version,
		sp.branch, sp.registration_number, sp.year,
		ap.designation, ap.phone
	FROM users u
	LEFT JOIN student_profiles sp ON u.id = sp.user_id
	LEFT JOIN admin_profiles ap ON u.id = ap.user_id
`

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{}
	row := r.dbpool.QueryRowContext(ctx, userWithProfilesQuery+` WHERE u.id = $1`, id)
	if err := scanUserWithProfiles(row, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByEmail(email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{}
	row := r.dbpool.QueryRowContext(ctx, userWithProfilesQuery+` WHERE u.email = $1`, email)
	if err := scanUserWithProfiles(row, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetAllUsers() ([]*domain.User, error) {
	query := `
		SELECT id, email, name, phone, role, status, email_verified, created_at, version FROM users
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		dst := []any{&user.ID, &user.Email, &user.Name, &user.Phone, &user.Role, &user.Status, &user.EmailVerified, &user.CreatedAt, &user.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) UpdateUser(user *domain.User) error {
	query := `
		UPDATE users
		SET
			password_hash = $1,
			name = $2,
			phone = $3,
			role = $4,
			status = $5,
			email_verified = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING email, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{user.PasswordHash, user.Name, user.Phone, user.Role, user.Status, user.EmailVerified, user.ID, user.Version}
	dst := []any{&user.Email, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteUser(id int64) error {
	query := `
		DELETE FROM users WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

// MarkEmailVerified 只翻转 email_verified 标志，用户状态的流转发生在 onboarding
func (r *Repository) MarkEmailVerified(email string) error {
	query := `
		UPDATE users SET email_verified = TRUE WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, email)
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

// onboardProfileQueries 返回本次 onboarding 需要执行的档案语句：
// 先删除与当前角色不匹配的档案行（角色变更后重新 onboarding 时可能残留），
// 再 upsert 匹配的档案行，保证每个用户至多只有一种档案
func onboardProfileQueries(user *domain.User) (cleanupQuery string, upsertQuery string, upsertArgs []any) {
	switch {
	case user.StudentProfile != nil:
		sp := user.StudentProfile
		cleanupQuery = `
			DELETE FROM admin_profiles WHERE user_id = $1
		`
		upsertQuery = `
			INSERT INTO student_profiles (user_id, branch, registration_number, year)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE
			SET branch = EXCLUDED.branch, registration_number = EXCLUDED.registration_number, year = EXCLUDED.year
		`
		upsertArgs = []any{user.ID, sp.Branch, sp.RegistrationNumber, sp.Year}
	case user.AdminProfile != nil:
		ap := user.AdminProfile
		cleanupQuery = `
			DELETE FROM student_profiles WHERE user_id = $1
		`
		upsertQuery = `
			INSERT INTO admin_profiles (user_id, designation, phone)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO UPDATE
			SET designation = EXCLUDED.designation, phone = EXCLUDED.phone
		`
		upsertArgs = []any{user.ID, ap.Designation, ap.Phone}
	}

	return cleanupQuery, upsertQuery, upsertArgs
}

// OnboardUser 在同一个事务中更新用户基本信息和状态，并 upsert 对应的档案行。
// upsert 保证了重复调用不会产生重复的档案。
func (r *Repository) OnboardUser(user *domain.User) error {
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
		UPDATE users
		SET name = $1, phone = $2, status = $3, version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`
	args := []any{user.Name, user.Phone, user.Status, user.ID, user.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&user.Version); err != nil {
		return err
	}

	cleanupQuery, upsertQuery, upsertArgs := onboardProfileQueries(user)
	if cleanupQuery != "" {
		if _, err := tx.ExecContext(ctx, cleanupQuery, user.ID); err != nil {
			return err
		}
	}
	if upsertQuery != "" {
		if _, err := tx.ExecContext(ctx, upsertQuery, upsertArgs...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
