package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mentorflow/mentorflow/internal/domain"
)

const profileColumns = `id, email, password_hash, name, role, avatar, specialty, course_year, created_at, version`

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*domain.User, error) {
	var (
		user       domain.User
		role       domain.Role
		specialty  string
		courseYear string
	)

	dst := []any{&user.ID, &user.Email, &user.PasswordHash, &user.Name, &role, &user.Avatar, &specialty, &courseYear, &user.CreatedAt, &user.Version}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	user.Profile = domain.NewRoleProfile(role, specialty, courseYear)
	return &user, nil
}

func (r *Repository) GetProfileByID(id string) (*domain.User, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanProfile(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetProfileByEmail(email string) (*domain.User, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanProfile(r.dbpool.QueryRowContext(ctx, query, email))
}

// GetAllProfiles lists profiles ordered by name. An empty role lists everyone.
func (r *Repository) GetAllProfiles(role domain.Role) ([]*domain.User, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE ($1 = '' OR role = $1) ORDER BY name`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) CreateProfile(user *domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO profiles (id, email, password_hash, name, role, avatar, specialty, course_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, version
	`

	user.ID = uuid.NewString()
	args := []any{user.ID, user.Email, user.PasswordHash, user.Name, user.Role(), user.Avatar, user.Specialty(), user.CourseYear()}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.CreatedAt, &user.Version); err != nil {
		return err
	}

	return nil
}

// UpdateProfile writes the metadata columns of user. The version check makes a concurrent
// edit surface as sql.ErrNoRows.
func (r *Repository) UpdateProfile(user *domain.User) error {
	query := `
		UPDATE profiles
		SET
			name = $1,
			avatar = $2,
			specialty = $3,
			course_year = $4,
			password_hash = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING email, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{user.Name, user.Avatar, user.Specialty(), user.CourseYear(), user.PasswordHash, user.ID, user.Version}
	dst := []any{&user.Email, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteProfile(id string) error {
	query := `
		DELETE FROM profiles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM profiles WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

// expectAffected turns a statement that touched nothing into sql.ErrNoRows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
