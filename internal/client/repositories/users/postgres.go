package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hospitaladmin/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, username, password, email, role, is_active, created_at, last_login`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE username = $1
		 `

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, mapPgError(err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query :=
		`INSERT INTO users (username, password, email, role, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Username, user.Password, nullString(user.Email), user.Role, user.IsActive))
	if err != nil {
		return nil, mapPgError(err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch Patch) (*User, error) {
	sets, args := patch.assignments()
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE users SET %s
		 WHERE id = $%d
		 RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	updated, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapPgError(err)
	}
	return updated, nil
}

func (r *PostgresRepository) Probe(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users LIMIT 1`)
	if err != nil {
		return mapPgError(err)
	}
	defer rows.Close()

	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return mapPgError(err)
	}
	return nil
}

// assignments renders the set fields as "col = $n" pairs in a fixed order.
func (p Patch) assignments() ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Username != nil {
		add("username", *p.Username)
	}
	if p.Email != nil {
		add("email", nullString(*p.Email))
	}
	if p.Role != nil {
		add("role", *p.Role)
	}
	if p.Password != nil {
		add("password", *p.Password)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	if p.LastLogin != nil {
		add("last_login", *p.LastLogin)
	}
	return sets, args
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u         User
		email     sql.NullString
		active    sql.NullBool
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Password, &email, &u.Role, &active, &u.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	// NULL is_active counts as active
	u.IsActive = !active.Valid || active.Bool
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func mapPgError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if normalized := errorForCode(pgErr.Code); normalized != nil {
			return fmt.Errorf("db error: %w: %w", normalized, err)
		}
		remote := &RemoteError{Code: pgErr.Code, Message: pgErr.Message}
		return fmt.Errorf("db error: %w: %w", remote, err)
	}
	return fmt.Errorf("db error: %w", err)
}
