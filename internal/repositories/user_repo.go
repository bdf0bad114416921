package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"userapi/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const usersTable = "users"

// Database is the subset of *pgxpool.Pool the repositories need.
// pgxmock.PgxPoolIface satisfies it as well.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Ping(ctx context.Context) error
}

type UserRepository interface {
	EnsureSchema(ctx context.Context) error
	List(ctx context.Context) ([]*models.User, error)
	GetByUUID(ctx context.Context, uuid string) (*models.User, error)
	Create(ctx context.Context, args models.UserArgs) (*models.User, error)
	Update(ctx context.Context, uuid string, args models.UserArgs) (*models.User, error)
	Delete(ctx context.Context, uuid string) (before, after *models.User, err error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const createUsersTable = `
	CREATE TABLE IF NOT EXISTS users (
		pid BIGSERIAL PRIMARY KEY,
		uuid VARCHAR(56) UNIQUE DEFAULT NULL,
		username VARCHAR(255) UNIQUE DEFAULT NULL,
		name VARCHAR(255) DEFAULT NULL,
		email VARCHAR(255) UNIQUE DEFAULT NULL,
		sms VARCHAR(25) UNIQUE DEFAULT NULL,
		created TIMESTAMPTZ DEFAULT NOW(),
		lastseen TIMESTAMPTZ DEFAULT NULL
	)
`

const userColumns = `pid, uuid, username, name, email, sms, created, lastseen`

// EnsureSchema creates the users table if it does not exist yet.
func (r *userRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createUsersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// ComputeUUID hashes the email, or the sms number when no email is given,
// into the 56 character hex identifier used as the external user key.
func ComputeUUID(args models.UserArgs) (string, error) {
	_, value, ok := identityValue(args)
	if !ok {
		return "", ErrInvalidInput
	}
	sum := sha256.Sum224([]byte(value))
	return hex.EncodeToString(sum[:]), nil
}

// identityValue picks the field the uuid is derived from.
func identityValue(args models.UserArgs) (field, value string, ok bool) {
	if args.Email != nil && *args.Email != "" {
		return "email", *args.Email, true
	}
	if args.SMS != nil && *args.SMS != "" {
		return "sms", *args.SMS, true
	}
	return "", "", false
}

func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY pid`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		if err := scanUser(rows, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByUUID returns nil, nil when no user has the given uuid.
func (r *userRepo) GetByUUID(ctx context.Context, uuid string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uuid = $1`
	user := &models.User{}
	err := scanUser(r.db.QueryRow(ctx, query, uuid), user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, args models.UserArgs) (*models.User, error) {
	args = args.Compact()
	uuid, err := ComputeUUID(args)
	if err != nil {
		return nil, err
	}

	identityField, identity, _ := identityValue(args)
	username := args.Username
	if username == nil {
		username = &identity
	}

	query := `
		INSERT INTO users (uuid, username, name, email, sms)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.Exec(ctx, query, uuid, username, args.Name, args.Email, args.SMS); err != nil {
		err = translateError(err)
		// a uuid collision means the email or sms it was hashed from is taken
		var conflict *ConflictError
		if errors.As(err, &conflict) && conflict.Field == "uuid" {
			conflict.Field = identityField
		}
		return nil, err
	}

	user, err := r.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found after insert", uuid)
	}
	return user, nil
}

// Update returns nil, nil when no user has the given uuid. The read and the
// write are separate statements, so concurrent writers to the same uuid race.
func (r *userRepo) Update(ctx context.Context, uuid string, args models.UserArgs) (*models.User, error) {
	existing, err := r.GetByUUID(ctx, uuid)
	if err != nil || existing == nil {
		return nil, err
	}

	updated := models.MergeUser(existing, args.Compact())

	query := `
		UPDATE users
		SET username = $1, name = $2, email = $3, sms = $4
		WHERE uuid = $5
	`
	if _, err := r.db.Exec(ctx, query, updated.Username, updated.Name, updated.Email, updated.SMS, updated.UUID); err != nil {
		return nil, translateError(err)
	}
	return updated, nil
}

// Delete reports the user as it was before and after the delete statement so
// callers can tell "nothing to delete" apart from "delete did not take".
func (r *userRepo) Delete(ctx context.Context, uuid string) (*models.User, *models.User, error) {
	before, err := r.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, nil, err
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM users WHERE uuid = $1`, uuid); err != nil {
		return before, nil, err
	}

	after, err := r.GetByUUID(ctx, uuid)
	if err != nil {
		return before, nil, err
	}
	return before, after, nil
}

func scanUser(row pgx.Row, user *models.User) error {
	return row.Scan(&user.PID, &user.UUID, &user.Username, &user.Name, &user.Email, &user.SMS, &user.Created, &user.LastSeen)
}
