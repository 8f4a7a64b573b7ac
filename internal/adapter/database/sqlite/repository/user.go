package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"eventsapp/internal/adapter/database/sqlite"
	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/query"
)

var userColumns = []string{"id", "name", "email", "age", "role", "created_at", "password_changed_at"}

type UserRepository struct {
	db *sqlite.DB
}

func NewUserRepository(db *sqlite.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	stmt, args, err := ur.db.QueryBuilder.Insert("users").
		Columns("name", "email", "age", "role", "encrypted_password", "created_at").
		Values(user.Name, user.Email, user.Age, user.Role, user.EncryptedPassword, user.CreatedAt).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error creating user", "error", err)
		return domain.User{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.User{}, err
	}

	return ur.GetByID(ctx, int(id))
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	stmt, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"is_deleted": false}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return ur.scanOne(ctx, userColumns, stmt, args)
}

func (ur *UserRepository) Find(ctx context.Context, criteria query.Criteria) ([]domain.User, error) {
	columns := criteria.SelectColumns(userColumns)

	builder := ur.db.QueryBuilder.Select(columns...).
		From("users").
		Where(sq.Eq{"is_deleted": false})

	stmt, args, err := criteria.Apply(builder).ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error fetching users", "error", err)
		return nil, err
	}

	defer rows.Close()

	data := []domain.User{}

	for rows.Next() {
		user, err := scanUser(columns, rows.Scan)

		if err != nil {
			return nil, err
		}

		data = append(data, user)
	}

	return data, rows.Err()
}

func (ur *UserRepository) UpdateByID(ctx context.Context, id int, patch map[string]any) (domain.User, error) {
	stmt, args, err := ur.db.QueryBuilder.Update("users").
		SetMap(patch).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"is_deleted": false}).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error updating user", "error", err)
		return domain.User{}, err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.User{}, sql.ErrNoRows
	}

	return ur.GetByID(ctx, id)
}

// DeleteByID is logical for users: the record is flagged, never removed.
func (ur *UserRepository) DeleteByID(ctx context.Context, id int) error {
	return ur.SoftDelete(ctx, id)
}

func (ur *UserRepository) SoftDelete(ctx context.Context, id int) error {
	stmt, args, err := ur.db.QueryBuilder.Update("users").
		Set("is_deleted", true).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"is_deleted": false}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (ur *UserRepository) GetByEmailWithPassword(ctx context.Context, email string) (domain.User, error) {
	columns := append(append([]string{}, userColumns...), "encrypted_password")

	stmt, args, err := ur.db.QueryBuilder.Select(columns...).
		From("users").
		Where(sq.Eq{"email": email}).
		Where(sq.Eq{"is_deleted": false}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return ur.scanOne(ctx, columns, stmt, args)
}

func (ur *UserRepository) GetByIDWithPassword(ctx context.Context, id int) (domain.User, error) {
	columns := append(append([]string{}, userColumns...), "encrypted_password")

	stmt, args, err := ur.db.QueryBuilder.Select(columns...).
		From("users").
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"is_deleted": false}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return ur.scanOne(ctx, columns, stmt, args)
}

func (ur *UserRepository) UpdatePassword(ctx context.Context, id int, hash string, changedAt time.Time) error {
	stmt, args, err := ur.db.QueryBuilder.Update("users").
		Set("encrypted_password", hash).
		Set("password_changed_at", changedAt).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"is_deleted": false}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (ur *UserRepository) AggregateAges(ctx context.Context, minAge int) (domain.AgeStats, error) {
	stmt, args, err := ur.db.QueryBuilder.
		Select("COUNT(*)", "COALESCE(AVG(age), 0)", "COALESCE(MAX(age), 0)", "COALESCE(MIN(age), 0)").
		From("users").
		Where(sq.Gt{"age": minAge}).
		Where(sq.Eq{"is_deleted": false}).
		ToSql()

	if err != nil {
		return domain.AgeStats{}, err
	}

	var stats domain.AgeStats

	err = ur.db.QueryRowContext(ctx, stmt, args...).
		Scan(&stats.TotalUsers, &stats.AvgAge, &stats.MaxAge, &stats.MinAge)

	if err != nil {
		slog.Error("Error aggregating user ages", "error", err)
		return domain.AgeStats{}, err
	}

	return stats, nil
}

func (ur *UserRepository) scanOne(ctx context.Context, columns []string, stmt string, args []any) (domain.User, error) {
	row := ur.db.QueryRowContext(ctx, stmt, args...)

	user, err := scanUser(columns, row.Scan)

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// scanUser builds scan targets for the selected column subset, so field
// selection and full reads share one code path.
func scanUser(columns []string, scan func(...any) error) (domain.User, error) {
	var user domain.User
	var changedAt sql.NullTime

	targets := make([]any, len(columns))

	for i, column := range columns {
		switch column {
		case "id":
			targets[i] = &user.ID
		case "name":
			targets[i] = &user.Name
		case "email":
			targets[i] = &user.Email
		case "age":
			targets[i] = &user.Age
		case "role":
			targets[i] = &user.Role
		case "created_at":
			targets[i] = &user.CreatedAt
		case "password_changed_at":
			targets[i] = &changedAt
		case "encrypted_password":
			targets[i] = &user.EncryptedPassword
		default:
			targets[i] = new(any)
		}
	}

	if err := scan(targets...); err != nil {
		return domain.User{}, err
	}

	if changedAt.Valid {
		user.PasswordChangedAt = &changedAt.Time
	}

	return user, nil
}
