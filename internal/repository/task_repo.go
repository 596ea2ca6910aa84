package repository

import (
	"context"
	"encoding/json"
	"errors"

	"task_manager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no task row matches.
var ErrNotFound = errors.New("task not found")

const taskColumns = `id::text, user_id::text, title, is_completed, inserted_at`

// TaskRepository reads and writes the tasks table. Owner-scoped calls
// (List, Create) run as rlsRole with the owner as the JWT subject so the
// table's row-level policies apply. The rest run as the pool's own role.
type TaskRepository struct {
	db      *pgxpool.Pool
	rlsRole string
}

func NewTaskRepository(db *pgxpool.Pool, rlsRole string) *TaskRepository {
	return &TaskRepository{db: db, rlsRole: rlsRole}
}

// asOwner runs fn in a transaction scoped to ownerID.
func (r *TaskRepository) asOwner(ctx context.Context, ownerID string, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if r.rlsRole != "" {
			claims, err := json.Marshal(map[string]string{"sub": ownerID, "role": r.rlsRole})
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`SELECT set_config('request.jwt.claims', $1, true), set_config('role', $2, true)`,
				string(claims), r.rlsRole,
			); err != nil {
				return err
			}
		}
		return fn(tx)
	})
}

func (r *TaskRepository) List(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	res := make([]*domain.Task, 0)
	err := r.asOwner(ctx, ownerID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY inserted_at DESC, id DESC`,
			ownerID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			res = append(res, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Create inserts t and fills in the server-assigned columns.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.asOwner(ctx, t.UserID, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO tasks (user_id, title, is_completed) VALUES ($1, $2, $3) RETURNING `+taskColumns,
			t.UserID, t.Title, t.IsCompleted,
		)
		created, err := scanTask(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		*t = *created
		return nil
	})
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// SetCompleted returns ErrNotFound when no row was updated.
func (r *TaskRepository) SetCompleted(ctx context.Context, id string, completed bool) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks SET is_completed = $1 WHERE id = $2 RETURNING `+taskColumns,
		completed, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete is a no-op for ids that do not exist.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.IsCompleted, &t.InsertedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
