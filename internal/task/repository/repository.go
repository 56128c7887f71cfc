package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/taskcrate/backend/internal/task/domain"
	userdomain "github.com/taskcrate/backend/internal/user/domain"
)

var ErrTaskNotFound = errors.New("task not found")

type Repository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	FindByID(ctx context.Context, id domain.ID) (domain.Task, error)
	ListAll(ctx context.Context) ([]domain.Task, error)
	ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Task, error)
	Update(ctx context.Context, id domain.ID, patch domain.Patch) (domain.Task, error)
	Delete(ctx context.Context, id domain.ID) (domain.Task, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const taskColumns = `id, title, description, due_date, completed, user_id`

func (r *PgRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO tasks (title, description, due_date, completed, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+taskColumns,
		task.Title,
		task.Description,
		task.DueDate,
		task.Completed,
		int64(task.OwnerID),
	)

	created, err := scanTask(row)
	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Task, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`,
		int64(id),
	)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("failed to find task by id: %w", err)
	}
	return task, nil
}

func (r *PgRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Task, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY id ASC`,
		int64(ownerID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by owner: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// Update writes only the fields present in the patch; absent fields
// keep their stored values. An empty patch is a plain read.
func (r *PgRepository) Update(ctx context.Context, id domain.ID, patch domain.Patch) (domain.Task, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		appendSet("title", *patch.Title)
	}
	if patch.Description != nil {
		appendSet("description", *patch.Description)
	}
	if patch.DueDate != nil {
		appendSet("due_date", *patch.DueDate)
	}
	if patch.Completed != nil {
		appendSet("completed", *patch.Completed)
	}

	args = append(args, int64(id))
	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "),
		len(args),
		taskColumns,
	)

	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) (domain.Task, error) {
	row := r.pool.QueryRow(
		ctx,
		`DELETE FROM tasks WHERE id = $1 RETURNING `+taskColumns,
		int64(id),
	)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("failed to delete task: %w", err)
	}
	return task, nil
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		task    domain.Task
		id      int64
		ownerID int64
	)
	if err := row.Scan(&id, &task.Title, &task.Description, &task.DueDate, &task.Completed, &ownerID); err != nil {
		return domain.Task{}, err
	}
	task.ID = domain.ID(id)
	task.OwnerID = userdomain.ID(ownerID)
	return task, nil
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return tasks, nil
}
