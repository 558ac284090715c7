package repo

import (
	"context"

	"github.com/google/uuid"

	dom "tasks/internal/domain"
)

const taskColumns = `id, title, description, due_date, status, priority, task_list_id, created, updated`

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db   DBTX
	lock bool
}

func NewPGTaskRepo(db DBTX) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) FindByTaskListID(ctx context.Context, taskListID uuid.UUID) ([]dom.Task, error) {
	return queryTasks(ctx, r.db, `
		SELECT `+taskColumns+`
		FROM tasks WHERE task_list_id = $1 ORDER BY created, id`, taskListID)
}

func (r *PGTaskRepo) FindByTaskListIDAndID(ctx context.Context, taskListID, id uuid.UUID) (dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE task_list_id = $1 AND id = $2`
	if r.lock {
		query += ` FOR UPDATE`
	}
	t, err := scanTask(r.db.QueryRow(ctx, query, taskListID, id))
	if err != nil {
		return dom.Task{}, translate(err)
	}
	return t, nil
}

func (r *PGTaskRepo) Save(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description, due_date = EXCLUDED.due_date,
			status = EXCLUDED.status, priority = EXCLUDED.priority, updated = EXCLUDED.updated
		RETURNING ` + taskColumns
	out, err := scanTask(r.db.QueryRow(ctx, query,
		t.ID, t.Title, t.Description, t.DueDate, string(t.Status), string(t.Priority),
		t.TaskListID, t.Created, t.Updated,
	))
	if err != nil {
		return dom.Task{}, translate(err)
	}
	return out, nil
}

func (r *PGTaskRepo) Delete(ctx context.Context, taskListID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE task_list_id = $1 AND id = $2`, taskListID, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGTaskRepo) DeleteByTaskListID(ctx context.Context, taskListID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE task_list_id = $1`, taskListID)
	return translate(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (dom.Task, error) {
	var (
		t                dom.Task
		status, priority string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &status, &priority,
		&t.TaskListID, &t.Created, &t.Updated)
	if err != nil {
		return dom.Task{}, err
	}
	t.Status = dom.TaskStatus(status)
	t.Priority = dom.TaskPriority(priority)
	return t, nil
}

func queryTasks(ctx context.Context, db DBTX, query string, args ...any) ([]dom.Task, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
