package repo

import (
	"context"

	"github.com/google/uuid"

	dom "tasks/internal/domain"
)

// PGTaskListRepo implements TaskListRepo with Postgres.
// Inside a transaction single-row lookups take a row lock.
type PGTaskListRepo struct {
	db   DBTX
	lock bool
}

func NewPGTaskListRepo(db DBTX) *PGTaskListRepo {
	return &PGTaskListRepo{db: db}
}

func (r *PGTaskListRepo) FindAll(ctx context.Context) ([]dom.TaskList, error) {
	query := `
		SELECT id, title, description, created, updated
		FROM task_lists ORDER BY created, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.TaskList
	for rows.Next() {
		var l dom.TaskList
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.Created, &l.Updated); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tasks, err := queryTasks(ctx, r.db, `
		SELECT `+taskColumns+`
		FROM tasks ORDER BY created, id`)
	if err != nil {
		return nil, err
	}
	byList := make(map[uuid.UUID][]dom.Task, len(list))
	for _, t := range tasks {
		byList[t.TaskListID] = append(byList[t.TaskListID], t)
	}
	for i := range list {
		list[i].Tasks = byList[list[i].ID]
	}
	return list, nil
}

func (r *PGTaskListRepo) FindByID(ctx context.Context, id uuid.UUID) (dom.TaskList, error) {
	query := `
		SELECT id, title, description, created, updated
		FROM task_lists WHERE id = $1`
	if r.lock {
		query += ` FOR UPDATE`
	}
	var l dom.TaskList
	err := r.db.QueryRow(ctx, query, id).Scan(&l.ID, &l.Title, &l.Description, &l.Created, &l.Updated)
	if err != nil {
		return dom.TaskList{}, translate(err)
	}
	l.Tasks, err = queryTasks(ctx, r.db, `
		SELECT `+taskColumns+`
		FROM tasks WHERE task_list_id = $1 ORDER BY created, id`, id)
	if err != nil {
		return dom.TaskList{}, err
	}
	return l, nil
}

func (r *PGTaskListRepo) Save(ctx context.Context, l dom.TaskList) (dom.TaskList, error) {
	query := `
		INSERT INTO task_lists (id, title, description, created, updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description, updated = EXCLUDED.updated
		RETURNING id, title, description, created, updated`
	out := dom.TaskList{Tasks: l.Tasks}
	err := r.db.QueryRow(ctx, query, l.ID, l.Title, l.Description, l.Created, l.Updated).Scan(
		&out.ID, &out.Title, &out.Description, &out.Created, &out.Updated,
	)
	if err != nil {
		return dom.TaskList{}, translate(err)
	}
	return out, nil
}

func (r *PGTaskListRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM task_lists WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
