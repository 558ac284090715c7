package repo

import (
	"context"
	"sync"

	"github.com/google/uuid"

	dom "tasks/internal/domain"
)

// MemStore implements Store in process memory. Transactions are serialized
// and roll back to a snapshot on failure. It enforces the task -> list
// reference the same way the Postgres schema does.
type MemStore struct {
	mu   *sync.Mutex
	data *memData
	inTx bool
}

type memData struct {
	lists     map[uuid.UUID]dom.TaskList
	listOrder []uuid.UUID
	tasks     map[uuid.UUID]dom.Task
	taskOrder []uuid.UUID
}

func NewMemStore() *MemStore {
	return &MemStore{
		mu: &sync.Mutex{},
		data: &memData{
			lists: make(map[uuid.UUID]dom.TaskList),
			tasks: make(map[uuid.UUID]dom.Task),
		},
	}
}

func (s *MemStore) TaskLists() TaskListRepo { return memTaskLists{s} }

func (s *MemStore) Tasks() TaskRepo { return memTasks{s} }

func (s *MemStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	err := fn(&MemStore{mu: s.mu, data: s.data, inTx: true})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		*s.data = snapshot
		return err
	}
	return nil
}

// with runs fn under the store lock unless the caller already holds it through InTx.
func (s *MemStore) with(fn func(d *memData) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.data)
}

func (d *memData) clone() memData {
	out := memData{
		lists:     make(map[uuid.UUID]dom.TaskList, len(d.lists)),
		listOrder: append([]uuid.UUID(nil), d.listOrder...),
		tasks:     make(map[uuid.UUID]dom.Task, len(d.tasks)),
		taskOrder: append([]uuid.UUID(nil), d.taskOrder...),
	}
	for k, v := range d.lists {
		out.lists[k] = v
	}
	for k, v := range d.tasks {
		out.tasks[k] = v
	}
	return out
}

func (d *memData) tasksOf(listID uuid.UUID) []dom.Task {
	var out []dom.Task
	for _, id := range d.taskOrder {
		if t := d.tasks[id]; t.TaskListID == listID {
			out = append(out, t)
		}
	}
	return out
}

func (d *memData) removeTask(id uuid.UUID) {
	delete(d.tasks, id)
	d.taskOrder = without(d.taskOrder, id)
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type memTaskLists struct{ s *MemStore }

func (r memTaskLists) FindAll(ctx context.Context) ([]dom.TaskList, error) {
	var out []dom.TaskList
	err := r.s.with(func(d *memData) error {
		for _, id := range d.listOrder {
			l := d.lists[id]
			l.Tasks = d.tasksOf(id)
			out = append(out, l)
		}
		return nil
	})
	return out, err
}

func (r memTaskLists) FindByID(ctx context.Context, id uuid.UUID) (dom.TaskList, error) {
	var out dom.TaskList
	err := r.s.with(func(d *memData) error {
		l, ok := d.lists[id]
		if !ok {
			return ErrNotFound
		}
		l.Tasks = d.tasksOf(id)
		out = l
		return nil
	})
	return out, err
}

func (r memTaskLists) Save(ctx context.Context, l dom.TaskList) (dom.TaskList, error) {
	err := r.s.with(func(d *memData) error {
		stored, ok := d.lists[l.ID]
		if !ok {
			d.listOrder = append(d.listOrder, l.ID)
			stored = dom.TaskList{ID: l.ID, Created: l.Created}
		}
		stored.Title = l.Title
		stored.Description = l.Description
		stored.Updated = l.Updated
		stored.Tasks = nil
		d.lists[l.ID] = stored
		return nil
	})
	if err != nil {
		return dom.TaskList{}, err
	}
	return l, nil
}

func (r memTaskLists) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.with(func(d *memData) error {
		if _, ok := d.lists[id]; !ok {
			return ErrNotFound
		}
		for _, t := range d.tasksOf(id) {
			d.removeTask(t.ID)
		}
		delete(d.lists, id)
		d.listOrder = without(d.listOrder, id)
		return nil
	})
}

type memTasks struct{ s *MemStore }

func (r memTasks) FindByTaskListID(ctx context.Context, taskListID uuid.UUID) ([]dom.Task, error) {
	var out []dom.Task
	err := r.s.with(func(d *memData) error {
		out = d.tasksOf(taskListID)
		return nil
	})
	return out, err
}

func (r memTasks) FindByTaskListIDAndID(ctx context.Context, taskListID, id uuid.UUID) (dom.Task, error) {
	var out dom.Task
	err := r.s.with(func(d *memData) error {
		t, ok := d.tasks[id]
		if !ok || t.TaskListID != taskListID {
			return ErrNotFound
		}
		out = t
		return nil
	})
	return out, err
}

func (r memTasks) Save(ctx context.Context, t dom.Task) (dom.Task, error) {
	var out dom.Task
	err := r.s.with(func(d *memData) error {
		stored, ok := d.tasks[t.ID]
		if !ok {
			if _, listOK := d.lists[t.TaskListID]; !listOK {
				return ErrForeignKey
			}
			d.taskOrder = append(d.taskOrder, t.ID)
			d.tasks[t.ID] = t
			out = t
			return nil
		}
		// owner and creation time are fixed once inserted
		t.TaskListID = stored.TaskListID
		t.Created = stored.Created
		d.tasks[t.ID] = t
		out = t
		return nil
	})
	return out, err
}

func (r memTasks) Delete(ctx context.Context, taskListID, id uuid.UUID) error {
	return r.s.with(func(d *memData) error {
		t, ok := d.tasks[id]
		if !ok || t.TaskListID != taskListID {
			return ErrNotFound
		}
		d.removeTask(id)
		return nil
	})
}

func (r memTasks) DeleteByTaskListID(ctx context.Context, taskListID uuid.UUID) error {
	return r.s.with(func(d *memData) error {
		for _, t := range d.tasksOf(taskListID) {
			d.removeTask(t.ID)
		}
		return nil
	})
}
