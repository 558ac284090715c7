package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dom "tasks/internal/domain"
)

func newTestCache(t *testing.T) (*TaskCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTaskCache(client, time.Minute), mr
}

func TestTaskListsMissThenHit(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	got, err := c.GetTaskLists(ctx)
	if err != nil || got != nil {
		t.Fatalf("miss: %v %v", got, err)
	}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	listID := uuid.New()
	want := []dom.TaskList{{
		ID: listID, Title: "l", Created: now, Updated: now,
		Tasks: []dom.Task{{ID: uuid.New(), Title: "t", Status: dom.TaskStatusOpen, Priority: dom.TaskPriorityLow, TaskListID: listID}},
	}}
	if err := c.SetTaskLists(ctx, 0, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL(keyTaskLists); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}

	got, err = c.GetTaskLists(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].ID != listID || len(got[0].Tasks) != 1 ||
		got[0].Tasks[0].Priority != dom.TaskPriorityLow || !got[0].Created.Equal(now) {
		t.Fatalf("unexpected listing: %+v", got)
	}
}

func TestEmptyListingIsAHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	listID := uuid.New()

	if err := c.SetTasks(ctx, 0, listID, nil); err != nil {
		t.Fatal(err)
	}
	got, err := c.GetTasks(ctx, listID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestCorruptEntryIsDropped(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	listID := uuid.New()
	if err := mr.Set(tasksKey(listID), "{not json"); err != nil {
		t.Fatal(err)
	}

	if _, err := c.GetTasks(ctx, listID); err == nil {
		t.Fatal("expected decode error")
	}
	if mr.Exists(tasksKey(listID)) {
		t.Fatal("corrupt entry not deleted")
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	a, b := uuid.New(), uuid.New()
	_ = c.SetTaskLists(ctx, 0, []dom.TaskList{})
	_ = c.SetTasks(ctx, 0, a, []dom.Task{})
	_ = c.SetTasks(ctx, 0, b, []dom.Task{})

	if err := c.Invalidate(ctx, a); err != nil {
		t.Fatal(err)
	}
	if mr.Exists(keyTaskLists) || mr.Exists(tasksKey(a)) {
		t.Fatal("entries for a not dropped")
	}
	if !mr.Exists(tasksKey(b)) {
		t.Fatal("entry for b dropped")
	}
}

func TestSetSkipsWriteAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	listID := uuid.New()

	gen, err := c.Generation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// a mutation commits and invalidates while the listing is being loaded
	if err := c.Invalidate(ctx, listID); err != nil {
		t.Fatal(err)
	}
	if err := c.SetTasks(ctx, gen, listID, []dom.Task{}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if mr.Exists(tasksKey(listID)) {
		t.Fatal("listing loaded before the invalidation was written back")
	}

	next, err := c.Generation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if next != gen+1 {
		t.Fatalf("generation: got %d want %d", next, gen+1)
	}
	if err := c.SetTasks(ctx, next, listID, []dom.Task{}); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists(tasksKey(listID)) {
		t.Fatal("current generation was not written")
	}
}
