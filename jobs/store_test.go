package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mediaengine/types"
)

func TestMemoryStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	if err := s.Save(ctx, types.Job{ID: "a", State: types.JobQueued}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", first)
	}

	if err := s.Save(ctx, types.Job{ID: "a", State: types.JobSucceeded}); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	updated, _ := s.Get(ctx, "a")
	if updated.State != types.JobSucceeded {
		t.Errorf("state = %s", updated.State)
	}
	if !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on update")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
	if err := s.Save(ctx, types.Job{}); err == nil {
		t.Fatal("expected an error for an empty id")
	}
}

func TestMemoryStoreListNewestFirstAndLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)

	for i := 0; i < 5; i++ {
		if err := s.Save(ctx, types.Job{ID: fmt.Sprintf("job-%d", i)}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	// updating an existing job keeps its position
	_ = s.Save(ctx, types.Job{ID: "job-3", State: types.JobRunning})

	list, _ := s.List(ctx)
	var ids []string
	for _, j := range list {
		ids = append(ids, j.ID)
	}
	want := []string{"job-4", "job-3", "job-2"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Fatalf("ids = %v; want %v", ids, want)
	}
	if _, err := s.Get(ctx, "job-0"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("oldest job should have been evicted")
	}
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = s.Save(ctx, types.Job{ID: fmt.Sprintf("job-%d", n)})
			_, _ = s.List(ctx)
		}(i)
	}
	wg.Wait()

	list, _ := s.List(ctx)
	if len(list) != 50 {
		t.Fatalf("got %d jobs; want 50", len(list))
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []types.Job{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "mid", CreatedAt: base.Add(time.Minute)},
	}
	sortNewestFirst(list)
	if list[0].ID != "new" || list[1].ID != "mid" || list[2].ID != "old" {
		t.Fatalf("order = %s %s %s", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestDecodeJob(t *testing.T) {
	job, err := decodeJob(`{"id":"x","state":"failed","error":"boom"}`)
	if err != nil {
		t.Fatalf("decodeJob: %v", err)
	}
	if job.ID != "x" || job.State != types.JobFailed || job.Error != "boom" {
		t.Fatalf("job = %+v", job)
	}
	if _, err := decodeJob("{"); err == nil {
		t.Fatal("expected an error for invalid json")
	}
}
