package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/coworkhq/cowork/internal/models"
)

// fakeBoard is a minimal server-side task with real optimistic
// concurrency semantics, for exercising the full fetch/mutate/conflict
// cycle the way two concurrent clients would.
type fakeBoard struct {
	mu   sync.Mutex
	task models.Task
}

func (b *fakeBoard) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			b.respond(w, b.task)

		case http.MethodPatch:
			var req struct {
				Status  *models.Status `json:"status"`
				Title   *string        `json:"title"`
				Version int64          `json:"version"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			if req.Version != b.task.Version {
				w.WriteHeader(http.StatusConflict)
				fmt.Fprint(w, `{"success":false,"message":"task has been modified by another user"}`)
				return
			}
			if req.Status != nil {
				b.task.Status = *req.Status
			}
			if req.Title != nil {
				b.task.Title = *req.Title
			}
			b.task.Version++
			b.respond(w, b.task)

		default:
			http.NotFound(w, r)
		}
	})
}

func (b *fakeBoard) respond(w http.ResponseWriter, task models.Task) {
	data, _ := json.Marshal(task)
	fmt.Fprintf(w, `{"success":true,"data":%s}`, data)
}

func TestOptimisticUpdateCycle(t *testing.T) {
	board := &fakeBoard{task: models.Task{ID: 1, Title: "deploy", Status: models.StatusTodo, Priority: models.PriorityHigh, Version: 1}}
	srv := httptest.NewServer(board.handler())
	defer srv.Close()

	ctx := context.Background()
	clientA := New(srv.URL, testStore(t), nil)
	clientB := New(srv.URL, testStore(t), nil)

	// Both clients observe version 1.
	taskA, err := clientA.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("A GetTask() error = %v", err)
	}
	taskB, err := clientB.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("B GetTask() error = %v", err)
	}

	// A moves the task; the returned version replaces A's copy.
	status := models.StatusInProgress
	updated, err := clientA.UpdateTask(ctx, 1, TaskUpdateRequest{Status: &status, Version: taskA.Version})
	if err != nil {
		t.Fatalf("A UpdateTask() error = %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("version after A's update = %d, want 2", updated.Version)
	}

	// B still holds version 1, so its update must be rejected.
	done := models.StatusDone
	_, err = clientB.UpdateTask(ctx, 1, TaskUpdateRequest{Status: &done, Version: taskB.Version})
	if !IsConflict(err) {
		t.Fatalf("B UpdateTask() err = %v, want conflict", err)
	}

	// B resynchronizes by refetching, then retries with the new version.
	taskB, err = clientB.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("B refetch error = %v", err)
	}
	if taskB.Version != 2 || taskB.Status != models.StatusInProgress {
		t.Fatalf("refetched task = %+v, want version 2 in progress", taskB)
	}

	final, err := clientB.UpdateTask(ctx, 1, TaskUpdateRequest{Status: &done, Version: taskB.Version})
	if err != nil {
		t.Fatalf("B retry error = %v", err)
	}
	if final.Version != 3 || final.Status != models.StatusDone {
		t.Errorf("final task = %+v, want version 3 done", final)
	}
}

func TestUpdateAfterRefetchCarriesFreshVersion(t *testing.T) {
	board := &fakeBoard{task: models.Task{ID: 1, Title: "draft", Status: models.StatusTodo, Priority: models.PriorityLow, Version: 4}}
	srv := httptest.NewServer(board.handler())
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL, testStore(t), nil)

	task, err := c.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}

	title := "final"
	for i := 0; i < 3; i++ {
		task, err = c.UpdateTask(ctx, 1, TaskUpdateRequest{Title: &title, Version: task.Version})
		if err != nil {
			t.Fatalf("update %d error = %v", i, err)
		}
	}
	// Chained updates succeed because each one echoes the version the
	// previous response reported.
	if task.Version != 7 {
		t.Errorf("task.Version = %d, want 7", task.Version)
	}
}
