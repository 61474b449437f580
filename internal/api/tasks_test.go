package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coworkhq/cowork/internal/models"
)

func TestUpdateTaskEchoesObservedVersion(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		fmt.Fprint(w, `{"success":true,"data":{"id":1,"title":"new title","status":"TODO","priority":"MEDIUM","version":6}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, testStore(t), nil)
	title := "new title"
	task, err := c.UpdateTask(context.Background(), 1, TaskUpdateRequest{Title: &title, Version: 5})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	if v, ok := gotBody["version"].(float64); !ok || int64(v) != 5 {
		t.Errorf("request version = %v, want 5", gotBody["version"])
	}
	// The response's version replaces the observed one; the client never
	// increments locally.
	if task.Version != 6 {
		t.Errorf("task.Version = %d, want 6", task.Version)
	}
}

func TestUpdateTaskOmitsUnsetFields(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"success":true,"data":{"id":1,"status":"DONE","version":3}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, testStore(t), nil)
	status := models.StatusDone
	if _, err := c.UpdateTask(context.Background(), 1, TaskUpdateRequest{Status: &status, Version: 2}); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	if gotBody["status"] != "DONE" {
		t.Errorf("status = %v, want DONE", gotBody["status"])
	}
	for _, field := range []string{"title", "content", "priority", "deadline", "workerLoginId"} {
		if _, present := gotBody[field]; present {
			t.Errorf("field %q sent, want omitted", field)
		}
	}
}

func TestUpdateTaskStaleVersionConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"success":false,"message":"task has been modified by another user"}`)
	}))
	defer srv.Close()

	events := &recordingEvents{}
	c := New(srv.URL, testStore(t), events)
	status := models.StatusInProgress
	_, err := c.UpdateTask(context.Background(), 1, TaskUpdateRequest{Status: &status, Version: 5})

	if !IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
	// Conflicts surface the server's own message verbatim.
	if len(events.notifications) != 1 || events.notifications[0] != "task has been modified by another user" {
		t.Errorf("notifications = %v", events.notifications)
	}
}

func TestCreateTaskCarriesNoVersion(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/4/tasks" {
			t.Errorf("path = %s, want /teams/4/tasks", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"success":true,"data":{"id":10,"teamId":4,"title":"ship it","status":"TODO","priority":"HIGH","version":1}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, testStore(t), nil)
	task, err := c.CreateTask(context.Background(), 4, TaskCreateRequest{Title: "ship it", Priority: models.PriorityHigh})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if _, present := gotBody["version"]; present {
		t.Error("create request carried a version field")
	}
	if task.ID != 10 || task.Version != 1 {
		t.Errorf("task = %+v", task)
	}
}

func TestDeleteTaskCarriesNoBody(t *testing.T) {
	var gotLen int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		gotLen = r.ContentLength
		fmt.Fprint(w, `{"success":true}`)
	}))
	defer srv.Close()

	c := New(srv.URL, testStore(t), nil)
	if err := c.DeleteTask(context.Background(), 7); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if gotLen > 0 {
		t.Errorf("delete sent %d body bytes, want none", gotLen)
	}
}

func TestListMyTasksPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/my" {
			t.Errorf("path = %s, want /tasks/my", r.URL.Path)
		}
		fmt.Fprint(w, `{"success":true,"data":[{"id":1,"teamId":2,"teamName":"platform","title":"a","status":"TODO","priority":"LOW","version":1}]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, testStore(t), nil)
	tasks, err := c.ListMyTasks(context.Background())
	if err != nil {
		t.Fatalf("ListMyTasks() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].TeamName != "platform" {
		t.Errorf("tasks = %+v", tasks)
	}
}
