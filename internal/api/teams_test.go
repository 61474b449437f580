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

func TestCreateTeamThenList(t *testing.T) {
	var created bool
	mux := http.NewServeMux()
	mux.HandleFunc("/teams", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.Name != "Eng" || req.Description != "desc" {
				t.Errorf("create body = %+v", req)
			}
			created = true
			fmt.Fprint(w, `{"success":true,"data":{"id":10,"name":"Eng","description":"desc","myRole":"LEADER"}}`)
		case http.MethodGet:
			if !created {
				fmt.Fprint(w, `{"success":true,"data":[]}`)
				return
			}
			fmt.Fprint(w, `{"success":true,"data":[{"id":10,"name":"Eng","description":"desc","myRole":"LEADER"}]}`)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL, testStore(t), nil)

	team, err := c.CreateTeam(ctx, TeamCreateRequest{Name: "Eng", Description: "desc"})
	if err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}
	// The creator comes back as the leader.
	if team.ID != 10 || team.MyRole != models.TeamRoleLeader {
		t.Errorf("team = %+v", team)
	}

	teams, err := c.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams() error = %v", err)
	}
	if len(teams) != 1 || teams[0].ID != 10 {
		t.Errorf("teams = %+v", teams)
	}
}

func TestCreateTeamOmitsEmptyDescription(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"success":true,"data":{"id":11,"name":"Ops","myRole":"LEADER"}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, testStore(t), nil)
	if _, err := c.CreateTeam(context.Background(), TeamCreateRequest{Name: "Ops"}); err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}
	if _, present := gotBody["description"]; present {
		t.Error("empty description was sent")
	}
}

func TestInviteMember(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/10/invite" {
			t.Errorf("path = %s, want /teams/10/invite", r.URL.Path)
		}
		var req struct {
			LoginID string `json:"loginId"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.LoginID != "bob" {
			t.Errorf("loginId = %q, want bob", req.LoginID)
		}
		fmt.Fprint(w, `{"success":true,"data":{"id":5,"loginId":"bob","nickname":"Bob","role":"MEMBER"}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, testStore(t), nil)
	member, err := c.InviteMember(context.Background(), 10, InviteRequest{LoginID: "bob"})
	if err != nil {
		t.Fatalf("InviteMember() error = %v", err)
	}
	if member.LoginID != "bob" || member.Role != models.TeamRoleMember {
		t.Errorf("member = %+v", member)
	}
}

func TestListTeamMembers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/10/members" {
			t.Errorf("path = %s, want /teams/10/members", r.URL.Path)
		}
		fmt.Fprint(w, `{"success":true,"data":[
			{"id":1,"loginId":"alice","nickname":"Alice","role":"LEADER","joinedAt":"2026-01-05T10:00:00"},
			{"id":5,"loginId":"bob","nickname":"Bob","role":"MEMBER","joinedAt":"2026-02-01T09:00:00"}
		]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, testStore(t), nil)
	members, err := c.ListTeamMembers(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListTeamMembers() error = %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("len(members) = %d, want 2", len(members))
	}
	if members[0].Role != models.TeamRoleLeader || members[1].Role != models.TeamRoleMember {
		t.Errorf("members = %+v", members)
	}
}
