package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), primitive.NewObjectID(), "ana", "session")
	logger.Created(ctx, req, authz.Actor{}, audit.EntityClient, "X")
}

func TestLogger_Destinations(t *testing.T) {
	tests := []struct {
		name string
		cfg  auditlog.Config
		auth int64
		data int64
	}{
		{"all", auditlog.Config{Auth: auditlog.All, Data: auditlog.All}, 1, 1},
		{"db", auditlog.Config{Auth: auditlog.DB, Data: auditlog.DB}, 1, 1},
		{"log only", auditlog.Config{Auth: auditlog.Log, Data: auditlog.Log}, 0, 0},
		{"auth off", auditlog.Config{Auth: auditlog.Off, Data: auditlog.All}, 0, 1},
		{"unset means all", auditlog.Config{}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			logger := auditlog.New(store, zap.NewNop(), tt.cfg)
			req := httptest.NewRequest("POST", "/auth/login", nil)
			actor := authz.Actor{UserID: primitive.NewObjectID(), OrgID: primitive.NewObjectID(), Role: "ADMIN"}

			logger.LoginSuccess(ctx, req, actor.UserID, actor.OrgID, "ana", "session")
			logger.Created(ctx, req, actor, audit.EntityClient, "SJ20260101AP")

			if n, _ := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAuth}); n != tt.auth {
				t.Errorf("auth events = %d, want %d", n, tt.auth)
			}
			if n, _ := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryData}); n != tt.data {
				t.Errorf("data events = %d, want %d", n, tt.data)
			}
		})
	}
}

func TestLogger_DataEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.DB, Data: auditlog.DB})
	req := httptest.NewRequest("PATCH", "/clients/X", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	actor := authz.Actor{UserID: primitive.NewObjectID(), OrgID: primitive.NewObjectID(), Role: "ADMIN"}

	logger.Updated(ctx, req, actor, audit.EntityClient, "X", []string{"phone", "claim_status"})
	logger.Deleted(ctx, req, actor, audit.EntityClient, "X")

	events, err := store.Query(ctx, audit.QueryFilter{OrganizationID: &actor.OrgID, EntityType: audit.EntityClient, EntityID: "X"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	var upd audit.Event
	for _, e := range events {
		if e.EventType == audit.ActionUpdate {
			upd = e
		}
	}
	if upd.Details["fields"] != "claim_status,phone" {
		t.Errorf("fields = %q, want sorted list", upd.Details["fields"])
	}
	if upd.ActorID == nil || *upd.ActorID != actor.UserID {
		t.Error("expected actor id recorded")
	}
	if upd.IP != "10.1.2.3" {
		t.Errorf("IP = %q", upd.IP)
	}
}

func TestLogger_FailedLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.DB})
	req := httptest.NewRequest("POST", "/auth/login", nil)
	logger.LoginFailedUserNotFound(ctx, req, "ghost")

	events, _ := store.Query(ctx, audit.QueryFilter{EventType: audit.EventLoginFailedUserNotFound})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Success {
		t.Error("failed login recorded as success")
	}
	if events[0].Details["attempted_username"] != "ghost" {
		t.Errorf("details = %v", events[0].Details)
	}
}
