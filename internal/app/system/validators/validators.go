// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/claimdesk/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collections lists every collection EnsureAll creates, in creation order.
var Collections = []string{
	"users", "organizations", "organization_members",
	"clients", "activity_logs", "tasks", "events", "documents", "construction_projects",
	"custom_claim_statuses", "workflow_roles", "workflow_role_members", "activity_automation_rules",
	"notifications", "audit_events",
}

func schemaFor(coll string) bson.M {
	switch coll {
	case "users":
		return usersSchema()
	case "organizations":
		return orgsSchema()
	case "organization_members":
		return membersSchema()
	case "clients":
		return clientsSchema()
	case "activity_logs":
		return activityLogsSchema()
	case "tasks":
		return tasksSchema()
	case "events":
		return eventsSchema()
	case "documents":
		return documentsSchema()
	case "construction_projects":
		return constructionSchema()
	case "activity_automation_rules":
		return automationRulesSchema()
	case "notifications":
		return notificationsSchema()
	}
	// The rest don't strictly need validators; we still ensure the collections exist.
	return nil
}

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. Collections must exist before the first transaction writes to
// them. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, coll := range Collections {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			continue
		}
		schema := schemaFor(coll)
		if schema == nil {
			continue
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				continue
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	objectID = bson.M{"bsonType": "objectId"}
	date     = bson.M{"bsonType": "date"}
	optStr   = bson.M{"bsonType": bson.A{"string", "null"}}
	hhmm     = bson.M{"bsonType": bson.A{"string", "null"}, "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"}
)

func enum(values ...string) bson.M {
	a := bson.A{}
	for _, v := range values {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

func schema(required []string, props bson.M) bson.M {
	req := bson.A{}
	for _, r := range required {
		req = append(req, r)
	}
	return bson.M{"$jsonSchema": bson.M{"bsonType": "object", "required": req, "properties": props}}
}

func usersSchema() bson.M {
	return schema([]string{"full_name", "status"}, bson.M{
		"full_name":    nonBlank,
		"full_name_ci": bson.M{"bsonType": "string"},
		"email":        optStr,
		"status":       enum("active", "disabled"),
	})
}

func orgsSchema() bson.M {
	return schema([]string{"name", "name_ci", "slug"}, bson.M{
		"name":        nonBlank,
		"name_ci":     nonBlank,
		"slug":        bson.M{"bsonType": "string", "pattern": "^[a-z0-9-]+$"},
		"max_members": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1},
	})
}

func membersSchema() bson.M {
	return schema([]string{"organization_id", "user_id", "role", "username", "username_ci"}, bson.M{
		"organization_id": objectID,
		"user_id":         objectID,
		"role":            enum(models.RoleAdmin, models.RoleCoAdmin, models.RoleVendedor),
		"username":        nonBlank,
		"username_ci":     nonBlank,
	})
}

func clientsSchema() bson.M {
	// claim_status is open ended: organizations add their own.
	return schema([]string{"organization_id", "first_name", "last_name", "claim_status"}, bson.M{
		"_id":             nonBlank,
		"organization_id": objectID,
		"first_name":      bson.M{"bsonType": "string"},
		"last_name":       bson.M{"bsonType": "string"},
		"email":           optStr,
		"claim_status":    bson.M{"bsonType": "string"},
		"suplementado":    enum(models.SuplementadoSi, models.SuplementadoNo),
		"primer_cheque":   enum(models.PrimerChequeObtenido, models.PrimerChequePendiente),
	})
}

func activityLogsSchema() bson.M {
	return schema([]string{"organization_id", "activity_type", "performed_by", "performed_at"}, bson.M{
		"organization_id": objectID,
		"client_id":       optStr,
		"activity_type":   enum(models.ActivityTypes...),
		"performed_by":    objectID,
		"performed_at":    date,
		"duration":        bson.M{"bsonType": bson.A{"int", "long", "null"}, "minimum": 0},
	})
}

func tasksSchema() bson.M {
	return schema([]string{"organization_id", "title", "category", "priority", "status"}, bson.M{
		"organization_id": objectID,
		"title":           nonBlank,
		"category": enum(models.TaskCategoryDocumentacion, models.TaskCategorySeguimiento, models.TaskCategoryEstimado,
			models.TaskCategoryReunion, models.TaskCategoryRevision, models.TaskCategoryOtro),
		"priority":    enum(models.TaskPriorityAlta, models.TaskPriorityMedia, models.TaskPriorityBaja),
		"status":      enum(models.TaskStatusPendiente, models.TaskStatusEnProgreso, models.TaskStatusCompletada, models.TaskStatusCancelada),
		"assigned_to": bson.M{"bsonType": bson.A{"objectId", "null"}},
		"due_date":    bson.M{"bsonType": bson.A{"date", "null"}},
	})
}

func eventsSchema() bson.M {
	return schema([]string{"organization_id", "event_type", "title", "event_date", "status"}, bson.M{
		"organization_id": objectID,
		"event_type": enum(models.EventTypeMeeting, models.EventTypeAdjustment, models.EventTypeEstimate, models.EventTypeInspection,
			models.EventTypeAppointment, models.EventTypeDeadline, models.EventTypeOther),
		"title":         nonBlank,
		"event_date":    date,
		"event_time":    hhmm,
		"end_time":      hhmm,
		"status":        enum(models.EventStatusScheduled, models.EventStatusCompleted, models.EventStatusCancelled, models.EventStatusRescheduled),
		"reminder_sent": bson.M{"bsonType": "bool"},
	})
}

func documentsSchema() bson.M {
	return schema([]string{"organization_id", "document_type", "file_name", "uploaded_by"}, bson.M{
		"organization_id": objectID,
		"document_type": enum(models.DocPoliza, models.DocContrato, models.DocFoto, models.DocEstimado,
			models.DocFactura, models.DocPermiso, models.DocScopeAseguradora, models.DocOtro),
		"file_name":   nonBlank,
		"file_size":   bson.M{"bsonType": bson.A{"long", "int", "null"}, "minimum": 0},
		"uploaded_by": objectID,
	})
}

func constructionSchema() bson.M {
	return schema([]string{"organization_id", "project_name", "permit_status", "project_status"}, bson.M{
		"organization_id": objectID,
		"project_name":    nonBlank,
		"permit_status":   enum(models.PermitPendiente, models.PermitAprobado, models.PermitRechazado, models.PermitNoRequerido),
		"project_status": enum(models.ProjectPlanificacion, models.ProjectEnProgreso, models.ProjectPausado,
			models.ProjectCompletado, models.ProjectCancelado),
	})
}

func automationRulesSchema() bson.M {
	return schema([]string{"organization_id", "activity_type", "task_title", "category", "priority", "is_active"}, bson.M{
		"organization_id": objectID,
		"activity_type":   enum(models.ActivityTypes...),
		"task_title":      nonBlank,
		"due_in_days":     bson.M{"bsonType": bson.A{"int", "long", "null"}, "minimum": 0},
		"is_active":       bson.M{"bsonType": "bool"},
	})
}

func notificationsSchema() bson.M {
	return schema([]string{"organization_id", "user_id", "type", "title", "created_at"}, bson.M{
		"organization_id": objectID,
		"user_id":         objectID,
		"type":            nonBlank,
		"title":           nonBlank,
		"created_at":      date,
	})
}
