// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type collectionSet struct {
	name   string
	models func() []mongo.IndexModel
}

// sets lists every collection's desired indexes in the order they are ensured.
var sets = []collectionSet{
	{"users", userIndexes},
	{"organizations", organizationIndexes},
	{"organization_members", memberIndexes},
	{"clients", clientIndexes},
	{"activity_logs", activityLogIndexes},
	{"tasks", taskIndexes},
	{"events", eventIndexes},
	{"documents", documentIndexes},
	{"construction_projects", constructionIndexes},
	{"custom_claim_statuses", claimStatusIndexes},
	{"workflow_roles", workflowRoleIndexes},
	{"workflow_role_members", workflowRoleMemberIndexes},
	{"activity_automation_rules", automationRuleIndexes},
	{"notifications", notificationIndexes},
	{"audit_events", auditIndexes},
}

/*
EnsureAll is called at startup. Each set is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.name), s.models()); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Names returns the index names EnsureAll wants on collection.
func Names(collection string) []string {
	for _, s := range sets {
		if s.name != collection {
			continue
		}
		var out []string
		for _, m := range s.models() {
			if m.Options != nil && m.Options.Name != nil {
				out = append(out, *m.Options.Name)
			}
		}
		return out
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isTrue(b *bool) bool { return b != nil && *b }

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// recreate drops the index called old and creates m in its place.
func recreate(ctx context.Context, coll *mongo.Collection, old string, m mongo.IndexModel) error {
	if _, err := coll.Indexes().DropOne(ctx, old); err != nil {
		return fmt.Errorf("drop %s: %w", old, err)
	}
	_, err := coll.Indexes().CreateOne(ctx, m)
	return err
}

func describeCreateErr(coll *mongo.Collection, name string, unique bool, err error) string {
	if unique && wafflemongo.IsDup(err) {
		return fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name)
	}
	return fmt.Sprintf("%s(%s): %v", coll.Name(), name, err)
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isTrue(unique)))

		ex, found := listExisting(ctx, coll)[sig]
		switch {
		case found && isTrue(unique) == isTrue(ex.Unique) && (name == "" || ex.Name == name):
			log.Debug("reusing existing index")
			continue

		case found:
			// Same keys with another name or uniqueness: drop and recreate.
			log.Info("realigning index", zap.String("from", ex.Name))
			if err := recreate(ctx, coll, ex.Name, m); err != nil {
				log.Warn("realign index failed", zap.Error(err))
				errs = append(errs, describeCreateErr(coll, name, isTrue(unique), err))
				continue
			}

		default:
			_, err := coll.Indexes().CreateOne(ctx, m)
			if isOptionsConflictErr(err) {
				// Raced with another instance or a name clash; look again.
				if ex, ok := listExisting(ctx, coll)[sig]; ok {
					if isTrue(unique) == isTrue(ex.Unique) {
						log.Info("reusing existing index (post-conflict)", zap.String("existing", ex.Name))
						continue
					}
					err = recreate(ctx, coll, ex.Name, m)
				}
			}
			if err != nil {
				log.Warn("index ensure failed", zap.Error(err))
				errs = append(errs, describeCreateErr(coll, name, isTrue(unique), err))
				continue
			}
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func named(keys bson.D, name string) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func unique(keys bson.D, name string) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true).SetName(name)}
}

// orgThen prefixes keys with organization_id; nearly every query filters by it.
func orgThen(keys ...bson.E) bson.D {
	return append(bson.D{{Key: "organization_id", Value: 1}}, keys...)
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Email is optional; uniqueness applies only where it is set.
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email").
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		},
		named(bson.D{{Key: "status", Value: 1}, {Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}, "idx_users_status_fullnameci_id"),
	}
}

func organizationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		unique(bson.D{{Key: "slug", Value: 1}}, "uniq_orgs_slug"),
		named(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}, "idx_orgs_nameci__id"),
	}
}

func memberIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Usernames are the login handle, so unique across organizations.
		unique(bson.D{{Key: "username_ci", Value: 1}}, "uniq_members_usernameci"),
		unique(orgThen(bson.E{Key: "user_id", Value: 1}), "uniq_members_org_user"),
		named(orgThen(bson.E{Key: "username_ci", Value: 1}, bson.E{Key: "_id", Value: 1}), "idx_members_org_usernameci__id"),
		named(bson.D{{Key: "user_id", Value: 1}}, "idx_members_user"),
	}
}

func clientIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		named(orgThen(bson.E{Key: "created_at", Value: -1}), "idx_clients_org_created"),
		named(orgThen(bson.E{Key: "full_name_ci", Value: 1}), "idx_clients_org_fullnameci"),
		named(orgThen(bson.E{Key: "claim_status", Value: 1}), "idx_clients_org_status"),
		named(orgThen(bson.E{Key: "next_contact_date", Value: 1}), "idx_clients_org_nextcontact"),
	}
}

func activityLogIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		named(orgThen(bson.E{Key: "performed_at", Value: -1}), "idx_actlogs_org_performed"),
		named(orgThen(bson.E{Key: "client_id", Value: 1}, bson.E{Key: "performed_at", Value: -1}), "idx_actlogs_org_client_performed"),
		named(orgThen(bson.E{Key: "activity_type", Value: 1}, bson.E{Key: "performed_at", Value: -1}), "idx_actlogs_org_type_performed"),
	}
}

func taskIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		named(orgThen(bson.E{Key: "status", Value: 1}, bson.E{Key: "due_date", Value: 1}), "idx_tasks_org_status_due"),
		named(orgThen(bson.E{Key: "assigned_to", Value: 1}, bson.E{Key: "status", Value: 1}), "idx_tasks_org_assignee_status"),
		named(orgThen(bson.E{Key: "client_id", Value: 1}), "idx_tasks_org_client"),
	}
}

func eventIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		named(orgThen(bson.E{Key: "event_date", Value: 1}), "idx_events_org_date"),
		named(orgThen(bson.E{Key: "client_id", Value: 1}, bson.E{Key: "event_date", Value: 1}), "idx_events_org_client_date"),
		// Reminder job scans across organizations.
		named(bson.D{{Key: "status", Value: 1}, {Key: "reminder_sent", Value: 1}, {Key: "event_date", Value: 1}}, "idx_events_reminder"),
	}
}

func documentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		named(orgThen(bson.E{Key: "client_id", Value: 1}, bson.E{Key: "uploaded_at", Value: -1}), "idx_docs_org_client_uploaded"),
		named(orgThen(bson.E{Key: "construction_project_id", Value: 1}), "idx_docs_org_project"),
		named(orgThen(bson.E{Key: "document_type", Value: 1}, bson.E{Key: "client_id", Value: 1}), "idx_docs_org_type_client"),
	}
}

func constructionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// One project per client; projects without a client are not constrained.
		{
			Keys: orgThen(bson.E{Key: "client_id", Value: 1}),
			Options: options.Index().SetUnique(true).SetName("uniq_projects_org_client").
				SetPartialFilterExpression(bson.M{"client_id": bson.M{"$type": "string"}}),
		},
		named(orgThen(bson.E{Key: "project_name_ci", Value: 1}, bson.E{Key: "_id", Value: 1}), "idx_projects_org_nameci__id"),
		named(orgThen(bson.E{Key: "project_status", Value: 1}), "idx_projects_org_status"),
	}
}

func claimStatusIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		unique(orgThen(bson.E{Key: "name", Value: 1}), "uniq_claimstatus_org_name"),
		named(orgThen(bson.E{Key: "sort_order", Value: 1}), "idx_claimstatus_org_sort"),
	}
}

func workflowRoleIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		unique(orgThen(bson.E{Key: "name_ci", Value: 1}), "uniq_wfroles_org_nameci"),
	}
}

func workflowRoleMemberIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		unique(bson.D{{Key: "role_id", Value: 1}, {Key: "user_id", Value: 1}}, "uniq_wfmembers_role_user"),
		// At most one primary per role.
		{
			Keys: bson.D{{Key: "role_id", Value: 1}, {Key: "is_primary", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_wfmembers_role_primary").
				SetPartialFilterExpression(bson.M{"is_primary": true}),
		},
		named(orgThen(bson.E{Key: "user_id", Value: 1}), "idx_wfmembers_org_user"),
	}
}

func automationRuleIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		named(orgThen(bson.E{Key: "activity_type", Value: 1}, bson.E{Key: "is_active", Value: 1}, bson.E{Key: "created_at", Value: 1}), "idx_rules_org_type_active_created"),
		named(orgThen(bson.E{Key: "role_id", Value: 1}), "idx_rules_org_role"),
	}
}

func notificationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		named(bson.D{{Key: "user_id", Value: 1}, {Key: "organization_id", Value: 1}, {Key: "created_at", Value: -1}}, "idx_notifs_user_org_created"),
		named(bson.D{{Key: "user_id", Value: 1}, {Key: "organization_id", Value: 1}, {Key: "read_at", Value: 1}}, "idx_notifs_user_org_read"),
	}
}

func auditIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		named(orgThen(bson.E{Key: "timestamp", Value: -1}), "idx_audit_org_ts"),
		named(orgThen(bson.E{Key: "entity_type", Value: 1}, bson.E{Key: "entity_id", Value: 1}, bson.E{Key: "timestamp", Value: -1}), "idx_audit_org_entity_ts"),
		named(orgThen(bson.E{Key: "category", Value: 1}, bson.E{Key: "timestamp", Value: -1}), "idx_audit_org_category_ts"),
	}
}
