// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/claimdesk/internal/app/policy/recordpolicy"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

// ServeList handles GET /audit-logs: the organization's audit events,
// newest first, optionally narrowed by entityType, entityId and
// category, 50 per page.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanReadAudit(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	q := r.URL.Query()
	entityType := normalize.Enum(q.Get("entityType"))
	if entityType != "" && !entityTypes[entityType] {
		httpjson.Fail(w, h.Log, apperr.Validation("Unknown entity type %q.", entityType))
		return
	}
	category := normalize.Status(q.Get("category"))
	if category != "" && category != audit.CategoryAuth && category != audit.CategoryData {
		httpjson.Fail(w, h.Log, apperr.Validation("Unknown category %q.", category))
		return
	}
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	org := actor.OrgID
	filter := audit.QueryFilter{
		OrganizationID: &org,
		Category:       category,
		EntityType:     entityType,
		EntityID:       normalize.QueryParam(q.Get("entityId")),
		Limit:          pageSize,
		Offset:         int64((page - 1) * pageSize),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("failed to query audit events", zap.Error(err))
		httpjson.Fail(w, h.Log, err)
		return
	}
	total, err := h.events.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("failed to count audit events", zap.Error(err))
		httpjson.Fail(w, h.Log, err)
		return
	}

	// Batch fetch actor names
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0, len(events))
	for _, e := range events {
		if e.ActorID == nil {
			continue
		}
		if _, ok := seen[*e.ActorID]; !ok {
			seen[*e.ActorID] = struct{}{}
			ids = append(ids, *e.ActorID)
		}
	}
	var names map[primitive.ObjectID]string
	if len(ids) > 0 {
		users, err := h.users.GetByIDs(ctx, ids)
		if err != nil {
			h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		} else {
			names = make(map[primitive.ObjectID]string, len(users))
			for id, u := range users {
				names[id] = u.FullName
			}
		}
	}

	items := make([]item, 0, len(events))
	for _, e := range events {
		it := item{Event: e}
		if e.ActorID != nil {
			it.ActorName = names[*e.ActorID]
		}
		items = append(items, it)
	}

	httpjson.OK(w, listResponse{
		Items:   items,
		Page:    page,
		Total:   total,
		HasNext: int64(page*pageSize) < total,
	})
}
