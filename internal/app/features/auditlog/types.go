// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
)

// item is one audit event with its actor's name resolved.
type item struct {
	audit.Event
	ActorName string `json:"actor_name,omitempty"`
}

type listResponse struct {
	Items   []item `json:"items"`
	Page    int    `json:"page"`
	Total   int64  `json:"total"`
	HasNext bool   `json:"has_next"`
}

var entityTypes = map[string]bool{
	audit.EntityClient:       true,
	audit.EntityActivityLog:  true,
	audit.EntityConstruction: true,
	audit.EntityDocument:     true,
	audit.EntityTask:         true,
	audit.EntityEvent:        true,
	audit.EntityMember:       true,
	audit.EntityOrganization: true,
}
