// internal/app/features/clients/status.go
package clients

import (
	"context"
	"fmt"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/workflow/claimstatus"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

// resolveStatus validates the requested status against the organization's
// statuses and returns what is stored once the payment flag is applied.
func (h *Handler) resolveStatus(ctx context.Context, actor authz.Actor, status, stored, primerCheque string) (string, error) {
	if stored == "" || status != stored {
		if err := claimstatus.Validate(ctx, h.statuses, actor.OrgID, status); err != nil {
			return "", err
		}
	}
	return claimstatus.Normalize(status, primerCheque), nil
}

// afterStatusChange runs the best-effort side effects of a client moving
// from one claim status to another: the CAMBIO_ESTADO log and the
// organization notification.
func (h *Handler) afterStatusChange(ctx context.Context, actor authz.Actor, c models.Client, from string) {
	subject := fmt.Sprintf("Estado cambiado de %s a %s", statusLabel(from), c.ClaimStatus)
	clientID := c.ID
	if _, err := h.logs.Create(ctx, models.ActivityLog{
		OrganizationID: c.OrganizationID,
		ClientID:       &clientID,
		ActivityType:   models.ActivityCambioEstado,
		Subject:        &subject,
		PerformedBy:    actor.UserID,
	}); err != nil {
		h.Log.Warn("status change log failed",
			zap.Error(err),
			zap.String("org_id", c.OrganizationID.Hex()),
			zap.String("client_id", c.ID))
	}

	h.notify(ctx, c, notify.Message{
		Type:  models.NotifyClaimStatusChanged,
		Title: "Estado de reclamación actualizado",
	}.WithBody(fmt.Sprintf("%s: %s", c.FullName(), subject)))
}

// afterProjectCreated tells the organization a client is ready to build.
func (h *Handler) afterProjectCreated(ctx context.Context, c models.Client) {
	h.notify(ctx, c, notify.Message{
		Type:  models.NotifyReadyConstruction,
		Title: "Cliente listo para construir",
	}.WithBody(c.FullName()))
}

func (h *Handler) notify(ctx context.Context, c models.Client, msg notify.Message) {
	if h.Notify == nil {
		return
	}
	msg = msg.Entity(audit.EntityClient, c.ID)
	if _, err := h.Notify.NotifyOrganization(ctx, c.OrganizationID, msg); err != nil {
		h.Log.Warn("notify organization failed",
			zap.Error(err),
			zap.String("type", msg.Type),
			zap.String("org_id", c.OrganizationID.Hex()),
			zap.String("client_id", c.ID))
	}
}

func statusLabel(s string) string {
	if s == "" {
		return models.ClaimNoSometida
	}
	return s
}
