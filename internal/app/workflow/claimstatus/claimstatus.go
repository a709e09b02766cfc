// Package claimstatus canonicalizes client claim statuses and applies the
// side effects of a client reaching the ready-for-construction status.
package claimstatus

import (
	"context"
	"strings"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// approvedAlias is the standard spelling some users type for APROVADA.
const approvedAlias = "APROBADA"

// Normalize maps a reported status and first-check flag to the status that
// is stored. A received first check or an approved claim means the client
// is ready for construction; anything else passes through unchanged.
func Normalize(status, paymentFlag string) string {
	if paymentFlag == models.PrimerChequeObtenido {
		return models.ClaimListaParaConstruir
	}
	switch status {
	case models.ClaimAprovada, approvedAlias, models.ClaimListaParaConstruir:
		return models.ClaimListaParaConstruir
	}
	return status
}

// ActiveLookup reports whether name is an active custom status of orgID.
type ActiveLookup interface {
	IsActiveName(ctx context.Context, orgID primitive.ObjectID, name string) (bool, error)
}

// Validate accepts a built-in status, the ready-for-construction status,
// or an active custom status of orgID. Blank is accepted and means the
// store default.
func Validate(ctx context.Context, lookup ActiveLookup, orgID primitive.ObjectID, status string) error {
	status = strings.TrimSpace(status)
	if status == "" || models.IsDefaultClaimStatus(status) || status == approvedAlias {
		return nil
	}
	ok, err := lookup.IsActiveName(ctx, orgID, status)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("unknown claim status %q", status)
	}
	return nil
}

// ProjectEnsurer creates the construction project of a client if it has
// none yet.
type ProjectEnsurer interface {
	EnsureForClient(ctx context.Context, c models.Client, actor primitive.ObjectID) (models.ConstructionProject, bool, error)
}

// EnsureProject makes sure a client that is ready for construction has a
// project. Failures are logged and reported as created=false; the client
// write that led here stands either way.
func EnsureProject(ctx context.Context, e ProjectEnsurer, log *zap.Logger, c models.Client, actor primitive.ObjectID) bool {
	if c.ClaimStatus != models.ClaimListaParaConstruir {
		return false
	}
	p, created, err := e.EnsureForClient(ctx, c, actor)
	if err != nil {
		log.Warn("ensure construction project failed",
			zap.Error(err),
			zap.String("org_id", c.OrganizationID.Hex()),
			zap.String("client_id", c.ID))
		return false
	}
	if created {
		log.Info("construction project created",
			zap.String("org_id", c.OrganizationID.Hex()),
			zap.String("client_id", c.ID),
			zap.String("project_id", p.ID.Hex()))
	}
	return created
}
