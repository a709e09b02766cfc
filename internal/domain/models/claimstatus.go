// internal/domain/models/claimstatus.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default claim statuses.
const (
	ClaimNoSometida           = "NO_SOMETIDA"
	ClaimSometida             = "SOMETIDA"
	ClaimAjustacionProgramada = "AJUSTACION_PROGRAMADA"
	ClaimAjustacionTerminada  = "AJUSTACION_TERMINADA"
	ClaimEnProceso            = "EN_PROCESO"
	ClaimAprovada             = "APROVADA"
	ClaimRechazada            = "RECHAZADA"
	ClaimCerrada              = "CERRADA"

	// ClaimListaParaConstruir is the terminal ready-for-construction status.
	ClaimListaParaConstruir = "LISTA_PARA_CONSTRUIR"
)

// DefaultClaimStatuses lists the built-in statuses in display order.
var DefaultClaimStatuses = []string{
	ClaimNoSometida,
	ClaimSometida,
	ClaimAjustacionProgramada,
	ClaimAjustacionTerminada,
	ClaimEnProceso,
	ClaimAprovada,
	ClaimRechazada,
	ClaimCerrada,
}

// IsDefaultClaimStatus reports whether s is built in (the sentinel counts).
func IsDefaultClaimStatus(s string) bool {
	if s == ClaimListaParaConstruir {
		return true
	}
	for _, d := range DefaultClaimStatuses {
		if d == s {
			return true
		}
	}
	return false
}

// CustomClaimStatus is an organization-defined status added to the
// built-in set.
type CustomClaimStatus struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	DisplayName    string             `bson:"display_name" json:"display_name"`
	Color          *string            `bson:"color,omitempty" json:"color,omitempty"`
	SortOrder      int                `bson:"sort_order" json:"sort_order"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	CreatedBy      primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
