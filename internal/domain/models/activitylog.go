// internal/domain/models/activitylog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types. The first six are general interactions; the rest track
// the claim pipeline and feed the workflow dashboard.
const (
	ActivityLlamada       = "LLAMADA"
	ActivityCorreo        = "CORREO"
	ActivityVisita        = "VISITA"
	ActivityNota          = "NOTA"
	ActivityDocumento     = "DOCUMENTO"
	ActivityCambioEstado  = "CAMBIO_ESTADO"
	ActivityAjustacion    = "AJUSTACION_REALIZADA"
	ActivityScopeSolicit  = "SCOPE_SOLICITADO"
	ActivityScopeRecibido = "SCOPE_RECIBIDO"
	ActivityScopeEnviado  = "SCOPE_ENVIADO"
	ActivityRespFavorable = "RESPUESTA_FAVORABLE"
	ActivityRespNegativa  = "RESPUESTA_NEGATIVA"
	ActivityInicioApprais = "INICIO_APPRAISAL"
	ActivityCartaApprais  = "CARTA_APPRAISAL_ENVIADA"
	ActivityReleaseLetter = "RELEASE_LETTER_REQUERIDA"
	ActivityItelSolicit   = "ITEL_SOLICITADO"
	ActivityReinspeccion  = "REINSPECCION_SOLICITADA"
)

// ActivityTypes lists every accepted activity type.
var ActivityTypes = []string{
	ActivityLlamada,
	ActivityCorreo,
	ActivityVisita,
	ActivityNota,
	ActivityDocumento,
	ActivityCambioEstado,
	ActivityAjustacion,
	ActivityScopeSolicit,
	ActivityScopeRecibido,
	ActivityScopeEnviado,
	ActivityRespFavorable,
	ActivityRespNegativa,
	ActivityInicioApprais,
	ActivityCartaApprais,
	ActivityReleaseLetter,
	ActivityItelSolicit,
	ActivityReinspeccion,
}

// IsValidActivityType reports whether t is a known activity type.
func IsValidActivityType(t string) bool {
	for _, a := range ActivityTypes {
		if a == t {
			return true
		}
	}
	return false
}

// IsContactActivity reports whether t counts as contacting the client.
func IsContactActivity(t string) bool {
	return t == ActivityLlamada || t == ActivityCorreo || t == ActivityVisita
}

// ActivityLog records one interaction or pipeline step.
type ActivityLog struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	ClientID       *string            `bson:"client_id,omitempty" json:"client_id,omitempty"`

	ActivityType  string  `bson:"activity_type" json:"activity_type"`
	Subject       *string `bson:"subject,omitempty" json:"subject,omitempty"`
	Description   *string `bson:"description,omitempty" json:"description,omitempty"`
	Outcome       *string `bson:"outcome,omitempty" json:"outcome,omitempty"`
	ContactMethod *string `bson:"contact_method,omitempty" json:"contact_method,omitempty"`
	Duration      *int    `bson:"duration,omitempty" json:"duration,omitempty"` // minutes

	PerformedBy primitive.ObjectID `bson:"performed_by" json:"performed_by"`
	PerformedAt time.Time          `bson:"performed_at" json:"performed_at"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
