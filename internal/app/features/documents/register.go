// internal/app/features/documents/register.go
package documents

import (
	"net/http"
	"strings"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleRegister handles POST /documents. The document must belong to a
// client, a construction project or both; a project-only document
// inherits the project's client.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in registerInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.DocumentType = normalize.Enum(in.DocumentType)
	in.FileName = strings.TrimSpace(in.FileName)
	in.ClientID = normalize.OptionalText(in.ClientID)
	in.ConstructionProjectID = normalize.OptionalText(in.ConstructionProjectID)
	in.FileKey = normalize.OptionalText(in.FileKey)
	in.FileURL = normalize.OptionalText(in.FileURL)
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if in.ClientID == nil && in.ConstructionProjectID == nil {
		httpjson.Fail(w, h.Log, apperr.Validation("A client or construction project is required."))
		return
	}
	if (in.FileKey == nil) == (in.FileURL == nil) {
		httpjson.Fail(w, h.Log, apperr.Validation("Exactly one of file_key and file_url is required."))
		return
	}
	if in.FileKey != nil && !h.Objects.OwnedBy(actor.OrgID.Hex(), *in.FileKey) {
		httpjson.Fail(w, h.Log, apperr.Validation("File key does not belong to this organization."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "register document")
	defer cancel()

	d := models.Document{
		OrganizationID: actor.OrgID,
		ClientID:       in.ClientID,
		DocumentType:   in.DocumentType,
		FileName:       in.FileName,
		FileURL:        in.FileURL,
		FileKey:        in.FileKey,
		MimeType:       normalize.OptionalText(in.MimeType),
		FileSize:       in.FileSize,
		Description:    htmlsanitize.CleanPtr(normalize.OptionalText(in.Description)),
		Tags:           tags(in.Tags),
		UploadedBy:     actor.UserID,
	}

	if in.ConstructionProjectID != nil {
		pid, _ := primitive.ObjectIDFromHex(*in.ConstructionProjectID)
		p, err := h.projects.GetByID(ctx, actor.OrgID, pid)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		d.ConstructionProjectID = &p.ID
		if d.ClientID == nil {
			d.ClientID = p.ClientID
		}
	}
	if in.ClientID != nil {
		ok, err := h.clients.Exists(ctx, actor.OrgID, *in.ClientID)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		if !ok {
			httpjson.Fail(w, h.Log, clientstore.ErrNotFound)
			return
		}
	}

	d, err = h.docs.Create(ctx, d)
	if err != nil {
		h.Log.Error("register document failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Created(ctx, r, actor, audit.EntityDocument, d.ID.Hex())

	httpjson.Created(w, d)
}

// tags trims, drops blanks and de-duplicates.
func tags(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
