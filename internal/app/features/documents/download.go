// internal/app/features/documents/download.go
package documents

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/policy/recordpolicy"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeDownload handles GET /documents/{id}/download. Stored files get a
// short-lived presigned GET; external files return their URL as is.
func (h *Handler) ServeDownload(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := docID(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "download document")
	defer cancel()

	d, err := h.docs.GetByID(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if d.FileKey == nil {
		if d.FileURL == nil {
			httpjson.Fail(w, h.Log, apperr.NotFound("file"))
			return
		}
		httpjson.OK(w, downloadResponse{URL: *d.FileURL})
		return
	}

	url, exp, err := h.Objects.PresignDownload(ctx, *d.FileKey, d.FileName)
	if isDisabled(err) {
		unavailable(w)
		return
	}
	if err != nil {
		h.Log.Error("presign download failed", zap.Error(err), zap.String("document_id", id.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, downloadResponse{URL: url, ExpiresAt: &exp})
}

// HandleDelete handles DELETE /documents/{id} (ADMIN, CO_ADMIN). The
// stored object is removed best effort once the record is gone.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanDelete(actor, "documents"); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := docID(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete document")
	defer cancel()

	d, err := h.docs.Delete(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if d.FileKey != nil && h.Objects.Enabled() {
		if err := h.Objects.Delete(ctx, *d.FileKey); err != nil {
			h.Log.Warn("stored object not removed", zap.Error(err), zap.String("key", *d.FileKey))
		}
	}
	h.AuditLog.Deleted(ctx, r, actor, audit.EntityDocument, id.Hex())

	httpjson.NoContent(w)
}
