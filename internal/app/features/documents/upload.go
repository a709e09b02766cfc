// internal/app/features/documents/upload.go
package documents

import (
	"errors"
	"net/http"
	"strings"

	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/objectstore"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleUpload handles POST /documents/uploads. It reserves an object key
// and returns a presigned PUT; the caller registers the key afterwards.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if !h.Objects.Enabled() {
		unavailable(w)
		return
	}

	var in uploadInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.FileName = strings.TrimSpace(in.FileName)
	in.ContentType = strings.TrimSpace(in.ContentType)
	in.ClientID = normalize.OptionalText(in.ClientID)
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "presign upload")
	defer cancel()

	clientID := ""
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
		clientID = *in.ClientID
	}

	key := h.Objects.Key(actor.OrgID.Hex(), clientID, in.FileName)
	up, err := h.Objects.PresignUpload(ctx, key, in.ContentType)
	if err != nil {
		h.Log.Error("presign upload failed", zap.Error(err), zap.String("key", key))
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, up)
}

func unavailable(w http.ResponseWriter) {
	httpjson.Error(w, http.StatusServiceUnavailable, httpjson.CodeUnavailable, "document storage is not configured")
}

func isDisabled(err error) bool { return errors.Is(err, objectstore.ErrDisabled) }
