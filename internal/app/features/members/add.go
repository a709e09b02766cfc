package members

import (
	"context"
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/policy/memberpolicy"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authutil"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/app/system/txn"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

// HandleAdd handles POST /organization/members. A blank password is
// replaced by a generated one, returned once in the response.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := memberpolicy.CanAddMember(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in addInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.Username = normalize.Username(in.Username)
	in.Role = normalize.Role(in.Role)
	in.FullName = normalize.OptionalText(in.FullName)
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var generated string
	password := ""
	if in.Password != nil {
		password = *in.Password
	}
	if password == "" {
		generated = authutil.GeneratePassword()
		password = generated
	} else if err := authutil.ValidatePassword(password); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	name := in.Username
	if in.FullName != nil {
		name = normalize.Name(*in.FullName)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add member")
	defer cancel()

	org, err := h.orgs.GetByID(ctx, actor.OrgID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	count, err := h.members.Count(ctx, actor.OrgID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if count >= int64(org.MaxMembers) {
		httpjson.Fail(w, h.Log, apperr.Conflict("the organization has reached its member limit"))
		return
	}

	var (
		user   models.User
		member models.Member
	)
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		user, err = h.users.Create(ctx, models.User{
			FullName:     name,
			LoginMethod:  "internal",
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		member, err = h.members.Create(ctx, models.Member{
			OrganizationID: actor.OrgID,
			UserID:         user.ID,
			Role:           in.Role,
			Username:       in.Username,
		})
		return err
	})
	if err != nil {
		h.Log.Warn("add member failed", zap.Error(err), zap.String("username", in.Username))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Created(ctx, r, actor, audit.EntityMember, member.ID.Hex())

	httpjson.Created(w, addResponse{
		Member: memberView{
			Member: member,
			Name:   user.FullName,
			Status: user.Status,
		},
		GeneratedPassword: generated,
	})
}
