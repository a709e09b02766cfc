package organizations

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authutil"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/app/system/txn"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

const defaultTimeZone = "America/Puerto_Rico"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives the organization slug used in generated usernames:
// case and accents folded, runs of other characters collapsed to "-".
func Slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(text.Fold(name)), "-"), "-")
}

// AdminUsername and MemberUsername build the generated login handles.
func AdminUsername(slug string) string { return "admin@" + slug + ".internal" }

func MemberUsername(slug string, i int) string { return fmt.Sprintf("usuario%d@%s.internal", i, slug) }

// HandleOnboard handles POST /organizations. It creates the organization,
// its ADMIN and member_count-1 generated members (the first CO_ADMIN, the
// rest VENDEDOR) and returns every generated password exactly once.
func (h *Handler) HandleOnboard(w http.ResponseWriter, r *http.Request) {
	var in onboardInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.Name = normalize.Name(in.Name)
	in.BusinessType = strings.TrimSpace(in.BusinessType)
	in.Logo = normalize.OptionalText(in.Logo)
	in.TimeZone = normalize.OptionalText(in.TimeZone)
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	slug := Slug(in.Name)
	if slug == "" {
		httpjson.Fail(w, h.Log, apperr.Validation("Organization name must contain letters or digits."))
		return
	}
	tz := defaultTimeZone
	if in.TimeZone != nil {
		if _, err := time.LoadLocation(*in.TimeZone); err != nil {
			httpjson.Fail(w, h.Log, apperr.Validation("Unknown time zone %q.", *in.TimeZone))
			return
		}
		tz = *in.TimeZone
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "onboard organization")
	defer cancel()

	exists, err := h.orgs.SlugExists(ctx, slug)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if exists {
		httpjson.Fail(w, h.Log, apperr.Conflict("an organization with this name already exists"))
		return
	}

	// Hash outside the transaction; bcrypt is slow.
	creds := make([]Credential, 0, in.MemberCount)
	creds = append(creds, Credential{Username: AdminUsername(slug), Password: authutil.GeneratePassword(), Role: models.RoleAdmin})
	for i := 1; i < in.MemberCount; i++ {
		role := models.RoleVendedor
		if i == 1 {
			role = models.RoleCoAdmin
		}
		creds = append(creds, Credential{Username: MemberUsername(slug, i), Password: authutil.GeneratePassword(), Role: role})
	}
	hashes := make([]string, len(creds))
	for i, c := range creds {
		if hashes[i], err = authutil.HashPassword(c.Password); err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
	}

	var org models.Organization
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		org, err = h.orgs.Create(ctx, models.Organization{
			Name:         in.Name,
			Slug:         slug,
			BusinessType: in.BusinessType,
			Logo:         deref(in.Logo),
			TimeZone:     tz,
			MaxMembers:   models.DefaultMaxMembers,
		})
		if err != nil {
			return err
		}

		for i, c := range creds {
			name := "Administrador"
			if i > 0 {
				name = fmt.Sprintf("Usuario %d", i)
			}
			u, err := h.users.Create(ctx, models.User{
				FullName:     name,
				LoginMethod:  "onboarding",
				PasswordHash: hashes[i],
			})
			if err != nil {
				return err
			}
			if _, err := h.members.Create(ctx, models.Member{
				OrganizationID: org.ID,
				UserID:         u.ID,
				Role:           c.Role,
				Username:       c.Username,
			}); err != nil {
				return err
			}
			if i == 0 {
				if err := h.orgs.SetOwner(ctx, org.ID, u.ID); err != nil {
					return err
				}
				org.OwnerID = u.ID
			}
		}
		return nil
	})
	if err != nil {
		h.Log.Error("onboarding failed", zap.Error(err), zap.String("slug", slug))
		httpjson.Fail(w, h.Log, err)
		return
	}

	h.Log.Info("organization onboarded",
		zap.String("org_id", org.ID.Hex()),
		zap.String("slug", slug),
		zap.Int("members", len(creds)))

	httpjson.Created(w, onboardResponse{Organization: org, GeneratedUsers: creds})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
