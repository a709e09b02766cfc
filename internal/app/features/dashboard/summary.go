// internal/app/features/dashboard/summary.go
package dashboard

import (
	"net/http"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

// ContactWindow bounds both "late contact" (looking back) and
// "upcoming contact" (looking ahead).
const ContactWindow = 7 * 24 * time.Hour

// ClientRef is the slice of a client the dashboard lists.
type ClientRef struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	ClaimStatus string  `json:"claim_status"`
}

type Section struct {
	Count   int         `json:"count"`
	Clients []ClientRef `json:"clients"`
}

func (s *Section) add(c models.Client) {
	s.Count++
	s.Clients = append(s.Clients, ref(c))
}

type Summary struct {
	TotalClients         Section `json:"total_clients"`
	LateContact          Section `json:"late_contact"`
	NotSupplemented      Section `json:"not_supplemented"`
	PendingSubmission    Section `json:"pending_submission"`
	ReadyForConstruction Section `json:"ready_for_construction"`
	UpcomingContacts     Section `json:"upcoming_contacts"`
}

// Summarize buckets clients into the dashboard cards. A client may land
// in several cards. Clients never contacted are not late.
func Summarize(clients []models.Client, now time.Time) Summary {
	s := Summary{
		TotalClients:         Section{Clients: []ClientRef{}},
		LateContact:          Section{Clients: []ClientRef{}},
		NotSupplemented:      Section{Clients: []ClientRef{}},
		PendingSubmission:    Section{Clients: []ClientRef{}},
		ReadyForConstruction: Section{Clients: []ClientRef{}},
		UpcomingContacts:     Section{Clients: []ClientRef{}},
	}
	lateBefore := now.Add(-ContactWindow)
	upcomingBy := now.Add(ContactWindow)

	for _, c := range clients {
		s.TotalClients.add(c)
		if c.LastContactDate != nil && c.LastContactDate.Before(lateBefore) {
			s.LateContact.add(c)
		}
		if c.Suplementado == models.SuplementadoNo {
			s.NotSupplemented.add(c)
		}
		switch c.ClaimStatus {
		case models.ClaimNoSometida:
			s.PendingSubmission.add(c)
		case models.ClaimListaParaConstruir:
			s.ReadyForConstruction.add(c)
		}
		if n := c.NextContactDate; n != nil && !n.Before(now) && !n.After(upcomingBy) {
			s.UpcomingContacts.add(c)
		}
	}
	return s
}

// ServeSummary handles GET /dashboard/summary.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "dashboard summary")
	defer cancel()

	clients, err := h.clients.List(ctx, actor.OrgID)
	if err != nil {
		h.Log.Error("dashboard summary failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, Summarize(clients, time.Now().UTC()))
}

func ref(c models.Client) ClientRef {
	return ClientRef{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		ClaimStatus: c.ClaimStatus,
	}
}
