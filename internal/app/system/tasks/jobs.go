// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	eventstore "github.com/dalemusser/claimdesk/internal/app/store/events"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

// Job is periodic background work run by a workers.Runner.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// reminderBatch bounds how many events one run handles.
const reminderBatch = 500

// EventReminderJob creates a job that notifies each organization of its
// scheduled events starting within lookahead. Each event is reminded once:
// the reminder flag is claimed before the notification goes out.
func EventReminderJob(events *eventstore.Store, notifier *notify.Dispatcher, logger *zap.Logger, interval, lookahead time.Duration) Job {
	return Job{
		Name:     "event-reminders",
		Interval: interval,
		Run: func(ctx context.Context) error {
			sent, err := SendEventReminders(ctx, events, notifier, logger, time.Now(), lookahead)
			if err != nil {
				return err
			}
			if sent > 0 {
				logger.Info("sent event reminders",
					zap.Int("count", sent),
					zap.Duration("lookahead", lookahead))
			}
			return nil
		},
	}
}

// SendEventReminders runs one reminder pass at now and returns how many
// events were reminded. A failed notification is logged and does not stop
// the pass.
func SendEventReminders(ctx context.Context, events *eventstore.Store, notifier *notify.Dispatcher, logger *zap.Logger, now time.Time, lookahead time.Duration) (int, error) {
	now = now.UTC()
	today := now.Truncate(24 * time.Hour)
	until := now.Add(lookahead)

	due, err := events.DueForReminder(ctx, today, until, reminderBatch)
	if err != nil {
		return 0, fmt.Errorf("load due events: %w", err)
	}

	sent := 0
	for _, e := range due {
		start := StartsAt(e)
		if start.Before(today) || start.After(until) {
			continue
		}
		won, err := events.MarkReminderSent(ctx, e.OrganizationID, e.ID)
		if err != nil {
			return sent, fmt.Errorf("mark reminder sent for %s: %w", e.ID.Hex(), err)
		}
		if !won {
			continue
		}
		msg := notify.Message{
			Type:  models.NotifyEventReminder,
			Title: "Recordatorio: " + e.Title,
		}.WithBody(reminderBody(e, start)).Entity("EVENT", e.ID.Hex())
		if _, err := notifier.NotifyOrganization(ctx, e.OrganizationID, msg); err != nil {
			logger.Warn("event reminder notification failed",
				zap.Error(err),
				zap.String("org_id", e.OrganizationID.Hex()),
				zap.String("event_id", e.ID.Hex()))
			continue
		}
		sent++
	}
	return sent, nil
}

// StartsAt combines an event's date with its HH:MM start time. Events
// without a valid time start at midnight UTC of their date.
func StartsAt(e models.Event) time.Time {
	day := e.EventDate.UTC().Truncate(24 * time.Hour)
	if e.EventTime == nil {
		return day
	}
	hh, mm, ok := strings.Cut(*e.EventTime, ":")
	if !ok {
		return day
	}
	h, err1 := strconv.Atoi(hh)
	m, err2 := strconv.Atoi(mm)
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return day
	}
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func reminderBody(e models.Event, start time.Time) string {
	when := start.Format("2006-01-02")
	if e.EventTime != nil {
		when = start.Format("2006-01-02 15:04")
	}
	if e.ClientID != nil {
		return fmt.Sprintf("%s (cliente %s)", when, *e.ClientID)
	}
	return when
}
