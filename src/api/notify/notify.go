// Package notify turns the side effects of review operations into an
// explicit event list. Operations return events instead of sending mail
// inline; the webserver publishes them to a redis stream and the dispatcher
// drains the stream and delivers email. A failed delivery never affects the
// operation that produced the event.
package notify

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

const Stream = "incubation.notifications"

// Event kinds.
const (
	KindReviewerInvited     = "reviewer_invited"
	KindInviteResponse      = "invite_response"
	KindInviteExpired       = "invite_expired"
	KindApplicationReceived = "application_received"
	KindDraftSaved          = "draft_saved"
)

type Event struct {
	Kind          string
	ApplicationID string
	StartupName   string
	ReviewerID    string
	ReviewerName  string
	// Recipient email; events without one are logged but not mailed.
	Recipient string
	Accepted  bool
	// Raw resume link for draft_saved; present only in the event, never in
	// the store.
	ResumeLink string
}

func (e Event) values() map[string]any {
	v := map[string]any{
		"kind":   e.Kind,
		"app_id": e.ApplicationID,
	}
	if e.StartupName != "" {
		v["startup"] = e.StartupName
	}
	if e.ReviewerID != "" {
		v["reviewer_id"] = e.ReviewerID
	}
	if e.ReviewerName != "" {
		v["reviewer_name"] = e.ReviewerName
	}
	if e.Recipient != "" {
		v["recipient"] = e.Recipient
	}
	if e.Kind == KindInviteResponse {
		v["accepted"] = boolString(e.Accepted)
	}
	if e.ResumeLink != "" {
		v["resume_link"] = e.ResumeLink
	}
	return v
}

func boolString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Publisher appends events to the notification stream. Publish is
// best-effort: failures are logged and swallowed so callers never roll back
// a committed write over a notification.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) Publish(ctx context.Context, events ...Event) {
	if p == nil || p.rdb == nil {
		return
	}
	for _, ev := range events {
		err := p.rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: Stream,
			Values: ev.values(),
		}).Err()
		if err != nil {
			log.Printf("notify: publish %s for app %s: %v", ev.Kind, ev.ApplicationID, err)
		}
	}
}
