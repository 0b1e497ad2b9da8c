package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const sendTimeout = 10 * time.Second

// Dispatcher drains the notification stream and delivers email. It is the
// only consumer of the stream inside this process; delivery failures are
// logged and the dispatcher moves on.
type Dispatcher struct {
	rdb     *redis.Client
	mailer  Mailer
	baseURL string
	lastID  string
}

func NewDispatcher(rdb *redis.Client, mailer Mailer, baseURL string) *Dispatcher {
	// Start from the beginning of the stream: "$" would skip anything
	// published between two blocking reads and drop any backlog on restart.
	return &Dispatcher{rdb: rdb, mailer: mailer, baseURL: baseURL, lastID: "0"}
}

func (d *Dispatcher) Run(ctx context.Context) {
	for {
		streams, err := d.rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{Stream, d.lastID},
			Block:   5 * time.Second,
		}).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if err != redis.Nil {
				log.Printf("notify: read stream: %v", err)
				time.Sleep(time.Second)
			}
			continue
		}
		for _, s := range streams {
			for _, msg := range s.Messages {
				d.lastID = msg.ID
				d.deliver(ctx, msg.Values)
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, vals map[string]any) {
	kind := str(vals, "kind")
	recipient := str(vals, "recipient")
	if recipient == "" {
		log.Printf("notify: %s for app %s has no recipient, skipping", kind, str(vals, "app_id"))
		return
	}

	subject, body := d.compose(kind, vals)
	if subject == "" {
		log.Printf("notify: unknown event kind %q", kind)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := d.mailer.Send(sendCtx, recipient, subject, body); err != nil {
		log.Printf("notify: send %s to %s: %v", kind, recipient, err)
	}
}

func (d *Dispatcher) compose(kind string, vals map[string]any) (subject, body string) {
	appID := str(vals, "app_id")
	startup := str(vals, "startup")
	reviewLink := fmt.Sprintf("%s/review/%s", d.baseURL, appID)

	switch kind {
	case KindReviewerInvited:
		subject = fmt.Sprintf("Review invitation: %s", startup)
		body = fmt.Sprintf(
			"You have been invited to review the application from %s.\n\nAccept or decline here: %s\n\nThe invitation expires if not answered within two days.",
			startup, reviewLink)
	case KindInviteResponse:
		verb := "declined"
		if str(vals, "accepted") == "1" {
			verb = "accepted"
		}
		subject = fmt.Sprintf("Reviewer %s the invite for %s", verb, startup)
		body = fmt.Sprintf(
			"Reviewer %s has %s the review invitation for %s.\n\nApplication: %s",
			str(vals, "reviewer_name"), verb, startup, reviewLink)
	case KindInviteExpired:
		subject = fmt.Sprintf("Review invite expired: %s", startup)
		body = fmt.Sprintf(
			"The review invitation sent to %s for %s was not answered in time and has been automatically declined.\n\nApplication: %s",
			str(vals, "reviewer_name"), startup, reviewLink)
	case KindApplicationReceived:
		subject = fmt.Sprintf("Application received: %s", startup)
		body = fmt.Sprintf(
			"Thank you for applying to the incubation program.\n\nWe have received the application for %s and will be in touch after review.",
			startup)
	case KindDraftSaved:
		subject = "Your saved application draft"
		body = fmt.Sprintf(
			"Your application draft has been saved.\n\nResume it any time within 30 days using this link: %s\n\nKeep this link private; anyone with it can open your draft.",
			str(vals, "resume_link"))
	}
	return subject, body
}

func str(vals map[string]any, key string) string {
	if v, ok := vals[key].(string); ok {
		return v
	}
	return ""
}
