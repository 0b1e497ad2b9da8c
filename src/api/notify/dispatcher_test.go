package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	calls   int
	to      string
	subject string
	body    string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.calls++
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func TestDispatcherStartsFromStreamBeginning(t *testing.T) {
	d := NewDispatcher(nil, LogMailer{}, "http://localhost:3000")
	// Reading from "$" would lose events published between two blocking
	// reads and any backlog present at startup.
	assert.Equal(t, "0", d.lastID)
}

func TestDeliverComposesPerKind(t *testing.T) {
	cases := []struct {
		kind        string
		wantSubject string
		wantInBody  string
	}{
		{KindReviewerInvited, "Review invitation: Acme Robotics", "invited to review"},
		{KindInviteExpired, "Review invite expired: Acme Robotics", "automatically declined"},
		{KindApplicationReceived, "Application received: Acme Robotics", "Thank you for applying"},
	}
	for _, c := range cases {
		t.Run(c.kind, func(t *testing.T) {
			m := &recordingMailer{}
			d := NewDispatcher(nil, m, "http://localhost:3000")
			d.deliver(context.Background(), map[string]any{
				"kind":      c.kind,
				"app_id":    "app-1",
				"startup":   "Acme Robotics",
				"recipient": "someone@incubator.test",
			})
			require.Equal(t, 1, m.calls)
			assert.Equal(t, "someone@incubator.test", m.to)
			assert.Equal(t, c.wantSubject, m.subject)
			assert.Contains(t, m.body, c.wantInBody)
		})
	}
}

func TestDeliverInviteResponseVerb(t *testing.T) {
	m := &recordingMailer{}
	d := NewDispatcher(nil, m, "http://localhost:3000")
	d.deliver(context.Background(), map[string]any{
		"kind":          KindInviteResponse,
		"app_id":        "app-1",
		"startup":       "Acme Robotics",
		"reviewer_name": "Rey",
		"recipient":     "maya@incubator.test",
		"accepted":      "1",
	})
	require.Equal(t, 1, m.calls)
	assert.Contains(t, m.subject, "accepted")
	assert.Contains(t, m.body, "Rey")
}

func TestDeliverSkipsWithoutRecipient(t *testing.T) {
	m := &recordingMailer{}
	d := NewDispatcher(nil, m, "http://localhost:3000")
	d.deliver(context.Background(), map[string]any{
		"kind":   KindReviewerInvited,
		"app_id": "app-1",
	})
	assert.Zero(t, m.calls)
}
