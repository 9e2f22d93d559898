package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dayglow/internal/backend"
	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/events"
	"github.com/julianstephens/dayglow/internal/logger"
	"github.com/julianstephens/dayglow/internal/models"
	"github.com/julianstephens/dayglow/internal/storage"
	"github.com/julianstephens/dayglow/internal/unread"
)

type InboxCmd struct {
	Direct bool `help:"Only show direct messages addressed to you."`
	Limit  int  `help:"Number of messages to show." default:"20"`
}

func (c *InboxCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	tracker := ctx.Tracker()
	dms, err := tracker.Count(unread.KindDM)
	if err != nil {
		return err
	}
	community, err := tracker.Count(unread.KindCommunity)
	if err != nil {
		return err
	}
	lastSeen, err := tracker.LastSeen()
	if err != nil {
		return err
	}

	opts := backend.ListOptions{Sort: "-created_date", Limit: c.Limit}
	var msgs []models.CommunityMessage
	if c.Direct {
		me, err := client.Auth().Me(ctx.context())
		if err != nil {
			return err
		}
		msgs, err = client.Messages().Filter(ctx.context(), map[string]any{"recipient_id": me.ID}, opts)
		if err != nil {
			return err
		}
	} else {
		if msgs, err = client.Messages().List(ctx.context(), opts); err != nil {
			return err
		}
	}

	ctx.printf("%s %s\n\n", headerStyle.Render("Inbox"),
		mutedStyle.Render(fmt.Sprintf("%d direct, %d community unread", dms, community)))
	if len(msgs) == 0 {
		ctx.println("No messages.")
	}
	now := ctx.now()
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		marker := " "
		if m.CreatedDate.After(lastSeen) {
			marker = "•"
		}
		sender := m.SenderName
		if sender == "" {
			sender = "someone"
		}
		if m.Direct() {
			sender += " (direct)"
		}
		ctx.printf("%s %s %s\n  %s\n", marker, headerStyle.Render(sender),
			mutedStyle.Render(durationSince(now, m.CreatedDate)), m.Text)
	}

	if err := tracker.MarkSeen(now); err != nil {
		return err
	}
	if !c.Direct {
		return tracker.Reset(unread.KindCommunity)
	}
	return nil
}

// durationSince formats how long before now t was.
func durationSince(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format(constants.DateFormat)
	}
}

type SendCmd struct {
	Text string `arg:"" help:"Message text."`
	To   string `help:"Recipient user ID for a direct message. Omit to post to the community."`
}

func (c *SendCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return fmt.Errorf("message text cannot be empty")
	}
	me, err := client.Auth().Me(ctx.context())
	if err != nil {
		return err
	}
	msg := models.CommunityMessage{SenderID: me.ID, RecipientID: c.To, Text: text}
	if c.To != "" {
		if _, err := client.Users().Get(ctx.context(), c.To); err != nil {
			if errors.Is(err, backend.ErrNotFound) {
				return fmt.Errorf("unknown recipient %q", c.To)
			}
			return err
		}
	}
	if settings, err := ctx.Store.GetSettings(); err == nil {
		msg.SenderName = settings.DisplayName
	}
	if _, err := client.Messages().Create(ctx.context(), msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	ctx.Toasts.Success("Message sent")
	ctx.printf("%s Message sent\n", okStyle.Render("✓"))
	return nil
}

// messagePoller publishes inbound messages newer than the last poll on the bus.
// Messages sent by the signed-in user and direct messages between other users
// are skipped.
type messagePoller struct {
	store    storage.Provider
	messages *backend.EntitySet[models.CommunityMessage]
	me       func(context.Context) (models.User, error)
	bus      *events.Bus
	limit    int
	now      func() time.Time

	userID string
}

// inbound reports whether m was sent to the signed-in user or the community by someone else.
func (p *messagePoller) inbound(m models.CommunityMessage) bool {
	if m.SenderID != "" && m.SenderID == p.userID {
		return false
	}
	return m.RecipientID == "" || m.RecipientID == p.userID
}

func (p *messagePoller) Poll(ctx context.Context) error {
	if p.userID == "" {
		me, err := p.me(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve the signed-in user: %w", err)
		}
		p.userID = me.ID
	}

	var since time.Time
	v, err := p.store.GetValue(storage.KeyCommunityLastPolled)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// First poll only sets the watermark so old history is not replayed.
		return p.store.SetValue(storage.KeyCommunityLastPolled, p.now().UTC().Format(time.RFC3339Nano))
	case err != nil:
		return err
	default:
		if since, err = time.Parse(time.RFC3339Nano, v); err != nil {
			logger.Warn("Resetting unparsable poll watermark", "value", v)
			since = p.now()
		}
	}

	msgs, err := p.messages.List(ctx, backend.ListOptions{Sort: "-created_date", Limit: p.limit})
	if err != nil {
		return err
	}

	newest := since
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if !m.CreatedDate.After(since) {
			continue
		}
		if m.CreatedDate.After(newest) {
			newest = m.CreatedDate
		}
		if p.inbound(m) {
			p.bus.Publish(events.MessageReceived{Message: m})
		}
	}
	if newest.Equal(since) {
		return nil
	}
	return p.store.SetValue(storage.KeyCommunityLastPolled, newest.UTC().Format(time.RFC3339Nano))
}
