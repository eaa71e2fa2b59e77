// Package notify delivers user notifications over Redis: a pub/sub channel
// for live clients and a short inbox list for everyone else.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "notify:user:"  // notify:user:{id} pub/sub channel
	inboxPrefix   = "notify:inbox:" // notify:inbox:{id} newest-first list
	inboxSize     = 50
)

const (
	TypeProposalReceived = "proposal_received"
	TypeProposalAccepted = "proposal_accepted"
	TypeProposalRejected = "proposal_rejected"
	TypeChatStarted      = "chat_started"
)

type Notification struct {
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	ProjectID  string    `json:"project_id,omitempty"`
	ProposalID string    `json:"proposal_id,omitempty"`
	At         time.Time `json:"at"`
}

func Channel(userID string) string { return channelPrefix + userID }

type Publisher struct {
	client redis.UniversalClient
}

func NewPublisher(client redis.UniversalClient) *Publisher {
	return &Publisher{client: client}
}

// Notify records n in the user's inbox and publishes it to live listeners.
func (p *Publisher) Notify(ctx context.Context, userID string, n Notification) error {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	pipe := p.client.TxPipeline()
	pipe.LPush(ctx, inboxPrefix+userID, data)
	pipe.LTrim(ctx, inboxPrefix+userID, 0, inboxSize-1)
	pipe.Publish(ctx, Channel(userID), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Inbox returns up to limit notifications, newest first.
func (p *Publisher) Inbox(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 || limit > inboxSize {
		limit = inboxSize
	}
	raw, err := p.client.LRange(ctx, inboxPrefix+userID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read inbox: %w", err)
	}
	out := make([]Notification, 0, len(raw))
	for _, s := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(s), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// Count is the number of notifications held in the inbox.
func (p *Publisher) Count(ctx context.Context, userID string) (int, error) {
	n, err := p.client.LLen(ctx, inboxPrefix+userID).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count inbox: %w", err)
	}
	return int(n), nil
}

// Subscribe streams live notifications for userID until ctx is done.
func (p *Publisher) Subscribe(ctx context.Context, userID string) (<-chan Notification, error) {
	sub := p.client.Subscribe(ctx, Channel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan Notification)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var n Notification
				if err := json.Unmarshal([]byte(m.Payload), &n); err != nil {
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
