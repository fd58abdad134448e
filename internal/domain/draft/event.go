package draft

import (
	"context"
	"time"
)

type EventType string

const (
	EventAuctionStarted   EventType = "auction.started"
	EventBidPlaced        EventType = "auction.bid"
	EventAuctionFinalized EventType = "auction.finalized"
	EventAuctionCancelled EventType = "auction.cancelled"
	EventTeamRenamed      EventType = "team.renamed"
	EventLeagueUpdated    EventType = "league.updated"
	EventDraftReset       EventType = "draft.reset"
	EventPoolReplaced     EventType = "pool.replaced"
)

// Event is a notification emitted after a draft mutation has been applied.
type Event struct {
	Type       EventType      `json:"type"`
	AuctionID  string         `json:"auction_id,omitempty"`
	Player     string         `json:"player,omitempty"`
	Team       string         `json:"team,omitempty"`
	Amount     int            `json:"amount,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Publisher fans draft events out to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}
