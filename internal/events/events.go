package events

import "context"

// Event types
const (
	EventApplicationDecided      = "application_decided"
	EventDeliverableStatusChange = "deliverable_status_changed"
	EventEscrowStatusChanged     = "escrow_status_changed"
	EventContractGenerated       = "contract_generated"
	EventMessageSent             = "message_sent"
	EventCreditsChanged          = "credits_changed"
)

// StreamMarketplace is the single pubsub channel the API fans out to
// websocket clients.
const StreamMarketplace = "events:marketplace"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
