package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/faucet/ports"
)

const (
	TopicSignIn = "faucet.signin"
	TopicClaim  = "faucet.claim"
)

// SignInEvent is published after a wallet exchanges a signed challenge for a credential
type SignInEvent struct {
	Address    string    `json:"address"`
	ChainID    int64     `json:"chain_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ClaimEvent is published after a claim transaction is mined
type ClaimEvent struct {
	Address    string    `json:"address"`
	TxHash     string    `json:"tx_hash"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishSignIn publishes a sign-in event
func (p *WatermillPublisher) PublishSignIn(ctx context.Context, address string, chainID int64) error {
	return p.publish(ctx, TopicSignIn, SignInEvent{
		Address:    address,
		ChainID:    chainID,
		OccurredAt: time.Now().UTC(),
	})
}

// PublishClaim publishes a claim event
func (p *WatermillPublisher) PublishClaim(ctx context.Context, address string, txHash string) error {
	return p.publish(ctx, TopicClaim, ClaimEvent{
		Address:    address,
		TxHash:     txHash,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *WatermillPublisher) publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
