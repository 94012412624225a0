package ports

import "context"

// EventPublisher publishes domain events for other services
type EventPublisher interface {
	PublishSignIn(ctx context.Context, address string, chainID int64) error
	PublishClaim(ctx context.Context, address string, txHash string) error
}
