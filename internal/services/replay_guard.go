package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
	"tutoring-api/internal/database"
	"tutoring-api/pkg/logging"
)

// replayTTL keeps seen event fingerprints long enough to cover gateway retries
const replayTTL = 24 * time.Hour

// SeenWebhookBody remembers delivered event bodies in Redis and reports
// whether this exact body was already processed. Only byte-identical
// redeliveries are suppressed; distinct events for the same transaction pass
// through to the reconciler, whose status check stays the real idempotency
// guard. Fails open: without Redis, or on Redis errors, every delivery is
// processed.
func SeenWebhookBody(ctx context.Context, body []byte) bool {
	client := database.GetRedis()
	if client == nil {
		return false
	}

	digest := sha256.Sum256(body)
	key := "webhook_seen:" + hex.EncodeToString(digest[:])

	set, err := client.SetNX(ctx, key, time.Now().Unix(), replayTTL).Result()
	if err != nil {
		logging.Errorf("Replay guard unavailable, processing event anyway: %v", err)
		return false
	}
	if !set {
		logging.Infof("Duplicate webhook body suppressed - key: %s", key)
	}
	return !set
}
