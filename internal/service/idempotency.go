package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
)

// IdempotencyKey derives the ledger key for an inbound webhook event. The
// provider-supplied event id is preferred; without one the key falls back to a
// digest of the canonicalized payload, so re-serialized deliveries of the same
// body (different field order, whitespace) still collapse to a single key.
func IdempotencyKey(event api.TmsWebhookEvent) (string, error) {
	if event.EventId != "" {
		return fmt.Sprintf("%s:%s", event.Provider, event.EventId), nil
	}

	canonical, err := canonicalJSON(event)
	if err != nil {
		return "", fmt.Errorf("canonicalizing webhook payload: %w", err)
	}

	digest := sha256.Sum256(canonical)
	return fmt.Sprintf("%s:sha256:%s", event.Provider, hex.EncodeToString(digest[:])), nil
}

// canonicalJSON re-encodes the value through a map so that keys are emitted in
// sorted order with compact separators.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return json.Marshal(payload)
}
