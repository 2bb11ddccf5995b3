// Package credential reads the analysis API key persisted by the settings surface.
package credential

import "context"

// StorageKey is the key the settings surface stores the API credential under.
const StorageKey = "meaningcloud_api_key"

// Store holds the single API credential. Get reads through to storage on every call and
// returns a CREDENTIAL_MISSING error when nothing is stored.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, value string) error
	Close() error
}
