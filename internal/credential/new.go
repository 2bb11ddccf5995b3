package credential

import (
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
)

// Open returns the Store selected by cfg.Backend.
func Open(cfg config.CredentialConfig) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Path), nil
	case "sqlite":
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.Backend)
	}
}
