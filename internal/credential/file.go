package credential

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nguyentantai21042004/caption-digest/internal/errors"
)

// FileStore keeps the credential in a small YAML document.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path. The file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", errors.NewCredentialMissing()
	}
	if err != nil {
		return "", fmt.Errorf("read credential file: %w", err)
	}

	doc := map[string]string{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse credential file: %w", err)
	}

	key := strings.TrimSpace(doc[StorageKey])
	if key == "" {
		return "", errors.NewCredentialMissing()
	}
	return key, nil
}

func (s *FileStore) Set(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("credential must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	data, err := yaml.Marshal(map[string]string{StorageKey: value})
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
