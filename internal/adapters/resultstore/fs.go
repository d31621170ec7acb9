package resultstore

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ytaudiobatch/internal/core/domain"
)

// Store implements ports.ResultStore on the local filesystem.
type Store struct {
	log *zap.SugaredLogger
}

// NewStore creates a filesystem result store.
func NewStore(log *zap.SugaredLogger) *Store {
	return &Store{log: log}
}

// Save serializes the results mapping to path as indented UTF-8 JSON,
// overwriting any previous content. Serialization is deterministic, so
// saving the same mapping twice yields byte-identical files.
func (s *Store) Save(ctx context.Context, path string, results *domain.BatchResults) error {
	data, err := domain.EncodeIndent(results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results to %s: %w", path, err)
	}

	s.log.Infof("results saved to: %s", path)
	return nil
}
