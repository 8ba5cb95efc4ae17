package cmd

import (
	"strings"

	"github.com/graphion-dev/graphion/pkg/persistence"
	"github.com/graphion-dev/graphion/pkg/persistence/file"
)

var supportedPersistenceProviders = []string{"file"}

// NewPersistence selects a workflow store from the database URL scheme.
// Unrecognized schemes fall back to file storage.
func NewPersistence(databaseURL string) persistence.Persistence {
	provider := parsePersistenceProvider(databaseURL)

	switch provider {
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
