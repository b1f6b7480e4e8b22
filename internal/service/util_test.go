package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/config"
	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBPath:         filepath.Join(t.TempDir(), "school.db"),
		PasswordScheme: config.SchemeLegacy,
	}
	client, err := db.NewClient(cfg)
	require.NoError(t, err)
	return client
}

func newTestServices(t *testing.T) (*Credential, *Catalog, *Favorites) {
	t.Helper()
	client := newTestDB(t)
	logger := zap.NewNop().Sugar()
	v := NewValidator()
	return NewCredential(client, logger, LegacyHasher{}, v),
		NewCatalog(client, logger, v),
		NewFavorites(client, logger)
}
