package ports

import (
	"context"
	"encoding/json"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

// SettingsRepository stores singleton documents under unique keys.
type SettingsRepository interface {
	// GetOrCreate returns the document stored under key, inserting defaults
	// first when none exists.
	GetOrCreate(ctx context.Context, key string, defaults json.RawMessage) (*domain.SettingDocument, error)
	// Get returns sql.ErrNoRows when nothing is stored under key.
	Get(ctx context.Context, key string) (*domain.SettingDocument, error)
	Put(ctx context.Context, key string, value json.RawMessage) (*domain.SettingDocument, error)
	ListByPrefix(ctx context.Context, prefix string) ([]domain.SettingDocument, error)
}
