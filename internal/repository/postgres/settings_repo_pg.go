package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

type SettingsRepository struct {
	db *sqlx.DB
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

func NewSettingsRepo(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// settingRow scans JSONB into plain bytes; the driver may hand it back as text.
type settingRow struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row settingRow) document() *domain.SettingDocument {
	return &domain.SettingDocument{Key: row.Key, Value: json.RawMessage(row.Value), UpdatedAt: row.UpdatedAt}
}

func (r *SettingsRepository) GetOrCreate(ctx context.Context, key string, defaults json.RawMessage) (*domain.SettingDocument, error) {
	const insert = `INSERT INTO site_setting (key, value) VALUES ($1, $2::jsonb) ON CONFLICT (key) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, insert, key, string(defaults)); err != nil {
		return nil, err
	}

	var row settingRow
	if err := r.db.GetContext(ctx, &row, `SELECT key, value, updated_at FROM site_setting WHERE key = $1`, key); err != nil {
		return nil, err
	}
	return row.document(), nil
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (*domain.SettingDocument, error) {
	var row settingRow
	if err := r.db.GetContext(ctx, &row, `SELECT key, value, updated_at FROM site_setting WHERE key = $1`, key); err != nil {
		return nil, err
	}
	return row.document(), nil
}

func (r *SettingsRepository) Put(ctx context.Context, key string, value json.RawMessage) (*domain.SettingDocument, error) {
	const query = `
		INSERT INTO site_setting (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING key, value, updated_at
	`
	var row settingRow
	if err := r.db.QueryRowxContext(ctx, query, key, string(value)).StructScan(&row); err != nil {
		return nil, err
	}
	return row.document(), nil
}

func (r *SettingsRepository) ListByPrefix(ctx context.Context, prefix string) ([]domain.SettingDocument, error) {
	var rows []settingRow
	const query = `SELECT key, value, updated_at FROM site_setting WHERE starts_with(key, $1) ORDER BY key`
	if err := r.db.SelectContext(ctx, &rows, query, prefix); err != nil {
		return nil, err
	}
	docs := make([]domain.SettingDocument, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, *row.document())
	}
	return docs, nil
}
