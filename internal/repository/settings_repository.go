package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jengzang/photo-timeline/internal/database"
	"github.com/jengzang/photo-timeline/internal/models"
)

// settingDefaults apply when a key has never been stored.
var settingDefaults = map[string]string{
	models.SettingTestMode:    "false",
	models.SettingPhotoLimit:  "100",
	models.SettingHomeState:   "",
	models.SettingHomeCountry: "",
	models.SettingHomePolicy:  "",
}

const defaultPhotoLimit = 100

// SettingsRepository stores user settings as key/value rows.
type SettingsRepository struct {
	db *database.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored value for key, or its default.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value sql.NullString
	err := r.db.QueryRowContext(ctx, "SELECT value FROM app_settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows || (err == nil && !value.Valid) {
		return settingDefaults[key], nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value.String, nil
}

// Set stores one setting.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	return r.set(ctx, r.db, key, value)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *SettingsRepository) set(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetSettings reads every setting, applying defaults.
func (r *SettingsRepository) GetSettings(ctx context.Context) (*models.Settings, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM app_settings")
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, len(settingDefaults))
	for k, v := range settingDefaults {
		values[k] = v
	}
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		if value.Valid {
			values[key] = value.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}

	limit, err := strconv.Atoi(values[models.SettingPhotoLimit])
	if err != nil || limit <= 0 {
		limit = defaultPhotoLimit
	}

	return &models.Settings{
		TestMode:          values[models.SettingTestMode] == "true",
		PhotoLimit:        limit,
		HomeState:         values[models.SettingHomeState],
		HomeCountry:       values[models.SettingHomeCountry],
		HomePolicy:        values[models.SettingHomePolicy],
		PhotosLibraryPath: values[models.SettingPhotosLibraryPath],
	}, nil
}

// ApplyUpdate stores every non-nil field of the update in one transaction.
func (r *SettingsRepository) ApplyUpdate(ctx context.Context, u models.SettingsUpdate) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		pairs := make(map[string]string)
		if u.TestMode != nil {
			pairs[models.SettingTestMode] = strconv.FormatBool(*u.TestMode)
		}
		if u.PhotoLimit != nil {
			pairs[models.SettingPhotoLimit] = strconv.Itoa(*u.PhotoLimit)
		}
		if u.HomeState != nil {
			pairs[models.SettingHomeState] = *u.HomeState
		}
		if u.HomeCountry != nil {
			pairs[models.SettingHomeCountry] = *u.HomeCountry
		}
		if u.HomePolicy != nil {
			pairs[models.SettingHomePolicy] = *u.HomePolicy
		}
		if u.PhotosLibraryPath != nil {
			pairs[models.SettingPhotosLibraryPath] = *u.PhotosLibraryPath
		}

		for k, v := range pairs {
			if err := r.set(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}
