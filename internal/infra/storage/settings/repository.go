package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m0rozko/DMP-BookingService/pkg/dbmetrics"
	"github.com/m0rozko/DMP-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий настроек платформы (таблица platform_settings)
// Хранит настройки как пары ключ-значение, значения строковые
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает значение настройки по ключу
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("value").
		From("platform_settings").
		Where(squirrel.Eq{"key": key}).
		ToSql()

	if err != nil {
		return "", fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var value string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: Get - scan value: %v", ErrExecQuery, err)
	}

	return value, nil
}

// Set записывает значение настройки (upsert)
func (r *Repository) Set(ctx context.Context, key, value string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("platform_settings").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Set - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Set - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}
