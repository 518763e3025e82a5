package score

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Контракт хранилища записей балла. Реализация - infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над записями балла.
//
// Upsert - единственный путь записи TotalScore во всей системе;
// вызывается только агрегатором. Последняя запись побеждает (last-writer-wins),
// каждая запись внутренне согласована для прочитанного снапшота источников.
type Repository interface {
	// Upsert атомарно создаёт запись, если её нет, иначе перезаписывает
	// все поля вместе с LastUpdated.
	Upsert(ctx context.Context, record *Record) error

	// GetByUserID возвращает запись балла пользователя.
	// Возвращает ErrRecordNotFound, если запись не найдена.
	GetByUserID(ctx context.Context, userID string) (*Record, error)
}
