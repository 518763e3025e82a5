package badge

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Контракты хранилища бейджей. Реализации - infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// AwardRepository определяет операции над выдачами бейджей.
type AwardRepository interface {
	// Create создаёт запись о выдаче.
	// Возвращает ErrAlreadyAwarded при нарушении уникальности (user, badge):
	// проверка "существует ли" и создание не атомарны, поэтому проигравший
	// конкурентную гонку писатель обязан получить эту ошибку, а не сбой хранилища.
	Create(ctx context.Context, award *Award) error

	// Exists проверяет, выдан ли бейдж пользователю.
	Exists(ctx context.Context, userID string, key Key) (bool, error)

	// GetByUserID возвращает все выдачи пользователя, новые первыми.
	GetByUserID(ctx context.Context, userID string) ([]*Award, error)

	// CountByUserID возвращает число выдач пользователя.
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// DefinitionRepository определяет доступ к полиморфному каталогу:
// системные определения объединяются с административными.
type DefinitionRepository interface {
	// GetByKey возвращает определение по ключу (системное или административное).
	// Возвращает ErrDefinitionNotFound, если ключ неизвестен.
	GetByKey(ctx context.Context, key Key) (Definition, error)

	// GetAll возвращает объединённый каталог: сначала системные
	// определения, затем административные.
	GetAll(ctx context.Context) ([]Definition, error)
}
