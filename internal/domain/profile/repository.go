package profile

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// SOURCE INTERFACES
// Контракты чтения внешних источников. Реализации - infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// ResumeSource отдаёт данные резюме.
type ResumeSource interface {
	// LatestScored возвращает самое свежее резюме пользователя
	// со статусом scored. Возвращает ErrResumeNotFound, если такого нет.
	LatestScored(ctx context.Context, userID string) (*ResumeRecord, error)
}

// GitHubSource отдаёт и обновляет GitHub-профили.
// Единственный источник, в который ядро пишет: синхронизация
// сохраняет свежую статистику и статус.
type GitHubSource interface {
	// GetByUserID возвращает профиль пользователя.
	// Возвращает ErrGitHubNotFound, если профиль не подключён.
	GetByUserID(ctx context.Context, userID string) (*GitHubRecord, error)

	// ListConnected возвращает все подключённые профили.
	ListConnected(ctx context.Context) ([]*GitHubRecord, error)

	// SaveStats сохраняет свежую статистику и время синхронизации.
	SaveStats(ctx context.Context, userID string, stats GitHubStats, syncedAt time.Time) error

	// SetSyncStatus обновляет статус синхронизации профиля.
	// Для SyncStatusFailed передаётся текст ошибки, иначе - пустая строка.
	SetSyncStatus(ctx context.Context, userID string, status SyncStatus, syncError string) error
}

// ConnectionSource отдаёт данные о связях между пользователями.
type ConnectionSource interface {
	// CountAccepted возвращает число принятых связей, где пользователь
	// выступает запрашивающим или получателем (без дубликатов).
	CountAccepted(ctx context.Context, userID string) (int, error)
}

// SkillGapSource отдаёт данные об анализах пробелов в навыках.
type SkillGapSource interface {
	// Exists возвращает true, если у пользователя есть хотя бы один анализ.
	Exists(ctx context.Context, userID string) (bool, error)
}
