// Package profile содержит модели внешних источников данных CareerForge:
// резюме, GitHub-профиль, связи между пользователями и анализ пробелов
// в навыках. Для ядра агрегации это источники только для чтения;
// исключение - GitHub-профиль, который обновляется при синхронизации.
package profile

import (
	"errors"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// ResumeStatus определяет состояние обработки резюме.
type ResumeStatus string

const (
	// ResumeStatusUploaded - резюме загружено, но ещё не обработано.
	ResumeStatusUploaded ResumeStatus = "uploaded"
	// ResumeStatusProcessing - резюме в обработке анализатором.
	ResumeStatusProcessing ResumeStatus = "processing"
	// ResumeStatusScored - резюме оценено, ATSScore валиден.
	ResumeStatusScored ResumeStatus = "scored"
	// ResumeStatusFailed - обработка резюме завершилась ошибкой.
	ResumeStatusFailed ResumeStatus = "failed"
)

// SyncStatus определяет состояние синхронизации GitHub-профиля.
type SyncStatus string

const (
	// SyncStatusPending - профиль подключён, но ещё не синхронизирован.
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusSyncing - синхронизация выполняется прямо сейчас.
	SyncStatusSyncing SyncStatus = "syncing"
	// SyncStatusCompleted - последняя синхронизация прошла успешно.
	SyncStatusCompleted SyncStatus = "completed"
	// SyncStatusFailed - последняя синхронизация завершилась ошибкой;
	// текст ошибки сохраняется в SyncError профиля.
	SyncStatusFailed SyncStatus = "failed"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// ResumeRecord - запись о загруженном резюме пользователя.
type ResumeRecord struct {
	// ID - внутренний уникальный идентификатор.
	ID string

	// UserID - идентификатор владельца резюме.
	UserID string

	// ATSScore - балл анализатора резюме. Валиден только при статусе scored;
	// источник может отдавать значения вне 0-100, потребитель обязан зажимать.
	ATSScore int

	// Status - состояние обработки.
	Status ResumeStatus

	// UploadedAt - время загрузки.
	UploadedAt time.Time
}

// GitHubStats содержит агрегированную статистику GitHub-активности.
type GitHubStats struct {
	// TotalCommits - суммарное число коммитов.
	TotalCommits int

	// TotalPullRequests - суммарное число pull request'ов.
	TotalPullRequests int

	// TotalStars - суммарное число звёзд по всем репозиториям.
	TotalStars int

	// Languages - список языков по репозиториям (может содержать дубликаты).
	Languages []string

	// ForkRatio - доля форков среди репозиториев, 0.0-1.0.
	ForkRatio float64
}

// DistinctLanguages возвращает число различных языков.
func (s GitHubStats) DistinctLanguages() int {
	seen := make(map[string]struct{}, len(s.Languages))
	for _, lang := range s.Languages {
		if lang == "" {
			continue
		}
		seen[lang] = struct{}{}
	}
	return len(seen)
}

// GitHubRecord - подключённый GitHub-профиль пользователя.
type GitHubRecord struct {
	// ID - внутренний уникальный идентификатор.
	ID string

	// UserID - идентификатор пользователя.
	UserID string

	// Username - логин на GitHub.
	Username string

	// Stats - статистика последней синхронизации.
	Stats GitHubStats

	// SyncStatus - состояние синхронизации.
	SyncStatus SyncStatus

	// SyncError - текст последней ошибки синхронизации (пустой при успехе).
	SyncError string

	// LastSyncedAt - время последней успешной синхронизации.
	LastSyncedAt time.Time
}

// SyncedRecently возвращает true, если профиль синхронизировался
// в пределах указанного интервала.
func (g *GitHubRecord) SyncedRecently(interval time.Duration) bool {
	return g.SyncedRecentlyAt(interval, time.Now())
}

// SyncedRecentlyAt - вариант SyncedRecently с явным текущим временем.
func (g *GitHubRecord) SyncedRecentlyAt(interval time.Duration, now time.Time) bool {
	if g.LastSyncedAt.IsZero() {
		return false
	}
	return now.Sub(g.LastSyncedAt) < interval
}

// String возвращает строковое представление профиля для логирования.
func (g *GitHubRecord) String() string {
	return fmt.Sprintf("GitHubRecord{User: %s, Username: %s, Status: %s}",
		g.UserID, g.Username, g.SyncStatus)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrResumeNotFound - у пользователя нет оценённого резюме.
	// Для калькуляторов это не сбой: отсутствие источника даёт нулевой вклад.
	ErrResumeNotFound = errors.New("no scored resume found")

	// ErrGitHubNotFound - у пользователя нет подключённого GitHub-профиля.
	ErrGitHubNotFound = errors.New("github profile not connected")
)
