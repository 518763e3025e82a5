// Package badge содержит доменную модель бейджей CareerForge.
// Бейдж выдаётся пользователю не более одного раза за каждый тип;
// уникальность обеспечивается на уровне хранилища, а не только приложением.
package badge

import (
	"errors"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Key представляет уникальный машинный ключ бейджа.
type Key string

// IsValid проверяет, что ключ непустой и разумной длины.
func (k Key) IsValid() bool {
	s := string(k)
	return len(s) >= 2 && len(s) <= 64
}

// String возвращает строковое представление ключа.
func (k Key) String() string {
	return string(k)
}

// RequirementKind определяет вид условия получения бейджа.
type RequirementKind string

const (
	// KindATSScore - балл последнего оценённого резюме >= порога.
	KindATSScore RequirementKind = "ats_score"

	// KindCommits - суммарное число коммитов >= порога.
	KindCommits RequirementKind = "commits"

	// KindPullRequests - суммарное число pull request'ов >= порога.
	KindPullRequests RequirementKind = "pull_requests"

	// KindStars - суммарное число звёзд >= порога.
	KindStars RequirementKind = "stars"

	// KindLanguages - число различных языков >= порога.
	KindLanguages RequirementKind = "languages"

	// KindConnections - число принятых связей (в любую сторону) >= порога.
	KindConnections RequirementKind = "connections"

	// KindSkillGap - существует хотя бы один анализ пробелов в навыках.
	KindSkillGap RequirementKind = "skill_gap"
)

// IsValid проверяет, что вид условия известен системе.
// Неизвестные виды не являются ошибкой: евалюатор трактует их как "не выполнено".
func (k RequirementKind) IsValid() bool {
	switch k {
	case KindATSScore, KindCommits, KindPullRequests, KindStars,
		KindLanguages, KindConnections, KindSkillGap:
		return true
	default:
		return false
	}
}

// Requirement описывает машинно-проверяемое условие получения бейджа.
type Requirement struct {
	// Kind - вид условия.
	Kind RequirementKind

	// Threshold - порог для числовых условий (для KindSkillGap игнорируется).
	Threshold int
}

// Source определяет происхождение определения бейджа.
type Source string

const (
	// SourceStatic - замороженный системный каталог.
	SourceStatic Source = "static"

	// SourceAdmin - определён администратором во время работы системы.
	SourceAdmin Source = "admin"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Definition - определение бейджа. Системные и административные определения
// разделяют один путь выдачи и оценивания (полиморфный каталог).
type Definition struct {
	// Key - уникальный машинный ключ.
	Key Key

	// Name - отображаемое имя.
	Name string

	// Description - описание для пользователя.
	Description string

	// Requirement - условие получения.
	Requirement Requirement

	// Points - очки за бейдж. Сегодня у всех системных бейджей
	// одинаковое значение, но схема допускает переопределение.
	Points int

	// Source - происхождение определения.
	Source Source
}

// Award - факт выдачи бейджа пользователю. Неизменяем после создания.
// Инвариант: не более одной записи на пару (UserID, BadgeKey).
type Award struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// UserID - идентификатор пользователя.
	UserID string

	// BadgeKey - ключ выданного бейджа.
	BadgeKey Key

	// EarnedAt - время выдачи.
	EarnedAt time.Time

	// Metadata - произвольный контекст выдачи (источник, триггер и т.п.).
	Metadata map[string]string
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidKey - невалидный ключ бейджа.
	ErrInvalidKey = errors.New("invalid badge key: must be 2-64 chars")

	// ErrInvalidUserID - пустой идентификатор пользователя.
	ErrInvalidUserID = errors.New("invalid user id: must not be empty")

	// ErrDefinitionNotFound - определение бейджа не найдено.
	ErrDefinitionNotFound = errors.New("badge definition not found")

	// ErrAlreadyAwarded - бейдж уже выдан этому пользователю.
	// Трактуется как no-op, а не как сбой: проигравший гонку писатель
	// при нарушении уникальности получает именно эту ошибку.
	ErrAlreadyAwarded = errors.New("badge already awarded")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewAwardParams содержит параметры выдачи бейджа.
type NewAwardParams struct {
	ID       string
	UserID   string
	BadgeKey Key
	Metadata map[string]string
}

// NewAward создаёт запись о выдаче бейджа с валидацией полей.
func NewAward(params NewAwardParams) (*Award, error) {
	if params.ID == "" {
		return nil, errors.New("award id is required")
	}
	if params.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if !params.BadgeKey.IsValid() {
		return nil, ErrInvalidKey
	}

	return &Award{
		ID:       params.ID,
		UserID:   params.UserID,
		BadgeKey: params.BadgeKey,
		EarnedAt: time.Now().UTC(),
		Metadata: params.Metadata,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// String возвращает строковое представление выдачи для логирования.
func (a *Award) String() string {
	return fmt.Sprintf("Award{User: %s, Badge: %s, EarnedAt: %s}",
		a.UserID, a.BadgeKey, a.EarnedAt.Format(time.RFC3339))
}

// IsStatic возвращает true для системных определений.
func (d Definition) IsStatic() bool {
	return d.Source == SourceStatic
}
