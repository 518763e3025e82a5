// Package score содержит доменную модель агрегированного балла пользователя CareerForge.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package score

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// FROZEN WEIGHTS
// ══════════════════════════════════════════════════════════════════════════════

// Веса компонентов итогового балла. Зафиксированы бизнесом:
// менять только через явное решение о версионировании формулы.
const (
	// WeightATS - вес компонента резюме (ATS).
	WeightATS = 0.5

	// WeightGitHub - вес компонента GitHub-активности.
	WeightGitHub = 0.3

	// WeightBadges - вес компонента бейджей.
	WeightBadges = 0.2
)

// BadgeRawMax - максимум "сырых" очков за бейджи (шкала 0-20).
// Компонент бейджей хранится нормализованным к 0-100 для единой шкалы
// отображения; формула работает с сырой шкалой 0-20.
const BadgeRawMax = 20.0

// ══════════════════════════════════════════════════════════════════════════════
// VALUE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// Round2 округляет значение до двух знаков после запятой.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ClampComponent приводит компонент к диапазону [0, 100].
func ClampComponent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// BadgeRawFromNormalized переводит нормализованный (0-100) компонент бейджей
// обратно в сырую шкалу 0-20. Двойное представление намеренное:
// хранится только каноническое нормализованное значение.
func BadgeRawFromNormalized(normalized float64) float64 {
	return normalized / 100 * BadgeRawMax
}

// ComputeTotal вычисляет итоговый балл по замороженной формуле:
//
//	total = round2(0.5*ats + 0.3*git + 0.2*badgeRaw)
//
// где ats и git - компоненты 0-100, а badgeNormalized переводится
// в сырую шкалу 0-20 перед взвешиванием.
func ComputeTotal(ats, git, badgeNormalized float64) float64 {
	badgeRaw := BadgeRawFromNormalized(badgeNormalized)
	return Round2(WeightATS*ats + WeightGitHub*git + WeightBadges*badgeRaw)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: SCORE RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record - авторитетная запись балла пользователя, ровно одна на пользователя.
// Единственный разрешённый писатель - Aggregator (application/scoring);
// все остальные компоненты читают запись как есть.
type Record struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// UserID - идентификатор пользователя.
	UserID string

	// TotalScore - итоговый балл по замороженной формуле.
	TotalScore float64

	// ATSComponent - компонент резюме, 0-100.
	ATSComponent float64

	// GitHubComponent - компонент GitHub-активности, 0-100.
	GitHubComponent float64

	// BadgeComponent - компонент бейджей, нормализованный к 0-100.
	BadgeComponent float64

	// LastUpdated - время последнего пересчёта.
	LastUpdated time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidUserID - пустой идентификатор пользователя.
	ErrInvalidUserID = errors.New("invalid user id: must not be empty")

	// ErrComponentOutOfRange - компонент вне диапазона 0-100.
	ErrComponentOutOfRange = errors.New("invalid component: must be between 0 and 100")

	// ErrInconsistentTotal - итоговый балл не соответствует формуле.
	ErrInconsistentTotal = errors.New("total score does not match the frozen formula")

	// ErrRecordNotFound - запись балла не найдена.
	ErrRecordNotFound = errors.New("score record not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewRecordParams содержит параметры для создания записи балла.
type NewRecordParams struct {
	ID              string
	UserID          string
	ATSComponent    float64
	GitHubComponent float64
	BadgeComponent  float64
}

// NewRecord создаёт запись балла с валидацией компонентов.
// Итоговый балл всегда вычисляется по формуле - снаружи не передаётся.
func NewRecord(params NewRecordParams) (*Record, error) {
	if params.ID == "" {
		return nil, errors.New("score record id is required")
	}
	if params.UserID == "" {
		return nil, ErrInvalidUserID
	}

	for _, c := range []float64{params.ATSComponent, params.GitHubComponent, params.BadgeComponent} {
		if c < 0 || c > 100 {
			return nil, ErrComponentOutOfRange
		}
	}

	return &Record{
		ID:              params.ID,
		UserID:          params.UserID,
		TotalScore:      ComputeTotal(params.ATSComponent, params.GitHubComponent, params.BadgeComponent),
		ATSComponent:    params.ATSComponent,
		GitHubComponent: params.GitHubComponent,
		BadgeComponent:  params.BadgeComponent,
		LastUpdated:     time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// IsConsistent проверяет инвариант: итоговый балл соответствует формуле
// для текущих значений компонентов.
func (r *Record) IsConsistent() bool {
	return r.TotalScore == ComputeTotal(r.ATSComponent, r.GitHubComponent, r.BadgeComponent)
}

// BadgeRaw возвращает сырые очки за бейджи (шкала 0-20),
// производные от нормализованного компонента.
func (r *Record) BadgeRaw() float64 {
	return BadgeRawFromNormalized(r.BadgeComponent)
}

// String возвращает строковое представление записи для логирования.
func (r *Record) String() string {
	return fmt.Sprintf(
		"ScoreRecord{User: %s, Total: %.2f, ATS: %.0f, GitHub: %.0f, Badges: %.0f}",
		r.UserID, r.TotalScore, r.ATSComponent, r.GitHubComponent, r.BadgeComponent,
	)
}

// Clone создаёт копию записи.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
