package badge

// ══════════════════════════════════════════════════════════════════════════════
// STATIC CATALOG
// Замороженный системный каталог из 7 бейджей. Ключи уникальны,
// очки сегодня одинаковы у всех записей, но это не инвариант схемы.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultPoints - очки за системный бейдж на сегодня.
const DefaultPoints = 2

// Системные ключи бейджей.
const (
	KeyATSAce        Key = "ats_ace"
	KeyCommitCentury Key = "commit_century"
	KeyMergeMaster   Key = "merge_master"
	KeyStarCollector Key = "star_collector"
	KeyPolyglot      Key = "polyglot"
	KeyWellConnected Key = "well_connected"
	KeyGapHunter     Key = "gap_hunter"
)

// staticCatalog - единственный источник системных определений.
var staticCatalog = []Definition{
	{
		Key:         KeyATSAce,
		Name:        "ATS Ace",
		Description: "Resume scored 80 or higher by the ATS analyzer",
		Requirement: Requirement{Kind: KindATSScore, Threshold: 80},
		Points:      DefaultPoints,
		Source:      SourceStatic,
	},
	{
		Key:         KeyCommitCentury,
		Name:        "Commit Century",
		Description: "100 or more commits across public repositories",
		Requirement: Requirement{Kind: KindCommits, Threshold: 100},
		Points:      DefaultPoints,
		Source:      SourceStatic,
	},
	{
		Key:         KeyMergeMaster,
		Name:        "Merge Master",
		Description: "25 or more pull requests opened",
		Requirement: Requirement{Kind: KindPullRequests, Threshold: 25},
		Points:      DefaultPoints,
		Source:      SourceStatic,
	},
	{
		Key:         KeyStarCollector,
		Name:        "Star Collector",
		Description: "100 or more stars earned across repositories",
		Requirement: Requirement{Kind: KindStars, Threshold: 100},
		Points:      DefaultPoints,
		Source:      SourceStatic,
	},
	{
		Key:         KeyPolyglot,
		Name:        "Polyglot",
		Description: "Code in 5 or more distinct languages",
		Requirement: Requirement{Kind: KindLanguages, Threshold: 5},
		Points:      DefaultPoints,
		Source:      SourceStatic,
	},
	{
		Key:         KeyWellConnected,
		Name:        "Well Connected",
		Description: "10 or more accepted peer connections",
		Requirement: Requirement{Kind: KindConnections, Threshold: 10},
		Points:      DefaultPoints,
		Source:      SourceStatic,
	},
	{
		Key:         KeyGapHunter,
		Name:        "Gap Hunter",
		Description: "Completed a skill gap analysis",
		Requirement: Requirement{Kind: KindSkillGap},
		Points:      DefaultPoints,
		Source:      SourceStatic,
	},
}

// StaticCatalog возвращает копию системного каталога.
// Копия защищает замороженные определения от мутаций вызывающим кодом.
func StaticCatalog() []Definition {
	catalog := make([]Definition, len(staticCatalog))
	copy(catalog, staticCatalog)
	return catalog
}

// StaticDefinition возвращает системное определение по ключу.
// Возвращает ErrDefinitionNotFound, если ключ не из системного каталога.
func StaticDefinition(key Key) (Definition, error) {
	for _, d := range staticCatalog {
		if d.Key == key {
			return d, nil
		}
	}
	return Definition{}, ErrDefinitionNotFound
}
