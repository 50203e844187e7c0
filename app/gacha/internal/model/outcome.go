package model

// OutcomeKind 收集结果类型
type OutcomeKind string

const (
	OutcomeFirstTime OutcomeKind = "first_time" // 首次获得
	OutcomeLevelUp   OutcomeKind = "level_up"   // 升级
	OutcomeDuplicate OutcomeKind = "duplicate"  // 重复获得 (未升级)
)

// LedgerOutcome 单次收集结算结果
type LedgerOutcome struct {
	Kind      OutcomeKind `json:"kind"`
	Level     int32       `json:"level"`      // 结算后等级
	PrevLevel int32       `json:"prev_level"` // 结算前等级 (首次获得时等于 Level)
	XPNow     int32       `json:"xp_now"`
	XPMax     int32       `json:"xp_max"`
	XPAdded   int32       `json:"xp_added"` // 本次增加的经验 (首次获得为 0)
}

// IsFirstTime 是否首次获得
func (o *LedgerOutcome) IsFirstTime() bool {
	return o.Kind == OutcomeFirstTime
}

// IsLevelUp 是否升级
func (o *LedgerOutcome) IsLevelUp() bool {
	return o.Kind == OutcomeLevelUp
}

// DrawResult 单次抽取结果
type DrawResult struct {
	Character *Character     `json:"character"`
	Outcome   *LedgerOutcome `json:"outcome"`
}

// RollResult 一次抽取操作 (单抽或十连) 的完整结果
type RollResult struct {
	DrawID        string        `json:"draw_id"`
	UserID        string        `json:"user_id"`
	Results       []*DrawResult `json:"results"`
	Balance       int64         `json:"balance"`        // 扣费后余额
	HighestRarity Rarity        `json:"highest_rarity"` // 本次结果中的最高稀有度
}

// FinalSummary 十连的终局汇总
type FinalSummary struct {
	UserID        string        `json:"user_id"`
	Results       []*DrawResult `json:"results"`
	HighestRarity Rarity        `json:"highest_rarity"`
}
