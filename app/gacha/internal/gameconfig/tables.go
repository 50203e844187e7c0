package gameconfig

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
)

// RarityStats 单个稀有度的成长配置
type RarityStats struct {
	StartLevel  int32 `mapstructure:"start_level" json:"start_level" yaml:"start_level"`    // 首次获得时的等级
	StartXP     int32 `mapstructure:"start_xp" json:"start_xp" yaml:"start_xp"`             // 首次获得时的经验
	XPMax       int32 `mapstructure:"xp_max" json:"xp_max" yaml:"xp_max"`                   // 首次获得时的升级经验上限
	DuplicateXP int32 `mapstructure:"duplicate_xp" json:"duplicate_xp" yaml:"duplicate_xp"` // 重复获得时增加的经验
	XPMaxGrowth int32 `mapstructure:"xp_max_growth" json:"xp_max_growth" yaml:"xp_max_growth"` // 每级经验上限增量
	// FirstLevelGrowth 最低稀有度 1→2 级的特殊增量 (数值平衡用)；0 表示使用 XPMaxGrowth
	FirstLevelGrowth int32 `mapstructure:"first_level_growth" json:"first_level_growth" yaml:"first_level_growth"`
}

// Tables 抽卡玩法静态配置表
type Tables struct {
	// RollCost 单抽消耗
	RollCost int64 `mapstructure:"roll_cost" json:"roll_cost" yaml:"roll_cost"`
	// BatchSize 十连抽取次数
	BatchSize int `mapstructure:"batch_size" json:"batch_size" yaml:"batch_size"`
	// Weights 稀有度权重表，概率 = 权重 / 总权重
	Weights map[string]int64 `mapstructure:"weights" json:"weights" yaml:"weights"`
	// Stats 各稀有度的成长配置
	Stats map[string]*RarityStats `mapstructure:"stats" json:"stats" yaml:"stats"`
	// PityMaxRetry 保底重抽次数上限
	PityMaxRetry int `mapstructure:"pity_max_retry" json:"pity_max_retry" yaml:"pity_max_retry"`
	// SessionTTL 翻页会话存活时长
	SessionTTL time.Duration `mapstructure:"session_ttl" json:"session_ttl" yaml:"session_ttl"`
}

// DefaultTables 默认配置表
func DefaultTables() *Tables {
	return &Tables{
		RollCost:  160,
		BatchSize: 10,
		Weights: map[string]int64{
			string(model.RarityR):   79,
			string(model.RaritySR):  19,
			string(model.RaritySSR): 2,
		},
		Stats: map[string]*RarityStats{
			string(model.RarityR): {
				StartLevel:       1,
				StartXP:          10,
				XPMax:            50,
				DuplicateXP:      5,
				XPMaxGrowth:      50,
				FirstLevelGrowth: 25,
			},
			string(model.RaritySR): {
				StartLevel:  1,
				StartXP:     20,
				XPMax:       100,
				DuplicateXP: 10,
				XPMaxGrowth: 50,
			},
			string(model.RaritySSR): {
				StartLevel:  1,
				StartXP:     30,
				XPMax:       150,
				DuplicateXP: 15,
				XPMaxGrowth: 50,
			},
		},
		PityMaxRetry: 1000,
		SessionTTL:   120 * time.Second,
	}
}

// Validate 验证配置表
func (t *Tables) Validate() error {
	if t.RollCost <= 0 {
		return errors.Newf("roll_cost must be positive, got %d", t.RollCost)
	}
	if t.BatchSize <= 0 {
		return errors.Newf("batch_size must be positive, got %d", t.BatchSize)
	}
	if t.PityMaxRetry <= 0 {
		return errors.Newf("pity_max_retry must be positive, got %d", t.PityMaxRetry)
	}
	if t.SessionTTL <= 0 {
		return errors.Newf("session_ttl must be positive, got %s", t.SessionTTL)
	}

	if len(t.Weights) == 0 {
		return errors.New("weights table is empty")
	}
	for key, weight := range t.Weights {
		if !model.Rarity(key).Valid() {
			return errors.Newf("unknown rarity %q in weights", key)
		}
		if weight <= 0 {
			return errors.Newf("weight for rarity %q must be positive, got %d", key, weight)
		}
	}

	for key, weight := range t.Weights {
		stats := t.Stats[key]
		if stats == nil {
			return errors.Newf("missing stats for rarity %q (weight %d)", key, weight)
		}
		if stats.StartLevel < 1 {
			return errors.Newf("start_level for rarity %q must be >= 1", key)
		}
		if stats.XPMax <= 0 || stats.StartXP < 0 || stats.StartXP >= stats.XPMax {
			return errors.Newf("invalid xp range for rarity %q: start_xp=%d xp_max=%d", key, stats.StartXP, stats.XPMax)
		}
		if stats.DuplicateXP <= 0 {
			return errors.Newf("duplicate_xp for rarity %q must be positive", key)
		}
		if stats.XPMaxGrowth <= 0 {
			return errors.Newf("xp_max_growth for rarity %q must be positive", key)
		}
	}

	return nil
}

// WeightTable 返回按稀有度索引的权重表
func (t *Tables) WeightTable() map[model.Rarity]int64 {
	weights := make(map[model.Rarity]int64, len(t.Weights))
	for key, weight := range t.Weights {
		weights[model.Rarity(key)] = weight
	}
	return weights
}

// StatsFor 返回指定稀有度的成长配置，未配置时返回 nil
func (t *Tables) StatsFor(rarity model.Rarity) *RarityStats {
	return t.Stats[string(rarity)]
}
