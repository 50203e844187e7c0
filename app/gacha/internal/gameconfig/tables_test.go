package gameconfig

import (
	"testing"

	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
)

// TestDefaultTablesValid 默认配置表必须通过验证
func TestDefaultTablesValid(t *testing.T) {
	if err := DefaultTables().Validate(); err != nil {
		t.Fatalf("DefaultTables().Validate() error = %v", err)
	}
}

// TestValidateRejects 测试非法配置被拒绝
func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tables)
	}{
		{"zero roll cost", func(tb *Tables) { tb.RollCost = 0 }},
		{"zero batch size", func(tb *Tables) { tb.BatchSize = 0 }},
		{"zero pity retry", func(tb *Tables) { tb.PityMaxRetry = 0 }},
		{"zero session ttl", func(tb *Tables) { tb.SessionTTL = 0 }},
		{"empty weights", func(tb *Tables) { tb.Weights = nil }},
		{"negative weight", func(tb *Tables) { tb.Weights[string(model.RaritySR)] = -1 }},
		{"unknown rarity", func(tb *Tables) { tb.Weights["ur"] = 1 }},
		{"missing stats", func(tb *Tables) { delete(tb.Stats, string(model.RaritySSR)) }},
		{"start xp above cap", func(tb *Tables) { tb.Stats[string(model.RarityR)].StartXP = 99 }},
		{"zero duplicate xp", func(tb *Tables) { tb.Stats[string(model.RarityR)].DuplicateXP = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultTables()
			tt.mutate(tables)
			if err := tables.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

// TestWeightTable 测试权重表转换
func TestWeightTable(t *testing.T) {
	weights := DefaultTables().WeightTable()

	if weights[model.RarityR] != 79 || weights[model.RaritySR] != 19 || weights[model.RaritySSR] != 2 {
		t.Errorf("WeightTable() = %v", weights)
	}
}

// TestStatsFor 测试成长配置查询
func TestStatsFor(t *testing.T) {
	tables := DefaultTables()

	stats := tables.StatsFor(model.RarityR)
	if stats == nil {
		t.Fatal("StatsFor(r) = nil")
	}
	if stats.StartLevel != 1 || stats.StartXP != 10 || stats.XPMax != 50 || stats.DuplicateXP != 5 {
		t.Errorf("StatsFor(r) = %+v", stats)
	}

	if tables.StatsFor("ur") != nil {
		t.Error("StatsFor(ur) expected nil")
	}
}
