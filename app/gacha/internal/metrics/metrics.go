package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config 指标配置
type Config struct {
	// Namespace 指标命名空间
	Namespace string `mapstructure:"namespace" json:"namespace" yaml:"namespace"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Namespace: "gambatt",
	}
}

// GachaMetrics 抽卡服务指标
type GachaMetrics struct {
	config *Config

	// 抽卡指标
	DrawTotal    *prometheus.CounterVec   // 抽取总数（按模式、稀有度）
	DrawDuration *prometheus.HistogramVec // 抽取操作耗时（按模式）
	DrawFailures *prometheus.CounterVec   // 抽取失败总数（按原因）

	// 数据库指标
	DBQueryTotal    *prometheus.CounterVec   // 数据库查询总数（按操作、结果）
	DBQueryDuration *prometheus.HistogramVec // 数据库查询延迟

	// 缓存指标
	CacheHitTotal  *prometheus.CounterVec // 缓存命中（按缓存类型）
	CacheMissTotal *prometheus.CounterVec // 缓存未命中（按缓存类型）

	// 会话指标
	ActiveSessions prometheus.Gauge // 当前存活的翻页会话数
}

// New 创建抽卡指标
func New(cfg *Config) *GachaMetrics {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &GachaMetrics{
		config: cfg,

		DrawTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "draw_total",
				Help:      "抽取总数",
			},
			[]string{"mode", "rarity"},
		),
		DrawDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "draw_duration_seconds",
				Help:      "抽取操作耗时",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		DrawFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "draw_failures_total",
				Help:      "抽取失败总数",
			},
			[]string{"mode", "reason"},
		),
		DBQueryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "db_query_total",
				Help:      "数据库查询总数",
			},
			[]string{"op", "result"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "db_query_duration_seconds",
				Help:      "数据库查询延迟",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"op"},
		),
		CacheHitTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cache_hit_total",
				Help:      "缓存命中总数",
			},
			[]string{"cache"},
		),
		CacheMissTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cache_miss_total",
				Help:      "缓存未命中总数",
			},
			[]string{"cache"},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "active_sessions",
				Help:      "当前存活的翻页会话数",
			},
		),
	}
}

// Register 注册所有指标到指定 registry
func (m *GachaMetrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.DrawTotal,
		m.DrawDuration,
		m.DrawFailures,
		m.DBQueryTotal,
		m.DBQueryDuration,
		m.CacheHitTotal,
		m.CacheMissTotal,
		m.ActiveSessions,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordDraw 记录一次抽取结果
func (m *GachaMetrics) RecordDraw(mode string, rarity string) {
	m.DrawTotal.WithLabelValues(mode, rarity).Inc()
}

// RecordDrawDuration 记录抽取操作耗时
func (m *GachaMetrics) RecordDrawDuration(mode string, seconds float64) {
	m.DrawDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordDrawFailure 记录抽取失败
func (m *GachaMetrics) RecordDrawFailure(mode string, reason string) {
	m.DrawFailures.WithLabelValues(mode, reason).Inc()
}

// RecordDBQuery 记录数据库查询
func (m *GachaMetrics) RecordDBQuery(op string, success bool, seconds float64) {
	result := "success"
	if !success {
		result = "failure"
	}
	m.DBQueryTotal.WithLabelValues(op, result).Inc()
	m.DBQueryDuration.WithLabelValues(op).Observe(seconds)
}

// RecordCacheHit 记录缓存命中
func (m *GachaMetrics) RecordCacheHit(cache string) {
	m.CacheHitTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss 记录缓存未命中
func (m *GachaMetrics) RecordCacheMiss(cache string) {
	m.CacheMissTotal.WithLabelValues(cache).Inc()
}

// SetActiveSessions 更新存活会话数
func (m *GachaMetrics) SetActiveSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}
