package analysis

import "wisefido-motion/internal/models"

// 漂移规则阈值
const (
	walkDeclineFactor        = 0.8
	transitionIncreaseFactor = 1.2
	inactivityIncreaseFactor = 1.25

	currentWindowDays   = 7
	defaultBaselineDays = 7
)

// 漂移提示语（顺序固定）
const (
	AlertWalkDecline        = "Walking activity has declined compared to baseline."
	AlertTransitionIncrease = "Increase in unstable transitions detected."
	AlertInactivityIncrease = "Prolonged inactivity compared to baseline."
)

// EventSource 按日期区间读取事件（由 store.EventStore 实现）
type EventSource interface {
	EventsForRange(userID string, start, end models.Date) []models.ActivityEvent
}

// Detector 基线 vs 当前周漂移检测器
type Detector struct {
	BaselineDays int
}

// NewDetector 创建检测器；baselineDays <= 0 时使用默认 7 天
func NewDetector(baselineDays int) *Detector {
	if baselineDays <= 0 {
		baselineDays = defaultBaselineDays
	}
	return &Detector{BaselineDays: baselineDays}
}

// Baseline 从 start 起连续 BaselineDays 天的计数
func (d *Detector) Baseline(src EventSource, userID string, start models.Date) models.Metrics {
	return Extract(src.EventsForRange(userID, start, start.AddDays(d.BaselineDays-1)))
}

// CurrentWeek 截至 end（含）的最近 7 天计数
func (d *Detector) CurrentWeek(src EventSource, userID string, end models.Date) models.Metrics {
	return Extract(src.EventsForRange(userID, end.AddDays(-(currentWindowDays - 1)), end))
}

// BaselineStart 当前周之前、紧邻的基线窗口起点（跳过一天间隔）
// 例如 7 天基线：基线 = end-14 … end-8，当前 = end-6 … end
func (d *Detector) BaselineStart(end models.Date) models.Date {
	return end.AddDays(-(currentWindowDays + d.BaselineDays))
}

// Detect 比较计数（不是比例），每条规则最多贡献 1 分
func (d *Detector) Detect(baseline, current models.Metrics) models.DriftResult {
	score := 0
	alerts := make([]string, 0, 3)

	if float64(current.Walk) < float64(baseline.Walk)*walkDeclineFactor {
		score++
		alerts = append(alerts, AlertWalkDecline)
	}
	if float64(current.Transitions) > float64(baseline.Transitions)*transitionIncreaseFactor {
		score++
		alerts = append(alerts, AlertTransitionIncrease)
	}
	if float64(current.Static) > float64(baseline.Static)*inactivityIncreaseFactor {
		score++
		alerts = append(alerts, AlertInactivityIncrease)
	}

	if len(alerts) == 0 {
		alerts = append(alerts, models.NoDriftAlert)
	}

	return models.DriftResult{
		DriftScore: score,
		DriftLevel: DriftLevel(score),
		Alerts:     alerts,
	}
}

// DriftLevel 0→Low，1→Medium，≥2→High
func DriftLevel(score int) models.Level {
	switch {
	case score <= 0:
		return models.LevelLow
	case score == 1:
		return models.LevelMedium
	default:
		return models.LevelHigh
	}
}
