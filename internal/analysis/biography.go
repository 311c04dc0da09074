package analysis

import "wisefido-motion/internal/models"

// 周叙述阈值（百分比变化）
const (
	walkDropNarrative       = -20.0
	nearFallRiseNarrative   = 20.0
	inactivityRiseNarrative = 25.0
)

// 周叙述文案
const (
	NarrativeWalkDrop       = "Walking duration reduced significantly this week."
	NarrativeNearFallRise   = "Near-fall frequency has increased over recent days."
	NarrativeInactivityRise = "Prolonged inactivity observed. Mobility may be declining."
)

// Biography 运动传记：日摘要、周趋势、叙述
type Biography struct {
	src EventSource
}

// NewBiography 创建运动传记
func NewBiography(src EventSource) *Biography {
	return &Biography{src: src}
}

// DailySummary 单日摘要；当日没有事件返回 nil
func (b *Biography) DailySummary(userID string, day models.Date) *models.DailySummary {
	events := b.src.EventsForRange(userID, day, day)
	if len(events) == 0 {
		return nil
	}
	m := Extract(events)
	return &models.DailySummary{
		UserID:          userID,
		Date:            day,
		WalkingDuration: m.Walk,
		TransitionCount: m.Transitions,
		NearFalls:       m.NearFall,
		InactivityTime:  m.Static,
		FallRiskScore:   FallRisk(m),
	}
}

// DailySummaries 区间内每一天的摘要（跳过无数据的日期）
func (b *Biography) DailySummaries(userID string, start, end models.Date) []models.DailySummary {
	var summaries []models.DailySummary
	for day := start; !end.Before(day); day = day.AddDays(1) {
		if s := b.DailySummary(userID, day); s != nil {
			summaries = append(summaries, *s)
		}
	}
	return summaries
}

// WeeklyTrend 本周（end-6…end）相对上周（end-13…end-7）的变化，附带叙述
func (b *Biography) WeeklyTrend(userID string, end models.Date) models.WeeklyTrend {
	curr := Extract(b.src.EventsForRange(userID, end.AddDays(-6), end))
	prev := Extract(b.src.EventsForRange(userID, end.AddDays(-13), end.AddDays(-7)))

	trend := models.WeeklyTrend{
		UserID:           userID,
		EndDate:          end,
		WalkChange:       pctChange(curr.Walk, prev.Walk),
		NearFallChange:   pctChange(curr.NearFall, prev.NearFall),
		InactivityChange: pctChange(curr.Static, prev.Static),
	}
	trend.Narratives = Narrative(trend)
	return trend
}

// Narrative 周趋势叙述；没有显著变化时返回稳定提示
func Narrative(trend models.WeeklyTrend) []string {
	var narratives []string
	if trend.WalkChange <= walkDropNarrative {
		narratives = append(narratives, NarrativeWalkDrop)
	}
	if trend.NearFallChange >= nearFallRiseNarrative {
		narratives = append(narratives, NarrativeNearFallRise)
	}
	if trend.InactivityChange >= inactivityRiseNarrative {
		narratives = append(narratives, NarrativeInactivityRise)
	}
	if len(narratives) == 0 {
		narratives = append(narratives, RecommendLow)
	}
	return narratives
}

// pctChange 上周为 0 时返回 0
func pctChange(curr, prev int) float64 {
	if prev == 0 {
		return 0
	}
	return Round2(float64(curr-prev) / float64(prev) * 100)
}
