package analysis

import (
	"time"

	"wisefido-motion/internal/models"

	"github.com/google/uuid"
)

// 看护报警文案
const (
	MsgRiskIncreasing = "Fall risk has been increasing steadily over recent days."
	MsgRiskHigh       = "High fall risk detected. Immediate attention is recommended."
	MsgDriftMedium    = "Mobility patterns show noticeable decline compared to baseline."
	MsgDriftHigh      = "Significant mobility decline detected over multiple weeks."

	RecommendHigh   = "Recommend immediate caregiver check-in or medical consultation."
	RecommendMedium = "Recommend caregiver monitoring and follow-up."
	RecommendLow    = "Mobility stable. No immediate intervention required."
)

// ComposeAlert 合并趋势与漂移结果；严重度只升不降
func ComposeAlert(userID string, trend models.Trend, drift models.DriftResult, now time.Time) models.CaregiverAlert {
	severity := models.LevelLow
	messages := make([]string, 0, len(drift.Alerts)+3)

	if trend == models.TrendIncreasing {
		messages = append(messages, MsgRiskIncreasing)
		severity = models.MaxLevel(severity, models.LevelMedium)
	}
	if trend == models.TrendHigh {
		messages = append(messages, MsgRiskHigh)
		severity = models.LevelHigh
	}

	if drift.DriftLevel == models.LevelMedium {
		messages = append(messages, MsgDriftMedium)
		severity = models.MaxLevel(severity, models.LevelMedium)
	}
	if drift.DriftLevel == models.LevelHigh {
		messages = append(messages, MsgDriftHigh)
		severity = models.LevelHigh
	}

	for _, alert := range drift.Alerts {
		if alert != models.NoDriftAlert {
			messages = append(messages, alert)
		}
	}

	messages = append(messages, Recommendation(severity))

	return models.CaregiverAlert{
		AlertID:   uuid.New().String(),
		UserID:    userID,
		Timestamp: now.UTC(),
		Severity:  severity,
		Trend:     trend,
		Messages:  messages,
	}
}

// Recommendation 按最终严重度给出唯一建议
func Recommendation(severity models.Level) string {
	switch severity {
	case models.LevelHigh:
		return RecommendHigh
	case models.LevelMedium:
		return RecommendMedium
	default:
		return RecommendLow
	}
}
