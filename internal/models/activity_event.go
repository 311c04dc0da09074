package models

import (
	"fmt"
	"time"
)

// Activity 活动分类（上游分类器输出）
type Activity string

const (
	ActivityWalk        Activity = "Walk"
	ActivityStatic      Activity = "Static"
	ActivityTransitions Activity = "Transitions"
	ActivityExercise    Activity = "Exercise"
	ActivityStairs      Activity = "Stairs"
)

// Valid 是否为已知活动类型
func (a Activity) Valid() bool {
	switch a {
	case ActivityWalk, ActivityStatic, ActivityTransitions, ActivityExercise, ActivityStairs:
		return true
	}
	return false
}

// ActivityEvent 单条活动观测（入库后不可变）
type ActivityEvent struct {
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Activity  Activity  `json:"activity"`
	FallProb  float64   `json:"fall_prob"` // 0.0 – 1.0
	IsFall    bool      `json:"is_fall"`
}

// Zone 工作区域
type Zone string

const (
	ZoneSafe       Zone = "Safe_Zone"
	ZoneRestricted Zone = "Restricted_Zone"
	ZoneHazard     Zone = "Hazard_Zone"
	ZoneUnknown    Zone = "Unknown" // 没有配对的区域事件
)

// Valid 是否为已知区域（Unknown 不能作为输入）
func (z Zone) Valid() bool {
	switch z {
	case ZoneSafe, ZoneRestricted, ZoneHazard:
		return true
	}
	return false
}

// ZoneEvent 区域定位事件，与同一 user_id 的 ActivityEvent 配对
type ZoneEvent struct {
	UserID    string    `json:"user_id"`
	Zone      Zone      `json:"zone"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidateActivityEvent 入口校验：类型和范围，不做修正
func ValidateActivityEvent(e ActivityEvent) error {
	if !e.Activity.Valid() {
		return fmt.Errorf("invalid activity: %q", e.Activity)
	}
	if e.FallProb < 0 || e.FallProb > 1 {
		return fmt.Errorf("fall_prob out of range [0,1]: %v", e.FallProb)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	return nil
}

// ValidateZoneEvent 入口校验
func ValidateZoneEvent(e ZoneEvent) error {
	if e.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if !e.Zone.Valid() {
		return fmt.Errorf("invalid zone: %q", e.Zone)
	}
	return nil
}
