package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wisefido-motion/internal/analysis"
	"wisefido-motion/internal/evaluator"
	"wisefido-motion/internal/models"
	"wisefido-motion/internal/observability"
	"wisefido-motion/internal/rehab"
	"wisefido-motion/internal/sink"
	"wisefido-motion/internal/store"
	"wisefido-motion/internal/workplace"

	"go.uber.org/zap"
)

// 周期评估写入的集合名
const (
	CollectionRiskScores      = "risk_scores"
	CollectionDrift           = "baseline_drift"
	CollectionAlerts          = "caregiver_alerts"
	CollectionBiography       = "motion_biography"
	CollectionViolations      = "workplace_violations"
	CollectionSafetyDashboard = "workplace_safety_dashboard"
)

// ProfileSource 用户画像来源（由 repository.ProfileRepository 实现）
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (models.UserProfile, error)
}

// FallRiskNotifier 高跌倒风险通知（由 notify.SMSNotifier 实现）
type FallRiskNotifier interface {
	NotifyFallRisk(ctx context.Context, userID string, score float64, at time.Time) (bool, error)
}

// AlertPublisher 照护告警发布（由 notify.AlertPublisher 实现）
type AlertPublisher interface {
	Publish(alert models.CaregiverAlert) error
}

// AlertStore 最新告警缓存（由 consumer.AlertCache 实现）
type AlertStore interface {
	Set(ctx context.Context, alert models.CaregiverAlert) error
	Get(ctx context.Context, userID string) (*models.CaregiverAlert, error)
}

// Components MotionService 的依赖；可选项为 nil 时对应功能关闭
type Components struct {
	Events    *store.EventStore
	History   *store.RiskHistory
	Workplace *workplace.Engine
	Router    *evaluator.Router
	Detector  *analysis.Detector
	Biography *analysis.Biography
	Sink      sink.Sink

	Profiles  ProfileSource
	Notifier  FallRiskNotifier
	Publisher AlertPublisher
	Alerts    AlertStore
	Limb      *rehab.LimbAssessor
	Alcohol   *rehab.AlcoholAssessor
}

// NewComponents 用内存状态和给定 Sink 组装核心组件
func NewComponents(baselineDays int, out sink.Sink, logger *zap.Logger) Components {
	events := store.NewEventStore()
	engine := workplace.NewEngine(workplace.NewLedger(), logger)
	return Components{
		Events:    events,
		History:   store.NewRiskHistory(),
		Workplace: engine,
		Router:    evaluator.NewRouter(engine, logger),
		Detector:  analysis.NewDetector(baselineDays),
		Biography: analysis.NewBiography(events),
		Sink:      out,
	}
}

// MotionService 运动风险服务：接收事件、即时解读、周期评估并发布
type MotionService struct {
	Components
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	roles map[string]models.Role      // 消息携带或查询得到的角色
	zones map[string]models.ZoneEvent // 每个用户最近一次区域事件

	bg sync.WaitGroup
}

// NewMotionService 创建服务
func NewMotionService(c Components, logger *zap.Logger) *MotionService {
	if c.Sink == nil {
		c.Sink = sink.Nop{}
	}
	return &MotionService{
		Components: c,
		logger:     logger,
		now:        time.Now,
		roles:      make(map[string]models.Role),
		zones:      make(map[string]models.ZoneEvent),
	}
}

// Ingest 实现 consumer.Handler
func (s *MotionService) Ingest(ctx context.Context, msg *models.IngestMessage) error {
	_, err := s.Process(ctx, msg)
	return err
}

// Process 校验并处理一条入口消息
// 区域事件只记录配对信息，返回 nil；活动事件入库并返回按角色的解读
func (s *MotionService) Process(ctx context.Context, msg *models.IngestMessage) (evaluator.Interpretation, error) {
	if err := msg.Validate(); err != nil {
		observability.IncIngest(msg.Kind, observability.ResultRejected)
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	if msg.Role != "" {
		s.setRole(msg.UserID, models.ParseRole(msg.Role))
	}

	if msg.Kind == models.KindZone {
		s.recordZone(msg.ZoneEvent())
		observability.IncIngest(models.KindZone, observability.ResultSuccess)
		return nil, nil
	}

	event := msg.ActivityEvent()
	s.Events.AddEvent(event.UserID, event)

	profile := s.resolveProfile(ctx, event.UserID)
	var zone *models.ZoneEvent
	if profile.Role == models.RoleEmployee {
		zone = s.latestZone(event.UserID)
	}

	out := s.Router.Route(profile, event, zone)
	s.push(ctx, out.Collection(), out.Payload())

	if rec, ok := out.(*evaluator.WorkplaceRecord); ok {
		s.publishWorkplace(ctx, rec)
	}

	observability.IncIngest(models.KindActivity, observability.ResultSuccess)
	return out, nil
}

func (s *MotionService) publishWorkplace(ctx context.Context, rec *evaluator.WorkplaceRecord) {
	for _, v := range rec.Logged {
		observability.AddViolations(string(v.Severity), 1)
		s.push(ctx, CollectionViolations, map[string]interface{}{
			"violation_id":   v.ViolationID,
			"user_id":        v.UserID,
			"violation_type": v.ViolationType,
			"severity":       string(v.Severity),
			"zone":           string(v.Zone),
			"activity":       string(v.Activity),
			"timestamp":      v.Timestamp.Format(time.RFC3339),
		})
	}
	if len(rec.Logged) == 0 {
		return
	}

	d := s.Workplace.Dashboard(rec.UserID, rec.Zone)
	s.push(ctx, CollectionSafetyDashboard, map[string]interface{}{
		"user_id":          d.UserID,
		"violation_count":  d.ViolationCount,
		"escalation_level": string(d.EscalationLevel),
		"safety_score":     d.SafetyScore,
		"zone_risk_level":  string(d.ZoneRiskLevel),
		"timestamp":        d.Timestamp.Format(time.RFC3339),
	})
}

// EvaluateUser 周期评估：评分、漂移、趋势、告警、传记，并发布结果
func (s *MotionService) EvaluateUser(ctx context.Context, userID string, asOf time.Time) models.Assessment {
	started := time.Now()
	day := models.DateOf(asOf)

	current := s.Detector.CurrentWeek(s.Events, userID, day)
	baseline := s.Detector.Baseline(s.Events, userID, s.Detector.BaselineStart(day))
	scores := analysis.ScoreAll(current)

	s.History.Append(userID, models.RiskSnapshot{Timestamp: asOf, FallRiskScore: scores.FallRisk})

	drift := s.Detector.Detect(baseline, current)
	trend := analysis.AnalyzeTrend(s.History.All(userID))
	alert := analysis.ComposeAlert(userID, trend, drift, s.now())

	a := models.Assessment{
		UserID:    userID,
		AsOf:      day,
		Timestamp: asOf,
		Current:   current,
		Baseline:  baseline,
		Scores:    scores,
		Drift:     drift,
		Trend:     trend,
		Alert:     alert,
		Summary:   s.Biography.DailySummary(userID, day),
		Weekly:    s.Biography.WeeklyTrend(userID, day),
	}

	s.publishAssessment(ctx, a)
	observability.IncAlert(string(alert.Severity))
	observability.ObserveAssessment(observability.ResultSuccess, time.Since(started))

	s.logger.Debug("User assessed",
		zap.String("user_id", userID),
		zap.Float64("fall_risk_score", scores.FallRisk),
		zap.Int("drift_score", drift.DriftScore),
		zap.String("trend", string(trend)),
		zap.String("severity", string(alert.Severity)),
	)
	return a
}

func (s *MotionService) publishAssessment(ctx context.Context, a models.Assessment) {
	ts := a.Timestamp.UTC().Format(time.RFC3339)

	s.push(ctx, CollectionRiskScores, map[string]interface{}{
		"user_id":              a.UserID,
		"timestamp":            ts,
		"fall_risk_score":      a.Scores.FallRisk,
		"safety_risk_score":    a.Scores.SafetyRisk,
		"rehab_progress_score": a.Scores.RehabProgress,
	})
	s.push(ctx, CollectionDrift, map[string]interface{}{
		"user_id":     a.UserID,
		"timestamp":   ts,
		"drift_score": a.Drift.DriftScore,
		"drift_level": string(a.Drift.DriftLevel),
		"alerts":      a.Drift.Alerts,
	})
	s.push(ctx, CollectionAlerts, map[string]interface{}{
		"alert_id":  a.Alert.AlertID,
		"user_id":   a.UserID,
		"timestamp": a.Alert.Timestamp.Format(time.RFC3339),
		"severity":  string(a.Alert.Severity),
		"trend":     string(a.Alert.Trend),
		"messages":  a.Alert.Messages,
	})

	bio := map[string]interface{}{
		"user_id":           a.UserID,
		"date":              a.AsOf.String(),
		"walk_change":       a.Weekly.WalkChange,
		"near_fall_change":  a.Weekly.NearFallChange,
		"inactivity_change": a.Weekly.InactivityChange,
		"narratives":        a.Weekly.Narratives,
	}
	if a.Summary != nil {
		bio["walking_duration"] = a.Summary.WalkingDuration
		bio["transition_count"] = a.Summary.TransitionCount
		bio["near_falls"] = a.Summary.NearFalls
		bio["inactivity_time"] = a.Summary.InactivityTime
		bio["fall_risk_score"] = a.Summary.FallRiskScore
	}
	s.push(ctx, CollectionBiography, bio)

	alert := a.Alert
	score := a.Scores.FallRisk
	s.background(func(ctx context.Context) {
		if s.Alerts != nil {
			if err := s.Alerts.Set(ctx, alert); err != nil {
				s.logger.Error("Failed to cache alert", zap.String("user_id", alert.UserID), zap.Error(err))
			}
		}
		if s.Publisher != nil {
			if err := s.Publisher.Publish(alert); err != nil {
				s.logger.Error("Failed to publish alert", zap.String("user_id", alert.UserID), zap.Error(err))
			}
		}
		if s.Notifier != nil {
			if _, err := s.Notifier.NotifyFallRisk(ctx, alert.UserID, score, alert.Timestamp); err != nil {
				s.logger.Error("Failed to send fall risk notification", zap.String("user_id", alert.UserID), zap.Error(err))
			}
		}
	})
}

// EvaluateAll 评估所有有事件的用户
func (s *MotionService) EvaluateAll(ctx context.Context, asOf time.Time) int {
	users := s.Events.Users()
	observability.SetTrackedUsers(len(users))

	n := 0
	for _, userID := range users {
		if ctx.Err() != nil {
			break
		}
		s.EvaluateUser(ctx, userID, asOf)
		n++
	}
	return n
}

// Run 按间隔周期评估，ctx 取消时返回
func (s *MotionService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Periodic assessment started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Periodic assessment stopped")
			return
		case <-ticker.C:
			n := s.EvaluateAll(ctx, s.now())
			s.logger.Debug("Assessment round finished", zap.Int("user_count", n))
		}
	}
}

// LatestAlert 最近一次告警（缓存未配置时返回 nil）
func (s *MotionService) LatestAlert(ctx context.Context, userID string) (*models.CaregiverAlert, error) {
	if s.Alerts == nil {
		return nil, nil
	}
	return s.Alerts.Get(ctx, userID)
}

// RiskHistory 用户的全部快照（旧→新）
func (s *MotionService) RiskHistory(userID string) []models.RiskSnapshot {
	return s.History.All(userID)
}

// WorkplaceDashboard 当前看板，区域取最近一次区域事件
func (s *MotionService) WorkplaceDashboard(userID string) models.WorkplaceDashboard {
	return s.Workplace.Dashboard(userID, workplace.ResolveZone(userID, s.latestZone(userID)))
}

// BiographyRange 区间日摘要和截至 end 的周趋势
func (s *MotionService) BiographyRange(userID string, start, end models.Date) ([]models.DailySummary, models.WeeklyTrend) {
	return s.Biography.DailySummaries(userID, start, end), s.Biography.WeeklyTrend(userID, end)
}

// Wait 等待后台通知完成
func (s *MotionService) Wait() {
	s.bg.Wait()
}

func (s *MotionService) push(ctx context.Context, collection string, payload map[string]interface{}) {
	if err := s.Sink.Push(ctx, collection, payload); err != nil {
		s.logger.Error("Failed to push document",
			zap.String("collection", collection),
			zap.Error(err),
		)
	}
}

// background 通知类调用不阻塞评估
func (s *MotionService) background(fn func(ctx context.Context)) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		fn(ctx)
	}()
}

func (s *MotionService) setRole(userID string, role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[userID] = role
}

// resolveProfile 消息携带的角色优先，其次画像仓库；都没有时为 unknown
func (s *MotionService) resolveProfile(ctx context.Context, userID string) models.UserProfile {
	s.mu.RLock()
	role, ok := s.roles[userID]
	s.mu.RUnlock()
	if ok {
		return models.UserProfile{UserID: userID, Role: role}
	}

	if s.Profiles == nil {
		return models.UserProfile{UserID: userID, Role: models.RoleUnknown}
	}

	profile, err := s.Profiles.GetProfile(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load profile, treating as unknown",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return models.UserProfile{UserID: userID, Role: models.RoleUnknown}
	}
	s.setRole(userID, profile.Role)
	return profile
}

func (s *MotionService) recordZone(z models.ZoneEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones[z.UserID] = z
}

func (s *MotionService) latestZone(userID string) *models.ZoneEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	z, ok := s.zones[userID]
	if !ok {
		return nil
	}
	return &z
}
