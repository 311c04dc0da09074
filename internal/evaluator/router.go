package evaluator

import (
	"time"

	"wisefido-motion/internal/models"
	"wisefido-motion/internal/workplace"

	"go.uber.org/zap"
)

// Router 按用户角色分发事件（实现只做解读，不写 sink）
type Router struct {
	workplace *workplace.Engine
	logger    *zap.Logger
	now       func() time.Time
}

// NewRouter 创建路由器
func NewRouter(engine *workplace.Engine, logger *zap.Logger) *Router {
	return &Router{
		workplace: engine,
		logger:    logger,
		now:       time.Now,
	}
}

// Route 按角色选择处理器；zone 仅对 employee 有意义，可为 nil
func (r *Router) Route(profile models.UserProfile, activity models.ActivityEvent, zone *models.ZoneEvent) Interpretation {
	if activity.UserID == "" {
		activity.UserID = profile.UserID
	}
	now := r.now().UTC()

	switch profile.Role {
	case models.RoleElderly:
		return evaluateElderly(activity, now)
	case models.RoleEmployee:
		return r.evaluateWorkplace(activity, zone, now)
	case models.RoleRehab:
		return evaluateRehab(activity, now)
	default:
		r.logger.Debug("Unknown user role",
			zap.String("user_id", profile.UserID),
			zap.String("role", string(profile.Role)),
		)
		return &UnknownRecord{
			UserID:    profile.UserID,
			Timestamp: now,
			Message:   "Unknown user role",
		}
	}
}
