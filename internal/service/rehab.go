package service

import (
	"context"
	"errors"

	"wisefido-motion/internal/rehab"
)

// ErrRehabDisabled 未配置模型服务
var ErrRehabDisabled = errors.New("rehabilitation models are not configured")

// AssessLimb 肢体康复指数评估并发布到 rehab_predictions
func (s *MotionService) AssessLimb(ctx context.Context, userID string, features rehab.Features) (*rehab.LimbResult, error) {
	if s.Limb == nil {
		return nil, ErrRehabDisabled
	}
	res, err := s.Limb.Assess(ctx, userID, features)
	if err != nil {
		return nil, err
	}
	s.push(ctx, rehab.CollectionLimb, res.Payload())
	return res, nil
}

// AssessAlcohol 戒酒康复指数评估并发布到 alcohol_rehab_predictions
func (s *MotionService) AssessAlcohol(ctx context.Context, userID string, sleep, stress rehab.Features) (*rehab.AlcoholResult, error) {
	if s.Alcohol == nil {
		return nil, ErrRehabDisabled
	}
	res, err := s.Alcohol.Assess(ctx, userID, sleep, stress)
	if err != nil {
		return nil, err
	}
	s.push(ctx, rehab.CollectionAlcohol, res.Payload())
	return res, nil
}
