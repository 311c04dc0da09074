package rehab

import "context"

// Features 模型输入特征（名称 -> 数值）
type Features map[string]float64

// Regressor 回归模型（输出一个连续值）
type Regressor interface {
	Predict(ctx context.Context, features Features) (float64, error)
}

// Classifier 分类模型（输出各类别概率）
type Classifier interface {
	PredictProba(ctx context.Context, features Features) ([]float64, error)
}

// RegressorFunc 函数适配为 Regressor
type RegressorFunc func(ctx context.Context, features Features) (float64, error)

func (f RegressorFunc) Predict(ctx context.Context, features Features) (float64, error) {
	return f(ctx, features)
}

// ClassifierFunc 函数适配为 Classifier
type ClassifierFunc func(ctx context.Context, features Features) ([]float64, error)

func (f ClassifierFunc) PredictProba(ctx context.Context, features Features) ([]float64, error) {
	return f(ctx, features)
}
