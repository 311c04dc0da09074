package rehab

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// predictRequest 推理服务请求
type predictRequest struct {
	Features Features `json:"features"`
}

// predictResponse 推理服务响应
type predictResponse struct {
	Prediction    float64   `json:"prediction"`
	Probabilities []float64 `json:"probabilities"`
	Error         string    `json:"error,omitempty"`
}

// ModelClient 外部模型推理服务客户端
// POST /models/{name}/predict 与 /models/{name}/predict_proba
type ModelClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewModelClient 创建客户端
func NewModelClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ModelClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &ModelClient{httpClient: client, logger: logger}
}

// Regressor 按模型名取回归模型
func (c *ModelClient) Regressor(name string) Regressor {
	return RegressorFunc(func(ctx context.Context, features Features) (float64, error) {
		resp, err := c.call(ctx, name, "predict", features)
		if err != nil {
			return 0, err
		}
		return resp.Prediction, nil
	})
}

// Classifier 按模型名取分类模型
func (c *ModelClient) Classifier(name string) Classifier {
	return ClassifierFunc(func(ctx context.Context, features Features) ([]float64, error) {
		resp, err := c.call(ctx, name, "predict_proba", features)
		if err != nil {
			return nil, err
		}
		return resp.Probabilities, nil
	})
}

func (c *ModelClient) call(ctx context.Context, name, op string, features Features) (*predictResponse, error) {
	var out predictResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"name": name, "op": op}).
		SetBody(predictRequest{Features: features}).
		SetResult(&out).
		SetError(&out).
		Post("/models/{name}/{op}")
	if err != nil {
		c.logger.Error("Model service call failed",
			zap.String("model", name),
			zap.String("op", op),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to call model %s: %w", name, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("model %s returned status %d: %s", name, resp.StatusCode(), out.Error)
	}
	return &out, nil
}
