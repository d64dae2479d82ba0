// Package health 存储连通性检查
package health

import (
	"context"

	"github.com/xiebiao/booklibrary/pkg/tracing"
)

// ConnectedMessage 连通时的提示
const ConnectedMessage = "Pinged your deployment. You successfully connected to MongoDB Atlas!"

// Pinger 可以探测连通性的存储
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckConnectionUseCase 连通性检查用例
type CheckConnectionUseCase struct {
	pinger Pinger
}

// NewCheckConnectionUseCase 创建连通性检查用例
func NewCheckConnectionUseCase(pinger Pinger) *CheckConnectionUseCase {
	return &CheckConnectionUseCase{pinger: pinger}
}

// CheckConnectionResponse 检查结果
type CheckConnectionResponse struct {
	Message string `json:"message" example:"Pinged your deployment. You successfully connected to MongoDB Atlas!"`
}

// Execute 发一次ping,失败时原样返回存储错误
func (uc *CheckConnectionUseCase) Execute(ctx context.Context) (resp *CheckConnectionResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "booklibrary", "HealthService.CheckConnection")
	defer func() { tracing.EndSpan(span, err) }()

	if err := uc.pinger.Ping(ctx); err != nil {
		return nil, err
	}
	return &CheckConnectionResponse{Message: ConnectedMessage}, nil
}
