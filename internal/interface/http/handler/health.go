package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/xiebiao/booklibrary/internal/application/health"
	"github.com/xiebiao/booklibrary/pkg/response"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	checkConnectionUseCase *health.CheckConnectionUseCase
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(checkConnectionUseCase *health.CheckConnectionUseCase) *HealthHandler {
	return &HealthHandler{checkConnectionUseCase: checkConnectionUseCase}
}

// TestDBConnection 存储连通性检查
// @Summary      存储连通性检查
// @Description  向存储发一次ping;失败时返回503和存储给出的错误描述
// @Tags         健康检查
// @Produce      json
// @Success      200 {object} health.CheckConnectionResponse
// @Failure      503 {object} dto.ConnectionErrorResponse "存储不可用"
// @Router       /test-db-connection/ [get]
func (h *HealthHandler) TestDBConnection(c *gin.Context) {
	result, err := h.checkConnectionUseCase.Execute(c.Request.Context())
	if err != nil {
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("存储连通性检查失败")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	response.Success(c, result)
}

// Ping 进程存活检查,不访问任何依赖
// @Summary      存活检查
// @Tags         健康检查
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"message": "pong",
		"status":  "healthy",
	})
}
