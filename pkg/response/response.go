package response

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/saledash/pkg/errors"
)

// ErrorBody 错误响应结构
// 设计说明：
// 1. 成功响应直接返回业务数据（不包信封），保持与前端约定的接口格式
// 2. 失败响应统一为{"message": "..."}，HTTP状态码由错误码号段决定
type ErrorBody struct {
	Message string `json:"message"`
}

// Success 成功响应（200 + 业务数据）
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	result, err := uc.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	// 内部错误只写日志，不返回给客户端
	if appErr.Err != nil || status >= 500 {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("code", appErr.Code),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(appErr),
		)
	}

	_ = c.Error(appErr)
	c.JSON(status, ErrorBody{Message: appErr.Message})
}

// Abort 错误响应并中断后续中间件
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
