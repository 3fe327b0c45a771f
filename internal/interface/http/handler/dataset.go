package handler

import (
	"github.com/gin-gonic/gin"

	appdataset "github.com/xiebiao/saledash/internal/application/dataset"
	"github.com/xiebiao/saledash/pkg/response"
)

// DatasetHandler 数据集导入接口
type DatasetHandler struct {
	initUseCase *appdataset.InitDatabaseUseCase
}

// NewDatasetHandler 创建导入处理器
func NewDatasetHandler(initUseCase *appdataset.InitDatabaseUseCase) *DatasetHandler {
	return &DatasetHandler{initUseCase: initUseCase}
}

// InitDatabase 从数据源重新导入全部记录
// @Summary      初始化数据库
// @Description  拉取数据集，删除全部旧记录后批量写入。auth.enabled时需要管理员令牌
// @Tags         数据集
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} appdataset.InitDatabaseResponse
// @Failure      400 {object} response.ErrorBody "数据源格式错误"
// @Failure      401 {object} response.ErrorBody "未认证"
// @Failure      500 {object} response.ErrorBody "拉取或写入失败"
// @Router       /dbInit [get]
func (h *DatasetHandler) InitDatabase(c *gin.Context) {
	result, err := h.initUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
