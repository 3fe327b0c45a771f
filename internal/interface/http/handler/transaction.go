package handler

import (
	"github.com/gin-gonic/gin"

	apptransaction "github.com/xiebiao/saledash/internal/application/transaction"
	"github.com/xiebiao/saledash/internal/interface/http/dto"
	apperrors "github.com/xiebiao/saledash/pkg/errors"
	"github.com/xiebiao/saledash/pkg/response"
)

// TransactionHandler 交易列表与分析接口
type TransactionHandler struct {
	listUseCase       *apptransaction.ListTransactionsUseCase
	statisticsUseCase *apptransaction.GetStatisticsUseCase
	barChartUseCase   *apptransaction.GetBarChartUseCase
	pieChartUseCase   *apptransaction.GetPieChartUseCase
	combinedUseCase   *apptransaction.CombinedDataUseCase
}

// NewTransactionHandler 创建交易处理器
func NewTransactionHandler(
	listUseCase *apptransaction.ListTransactionsUseCase,
	statisticsUseCase *apptransaction.GetStatisticsUseCase,
	barChartUseCase *apptransaction.GetBarChartUseCase,
	pieChartUseCase *apptransaction.GetPieChartUseCase,
	combinedUseCase *apptransaction.CombinedDataUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		listUseCase:       listUseCase,
		statisticsUseCase: statisticsUseCase,
		barChartUseCase:   barChartUseCase,
		pieChartUseCase:   pieChartUseCase,
		combinedUseCase:   combinedUseCase,
	}
}

// ListTransactions 交易列表
// @Summary      交易列表
// @Description  按月份过滤，search匹配标题/描述（不区分大小写），是数字时同时匹配价格
// @Tags         交易
// @Produce      json
// @Param        month    query int    false "月份(1-12)"
// @Param        page     query int    false "页码" default(1)
// @Param        perPage  query int    false "每页数量(1-100)" default(10)
// @Param        search   query string false "搜索词"
// @Success      200 {object} apptransaction.ListTransactionsResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      500 {object} response.ErrorBody "服务器错误"
// @Router       /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var q dto.ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), q.ToRequest())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetStatistics 月度汇总
// @Summary      月度销售汇总
// @Description  已售总金额、已售数量、未售数量
// @Tags         分析
// @Produce      json
// @Param        month query int true "月份(1-12)"
// @Success      200 {object} apptransaction.StatisticsResponse
// @Failure      400 {object} response.ErrorBody "缺少月份"
// @Failure      404 {object} response.ErrorBody "该月没有数据"
// @Failure      500 {object} response.ErrorBody "服务器错误"
// @Router       /getStatisics [get]
func (h *TransactionHandler) GetStatistics(c *gin.Context) {
	var q dto.MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.statisticsUseCase.Execute(c.Request.Context(), apptransaction.GetStatisticsRequest{Month: q.Value()})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBarChart 价格区间分布
// @Summary      月度价格区间分布
// @Description  固定10个区间，上界包含，901-above没有上界
// @Tags         分析
// @Produce      json
// @Param        month query int true "月份(1-12)"
// @Success      200 {array}  dto.BarChartItem
// @Failure      400 {object} response.ErrorBody "缺少月份"
// @Failure      500 {object} response.ErrorBody "服务器错误"
// @Router       /barChart [get]
func (h *TransactionHandler) GetBarChart(c *gin.Context) {
	var q dto.MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.barChartUseCase.Execute(c.Request.Context(), apptransaction.GetBarChartRequest{Month: q.Value()})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result.Buckets)
}

// GetPieChart 类目分布
// @Summary      月度类目分布
// @Description  计数降序，同数按类目名升序
// @Tags         分析
// @Produce      json
// @Param        month query int true "月份(1-12)"
// @Success      200 {object} apptransaction.PieChartResponse
// @Failure      400 {object} response.ErrorBody "缺少月份"
// @Failure      500 {object} response.ErrorBody "服务器错误"
// @Router       /getPieChartData [get]
func (h *TransactionHandler) GetPieChart(c *gin.Context) {
	var q dto.MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.pieChartUseCase.Execute(c.Request.Context(), apptransaction.GetPieChartRequest{Month: q.Value()})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CombinedData 组合查询
// @Summary      列表与三个分析视图
// @Tags         分析
// @Produce      json
// @Param        month    query int    true  "月份(1-12)"
// @Param        page     query int    false "页码" default(1)
// @Param        perPage  query int    false "每页数量(1-100)" default(10)
// @Param        search   query string false "搜索词"
// @Success      200 {object} apptransaction.CombinedDataResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      404 {object} response.ErrorBody "该月没有数据"
// @Failure      500 {object} response.ErrorBody "服务器错误"
// @Router       /combinedData [get]
func (h *TransactionHandler) CombinedData(c *gin.Context) {
	var q dto.ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.combinedUseCase.Execute(c.Request.Context(), q.ToCombinedRequest())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// bindError 查询参数绑定或校验失败（非数字、越界、超长）
func bindError(err error) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeBindError, "Invalid query parameters")
}
