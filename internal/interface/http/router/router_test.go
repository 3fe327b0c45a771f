package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appdataset "github.com/xiebiao/saledash/internal/application/dataset"
	apptransaction "github.com/xiebiao/saledash/internal/application/transaction"
	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/internal/domain/sale/mocks"
	"github.com/xiebiao/saledash/internal/infrastructure/config"
	"github.com/xiebiao/saledash/internal/interface/http/handler"
	"github.com/xiebiao/saledash/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/saledash/pkg/errors"
	"github.com/xiebiao/saledash/pkg/jwt"
)

type stubSource struct {
	sales []*sale.Sale
	err   error
}

func (s stubSource) Fetch(context.Context) ([]*sale.Sale, error) {
	return s.sales, s.err
}

type testServer struct {
	engine *gin.Engine
	repo   *mocks.Repository
	jwt    *jwt.Manager
}

func newTestServer(t *testing.T, authEnabled bool, src appdataset.Source) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		CORS:   config.CORSConfig{AllowOrigins: []string{"*"}},
	}
	logger := zap.NewNop()

	repo := new(mocks.Repository)
	svc := sale.NewService(repo)
	cache := apptransaction.NopCache{}

	list := apptransaction.NewListTransactionsUseCase(svc)
	stats := apptransaction.NewGetStatisticsUseCase(svc, cache, logger)
	bar := apptransaction.NewGetBarChartUseCase(svc, cache, logger)
	pie := apptransaction.NewGetPieChartUseCase(svc, cache, logger)
	combined := apptransaction.NewCombinedDataUseCase(list, stats, bar, pie)
	initDB := appdataset.NewInitDatabaseUseCase(src, svc, appdataset.NopInvalidator{}, appdataset.NopPublisher{}, logger)

	jwtManager := jwt.NewManager("test-secret", time.Hour)

	engine := New(cfg, logger,
		handler.NewTransactionHandler(list, stats, bar, pie, combined),
		handler.NewDatasetHandler(initDB),
		middleware.NewAuthMiddleware(jwtManager, authEnabled),
	)
	return &testServer{engine: engine, repo: repo, jwt: jwtManager}
}

func (s *testServer) get(t *testing.T, target string, header ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func monthPlan(month int) interface{} {
	return mock.MatchedBy(func(p sale.Plan) bool {
		m, ok := p.Month()
		return ok && m.Month == month
	})
}

func TestRouter_Ping(t *testing.T) {
	s := newTestServer(t, false, stubSource{})
	w, body := s.get(t, "/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", body["message"])
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_Transactions(t *testing.T) {
	t.Run("第2页每页5条", func(t *testing.T) {
		s := newTestServer(t, false, stubSource{})
		date := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
		s.repo.On("Find", mock.Anything, mock.MatchedBy(func(p sale.Plan) bool {
			page, ok := p.Pagination()
			return ok && page.Skip == 5 && page.Limit == 5
		})).Return([]*sale.Sale{{ID: "6", Title: "Jacket", Price: 55.99, DateOfSale: date}}, nil)
		s.repo.On("CountAll", mock.Anything).Return(int64(60), nil)

		w, body := s.get(t, "/transactions?page=2&perPage=5")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(60), body["totalCount"])
		assert.Equal(t, float64(2), body["page"])
		assert.Equal(t, float64(5), body["perPage"])

		items := body["transactions"].([]interface{})
		require.Len(t, items, 1)
		item := items[0].(map[string]interface{})
		assert.Equal(t, "6", item["_id"])
		assert.Equal(t, "2022-03-01", item["dateOfSale"])
	})

	t.Run("数字搜索不带月份", func(t *testing.T) {
		s := newTestServer(t, false, stubSource{})
		s.repo.On("Find", mock.Anything, mock.MatchedBy(func(p sale.Plan) bool {
			search, ok := p.Search()
			_, hasMonth := p.Month()
			return ok && !hasMonth && search.Price != nil && *search.Price == 150
		})).Return([]*sale.Sale{}, nil).Once()
		s.repo.On("CountAll", mock.Anything).Return(int64(60), nil)

		w, _ := s.get(t, "/transactions?search=150")
		assert.Equal(t, http.StatusOK, w.Code)
		s.repo.AssertExpectations(t)
	})

	tests := []struct {
		name  string
		query string
	}{
		{"页码不是数字", "page=abc"},
		{"页码为0", "page=0"},
		{"每页数量超过上限", "perPage=500"},
		{"页码过大导致跳过数溢出", "page=922337203685477581&perPage=100"},
		{"月份越界", "month=13"},
		{"月份不是数字", "month=march"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, false, stubSource{})
			w, body := s.get(t, "/transactions?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, body["message"])
			s.repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
		})
	}

	t.Run("存储失败", func(t *testing.T) {
		s := newTestServer(t, false, stubSource{})
		s.repo.On("Find", mock.Anything, mock.Anything).
			Return(nil, apperrors.WrapCode(errors.New("socket closed"), apperrors.ErrCodeDatabaseError, "Server error"))

		w, body := s.get(t, "/transactions")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Server error", body["message"])
	})
}

func TestRouter_Statistics(t *testing.T) {
	t.Run("11月", func(t *testing.T) {
		s := newTestServer(t, false, stubSource{})
		s.repo.On("Summarize", mock.Anything, monthPlan(11)).
			Return(&sale.Summary{TotalSaleAmount: 300, TotalSoldItems: 2, TotalNotSoldItems: 1}, nil)

		w, body := s.get(t, "/getStatisics?month=11")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(300), body["totalSaleAmount"])
		assert.Equal(t, float64(2), body["totalSoldItems"])
		assert.Equal(t, float64(1), body["totalNotSoldItems"])
	})

	t.Run("缺少月份", func(t *testing.T) {
		s := newTestServer(t, false, stubSource{})
		w, body := s.get(t, "/getStatisics")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Month is required", body["message"])
		s.repo.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
	})

	t.Run("该月没有数据", func(t *testing.T) {
		s := newTestServer(t, false, stubSource{})
		s.repo.On("Summarize", mock.Anything, monthPlan(2)).Return(nil, nil)

		w, body := s.get(t, "/getStatisics?month=2")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "No data found for the selected month", body["message"])
	})
}

func TestRouter_BarChart(t *testing.T) {
	for _, path := range []string{"/barChart", "/getBarChartData"} {
		t.Run(path, func(t *testing.T) {
			s := newTestServer(t, false, stubSource{})
			s.repo.On("CountByKey", mock.Anything, monthPlan(5)).Return([]sale.KeyCount{}, nil)

			req := httptest.NewRequest(http.MethodGet, path+"?month=5", nil)
			w := httptest.NewRecorder()
			s.engine.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			var buckets []sale.BucketCount
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &buckets))
			require.Len(t, buckets, 10)
			assert.Equal(t, "0-100", buckets[0].Range)
			assert.Equal(t, "901-above", buckets[9].Range)
			for _, b := range buckets {
				assert.Zero(t, b.Count)
			}
		})
	}

	t.Run("缺少月份", func(t *testing.T) {
		s := newTestServer(t, false, stubSource{})
		w, _ := s.get(t, "/barChart")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_PieChart(t *testing.T) {
	s := newTestServer(t, false, stubSource{})
	s.repo.On("CountByKey", mock.Anything, monthPlan(3)).
		Return([]sale.KeyCount{{Key: "A", Count: 3}, {Key: "B", Count: 1}}, nil)

	w, _ := s.get(t, "/getPieChartData?month=3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"categories":[{"category":"A","count":3},{"category":"B","count":1}]}`, w.Body.String())

	t.Run("缺少月份", func(t *testing.T) {
		w, body := s.get(t, "/getPieChartData")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Month is required", body["message"])
	})
}

func TestRouter_CombinedData(t *testing.T) {
	s := newTestServer(t, false, stubSource{})
	s.repo.On("Find", mock.Anything, monthPlan(3)).Return([]*sale.Sale{}, nil)
	s.repo.On("CountAll", mock.Anything).Return(int64(60), nil)
	s.repo.On("Summarize", mock.Anything, monthPlan(3)).
		Return(&sale.Summary{TotalSaleAmount: 10, TotalSoldItems: 1}, nil)
	s.repo.On("CountByKey", mock.Anything, monthPlan(3)).Return([]sale.KeyCount{}, nil)

	w, body := s.get(t, "/combinedData?month=3")
	require.Equal(t, http.StatusOK, w.Code)
	for _, key := range []string{"transactions", "statistics", "barData", "pieData"} {
		assert.Contains(t, body, key)
	}
	assert.Len(t, body["barData"], 10)
}

func TestRouter_DBInit(t *testing.T) {
	date := time.Date(2021, 11, 27, 0, 0, 0, 0, time.UTC)
	sales := []*sale.Sale{sale.NewSale("A", "", 10, "x", "", true, date)}

	t.Run("未开启认证", func(t *testing.T) {
		s := newTestServer(t, false, stubSource{sales: sales})
		s.repo.On("ReplaceAll", mock.Anything, sales).Return(int64(1), nil)

		w, body := s.get(t, "/dbInit")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Database initialized successfully!", body["message"])
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("数据源格式错误", func(t *testing.T) {
		s := newTestServer(t, false, stubSource{err: sale.ErrInvalidSourcePayload})
		w, body := s.get(t, "/dbInit")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid data format from API", body["message"])
	})

	t.Run("开启认证后缺少令牌", func(t *testing.T) {
		s := newTestServer(t, true, stubSource{sales: sales})
		w, _ := s.get(t, "/dbInit")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		s.repo.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything)
	})

	t.Run("开启认证后令牌无效", func(t *testing.T) {
		s := newTestServer(t, true, stubSource{sales: sales})
		w, _ := s.get(t, "/dbInit", "Authorization", "Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("非管理员令牌", func(t *testing.T) {
		s := newTestServer(t, true, stubSource{sales: sales})
		token, err := s.jwt.GenerateToken("viewer", "viewer")
		require.NoError(t, err)

		w, _ := s.get(t, "/dbInit", "Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("管理员令牌", func(t *testing.T) {
		s := newTestServer(t, true, stubSource{sales: sales})
		s.repo.On("ReplaceAll", mock.Anything, sales).Return(int64(1), nil)
		token, err := s.jwt.GenerateToken("ops", jwt.RoleAdmin)
		require.NoError(t, err)

		w, _ := s.get(t, "/dbInit", "Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
