// Package source 从第三方地址拉取商品销售数据集
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/internal/infrastructure/config"
	"github.com/xiebiao/saledash/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/saledash/pkg/errors"
)

// maxPayloadSize 数据集大小上限
const maxPayloadSize = 32 << 20

// ErrPayloadTooLarge 数据集超过大小上限，不截断解析
var ErrPayloadTooLarge = errors.New("dataset exceeds size limit")

// productItem 数据源中的一条记录
// 数据源自带的id不导入，存储重新生成
type productItem struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Category    string      `json:"category"`
	Image       string      `json:"image"`
	Sold        bool        `json:"sold"`
	DateOfSale  string      `json:"dateOfSale"`
}

// Client 数据集客户端
type Client struct {
	url      string
	http     *http.Client
	breaker  *circuitbreaker.CircuitBreaker
	maxBytes int64
	logger   *zap.Logger
}

// NewClient 创建数据集客户端
// 连续失败达到阈值后熔断，冷却期内直接返回ErrOpenState
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	breaker := circuitbreaker.New("dataset-source", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    cfg.Source.Breaker.Interval,
		Timeout:     cfg.Source.Breaker.OpenTimeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(cfg.Source.Breaker.MaxFailures),
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	})

	return &Client{
		url:      cfg.Source.URL,
		http:     &http.Client{Timeout: cfg.Source.Timeout},
		breaker:  breaker,
		maxBytes: maxPayloadSize,
		logger:   logger,
	}
}

// Fetch 拉取并解析数据集
//
// 错误：
//   - 网络错误、非200状态、超过大小上限、熔断：ErrCodeUpstreamError（500）
//   - 不是JSON数组、记录字段不合法：sale.ErrInvalidSourcePayload（400）
func (c *Client) Fetch(ctx context.Context) ([]*sale.Sale, error) {
	var body []byte

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		body, err = c.download(ctx)
		return err
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeUpstreamError, "Failed to fetch data from API")
	}

	return decode(body)
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.url)
	}

	// 多读一个字节用来判断是否超限
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrPayloadTooLarge, c.maxBytes, c.url)
	}

	c.logger.Info("数据集下载完成",
		zap.String("url", c.url),
		zap.Int("bytes", len(body)),
		zap.Duration("latency", time.Since(start)),
	)
	return body, nil
}

// decode 解析数据集，顶层必须是数组
func decode(body []byte) ([]*sale.Sale, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, sale.ErrInvalidSourcePayload
	}

	var items []productItem
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return nil, invalidPayload(err)
	}

	sales := make([]*sale.Sale, 0, len(items))
	for i, item := range items {
		s, err := item.toSale()
		if err != nil {
			return nil, invalidPayload(fmt.Errorf("item %d: %w", i, err))
		}
		sales = append(sales, s)
	}
	return sales, nil
}

func (p productItem) toSale() (*sale.Sale, error) {
	price, err := p.Price.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", p.Price)
	}

	date, err := sale.ParseSaleDate(p.DateOfSale)
	if err != nil {
		return nil, err
	}

	return sale.NewSale(p.Title, p.Description, price, p.Category, p.Image, p.Sold, date), nil
}

func invalidPayload(err error) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeInvalidSourcePayload, sale.ErrInvalidSourcePayload.Message)
}
