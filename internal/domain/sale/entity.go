package sale

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout dateOfSale的对外格式
const DateLayout = "2006-01-02"

// Sale 一条商品销售记录
// 记录导入后不可变，唯一的写操作是整体替换（ReplaceAll）
type Sale struct {
	ID          string // Mongo为ObjectID十六进制，MySQL为自增主键
	Title       string
	Description string
	Price       float64 // 假定>=0，不做强制
	Category    string
	Image       string
	Sold        bool
	DateOfSale  time.Time // UTC零点
}

// NewSale 创建销售记录，dateOfSale会被规整到UTC日期
func NewSale(title, description string, price float64, category, image string, sold bool, dateOfSale time.Time) *Sale {
	return &Sale{
		Title:       title,
		Description: description,
		Price:       price,
		Category:    category,
		Image:       image,
		Sold:        sold,
		DateOfSale:  NormalizeDate(dateOfSale),
	}
}

// NormalizeDate 转为UTC后截断到当天零点
//
// 2021-11-27T20:29:54+05:30 → 2021-11-27T00:00:00Z
// 2021-10-27T02:29:54+05:30 → 2021-10-26T00:00:00Z（UTC下仍是前一天）
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseSaleDate 解析数据源中的日期
// 支持RFC3339（带时区）、不带时区的日期时间和纯日期，结果已规整
func ParseSaleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized dateOfSale %q", s)
}

// FormatDate 以YYYY-MM-DD输出
func (s *Sale) FormatDate() string {
	return s.DateOfSale.Format(DateLayout)
}

// Summary 某月销售汇总
type Summary struct {
	TotalSaleAmount   float64 // sold=true的price之和
	TotalSoldItems    int64
	TotalNotSoldItems int64
}

// KeyCount 分组计数（价格区间或类目）
type KeyCount struct {
	Key   string
	Count int64
}
