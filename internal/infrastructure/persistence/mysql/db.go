package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/saledash/internal/infrastructure/config"
)

// NewDB 创建数据库连接（store.driver=mysql）
// 开发环境打印SQL，生产环境静默
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("MySQL连接成功", zap.String("dbname", cfg.Database.DBName))

	// 生产环境应使用版本化迁移脚本
	if err := db.AutoMigrate(&SaleModel{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// SaleModel GORM销售记录模型
// 领域实体sale.Sale不带GORM tag，由仓储负责转换
type SaleModel struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:255;not null;comment:商品标题"`
	Description string    `gorm:"type:text;comment:商品描述"`
	Price       float64   `gorm:"type:double;not null;comment:价格"`
	Category    string    `gorm:"size:100;index;comment:类目"`
	Image       string    `gorm:"size:500;comment:图片URL"`
	Sold        bool      `gorm:"not null;default:false;comment:是否售出"`
	DateOfSale  time.Time `gorm:"type:date;index;not null;comment:销售日期(UTC)"`
}

// TableName 指定表名
func (SaleModel) TableName() string {
	return "transactions"
}
