package model

import (
	"time"

	"gorm.io/gorm"
)

// Base 公共字段
type Base struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InitTables 初始化数据库表
func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Article{},
	)
}
