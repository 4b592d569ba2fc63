// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout 日期格式 (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// Position 职种
type Position string

const (
	PositionNurse     Position = "nurse"     // 看护师
	PositionEngineer  Position = "engineer"  // 临床工学技士
	PositionAssistant Position = "assistant" // 护理辅助
)

// AllPositions 返回所有职种（顺序固定，排班时按此顺序处理）
func AllPositions() []Position {
	return []Position{PositionNurse, PositionEngineer, PositionAssistant}
}

// legacyPositionLabels 旧系统职种标签兼容映射
var legacyPositionLabels = map[string]Position{
	"看護師":    PositionNurse,
	"臨床工学技士": PositionEngineer,
	"介護福祉士":  PositionAssistant,
	"看護補助":   PositionAssistant,
}

// ParsePosition 解析职种标识
// 兼容旧数据中的日文标签
func ParsePosition(s string) (Position, bool) {
	switch Position(s) {
	case PositionNurse, PositionEngineer, PositionAssistant:
		return Position(s), true
	}
	if p, ok := legacyPositionLabels[s]; ok {
		return p, true
	}
	return "", false
}

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DateRange 日期范围（闭区间）
type DateRange struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Valid 检查日期范围是否合法
func (dr DateRange) Valid() bool {
	start, err1 := time.Parse(DateLayout, dr.StartDate)
	end, err2 := time.Parse(DateLayout, dr.EndDate)
	if err1 != nil || err2 != nil {
		return false
	}
	return !end.Before(start)
}

// Days 返回范围内的天数
func (dr DateRange) Days() int {
	start, err1 := time.Parse(DateLayout, dr.StartDate)
	end, err2 := time.Parse(DateLayout, dr.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Contains 检查日期是否在范围内
// ISO 日期的字符串比较与时间顺序一致
func (dr DateRange) Contains(date string) bool {
	return date >= dr.StartDate && date <= dr.EndDate
}
