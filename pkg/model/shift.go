// Package model 定义排班引擎的核心数据模型
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShiftType 班次类型
// 夜班判定使用显式的 IsNight 标志，不再依赖标签字符串匹配
type ShiftType struct {
	Code    string `json:"code" db:"code"`
	Name    string `json:"name" db:"name"`
	IsNight bool   `json:"is_night" db:"is_night"`
}

// 内置班次类型
var (
	ShiftMorning   = ShiftType{Code: "morning", Name: "早班"}
	ShiftAfternoon = ShiftType{Code: "afternoon", Name: "午班"}
	ShiftNight     = ShiftType{Code: "night", Name: "夜班", IsNight: true}
)

// builtinShiftTypes 按代码索引的内置班次类型
var builtinShiftTypes = map[string]ShiftType{
	ShiftMorning.Code:   ShiftMorning,
	ShiftAfternoon.Code: ShiftAfternoon,
	ShiftNight.Code:     ShiftNight,
}

// ShiftTypeFromLabel 从标签解析班次类型
// 旧数据迁移兼容：未知标签按子串匹配判定夜班（"night" 或 "夜勤"/"夜班"）
func ShiftTypeFromLabel(label string) ShiftType {
	if st, ok := builtinShiftTypes[label]; ok {
		return st
	}
	lower := strings.ToLower(label)
	night := strings.Contains(lower, "night") ||
		strings.Contains(label, "夜勤") ||
		strings.Contains(label, "夜班")
	return ShiftType{Code: label, Name: label, IsNight: night}
}

// Shift 已确定的排班
// 引擎保证每个 (员工, 日期) 至多一条；数据库唯一索引作为兜底
type Shift struct {
	BaseModel
	EmployeeID uuid.UUID  `json:"employee_id" db:"employee_id"`
	Date       string     `json:"date" db:"date"` // YYYY-MM-DD
	ShiftType  ShiftType  `json:"shift_type" db:"shift_type"`
	IsApproved bool       `json:"is_approved" db:"is_approved"`
	ApprovedAt *time.Time `json:"approved_at,omitempty" db:"approved_at"`
}

// IsNightShift 检查是否为夜班
func (s *Shift) IsNightShift() bool {
	return s.ShiftType.IsNight
}

// IsOnDate 检查排班是否在指定日期
func (s *Shift) IsOnDate(date string) bool {
	return s.Date == date
}

// 申请状态
const (
	RequestPending  = "pending"  // 待分配
	RequestAssigned = "assigned" // 已分配（排班时消耗，避免重复分配）
)

// ShiftRequest 班次申请（员工的排班意愿）
type ShiftRequest struct {
	BaseModel
	EmployeeID    uuid.UUID `json:"employee_id" db:"employee_id"`
	RequestedDate string    `json:"requested_date" db:"requested_date"` // YYYY-MM-DD
	ShiftType     ShiftType `json:"shift_type" db:"shift_type"`
	Priority      int       `json:"priority" db:"priority"` // 越大越优先，默认1
	Approved      bool      `json:"approved" db:"approved"`
	Status        string    `json:"status" db:"status"` // pending/assigned
}

// IsAssignable 检查申请是否可参与自动分配
func (r *ShiftRequest) IsAssignable() bool {
	return r.Approved && r.Status != RequestAssigned
}

// ShiftRequirement 班次需求（按星期定义的各职种必要人数）
// 不变量：每个星期值至多一条记录
type ShiftRequirement struct {
	BaseModel
	DayOfWeek         string `json:"day_of_week" db:"day_of_week"` // Monday..Sunday
	NurseRequired     int    `json:"nurse_required" db:"nurse_required"`
	EngineerRequired  int    `json:"engineer_required" db:"engineer_required"`
	AssistantRequired int    `json:"assistant_required" db:"assistant_required"`
	Note              string `json:"note,omitempty" db:"note"`
}

// RequiredFor 返回指定职种的必要人数
func (r *ShiftRequirement) RequiredFor(p Position) int {
	switch p {
	case PositionNurse:
		return r.NurseRequired
	case PositionEngineer:
		return r.EngineerRequired
	case PositionAssistant:
		return r.AssistantRequired
	}
	return 0
}

// TotalRequired 返回必要合计人数
func (r *ShiftRequirement) TotalRequired() int {
	return r.NurseRequired + r.EngineerRequired + r.AssistantRequired
}
