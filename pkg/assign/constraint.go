package assign

import (
	"fmt"

	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// ConflictReason 约束冲突原因
type ConflictReason string

const (
	ReasonConsecutiveLimit ConflictReason = "consecutive_days_limit" // 连续工作天数超限
	ReasonNightShiftCap    ConflictReason = "night_shift_cap"        // 周夜班次数超限
	ReasonDuplicateDay     ConflictReason = "duplicate_day"          // 同日已有排班
)

// Describe 返回冲突原因的可读描述
func (r ConflictReason) Describe() string {
	switch r {
	case ReasonConsecutiveLimit:
		return "连续工作天数达到上限"
	case ReasonNightShiftCap:
		return "本周夜班次数达到上限"
	case ReasonDuplicateDay:
		return "当日已有排班"
	}
	return string(r)
}

// Checker 约束检查器
// 纯谓词集合：数据缺失按零处理，从不返回错误
type Checker struct {
	rule *model.AssignmentRule
}

// NewChecker 创建约束检查器
func NewChecker(rule *model.AssignmentRule) *Checker {
	return &Checker{rule: rule}
}

// Admissible 判定能否将申请分配到指定日期
// 返回 (false, 原因) 表示违反约束
func (c *Checker) Admissible(req *model.ShiftRequest, date string, set *ShiftSet) (bool, ConflictReason) {
	if set.Has(req.EmployeeID, date) {
		return false, ReasonDuplicateDay
	}
	if set.ConsecutiveDaysBefore(req.EmployeeID, date) >= c.rule.MaxConsecutiveDays {
		return false, ReasonConsecutiveLimit
	}
	if req.ShiftType.IsNight && set.NightShiftsInWeek(req.EmployeeID, date) >= c.rule.MaxNightShiftsPerWeek {
		return false, ReasonNightShiftCap
	}
	return true, ""
}

// Violation 组合冲突详情字符串，用于结果记录与日志
func (c *Checker) Violation(reason ConflictReason, req *model.ShiftRequest, date string) string {
	return fmt.Sprintf("%s: 员工 %s 日期 %s", reason.Describe(), req.EmployeeID, date)
}
