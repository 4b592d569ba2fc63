// Package validator 提供排班结果的事后审计
//
// 分配引擎在运行中逐条执行约束，审计器则对最终排班表做整体复核，
// 用于发现外部编辑、并发运行或历史数据引入的违规
package validator

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// IssueType 审计问题类型
type IssueType string

const (
	IssueDoubleBooking      IssueType = "double_booking"      // 同一员工同日多条排班
	IssueConsecutiveOverrun IssueType = "consecutive_overrun" // 连续工作天数超限
	IssueNightCapExceeded   IssueType = "night_cap_exceeded"  // 周夜班次数超限
)

// Issue 审计发现的问题
type Issue struct {
	Type       IssueType `json:"type"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Detail     string    `json:"detail"`
}

// Report 审计报告
type Report struct {
	Valid  bool     `json:"valid"`
	Issues []*Issue `json:"issues"`
}

// Auditor 排班审计器
type Auditor struct {
	rule *model.AssignmentRule
}

// NewAuditor 创建审计器
func NewAuditor(rule *model.AssignmentRule) *Auditor {
	return &Auditor{rule: rule}
}

// Audit 复核排班表
// 输入应包含待审区间及其之前若干天的排班，否则连续天数判定不完整
func (a *Auditor) Audit(shifts []*model.Shift) *Report {
	report := &Report{Valid: true, Issues: make([]*Issue, 0)}

	byEmp := make(map[uuid.UUID][]*model.Shift)
	for _, s := range shifts {
		byEmp[s.EmployeeID] = append(byEmp[s.EmployeeID], s)
	}

	// 按员工ID排序保证报告顺序稳定
	empIDs := make([]uuid.UUID, 0, len(byEmp))
	for id := range byEmp {
		empIDs = append(empIDs, id)
	}
	sort.Slice(empIDs, func(i, j int) bool {
		return empIDs[i].String() < empIDs[j].String()
	})

	for _, empID := range empIDs {
		empShifts := byEmp[empID]
		sort.Slice(empShifts, func(i, j int) bool {
			return empShifts[i].Date < empShifts[j].Date
		})
		a.checkDoubleBooking(report, empID, empShifts)
		a.checkConsecutive(report, empID, empShifts)
		a.checkNightCap(report, empID, empShifts)
	}

	report.Valid = len(report.Issues) == 0
	return report
}

// checkDoubleBooking 检查同一员工同日多条排班
func (a *Auditor) checkDoubleBooking(report *Report, empID uuid.UUID, shifts []*model.Shift) {
	seen := make(map[string]bool)
	for _, s := range shifts {
		if seen[s.Date] {
			report.Issues = append(report.Issues, &Issue{
				Type:       IssueDoubleBooking,
				EmployeeID: empID.String(),
				Date:       s.Date,
				Detail:     fmt.Sprintf("员工 %s 在 %s 存在多条排班", empID, s.Date),
			})
		}
		seen[s.Date] = true
	}
}

// checkConsecutive 检查连续工作天数
// shifts 必须已按日期升序排列
func (a *Auditor) checkConsecutive(report *Report, empID uuid.UUID, shifts []*model.Shift) {
	limit := a.rule.MaxConsecutiveDays
	streak := 0
	prev := ""
	for _, s := range shifts {
		if s.Date == prev {
			continue // 重复日由 checkDoubleBooking 报告
		}
		if prev != "" && s.Date == nextDay(prev) {
			streak++
		} else {
			streak = 1
		}
		if streak > limit {
			report.Issues = append(report.Issues, &Issue{
				Type:       IssueConsecutiveOverrun,
				EmployeeID: empID.String(),
				Date:       s.Date,
				Detail:     fmt.Sprintf("员工 %s 截至 %s 已连续工作 %d 天，超过上限 %d", empID, s.Date, streak, limit),
			})
		}
		prev = s.Date
	}
}

// checkNightCap 检查周夜班次数（周一起算）
func (a *Auditor) checkNightCap(report *Report, empID uuid.UUID, shifts []*model.Shift) {
	limit := a.rule.MaxNightShiftsPerWeek
	weekNights := make(map[string]int)
	for _, s := range shifts {
		if !s.IsNightShift() {
			continue
		}
		week := mondayOf(s.Date)
		weekNights[week]++
		if weekNights[week] == limit+1 {
			report.Issues = append(report.Issues, &Issue{
				Type:       IssueNightCapExceeded,
				EmployeeID: empID.String(),
				Date:       s.Date,
				Detail:     fmt.Sprintf("员工 %s 在 %s 起始周的夜班数超过上限 %d", empID, week, limit),
			})
		}
	}
}

// nextDay 返回后一天的日期字符串
func nextDay(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(model.DateLayout)
}

// mondayOf 返回日期所在周的周一
func mondayOf(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ""
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(model.DateLayout)
}
