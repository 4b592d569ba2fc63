package assign

import (
	"github.com/google/uuid"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// WorkloadStats 员工工作量统计（每次运行重新计算，不持久化）
type WorkloadStats struct {
	EmployeeID    uuid.UUID `json:"employee_id"`
	MonthlyShifts int       `json:"monthly_shifts"`
	WeeklyAverage float64   `json:"weekly_average"`
	LastShiftDate string    `json:"last_shift_date,omitempty"`
}

// buildWorkloadStats 计算参考月份内每个员工的工作量
// 返回映射对所有员工封闭：没有排班的员工计数为0
func buildWorkloadStats(employees []*model.Employee, shifts []*model.Shift, refDate string) map[uuid.UUID]*WorkloadStats {
	month := monthOf(refDate)
	stats := make(map[uuid.UUID]*WorkloadStats, len(employees))
	for _, emp := range employees {
		stats[emp.ID] = &WorkloadStats{EmployeeID: emp.ID}
	}
	for _, s := range shifts {
		ws, ok := stats[s.EmployeeID]
		if !ok {
			continue
		}
		if monthOf(s.Date) == month {
			ws.MonthlyShifts++
		}
		if s.Date > ws.LastShiftDate {
			ws.LastShiftDate = s.Date
		}
	}
	for _, ws := range stats {
		ws.WeeklyAverage = float64(ws.MonthlyShifts) / 4.0
	}
	return stats
}

// maxMonthlyShifts 返回所有员工中的月度最大排班数
// 全员为0时返回1，避免负荷均衡评分中的除零
func maxMonthlyShifts(stats map[uuid.UUID]*WorkloadStats) int {
	max := 0
	for _, ws := range stats {
		if ws.MonthlyShifts > max {
			max = ws.MonthlyShifts
		}
	}
	if max == 0 {
		return 1
	}
	return max
}
