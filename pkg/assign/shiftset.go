package assign

import (
	"github.com/google/uuid"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// ShiftSet 本次运行的工作集：已有排班 + 本次已提交的排班
// 显式持有并按引用传递，后续日期的约束判定依赖此处累积的状态
type ShiftSet struct {
	byEmpDate map[string]*model.Shift
}

// NewShiftSet 从已有排班构建工作集
func NewShiftSet(existing []*model.Shift) *ShiftSet {
	set := &ShiftSet{
		byEmpDate: make(map[string]*model.Shift, len(existing)),
	}
	for _, s := range existing {
		set.Add(s)
	}
	return set
}

func shiftKey(empID uuid.UUID, date string) string {
	return empID.String() + "_" + date
}

// Add 加入一条排班，同一 (员工, 日期) 重复加入时覆盖
func (ss *ShiftSet) Add(s *model.Shift) {
	ss.byEmpDate[shiftKey(s.EmployeeID, s.Date)] = s
}

// Has 检查 (员工, 日期) 是否已有排班
func (ss *ShiftSet) Has(empID uuid.UUID, date string) bool {
	_, ok := ss.byEmpDate[shiftKey(empID, date)]
	return ok
}

// Get 返回 (员工, 日期) 的排班
func (ss *ShiftSet) Get(empID uuid.UUID, date string) (*model.Shift, bool) {
	s, ok := ss.byEmpDate[shiftKey(empID, date)]
	return s, ok
}

// Len 返回工作集内的排班总数
func (ss *ShiftSet) Len() int {
	return len(ss.byEmpDate)
}

// ConsecutiveDaysBefore 统计目标日期之前连续工作的天数
// 从前一天起逐日回溯，遇到第一个无排班日即终止
func (ss *ShiftSet) ConsecutiveDaysBefore(empID uuid.UUID, date string) int {
	count := 0
	for d := prevDate(date); d != ""; d = prevDate(d) {
		if !ss.Has(empID, d) {
			break
		}
		count++
	}
	return count
}

// NightShiftsInWeek 统计目标日期所在周（周一起算）至目标日期的夜班数
func (ss *ShiftSet) NightShiftsInWeek(empID uuid.UUID, date string) int {
	count := 0
	for d := weekStart(date); d != "" && d <= date; d = addDays(d, 1) {
		if s, ok := ss.Get(empID, d); ok && s.IsNightShift() {
			count++
		}
	}
	return count
}
