package assign

import (
	"github.com/google/uuid"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// 评分惩罚常量
const (
	penaltyConsecutiveAtLimit   = 10.0 // 连续天数已达上限
	penaltyConsecutiveNearLimit = 5.0  // 连续天数距上限仅差一天
	penaltyNightCapReached      = 8.0  // 周夜班已达上限
	workloadBalanceScale        = 2.0  // 负荷均衡得分放大系数
	experiencePerShift          = 0.1  // 每次同类班次经验的得分
	experienceScoreCap          = 1.0  // 经验得分上限
	experienceWindowDays        = 90   // 经验统计回溯天数
)

// Scorer 评分器
// 得分在单次运行内按 (员工, 日期, 班次类型) 记忆化；运行开始时重建缓存
type Scorer struct {
	rule       *model.AssignmentRule
	stats      map[uuid.UUID]*WorkloadStats
	maxMonthly int
	experience map[string]int // empID_shiftCode -> 近90天同类班次数
	cache      map[string]float64
}

// NewScorer 创建评分器
// periodStart 为分配区间起始日，经验窗口锚定在该日期之前以保证可重复性
func NewScorer(rule *model.AssignmentRule, employees []*model.Employee, shifts []*model.Shift, periodStart string) *Scorer {
	stats := buildWorkloadStats(employees, shifts, periodStart)
	return &Scorer{
		rule:       rule,
		stats:      stats,
		maxMonthly: maxMonthlyShifts(stats),
		experience: buildExperienceIndex(shifts, periodStart),
		cache:      make(map[string]float64),
	}
}

// buildExperienceIndex 统计每个员工在区间起始日前90天内各班次类型的次数
func buildExperienceIndex(shifts []*model.Shift, periodStart string) map[string]int {
	windowStart := addDays(periodStart, -experienceWindowDays)
	index := make(map[string]int)
	for _, s := range shifts {
		if s.Date >= windowStart && s.Date < periodStart {
			index[s.EmployeeID.String()+"_"+s.ShiftType.Code]++
		}
	}
	return index
}

// Stats 返回本次运行使用的工作量统计
func (sc *Scorer) Stats() map[uuid.UUID]*WorkloadStats {
	return sc.stats
}

// Score 计算 (申请, 日期) 的综合得分
// 组成：优先度 + 经验 + 负荷均衡 - 连续工作惩罚 - 夜班惩罚
func (sc *Scorer) Score(req *model.ShiftRequest, date string, set *ShiftSet) float64 {
	key := req.EmployeeID.String() + "_" + date + "_" + req.ShiftType.Code
	if score, ok := sc.cache[key]; ok {
		return score
	}

	score := float64(req.Priority) * sc.rule.PriorityWeight
	score += sc.experienceScore(req.EmployeeID, req.ShiftType) * sc.rule.ExperienceWeight
	score += sc.workloadBalanceScore(req.EmployeeID) * sc.rule.WorkloadBalanceWeight
	score -= sc.consecutivePenalty(req.EmployeeID, date, set)
	if req.ShiftType.IsNight {
		score -= sc.nightShiftPenalty(req.EmployeeID, date, set)
	}

	sc.cache[key] = score
	return score
}

// experienceScore 同类班次经验得分：每次0.1，上限1.0
func (sc *Scorer) experienceScore(empID uuid.UUID, st model.ShiftType) float64 {
	count := sc.experience[empID.String()+"_"+st.Code]
	score := float64(count) * experiencePerShift
	if score > experienceScoreCap {
		return experienceScoreCap
	}
	return score
}

// workloadBalanceScore 负荷均衡得分：本月排班越少得分越高
func (sc *Scorer) workloadBalanceScore(empID uuid.UUID) float64 {
	monthly := 0
	if ws, ok := sc.stats[empID]; ok {
		monthly = ws.MonthlyShifts
	}
	return (1.0 - float64(monthly)/float64(sc.maxMonthly)) * workloadBalanceScale
}

// consecutivePenalty 连续工作渐进惩罚
// 硬性上限由约束检查器单独执行，此处仅影响排序倾向
func (sc *Scorer) consecutivePenalty(empID uuid.UUID, date string, set *ShiftSet) float64 {
	consecutive := set.ConsecutiveDaysBefore(empID, date)
	switch {
	case consecutive >= sc.rule.MaxConsecutiveDays:
		return penaltyConsecutiveAtLimit
	case consecutive == sc.rule.MaxConsecutiveDays-1:
		return penaltyConsecutiveNearLimit
	}
	return 0
}

// nightShiftPenalty 周夜班惩罚
func (sc *Scorer) nightShiftPenalty(empID uuid.UUID, date string, set *ShiftSet) float64 {
	if set.NightShiftsInWeek(empID, date) >= sc.rule.MaxNightShiftsPerWeek {
		return penaltyNightCapReached
	}
	return 0
}
