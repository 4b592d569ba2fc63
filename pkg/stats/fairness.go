// Package stats 提供排班统计分析功能
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	// 排班数量公平性
	ShiftCountGini       float64 `json:"shift_count_gini"` // 排班数基尼系数 (0=完全公平, 1=完全不公平)
	ShiftCountVariance   float64 `json:"shift_count_variance"`
	ShiftCountStdDev     float64 `json:"shift_count_std_dev"`
	AvgShiftsPerEmployee float64 `json:"avg_shifts_per_employee"`
	MaxShifts            int     `json:"max_shifts"`
	MinShifts            int     `json:"min_shifts"`

	// 班次类型公平性
	ShiftTypeDistribution map[string]float64 `json:"shift_type_distribution"` // 各班次类型占比
	NightShiftGini        float64            `json:"night_shift_gini"`
	WeekendShiftGini      float64            `json:"weekend_shift_gini"`

	// 员工级别统计
	EmployeeStats []EmployeeStat `json:"employee_stats"`

	// 综合评分 (0-100)
	OverallFairnessScore float64 `json:"overall_fairness_score"`
}

// EmployeeStat 员工统计
type EmployeeStat struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	ShiftCount    int     `json:"shift_count"`
	NightShifts   int     `json:"night_shifts"`
	WeekendShifts int     `json:"weekend_shifts"`
	Deviation     float64 `json:"deviation"` // 与平均值的偏差百分比
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 分析排班公平性
func (f *FairnessAnalyzer) Analyze(shifts []*model.Shift, employees []*model.Employee) *FairnessMetrics {
	if len(shifts) == 0 || len(employees) == 0 {
		return &FairnessMetrics{
			ShiftTypeDistribution: make(map[string]float64),
			OverallFairnessScore:  100,
		}
	}

	employeeStats := f.calculateEmployeeStats(shifts, employees)

	counts := make([]float64, len(employeeStats))
	nightShifts := make([]float64, len(employeeStats))
	weekendShifts := make([]float64, len(employeeStats))
	for i, stat := range employeeStats {
		counts[i] = float64(stat.ShiftCount)
		nightShifts[i] = float64(stat.NightShifts)
		weekendShifts[i] = float64(stat.WeekendShifts)
	}

	avg := mean(counts)
	variance := varianceOf(counts, avg)

	metrics := &FairnessMetrics{
		ShiftCountGini:        gini(counts),
		ShiftCountVariance:    variance,
		ShiftCountStdDev:      math.Sqrt(variance),
		AvgShiftsPerEmployee:  avg,
		ShiftTypeDistribution: f.shiftTypeDistribution(shifts),
		NightShiftGini:        gini(nightShifts),
		WeekendShiftGini:      gini(weekendShifts),
		EmployeeStats:         employeeStats,
	}
	metrics.MaxShifts, metrics.MinShifts = countRange(employeeStats)

	// 偏差百分比
	if avg > 0 {
		for i := range metrics.EmployeeStats {
			stat := &metrics.EmployeeStats[i]
			stat.Deviation = (float64(stat.ShiftCount) - avg) / avg * 100
		}
	}

	metrics.OverallFairnessScore = f.overallScore(metrics)
	return metrics
}

// calculateEmployeeStats 统计每个员工的排班情况，按员工ID排序保证输出稳定
func (f *FairnessAnalyzer) calculateEmployeeStats(shifts []*model.Shift, employees []*model.Employee) []EmployeeStat {
	byID := make(map[string]*EmployeeStat, len(employees))
	order := make([]string, 0, len(employees))
	for _, emp := range employees {
		id := emp.ID.String()
		byID[id] = &EmployeeStat{EmployeeID: id, EmployeeName: emp.Name}
		order = append(order, id)
	}
	sort.Strings(order)

	for _, s := range shifts {
		stat, ok := byID[s.EmployeeID.String()]
		if !ok {
			continue
		}
		stat.ShiftCount++
		if s.IsNightShift() {
			stat.NightShifts++
		}
		if isWeekend(s.Date) {
			stat.WeekendShifts++
		}
	}

	out := make([]EmployeeStat, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// shiftTypeDistribution 计算各班次类型的占比
func (f *FairnessAnalyzer) shiftTypeDistribution(shifts []*model.Shift) map[string]float64 {
	counts := make(map[string]int)
	for _, s := range shifts {
		counts[s.ShiftType.Code]++
	}
	dist := make(map[string]float64, len(counts))
	total := float64(len(shifts))
	for code, n := range counts {
		dist[code] = float64(n) / total
	}
	return dist
}

// overallScore 综合公平性评分：基尼系数越低得分越高
func (f *FairnessAnalyzer) overallScore(m *FairnessMetrics) float64 {
	score := 100.0
	score -= m.ShiftCountGini * 50
	score -= m.NightShiftGini * 30
	score -= m.WeekendShiftGini * 20
	if score < 0 {
		return 0
	}
	return score
}

// gini 计算基尼系数
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum, weighted float64
	for i, v := range sorted {
		sum += v
		weighted += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}
	return (2*weighted)/(float64(n)*sum) - float64(n+1)/float64(n)
}

// mean 计算平均值
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// varianceOf 计算方差
func varianceOf(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}

// countRange 返回排班数的最大值和最小值
func countRange(stats []EmployeeStat) (max, min int) {
	if len(stats) == 0 {
		return 0, 0
	}
	max, min = stats[0].ShiftCount, stats[0].ShiftCount
	for _, stat := range stats[1:] {
		if stat.ShiftCount > max {
			max = stat.ShiftCount
		}
		if stat.ShiftCount < min {
			min = stat.ShiftCount
		}
	}
	return max, min
}

// isWeekend 检查日期是否为周末
func isWeekend(date string) bool {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return false
	}
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
