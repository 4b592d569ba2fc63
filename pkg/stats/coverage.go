package stats

import (
	"sort"
	"time"

	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// CoverageReport 需求覆盖率报告
type CoverageReport struct {
	TotalRequired int            `json:"total_required"`
	TotalFilled   int            `json:"total_filled"`
	CoverageRate  float64        `json:"coverage_rate"` // 百分比
	Days          []DayCoverage  `json:"days"`
	ByPosition    map[string]int `json:"shortage_by_position"` // 各职种缺口合计
}

// DayCoverage 单日覆盖情况
type DayCoverage struct {
	Date     string         `json:"date"`
	Required int            `json:"required"`
	Filled   int            `json:"filled"`
	Shortage map[string]int `json:"shortage,omitempty"` // 职种 -> 缺口人数
}

// CoverageAnalyzer 覆盖率分析器
// 对照每周需求定义，核算区间内各日期各职种的实配人数与缺口
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 计算区间内的需求覆盖率
// 无需求定义的日期不计入统计
func (c *CoverageAnalyzer) Analyze(dr model.DateRange, requirements []*model.ShiftRequirement, shifts []*model.Shift, employees []*model.Employee) *CoverageReport {
	byWeekday := make(map[string]*model.ShiftRequirement, len(requirements))
	for _, req := range requirements {
		byWeekday[req.DayOfWeek] = req
	}
	positionOf := make(map[string]model.Position, len(employees))
	for _, emp := range employees {
		positionOf[emp.ID.String()] = emp.Position
	}

	// 按日期按职种统计实配人数
	filled := make(map[string]map[model.Position]int)
	for _, s := range shifts {
		if !dr.Contains(s.Date) {
			continue
		}
		pos, ok := positionOf[s.EmployeeID.String()]
		if !ok {
			continue
		}
		if filled[s.Date] == nil {
			filled[s.Date] = make(map[model.Position]int)
		}
		filled[s.Date][pos]++
	}

	report := &CoverageReport{ByPosition: make(map[string]int)}
	for _, date := range expandDates(dr) {
		req, ok := byWeekday[weekdayName(date)]
		if !ok {
			continue
		}
		day := DayCoverage{Date: date, Required: req.TotalRequired()}
		for _, pos := range model.AllPositions() {
			need := req.RequiredFor(pos)
			if need <= 0 {
				continue
			}
			have := filled[date][pos]
			if have > need {
				have = need
			}
			day.Filled += have
			if have < need {
				if day.Shortage == nil {
					day.Shortage = make(map[string]int)
				}
				day.Shortage[string(pos)] = need - have
				report.ByPosition[string(pos)] += need - have
			}
		}
		report.TotalRequired += day.Required
		report.TotalFilled += day.Filled
		report.Days = append(report.Days, day)
	}

	sort.Slice(report.Days, func(i, j int) bool {
		return report.Days[i].Date < report.Days[j].Date
	})
	if report.TotalRequired > 0 {
		report.CoverageRate = float64(report.TotalFilled) / float64(report.TotalRequired) * 100
	}
	return report
}

// expandDates 按升序展开闭区间内的日期
func expandDates(dr model.DateRange) []string {
	start, err1 := time.Parse(model.DateLayout, dr.StartDate)
	end, err2 := time.Parse(model.DateLayout, dr.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return nil
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(model.DateLayout))
	}
	return dates
}

// weekdayName 返回日期对应的星期名
func weekdayName(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}
