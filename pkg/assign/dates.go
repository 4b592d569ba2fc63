package assign

import (
	"time"

	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// prevDate 返回前一天的日期字符串
func prevDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(model.DateLayout)
}

// addDays 返回偏移指定天数后的日期字符串
func addDays(date string, days int) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(model.DateLayout)
}

// weekStart 返回日期所在周的周一
func weekStart(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ""
	}
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0
	return t.AddDate(0, 0, -offset).Format(model.DateLayout)
}

// weekdayOf 返回日期对应的星期名（Monday..Sunday）
func weekdayOf(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

// monthOf 返回日期所在的年月（YYYY-MM）
func monthOf(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

// monthRange 返回日期所在月份的完整日期范围
// 月末按真实日历计算，短月份不会产生不存在的日期
func monthRange(date string) (model.DateRange, bool) {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return model.DateRange{}, false
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return model.DateRange{
		StartDate: start.Format(model.DateLayout),
		EndDate:   end.Format(model.DateLayout),
	}, true
}

// datesInRange 按升序展开闭区间内的所有日期
// 日期必须严格升序处理，后续日期的约束判定依赖先前日期已提交的排班
func datesInRange(dr model.DateRange) []string {
	start, err1 := time.Parse(model.DateLayout, dr.StartDate)
	end, err2 := time.Parse(model.DateLayout, dr.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return nil
	}
	dates := make([]string, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(model.DateLayout))
	}
	return dates
}
