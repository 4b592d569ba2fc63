package assign

import (
	"testing"

	"github.com/shiftmaster/shiftmaster/pkg/model"
)

func TestShiftSet_ConsecutiveDaysBefore(t *testing.T) {
	emp := testEmployee("N1", model.PositionNurse)
	set := NewShiftSet(nil)

	if got := set.ConsecutiveDaysBefore(emp.ID, monday); got != 0 {
		t.Errorf("empty set: expected 0, got %d", got)
	}

	set.Add(testShift(emp, "2026-01-03", model.ShiftMorning))
	set.Add(testShift(emp, "2026-01-04", model.ShiftMorning))
	if got := set.ConsecutiveDaysBefore(emp.ID, monday); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}

	// 中断后不连续
	if got := set.ConsecutiveDaysBefore(emp.ID, wednesday); got != 0 {
		t.Errorf("gap should reset streak, got %d", got)
	}
}

func TestShiftSet_NightShiftsInWeek(t *testing.T) {
	emp := testEmployee("N1", model.PositionNurse)
	set := NewShiftSet(nil)

	// 上周日的夜班不计入本周
	set.Add(testShift(emp, "2026-01-04", model.ShiftNight))
	set.Add(testShift(emp, monday, model.ShiftNight))
	set.Add(testShift(emp, tuesday, model.ShiftMorning))

	if got := set.NightShiftsInWeek(emp.ID, wednesday); got != 1 {
		t.Errorf("expected 1 night shift this week, got %d", got)
	}
}

func TestScorer_WorkloadBalance(t *testing.T) {
	busy := testEmployee("N1", model.PositionNurse)
	idle := testEmployee("N2", model.PositionNurse)
	employees := []*model.Employee{busy, idle}

	var shifts []*model.Shift
	for _, d := range []string{"2026-01-02", "2026-01-03", "2026-01-04"} {
		shifts = append(shifts, testShift(busy, d, model.ShiftMorning))
	}

	rule := model.DefaultAssignmentRule()
	scorer := NewScorer(rule, employees, shifts, monday)
	set := NewShiftSet(nil)

	busyReq := testRequest(busy, tuesday, model.ShiftAfternoon, 1)
	idleReq := testRequest(idle, tuesday, model.ShiftAfternoon, 1)

	busyScore := scorer.Score(busyReq, tuesday, set)
	idleScore := scorer.Score(idleReq, tuesday, set)
	if idleScore <= busyScore {
		t.Errorf("idle employee should score higher: idle=%f busy=%f", idleScore, busyScore)
	}
}

func TestScorer_ExperienceCapped(t *testing.T) {
	emp := testEmployee("N1", model.PositionNurse)
	employees := []*model.Employee{emp}

	// 近90天内15次夜班：经验得分应封顶在1.0
	var shifts []*model.Shift
	for i := 1; i <= 15; i++ {
		d := addDays(monday, -i*2)
		shifts = append(shifts, testShift(emp, d, model.ShiftNight))
	}

	rule := model.DefaultAssignmentRule()
	rule.PriorityWeight = 0
	rule.WorkloadBalanceWeight = 0
	rule.MaxNightShiftsPerWeek = 100 // 排除夜班惩罚
	scorer := NewScorer(rule, employees, shifts, monday)
	set := NewShiftSet(nil)

	req := testRequest(emp, monday, model.ShiftNight, 1)
	score := scorer.Score(req, monday, set)

	want := experienceScoreCap * rule.ExperienceWeight
	if score != want {
		t.Errorf("expected capped experience score %f, got %f", want, score)
	}
}

func TestScorer_ConsecutivePenaltyGraduated(t *testing.T) {
	emp := testEmployee("N1", model.PositionNurse)
	rule := model.DefaultAssignmentRule()

	// 4天连续（上限5的前一天）触发5.0惩罚
	var shifts []*model.Shift
	for _, d := range []string{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04"} {
		shifts = append(shifts, testShift(emp, d, model.ShiftMorning))
	}
	scorer := NewScorer(rule, []*model.Employee{emp}, nil, monday)
	set := NewShiftSet(shifts)

	req := testRequest(emp, monday, model.ShiftMorning, 1)
	withPenalty := scorer.Score(req, monday, set)

	scorer2 := NewScorer(rule, []*model.Employee{emp}, nil, monday)
	noPenalty := scorer2.Score(req, monday, NewShiftSet(nil))

	if diff := noPenalty - withPenalty; diff != penaltyConsecutiveNearLimit {
		t.Errorf("expected near-limit penalty %f, got %f", penaltyConsecutiveNearLimit, diff)
	}
}

func TestScorer_MemoizedWithinRun(t *testing.T) {
	emp := testEmployee("N1", model.PositionNurse)
	rule := model.DefaultAssignmentRule()
	scorer := NewScorer(rule, []*model.Employee{emp}, nil, monday)
	set := NewShiftSet(nil)

	req := testRequest(emp, monday, model.ShiftMorning, 1)
	first := scorer.Score(req, monday, set)

	// 工作集变化不影响已缓存的得分
	set.Add(testShift(emp, "2026-01-04", model.ShiftMorning))
	second := scorer.Score(req, monday, set)

	if first != second {
		t.Errorf("score should be memoized: %f vs %f", first, second)
	}
}

func TestBuildWorkloadStats(t *testing.T) {
	emp1 := testEmployee("N1", model.PositionNurse)
	emp2 := testEmployee("N2", model.PositionNurse)
	employees := []*model.Employee{emp1, emp2}

	shifts := []*model.Shift{
		testShift(emp1, "2026-01-02", model.ShiftMorning),
		testShift(emp1, "2026-01-03", model.ShiftMorning),
		testShift(emp1, "2025-12-30", model.ShiftMorning), // 上月不计
	}

	stats := buildWorkloadStats(employees, shifts, monday)

	if stats[emp1.ID].MonthlyShifts != 2 {
		t.Errorf("expected 2 monthly shifts, got %d", stats[emp1.ID].MonthlyShifts)
	}
	if stats[emp1.ID].WeeklyAverage != 0.5 {
		t.Errorf("expected weekly average 0.5, got %f", stats[emp1.ID].WeeklyAverage)
	}
	// 无排班的员工也在映射中
	if stats[emp2.ID] == nil || stats[emp2.ID].MonthlyShifts != 0 {
		t.Error("employee without shifts should be present with zero count")
	}
	if stats[emp1.ID].LastShiftDate != "2026-01-03" {
		t.Errorf("expected last shift 2026-01-03, got %s", stats[emp1.ID].LastShiftDate)
	}
}

func TestMaxMonthlyShifts_AvoidsDivisionByZero(t *testing.T) {
	emp := testEmployee("N1", model.PositionNurse)
	stats := buildWorkloadStats([]*model.Employee{emp}, nil, monday)
	if got := maxMonthlyShifts(stats); got != 1 {
		t.Errorf("expected 1 when all zero, got %d", got)
	}
}

func TestDatesInRange(t *testing.T) {
	dates := datesInRange(model.DateRange{StartDate: monday, EndDate: wednesday})
	if len(dates) != 3 || dates[0] != monday || dates[2] != wednesday {
		t.Errorf("unexpected dates: %v", dates)
	}
	if datesInRange(model.DateRange{StartDate: wednesday, EndDate: monday}) != nil {
		t.Error("inverted range should yield nil")
	}
}

func TestMonthRange(t *testing.T) {
	cases := []struct {
		date  string
		start string
		end   string
	}{
		{"2026-01-15", "2026-01-01", "2026-01-31"},
		{"2026-02-15", "2026-02-01", "2026-02-28"}, // 短月份
		{"2028-02-10", "2028-02-01", "2028-02-29"}, // 闰年
		{"2026-04-30", "2026-04-01", "2026-04-30"},
	}
	for _, c := range cases {
		dr, ok := monthRange(c.date)
		if !ok || dr.StartDate != c.start || dr.EndDate != c.end {
			t.Errorf("monthRange(%s) = (%+v, %v), want (%s..%s)", c.date, dr, ok, c.start, c.end)
		}
		if !dr.Valid() {
			t.Errorf("monthRange(%s) should be a valid calendar range", c.date)
		}
	}
	if _, ok := monthRange("bad-date"); ok {
		t.Error("malformed date should not yield a range")
	}
}

func TestWeekStart(t *testing.T) {
	cases := map[string]string{
		monday:       monday, // 周一自身
		wednesday:    monday,
		sunday:       monday, // 周日仍属周一起始的那一周
		"2026-01-12": "2026-01-12",
	}
	for date, want := range cases {
		if got := weekStart(date); got != want {
			t.Errorf("weekStart(%s) = %s, want %s", date, got, want)
		}
	}
}
