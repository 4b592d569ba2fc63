package model

import "testing"

func TestShiftTypeFromLabel(t *testing.T) {
	cases := []struct {
		label     string
		wantNight bool
	}{
		{"morning", false},
		{"afternoon", false},
		{"night", true},
		{"Night Duty", true}, // 子串匹配，大小写不敏感
		{"夜勤", true},
		{"夜班A", true},
		{"日勤", false},
	}
	for _, c := range cases {
		st := ShiftTypeFromLabel(c.label)
		if st.IsNight != c.wantNight {
			t.Errorf("ShiftTypeFromLabel(%q).IsNight = %v, want %v", c.label, st.IsNight, c.wantNight)
		}
	}

	// 内置代码返回结构化定义
	if st := ShiftTypeFromLabel("night"); st.Name != "夜班" {
		t.Errorf("builtin night label should resolve to 夜班, got %s", st.Name)
	}
}

func TestParsePosition(t *testing.T) {
	cases := []struct {
		in   string
		want Position
		ok   bool
	}{
		{"nurse", PositionNurse, true},
		{"engineer", PositionEngineer, true},
		{"看護師", PositionNurse, true},
		{"臨床工学技士", PositionEngineer, true},
		{"介護福祉士", PositionAssistant, true},
		{"看護補助", PositionAssistant, true},
		{"doctor", "", false},
	}
	for _, c := range cases {
		got, ok := ParsePosition(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParsePosition(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestAssignmentRule_Validate(t *testing.T) {
	rule := DefaultAssignmentRule()
	if err := rule.Validate(); err != nil {
		t.Errorf("default rule should be valid: %v", err)
	}

	bad := DefaultAssignmentRule()
	bad.MaxConsecutiveDays = 0
	if bad.Validate() == nil {
		t.Error("zero max consecutive days should be invalid")
	}

	bad2 := DefaultAssignmentRule()
	bad2.ExperienceWeight = -0.1
	if bad2.Validate() == nil {
		t.Error("negative weight should be invalid")
	}
}

func TestDefaultAssignmentRule(t *testing.T) {
	rule := DefaultAssignmentRule()
	if rule.MaxConsecutiveDays != 5 || rule.MaxNightShiftsPerWeek != 2 {
		t.Errorf("unexpected caps: %d/%d", rule.MaxConsecutiveDays, rule.MaxNightShiftsPerWeek)
	}
	if rule.PriorityWeight != 1.0 || rule.ExperienceWeight != 0.3 || rule.WorkloadBalanceWeight != 0.8 {
		t.Errorf("unexpected weights: %f/%f/%f", rule.PriorityWeight, rule.ExperienceWeight, rule.WorkloadBalanceWeight)
	}
	if !rule.IsActive {
		t.Error("default rule should be active")
	}
}

func TestShiftRequirement_RequiredFor(t *testing.T) {
	req := &ShiftRequirement{NurseRequired: 3, EngineerRequired: 1, AssistantRequired: 2}
	if req.RequiredFor(PositionNurse) != 3 {
		t.Error("nurse count mismatch")
	}
	if req.RequiredFor(PositionEngineer) != 1 {
		t.Error("engineer count mismatch")
	}
	if req.TotalRequired() != 6 {
		t.Errorf("expected total 6, got %d", req.TotalRequired())
	}
}

func TestDateRange(t *testing.T) {
	dr := DateRange{StartDate: "2026-01-05", EndDate: "2026-01-07"}
	if !dr.Valid() {
		t.Error("range should be valid")
	}
	if dr.Days() != 3 {
		t.Errorf("expected 3 days, got %d", dr.Days())
	}
	if !dr.Contains("2026-01-06") || dr.Contains("2026-01-08") {
		t.Error("Contains mismatch")
	}

	inverted := DateRange{StartDate: "2026-01-07", EndDate: "2026-01-05"}
	if inverted.Valid() {
		t.Error("inverted range should be invalid")
	}
	if (DateRange{StartDate: "bad", EndDate: "2026-01-05"}).Valid() {
		t.Error("malformed date should be invalid")
	}
}

func TestShiftRequest_IsAssignable(t *testing.T) {
	req := &ShiftRequest{Approved: true, Status: RequestPending}
	if !req.IsAssignable() {
		t.Error("approved pending request should be assignable")
	}
	req.Status = RequestAssigned
	if req.IsAssignable() {
		t.Error("consumed request should not be assignable")
	}
	req2 := &ShiftRequest{Approved: false, Status: RequestPending}
	if req2.IsAssignable() {
		t.Error("unapproved request should not be assignable")
	}
}
