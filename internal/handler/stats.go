package handler

import (
	"net/http"

	"github.com/shiftmaster/shiftmaster/internal/metrics"
	"github.com/shiftmaster/shiftmaster/pkg/assign"
	apperrors "github.com/shiftmaster/shiftmaster/pkg/errors"
	"github.com/shiftmaster/shiftmaster/pkg/model"
	"github.com/shiftmaster/shiftmaster/pkg/stats"
	"github.com/shiftmaster/shiftmaster/pkg/validator"
)

// StatsHandler 统计分析处理器
type StatsHandler struct {
	store assign.Store
}

// NewStatsHandler 创建统计分析处理器
func NewStatsHandler(store assign.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// parseRange 解析查询参数中的日期范围
func parseRange(r *http.Request) (model.DateRange, *apperrors.AppError) {
	dr := model.DateRange{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if !dr.Valid() {
		return dr, apperrors.InvalidTimeRange(dr.StartDate, dr.EndDate)
	}
	return dr, nil
}

// Fairness 公平性分析
// GET /api/v1/stats/fairness?start_date=...&end_date=...
func (h *StatsHandler) Fairness(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	dr, appErr := parseRange(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	employees, err := h.store.ListActiveEmployees(r.Context())
	if err != nil {
		respondError(w, apperrors.Database(err, "获取员工列表"))
		return
	}
	shifts, err := h.store.ListShifts(r.Context(), dr)
	if err != nil {
		respondError(w, apperrors.Database(err, "获取排班"))
		return
	}

	analyzer := stats.NewFairnessAnalyzer()
	result := analyzer.Analyze(shifts, employees)

	metrics.SetFairnessGini("shift_count", result.ShiftCountGini)
	metrics.SetFairnessGini("night_shift", result.NightShiftGini)

	respondJSON(w, http.StatusOK, result)
}

// Coverage 需求覆盖率分析
// GET /api/v1/stats/coverage?start_date=...&end_date=...
func (h *StatsHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	dr, appErr := parseRange(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	employees, err := h.store.ListActiveEmployees(r.Context())
	if err != nil {
		respondError(w, apperrors.Database(err, "获取员工列表"))
		return
	}
	requirements, err := h.store.ListRequirements(r.Context())
	if err != nil {
		respondError(w, apperrors.Database(err, "获取班次需求"))
		return
	}
	shifts, err := h.store.ListShifts(r.Context(), dr)
	if err != nil {
		respondError(w, apperrors.Database(err, "获取排班"))
		return
	}

	analyzer := stats.NewCoverageAnalyzer()
	report := analyzer.Analyze(dr, requirements, shifts, employees)
	metrics.SetCoverageRate(report.CoverageRate)

	respondJSON(w, http.StatusOK, report)
}

// Audit 排班审计
// GET /api/v1/stats/audit?start_date=...&end_date=...
// 对最终排班表做整体复核，发现外部编辑或历史数据引入的违规
func (h *StatsHandler) Audit(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	dr, appErr := parseRange(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	rule, err := h.store.GetActiveRule(r.Context())
	if err != nil {
		respondError(w, apperrors.Database(err, "获取启用规则"))
		return
	}
	if rule == nil {
		rule = model.DefaultAssignmentRule()
	}

	// 回溯加载区间前的排班，保证连续天数判定完整
	loadRange := model.DateRange{
		StartDate: addDaysISO(dr.StartDate, -rule.MaxConsecutiveDays),
		EndDate:   dr.EndDate,
	}
	shifts, err := h.store.ListShifts(r.Context(), loadRange)
	if err != nil {
		respondError(w, apperrors.Database(err, "获取排班"))
		return
	}

	auditor := validator.NewAuditor(rule)
	respondJSON(w, http.StatusOK, auditor.Audit(shifts))
}
