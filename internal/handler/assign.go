package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shiftmaster/shiftmaster/internal/metrics"
	"github.com/shiftmaster/shiftmaster/pkg/assign"
	apperrors "github.com/shiftmaster/shiftmaster/pkg/errors"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// AssignHandler 自动分配处理器
type AssignHandler struct {
	store assign.Store
}

// NewAssignHandler 创建自动分配处理器
func NewAssignHandler(store assign.Store) *AssignHandler {
	return &AssignHandler{store: store}
}

// RunRequest 分配运行请求
type RunRequest struct {
	StartDate string                `json:"start_date"` // YYYY-MM-DD
	EndDate   string                `json:"end_date"`   // YYYY-MM-DD
	Rule      *model.AssignmentRule `json:"rule,omitempty"`
}

// RunResponse 分配运行响应
type RunResponse struct {
	Success     bool                 `json:"success"`
	Assigned    []AssignedOutput     `json:"assigned"`
	Unassigned  []UnassignedOutput   `json:"unassigned"`
	Conflicts   []ConflictOutput     `json:"conflicts"`
	FailedDates []*assign.FailedDate `json:"failed_dates,omitempty"`
	Statistics  *assign.Statistics   `json:"statistics"`
	Duration    string               `json:"duration"`
}

// AssignedOutput 已分配输出
type AssignedOutput struct {
	RequestID  string  `json:"request_id"`
	ShiftID    string  `json:"shift_id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	ShiftType  string  `json:"shift_type"`
	Score      float64 `json:"score"`
}

// UnassignedOutput 未分配输出
type UnassignedOutput struct {
	RequestID  string `json:"request_id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

// ConflictOutput 冲突输出
type ConflictOutput struct {
	RequestID  string `json:"request_id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
	Detail     string `json:"detail"`
}

// Run 执行自动分配
// POST /api/v1/assignments/run
func (h *AssignHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	h.execute(w, r, h.store)
}

// Preview 试算自动分配
// POST /api/v1/assignments/preview
// 在内存副本上运行，不写入持久层
func (h *AssignHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}

	sandbox, appErr := h.buildSandbox(r, req)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	engine := assign.NewEngine(sandbox)
	result, err := engine.Run(r.Context(), model.DateRange{StartDate: req.StartDate, EndDate: req.EndDate}, req.Rule)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, buildRunResponse(result))
}

// execute 解析请求并执行分配
func (h *AssignHandler) execute(w http.ResponseWriter, r *http.Request, store assign.Store) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}

	engine := assign.NewEngine(store)
	start := time.Now()
	result, err := engine.Run(r.Context(), model.DateRange{StartDate: req.StartDate, EndDate: req.EndDate}, req.Rule)
	if err != nil {
		metrics.RecordAssignmentRun(false, time.Since(start), 0)
		respondEngineError(w, err)
		return
	}

	metrics.RecordAssignmentRun(true, result.Duration, result.Statistics.AssignmentRate)
	metrics.RecordFailedDates(len(result.FailedDates))
	for _, c := range result.Conflicts {
		metrics.RecordConstraintConflict(string(c.Reason))
	}

	respondJSON(w, http.StatusOK, buildRunResponse(result))
}

// buildSandbox 将持久层数据复制到内存存储，供试算使用
func (h *AssignHandler) buildSandbox(r *http.Request, req RunRequest) (*assign.MemoryStore, *apperrors.AppError) {
	ctx := r.Context()
	dr := model.DateRange{StartDate: req.StartDate, EndDate: req.EndDate}
	if !dr.Valid() {
		return nil, apperrors.InvalidTimeRange(req.StartDate, req.EndDate)
	}

	sandbox := assign.NewMemoryStore()

	employees, err := h.store.ListActiveEmployees(ctx)
	if err != nil {
		return nil, apperrors.Database(err, "获取员工列表")
	}
	for _, emp := range employees {
		sandbox.AddEmployee(emp)
	}

	requests, err := h.store.ListPendingApprovedRequests(ctx, dr)
	if err != nil {
		return nil, apperrors.Database(err, "获取班次申请")
	}
	for _, rq := range requests {
		clone := *rq
		sandbox.AddRequest(&clone)
	}

	requirements, err := h.store.ListRequirements(ctx)
	if err != nil {
		return nil, apperrors.Database(err, "获取班次需求")
	}
	for _, rq := range requirements {
		sandbox.AddRequirement(rq)
	}

	// 试算同样需要回溯区间前的排班
	loadRange := model.DateRange{
		StartDate: addDaysISO(req.StartDate, -90),
		EndDate:   req.EndDate,
	}
	shifts, err := h.store.ListShifts(ctx, loadRange)
	if err != nil {
		return nil, apperrors.Database(err, "获取已有排班")
	}
	for _, s := range shifts {
		sandbox.AddShift(s)
	}

	rule, err := h.store.GetActiveRule(ctx)
	if err != nil {
		return nil, apperrors.Database(err, "获取启用规则")
	}
	if rule != nil {
		sandbox.SetRule(rule)
	}
	return sandbox, nil
}

// buildRunResponse 组装分配运行响应
func buildRunResponse(result *assign.Result) *RunResponse {
	resp := &RunResponse{
		Success:     true,
		Assigned:    make([]AssignedOutput, 0, len(result.Assigned)),
		Unassigned:  make([]UnassignedOutput, 0, len(result.Unassigned)),
		Conflicts:   make([]ConflictOutput, 0, len(result.Conflicts)),
		FailedDates: result.FailedDates,
		Statistics:  result.Statistics,
		Duration:    result.Duration.String(),
	}
	for _, a := range result.Assigned {
		resp.Assigned = append(resp.Assigned, AssignedOutput{
			RequestID:  a.Request.ID.String(),
			ShiftID:    a.Shift.ID.String(),
			EmployeeID: a.Shift.EmployeeID.String(),
			Date:       a.Shift.Date,
			ShiftType:  a.Shift.ShiftType.Code,
			Score:      a.Score,
		})
	}
	for _, u := range result.Unassigned {
		resp.Unassigned = append(resp.Unassigned, UnassignedOutput{
			RequestID:  u.Request.ID.String(),
			EmployeeID: u.Request.EmployeeID.String(),
			Date:       u.Request.RequestedDate,
			Reason:     u.Reason,
		})
	}
	for _, c := range result.Conflicts {
		resp.Conflicts = append(resp.Conflicts, ConflictOutput{
			RequestID:  c.Request.ID.String(),
			EmployeeID: c.Request.EmployeeID.String(),
			Date:       c.Date,
			Reason:     string(c.Reason),
			Detail:     c.Detail,
		})
	}
	return resp
}

// respondEngineError 将引擎错误转为HTTP响应
func respondEngineError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if e, ok := err.(*apperrors.AppError); ok {
		appErr = e
	} else {
		appErr = apperrors.Wrap(err, apperrors.CodeInternal, "分配运行失败")
	}
	respondError(w, appErr)
}

// addDaysISO 日期偏移
func addDaysISO(date string, days int) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(model.DateLayout)
}

// Workload 查询员工工作量统计
// GET /api/v1/assignments/workload?ref_date=YYYY-MM-DD
func (h *AssignHandler) Workload(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	refDate := r.URL.Query().Get("ref_date")
	if refDate == "" {
		refDate = time.Now().Format(model.DateLayout)
	}

	engine := assign.NewEngine(h.store)
	stats, err := engine.WorkloadStats(r.Context(), refDate)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	out := make(map[string]*assign.WorkloadStats, len(stats))
	for id, ws := range stats {
		out[id.String()] = ws
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ref_date": refDate,
		"workload": out,
	})
}
