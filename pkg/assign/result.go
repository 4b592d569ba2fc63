package assign

import (
	"time"

	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// AssignedItem 已分配结果
type AssignedItem struct {
	Request *model.ShiftRequest `json:"request"`
	Shift   *model.Shift        `json:"shift"`
	Score   float64             `json:"score"`
}

// UnassignedItem 未分配结果（名额已满）
type UnassignedItem struct {
	Request *model.ShiftRequest `json:"request"`
	Reason  string              `json:"reason"`
}

// ConflictItem 约束冲突结果
type ConflictItem struct {
	Request *model.ShiftRequest `json:"request"`
	Date    string              `json:"date"`
	Reason  ConflictReason      `json:"reason"`
	Detail  string              `json:"detail"`
}

// FailedDate 处理失败的日期（存储层故障，区别于约束冲突）
type FailedDate struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

// Statistics 分配统计
// totalRequests = 已分配 + 未分配，冲突不计入分配率分母
type Statistics struct {
	TotalRequests   int     `json:"total_requests"`
	AssignedCount   int     `json:"assigned_count"`
	UnassignedCount int     `json:"unassigned_count"`
	ConflictCount   int     `json:"conflict_count"`
	AssignmentRate  float64 `json:"assignment_rate"`
}

// Result 一次分配运行的完整结果
type Result struct {
	Assigned    []*AssignedItem   `json:"assigned"`
	Unassigned  []*UnassignedItem `json:"unassigned"`
	Conflicts   []*ConflictItem   `json:"conflicts"`
	FailedDates []*FailedDate     `json:"failed_dates,omitempty"`
	Statistics  *Statistics       `json:"statistics"`
	Duration    time.Duration     `json:"duration"`
}

// newResult 创建空结果
func newResult() *Result {
	return &Result{
		Assigned:   make([]*AssignedItem, 0),
		Unassigned: make([]*UnassignedItem, 0),
		Conflicts:  make([]*ConflictItem, 0),
		Statistics: &Statistics{},
	}
}

// finalize 计算统计数据
func (r *Result) finalize(duration time.Duration) {
	r.Duration = duration
	st := r.Statistics
	st.AssignedCount = len(r.Assigned)
	st.UnassignedCount = len(r.Unassigned)
	st.ConflictCount = len(r.Conflicts)
	st.TotalRequests = st.AssignedCount + st.UnassignedCount
	if st.TotalRequests > 0 {
		st.AssignmentRate = float64(st.AssignedCount) / float64(st.TotalRequests) * 100
	}
}
