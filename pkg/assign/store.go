// Package assign 实现自动排班分配引擎
//
// 引擎按日期升序遍历指定区间，对每个日期按职种贪心选取得分最高的申请，
// 在满足约束（连续工作上限、周夜班上限、同日不重复）的前提下提交排班。
package assign

import (
	"context"

	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// Store 排班数据存取契约
// 引擎只通过此接口访问持久层，便于测试时替换为内存实现
type Store interface {
	// ListActiveEmployees 返回所有在职员工
	ListActiveEmployees(ctx context.Context) ([]*model.Employee, error)

	// ListPendingApprovedRequests 返回区间内已批准且未消耗的班次申请
	// 返回顺序即提交顺序，得分相同时先提交者优先
	ListPendingApprovedRequests(ctx context.Context, dr model.DateRange) ([]*model.ShiftRequest, error)

	// ListRequirements 返回全部班次需求（每个星期值至多一条）
	ListRequirements(ctx context.Context) ([]*model.ShiftRequirement, error)

	// ListShifts 返回区间内的已有排班
	ListShifts(ctx context.Context, dr model.DateRange) ([]*model.Shift, error)

	// CreateShift 创建排班
	// (员工, 日期) 已存在时必须返回 CodeScheduleConflict 错误，不得静默重复
	CreateShift(ctx context.Context, shift *model.Shift) error

	// MarkRequestAssigned 将申请标记为已分配，避免重复运行时再次分配
	MarkRequestAssigned(ctx context.Context, requestID string) error

	// GetActiveRule 返回当前启用的分配规则，不存在时返回 (nil, nil)
	GetActiveRule(ctx context.Context) (*model.AssignmentRule, error)
}
