package repository

import (
	"context"

	"github.com/google/uuid"
	apperrors "github.com/shiftmaster/shiftmaster/pkg/errors"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// EngineStore 分配引擎的存储适配器
// 将各仓储聚合为 assign.Store 契约的实现
type EngineStore struct {
	employees    *EmployeeRepository
	shifts       *ShiftRepository
	requests     *RequestRepository
	requirements *RequirementRepository
	rules        *RuleRepository
}

// NewEngineStore 创建存储适配器
func NewEngineStore(db DB) *EngineStore {
	return &EngineStore{
		employees:    NewEmployeeRepository(db),
		shifts:       NewShiftRepository(db),
		requests:     NewRequestRepository(db),
		requirements: NewRequirementRepository(db),
		rules:        NewRuleRepository(db),
	}
}

// ListActiveEmployees 返回在职员工
func (s *EngineStore) ListActiveEmployees(ctx context.Context) ([]*model.Employee, error) {
	return s.employees.ListActive(ctx)
}

// ListPendingApprovedRequests 返回区间内可分配的申请
func (s *EngineStore) ListPendingApprovedRequests(ctx context.Context, dr model.DateRange) ([]*model.ShiftRequest, error) {
	return s.requests.ListPendingApproved(ctx, dr)
}

// ListRequirements 返回全部班次需求
func (s *EngineStore) ListRequirements(ctx context.Context) ([]*model.ShiftRequirement, error) {
	return s.requirements.List(ctx)
}

// ListShifts 返回区间内的排班
func (s *EngineStore) ListShifts(ctx context.Context, dr model.DateRange) ([]*model.Shift, error) {
	return s.shifts.ListByRange(ctx, dr)
}

// CreateShift 创建排班
func (s *EngineStore) CreateShift(ctx context.Context, shift *model.Shift) error {
	return s.shifts.Create(ctx, shift)
}

// MarkRequestAssigned 标记申请已分配
func (s *EngineStore) MarkRequestAssigned(ctx context.Context, requestID string) error {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return apperrors.InvalidInput("request_id", err.Error())
	}
	return s.requests.MarkAssigned(ctx, id)
}

// GetActiveRule 返回启用规则
func (s *EngineStore) GetActiveRule(ctx context.Context) (*model.AssignmentRule, error) {
	return s.rules.GetActive(ctx)
}

// Employees 返回员工仓储
func (s *EngineStore) Employees() *EmployeeRepository { return s.employees }

// Shifts 返回排班仓储
func (s *EngineStore) Shifts() *ShiftRepository { return s.shifts }

// Requests 返回申请仓储
func (s *EngineStore) Requests() *RequestRepository { return s.requests }

// Requirements 返回需求仓储
func (s *EngineStore) Requirements() *RequirementRepository { return s.requirements }

// Rules 返回规则仓储
func (s *EngineStore) Rules() *RuleRepository { return s.rules }
