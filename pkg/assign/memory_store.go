package assign

import (
	"context"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/shiftmaster/shiftmaster/pkg/errors"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// MemoryStore 内存存储实现
// 用于试算（不落库的预演运行）和测试；强制执行 (员工, 日期) 唯一约束
type MemoryStore struct {
	mu           sync.RWMutex
	employees    []*model.Employee
	requests     []*model.ShiftRequest
	requirements []*model.ShiftRequirement
	shifts       []*model.Shift
	shiftIndex   map[string]bool
	rule         *model.AssignmentRule
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shiftIndex: make(map[string]bool),
	}
}

// AddEmployee 添加员工
func (m *MemoryStore) AddEmployee(emp *model.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = append(m.employees, emp)
}

// AddRequest 添加班次申请
func (m *MemoryStore) AddRequest(req *model.ShiftRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
}

// AddRequirement 添加班次需求
func (m *MemoryStore) AddRequirement(req *model.ShiftRequirement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requirements = append(m.requirements, req)
}

// AddShift 预置已有排班
func (m *MemoryStore) AddShift(s *model.Shift) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts = append(m.shifts, s)
	m.shiftIndex[shiftKey(s.EmployeeID, s.Date)] = true
}

// SetRule 设置启用规则
func (m *MemoryStore) SetRule(rule *model.AssignmentRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rule = rule
}

// ListActiveEmployees 返回在职员工
func (m *MemoryStore) ListActiveEmployees(ctx context.Context) ([]*model.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		if emp.IsActive() {
			out = append(out, emp)
		}
	}
	return out, nil
}

// ListPendingApprovedRequests 返回区间内可分配的申请，保持插入顺序
func (m *MemoryStore) ListPendingApprovedRequests(ctx context.Context, dr model.DateRange) ([]*model.ShiftRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.ShiftRequest, 0)
	for _, req := range m.requests {
		if req.IsAssignable() && dr.Contains(req.RequestedDate) {
			out = append(out, req)
		}
	}
	return out, nil
}

// ListRequirements 返回全部班次需求
func (m *MemoryStore) ListRequirements(ctx context.Context) ([]*model.ShiftRequirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.ShiftRequirement, len(m.requirements))
	copy(out, m.requirements)
	return out, nil
}

// ListShifts 返回区间内的排班
func (m *MemoryStore) ListShifts(ctx context.Context, dr model.DateRange) ([]*model.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Shift, 0)
	for _, s := range m.shifts {
		if dr.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out, nil
}

// CreateShift 创建排班，(员工, 日期) 重复时返回冲突错误
func (m *MemoryStore) CreateShift(ctx context.Context, shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := shiftKey(shift.EmployeeID, shift.Date)
	if m.shiftIndex[key] {
		return apperrors.ScheduleConflict(shift.EmployeeID.String(), shift.Date)
	}
	m.shifts = append(m.shifts, shift)
	m.shiftIndex[key] = true
	return nil
}

// MarkRequestAssigned 标记申请为已分配
func (m *MemoryStore) MarkRequestAssigned(ctx context.Context, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := uuid.Parse(requestID)
	if err != nil {
		return apperrors.InvalidInput("request_id", err.Error())
	}
	for _, req := range m.requests {
		if req.ID == id {
			req.Status = model.RequestAssigned
			return nil
		}
	}
	return apperrors.NotFound("班次申请", requestID)
}

// GetActiveRule 返回启用规则，未设置时返回 (nil, nil)
func (m *MemoryStore) GetActiveRule(ctx context.Context) (*model.AssignmentRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rule == nil || !m.rule.IsActive {
		return nil, nil
	}
	return m.rule, nil
}
