package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/shiftmaster/shiftmaster/pkg/errors"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// RequestRepository 班次申请仓储
type RequestRepository struct {
	db DB
}

// NewRequestRepository 创建班次申请仓储
func NewRequestRepository(db DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create 创建班次申请
func (r *RequestRepository) Create(ctx context.Context, req *model.ShiftRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Priority == 0 {
		req.Priority = 1
	}
	if req.Status == "" {
		req.Status = model.RequestPending
	}
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `
		INSERT INTO shift_requests (
			id, employee_id, requested_date, shift_type_code, shift_type_name, is_night,
			priority, approved, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.EmployeeID, req.RequestedDate,
		req.ShiftType.Code, req.ShiftType.Name, req.ShiftType.IsNight,
		req.Priority, req.Approved, req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建班次申请失败: %w", err)
	}
	return nil
}

// ListPendingApproved 返回区间内已批准且未消耗的申请
// 按创建时间升序：得分相同时先提交者优先
func (r *RequestRepository) ListPendingApproved(ctx context.Context, dr model.DateRange) ([]*model.ShiftRequest, error) {
	query := `
		SELECT id, employee_id, to_char(requested_date, 'YYYY-MM-DD'),
			shift_type_code, shift_type_name, is_night,
			priority, approved, status, created_at, updated_at
		FROM shift_requests
		WHERE requested_date >= $1 AND requested_date <= $2
			AND approved = TRUE AND status = $3
			AND deleted_at IS NULL
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, dr.StartDate, dr.EndDate, model.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("查询班次申请失败: %w", err)
	}
	defer rows.Close()

	var requests []*model.ShiftRequest
	for rows.Next() {
		req := &model.ShiftRequest{}
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.RequestedDate,
			&req.ShiftType.Code, &req.ShiftType.Name, &req.ShiftType.IsNight,
			&req.Priority, &req.Approved, &req.Status, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描申请记录失败: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// MarkAssigned 将申请标记为已分配
func (r *RequestRepository) MarkAssigned(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE shift_requests SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id, model.RequestAssigned)
	if err != nil {
		return fmt.Errorf("标记申请已分配失败: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.NotFound("班次申请", id.String())
	}
	return nil
}

// Approve 批准申请
func (r *RequestRepository) Approve(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE shift_requests SET approved = TRUE, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("批准申请失败: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.NotFound("班次申请", id.String())
	}
	return nil
}
