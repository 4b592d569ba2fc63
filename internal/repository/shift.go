package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	apperrors "github.com/shiftmaster/shiftmaster/pkg/errors"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// pgUniqueViolation PostgreSQL 唯一约束冲突错误码
const pgUniqueViolation = "23505"

// ShiftRepository 排班仓储
type ShiftRepository struct {
	db DB
}

// NewShiftRepository 创建排班仓储
func NewShiftRepository(db DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Create 创建排班
// (员工, 日期) 唯一索引冲突时返回 CodeScheduleConflict 错误
func (r *ShiftRepository) Create(ctx context.Context, shift *model.Shift) error {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	now := time.Now()
	shift.CreatedAt = now
	shift.UpdatedAt = now

	query := `
		INSERT INTO shifts (
			id, employee_id, date, shift_type_code, shift_type_name, is_night,
			is_approved, approved_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.EmployeeID, shift.Date,
		shift.ShiftType.Code, shift.ShiftType.Name, shift.ShiftType.IsNight,
		shift.IsApproved, shift.ApprovedAt, shift.CreatedAt, shift.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return apperrors.ScheduleConflict(shift.EmployeeID.String(), shift.Date).WithCause(err)
		}
		return fmt.Errorf("创建排班失败: %w", err)
	}
	return nil
}

// ListByRange 返回区间内的排班，按日期升序
func (r *ShiftRepository) ListByRange(ctx context.Context, dr model.DateRange) ([]*model.Shift, error) {
	query := `
		SELECT id, employee_id, to_char(date, 'YYYY-MM-DD'),
			shift_type_code, shift_type_name, is_night,
			is_approved, approved_at, created_at, updated_at
		FROM shifts
		WHERE date >= $1 AND date <= $2 AND deleted_at IS NULL
		ORDER BY date, employee_id
	`
	rows, err := r.db.QueryContext(ctx, query, dr.StartDate, dr.EndDate)
	if err != nil {
		return nil, fmt.Errorf("查询排班失败: %w", err)
	}
	defer rows.Close()

	var shifts []*model.Shift
	for rows.Next() {
		s := &model.Shift{}
		var approvedAt sql.NullTime
		if err := rows.Scan(
			&s.ID, &s.EmployeeID, &s.Date,
			&s.ShiftType.Code, &s.ShiftType.Name, &s.ShiftType.IsNight,
			&s.IsApproved, &approvedAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描排班记录失败: %w", err)
		}
		if approvedAt.Valid {
			s.ApprovedAt = &approvedAt.Time
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// Delete 软删除排班
func (r *ShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE shifts SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("删除排班失败: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.NotFound("排班", id.String())
	}
	return nil
}
