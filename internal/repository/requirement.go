package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// RequirementRepository 班次需求仓储
type RequirementRepository struct {
	db DB
}

// NewRequirementRepository 创建班次需求仓储
func NewRequirementRepository(db DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

// Upsert 按星期值写入需求
// day_of_week 唯一约束保证每个星期至多一条
func (r *RequirementRepository) Upsert(ctx context.Context, req *model.ShiftRequirement) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `
		INSERT INTO shift_requirements (
			id, day_of_week, nurse_required, engineer_required, assistant_required,
			note, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (day_of_week) DO UPDATE SET
			nurse_required = EXCLUDED.nurse_required,
			engineer_required = EXCLUDED.engineer_required,
			assistant_required = EXCLUDED.assistant_required,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.DayOfWeek, req.NurseRequired, req.EngineerRequired,
		req.AssistantRequired, req.Note, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("写入班次需求失败: %w", err)
	}
	return nil
}

// List 返回全部班次需求
func (r *RequirementRepository) List(ctx context.Context) ([]*model.ShiftRequirement, error) {
	query := `
		SELECT id, day_of_week, nurse_required, engineer_required, assistant_required,
			note, created_at, updated_at
		FROM shift_requirements
		WHERE deleted_at IS NULL
		ORDER BY day_of_week
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询班次需求失败: %w", err)
	}
	defer rows.Close()

	var requirements []*model.ShiftRequirement
	for rows.Next() {
		req := &model.ShiftRequirement{}
		if err := rows.Scan(
			&req.ID, &req.DayOfWeek, &req.NurseRequired, &req.EngineerRequired,
			&req.AssistantRequired, &req.Note, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描需求记录失败: %w", err)
		}
		requirements = append(requirements, req)
	}
	return requirements, rows.Err()
}
