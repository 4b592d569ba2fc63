package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// RuleRepository 分配规则仓储
type RuleRepository struct {
	db DB
}

// NewRuleRepository 创建分配规则仓储
func NewRuleRepository(db DB) *RuleRepository {
	return &RuleRepository{db: db}
}

const ruleColumns = `id, name, max_consecutive_days, min_rest_days, max_night_shifts_per_week,
	priority_weight, experience_weight, workload_balance_weight,
	allow_preference_override, enforce_position_requirements, is_active,
	created_at, updated_at`

// Create 创建分配规则
// 新规则启用时停用其他规则，保持至多一条启用
func (r *RuleRepository) Create(ctx context.Context, rule *model.AssignmentRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if rule.IsActive {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE assignment_rules SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE AND deleted_at IS NULL`,
		); err != nil {
			return fmt.Errorf("停用既有规则失败: %w", err)
		}
	}

	query := `
		INSERT INTO assignment_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.Name, rule.MaxConsecutiveDays, rule.MinRestDays, rule.MaxNightShiftsPerWeek,
		rule.PriorityWeight, rule.ExperienceWeight, rule.WorkloadBalanceWeight,
		rule.AllowPreferenceOverride, rule.EnforcePositionRequirements, rule.IsActive,
		rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建分配规则失败: %w", err)
	}
	return nil
}

// GetActive 返回当前启用的规则，不存在时返回 (nil, nil)
func (r *RuleRepository) GetActive(ctx context.Context) (*model.AssignmentRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM assignment_rules
		WHERE is_active = TRUE AND deleted_at IS NULL
		ORDER BY updated_at DESC
		LIMIT 1
	`
	rule := &model.AssignmentRule{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&rule.ID, &rule.Name, &rule.MaxConsecutiveDays, &rule.MinRestDays, &rule.MaxNightShiftsPerWeek,
		&rule.PriorityWeight, &rule.ExperienceWeight, &rule.WorkloadBalanceWeight,
		&rule.AllowPreferenceOverride, &rule.EnforcePositionRequirements, &rule.IsActive,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询启用规则失败: %w", err)
	}
	return rule, nil
}

// List 返回全部规则
func (r *RuleRepository) List(ctx context.Context) ([]*model.AssignmentRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM assignment_rules
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询规则列表失败: %w", err)
	}
	defer rows.Close()

	var rules []*model.AssignmentRule
	for rows.Next() {
		rule := &model.AssignmentRule{}
		if err := rows.Scan(
			&rule.ID, &rule.Name, &rule.MaxConsecutiveDays, &rule.MinRestDays, &rule.MaxNightShiftsPerWeek,
			&rule.PriorityWeight, &rule.ExperienceWeight, &rule.WorkloadBalanceWeight,
			&rule.AllowPreferenceOverride, &rule.EnforcePositionRequirements, &rule.IsActive,
			&rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描规则记录失败: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
