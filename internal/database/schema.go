package database

import (
	"context"
	"fmt"

	"github.com/shiftmaster/shiftmaster/pkg/logger"
)

// schema 数据库表结构
// uq_shifts_employee_date 唯一索引是 (员工, 日期) 不重复的最终兜底：
// 并发分配运行竞争同一槽位时，后写入者收到唯一约束冲突而非静默重复
var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id UUID PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		name_kana VARCHAR(100) NOT NULL DEFAULT '',
		code VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(50) NOT NULL DEFAULT '',
		position VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		hire_date DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS shifts (
		id UUID PRIMARY KEY,
		employee_id UUID NOT NULL REFERENCES employees(id),
		date DATE NOT NULL,
		shift_type_code VARCHAR(50) NOT NULL,
		shift_type_name VARCHAR(100) NOT NULL,
		is_night BOOLEAN NOT NULL DEFAULT FALSE,
		is_approved BOOLEAN NOT NULL DEFAULT FALSE,
		approved_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS uq_shifts_employee_date
		ON shifts (employee_id, date) WHERE deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS shift_requests (
		id UUID PRIMARY KEY,
		employee_id UUID NOT NULL REFERENCES employees(id),
		requested_date DATE NOT NULL,
		shift_type_code VARCHAR(50) NOT NULL,
		shift_type_name VARCHAR(100) NOT NULL,
		is_night BOOLEAN NOT NULL DEFAULT FALSE,
		priority INT NOT NULL DEFAULT 1,
		approved BOOLEAN NOT NULL DEFAULT FALSE,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE INDEX IF NOT EXISTS idx_shift_requests_date
		ON shift_requests (requested_date)`,

	`CREATE TABLE IF NOT EXISTS shift_requirements (
		id UUID PRIMARY KEY,
		day_of_week VARCHAR(10) NOT NULL UNIQUE,
		nurse_required INT NOT NULL DEFAULT 0,
		engineer_required INT NOT NULL DEFAULT 0,
		assistant_required INT NOT NULL DEFAULT 0,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS assignment_rules (
		id UUID PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		max_consecutive_days INT NOT NULL DEFAULT 5,
		min_rest_days INT NOT NULL DEFAULT 1,
		max_night_shifts_per_week INT NOT NULL DEFAULT 2,
		priority_weight DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		experience_weight DOUBLE PRECISION NOT NULL DEFAULT 0.3,
		workload_balance_weight DOUBLE PRECISION NOT NULL DEFAULT 0.8,
		allow_preference_override BOOLEAN NOT NULL DEFAULT FALSE,
		enforce_position_requirements BOOLEAN NOT NULL DEFAULT TRUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,
}

// Migrate 执行建表语句
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("执行建表语句 %d 失败: %w", i, err)
		}
	}
	logger.Info().Int("statements", len(schema)).Msg("数据库迁移完成")
	return nil
}
