package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, name, name_kana, code, email, phone, position, status, hire_date, created_at, updated_at`

// Create 创建员工
func (r *EmployeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	if emp.ID == uuid.Nil {
		emp.ID = uuid.New()
	}
	now := time.Now()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.NameKana, emp.Code, emp.Email, emp.Phone,
		emp.Position, emp.Status, nullString(emp.HireDate), emp.CreatedAt, emp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}
	return nil
}

// GetByID 根据ID获取员工
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`
	emp := &model.Employee{}
	var hireDate sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&emp.ID, &emp.Name, &emp.NameKana, &emp.Code, &emp.Email, &emp.Phone,
		&emp.Position, &emp.Status, &hireDate, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	emp.HireDate = hireDate.String
	return emp, nil
}

// Update 更新员工
func (r *EmployeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	emp.UpdatedAt = time.Now()
	query := `
		UPDATE employees SET
			name = $2, name_kana = $3, email = $4, phone = $5,
			position = $6, status = $7, hire_date = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.NameKana, emp.Email, emp.Phone,
		emp.Position, emp.Status, nullString(emp.HireDate), emp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新员工失败: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("员工不存在: %s", emp.ID)
	}
	return nil
}

// ListActive 返回所有在职员工
func (r *EmployeeRepository) ListActive(ctx context.Context) ([]*model.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE status = 'active' AND deleted_at IS NULL
		ORDER BY code
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询在职员工失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp := &model.Employee{}
		var hireDate sql.NullString
		if err := rows.Scan(
			&emp.ID, &emp.Name, &emp.NameKana, &emp.Code, &emp.Email, &emp.Phone,
			&emp.Position, &emp.Status, &hireDate, &emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描员工记录失败: %w", err)
		}
		emp.HireDate = hireDate.String
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// nullString 空字符串转为 NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
