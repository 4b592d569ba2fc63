// Package model 定义排班引擎的核心数据模型
package model

// Employee 员工
type Employee struct {
	BaseModel
	Name     string   `json:"name" db:"name"`
	NameKana string   `json:"name_kana,omitempty" db:"name_kana"`
	Code     string   `json:"code" db:"code"`
	Email    string   `json:"email,omitempty" db:"email"`
	Phone    string   `json:"phone,omitempty" db:"phone"`
	Position Position `json:"position" db:"position"`
	Status   string   `json:"status" db:"status"` // active/inactive/leave
	HireDate string   `json:"hire_date,omitempty" db:"hire_date"`
}

// IsActive 检查员工是否在职
func (e *Employee) IsActive() bool {
	return e.Status == "active"
}
