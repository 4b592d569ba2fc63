// Package model 定义排班引擎的核心数据模型
package model

import "fmt"

// AssignmentRule 排班分配规则
// 规则总是作为显式参数传入引擎，不作为包级默认状态持有
type AssignmentRule struct {
	BaseModel
	Name string `json:"name" db:"name"`

	// 连续工作限制
	MaxConsecutiveDays    int `json:"max_consecutive_days" db:"max_consecutive_days"`
	MinRestDays           int `json:"min_rest_days" db:"min_rest_days"` // 预留字段，当前不参与判定
	MaxNightShiftsPerWeek int `json:"max_night_shifts_per_week" db:"max_night_shifts_per_week"`

	// 评分权重
	PriorityWeight        float64 `json:"priority_weight" db:"priority_weight"`
	ExperienceWeight      float64 `json:"experience_weight" db:"experience_weight"`
	WorkloadBalanceWeight float64 `json:"workload_balance_weight" db:"workload_balance_weight"`

	// 其他开关（预留字段，当前不参与判定）
	AllowPreferenceOverride     bool `json:"allow_preference_override" db:"allow_preference_override"`
	EnforcePositionRequirements bool `json:"enforce_position_requirements" db:"enforce_position_requirements"`

	IsActive bool `json:"is_active" db:"is_active"`
}

// DefaultAssignmentRule 返回默认分配规则
func DefaultAssignmentRule() *AssignmentRule {
	return &AssignmentRule{
		BaseModel:                   NewBaseModel(),
		Name:                        "默认规则",
		MaxConsecutiveDays:          5,
		MinRestDays:                 1,
		MaxNightShiftsPerWeek:       2,
		PriorityWeight:              1.0,
		ExperienceWeight:            0.3,
		WorkloadBalanceWeight:       0.8,
		AllowPreferenceOverride:     false,
		EnforcePositionRequirements: true,
		IsActive:                    true,
	}
}

// Validate 校验规则配置
// 在排班开始前调用一次，避免中途失败
func (r *AssignmentRule) Validate() error {
	if r.MaxConsecutiveDays < 1 {
		return fmt.Errorf("最大连续工作天数必须大于0，当前为 %d", r.MaxConsecutiveDays)
	}
	if r.MinRestDays < 0 {
		return fmt.Errorf("最小休息天数不能为负数，当前为 %d", r.MinRestDays)
	}
	if r.MaxNightShiftsPerWeek < 0 {
		return fmt.Errorf("周最大夜班次数不能为负数，当前为 %d", r.MaxNightShiftsPerWeek)
	}
	if r.PriorityWeight < 0 {
		return fmt.Errorf("优先度权重不能为负数，当前为 %.2f", r.PriorityWeight)
	}
	if r.ExperienceWeight < 0 {
		return fmt.Errorf("经验权重不能为负数，当前为 %.2f", r.ExperienceWeight)
	}
	if r.WorkloadBalanceWeight < 0 {
		return fmt.Errorf("负荷均衡权重不能为负数，当前为 %.2f", r.WorkloadBalanceWeight)
	}
	return nil
}
