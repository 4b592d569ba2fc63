package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shiftmaster/shiftmaster/internal/repository"
	apperrors "github.com/shiftmaster/shiftmaster/pkg/errors"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// RuleHandler 分配规则处理器
type RuleHandler struct {
	rules *repository.RuleRepository
}

// NewRuleHandler 创建分配规则处理器
func NewRuleHandler(rules *repository.RuleRepository) *RuleHandler {
	return &RuleHandler{rules: rules}
}

// List 返回全部规则
// GET /api/v1/rules
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rules, err := h.rules.List(r.Context())
		if err != nil {
			respondError(w, apperrors.Database(err, "查询规则列表"))
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"rules": rules})
	case http.MethodPost:
		h.create(w, r)
	default:
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持GET/POST方法"))
	}
}

// create 创建规则
func (h *RuleHandler) create(w http.ResponseWriter, r *http.Request) {
	var rule model.AssignmentRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if rule.Name == "" {
		respondError(w, apperrors.InvalidInput("name", "规则名称不能为空"))
		return
	}
	if err := rule.Validate(); err != nil {
		respondError(w, apperrors.InvalidRule(err.Error()))
		return
	}
	if err := h.rules.Create(r.Context(), &rule); err != nil {
		respondError(w, apperrors.Database(err, "创建规则"))
		return
	}
	respondJSON(w, http.StatusCreated, &rule)
}

// Active 返回当前启用的规则
// GET /api/v1/rules/active
func (h *RuleHandler) Active(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	rule, err := h.rules.GetActive(r.Context())
	if err != nil {
		respondError(w, apperrors.Database(err, "查询启用规则"))
		return
	}
	if rule == nil {
		respondError(w, apperrors.ErrNoActiveRule)
		return
	}
	respondJSON(w, http.StatusOK, rule)
}
