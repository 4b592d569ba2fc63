package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shiftmaster/shiftmaster/internal/repository"
	apperrors "github.com/shiftmaster/shiftmaster/pkg/errors"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// validWeekdays 合法的星期值
var validWeekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// RequirementHandler 班次需求处理器
type RequirementHandler struct {
	requirements *repository.RequirementRepository
}

// NewRequirementHandler 创建班次需求处理器
func NewRequirementHandler(requirements *repository.RequirementRepository) *RequirementHandler {
	return &RequirementHandler{requirements: requirements}
}

// Handle 处理需求的查询和写入
// GET/PUT /api/v1/requirements
func (h *RequirementHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		requirements, err := h.requirements.List(r.Context())
		if err != nil {
			respondError(w, apperrors.Database(err, "查询班次需求"))
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"requirements": requirements})
	case http.MethodPut:
		h.upsert(w, r)
	default:
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持GET/PUT方法"))
	}
}

// upsert 按星期值写入需求
func (h *RequirementHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req model.ShiftRequirement
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if !validWeekdays[req.DayOfWeek] {
		respondError(w, apperrors.InvalidInput("day_of_week", "应为 Monday..Sunday"))
		return
	}
	if req.NurseRequired < 0 || req.EngineerRequired < 0 || req.AssistantRequired < 0 {
		respondError(w, apperrors.InvalidInput("required", "必要人数不能为负数"))
		return
	}
	if err := h.requirements.Upsert(r.Context(), &req); err != nil {
		respondError(w, apperrors.Database(err, "写入班次需求"))
		return
	}
	respondJSON(w, http.StatusOK, &req)
}
