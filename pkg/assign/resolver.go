package assign

import (
	"context"
	"sort"

	"github.com/google/uuid"
	apperrors "github.com/shiftmaster/shiftmaster/pkg/errors"
	"github.com/shiftmaster/shiftmaster/pkg/logger"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// run 单次分配运行的可变状态
// 工作集与评分缓存仅在本次运行内有效
type run struct {
	store   Store
	log     *logger.EngineLogger
	scorer  *Scorer
	checker *Checker
	set     *ShiftSet
	byID    map[uuid.UUID]*model.Employee
	result  *Result
}

// scoredRequest 带得分的候选申请，保留输入顺序用于稳定排序
type scoredRequest struct {
	req   *model.ShiftRequest
	score float64
}

// resolveDateRole 处理单个 (日期, 职种) 的分配
// 按得分降序贪心提交，名额满后剩余申请标记为未分配；
// 存储层错误向上传播，由调用方按日期粒度容错
func (r *run) resolveDateRole(ctx context.Context, date string, pos model.Position, required int, candidates []*model.ShiftRequest) error {
	if len(candidates) == 0 {
		return nil
	}

	scored := make([]scoredRequest, 0, len(candidates))
	for _, req := range candidates {
		scored = append(scored, scoredRequest{req: req, score: r.scorer.Score(req, date, r.set)})
	}
	// 稳定排序：得分相同时先提交者优先
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	committed := 0
	for _, sr := range scored {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if committed >= required {
			r.result.Unassigned = append(r.result.Unassigned, &UnassignedItem{
				Request: sr.req,
				Reason:  "名额已满",
			})
			continue
		}

		ok, reason := r.checker.Admissible(sr.req, date, r.set)
		if !ok {
			r.log.ConstraintViolation(sr.req.EmployeeID.String(), date, string(reason))
			r.result.Conflicts = append(r.result.Conflicts, &ConflictItem{
				Request: sr.req,
				Date:    date,
				Reason:  reason,
				Detail:  r.checker.Violation(reason, sr.req, date),
			})
			continue
		}

		shift, err := r.commit(ctx, sr.req, date)
		if err != nil {
			// 唯一索引兜底：并发运行或外部编辑抢先占用了该槽位
			if apperrors.Is(err, apperrors.CodeScheduleConflict) {
				r.result.Conflicts = append(r.result.Conflicts, &ConflictItem{
					Request: sr.req,
					Date:    date,
					Reason:  ReasonDuplicateDay,
					Detail:  err.Error(),
				})
				continue
			}
			return err
		}

		committed++
		r.result.Assigned = append(r.result.Assigned, &AssignedItem{
			Request: sr.req,
			Shift:   shift,
			Score:   sr.score,
		})
	}
	return nil
}

// commit 持久化排班并消耗申请
func (r *run) commit(ctx context.Context, req *model.ShiftRequest, date string) (*model.Shift, error) {
	shift := &model.Shift{
		BaseModel:  model.NewBaseModel(),
		EmployeeID: req.EmployeeID,
		Date:       date,
		ShiftType:  req.ShiftType,
		IsApproved: true,
	}
	if err := r.store.CreateShift(ctx, shift); err != nil {
		return nil, err
	}
	if err := r.store.MarkRequestAssigned(ctx, req.ID.String()); err != nil {
		return nil, err
	}
	req.Status = model.RequestAssigned
	r.set.Add(shift)
	return shift, nil
}

// candidatesFor 过滤出指定 (日期, 职种) 的可分配申请，保持输入顺序
func (r *run) candidatesFor(requests []*model.ShiftRequest, date string, pos model.Position) []*model.ShiftRequest {
	var out []*model.ShiftRequest
	for _, req := range requests {
		if req.RequestedDate != date || !req.IsAssignable() {
			continue
		}
		emp, ok := r.byID[req.EmployeeID]
		if !ok || !emp.IsActive() || emp.Position != pos {
			continue
		}
		out = append(out, req)
	}
	return out
}
