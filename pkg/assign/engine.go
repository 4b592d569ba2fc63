package assign

import (
	"context"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/shiftmaster/shiftmaster/pkg/errors"
	"github.com/shiftmaster/shiftmaster/pkg/logger"
	"github.com/shiftmaster/shiftmaster/pkg/model"
)

// Engine 排班分配引擎
// 单线程同步批处理：一次调用处理一个连续日期区间，内部无并行
type Engine struct {
	store Store
	log   *logger.EngineLogger
}

// NewEngine 创建分配引擎
func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		log:   logger.NewEngineLogger(),
	}
}

// Run 对指定日期区间执行自动分配
// rule 为 nil 时使用存储层的启用规则，不存在时回退到默认规则；
// 规则在开始前校验一次，避免中途失败
func (e *Engine) Run(ctx context.Context, dr model.DateRange, rule *model.AssignmentRule) (*Result, error) {
	startTime := time.Now()

	if !dr.Valid() {
		return nil, apperrors.InvalidTimeRange(dr.StartDate, dr.EndDate)
	}

	if rule == nil {
		active, err := e.store.GetActiveRule(ctx)
		if err != nil {
			return nil, apperrors.Database(err, "获取启用规则")
		}
		if active != nil {
			rule = active
		} else {
			rule = model.DefaultAssignmentRule()
		}
	}
	if err := rule.Validate(); err != nil {
		return nil, apperrors.InvalidRule(err.Error())
	}

	employees, err := e.store.ListActiveEmployees(ctx)
	if err != nil {
		return nil, apperrors.Database(err, "获取员工列表")
	}
	requests, err := e.store.ListPendingApprovedRequests(ctx, dr)
	if err != nil {
		return nil, apperrors.Database(err, "获取班次申请")
	}
	requirements, err := e.store.ListRequirements(ctx)
	if err != nil {
		return nil, apperrors.Database(err, "获取班次需求")
	}

	// 回溯加载区间前90天的排班，供经验评分与连续/夜班约束使用
	loadRange := model.DateRange{
		StartDate: addDays(dr.StartDate, -experienceWindowDays),
		EndDate:   dr.EndDate,
	}
	shifts, err := e.store.ListShifts(ctx, loadRange)
	if err != nil {
		return nil, apperrors.Database(err, "获取已有排班")
	}

	e.log.StartRun(dr.StartDate, dr.EndDate, len(employees), len(requests))

	byWeekday := make(map[string]*model.ShiftRequirement, len(requirements))
	for _, req := range requirements {
		byWeekday[req.DayOfWeek] = req
	}
	byID := make(map[uuid.UUID]*model.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	r := &run{
		store:   e.store,
		log:     e.log,
		scorer:  NewScorer(rule, employees, shifts, dr.StartDate),
		checker: NewChecker(rule),
		set:     NewShiftSet(shifts),
		byID:    byID,
		result:  newResult(),
	}

	// 日期严格升序处理：后续日期的约束判定依赖先前日期已提交的排班
	for _, date := range datesInRange(dr) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		requirement, ok := byWeekday[weekdayOf(date)]
		if !ok {
			// 无需求定义的日期整体跳过，当日申请不产生任何结果记录
			continue
		}

		if err := e.resolveDate(ctx, r, date, requirement, requests); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			// 存储层故障按日期粒度容错：记录失败日期后继续
			e.log.DateFailed(date, err)
			r.result.FailedDates = append(r.result.FailedDates, &FailedDate{
				Date:  date,
				Error: err.Error(),
			})
		}
	}

	r.result.finalize(time.Since(startTime))
	e.log.RunComplete(r.result.Duration,
		r.result.Statistics.AssignedCount,
		r.result.Statistics.UnassignedCount,
		r.result.Statistics.ConflictCount)
	return r.result, nil
}

// resolveDate 处理单个日期：按固定职种顺序逐一分配
func (e *Engine) resolveDate(ctx context.Context, r *run, date string, requirement *model.ShiftRequirement, requests []*model.ShiftRequest) error {
	for _, pos := range model.AllPositions() {
		required := requirement.RequiredFor(pos)
		if required <= 0 {
			continue
		}
		candidates := r.candidatesFor(requests, date, pos)
		if err := r.resolveDateRole(ctx, date, pos, required, candidates); err != nil {
			return err
		}
	}
	return nil
}

// WorkloadStats 计算指定参考日期所在月份的员工工作量统计
// 供统计类接口使用，与分配运行共享同一计算逻辑
func (e *Engine) WorkloadStats(ctx context.Context, refDate string) (map[uuid.UUID]*WorkloadStats, error) {
	employees, err := e.store.ListActiveEmployees(ctx)
	if err != nil {
		return nil, apperrors.Database(err, "获取员工列表")
	}
	dr, ok := monthRange(refDate)
	if !ok {
		return nil, apperrors.InvalidInput("ref_date", "日期格式应为 YYYY-MM-DD")
	}
	shifts, err := e.store.ListShifts(ctx, dr)
	if err != nil {
		return nil, apperrors.Database(err, "获取已有排班")
	}
	return buildWorkloadStats(employees, shifts, refDate), nil
}
