package router

import (
	"context"
	"fmt"
	"time"

	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/extract"
)

const noWorkShiftMessage = "Nhân viên chưa được gán ca làm việc cố định"

// HRMStore is the personnel data the HRM router reads. Every call is scoped
// to one employee.
type HRMStore interface {
	EmployeeProfile(ctx context.Context, employeeID int) (domain.Result, error)
	EmployeeDepartment(ctx context.Context, employeeID int) (domain.Result, error)
	EmployeePosition(ctx context.Context, employeeID int) (domain.Result, error)
	TodayAttendance(ctx context.Context, employeeID int, today time.Time) (domain.Result, error)
	AttendanceHistory(ctx context.Context, employeeID, limit int) (domain.Result, error)
	LateOTSummary(ctx context.Context, employeeID, month, year int) (domain.Result, error)
	LaborContract(ctx context.Context, employeeID int) (domain.Result, error)
	SalaryHistory(ctx context.Context, employeeID, limit int) (domain.Result, error)
	Payslip(ctx context.Context, employeeID, month, year int) (domain.Result, error)
	PayslipDetail(ctx context.Context, employeeID, month, year int) (domain.Result, error)
}

type HRM struct {
	store   HRMStore
	now     func() time.Time
	cascade Cascade
}

var _ Router = (*HRM)(nil)

func NewHRM(store HRMStore) *HRM {
	h := &HRM{store: store, now: time.Now}
	h.cascade = Cascade{
		Domain: domain.DomainHRM,
		Rules: []Rule{
			{Area: "profile", Operation: "get_employee_profile", Confidence: 0.9,
				Match: keywords("hồ sơ", "thông tin nhân viên")},
			{Area: "profile", Operation: "get_employee_department", Confidence: 0.9,
				Match: keywords("phòng")},
			{Area: "profile", Operation: "get_employee_position", Confidence: 0.9,
				Match: keywords("chức vụ", "vị trí")},
			{Area: "attendance", Operation: "get_today_attendance", Confidence: 0.9,
				Match: keywords("hôm nay", "check in")},
			{Area: "attendance", Operation: "get_attendance_history", Confidence: 0.9,
				Match: keywords("lịch sử chấm công")},
			{Area: "attendance", Operation: "get_late_ot_summary", Confidence: 0.9,
				Match: keywords("đi muộn", "tăng ca", "ot"), Extract: h.monthEntity},
			{Area: "attendance", Operation: "get_work_shift", Confidence: 0.8,
				Match: keywords("ca làm")},
			{Area: "contract", Operation: "get_labor_contract", Confidence: 0.9,
				Match: keywords("hợp đồng")},
			{Area: "payroll", Operation: "get_salary_history", Confidence: 0.9,
				Match: keywords("lịch sử lương")},
			{Area: "payroll", Operation: "get_payslip_detail", Confidence: 0.9,
				Match: keywords("chi tiết lương"), Extract: h.monthEntity},
			{Area: "payroll", Operation: "get_payslip", Confidence: 0.9,
				Match: keywords("lương"), Extract: h.monthEntity},
		},
	}
	return h
}

func (h *HRM) monthEntity(q domain.Query) (domain.Entities, bool) {
	month, year, ok := extract.MonthYear(q.Text, h.now())
	if !ok {
		return nil, false
	}
	return domain.Entities{"month": month, "year": year}, true
}

func (h *HRM) Domain() domain.Domain { return domain.DomainHRM }

func (h *HRM) Classify(q domain.Query) (*domain.Intent, bool) {
	return h.cascade.Classify(q)
}

func (h *HRM) Execute(ctx context.Context, in *domain.Intent) (domain.Result, error) {
	emp := in.Query.ActorID
	month, _ := in.Entities.Int("month")
	year, _ := in.Entities.Int("year")

	var (
		res domain.Result
		err error
	)
	switch in.Operation {
	case "get_employee_profile":
		res, err = h.store.EmployeeProfile(ctx, emp)
	case "get_employee_department":
		res, err = h.store.EmployeeDepartment(ctx, emp)
	case "get_employee_position":
		res, err = h.store.EmployeePosition(ctx, emp)
	case "get_today_attendance":
		res, err = h.store.TodayAttendance(ctx, emp, h.now())
	case "get_attendance_history":
		res, err = h.store.AttendanceHistory(ctx, emp, config.AttendanceHistoryLimit)
	case "get_late_ot_summary":
		res, err = h.store.LateOTSummary(ctx, emp, month, year)
	case "get_work_shift":
		res = domain.NewMessage(noWorkShiftMessage)
	case "get_labor_contract":
		res, err = h.store.LaborContract(ctx, emp)
	case "get_salary_history":
		res, err = h.store.SalaryHistory(ctx, emp, config.SalaryHistoryLimit)
	case "get_payslip_detail":
		res, err = h.payslipDetail(ctx, emp, month, year)
	case "get_payslip":
		res, err = h.store.Payslip(ctx, emp, month, year)
	default:
		return domain.Result{}, unknownOperation(h.Domain(), in.Operation)
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("hrm %s: %w", in.Operation, err)
	}
	return res, nil
}

// payslipDetail combines the payslip summary with its salary rule lines.
// Without a payslip the not-found message is returned as is.
func (h *HRM) payslipDetail(ctx context.Context, emp, month, year int) (domain.Result, error) {
	summary, err := h.store.Payslip(ctx, emp, month, year)
	if err != nil || summary.IsMessage() {
		return summary, err
	}
	details, err := h.store.PayslipDetail(ctx, emp, month, year)
	if err != nil {
		return domain.Result{}, err
	}
	return domain.NewRecord(domain.Record{
		"summary": summary,
		"details": details,
	}), nil
}
