package router

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/set-night/erpchat/internal/domain"
)

type fakeHRM struct {
	recorder
	payslip *domain.Result
}

func (f *fakeHRM) EmployeeProfile(_ context.Context, emp int) (domain.Result, error) {
	return f.record("EmployeeProfile", emp)
}
func (f *fakeHRM) EmployeeDepartment(_ context.Context, emp int) (domain.Result, error) {
	return f.record("EmployeeDepartment", emp)
}
func (f *fakeHRM) EmployeePosition(_ context.Context, emp int) (domain.Result, error) {
	return f.record("EmployeePosition", emp)
}
func (f *fakeHRM) TodayAttendance(_ context.Context, emp int, today time.Time) (domain.Result, error) {
	return f.record("TodayAttendance", emp, today.Format(time.DateOnly))
}
func (f *fakeHRM) AttendanceHistory(_ context.Context, emp, limit int) (domain.Result, error) {
	return f.record("AttendanceHistory", emp, limit)
}
func (f *fakeHRM) LateOTSummary(_ context.Context, emp, month, year int) (domain.Result, error) {
	return f.record("LateOTSummary", emp, month, year)
}
func (f *fakeHRM) LaborContract(_ context.Context, emp int) (domain.Result, error) {
	return f.record("LaborContract", emp)
}
func (f *fakeHRM) SalaryHistory(_ context.Context, emp, limit int) (domain.Result, error) {
	return f.record("SalaryHistory", emp, limit)
}
func (f *fakeHRM) Payslip(_ context.Context, emp, month, year int) (domain.Result, error) {
	res, err := f.record("Payslip", emp, month, year)
	if f.payslip != nil {
		return *f.payslip, err
	}
	return res, err
}
func (f *fakeHRM) PayslipDetail(_ context.Context, emp, month, year int) (domain.Result, error) {
	return f.record("PayslipDetail", emp, month, year)
}

func newTestHRM(store HRMStore) *HRM {
	h := NewHRM(store)
	h.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	return h
}

func TestHRMClassify(t *testing.T) {
	h := newTestHRM(&fakeHRM{})

	tests := []struct {
		question string
		wantOp   string
		wantEnts domain.Entities
	}{
		{"Cho tôi xem hồ sơ của tôi", "get_employee_profile", domain.Entities{}},
		{"Tôi thuộc phòng nào?", "get_employee_department", domain.Entities{}},
		{"Chức vụ của tôi là gì", "get_employee_position", domain.Entities{}},
		{"Hôm nay tôi check in lúc mấy giờ", "get_today_attendance", domain.Entities{}},
		{"Lịch sử chấm công", "get_attendance_history", domain.Entities{}},
		{"Tổng số phút đi muộn tháng 3", "get_late_ot_summary", domain.Entities{"month": 3, "year": 2026}},
		{"Ca làm việc của tôi", "get_work_shift", domain.Entities{}},
		{"Hợp đồng lao động của tôi", "get_labor_contract", domain.Entities{}},
		{"Lịch sử lương", "get_salary_history", domain.Entities{}},
		{"Chi tiết lương tháng 5 năm 2025", "get_payslip_detail", domain.Entities{"month": 5, "year": 2025}},
		{"Lương tháng 2 của tôi", "get_payslip", domain.Entities{"month": 2, "year": 2026}},
	}

	for _, tt := range tests {
		t.Run(tt.wantOp, func(t *testing.T) {
			in, ok := h.Classify(domain.Query{Text: tt.question, ActorID: 7})
			if !ok {
				t.Fatalf("Classify(%q) did not match", tt.question)
			}
			if in.Operation != tt.wantOp {
				t.Errorf("operation = %q, want %q", in.Operation, tt.wantOp)
			}
			if diff := cmp.Diff(tt.wantEnts, in.Entities); diff != "" {
				t.Errorf("entities mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHRMClassifyMonthRequired(t *testing.T) {
	h := newTestHRM(&fakeHRM{})
	for _, q := range []string{"Số giờ tăng ca của tôi", "Lương của tôi", "Thời tiết thế nào"} {
		if in, ok := h.Classify(domain.Query{Text: q}); ok {
			t.Errorf("Classify(%q) = %q, want no match", q, in.Operation)
		}
	}
}

func TestHRMExecuteUsesActor(t *testing.T) {
	store := &fakeHRM{}
	h := newTestHRM(store)

	for _, q := range []string{"Hồ sơ", "Hôm nay", "Lịch sử chấm công", "Đi muộn tháng 9"} {
		if _, _, _, err := Route(context.Background(), h, domain.Query{Text: q, ActorID: 7}); err != nil {
			t.Fatalf("Route(%q): %v", q, err)
		}
	}
	want := []storeCall{
		{Op: "EmployeeProfile", Args: []any{7}},
		{Op: "TodayAttendance", Args: []any{7, "2026-10-15"}},
		{Op: "AttendanceHistory", Args: []any{7, 10}},
		{Op: "LateOTSummary", Args: []any{7, 9, 2026}},
	}
	if diff := cmp.Diff(want, store.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestHRMWorkShiftIsStatic(t *testing.T) {
	store := &fakeHRM{}
	h := newTestHRM(store)

	_, res, ok, err := Route(context.Background(), h, domain.Query{Text: "Ca làm của tôi", ActorID: 1})
	if err != nil || !ok {
		t.Fatalf("Route: ok=%v err=%v", ok, err)
	}
	if !res.IsMessage() || res.Message != noWorkShiftMessage {
		t.Errorf("result = %+v", res)
	}
	if len(store.calls) != 0 {
		t.Errorf("store called: %+v", store.calls)
	}
}

func TestHRMPayslipDetail(t *testing.T) {
	t.Run("combines summary and lines", func(t *testing.T) {
		store := &fakeHRM{}
		h := newTestHRM(store)

		_, res, _, err := Route(context.Background(), h, domain.Query{Text: "Chi tiết lương tháng 5", ActorID: 7})
		if err != nil {
			t.Fatal(err)
		}
		want := domain.NewRecord(domain.Record{
			"summary": domain.NewRecord(domain.Record{"op": "Payslip"}),
			"details": domain.NewRecord(domain.Record{"op": "PayslipDetail"}),
		})
		if diff := cmp.Diff(want, res); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing payslip skips lines", func(t *testing.T) {
		missing := domain.NewMessage("Chưa có bảng lương tháng này")
		store := &fakeHRM{payslip: &missing}
		h := newTestHRM(store)

		_, res, _, err := Route(context.Background(), h, domain.Query{Text: "Chi tiết lương tháng 5", ActorID: 7})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(missing, res); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
		want := []storeCall{{Op: "Payslip", Args: []any{7, 5, 2026}}}
		if diff := cmp.Diff(want, store.calls); diff != "" {
			t.Errorf("calls mismatch (-want +got):\n%s", diff)
		}
	})
}
