package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/router"
)

// HRMStore reads the personnel database.
type HRMStore struct {
	db DBTX
}

var _ router.HRMStore = (*HRMStore)(nil)

func NewHRMStore(db DBTX) *HRMStore {
	return &HRMStore{db: db}
}

func (s *HRMStore) EmployeeProfile(ctx context.Context, employeeID int) (domain.Result, error) {
	var (
		code, name, status string
		phone, email       *string
		joined             *time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT employee_code, full_name, phone, email_company, status::text, join_date
		 FROM employee WHERE id = $1`,
		employeeID,
	).Scan(&code, &name, &phone, &email, &status, &joined)
	return one("get employee profile", err, "Không tìm thấy nhân viên", func() domain.Record {
		return domain.Record{
			"employee_code": code,
			"full_name":     name,
			"phone":         phone,
			"email_company": email,
			"status":        status,
			"join_date":     nullDay(joined),
		}
	})
}

func (s *HRMStore) EmployeeDepartment(ctx context.Context, employeeID int) (domain.Result, error) {
	var (
		code, name  string
		description *string
	)
	err := s.db.QueryRow(ctx,
		`SELECT d.code, d.name, d.description
		 FROM employee e
		 JOIN department d ON d.id = e.department_id
		 WHERE e.id = $1`,
		employeeID,
	).Scan(&code, &name, &description)
	return one("get employee department", err, "Không có thông tin phòng ban", func() domain.Record {
		return domain.Record{
			"department_code": code,
			"department_name": name,
			"description":     description,
		}
	})
}

func (s *HRMStore) EmployeePosition(ctx context.Context, employeeID int) (domain.Result, error) {
	var (
		title  string
		lo, hi decimal.NullDecimal
	)
	err := s.db.QueryRow(ctx,
		`SELECT p.title, p.base_salary_range_min, p.base_salary_range_max
		 FROM employee e
		 JOIN position p ON p.id = e.position_id
		 WHERE e.id = $1`,
		employeeID,
	).Scan(&title, &lo, &hi)
	return one("get employee position", err, "Không có thông tin chức vụ", func() domain.Record {
		return domain.Record{
			"position_title": title,
			"salary_range": domain.Record{
				"min": nullMoney(lo),
				"max": nullMoney(hi),
			},
		}
	})
}

func (s *HRMStore) TodayAttendance(ctx context.Context, employeeID int, today time.Time) (domain.Result, error) {
	var (
		checkIn, checkOut *string
		late              *int
		ot                *float64
	)
	err := s.db.QueryRow(ctx,
		`SELECT check_in_time::text, check_out_time::text, late_minutes, ot_hours
		 FROM timesheet_daily
		 WHERE employee_id = $1 AND date = $2
		 LIMIT 1`,
		employeeID, today,
	).Scan(&checkIn, &checkOut, &late, &ot)
	return one("get today attendance", err, "Hôm nay chưa có dữ liệu chấm công", func() domain.Record {
		return domain.Record{
			"date":         day(today),
			"check_in":     checkIn,
			"check_out":    checkOut,
			"late_minutes": late,
			"ot_hours":     ot,
		}
	})
}

func (s *HRMStore) AttendanceHistory(ctx context.Context, employeeID, limit int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT date, check_in_time::text, check_out_time::text, status::text
		 FROM timesheet_daily
		 WHERE employee_id = $1
		 ORDER BY date DESC LIMIT $2`,
		employeeID, limit,
	)
	return many("get attendance history", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			date                      time.Time
			checkIn, checkOut, status *string
		)
		if err := row.Scan(&date, &checkIn, &checkOut, &status); err != nil {
			return nil, err
		}
		return domain.Record{
			"date":      day(date),
			"check_in":  checkIn,
			"check_out": checkOut,
			"status":    status,
		}, nil
	})
}

func (s *HRMStore) LateOTSummary(ctx context.Context, employeeID, month, year int) (domain.Result, error) {
	var (
		late int64
		ot   float64
	)
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(late_minutes), 0), COALESCE(SUM(ot_hours), 0)::float8
		 FROM timesheet_daily
		 WHERE employee_id = $1
		   AND EXTRACT(MONTH FROM date) = $2
		   AND EXTRACT(YEAR FROM date) = $3`,
		employeeID, month, year,
	).Scan(&late, &ot)
	if err != nil {
		return domain.Result{}, fmt.Errorf("get late ot summary: %w", err)
	}
	return domain.NewRecord(domain.Record{
		"month":              month,
		"year":               year,
		"total_late_minutes": late,
		"total_ot_hours":     ot,
	}), nil
}

// LaborContract returns the most recently started contract.
func (s *HRMStore) LaborContract(ctx context.Context, employeeID int) (domain.Result, error) {
	var (
		number, kind, status string
		start                time.Time
		end                  *time.Time
		salary               decimal.Decimal
	)
	err := s.db.QueryRow(ctx,
		`SELECT contract_number, contract_type::text, start_date, end_date, basic_salary, status::text
		 FROM labor_contract
		 WHERE employee_id = $1
		 ORDER BY start_date DESC LIMIT 1`,
		employeeID,
	).Scan(&number, &kind, &start, &end, &salary, &status)
	return one("get labor contract", err, "Không có hợp đồng lao động", func() domain.Record {
		return domain.Record{
			"contract_number": number,
			"contract_type":   kind,
			"start_date":      day(start),
			"end_date":        nullDay(end),
			"basic_salary":    money(salary),
			"status":          status,
		}
	})
}

func (s *HRMStore) Payslip(ctx context.Context, employeeID, month, year int) (domain.Result, error) {
	var (
		m, y       int
		gross, net decimal.Decimal
		status     string
	)
	err := s.db.QueryRow(ctx,
		`SELECT pp.month, pp.year, p.gross_salary, p.net_salary, p.status::text
		 FROM payslip p
		 JOIN payroll_period pp ON pp.id = p.payroll_period_id
		 WHERE p.employee_id = $1 AND pp.month = $2 AND pp.year = $3
		 LIMIT 1`,
		employeeID, month, year,
	).Scan(&m, &y, &gross, &net, &status)
	return one("get payslip", err, "Chưa có bảng lương tháng này", func() domain.Record {
		return domain.Record{
			"month":        m,
			"year":         y,
			"gross_salary": money(gross),
			"net_salary":   money(net),
			"status":       status,
		}
	})
}

// PayslipDetail lists the salary rule lines of the employee's payslip for
// the given period.
func (s *HRMStore) PayslipDetail(ctx context.Context, employeeID, month, year int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT r.name, r.type::text, d.amount
		 FROM payslip_detail d
		 JOIN salary_rule r ON r.id = d.salary_rule_id
		 JOIN payslip p ON p.id = d.payslip_id
		 JOIN payroll_period pp ON pp.id = p.payroll_period_id
		 WHERE p.employee_id = $1 AND pp.month = $2 AND pp.year = $3
		 ORDER BY d.id`,
		employeeID, month, year,
	)
	return many("get payslip detail", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			name, kind string
			amount     decimal.Decimal
		)
		if err := row.Scan(&name, &kind, &amount); err != nil {
			return nil, err
		}
		return domain.Record{"rule_name": name, "rule_type": kind, "amount": money(amount)}, nil
	})
}

func (s *HRMStore) SalaryHistory(ctx context.Context, employeeID, limit int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT pp.month, pp.year, p.net_salary
		 FROM payslip p
		 JOIN payroll_period pp ON pp.id = p.payroll_period_id
		 WHERE p.employee_id = $1
		 ORDER BY pp.year DESC, pp.month DESC
		 LIMIT $2`,
		employeeID, limit,
	)
	return many("get salary history", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			month, year int
			net         decimal.Decimal
		)
		if err := row.Scan(&month, &year, &net); err != nil {
			return nil, err
		}
		return domain.Record{"month": month, "year": year, "net_salary": money(net)}, nil
	})
}
