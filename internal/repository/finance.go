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

// FinanceStore reads the accounting database.
type FinanceStore struct {
	db DBTX
}

var _ router.FinanceStore = (*FinanceStore)(nil)

func NewFinanceStore(db DBTX) *FinanceStore {
	return &FinanceStore{db: db}
}

// Outstanding is what is still owed on invoices. It is not clamped: an
// overpaid partner has a negative outstanding amount.
func Outstanding(total, settled decimal.Decimal) decimal.Decimal {
	return total.Sub(settled)
}

// Balance is the net of an account's journal lines, debit minus credit.
func Balance(debit, credit decimal.Decimal) decimal.Decimal {
	return debit.Sub(credit)
}

func (s *FinanceStore) ARInvoiceStatus(ctx context.Context, invoiceID int) (domain.Result, error) {
	var (
		id              int
		total, received decimal.Decimal
		status          string
		due             time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT invoice_id, total_amount, received_amount, payment_status, due_date
		 FROM ar_invoices WHERE invoice_id = $1`,
		invoiceID,
	).Scan(&id, &total, &received, &status, &due)
	return one("get ar invoice status", err, "Không tìm thấy hóa đơn bán", func() domain.Record {
		return domain.Record{
			"invoice_id":      id,
			"total_amount":    money(total),
			"received_amount": money(received),
			"payment_status":  status,
			"due_date":        day(due),
		}
	})
}

func (s *FinanceStore) ARInvoiceDetail(ctx context.Context, invoiceID int) (domain.Result, error) {
	var (
		id              int
		customer        string
		issued, due     time.Time
		total, received decimal.Decimal
		status          string
	)
	err := s.db.QueryRow(ctx,
		`SELECT i.invoice_id, p.partner_name, i.invoice_date, i.due_date,
		        i.total_amount, i.received_amount, i.payment_status
		 FROM ar_invoices i
		 JOIN business_partners p ON p.partner_id = i.partner_id
		 WHERE i.invoice_id = $1`,
		invoiceID,
	).Scan(&id, &customer, &issued, &due, &total, &received, &status)
	return one("get ar invoice detail", err, "Không tìm thấy hóa đơn bán", func() domain.Record {
		return domain.Record{
			"invoice_id":      id,
			"customer":        customer,
			"invoice_date":    day(issued),
			"due_date":        day(due),
			"total_amount":    money(total),
			"received_amount": money(received),
			"payment_status":  status,
		}
	})
}

func (s *FinanceStore) CustomerReceivable(ctx context.Context, partnerID int) (domain.Result, error) {
	var total, received decimal.Decimal
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0), COALESCE(SUM(received_amount), 0)
		 FROM ar_invoices WHERE partner_id = $1`,
		partnerID,
	).Scan(&total, &received)
	if err != nil {
		return domain.Result{}, fmt.Errorf("get customer receivable: %w", err)
	}
	return domain.NewRecord(domain.Record{
		"partner_id":       partnerID,
		"total_receivable": money(total),
		"total_received":   money(received),
		"outstanding":      money(Outstanding(total, received)),
	}), nil
}

func (s *FinanceStore) APInvoiceStatus(ctx context.Context, invoiceID int) (domain.Result, error) {
	var (
		id          int
		total, paid decimal.Decimal
		status      string
		due         time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT invoice_id, total_amount, paid_amount, payment_status, due_date
		 FROM ap_invoices WHERE invoice_id = $1`,
		invoiceID,
	).Scan(&id, &total, &paid, &status, &due)
	return one("get ap invoice status", err, "Không tìm thấy hóa đơn mua", func() domain.Record {
		return domain.Record{
			"invoice_id":     id,
			"total_amount":   money(total),
			"paid_amount":    money(paid),
			"payment_status": status,
			"due_date":       day(due),
		}
	})
}

func (s *FinanceStore) APInvoiceDetail(ctx context.Context, invoiceID int) (domain.Result, error) {
	var (
		id          int
		supplier    string
		issued, due time.Time
		total, paid decimal.Decimal
		status      string
	)
	err := s.db.QueryRow(ctx,
		`SELECT i.invoice_id, p.partner_name, i.invoice_date, i.due_date,
		        i.total_amount, i.paid_amount, i.payment_status
		 FROM ap_invoices i
		 JOIN business_partners p ON p.partner_id = i.partner_id
		 WHERE i.invoice_id = $1`,
		invoiceID,
	).Scan(&id, &supplier, &issued, &due, &total, &paid, &status)
	return one("get ap invoice detail", err, "Không tìm thấy hóa đơn mua", func() domain.Record {
		return domain.Record{
			"invoice_id":     id,
			"supplier":       supplier,
			"invoice_date":   day(issued),
			"due_date":       day(due),
			"total_amount":   money(total),
			"paid_amount":    money(paid),
			"payment_status": status,
		}
	})
}

func (s *FinanceStore) SupplierPayable(ctx context.Context, partnerID int) (domain.Result, error) {
	var total, paid decimal.Decimal
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0), COALESCE(SUM(paid_amount), 0)
		 FROM ap_invoices WHERE partner_id = $1`,
		partnerID,
	).Scan(&total, &paid)
	if err != nil {
		return domain.Result{}, fmt.Errorf("get supplier payable: %w", err)
	}
	return domain.NewRecord(domain.Record{
		"partner_id":    partnerID,
		"total_payable": money(total),
		"total_paid":    money(paid),
		"outstanding":   money(Outstanding(total, paid)),
	}), nil
}

func (s *FinanceStore) CashTransaction(ctx context.Context, txID int) (domain.Result, error) {
	var (
		txType, method string
		amount         decimal.Decimal
		bankAccount    *string
		createdAt      time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT transaction_type, amount, payment_method, bank_account_number, created_at
		 FROM cash_transactions WHERE transaction_id = $1`,
		txID,
	).Scan(&txType, &amount, &method, &bankAccount, &createdAt)
	return one("get cash transaction", err, "Không tìm thấy giao dịch tiền", func() domain.Record {
		return domain.Record{
			"transaction_type": txType,
			"amount":           money(amount),
			"payment_method":   method,
			"bank_account":     bankAccount,
			"created_at":       stamp(createdAt),
		}
	})
}

func (s *FinanceStore) CashFlowHistory(ctx context.Context, limit int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT transaction_type, amount, payment_method, created_at
		 FROM cash_transactions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	return many("get cash flow history", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			txType, method string
			amount         decimal.Decimal
			createdAt      time.Time
		)
		if err := row.Scan(&txType, &amount, &method, &createdAt); err != nil {
			return nil, err
		}
		return domain.Record{"type": txType, "amount": money(amount), "method": method, "date": stamp(createdAt)}, nil
	})
}

func (s *FinanceStore) JournalEntries(ctx context.Context, limit int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT entry_id, transaction_date, description, total_amount, status
		 FROM journal_entries ORDER BY transaction_date DESC LIMIT $1`,
		limit,
	)
	return many("get journal entries", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			id          int
			date        time.Time
			description *string
			total       decimal.Decimal
			status      string
		)
		if err := row.Scan(&id, &date, &description, &total, &status); err != nil {
			return nil, err
		}
		return domain.Record{
			"entry_id":     id,
			"date":         day(date),
			"description":  description,
			"total_amount": money(total),
			"status":       status,
		}, nil
	})
}

func (s *FinanceStore) JournalEntryDetail(ctx context.Context, entryID int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT a.account_name, l.debit_amount, l.credit_amount
		 FROM journal_entry_lines l
		 JOIN chart_of_accounts a ON a.account_id = l.account_id
		 WHERE l.entry_id = $1
		 ORDER BY l.line_id`,
		entryID,
	)
	return many("get journal entry detail", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			account       string
			debit, credit decimal.Decimal
		)
		if err := row.Scan(&account, &debit, &credit); err != nil {
			return nil, err
		}
		return domain.Record{"account": account, "debit": money(debit), "credit": money(credit)}, nil
	})
}

func (s *FinanceStore) AccountBalance(ctx context.Context, accountID int) (domain.Result, error) {
	var debit, credit decimal.Decimal
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(debit_amount), 0), COALESCE(SUM(credit_amount), 0)
		 FROM journal_entry_lines WHERE account_id = $1`,
		accountID,
	).Scan(&debit, &credit)
	if err != nil {
		return domain.Result{}, fmt.Errorf("get account balance: %w", err)
	}
	return domain.NewRecord(domain.Record{
		"account_id": accountID,
		"balance":    money(Balance(debit, credit)),
	}), nil
}

func (s *FinanceStore) CurrentFiscalPeriod(ctx context.Context) (domain.Result, error) {
	var (
		name, status string
		start, end   time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT period_name, start_date, end_date, status
		 FROM fiscal_periods WHERE status = 'OPEN'
		 ORDER BY start_date DESC LIMIT 1`,
	).Scan(&name, &start, &end, &status)
	return one("get current fiscal period", err, "Không có kỳ kế toán đang mở", func() domain.Record {
		return domain.Record{
			"period_name": name,
			"start_date":  day(start),
			"end_date":    day(end),
			"status":      status,
		}
	})
}

func (s *FinanceStore) FiscalPeriods(ctx context.Context, limit int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT period_name, status FROM fiscal_periods ORDER BY start_date DESC LIMIT $1`,
		limit,
	)
	return many("get fiscal periods", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var name, status string
		if err := row.Scan(&name, &status); err != nil {
			return nil, err
		}
		return domain.Record{"period": name, "status": status}, nil
	})
}

func (s *FinanceStore) PostingRule(ctx context.Context, eventCode string) (domain.Result, error) {
	var (
		event, module   string
		description     *string
		debitAccountID  int
		creditAccountID int
	)
	err := s.db.QueryRow(ctx,
		`SELECT event_code, event_description, debit_account_id, credit_account_id, module_source
		 FROM posting_rules WHERE event_code = $1`,
		eventCode,
	).Scan(&event, &description, &debitAccountID, &creditAccountID, &module)
	return one("explain posting rule", err, "Không tìm thấy rule hạch toán", func() domain.Record {
		return domain.Record{
			"event":             event,
			"description":       description,
			"debit_account_id":  debitAccountID,
			"credit_account_id": creditAccountID,
			"module":            module,
		}
	})
}
