package router

import (
	"context"
	"fmt"

	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/extract"
)

// FinanceStore is the accounting data the Finance router reads.
type FinanceStore interface {
	ARInvoiceStatus(ctx context.Context, invoiceID int) (domain.Result, error)
	ARInvoiceDetail(ctx context.Context, invoiceID int) (domain.Result, error)
	CustomerReceivable(ctx context.Context, partnerID int) (domain.Result, error)
	APInvoiceStatus(ctx context.Context, invoiceID int) (domain.Result, error)
	APInvoiceDetail(ctx context.Context, invoiceID int) (domain.Result, error)
	SupplierPayable(ctx context.Context, partnerID int) (domain.Result, error)
	CashTransaction(ctx context.Context, txID int) (domain.Result, error)
	CashFlowHistory(ctx context.Context, limit int) (domain.Result, error)
	JournalEntries(ctx context.Context, limit int) (domain.Result, error)
	JournalEntryDetail(ctx context.Context, entryID int) (domain.Result, error)
	AccountBalance(ctx context.Context, accountID int) (domain.Result, error)
	CurrentFiscalPeriod(ctx context.Context) (domain.Result, error)
	FiscalPeriods(ctx context.Context, limit int) (domain.Result, error)
	PostingRule(ctx context.Context, eventCode string) (domain.Result, error)
}

var (
	partnerLabel = extract.Labels("đối tác", "khách hàng", "nhà cung cấp")
	accountLabel = extract.Labels("tài khoản")
)

type Finance struct {
	store   FinanceStore
	cascade Cascade
}

var _ Router = (*Finance)(nil)

func NewFinance(store FinanceStore) *Finance {
	isAR := keywords("hóa đơn bán", "ar")
	isAP := keywords("hóa đơn mua", "ap")
	isReceivable := keywords("công nợ khách hàng", "khách hàng còn nợ")
	isPayable := keywords("công nợ nhà cung cấp", "phải trả")
	isCash := keywords("thu chi", "giao dịch tiền")
	isJournal := keywords("bút toán", "nhật ký kế toán")
	isFiscal := keywords("kỳ kế toán")

	return &Finance{
		store: store,
		cascade: Cascade{
			Domain: domain.DomainFinance,
			Rules: []Rule{
				{Area: "ar", Operation: "get_ar_invoice_detail", Confidence: 0.95,
					Match: func(q string) bool { return isAR(q) && containsAny(q, "chi tiết") }, Extract: invoiceEntity},
				{Area: "ar", Operation: "get_ar_invoice_status", Confidence: 0.9,
					Match: isAR, Extract: invoiceEntity},
				{Area: "ar", Operation: "get_customer_receivable_summary", Confidence: 0.9,
					Match: isReceivable, Extract: intEntity("partner_id", partnerLabel.Find)},
				{Area: "ap", Operation: "get_ap_invoice_detail", Confidence: 0.95,
					Match: func(q string) bool { return isAP(q) && containsAny(q, "chi tiết") }, Extract: invoiceEntity},
				{Area: "ap", Operation: "get_ap_invoice_status", Confidence: 0.9,
					Match: isAP, Extract: invoiceEntity},
				{Area: "ap", Operation: "get_supplier_payable_summary", Confidence: 0.9,
					Match: isPayable, Extract: intEntity("partner_id", partnerLabel.Find)},
				{Area: "cash", Operation: "get_cash_transaction", Confidence: 0.9,
					Match: isCash, Extract: intEntity("transaction_id", extract.Number)},
				{Area: "cash", Operation: "get_cash_flow_history", Confidence: 0.8,
					Match: isCash},
				{Area: "ledger", Operation: "get_journal_entry_detail", Confidence: 0.9,
					Match: isJournal, Extract: intEntity("entry_id", extract.Number)},
				{Area: "ledger", Operation: "get_journal_entries", Confidence: 0.8,
					Match: isJournal},
				{Area: "ledger", Operation: "get_account_balance", Confidence: 0.9,
					Match: keywords("số dư tài khoản"), Extract: intEntity("account_id", accountLabel.Find)},
				{Area: "fiscal", Operation: "get_current_fiscal_period", Confidence: 0.9,
					Match: func(q string) bool { return isFiscal(q) && containsAny(q, "hiện tại") }},
				{Area: "fiscal", Operation: "get_fiscal_periods", Confidence: 0.8,
					Match: isFiscal},
				{Area: "posting", Operation: "explain_posting_rule", Confidence: 0.9,
					Match: keywords("hạch toán", "ghi nhận"), Extract: eventEntity},
			},
		},
	}
}

// invoiceEntity prefers an AR/AP code and falls back to any number.
func invoiceEntity(q domain.Query) (domain.Entities, bool) {
	id, ok := extract.InvoiceNumber(q.Text)
	if !ok || id == 0 {
		id, ok = extract.Number(q.Text)
	}
	if !ok || id == 0 {
		return nil, false
	}
	return domain.Entities{"invoice_id": id}, true
}

func eventEntity(q domain.Query) (domain.Entities, bool) {
	code, ok := extract.EventCode(q.Text)
	if !ok {
		return nil, false
	}
	return domain.Entities{"event_code": code}, true
}

func (f *Finance) Domain() domain.Domain { return domain.DomainFinance }

func (f *Finance) Classify(q domain.Query) (*domain.Intent, bool) {
	return f.cascade.Classify(q)
}

func (f *Finance) Execute(ctx context.Context, in *domain.Intent) (domain.Result, error) {
	invoiceID, _ := in.Entities.Int("invoice_id")
	partnerID, _ := in.Entities.Int("partner_id")

	var (
		res domain.Result
		err error
	)
	switch in.Operation {
	case "get_ar_invoice_detail":
		res, err = f.store.ARInvoiceDetail(ctx, invoiceID)
	case "get_ar_invoice_status":
		res, err = f.store.ARInvoiceStatus(ctx, invoiceID)
	case "get_customer_receivable_summary":
		res, err = f.store.CustomerReceivable(ctx, partnerID)
	case "get_ap_invoice_detail":
		res, err = f.store.APInvoiceDetail(ctx, invoiceID)
	case "get_ap_invoice_status":
		res, err = f.store.APInvoiceStatus(ctx, invoiceID)
	case "get_supplier_payable_summary":
		res, err = f.store.SupplierPayable(ctx, partnerID)
	case "get_cash_transaction":
		id, _ := in.Entities.Int("transaction_id")
		res, err = f.store.CashTransaction(ctx, id)
	case "get_cash_flow_history":
		res, err = f.store.CashFlowHistory(ctx, config.CashFlowHistoryLimit)
	case "get_journal_entry_detail":
		id, _ := in.Entities.Int("entry_id")
		res, err = f.store.JournalEntryDetail(ctx, id)
	case "get_journal_entries":
		res, err = f.store.JournalEntries(ctx, config.JournalEntriesLimit)
	case "get_account_balance":
		id, _ := in.Entities.Int("account_id")
		res, err = f.store.AccountBalance(ctx, id)
	case "get_current_fiscal_period":
		res, err = f.store.CurrentFiscalPeriod(ctx)
	case "get_fiscal_periods":
		res, err = f.store.FiscalPeriods(ctx, config.FiscalPeriodsLimit)
	case "explain_posting_rule":
		code, _ := in.Entities.String("event_code")
		res, err = f.store.PostingRule(ctx, code)
	default:
		return domain.Result{}, unknownOperation(f.Domain(), in.Operation)
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("finance %s: %w", in.Operation, err)
	}
	return res, nil
}
