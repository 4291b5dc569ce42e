package extract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"Giao dịch tiền 42 là gì?", 42, true},
		{"bút toán số 7", 7, true},
		{"abc123 và 45", 45, true},
		{"không có số", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := Number(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Number(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestInvoiceNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"Hóa đơn bán AR-001 đã thu tiền chưa?", 1, true},
		{"hóa đơn mua ap_12", 12, true},
		{"AR 7", 7, true},
		{"hóa đơn bán", 0, false},
	}
	for _, tt := range tests {
		got, ok := InvoiceNumber(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("InvoiceNumber(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Trạng thái đơn mua po-001?", "PO-001", true},
		{"phiếu nhập GR-12 xong chưa", "GR-12", true},
		{"kiểm kê STK-3 chênh lệch", "STK-3", true},
		{"đơn mua nào đang mở", "", false},
	}
	for _, tt := range tests {
		got, ok := Code(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Code(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestVoucherCode(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Mã SALE10 có dùng được không?", "SALE10", true},
		{"voucher freeship2024 còn hạn", "FREESHIP2024", true},
		{"mã giảm giá", "", false},
	}
	for _, tt := range tests {
		got, ok := VoucherCode(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("VoucherCode(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"đánh giá sản phẩm 3 5 sao", 5, true},
		{"4sao", 4, true},
		{"5 star", 5, true},
		{"rated 3star", 3, true},
		{"0 sao", 0, false},
		{"đánh giá tốt", 0, false},
	}
	for _, tt := range tests {
		got, ok := Rating(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Rating(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLabels(t *testing.T) {
	partner := Labels("đối tác", "khách hàng", "nhà cung cấp")

	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"Công nợ khách hàng 42", 42, true},
		{"phải trả nhà cung cấp 7", 7, true},
		{"đối tác 3 và khách hàng 9", 3, true},
		{"công nợ khách hàng", 0, false},
	}
	for _, tt := range tests {
		got, ok := partner.Find(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Find(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestEventCode(t *testing.T) {
	got, ok := EventCode("hạch toán event sales_invoice như thế nào")
	if !ok || got != "SALES_INVOICE" {
		t.Errorf("EventCode = %q, %v; want SALES_INVOICE, true", got, ok)
	}
	if _, ok := EventCode("hạch toán thế nào"); ok {
		t.Error("EventCode without event should not match")
	}
}

func TestMonthYear(t *testing.T) {
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in        string
		month     int
		year      int
		wantMonth bool
	}{
		{"lương tháng 3", 3, 2026, true},
		{"lương tháng 12 năm 2024", 12, 2024, true},
		{"đi muộn tháng13", 0, 2026, false},
		{"lương năm 2025", 0, 2025, false},
	}
	for _, tt := range tests {
		m, y, ok := MonthYear(tt.in, now)
		if m != tt.month || y != tt.year || ok != tt.wantMonth {
			t.Errorf("MonthYear(%q) = %d, %d, %v; want %d, %d, %v", tt.in, m, y, ok, tt.month, tt.year, tt.wantMonth)
		}
	}
}

func TestWarehouse(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Kho Hà Nội hiện còn bao nhiêu laptop Dell?", "Hà Nội", true},
		{"kho HCM còn bao nhiêu", "Hồ Chí Minh", true},
		{"tồn kho sài gòn", "Hồ Chí Minh", true},
		{"kho đà nẵng", "Đà Nẵng", true},
		{"còn hàng không", "", false},
	}
	for _, tt := range tests {
		got, ok := Warehouse(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Warehouse(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestProductKeyword(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"tồn kho iPhone 15 bao nhiêu", "iPhone 15", true},
		{"Kho Hà Nội hiện còn bao nhiêu laptop Dell?", "laptop", true},
		{"Sản phẩm 1 còn hàng không?", "", false},
	}
	for _, tt := range tests {
		got, ok := ProductKeyword(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ProductKeyword(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"mã SALE10 cho đơn 500.000đ", "500000", true},
		{"đơn 500k", "500000", true},
		{"đơn 1,5 triệu", "1500000", true},
		{"đơn 1.500 nghìn", "1500000", true},
		{"250000 vnd", "250000", true},
		{"500 đơn hàng", "", false},
		{"không có tiền", "", false},
	}
	for _, tt := range tests {
		got, ok := Amount(tt.in)
		if ok != tt.wantOK {
			t.Errorf("Amount(%q) ok = %v; want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Amount(%q) = %s; want %s", tt.in, got, tt.want)
		}
	}
}

func TestWithoutAmounts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Đơn 500k dùng mã SALE10", "đơn   dùng mã sale10"},
		{"đơn 2000 đ, mã SALE10", "đơn  , mã sale10"},
		{"mã SALE10K", "mã sale10k"},
		{"500 đơn hàng", "500 đơn hàng"},
	}
	for _, tt := range tests {
		if got := WithoutAmounts(tt.in); got != tt.want {
			t.Errorf("WithoutAmounts(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestVoucherCodeAfterAmount(t *testing.T) {
	for _, in := range []string{
		"Đơn 500k dùng mã SALE10 được không?",
		"Đơn 2000 đ dùng mã SALE10 được không?",
	} {
		if got, ok := VoucherCode(WithoutAmounts(in)); got != "SALE10" || !ok {
			t.Errorf("VoucherCode(WithoutAmounts(%q)) = %q, %v; want SALE10", in, got, ok)
		}
	}
}

func TestQuantity(t *testing.T) {
	if got, ok := Quantity("sản phẩm 1 có đủ 10 cái không"); !ok || got != 10 {
		t.Errorf("Quantity = %d, %v; want 10, true", got, ok)
	}
	if _, ok := Quantity("sản phẩm 1 còn hàng không"); ok {
		t.Error("Quantity without a request should not match")
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("  Kho   HÀ NỘI,  còn?? ")
	if got != "kho hà nội còn" {
		t.Errorf("Normalize = %q", got)
	}
}
