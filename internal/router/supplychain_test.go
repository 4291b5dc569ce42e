package router

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/set-night/erpchat/internal/domain"
)

type fakeSupplyChain struct {
	recorder
	stock     *domain.StockLevel
	keyword   []domain.StockLevel
	available int64
}

func (f *fakeSupplyChain) ProductStock(_ context.Context, id int) (*domain.StockLevel, error) {
	f.calls = append(f.calls, storeCall{Op: "ProductStock", Args: []any{id}})
	return f.stock, nil
}
func (f *fakeSupplyChain) StockByKeyword(_ context.Context, kw string) ([]domain.StockLevel, error) {
	f.calls = append(f.calls, storeCall{Op: "StockByKeyword", Args: []any{kw}})
	return f.keyword, nil
}
func (f *fakeSupplyChain) StockBySKU(_ context.Context, sku string) (domain.Result, error) {
	return f.record("StockBySKU", sku)
}
func (f *fakeSupplyChain) StockByWarehouse(_ context.Context, wh string) (domain.Result, error) {
	return f.record("StockByWarehouse", wh)
}
func (f *fakeSupplyChain) StockByWarehouseAndProduct(_ context.Context, wh, p string) (domain.Result, error) {
	return f.record("StockByWarehouseAndProduct", wh, p)
}
func (f *fakeSupplyChain) StockByBin(_ context.Context, bin int) (domain.Result, error) {
	return f.record("StockByBin", bin)
}
func (f *fakeSupplyChain) AllStockSummary(_ context.Context) (domain.Result, error) {
	return f.record("AllStockSummary")
}
func (f *fakeSupplyChain) AvailableStock(_ context.Context, id int) (int64, error) {
	f.calls = append(f.calls, storeCall{Op: "AvailableStock", Args: []any{id}})
	return f.available, nil
}
func (f *fakeSupplyChain) LowStockProducts(_ context.Context) (domain.Result, error) {
	f.calls = append(f.calls, storeCall{Op: "LowStockProducts"})
	return domain.NewList(nil), nil
}
func (f *fakeSupplyChain) OverstockProducts(_ context.Context, threshold int) (domain.Result, error) {
	return f.record("OverstockProducts", threshold)
}
func (f *fakeSupplyChain) DeadStockProducts(_ context.Context, days int) (domain.Result, error) {
	f.calls = append(f.calls, storeCall{Op: "DeadStockProducts", Args: []any{days}})
	return domain.NewList([]domain.Record{{"product_name": "Máy fax"}}), nil
}
func (f *fakeSupplyChain) GoodsReceiptStatus(_ context.Context, code string) (domain.Result, error) {
	return f.record("GoodsReceiptStatus", code)
}
func (f *fakeSupplyChain) GoodsReceiptDetail(_ context.Context, code string) (domain.Result, error) {
	return f.record("GoodsReceiptDetail", code)
}
func (f *fakeSupplyChain) GoodsReceiptsByPO(_ context.Context, code string) (domain.Result, error) {
	return f.record("GoodsReceiptsByPO", code)
}
func (f *fakeSupplyChain) GoodsReceiptsBySupplier(_ context.Context, id int) (domain.Result, error) {
	return f.record("GoodsReceiptsBySupplier", id)
}
func (f *fakeSupplyChain) RecentGoodsReceipts(_ context.Context, days int) (domain.Result, error) {
	return f.record("RecentGoodsReceipts", days)
}
func (f *fakeSupplyChain) GoodsIssueStatus(_ context.Context, code string) (domain.Result, error) {
	return f.record("GoodsIssueStatus", code)
}
func (f *fakeSupplyChain) GoodsIssueDetail(_ context.Context, code string) (domain.Result, error) {
	return f.record("GoodsIssueDetail", code)
}
func (f *fakeSupplyChain) GoodsIssuesByType(_ context.Context, t string) (domain.Result, error) {
	return f.record("GoodsIssuesByType", t)
}
func (f *fakeSupplyChain) GoodsIssuesByReference(_ context.Context, ref string) (domain.Result, error) {
	return f.record("GoodsIssuesByReference", ref)
}
func (f *fakeSupplyChain) PurchaseOrderStatus(_ context.Context, code string) (domain.Result, error) {
	return f.record("PurchaseOrderStatus", code)
}
func (f *fakeSupplyChain) PurchaseOrderDetail(_ context.Context, code string) (domain.Result, error) {
	return f.record("PurchaseOrderDetail", code)
}
func (f *fakeSupplyChain) OpenPurchaseOrders(_ context.Context) (domain.Result, error) {
	return f.record("OpenPurchaseOrders")
}
func (f *fakeSupplyChain) POReceivingProgress(_ context.Context, code string) (domain.Result, error) {
	return f.record("POReceivingProgress", code)
}
func (f *fakeSupplyChain) ReceivedVsOrdered(_ context.Context, code string) (domain.Result, error) {
	return f.record("ReceivedVsOrdered", code)
}
func (f *fakeSupplyChain) PurchaseRequestStatus(_ context.Context, code string) (domain.Result, error) {
	return f.record("PurchaseRequestStatus", code)
}
func (f *fakeSupplyChain) OpenPurchaseRequests(_ context.Context) (domain.Result, error) {
	return f.record("OpenPurchaseRequests")
}
func (f *fakeSupplyChain) SupplierProfile(_ context.Context, code string) (domain.Result, error) {
	return f.record("SupplierProfile", code)
}
func (f *fakeSupplyChain) RankSuppliers(_ context.Context) (domain.Result, error) {
	return f.record("RankSuppliers")
}
func (f *fakeSupplyChain) SupplierPurchaseHistory(_ context.Context, id int) (domain.Result, error) {
	return f.record("SupplierPurchaseHistory", id)
}
func (f *fakeSupplyChain) InventoryTransactionLogs(_ context.Context, id int) (domain.Result, error) {
	return f.record("InventoryTransactionLogs", id)
}
func (f *fakeSupplyChain) StocktakeStatus(_ context.Context, code string) (domain.Result, error) {
	return f.record("StocktakeStatus", code)
}
func (f *fakeSupplyChain) StocktakeDetail(_ context.Context, code string) (domain.Result, error) {
	return f.record("StocktakeDetail", code)
}
func (f *fakeSupplyChain) StockVarianceReport(_ context.Context, code string) (domain.Result, error) {
	return f.record("StockVarianceReport", code)
}

func TestSupplyChainClassify(t *testing.T) {
	s := NewSupplyChain(&fakeSupplyChain{})

	tests := []struct {
		question string
		wantArea string
		wantOp   string
		wantConf float64
	}{
		{"Sản phẩm 1 còn hàng không?", "inventory", "get_inventory_stock", 0.90},
		{"Tồn kho SKU IPHONE-15", "inventory", "get_inventory_stock_by_sku", 0.95},
		{"Tồn kho ở kho Hà Nội", "inventory", "get_stock_by_warehouse", 0.95},
		{"Tổng số lượng toàn hệ thống", "inventory", "get_all_stock_summary", 0.95},
		{"Kho Hà Nội hiện còn bao nhiêu laptop Dell?", "inventory", "get_stock_by_warehouse", 0.8},
		{"Sản phẩm nào sắp hết?", "inventory", "get_low_stock_products", 0.95},
		{"Hàng dư thừa", "inventory", "get_overstock_products", 0.95},
		{"Sản phẩm lâu không xuất", "inventory", "get_dead_stock_products", 0.95},
		{"Trạng thái phiếu nhập GR-12", "inbound", "get_goods_receipt_status", 0.95},
		{"Phiếu nhập tuần này", "inbound", "get_recent_goods_receipts", 0.90},
		{"Trạng thái phiếu xuất GI-3", "outbound", "get_goods_issue_status", 0.95},
		{"Trạng thái đơn mua PO-001", "procurement", "get_purchase_order_status", 0.95},
		{"Tiến độ đơn mua PO-001", "procurement", "get_po_receiving_progress", 0.95},
		{"Các yêu cầu mua đang chờ", "procurement", "get_open_purchase_requests", 0.90},
		{"Xếp hạng nhà cung cấp", "supplier", "rank_suppliers_by_performance", 0.95},
		{"Biến động sản phẩm 2", "audit", "get_inventory_transaction_logs", 0.95},
		{"Kiểm kê KK-01 chênh lệch bao nhiêu", "stocktake", "get_stock_variance_report", 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			in, ok := s.Classify(domain.Query{Text: tt.question})
			if !ok {
				t.Fatalf("Classify(%q) did not match", tt.question)
			}
			got := [3]any{in.Area, in.Operation, in.Confidence}
			want := [3]any{tt.wantArea, tt.wantOp, tt.wantConf}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("intent mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSupplyChainClassifyUnknown(t *testing.T) {
	s := NewSupplyChain(&fakeSupplyChain{})
	if in, ok := s.Classify(domain.Query{Text: "Thời tiết hôm nay thế nào?"}); ok {
		t.Errorf("Classify routed to %q", in.Operation)
	}
}

func TestSupplyChainInventoryStockZero(t *testing.T) {
	store := &fakeSupplyChain{stock: &domain.StockLevel{ProductID: 1, ProductName: "iPhone 15", Quantity: 0}}
	s := NewSupplyChain(store)

	_, res, ok, err := Route(context.Background(), s, domain.Query{Text: "Sản phẩm 1 còn hàng không?"})
	if err != nil || !ok {
		t.Fatalf("Route: ok=%v err=%v", ok, err)
	}
	want := domain.NewRecord(domain.Record{
		"inventory": domain.Record{"product_id": 1, "product_name": "iPhone 15", "quantity": int64(0)},
		"available": false,
		"alerts": domain.Record{
			"low_stock":  domain.NewList(nil),
			"dead_stock": domain.NewList([]domain.Record{{"product_name": "Máy fax"}}),
		},
	})
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestSupplyChainInventoryUnknownProduct(t *testing.T) {
	s := NewSupplyChain(&fakeSupplyChain{})
	_, res, _, err := Route(context.Background(), s, domain.Query{Text: "Sản phẩm 99 còn hàng không?"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsMessage() {
		t.Errorf("result = %+v, want message", res)
	}
}

func TestSupplyChainSufficiency(t *testing.T) {
	tests := []struct {
		name      string
		available int64
		want      bool
	}{
		{"more than requested", 11, true},
		{"exactly requested", 10, true},
		{"less than requested", 9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeSupplyChain{
				stock:     &domain.StockLevel{ProductID: 1, ProductName: "iPhone 15", Quantity: 12},
				available: tt.available,
			}
			s := NewSupplyChain(store)

			_, res, _, err := Route(context.Background(), s, domain.Query{Text: "Sản phẩm 1 còn hàng đủ 10 cái không?"})
			if err != nil {
				t.Fatal(err)
			}
			if got := res.Record["sufficient"]; got != tt.want {
				t.Errorf("sufficient = %v, want %v", got, tt.want)
			}
			if got := res.Record["requested"]; got != 10 {
				t.Errorf("requested = %v", got)
			}
		})
	}
}

func TestIsSufficient(t *testing.T) {
	if !IsSufficient(5, 5) {
		t.Error("equal counts must be sufficient")
	}
	if IsSufficient(4, 5) {
		t.Error("4 of 5 must be insufficient")
	}
}

func TestSupplyChainMissingEntity(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"Trạng thái đơn mua", "Không xác định được mã PO"},
		{"Tiến độ đơn mua", "Không xác định được mã PO"},
		{"Trạng thái phiếu nhập", "Không xác định được mã phiếu nhập"},
		{"Tồn kho SKU", "Không xác định được mã SKU"},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			store := &fakeSupplyChain{}
			s := NewSupplyChain(store)
			_, res, ok, err := Route(context.Background(), s, domain.Query{Text: tt.question})
			if err != nil || !ok {
				t.Fatalf("Route: ok=%v err=%v", ok, err)
			}
			if diff := cmp.Diff(domain.NewMessage(tt.want), res); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
			if len(store.calls) != 0 {
				t.Errorf("store called: %+v", store.calls)
			}
		})
	}
}

func TestSupplyChainReceivingProgress(t *testing.T) {
	store := &fakeSupplyChain{}
	s := NewSupplyChain(store)

	_, res, _, err := Route(context.Background(), s, domain.Query{Text: "Tiến độ đơn mua PO-001"})
	if err != nil {
		t.Fatal(err)
	}
	want := domain.NewRecord(domain.Record{
		"receiving_progress": domain.NewRecord(domain.Record{"op": "POReceivingProgress"}),
		"missing_items":      domain.NewRecord(domain.Record{"op": "ReceivedVsOrdered"}),
	})
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	wantCalls := []storeCall{
		{Op: "POReceivingProgress", Args: []any{"PO-001"}},
		{Op: "ReceivedVsOrdered", Args: []any{"PO-001"}},
	}
	if diff := cmp.Diff(wantCalls, store.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSupplyChainWarehouseWithProduct(t *testing.T) {
	store := &fakeSupplyChain{}
	s := NewSupplyChain(store)

	if _, _, _, err := Route(context.Background(), s, domain.Query{Text: "Kho Hà Nội hiện còn bao nhiêu laptop Dell?"}); err != nil {
		t.Fatal(err)
	}
	want := []storeCall{{Op: "StockByWarehouseAndProduct", Args: []any{"Hà Nội", "laptop"}}}
	if diff := cmp.Diff(want, store.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}
