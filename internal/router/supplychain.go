package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/extract"
)

// SupplyChainStore is the warehouse and procurement data the Supply-Chain
// router reads. Document lookups take the business code (PO-001, GR-002).
type SupplyChainStore interface {
	// ProductStock returns nil when the product does not exist.
	ProductStock(ctx context.Context, productID int) (*domain.StockLevel, error)
	StockByKeyword(ctx context.Context, keyword string) ([]domain.StockLevel, error)
	StockBySKU(ctx context.Context, sku string) (domain.Result, error)
	StockByWarehouse(ctx context.Context, warehouse string) (domain.Result, error)
	StockByWarehouseAndProduct(ctx context.Context, warehouse, product string) (domain.Result, error)
	StockByBin(ctx context.Context, binID int) (domain.Result, error)
	AllStockSummary(ctx context.Context) (domain.Result, error)
	AvailableStock(ctx context.Context, productID int) (int64, error)

	LowStockProducts(ctx context.Context) (domain.Result, error)
	OverstockProducts(ctx context.Context, threshold int) (domain.Result, error)
	DeadStockProducts(ctx context.Context, days int) (domain.Result, error)

	GoodsReceiptStatus(ctx context.Context, grCode string) (domain.Result, error)
	GoodsReceiptDetail(ctx context.Context, grCode string) (domain.Result, error)
	GoodsReceiptsByPO(ctx context.Context, poCode string) (domain.Result, error)
	GoodsReceiptsBySupplier(ctx context.Context, supplierID int) (domain.Result, error)
	RecentGoodsReceipts(ctx context.Context, days int) (domain.Result, error)

	GoodsIssueStatus(ctx context.Context, giCode string) (domain.Result, error)
	GoodsIssueDetail(ctx context.Context, giCode string) (domain.Result, error)
	GoodsIssuesByType(ctx context.Context, issueType string) (domain.Result, error)
	GoodsIssuesByReference(ctx context.Context, ref string) (domain.Result, error)

	PurchaseOrderStatus(ctx context.Context, poCode string) (domain.Result, error)
	PurchaseOrderDetail(ctx context.Context, poCode string) (domain.Result, error)
	OpenPurchaseOrders(ctx context.Context) (domain.Result, error)
	POReceivingProgress(ctx context.Context, poCode string) (domain.Result, error)
	ReceivedVsOrdered(ctx context.Context, poCode string) (domain.Result, error)
	PurchaseRequestStatus(ctx context.Context, prCode string) (domain.Result, error)
	OpenPurchaseRequests(ctx context.Context) (domain.Result, error)

	SupplierProfile(ctx context.Context, supplierCode string) (domain.Result, error)
	RankSuppliers(ctx context.Context) (domain.Result, error)
	SupplierPurchaseHistory(ctx context.Context, supplierID int) (domain.Result, error)

	InventoryTransactionLogs(ctx context.Context, productID int) (domain.Result, error)

	StocktakeStatus(ctx context.Context, code string) (domain.Result, error)
	StocktakeDetail(ctx context.Context, code string) (domain.Result, error)
	StockVarianceReport(ctx context.Context, code string) (domain.Result, error)
}

var (
	stockProductLabel = extract.Labels("sản phẩm")
	binLabel          = extract.Labels("kệ", "bin", "vị trí")
	supplierLabel     = extract.Labels("nhà cung cấp", "ncc", "supplier")
)

// issueTypes maps question wording to goods issue types, checked in order.
var issueTypes = []struct {
	keyword   string
	issueType string
}{
	{"bán", "SALES_ORDER"},
	{"nội bộ", "INTERNAL_USE"},
	{"chuyển", "TRANSFER"},
}

// IsSufficient reports whether available stock covers the requested quantity.
// Equal counts are sufficient.
func IsSufficient(available, requested int64) bool {
	return available >= requested
}

type SupplyChain struct {
	store   SupplyChainStore
	cascade Cascade
}

var _ Router = (*SupplyChain)(nil)

func NewSupplyChain(store SupplyChainStore) *SupplyChain {
	inventory := keywords("tồn kho", "còn hàng", "hết hàng", "số lượng", "tồn")
	inbound := keywords("nhập kho", "phiếu nhập", "gr")
	outbound := keywords("xuất kho", "phiếu xuất", "gi")
	procurement := keywords("đơn mua", "po", "mua hàng")
	request := keywords("yêu cầu mua", "pr")
	supplier := keywords("nhà cung cấp", "ncc", "supplier")
	stocktake := keywords("kiểm kê", "stocktake")

	within := func(group func(string) bool, subs ...string) func(string) bool {
		return func(q string) bool { return group(q) && containsAny(q, subs...) }
	}

	return &SupplyChain{
		store: store,
		cascade: Cascade{
			Domain: domain.DomainSupplyChain,
			Rules: []Rule{
				{"inventory", "get_inventory_stock_by_sku", 0.95, within(inventory, "sku", "mã"), nil},
				{"inventory", "get_stock_by_warehouse", 0.95, within(inventory, "kho", "warehouse"), nil},
				{"inventory", "get_stock_by_bin", 0.95, within(inventory, "kệ", "bin", "vị trí"), nil},
				{"inventory", "get_all_stock_summary", 0.95, within(inventory, "tổng", "toàn hệ thống"), nil},
				{"inventory", "get_inventory_stock", 0.90, inventory, nil},
				{"inventory", "get_stock_by_warehouse", 0.8, within(keywords("kho"), "bao nhiêu", "còn"), nil},

				{"inventory", "get_low_stock_products", 0.95, keywords("sắp hết", "cảnh báo", "thiếu hàng"), nil},
				{"inventory", "get_overstock_products", 0.95, keywords("tồn nhiều", "dư thừa", "overstock"), nil},
				{"inventory", "get_dead_stock_products", 0.95, keywords("không bán", "lâu không xuất", "dead stock"), nil},

				{"inbound", "get_goods_receipt_status", 0.95, within(inbound, "trạng thái", "xong chưa"), nil},
				{"inbound", "get_goods_receipt_detail", 0.95, within(inbound, "chi tiết", "gồm", "sản phẩm"), nil},
				{"inbound", "get_goods_receipts_by_po", 0.95, within(inbound, "po", "đơn mua"), nil},
				{"inbound", "get_goods_receipts_by_supplier", 0.95, within(inbound, "nhà cung cấp", "ncc"), nil},
				{"inbound", "get_recent_goods_receipts", 0.90, inbound, nil},

				{"outbound", "get_goods_issue_status", 0.95, within(outbound, "trạng thái"), nil},
				{"outbound", "get_goods_issue_detail", 0.95, within(outbound, "chi tiết", "sản phẩm"), nil},
				{"outbound", "get_goods_issues_by_type", 0.90, within(outbound, "bán", "nội bộ", "chuyển"), nil},
				{"outbound", "get_goods_issues_by_reference", 0.90, within(outbound, "đơn", "so", "hr"), nil},

				{"procurement", "get_purchase_order_status", 0.95, within(procurement, "trạng thái"), nil},
				{"procurement", "get_purchase_order_detail", 0.95, within(procurement, "chi tiết"), nil},
				{"procurement", "get_open_purchase_orders", 0.95, within(procurement, "chưa xong", "đang mở"), nil},
				{"procurement", "get_po_receiving_progress", 0.95, within(procurement, "đã nhập bao nhiêu", "tiến độ"), nil},
				{"procurement", "get_purchase_request_status", 0.95, within(request, "trạng thái"), nil},
				{"procurement", "get_open_purchase_requests", 0.90, request, nil},

				{"supplier", "get_supplier_profile", 0.95, within(supplier, "thông tin", "profile"), nil},
				{"supplier", "rank_suppliers_by_performance", 0.95, within(supplier, "xếp hạng", "tốt nhất"), nil},
				{"supplier", "get_supplier_purchase_history", 0.90, supplier, nil},

				{"audit", "get_inventory_transaction_logs", 0.95, keywords("log", "lịch sử", "biến động"), nil},

				{"stocktake", "get_stocktake_status", 0.95, within(stocktake, "trạng thái"), nil},
				{"stocktake", "get_stock_variance_report", 0.95, within(stocktake, "chênh lệch"), nil},
				{"stocktake", "get_stocktake_detail", 0.90, stocktake, nil},
			},
		},
	}
}

func (s *SupplyChain) Domain() domain.Domain { return domain.DomainSupplyChain }

func (s *SupplyChain) Classify(q domain.Query) (*domain.Intent, bool) {
	return s.cascade.Classify(q)
}

func unresolved(what string) domain.Result {
	return domain.NewMessage("Không xác định được " + what)
}

// Execute resolves the entities each operation needs from the question text
// and runs one or more store calls. A missing entity yields a message result.
func (s *SupplyChain) Execute(ctx context.Context, in *domain.Intent) (domain.Result, error) {
	res, err := s.execute(ctx, in.Operation, in.Query.Text)
	if err != nil {
		return domain.Result{}, fmt.Errorf("supply-chain %s: %w", in.Operation, err)
	}
	return res, nil
}

func (s *SupplyChain) execute(ctx context.Context, op, text string) (domain.Result, error) {
	code, hasCode := extract.Code(text)

	switch op {
	case "get_inventory_stock":
		return s.inventoryStock(ctx, text)
	case "get_inventory_stock_by_sku":
		sku, ok := extract.SKU(text)
		if !ok {
			return unresolved("mã SKU"), nil
		}
		return s.store.StockBySKU(ctx, sku)
	case "get_stock_by_warehouse":
		warehouse, ok := extract.Warehouse(text)
		if !ok {
			return unresolved("kho"), nil
		}
		if product, ok := extract.ProductKeyword(text); ok {
			return s.store.StockByWarehouseAndProduct(ctx, warehouse, product)
		}
		return s.store.StockByWarehouse(ctx, warehouse)
	case "get_stock_by_bin":
		bin, ok := binLabel.Find(text)
		if !ok {
			return unresolved("vị trí kệ"), nil
		}
		return s.store.StockByBin(ctx, bin)
	case "get_all_stock_summary":
		return s.store.AllStockSummary(ctx)

	case "get_low_stock_products":
		return s.store.LowStockProducts(ctx)
	case "get_overstock_products":
		return s.store.OverstockProducts(ctx, config.OverstockThreshold)
	case "get_dead_stock_products":
		return s.store.DeadStockProducts(ctx, config.DeadStockDays)

	case "get_goods_receipt_status", "get_goods_receipt_detail":
		if !hasCode {
			return unresolved("mã phiếu nhập"), nil
		}
		if op == "get_goods_receipt_status" {
			return s.store.GoodsReceiptStatus(ctx, code)
		}
		return s.store.GoodsReceiptDetail(ctx, code)
	case "get_goods_receipts_by_po":
		if !hasCode {
			return unresolved("mã PO"), nil
		}
		return s.store.GoodsReceiptsByPO(ctx, code)
	case "get_goods_receipts_by_supplier":
		id, ok := supplierLabel.Find(text)
		if !ok {
			return unresolved("nhà cung cấp"), nil
		}
		return s.store.GoodsReceiptsBySupplier(ctx, id)
	case "get_recent_goods_receipts":
		return s.store.RecentGoodsReceipts(ctx, config.RecentReceiptDays)

	case "get_goods_issue_status", "get_goods_issue_detail":
		if !hasCode {
			return unresolved("mã phiếu xuất"), nil
		}
		if op == "get_goods_issue_status" {
			return s.store.GoodsIssueStatus(ctx, code)
		}
		return s.store.GoodsIssueDetail(ctx, code)
	case "get_goods_issues_by_type":
		lower := strings.ToLower(text)
		for _, t := range issueTypes {
			if strings.Contains(lower, t.keyword) {
				return s.store.GoodsIssuesByType(ctx, t.issueType)
			}
		}
		return unresolved("loại phiếu xuất"), nil
	case "get_goods_issues_by_reference":
		if !hasCode {
			return unresolved("chứng từ tham chiếu"), nil
		}
		return s.store.GoodsIssuesByReference(ctx, code)

	case "get_purchase_order_status":
		if !hasCode {
			return unresolved("mã PO"), nil
		}
		po, err := s.store.PurchaseOrderStatus(ctx, code)
		if err != nil {
			return domain.Result{}, err
		}
		return domain.NewRecord(domain.Record{"purchase_order": po}), nil
	case "get_purchase_order_detail":
		if !hasCode {
			return unresolved("mã PO"), nil
		}
		return s.store.PurchaseOrderDetail(ctx, code)
	case "get_open_purchase_orders":
		return s.store.OpenPurchaseOrders(ctx)
	case "get_po_receiving_progress":
		if !hasCode {
			return unresolved("mã PO"), nil
		}
		return s.receivingProgress(ctx, code)
	case "get_purchase_request_status":
		if !hasCode {
			return unresolved("mã yêu cầu mua"), nil
		}
		return s.store.PurchaseRequestStatus(ctx, code)
	case "get_open_purchase_requests":
		return s.store.OpenPurchaseRequests(ctx)

	case "get_supplier_profile":
		if !hasCode {
			return unresolved("mã nhà cung cấp"), nil
		}
		return s.store.SupplierProfile(ctx, code)
	case "rank_suppliers_by_performance":
		return s.store.RankSuppliers(ctx)
	case "get_supplier_purchase_history":
		id, ok := supplierLabel.Find(text)
		if !ok {
			return unresolved("nhà cung cấp"), nil
		}
		return s.store.SupplierPurchaseHistory(ctx, id)

	case "get_inventory_transaction_logs":
		id, ok := stockProductLabel.Find(text)
		if !ok {
			return unresolved("sản phẩm"), nil
		}
		logs, err := s.store.InventoryTransactionLogs(ctx, id)
		if err != nil {
			return domain.Result{}, err
		}
		return domain.NewRecord(domain.Record{"inventory_logs": logs}), nil

	case "get_stocktake_status", "get_stock_variance_report", "get_stocktake_detail":
		if !hasCode {
			return unresolved("mã kiểm kê"), nil
		}
		switch op {
		case "get_stocktake_status":
			return s.store.StocktakeStatus(ctx, code)
		case "get_stock_variance_report":
			return s.store.StockVarianceReport(ctx, code)
		}
		return s.store.StocktakeDetail(ctx, code)
	}
	return domain.Result{}, unknownOperation(domain.DomainSupplyChain, op)
}

// inventoryStock answers availability questions with the stock level, the
// stock alerts and, when a quantity is requested, the sufficiency check.
func (s *SupplyChain) inventoryStock(ctx context.Context, text string) (domain.Result, error) {
	var (
		inventory any
		available bool
	)
	productID, byID := stockProductLabel.Find(text)
	switch {
	case byID:
		level, err := s.store.ProductStock(ctx, productID)
		if err != nil {
			return domain.Result{}, err
		}
		if level == nil {
			return domain.NewMessage(fmt.Sprintf("Không tìm thấy sản phẩm %d", productID)), nil
		}
		inventory = level.Record()
		available = level.Quantity > 0
	default:
		keyword, ok := extract.ProductKeyword(text)
		if !ok {
			return unresolved("sản phẩm"), nil
		}
		levels, err := s.store.StockByKeyword(ctx, keyword)
		if err != nil {
			return domain.Result{}, err
		}
		rows := make([]domain.Record, 0, len(levels))
		for _, l := range levels {
			rows = append(rows, l.Record())
			available = available || l.Quantity > 0
		}
		inventory = domain.NewList(rows)
	}

	low, err := s.store.LowStockProducts(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	dead, err := s.store.DeadStockProducts(ctx, config.DeadStockDays)
	if err != nil {
		return domain.Result{}, err
	}

	out := domain.Record{
		"inventory": inventory,
		"available": available,
		"alerts":    domain.Record{"low_stock": low, "dead_stock": dead},
	}

	if requested, ok := extract.Quantity(text); ok && byID {
		avail, err := s.store.AvailableStock(ctx, productID)
		if err != nil {
			return domain.Result{}, err
		}
		out["available_stock"] = avail
		out["requested"] = requested
		out["sufficient"] = IsSufficient(avail, int64(requested))
	}
	return domain.NewRecord(out), nil
}

func (s *SupplyChain) receivingProgress(ctx context.Context, poCode string) (domain.Result, error) {
	progress, err := s.store.POReceivingProgress(ctx, poCode)
	if err != nil {
		return domain.Result{}, err
	}
	if progress.IsMessage() {
		return progress, nil
	}
	missing, err := s.store.ReceivedVsOrdered(ctx, poCode)
	if err != nil {
		return domain.Result{}, err
	}
	return domain.NewRecord(domain.Record{
		"receiving_progress": progress,
		"missing_items":      missing,
	}), nil
}
