package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/router"
)

// SupplyChainStore reads warehouse stock, inbound and outbound documents,
// procurement and stocktakes.
type SupplyChainStore struct {
	db DBTX
}

var _ router.SupplyChainStore = (*SupplyChainStore)(nil)

func NewSupplyChainStore(db DBTX) *SupplyChainStore {
	return &SupplyChainStore{db: db}
}

// scanQuantity reads (product_name, quantity) rows.
func scanQuantity(key string) pgx.RowToFunc[domain.Record] {
	return func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			name string
			qty  int64
		)
		if err := row.Scan(&name, &qty); err != nil {
			return nil, err
		}
		return domain.Record{"product_name": name, key: qty}, nil
	}
}

// scanCodeStatus reads (code, status) rows of a document table.
func scanCodeStatus(codeKey string) pgx.RowToFunc[domain.Record] {
	return func(row pgx.CollectableRow) (domain.Record, error) {
		var code, status string
		if err := row.Scan(&code, &status); err != nil {
			return nil, err
		}
		return domain.Record{codeKey: code, "status": status}, nil
	}
}

func (s *SupplyChainStore) codeStatus(ctx context.Context, op, query, code, codeKey, notFound string) (domain.Result, error) {
	var gotCode, status string
	err := s.db.QueryRow(ctx, query, code).Scan(&gotCode, &status)
	return one(op, err, notFound, func() domain.Record {
		return domain.Record{codeKey: gotCode, "status": status}
	})
}

// ProductStock sums the on-hand quantity of a product over all bins. A
// product without stock rows has quantity 0.
func (s *SupplyChainStore) ProductStock(ctx context.Context, productID int) (*domain.StockLevel, error) {
	level := domain.StockLevel{ProductID: productID}
	err := s.db.QueryRow(ctx,
		`SELECT p.product_name, COALESCE(SUM(cs.quantity_on_hand), 0)
		 FROM products p
		 LEFT JOIN current_stock cs ON cs.product_id = p.product_id
		 WHERE p.product_id = $1
		 GROUP BY p.product_name`,
		productID,
	).Scan(&level.ProductName, &level.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product stock: %w", err)
	}
	return &level, nil
}

func (s *SupplyChainStore) StockByKeyword(ctx context.Context, keyword string) ([]domain.StockLevel, error) {
	pattern := "%" + keyword + "%"
	rows, err := s.db.Query(ctx,
		`SELECT p.product_id, p.product_name, COALESCE(SUM(cs.quantity_on_hand), 0)
		 FROM current_stock cs
		 JOIN products p ON p.product_id = cs.product_id
		 WHERE p.product_name ILIKE $1 OR p.sku ILIKE $1
		 GROUP BY p.product_id, p.product_name
		 ORDER BY p.product_name`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock by keyword: %w", err)
	}
	levels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StockLevel, error) {
		var l domain.StockLevel
		err := row.Scan(&l.ProductID, &l.ProductName, &l.Quantity)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("get stock by keyword: %w", err)
	}
	return levels, nil
}

func (s *SupplyChainStore) StockBySKU(ctx context.Context, sku string) (domain.Result, error) {
	var (
		gotSKU, name string
		qty          int64
	)
	err := s.db.QueryRow(ctx,
		`SELECT p.sku, p.product_name, COALESCE(SUM(cs.quantity_on_hand), 0)
		 FROM current_stock cs
		 JOIN products p ON p.product_id = cs.product_id
		 WHERE p.sku = $1
		 GROUP BY p.sku, p.product_name`,
		sku,
	).Scan(&gotSKU, &name, &qty)
	return one("get stock by sku", err, fmt.Sprintf("Không tìm thấy tồn kho cho SKU %s", sku), func() domain.Record {
		return domain.Record{"sku": gotSKU, "product_name": name, "quantity": qty}
	})
}

// StockByWarehouse matches the warehouse by name or code.
func (s *SupplyChainStore) StockByWarehouse(ctx context.Context, warehouse string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, COALESCE(SUM(cs.quantity_on_hand), 0)
		 FROM current_stock cs
		 JOIN products p ON p.product_id = cs.product_id
		 JOIN warehouses w ON w.warehouse_id = cs.warehouse_id
		 WHERE w.warehouse_name ILIKE $1 OR w.warehouse_code ILIKE upper($1)
		 GROUP BY p.product_name
		 ORDER BY p.product_name`,
		"%"+warehouse+"%",
	)
	return many("get stock by warehouse", rows, err, scanQuantity("quantity"))
}

func (s *SupplyChainStore) StockByWarehouseAndProduct(ctx context.Context, warehouse, product string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, COALESCE(SUM(cs.quantity_on_hand), 0)
		 FROM current_stock cs
		 JOIN products p ON p.product_id = cs.product_id
		 JOIN warehouses w ON w.warehouse_id = cs.warehouse_id
		 WHERE w.warehouse_name ILIKE $1 AND p.product_name ILIKE $2
		 GROUP BY p.product_name
		 ORDER BY p.product_name`,
		"%"+warehouse+"%", "%"+product+"%",
	)
	return many("get stock by warehouse and product", rows, err, scanQuantity("quantity"))
}

func (s *SupplyChainStore) StockByBin(ctx context.Context, binID int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, COALESCE(cs.quantity_on_hand, 0)
		 FROM current_stock cs
		 JOIN products p ON p.product_id = cs.product_id
		 WHERE cs.bin_id = $1
		 ORDER BY p.product_name`,
		binID,
	)
	return many("get stock by bin", rows, err, scanQuantity("quantity_on_hand"))
}

func (s *SupplyChainStore) AllStockSummary(ctx context.Context) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, COALESCE(SUM(cs.quantity_on_hand), 0)
		 FROM current_stock cs
		 JOIN products p ON p.product_id = cs.product_id
		 GROUP BY p.product_name
		 ORDER BY p.product_name`,
	)
	return many("get all stock summary", rows, err, scanQuantity("total_quantity"))
}

// AvailableStock is on-hand minus allocated, summed over all bins.
func (s *SupplyChainStore) AvailableStock(ctx context.Context, productID int) (int64, error) {
	var available int64
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity_on_hand - COALESCE(quantity_allocated, 0)), 0)
		 FROM current_stock WHERE product_id = $1`,
		productID,
	).Scan(&available)
	if err != nil {
		return 0, fmt.Errorf("get available stock: %w", err)
	}
	return available, nil
}

// LowStockProducts lists products whose summed on-hand quantity is below
// their minimum stock level.
func (s *SupplyChainStore) LowStockProducts(ctx context.Context) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, SUM(cs.quantity_on_hand), COALESCE(p.min_stock_level, 0)
		 FROM current_stock cs
		 JOIN products p ON p.product_id = cs.product_id
		 GROUP BY p.product_id
		 HAVING SUM(cs.quantity_on_hand) < COALESCE(p.min_stock_level, 0)
		 ORDER BY p.product_name`,
	)
	return many("get low stock products", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			name          string
			qty, minLevel int64
		)
		if err := row.Scan(&name, &qty, &minLevel); err != nil {
			return nil, err
		}
		return domain.Record{"product_name": name, "quantity": qty, "min_stock_level": minLevel}, nil
	})
}

func (s *SupplyChainStore) OverstockProducts(ctx context.Context, threshold int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, SUM(cs.quantity_on_hand)
		 FROM current_stock cs
		 JOIN products p ON p.product_id = cs.product_id
		 GROUP BY p.product_id
		 HAVING SUM(cs.quantity_on_hand) > $1
		 ORDER BY p.product_name`,
		threshold,
	)
	return many("get overstock products", rows, err, scanQuantity("quantity"))
}

// DeadStockProducts lists products with no inventory movement in the last
// days days.
func (s *SupplyChainStore) DeadStockProducts(ctx context.Context, days int) (domain.Result, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name
		 FROM products p
		 WHERE p.product_id NOT IN (
		     SELECT l.product_id FROM inventory_transaction_logs l
		     WHERE l.transaction_date >= $1)
		 ORDER BY p.product_name`,
		cutoff,
	)
	return many("get dead stock products", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var name string
		if err := row.Scan(&name); err != nil {
			return nil, err
		}
		return domain.Record{"product_name": name}, nil
	})
}

func (s *SupplyChainStore) GoodsReceiptStatus(ctx context.Context, grCode string) (domain.Result, error) {
	return s.codeStatus(ctx, "get goods receipt status",
		`SELECT gr_code, status::text FROM goods_receipts WHERE gr_code = $1`,
		grCode, "gr_code", "Không tìm thấy phiếu nhập "+grCode)
}

func (s *SupplyChainStore) GoodsReceiptDetail(ctx context.Context, grCode string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, i.quantity_received, w.warehouse_name
		 FROM goods_receipts gr
		 JOIN gr_items i ON i.gr_id = gr.gr_id
		 JOIN products p ON p.product_id = i.product_id
		 JOIN warehouses w ON w.warehouse_id = gr.warehouse_id
		 WHERE gr.gr_code = $1
		 ORDER BY i.gr_item_id`,
		grCode,
	)
	return many("get goods receipt detail", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			product, warehouse string
			qty                int
		)
		if err := row.Scan(&product, &qty, &warehouse); err != nil {
			return nil, err
		}
		return domain.Record{"product_name": product, "quantity_received": qty, "warehouse_name": warehouse}, nil
	})
}

const receiptColumns = `gr.gr_code, po.po_code, gr.receipt_date, gr.status::text`

func scanReceipt(row pgx.CollectableRow) (domain.Record, error) {
	var (
		grCode, poCode, status string
		date                   *time.Time
	)
	if err := row.Scan(&grCode, &poCode, &date, &status); err != nil {
		return nil, err
	}
	var received any
	if date != nil {
		received = stamp(*date)
	}
	return domain.Record{"gr_code": grCode, "po_code": poCode, "receipt_date": received, "status": status}, nil
}

func (s *SupplyChainStore) GoodsReceiptsByPO(ctx context.Context, poCode string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+receiptColumns+`
		 FROM goods_receipts gr
		 JOIN purchase_orders po ON po.po_id = gr.po_id
		 WHERE po.po_code = $1
		 ORDER BY gr.receipt_date DESC`,
		poCode,
	)
	return many("get goods receipts by po", rows, err, scanReceipt)
}

func (s *SupplyChainStore) GoodsReceiptsBySupplier(ctx context.Context, supplierID int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+receiptColumns+`
		 FROM goods_receipts gr
		 JOIN purchase_orders po ON po.po_id = gr.po_id
		 WHERE po.supplier_id = $1
		 ORDER BY gr.receipt_date DESC`,
		supplierID,
	)
	return many("get goods receipts by supplier", rows, err, scanReceipt)
}

func (s *SupplyChainStore) RecentGoodsReceipts(ctx context.Context, days int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+receiptColumns+`
		 FROM goods_receipts gr
		 JOIN purchase_orders po ON po.po_id = gr.po_id
		 WHERE gr.receipt_date >= $1
		 ORDER BY gr.receipt_date DESC`,
		time.Now().UTC().AddDate(0, 0, -days),
	)
	return many("get recent goods receipts", rows, err, scanReceipt)
}

func (s *SupplyChainStore) GoodsIssueStatus(ctx context.Context, giCode string) (domain.Result, error) {
	return s.codeStatus(ctx, "get goods issue status",
		`SELECT gi_code, status::text FROM goods_issues WHERE gi_code = $1`,
		giCode, "gi_code", "Không tìm thấy phiếu xuất "+giCode)
}

func (s *SupplyChainStore) GoodsIssueDetail(ctx context.Context, giCode string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, i.quantity_issued
		 FROM goods_issues gi
		 JOIN gi_items i ON i.gi_id = gi.gi_id
		 JOIN products p ON p.product_id = i.product_id
		 WHERE gi.gi_code = $1
		 ORDER BY i.gi_item_id`,
		giCode,
	)
	return many("get goods issue detail", rows, err, scanQuantity("quantity_issued"))
}

func scanIssue(row pgx.CollectableRow) (domain.Record, error) {
	var (
		code, issueType, status string
		ref                     *string
		date                    *time.Time
	)
	if err := row.Scan(&code, &issueType, &ref, &date, &status); err != nil {
		return nil, err
	}
	var issued any
	if date != nil {
		issued = stamp(*date)
	}
	return domain.Record{
		"gi_code":          code,
		"issue_type":       issueType,
		"reference_doc_id": ref,
		"issue_date":       issued,
		"status":           status,
	}, nil
}

func (s *SupplyChainStore) GoodsIssuesByType(ctx context.Context, issueType string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT gi_code, issue_type::text, reference_doc_id, issue_date, status::text
		 FROM goods_issues
		 WHERE issue_type::text = $1
		 ORDER BY issue_date DESC`,
		issueType,
	)
	return many("get goods issues by type", rows, err, scanIssue)
}

func (s *SupplyChainStore) GoodsIssuesByReference(ctx context.Context, ref string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT gi_code, issue_type::text, reference_doc_id, issue_date, status::text
		 FROM goods_issues
		 WHERE reference_doc_id = $1
		 ORDER BY issue_date DESC`,
		ref,
	)
	return many("get goods issues by reference", rows, err, scanIssue)
}

func (s *SupplyChainStore) PurchaseOrderStatus(ctx context.Context, poCode string) (domain.Result, error) {
	return s.codeStatus(ctx, "get purchase order status",
		`SELECT po_code, status::text FROM purchase_orders WHERE po_code = $1`,
		poCode, "po_code", "Không tìm thấy PO "+poCode)
}

func (s *SupplyChainStore) PurchaseOrderDetail(ctx context.Context, poCode string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, i.quantity_ordered, COALESCE(i.quantity_received, 0), i.unit_price
		 FROM purchase_orders po
		 JOIN po_items i ON i.po_id = po.po_id
		 JOIN products p ON p.product_id = i.product_id
		 WHERE po.po_code = $1
		 ORDER BY i.po_item_id`,
		poCode,
	)
	return many("get purchase order detail", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			name              string
			ordered, received int64
			price             decimal.Decimal
		)
		if err := row.Scan(&name, &ordered, &received, &price); err != nil {
			return nil, err
		}
		return domain.Record{
			"product_name":      name,
			"quantity_ordered":  ordered,
			"quantity_received": received,
			"unit_price":        money(price),
		}, nil
	})
}

// OpenPurchaseOrders lists the purchase orders that are only partly received.
func (s *SupplyChainStore) OpenPurchaseOrders(ctx context.Context) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT po_code, status::text FROM purchase_orders
		 WHERE status::text = 'PARTIAL_RECEIVED'
		 ORDER BY order_date DESC`,
	)
	return many("get open purchase orders", rows, err, scanCodeStatus("po_code"))
}

// POReceivingProgress totals ordered and received quantities of one PO.
func (s *SupplyChainStore) POReceivingProgress(ctx context.Context, poCode string) (domain.Result, error) {
	var ordered, received int64
	err := s.db.QueryRow(ctx,
		`SELECT
		     COALESCE((SELECT SUM(i.quantity_ordered) FROM po_items i WHERE i.po_id = po.po_id), 0),
		     COALESCE((SELECT SUM(g.quantity_received)
		               FROM gr_items g
		               JOIN goods_receipts gr ON gr.gr_id = g.gr_id
		               WHERE gr.po_id = po.po_id), 0)
		 FROM purchase_orders po
		 WHERE po.po_code = $1`,
		poCode,
	).Scan(&ordered, &received)
	return one("get po receiving progress", err, "Không tìm thấy PO "+poCode, func() domain.Record {
		return domain.Record{"ordered": ordered, "received": received}
	})
}

// ReceivedVsOrdered compares per product what a PO ordered with what its
// goods receipts brought in. Only receipts of the same PO are counted.
func (s *SupplyChainStore) ReceivedVsOrdered(ctx context.Context, poCode string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, i.quantity_ordered,
		        COALESCE((SELECT SUM(g.quantity_received)
		                  FROM gr_items g
		                  JOIN goods_receipts gr ON gr.gr_id = g.gr_id
		                  WHERE gr.po_id = po.po_id AND g.product_id = i.product_id), 0)
		 FROM purchase_orders po
		 JOIN po_items i ON i.po_id = po.po_id
		 JOIN products p ON p.product_id = i.product_id
		 WHERE po.po_code = $1
		 ORDER BY i.po_item_id`,
		poCode,
	)
	return many("get received vs ordered", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			name              string
			ordered, received int64
		)
		if err := row.Scan(&name, &ordered, &received); err != nil {
			return nil, err
		}
		return domain.Record{
			"product":  name,
			"ordered":  ordered,
			"received": received,
			"missing":  ordered - received,
		}, nil
	})
}

func (s *SupplyChainStore) PurchaseRequestStatus(ctx context.Context, prCode string) (domain.Result, error) {
	return s.codeStatus(ctx, "get purchase request status",
		`SELECT pr_code, status::text FROM purchase_requests WHERE pr_code = $1`,
		prCode, "pr_code", "Không tìm thấy yêu cầu mua "+prCode)
}

func (s *SupplyChainStore) OpenPurchaseRequests(ctx context.Context) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT pr_code, status::text FROM purchase_requests
		 WHERE status::text <> 'PROCESSED'
		 ORDER BY request_date DESC`,
	)
	return many("get open purchase requests", rows, err, scanCodeStatus("pr_code"))
}

func (s *SupplyChainStore) SupplierProfile(ctx context.Context, supplierCode string) (domain.Result, error) {
	var (
		code, name            string
		email, phone, address *string
		rating                decimal.NullDecimal
	)
	err := s.db.QueryRow(ctx,
		`SELECT supplier_code, supplier_name, contact_email, contact_phone, address, rating
		 FROM suppliers WHERE supplier_code = $1`,
		supplierCode,
	).Scan(&code, &name, &email, &phone, &address, &rating)
	return one("get supplier profile", err, "Không tìm thấy nhà cung cấp "+supplierCode, func() domain.Record {
		return domain.Record{
			"supplier_code": code,
			"supplier_name": name,
			"contact_email": email,
			"contact_phone": phone,
			"address":       address,
			"rating":        nullMoney(rating),
		}
	})
}

// RankSuppliers orders suppliers by how many purchase orders they received.
func (s *SupplyChainStore) RankSuppliers(ctx context.Context) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT s.supplier_name, COUNT(po.po_id)
		 FROM suppliers s
		 JOIN purchase_orders po ON po.supplier_id = s.supplier_id
		 GROUP BY s.supplier_name
		 ORDER BY COUNT(po.po_id) DESC, s.supplier_name`,
	)
	return many("rank suppliers", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			name  string
			total int64
		)
		if err := row.Scan(&name, &total); err != nil {
			return nil, err
		}
		return domain.Record{"supplier_name": name, "total_orders": total}, nil
	})
}

func (s *SupplyChainStore) SupplierPurchaseHistory(ctx context.Context, supplierID int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT po_code, order_date, total_amount, status::text
		 FROM purchase_orders
		 WHERE supplier_id = $1
		 ORDER BY order_date DESC`,
		supplierID,
	)
	return many("get supplier purchase history", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			code, status string
			date         time.Time
			total        decimal.Decimal
		)
		if err := row.Scan(&code, &date, &total, &status); err != nil {
			return nil, err
		}
		return domain.Record{
			"po_code":      code,
			"order_date":   day(date),
			"total_amount": money(total),
			"status":       status,
		}, nil
	})
}

func (s *SupplyChainStore) InventoryTransactionLogs(ctx context.Context, productID int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT transaction_type::text, quantity_change, transaction_date
		 FROM inventory_transaction_logs
		 WHERE product_id = $1
		 ORDER BY transaction_date DESC`,
		productID,
	)
	return many("get inventory transaction logs", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			kind   string
			change int64
			date   time.Time
		)
		if err := row.Scan(&kind, &change, &date); err != nil {
			return nil, err
		}
		return domain.Record{"transaction_type": kind, "quantity_change": change, "transaction_date": stamp(date)}, nil
	})
}

func (s *SupplyChainStore) StocktakeStatus(ctx context.Context, code string) (domain.Result, error) {
	return s.codeStatus(ctx, "get stocktake status",
		`SELECT stocktake_code, status::text FROM stocktakes WHERE stocktake_code = $1`,
		code, "stocktake_code", "Không tìm thấy phiếu kiểm kê "+code)
}

func (s *SupplyChainStore) StocktakeDetail(ctx context.Context, code string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, d.system_quantity, d.actual_quantity
		 FROM stocktakes st
		 JOIN stocktake_details d ON d.stocktake_id = st.stocktake_id
		 JOIN products p ON p.product_id = d.product_id
		 WHERE st.stocktake_code = $1
		 ORDER BY d.detail_id`,
		code,
	)
	return many("get stocktake detail", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			name           string
			system, actual int64
		)
		if err := row.Scan(&name, &system, &actual); err != nil {
			return nil, err
		}
		return domain.Record{"product_name": name, "system_quantity": system, "actual_quantity": actual}, nil
	})
}

// StockVarianceReport is actual minus system quantity per counted product.
func (s *SupplyChainStore) StockVarianceReport(ctx context.Context, code string) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.product_name, d.actual_quantity - d.system_quantity
		 FROM stocktakes st
		 JOIN stocktake_details d ON d.stocktake_id = st.stocktake_id
		 JOIN products p ON p.product_id = d.product_id
		 WHERE st.stocktake_code = $1
		 ORDER BY d.detail_id`,
		code,
	)
	return many("get stock variance report", rows, err, scanQuantity("variance"))
}
