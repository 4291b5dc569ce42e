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

// SalesCRMStore reads orders, products, customers and vouchers of the shop
// database. It is also the only store that writes: reviews.
type SalesCRMStore struct {
	db DBTX
}

var _ router.SalesCRMStore = (*SalesCRMStore)(nil)

func NewSalesCRMStore(db DBTX) *SalesCRMStore {
	return &SalesCRMStore{db: db}
}

func (s *SalesCRMStore) OrderDetail(ctx context.Context, orderID int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT v.name, d.quantity, d.price
		 FROM order_detail d
		 JOIN product_variant v ON v.id = d.product_variant_id
		 WHERE d.order_id = $1
		 ORDER BY d.id`,
		orderID,
	)
	return many("get order detail", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			name  string
			qty   int
			price decimal.Decimal
		)
		if err := row.Scan(&name, &qty, &price); err != nil {
			return nil, err
		}
		return domain.Record{"variant_name": name, "quantity": qty, "price": money(price)}, nil
	})
}

// OrderStatus only finds orders that belong to userID.
func (s *SalesCRMStore) OrderStatus(ctx context.Context, orderID, userID int) (domain.Result, error) {
	var (
		id                   int
		status               string
		payStatus, payMethod *string
		createdAt            time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT o.id, o.order_status, p.payment_status, p.payment_method, o.created_at
		 FROM "order" o
		 LEFT JOIN payment p ON p.id = o.payment_id
		 WHERE o.id = $1 AND o.user_id = $2`,
		orderID, userID,
	).Scan(&id, &status, &payStatus, &payMethod, &createdAt)
	return one("get order status", err, fmt.Sprintf("Không tìm thấy đơn hàng %d", orderID), func() domain.Record {
		return domain.Record{
			"order_id":       id,
			"order_status":   status,
			"payment_status": payStatus,
			"payment_method": payMethod,
			"created_at":     stamp(createdAt),
		}
	})
}

func (s *SalesCRMStore) PurchaseHistory(ctx context.Context, userID int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT o.id, o.created_at, o.order_status, SUM(d.quantity * d.price)
		 FROM "order" o
		 JOIN order_detail d ON d.order_id = o.id
		 WHERE o.user_id = $1
		 GROUP BY o.id
		 ORDER BY o.created_at DESC`,
		userID,
	)
	return many("get purchase history", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			id        int
			createdAt time.Time
			status    string
			total     decimal.Decimal
		)
		if err := row.Scan(&id, &createdAt, &status, &total); err != nil {
			return nil, err
		}
		return domain.Record{
			"order_id":     id,
			"created_at":   stamp(createdAt),
			"status":       status,
			"total_amount": money(total),
		}, nil
	})
}

// PaymentStatus resolves the payment through the order that references it.
func (s *SalesCRMStore) PaymentStatus(ctx context.Context, orderID int) (domain.Result, error) {
	var (
		id             int
		status, method string
		amount         decimal.Decimal
	)
	err := s.db.QueryRow(ctx,
		`SELECT p.id, p.payment_status, p.payment_method, p.amount
		 FROM "order" o
		 JOIN payment p ON p.id = o.payment_id
		 WHERE o.id = $1`,
		orderID,
	).Scan(&id, &status, &method, &amount)
	return one("get payment status", err, "Không tìm thấy thanh toán", func() domain.Record {
		return domain.Record{
			"payment_id": id,
			"status":     status,
			"method":     method,
			"amount":     money(amount),
		}
	})
}

func (s *SalesCRMStore) VoucherByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	var (
		v        domain.Voucher
		minOrder decimal.NullDecimal
	)
	err := s.db.QueryRow(ctx,
		`SELECT v.id, vd.code, v.discount_type, v.discount_value, v.start_date, v.end_date,
		        vc.min_order_amount
		 FROM voucher_detail vd
		 JOIN voucher v ON v.id = vd.voucher_id
		 LEFT JOIN voucher_constraint vc ON vc.voucher_id = v.id
		 WHERE vd.code = $1 AND vd.is_active
		 LIMIT 1`,
		code,
	).Scan(&v.ID, &v.Code, &v.DiscountType, &v.DiscountValue, &v.StartDate, &v.EndDate, &minOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voucher by code: %w", err)
	}
	if minOrder.Valid {
		v.MinOrderAmount = &minOrder.Decimal
	}
	return &v, nil
}

func (s *SalesCRMStore) CustomerProfile(ctx context.Context, userID int) (domain.Result, error) {
	var (
		username, email, phone *string
		address                *string
	)
	err := s.db.QueryRow(ctx,
		`SELECT u.username, u.email, u.phone,
		        (SELECT a.street_address FROM address a
		         WHERE a.user_id = u.id AND a.is_default
		         LIMIT 1)
		 FROM "user" u WHERE u.id = $1`,
		userID,
	).Scan(&username, &email, &phone, &address)
	return one("get customer profile", err, "Không tìm thấy khách hàng", func() domain.Record {
		return domain.Record{
			"username":        username,
			"email":           email,
			"phone":           phone,
			"default_address": address,
		}
	})
}

func (s *SalesCRMStore) ProductInfo(ctx context.Context, productID int) (domain.Result, error) {
	var (
		name, brand string
		rating      decimal.NullDecimal
		active      bool
	)
	err := s.db.QueryRow(ctx,
		`SELECT p.name, b.name, p.avg_rating, p.is_active
		 FROM product p
		 JOIN brand b ON b.id = p.brand_id
		 WHERE p.id = $1`,
		productID,
	).Scan(&name, &brand, &rating, &active)
	return one("get product info", err, "Không tìm thấy sản phẩm", func() domain.Record {
		return domain.Record{
			"name":   name,
			"brand":  brand,
			"rating": nullMoney(rating),
			"active": active,
		}
	})
}

func (s *SalesCRMStore) ProductVariants(ctx context.Context, productID int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT name, original_price, COALESCE(discount_amount, 0), stock
		 FROM product_variant
		 WHERE product_id = $1
		 ORDER BY id`,
		productID,
	)
	return many("get product variants", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			name            string
			price, discount decimal.Decimal
			stock           *int
		)
		if err := row.Scan(&name, &price, &discount, &stock); err != nil {
			return nil, err
		}
		return domain.Record{
			"variant":  name,
			"price":    money(price),
			"discount": money(discount),
			"stock":    stock,
		}, nil
	})
}

func (s *SalesCRMStore) ProductReviews(ctx context.Context, productID int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT r.rating, r.content, u.username, r.created_at
		 FROM review r
		 JOIN "user" u ON u.id = r.user_id
		 WHERE r.product_id = $1
		 ORDER BY r.created_at DESC`,
		productID,
	)
	return many("get product reviews", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			rating            int
			content, username *string
			createdAt         time.Time
		)
		if err := row.Scan(&rating, &content, &username, &createdAt); err != nil {
			return nil, err
		}
		return domain.Record{
			"rating":     rating,
			"content":    content,
			"username":   username,
			"created_at": stamp(createdAt),
		}, nil
	})
}

// ProductsByBrand lists the active products of a brand.
func (s *SalesCRMStore) ProductsByBrand(ctx context.Context, brandID int) (domain.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name FROM product WHERE brand_id = $1 AND is_active ORDER BY id`,
		brandID,
	)
	return many("get products by brand", rows, err, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			id   int
			name string
		)
		if err := row.Scan(&id, &name); err != nil {
			return nil, err
		}
		return domain.Record{"id": id, "name": name}, nil
	})
}

func (s *SalesCRMStore) CreateReview(ctx context.Context, r domain.Review) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO review (product_id, user_id, content, rating, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id`,
		r.ProductID, r.UserID, r.Content, r.Rating,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create review: %w", err)
	}
	return id, nil
}
