package router

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/extract"
)

const reviewsDisabledMessage = "Đánh giá qua chat đang tắt. Vui lòng gửi đánh giá qua /api/reviews"

// SalesCRMStore is the storefront data the Sales-CRM router reads. CreateReview
// is its only write.
type SalesCRMStore interface {
	OrderDetail(ctx context.Context, orderID int) (domain.Result, error)
	OrderStatus(ctx context.Context, orderID, userID int) (domain.Result, error)
	PurchaseHistory(ctx context.Context, userID int) (domain.Result, error)
	PaymentStatus(ctx context.Context, orderID int) (domain.Result, error)
	// VoucherByCode returns nil when no active voucher has the code.
	VoucherByCode(ctx context.Context, code string) (*domain.Voucher, error)
	CustomerProfile(ctx context.Context, userID int) (domain.Result, error)
	ProductInfo(ctx context.Context, productID int) (domain.Result, error)
	ProductVariants(ctx context.Context, productID int) (domain.Result, error)
	ProductReviews(ctx context.Context, productID int) (domain.Result, error)
	ProductsByBrand(ctx context.Context, brandID int) (domain.Result, error)
	CreateReview(ctx context.Context, r domain.Review) (int64, error)
}

var (
	orderLabel   = extract.Labels("đơn hàng")
	productLabel = extract.Labels("sản phẩm")
	brandLabel   = extract.Labels("hãng")
)

type SalesCRM struct {
	store         SalesCRMStore
	reviewOnRoute bool
	now           func() time.Time
	cascade       Cascade
}

var _ Router = (*SalesCRM)(nil)

type SalesCRMOption func(*SalesCRM)

// WithReviewOnRoute controls whether a rated review question creates the
// review. When disabled the router answers with a pointer to the review
// endpoint instead.
func WithReviewOnRoute(enabled bool) SalesCRMOption {
	return func(s *SalesCRM) { s.reviewOnRoute = enabled }
}

func NewSalesCRM(store SalesCRMStore, opts ...SalesCRMOption) *SalesCRM {
	s := &SalesCRM{store: store, reviewOnRoute: true, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	isQuestion := keywords("?", "không", "chưa", "bao nhiêu", "thế nào", "ra sao", "đúng")
	isVoucherPreview := keywords("còn bao nhiêu tiền", "sau khi áp", "giảm còn", "áp voucher")

	s.cascade = Cascade{
		Domain: domain.DomainSalesCRM,
		Rules: []Rule{
			{Area: "order", Operation: "get_order_detail", Confidence: 0.95,
				Match:   func(q string) bool { return containsAll(q, "chi tiết", "đơn hàng") },
				Extract: intEntity("order_id", orderLabel.Find)},
			{Area: "order", Operation: "get_order_status", Confidence: 0.9,
				Match: keywords("đơn hàng"), Extract: intEntity("order_id", orderLabel.Find)},
			{Area: "order", Operation: "get_purchase_history", Confidence: 0.9,
				Match: keywords("lịch sử mua", "đã mua", "mua những gì")},
			{Area: "payment", Operation: "get_payment_status", Confidence: 0.9,
				Match: keywords("thanh toán"), Extract: intEntity("order_id", orderLabel.Find)},
			{Area: "voucher", Operation: "check_voucher_valid", Confidence: 0.9,
				Match:   func(q string) bool { return containsAny(q, "voucher", "mã") && !isVoucherPreview(q) },
				Extract: voucherEntity},
			{Area: "customer", Operation: "get_customer_profile", Confidence: 0.9,
				Match: keywords("thông tin tài khoản", "thông tin của tôi")},
			// Only an imperative rating writes. A question about ratings falls
			// through to the product overview, which includes the reviews.
			{Area: "review", Operation: "create_review", Confidence: 0.9,
				Match:   func(q string) bool { return containsAny(q, "đánh giá") && !isQuestion(q) },
				Extract: reviewEntity},
			{Area: "product", Operation: "get_product_overview", Confidence: 0.9,
				Match: keywords("sản phẩm"), Extract: intEntity("product_id", productLabel.Find)},
			{Area: "product", Operation: "get_products_by_brand", Confidence: 0.85,
				Match: keywords("hãng"), Extract: intEntity("brand_id", brandLabel.Find)},
		},
	}
	return s
}

// voucherEntity reads the voucher code and, when present, the order amount.
// The code is searched outside the amount so "đơn 500k" never yields 500K.
func voucherEntity(q domain.Query) (domain.Entities, bool) {
	code, ok := extract.VoucherCode(extract.WithoutAmounts(q.Text))
	if !ok {
		return nil, false
	}
	ents := domain.Entities{"code": code}
	if amount, ok := extract.Amount(q.Text); ok {
		ents["order_amount"] = amount
	}
	return ents, true
}

func reviewEntity(q domain.Query) (domain.Entities, bool) {
	productID, ok := productLabel.Find(q.Text)
	if !ok || productID == 0 {
		return nil, false
	}
	rating, ok := extract.Rating(q.Text)
	if !ok {
		return nil, false
	}
	return domain.Entities{"product_id": productID, "rating": rating}, true
}

func (s *SalesCRM) Domain() domain.Domain { return domain.DomainSalesCRM }

func (s *SalesCRM) Classify(q domain.Query) (*domain.Intent, bool) {
	return s.cascade.Classify(q)
}

func (s *SalesCRM) Execute(ctx context.Context, in *domain.Intent) (domain.Result, error) {
	user := in.Query.ActorID
	orderID, _ := in.Entities.Int("order_id")
	productID, _ := in.Entities.Int("product_id")

	var (
		res domain.Result
		err error
	)
	switch in.Operation {
	case "get_order_detail":
		res, err = s.store.OrderDetail(ctx, orderID)
	case "get_order_status":
		res, err = s.store.OrderStatus(ctx, orderID, user)
	case "get_purchase_history":
		res, err = s.store.PurchaseHistory(ctx, user)
	case "get_payment_status":
		res, err = s.store.PaymentStatus(ctx, orderID)
	case "check_voucher_valid":
		res, err = s.checkVoucher(ctx, in.Entities)
	case "get_customer_profile":
		res, err = s.store.CustomerProfile(ctx, user)
	case "create_review":
		res, err = s.createReview(ctx, in.Entities, user)
	case "get_product_overview":
		res, err = s.productOverview(ctx, productID)
	case "get_products_by_brand":
		brandID, _ := in.Entities.Int("brand_id")
		res, err = s.store.ProductsByBrand(ctx, brandID)
	default:
		return domain.Result{}, unknownOperation(s.Domain(), in.Operation)
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("sales-crm %s: %w", in.Operation, err)
	}
	return res, nil
}

func (s *SalesCRM) checkVoucher(ctx context.Context, ents domain.Entities) (domain.Result, error) {
	code, _ := ents.String("code")
	v, err := s.store.VoucherByCode(ctx, code)
	if err != nil {
		return domain.Result{}, err
	}
	var amount *decimal.Decimal
	if a, ok := ents["order_amount"].(decimal.Decimal); ok {
		amount = &a
	}
	return EvaluateVoucher(v, amount, s.now()), nil
}

// EvaluateVoucher checks existence first, then asks for the order amount,
// then checks the validity window and the minimum order amount.
func EvaluateVoucher(v *domain.Voucher, orderAmount *decimal.Decimal, now time.Time) domain.Result {
	if v == nil {
		return domain.NewRecord(domain.Record{"valid": false, "reason": "Voucher không tồn tại"})
	}
	if orderAmount == nil {
		return domain.NewRecord(domain.Record{
			"valid":          false,
			"need_more_info": true,
			"message":        "Vui lòng cho biết giá trị đơn hàng để kiểm tra voucher",
		})
	}
	if now.Before(v.StartDate) || now.After(v.EndDate) {
		return domain.NewRecord(domain.Record{"valid": false, "reason": "Voucher đã hết hạn"})
	}
	if v.MinOrderAmount != nil && orderAmount.LessThan(*v.MinOrderAmount) {
		return domain.NewRecord(domain.Record{"valid": false, "reason": "Đơn hàng chưa đủ điều kiện"})
	}
	return domain.NewRecord(domain.Record{
		"valid":          true,
		"discount_type":  v.DiscountType,
		"discount_value": v.DiscountValue.InexactFloat64(),
	})
}

func (s *SalesCRM) createReview(ctx context.Context, ents domain.Entities, user int) (domain.Result, error) {
	if !s.reviewOnRoute {
		return domain.NewMessage(reviewsDisabledMessage), nil
	}
	productID, _ := ents.Int("product_id")
	rating, _ := ents.Int("rating")
	id, err := s.store.CreateReview(ctx, domain.Review{
		ProductID: productID,
		UserID:    user,
		Content:   config.ChatbotReviewContent,
		Rating:    rating,
	})
	if err != nil {
		return domain.Result{}, err
	}
	return domain.NewRecord(domain.Record{"review_id": id}), nil
}

func (s *SalesCRM) productOverview(ctx context.Context, productID int) (domain.Result, error) {
	info, err := s.store.ProductInfo(ctx, productID)
	if err != nil {
		return domain.Result{}, err
	}
	variants, err := s.store.ProductVariants(ctx, productID)
	if err != nil {
		return domain.Result{}, err
	}
	reviews, err := s.store.ProductReviews(ctx, productID)
	if err != nil {
		return domain.Result{}, err
	}
	return domain.NewRecord(domain.Record{
		"info":     info,
		"variants": variants,
		"reviews":  reviews,
	}), nil
}
