package domain

// StockLevel is the on-hand quantity of one product summed over all bins and
// warehouses. A product without stock rows has Quantity 0.
type StockLevel struct {
	ProductID   int
	ProductName string
	Quantity    int64
}

func (s StockLevel) Record() Record {
	return Record{"product_id": s.ProductID, "product_name": s.ProductName, "quantity": s.Quantity}
}
