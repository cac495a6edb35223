package domain

const (
	// PurchaseTypeStockUpdate marks formally invoiced (on-bill) stock.
	PurchaseTypeStockUpdate = "stock_update"
	// RateTypeDummy means the printed net price is not the cost basis and a
	// line's actual price, when positive, replaces it.
	RateTypeDummy = "dummy"
)

type Purchase struct {
	ID           int64          `db:"id" json:"id"`
	InvoiceNo    string         `db:"invoice_no" json:"invoice_no"`
	PurchaseDate Date           `db:"purchase_date" json:"purchase_date"`
	SupplierID   int64          `db:"supplier_id" json:"supplier_id"`
	PurchaseType string         `db:"purchase_type" json:"purchase_type"`
	PaymentType  string         `db:"payment_type" json:"payment_type"`
	RateType     string         `db:"rate_type" json:"rate_type"`
	TaxType      string         `db:"tax_type" json:"tax_type"`
	TotalAmount  float64        `db:"total_amount" json:"total_amount"`
	TotalGST     float64        `db:"total_gst" json:"total_gst"`
	CreatedAt    string         `db:"created_at" json:"created_at"`
	Items        []PurchaseItem `db:"-" json:"items"`
}

// OnBill reports whether stock from this purchase is formally invoiced.
func (p *Purchase) OnBill() bool {
	return p.PurchaseType == PurchaseTypeStockUpdate
}

// PurchaseItem is the invoice-time snapshot of one line. It is not updated
// when later purchases move the batch's rolling prices.
type PurchaseItem struct {
	ID           int64    `db:"id" json:"id"`
	PurchaseID   int64    `db:"purchase_id" json:"purchase_id"`
	MedicineID   int64    `db:"medicine_id" json:"medicine_id"`
	BatchID      *int64   `db:"batch_id" json:"batch_id"`
	BatchNo      string   `db:"batch_no" json:"batch_no"`
	Quantity     int64    `db:"quantity" json:"quantity"`
	UnitPrice    float64  `db:"unit_price" json:"unit_price"`
	NetUnitPrice float64  `db:"net_unit_price" json:"net_unit_price"`
	ActualPrice  *float64 `db:"actual_price" json:"actual_price,omitempty"`
	TaxPercent   float64  `db:"tax_percent" json:"tax_percent"`
	Expiry       *Date    `db:"expiry" json:"expiry"`
	GSTAmount    float64  `db:"gst_amount" json:"gst_amount"`
	TotalAmount  float64  `db:"total_amount" json:"total_amount"`
}
