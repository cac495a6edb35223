package domain

type Medicine struct {
	ID    int64   `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	SKU   *string `db:"sku" json:"sku"`
	Brand *string `db:"brand" json:"brand"`
}

// MedicineSummary aggregates the batches of one medicine.
type MedicineSummary struct {
	ID             int64    `db:"id" json:"id"`
	Name           string   `db:"name" json:"name"`
	Brand          *string  `db:"brand" json:"brand"`
	TotalQuantity  int64    `db:"total_quantity" json:"total_quantity"`
	EarliestExpiry *Date    `db:"earliest_expiry" json:"earliest_expiry"`
	HighestNetRate *float64 `db:"highest_net_rate" json:"highest_net_rate"`
	HighestMRP     *float64 `db:"highest_mrp" json:"highest_mrp"`
}

// BatchRef is the short batch listing returned by medicine search.
type BatchRef struct {
	BatchID int64  `db:"id" json:"batch_id"`
	BatchNo string `db:"batch_no" json:"batch_no"`
}

// MedicineSearchResult is a medicine with the batches it currently has.
type MedicineSearchResult struct {
	MedicineID   int64      `json:"medicine_id"`
	MedicineName string     `json:"medicine_name"`
	Batches      []BatchRef `json:"batches"`
}
