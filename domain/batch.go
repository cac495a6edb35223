package domain

// BatchKey identifies a batch. Within one medicine, (BatchNo, OnBill) is unique.
type BatchKey struct {
	MedicineID int64
	BatchNo    string
	OnBill     bool
}

// Batch is the single authoritative stock record for one BatchKey.
type Batch struct {
	ID           int64    `db:"id" json:"id"`
	MedicineID   int64    `db:"medicine_id" json:"medicine_id"`
	BatchNo      string   `db:"batch_no" json:"batch_no"`
	OnBill       bool     `db:"on_bill" json:"on_bill"`
	Quantity     int64    `db:"quantity" json:"quantity"`
	PurchaseRate *float64 `db:"purchase_rate" json:"purchase_rate"`
	MRP          *float64 `db:"mrp" json:"mrp"`
	GSTPercent   *float64 `db:"gst_percent" json:"gst_percent"`
	ExpiryDate   *Date    `db:"expiry_date" json:"expiry_date"`
}

// NewBatch returns an empty batch for key with zero stock.
func NewBatch(key BatchKey) *Batch {
	return &Batch{
		MedicineID: key.MedicineID,
		BatchNo:    key.BatchNo,
		OnBill:     key.OnBill,
	}
}

func (b *Batch) Key() BatchKey {
	return BatchKey{MedicineID: b.MedicineID, BatchNo: b.BatchNo, OnBill: b.OnBill}
}

// Receipt is the stock arriving on one purchase line.
type Receipt struct {
	Quantity   *int64
	NetRate    float64
	MRP        *float64
	GSTPercent *float64
	Expiry     *Date
}

// Validate rejects a missing or negative quantity.
func (r Receipt) Validate(batchNo string) error {
	if r.Quantity == nil {
		return InvalidQuantity("quantity is required for batch %q", batchNo)
	}
	if *r.Quantity < 0 {
		return InvalidQuantity("quantity %d for batch %q must not be negative", *r.Quantity, batchNo)
	}
	return nil
}

// Receive merges a receipt into the batch. Quantity accumulates; expiry, purchase
// rate and MRP take the latest values; GST percent is only filled while unset.
func (b *Batch) Receive(r Receipt) error {
	if err := r.Validate(b.BatchNo); err != nil {
		return err
	}

	b.Quantity += *r.Quantity
	b.ExpiryDate = r.Expiry
	rate := r.NetRate
	b.PurchaseRate = &rate
	b.MRP = r.MRP
	if b.GSTPercent == nil {
		b.GSTPercent = r.GSTPercent
	}
	return nil
}
