package purchase

import "medibill/m/domain"

// LineTotals holds the money computed for one purchase line.
type LineTotals struct {
	NetRate float64
	GST     float64
	Amount  float64
}

// EffectiveRate is the per-unit cost basis of a line. In dummy rate mode a
// positive actual price replaces the printed net unit price.
func EffectiveRate(rateType string, line LineRequest) float64 {
	if rateType == domain.RateTypeDummy && line.ActualPrice != nil && *line.ActualPrice > 0 {
		return *line.ActualPrice
	}
	return line.NetUnitPrice
}

// ComputeLine treats netRate as tax inclusive and extracts the tax component.
// No rounding is applied.
func ComputeLine(netRate, taxPercent float64, quantity int64) LineTotals {
	qty := float64(quantity)
	rate := taxPercent / 100
	return LineTotals{
		NetRate: netRate,
		GST:     (netRate / (1 + rate)) * rate * qty,
		Amount:  netRate * qty,
	}
}

// PriceLine builds the invoice-time item for line, linked to batch.
func PriceLine(rateType string, line LineRequest, batch *domain.Batch, expiry *domain.Date) domain.PurchaseItem {
	totals := ComputeLine(EffectiveRate(rateType, line), line.taxPercent(), line.quantity())

	item := domain.PurchaseItem{
		BatchNo:      line.Batch,
		Quantity:     line.quantity(),
		UnitPrice:    line.UnitPrice,
		NetUnitPrice: totals.NetRate,
		ActualPrice:  line.ActualPrice,
		TaxPercent:   line.taxPercent(),
		Expiry:       expiry,
		GSTAmount:    totals.GST,
		TotalAmount:  totals.Amount,
	}
	if batch != nil {
		id := batch.ID
		item.BatchID = &id
		item.MedicineID = batch.MedicineID
	}
	return item
}
