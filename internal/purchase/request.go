package purchase

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"medibill/m/domain"
)

// CreateRequest is an inbound purchase document.
type CreateRequest struct {
	PurchaseDate  *domain.Date  `json:"purchase_date" validate:"required"`
	InvoiceNumber string        `json:"invoice_number"`
	DistributorID int64         `json:"distributor_id" validate:"required,gt=0"`
	PurchaseType  string        `json:"purchase_type"`
	PaymentType   string        `json:"payment_type"`
	RateType      string        `json:"rate_type"`
	TaxType       string        `json:"tax_type"`
	Medicines     []LineRequest `json:"medicines" validate:"required,min=1,dive"`
}

// LineRequest is one medicine line of a purchase document. Either MedicineID
// or MedicineName identifies the medicine. Expiry is DDMMYYYY.
type LineRequest struct {
	MedicineID   *int64         `json:"medicine_id" validate:"omitempty,gt=0"`
	MedicineName string         `json:"medicine_name"`
	Batch        string         `json:"batch" validate:"required"`
	Qty          *int64         `json:"qty"`
	MRP          OptionalAmount `json:"mrp"`
	UnitPrice    float64        `json:"unit_price"`
	NetUnitPrice float64        `json:"net_unit_price"`
	Tax          *float64       `json:"tax"`
	ActualPrice  *float64       `json:"actual_price"`
	Expiry       *string        `json:"expiry"`
}

func (l LineRequest) quantity() int64 {
	if l.Qty == nil {
		return 0
	}
	return *l.Qty
}

func (l LineRequest) taxPercent() float64 {
	if l.Tax == nil {
		return 0
	}
	return *l.Tax
}

// OptionalAmount is a money field that clients send either as a JSON number or
// as a string. null, "" and whitespace leave it unset.
type OptionalAmount struct {
	Value float64
	Valid bool
}

func NewAmount(v float64) OptionalAmount {
	return OptionalAmount{Value: v, Valid: true}
}

// Ptr returns nil when the amount is unset.
func (a OptionalAmount) Ptr() *float64 {
	if !a.Valid {
		return nil
	}
	v := a.Value
	return &v
}

func (a *OptionalAmount) UnmarshalJSON(data []byte) error {
	*a = OptionalAmount{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return domain.InvalidInput("invalid amount %s", data)
	}
	*a = OptionalAmount{Value: v, Valid: true}
	return nil
}

func (a OptionalAmount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}
