package domain

type Supplier struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	ContactNumber string `db:"contact_number" json:"contact_number"`
	Email         string `db:"email" json:"email"`
	Address       string `db:"address" json:"address"`
}

type Customer struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Address       string `db:"address" json:"address"`
	Email         string `db:"email" json:"email"`
	PhoneNumber   string `db:"phone_number" json:"phone_number"`
	GSTNumber     string `db:"gst_number" json:"gst_number"`
	LicenseNumber string `db:"license_number" json:"license_number"`
}
