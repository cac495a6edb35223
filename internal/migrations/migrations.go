package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema for the dialect of db.
func Run(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == "postgres" {
		schema = postgresSchema
	}
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS medicines (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            sku TEXT,
            brand TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS batches (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            medicine_id INTEGER NOT NULL,
            batch_no TEXT NOT NULL,
            on_bill INTEGER NOT NULL DEFAULT 0,
            quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
            purchase_rate REAL,
            mrp REAL,
            gst_percent REAL,
            expiry_date TEXT,
            FOREIGN KEY(medicine_id) REFERENCES medicines(id) ON DELETE CASCADE
        );`,
	`CREATE UNIQUE INDEX IF NOT EXISTS batches_medicine_batch_on_bill ON batches (medicine_id, batch_no, on_bill);`,
	`CREATE TABLE IF NOT EXISTS suppliers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            contact_number TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS customers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            phone_number TEXT NOT NULL DEFAULT '',
            gst_number TEXT NOT NULL DEFAULT '',
            license_number TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS purchases (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            invoice_no TEXT NOT NULL DEFAULT '',
            purchase_date TEXT NOT NULL,
            supplier_id INTEGER NOT NULL,
            purchase_type TEXT NOT NULL DEFAULT '',
            payment_type TEXT NOT NULL DEFAULT '',
            rate_type TEXT NOT NULL DEFAULT '',
            tax_type TEXT NOT NULL DEFAULT '',
            total_amount REAL NOT NULL DEFAULT 0,
            total_gst REAL NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(supplier_id) REFERENCES suppliers(id)
        );`,
	`CREATE TABLE IF NOT EXISTS purchase_items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            purchase_id INTEGER NOT NULL,
            medicine_id INTEGER NOT NULL,
            batch_id INTEGER,
            batch_no TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            unit_price REAL NOT NULL DEFAULT 0,
            net_unit_price REAL NOT NULL DEFAULT 0,
            actual_price REAL,
            tax_percent REAL NOT NULL DEFAULT 0,
            expiry TEXT,
            gst_amount REAL NOT NULL DEFAULT 0,
            total_amount REAL NOT NULL DEFAULT 0,
            FOREIGN KEY(purchase_id) REFERENCES purchases(id) ON DELETE CASCADE,
            FOREIGN KEY(medicine_id) REFERENCES medicines(id),
            FOREIGN KEY(batch_id) REFERENCES batches(id)
        );`,
	`CREATE INDEX IF NOT EXISTS purchase_items_batch ON purchase_items (batch_id);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS medicines (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            sku TEXT,
            brand TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS batches (
            id SERIAL PRIMARY KEY,
            medicine_id INTEGER NOT NULL REFERENCES medicines(id) ON DELETE CASCADE,
            batch_no TEXT NOT NULL,
            on_bill BOOLEAN NOT NULL DEFAULT FALSE,
            quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
            purchase_rate DOUBLE PRECISION,
            mrp DOUBLE PRECISION,
            gst_percent DOUBLE PRECISION,
            expiry_date DATE
        );`,
	`CREATE UNIQUE INDEX IF NOT EXISTS batches_medicine_batch_on_bill ON batches (medicine_id, batch_no, on_bill);`,
	`CREATE TABLE IF NOT EXISTS suppliers (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            contact_number TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS customers (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            phone_number TEXT NOT NULL DEFAULT '',
            gst_number TEXT NOT NULL DEFAULT '',
            license_number TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS purchases (
            id SERIAL PRIMARY KEY,
            invoice_no TEXT NOT NULL DEFAULT '',
            purchase_date DATE NOT NULL,
            supplier_id INTEGER NOT NULL REFERENCES suppliers(id),
            purchase_type TEXT NOT NULL DEFAULT '',
            payment_type TEXT NOT NULL DEFAULT '',
            rate_type TEXT NOT NULL DEFAULT '',
            tax_type TEXT NOT NULL DEFAULT '',
            total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_gst DOUBLE PRECISION NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
	`CREATE TABLE IF NOT EXISTS purchase_items (
            id SERIAL PRIMARY KEY,
            purchase_id INTEGER NOT NULL REFERENCES purchases(id) ON DELETE CASCADE,
            medicine_id INTEGER NOT NULL REFERENCES medicines(id),
            batch_id INTEGER REFERENCES batches(id),
            batch_no TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
            net_unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
            actual_price DOUBLE PRECISION,
            tax_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
            expiry DATE,
            gst_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_amount DOUBLE PRECISION NOT NULL DEFAULT 0
        );`,
	`CREATE INDEX IF NOT EXISTS purchase_items_batch ON purchase_items (batch_id);`,
}
