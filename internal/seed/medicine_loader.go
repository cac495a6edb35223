package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// LoadMedicines ingests a name,sku,brand CSV into the medicines table. Rows are
// keyed by SKU; a SKU that already exists is skipped, so loading is repeatable.
func LoadMedicines(db *sqlx.DB, csvPath string, log *zap.Logger) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open medicine catalog %s: %w", csvPath, err)
	}
	defer file.Close()
	return loadMedicines(db, file, log)
}

func loadMedicines(db *sqlx.DB, src io.Reader, log *zap.Logger) (int, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("read medicine header: %w", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("start medicine transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO medicines (name, sku, brand)
                SELECT $1, $2, $3
                WHERE NOT EXISTS (SELECT 1 FROM medicines WHERE sku = $2)`)
	if err != nil {
		return 0, fmt.Errorf("prepare medicine insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("unable to read medicine row", zap.Error(err))
			continue
		}
		if len(record) < 3 {
			continue
		}
		name := strings.TrimSpace(record[0])
		sku := strings.TrimSpace(record[1])
		brand := strings.TrimSpace(record[2])
		if name == "" || sku == "" {
			continue
		}

		res, err := stmt.Exec(name, sku, nullIfEmpty(brand))
		if err != nil {
			return 0, fmt.Errorf("insert medicine %s: %w", name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit medicine seed: %w", err)
	}
	log.Info("seeded medicine catalog", zap.Int("rows", rows))
	return rows, nil
}

func nullIfEmpty(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}
