package record

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kailas-cloud/securephotos/internal/db"
	"github.com/kailas-cloud/securephotos/internal/domain"
	domrecord "github.com/kailas-cloud/securephotos/internal/domain/record"
)

// DefaultTable is the table processed records are written to.
const DefaultTable = "processed_data_dify"

// store is the consumer interface for the SQL backend (ISP).
type store interface {
	DB() *gorm.DB
}

// row is the table layout.
type row struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	Value1 int64 `gorm:"column:value1"`
	Value2 int64 `gorm:"column:value2"`
	Sum    int64 `gorm:"column:sum"`
}

// Repo implements usecase/ingest.RecordRepository.
type Repo struct {
	store store
	table string
}

// New creates a record repository writing to table (DefaultTable when empty).
func New(s store, table string) *Repo {
	if table == "" {
		table = DefaultTable
	}
	return &Repo{store: s, table: table}
}

// Upsert writes all records in one transaction. An existing id has its values and sum replaced.
// Returns the number of records written.
func (r *Repo) Upsert(ctx context.Context, records []domrecord.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows := make([]row, len(records))
	for i, rec := range records {
		rows[i] = row{ID: rec.ID, Value1: rec.Value1, Value2: rec.Value2, Sum: rec.Sum}
	}

	err := r.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Table(r.table).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"value1", "value2", "sum"}),
			}).
			Create(&rows).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrRecordStoreUnavailable, &db.Error{Op: db.OpUpsert, Err: err})
	}
	return len(records), nil
}
