package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentRow struct {
	Collection string `gorm:"column:collection;primaryKey;size:64;not null"`
	DocID      string `gorm:"column:doc_id;primaryKey;size:190;not null"`
	DataJSON   string `gorm:"column:data_json;type:text;not null"`
}

// TableName provides the explicit table binding for GORM.
func (documentRow) TableName() string {
	return "documents"
}

// SQLiteStore keeps documents as JSON rows in a local SQLite file. It backs
// local development runs where no Firestore project is available; filters and
// ordering are pushed into SQL via json_extract.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite establishes a SQLite connection and performs schema migration.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("sqlite store initialized", zap.String("path", path))
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRow(row)
}

func (s *SQLiteStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	row := documentRow{Collection: collection, DocID: id, DataJSON: string(encoded)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

func (s *SQLiteStore) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow
		err := tx.Where("collection = ? AND doc_id = ?", collection, id).Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		data, err := decodeRow(row)
		if err != nil {
			return err
		}
		for field, value := range fields {
			data[field] = value
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		return tx.Model(&documentRow{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Update("data_json", string(encoded)).Error
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&documentRow{}).Error
}

func (s *SQLiteStore) Query(ctx context.Context, collection string, query Query) ([]Document, error) {
	tx := s.db.WithContext(ctx).Where("collection = ?", collection)
	for _, filter := range query.Filters {
		tx = tx.Where(fmt.Sprintf("json_extract(data_json, '$.%s') = ?", filter.Field), filter.Value)
	}
	if query.OrderBy != "" {
		direction := "ASC"
		if query.Direction == Descending {
			direction = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("json_extract(data_json, '$.%s') %s", query.OrderBy, direction))
	}

	var rows []documentRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	documents := make([]Document, 0, len(rows))
	for _, row := range rows {
		data, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		documents = append(documents, Document{ID: row.DocID, Data: data})
	}
	return documents, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func decodeRow(row documentRow) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(row.DataJSON), &data); err != nil {
		return nil, fmt.Errorf("store: corrupt document %s/%s: %w", row.Collection, row.DocID, err)
	}
	return data, nil
}
