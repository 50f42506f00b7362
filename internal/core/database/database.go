package database

import (
	"database/sql"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// OpenGorm wraps an already established *sql.DB in a GORM session. Pooling
// stays on the underlying connection; GORM only adds the ORM layer.
func OpenGorm(sqlDB *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return db, nil
}

// TxManager runs a function inside a single database transaction. The domain
// services declare their own narrow interface for it; this is the one
// implementation behind all of them.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) InTransaction(fn func(tx *gorm.DB) error) error {
	return m.db.Transaction(fn)
}
