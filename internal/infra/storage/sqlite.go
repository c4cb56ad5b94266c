package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"ltcpay/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists completed verification records. Sessions are never
// persisted; this is an audit trail, not session state.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a SQLite storage instance at the OS config path.
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	return NewStorageAt(dbPath)
}

// NewStorageAt opens (or creates) the database at an explicit path.
func NewStorageAt(dbPath string) (*Storage, error) {
	// Pure Go SQLite
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.VerificationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "ltcpay", "data", "ltcpay.db"), nil
}

// SaveVerification appends a completed verification to the audit trail.
func (s *Storage) SaveVerification(rec *domain.VerificationRecord) error {
	return s.db.Create(rec).Error
}

// FindByTxID returns all verifications recorded for a transaction id.
// The same txid can legitimately appear more than once (resubmission
// against a new session).
func (s *Storage) FindByTxID(txid string) ([]domain.VerificationRecord, error) {
	var recs []domain.VerificationRecord
	err := s.db.Where("tx_id = ?", txid).Order("created_at").Find(&recs).Error
	return recs, err
}

// FindBySessionID returns the verification recorded for a session, if any.
func (s *Storage) FindBySessionID(sessionID string) (*domain.VerificationRecord, error) {
	var rec domain.VerificationRecord
	err := s.db.First(&rec, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &rec, err
}

// Recent returns the most recent verifications, newest first.
func (s *Storage) Recent(limit int) ([]domain.VerificationRecord, error) {
	var recs []domain.VerificationRecord
	err := s.db.Order("created_at DESC").Limit(limit).Find(&recs).Error
	return recs, err
}
