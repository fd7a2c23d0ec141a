package storage

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// KeyValue is one persisted key.
type KeyValue struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name stable across struct renames.
func (KeyValue) TableName() string { return "key_values" }

// SQLiteStore keeps keys in a SQLite table through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at path and migrates it.
func OpenSQLite(path string, log logrus.FieldLogger) (*SQLiteStore, error) {
	gormLog := logger.Default.LogMode(logger.Silent)
	if log != nil {
		gormLog = logger.New(log, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(sqlite.Open(buildDSN(path)), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&KeyValue{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func buildDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return path + "?" + q.Encode()
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", false, err
	}

	var kv KeyValue
	if err := s.db.First(&kv, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return kv.Value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	return s.db.Save(&KeyValue{Key: key, Value: value}).Error
}

func (s *SQLiteStore) Delete(key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	return s.db.Where("key = ?", key).Delete(&KeyValue{}).Error
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
