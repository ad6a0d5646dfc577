package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type userRecord struct {
	Seq    uint   `gorm:"primaryKey;autoIncrement"`
	UserID string `gorm:"column:user_id;uniqueIndex;not null"`
	Name   string `gorm:"not null"`
}

func (userRecord) TableName() string {
	return "users"
}

// GormStore keeps users in a private in-memory SQLite database through gorm.
type GormStore struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewGormStore() (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access gorm connection pool: %w", err)
	}
	// A second connection would see a different :memory: database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate users schema: %w", err)
	}

	return &GormStore{db: db, sqlDB: sqlDB}, nil
}

func (s *GormStore) Close() error {
	return s.sqlDB.Close()
}

func (s *GormStore) CreateUser(ctx context.Context, user User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&userRecord{}).Where("user_id = ?", user.ID).Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing user: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateUserID
		}

		record := userRecord{UserID: user.ID, Name: user.Name}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (s *GormStore) ListUsers(ctx context.Context) ([]User, error) {
	var records []userRecord
	if err := s.db.WithContext(ctx).Order("seq ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	result := make([]User, 0, len(records))
	for _, record := range records {
		result = append(result, User{ID: record.UserID, Name: record.Name})
	}
	return result, nil
}

func (s *GormStore) DeleteUser(ctx context.Context, userID string) (bool, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userRecord{})
	if res.Error != nil {
		return false, fmt.Errorf("delete user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
