package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"options-trader/models"
)

// LocalStorage implements the StrategyStore and HoldingStore interfaces
// using SQLite
type LocalStorage struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewLocalStorage creates a new local storage service
func NewLocalStorage(dbPath string) (*LocalStorage, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-migrate schemas
	if err := db.AutoMigrate(
		&models.Strategy{},
		&models.Leg{},
		&models.Holding{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &LocalStorage{
		db:     db,
		logger: logger,
	}, nil
}

// SaveStrategyWithLegs persists a strategy and all its legs in one
// transaction. A strategy row is never visible without its leg rows.
func (s *LocalStorage) SaveStrategyWithLegs(strategy *models.Strategy) (*models.Strategy, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(strategy).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save strategy: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"strategy_id": strategy.ID,
		"ticker":      strategy.Ticker,
		"legs":        len(strategy.Legs),
	}).Info("Strategy saved")

	return strategy, nil
}

// FindOpenStrategies returns a user's OPEN strategies with legs preloaded
// in insertion order
func (s *LocalStorage) FindOpenStrategies(userID string) ([]models.Strategy, error) {
	var strategies []models.Strategy

	result := s.db.Where("user_id = ? AND status = ?", userID, models.StatusOpen).
		Preload("Legs", func(db *gorm.DB) *gorm.DB {
			return db.Order("legs.id ASC")
		}).
		Order("opened_at ASC").
		Find(&strategies)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to get strategies: %w", result.Error)
	}

	return strategies, nil
}

// CloseStrategy performs the OPEN -> CLOSED transition. Legs are untouched
// and a missing or already-closed strategy is an error.
func (s *LocalStorage) CloseStrategy(id uint) error {
	result := s.db.Model(&models.Strategy{}).
		Where("id = ? AND status = ?", id, models.StatusOpen).
		Update("status", models.StatusClosed)

	if result.Error != nil {
		return fmt.Errorf("failed to close strategy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no open strategy with id %d", id)
	}

	return nil
}

// SaveHolding saves a legacy holding
func (s *LocalStorage) SaveHolding(holding *models.Holding) (*models.Holding, error) {
	result := s.db.Create(holding)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save holding: %w", result.Error)
	}

	return holding, nil
}

// GetHoldings retrieves all holdings for a user
func (s *LocalStorage) GetHoldings(userID string) ([]models.Holding, error) {
	var holdings []models.Holding

	result := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&holdings)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", result.Error)
	}

	return holdings, nil
}

// GetHoldingByID retrieves a holding by id
func (s *LocalStorage) GetHoldingByID(id uint) (*models.Holding, error) {
	var holding models.Holding

	result := s.db.First(&holding, id)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get holding: %w", result.Error)
	}

	return &holding, nil
}

// RemoveHolding deletes a holding by id
func (s *LocalStorage) RemoveHolding(id uint) error {
	result := s.db.Delete(&models.Holding{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete holding: %w", result.Error)
	}
	return nil
}

// RemoveHoldingsByTicker deletes every holding a user has for a ticker and
// returns the number of rows removed
func (s *LocalStorage) RemoveHoldingsByTicker(userID, ticker string) (int64, error) {
	result := s.db.Where("user_id = ? AND ticker = ?", userID, ticker).Delete(&models.Holding{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete holdings: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Close closes the database connection
func (s *LocalStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
