package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage is a fiber.Storage backed by the "session" table. Expired rows are
// invisible to Get and removed by a periodic sweep.
type Storage struct {
	db     *gorm.DB
	now    func() time.Time
	ticker *time.Ticker
	done   chan struct{}
}

// NewStorage returns a Storage on db. A positive gcInterval starts the
// background sweep of expired sessions; Close stops it.
func NewStorage(db *gorm.DB, gcInterval time.Duration) *Storage {
	s := &Storage{
		db:   db,
		now:  time.Now,
		done: make(chan struct{}),
	}
	if gcInterval > 0 {
		s.ticker = time.NewTicker(gcInterval)
		go s.gcLoop(s.ticker.C)
	}
	return s
}

func (s *Storage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	var row models.Session
	err := s.db.Where("sid = ? AND (expiry IS NULL OR expiry > ?)", key, s.now()).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.Data, nil
}

func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	row := models.Session{SID: key, Data: val}
	if exp > 0 {
		expiry := s.now().Add(exp)
		row.Expiry = &expiry
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sid"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expiry"}),
	}).Create(&row).Error
}

func (s *Storage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Where("sid = ?", key).Delete(&models.Session{}).Error
}

func (s *Storage) Reset() error {
	return s.db.Where("1 = 1").Delete(&models.Session{}).Error
}

func (s *Storage) Close() error {
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
		s.ticker = nil
	}
	return nil
}

func (s *Storage) gcLoop(tick <-chan time.Time) {
	for {
		select {
		case <-tick:
			s.gc()
		case <-s.done:
			return
		}
	}
}

func (s *Storage) gc() {
	result := s.db.Where("expiry IS NOT NULL AND expiry <= ?", s.now()).Delete(&models.Session{})
	if result.Error != nil {
		slog.Error("session cleanup failed", "error", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		slog.Info("expired sessions removed", "deleted", result.RowsAffected)
	}
}
