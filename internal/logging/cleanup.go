package logging

import (
	"log/slog"
	"time"

	"github.com/civiclens/civic-lens-backend/internal/models"
	"gorm.io/gorm"
)

const (
	// system_logs rows older than this are deleted.
	logRetention = 30 * 24 * time.Hour
	cleanupEvery = 24 * time.Hour
)

// StartCleanup prunes system_logs rows older than logRetention on every
// cleanupEvery tick until done is closed.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(cleanupEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().Add(-logRetention)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
				if result.Error != nil {
					slog.Error("log cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("log cleanup completed", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
