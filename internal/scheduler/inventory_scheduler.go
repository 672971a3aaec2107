package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/tuffwear/tuff-backend/internal/app/service"
	"github.com/tuffwear/tuff-backend/pkg/logger"
)

// InventoryScheduler runs the periodic low-stock sweep.
type InventoryScheduler struct {
	cron             *cron.Cron
	inventoryService service.InventoryService
}

func NewInventoryScheduler(inventoryService service.InventoryService) *InventoryScheduler {
	return &InventoryScheduler{
		cron:             cron.New(),
		inventoryService: inventoryService,
	}
}

// Start schedules the hourly sweep and runs one immediately so alerts are
// current from boot.
func (s *InventoryScheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		logger.Info("Starting scheduled inventory sweep", nil)

		if err := s.inventoryService.Sweep(); err != nil {
			logger.Error("Scheduled inventory sweep failed", err)
			return
		}
	})
	if err != nil {
		logger.Error("Failed to register inventory sweep job", err)
		return err
	}

	go func() {
		if err := s.inventoryService.Sweep(); err != nil {
			logger.Error("Initial inventory sweep failed", err)
		}
	}()

	s.cron.Start()
	logger.Info("Inventory scheduler started (hourly)", nil)
	return nil
}

func (s *InventoryScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Inventory scheduler stopped", nil)
}
