package jobs

import (
	"context"

	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/services"
	"go.uber.org/zap"
)

func RefreshSemester(ctx context.Context) error {
	cur, err := services.RefreshCurrentSemester(ctx, database.DB, services.Today())
	if err != nil {
		return err
	}
	if cur == nil {
		zap.S().Info("no semester covers today")
		return nil
	}
	zap.S().Infow("current semester refreshed", "semester", cur.Name)
	return nil
}
