package jobs

import (
	"context"
	"errors"

	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/notifications"
	"github.com/tutorcenter/scheduler/services"
	"go.uber.org/zap"
)

// SendSessionReminders mails both parties of every session booked for
// today. One failed delivery does not stop the rest.
func SendSessionReminders(ctx context.Context) error {
	var slots []models.Availability
	err := database.DB.WithContext(ctx).
		Preload("Course").Preload("Tutor.User").Preload("BookedBy.User").
		Where("date = ? AND status = ?", services.Today(), models.StatusBooked).
		Order("timeblock asc").
		Find(&slots).Error
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		return nil
	}

	var errs []error
	for i := range slots {
		if err := notifications.SendSessionReminder(ctx, &slots[i]); err != nil {
			zap.S().Warnw("session reminder failed", "slot", slots[i].ID, "error", err)
			errs = append(errs, err)
		}
	}
	zap.S().Infow("session reminders sent", "sessions", len(slots), "failed", len(errs))
	return errors.Join(errs...)
}
