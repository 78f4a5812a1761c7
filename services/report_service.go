package services

import (
	"context"

	"github.com/tutorcenter/scheduler/models"
	"gorm.io/gorm"
)

type SessionRow struct {
	Date      string
	Timeblock string
	Tutor     string
	Course    string
	Student   string
	Status    string
	Semester  string
}

// SessionRows returns one row per slot, oldest first. An empty semester
// selects every slot.
func SessionRows(ctx context.Context, db *gorm.DB, semester string) ([]SessionRow, error) {
	q := withSlotRelations(db.WithContext(ctx))
	if semester != "" {
		q = q.Where("semester = ?", semester)
	}
	var slots []models.Availability
	if err := q.Order("date asc").Order("timeblock asc").Find(&slots).Error; err != nil {
		return nil, err
	}

	rows := make([]SessionRow, 0, len(slots))
	for _, s := range slots {
		row := SessionRow{
			Date:      s.Date.Format(models.DateLayout),
			Timeblock: models.TimeblockLabel(s.Timeblock),
			Course:    s.Course.Name,
			Status:    models.StatusLabel(s.Status),
			Semester:  s.Semester,
		}
		if s.Tutor != nil {
			row.Tutor = s.Tutor.User.FullName()
		}
		if s.BookedBy != nil {
			row.Student = s.BookedBy.User.FullName()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
