package services

import (
	"time"

	config "github.com/tutorcenter/scheduler/configs"
	"github.com/tutorcenter/scheduler/models"
)

var NowFunc = time.Now // mockable

// Today is the current calendar date in the center's time zone.
func Today() time.Time {
	loc := config.Settings.Location
	if loc == nil {
		loc = time.Local
	}
	return models.DateOf(NowFunc().In(loc))
}
