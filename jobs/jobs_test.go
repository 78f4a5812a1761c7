package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/metrics"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/notifications"
	"github.com/tutorcenter/scheduler/services"
	dbtest "github.com/tutorcenter/scheduler/testutil"
)

func setup(t *testing.T, today string) *notifications.ConsoleService {
	t.Helper()
	database.DB = dbtest.NewDB(t)

	d, err := time.Parse(models.DateLayout, today)
	require.NoError(t, err)
	now := time.Date(d.Year(), d.Month(), d.Day(), 7, 0, 0, 0, time.Local)
	services.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { services.NowFunc = time.Now })

	outbox := notifications.NewConsoleService("")
	prev := notifications.EmailClient
	notifications.EmailClient = outbox
	t.Cleanup(func() { notifications.EmailClient = prev })
	return outbox
}

func TestSendSessionReminders(t *testing.T) {
	outbox := setup(t, "2024-03-15")
	db := database.DB
	math := dbtest.CreateCourse(t, db, "Calculus I", "MATH151")
	tina := dbtest.CreateTutor(t, db, "tina", math)
	sam := dbtest.CreateStudent(t, db, "sam", math)

	today := dbtest.CreateSlot(t, db, tina, math, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "A")
	dbtest.CreateSlot(t, db, tina, math, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "B")
	tomorrow := dbtest.CreateSlot(t, db, tina, math, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), "A")
	for _, id := range []uint{today.ID, tomorrow.ID} {
		_, err := services.BookSlot(context.Background(), db, services.BookInput{SlotID: id, StudentID: sam.ID})
		require.NoError(t, err)
	}

	require.NoError(t, SendSessionReminders(context.Background()))

	sent := outbox.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "sam@example.edu", sent[0].ToEmail)
	assert.Equal(t, "tina@example.edu", sent[1].ToEmail)
	assert.Equal(t, "Session Reminder", sent[0].Subject)
}

func TestRefreshSemester(t *testing.T) {
	setup(t, "2024-10-01")
	ctx := context.Background()
	_, err := services.AddSemester(ctx, database.DB, "FALL",
		time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, RefreshSemester(ctx))

	var sem models.SemesterDates
	require.NoError(t, database.DB.First(&sem, "name = ?", "FALL").Error)
	assert.True(t, sem.CurrentSemester)
}

func TestRunRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	runs := testutil.ToFloat64(metrics.JobRuns.WithLabelValues("test_job"))
	errs := testutil.ToFloat64(metrics.JobErrors.WithLabelValues("test_job"))

	Run(ctx, "test_job", func(context.Context) error { return nil })()
	Run(ctx, "test_job", func(context.Context) error { return errors.New("boom") })()
	Run(ctx, "test_job", func(context.Context) error { panic("kaboom") })()

	assert.Equal(t, runs+3, testutil.ToFloat64(metrics.JobRuns.WithLabelValues("test_job")))
	assert.Equal(t, errs+2, testutil.ToFloat64(metrics.JobErrors.WithLabelValues("test_job")))
}

func TestSchedule(t *testing.T) {
	c := cron.New()
	require.NoError(t, Schedule(context.Background(), c))
	assert.Len(t, c.Entries(), 2)
}
