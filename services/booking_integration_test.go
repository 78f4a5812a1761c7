//go:build integration

package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/testutil"
	"gorm.io/gorm"
)

func TestConcurrentBookingPostgres(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewPostgresDB(t)
	math := testutil.CreateCourse(t, db, "Calculus I", "MATH151")
	tutor := testutil.CreateTutor(t, db, "tina", math)
	slot := testutil.CreateSlot(t, db, tutor, math, day("2024-03-15"), "A")

	const n = 8
	students := make([]models.Student, n)
	for i := range students {
		students[i] = testutil.CreateStudent(t, db, "student"+string(rune('a'+i)), math)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		booked    int
		conflicts int
	)
	for _, s := range students {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := BookSlot(ctx, db, BookInput{SlotID: slot.ID, StudentID: id, RequireEnrollment: true})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, ErrSlotUnavailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(s.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, booked)
	assert.Equal(t, n-1, conflicts)

	var stored models.Availability
	require.NoError(t, db.First(&stored, slot.ID).Error)
	assert.Equal(t, models.StatusBooked, stored.Status)
	require.NotNil(t, stored.BookedByID)
}

func TestDuplicateSlotPostgres(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewPostgresDB(t)
	math := testutil.CreateCourse(t, db, "Calculus I", "MATH151")
	tutor := testutil.CreateTutor(t, db, "tina", math)

	in := CreateSlotInput{TutorID: tutor.ID, Date: day("2024-03-15"), Timeblock: "B", CourseID: math.ID}
	_, err := CreateSlot(ctx, db, in)
	require.NoError(t, err)

	// Bypass the pre-check so the unique index itself is exercised.
	dup := models.Availability{TutorID: &tutor.ID, Date: in.Date, Timeblock: "B", CourseID: math.ID, Status: models.StatusAvailable}
	err = db.Create(&dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
