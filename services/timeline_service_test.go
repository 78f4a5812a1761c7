package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorcenter/scheduler/testutil"
)

func TestTimelines(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	math := testutil.CreateCourse(t, db, "Calculus I", "MATH151")
	chem := testutil.CreateCourse(t, db, "Chemistry", "CHEM101")
	tina := testutil.CreateTutor(t, db, "tina", math, chem)
	sam := testutil.CreateStudent(t, db, "sam", math, chem)

	past := testutil.CreateSlot(t, db, tina, math, day("2024-04-01"), "A")
	now := testutil.CreateSlot(t, db, tina, chem, day("2024-04-10"), "B")
	next := testutil.CreateSlot(t, db, tina, math, day("2024-04-20"), "C")
	testutil.CreateSlot(t, db, tina, math, day("2024-04-21"), "C")
	for _, id := range []uint{past.ID, now.ID, next.ID} {
		_, err := BookSlot(ctx, db, BookInput{SlotID: id, StudentID: sam.ID})
		require.NoError(t, err)
	}

	today := day("2024-04-10")
	st, err := StudentTimeline(ctx, db, sam.ID, today)
	require.NoError(t, err)
	require.Len(t, st.Today, 1)
	assert.Equal(t, now.ID, st.Today[0].ID)
	require.Len(t, st.Upcoming, 1)
	assert.Equal(t, next.ID, st.Upcoming[0].ID)
	require.Len(t, st.Done, 1)
	assert.Equal(t, past.ID, st.Done[0].ID)

	tt, err := TutorTimeline(ctx, db, tina.ID, today)
	require.NoError(t, err)
	assert.Len(t, tt.Today, 1)
	assert.Len(t, tt.Upcoming, 2)
	assert.Len(t, tt.Done, 1)

	hist, err := StudentHistory(ctx, db, sam.ID, today)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
	hist, err = TutorHistory(ctx, db, tina.ID, today)
	require.NoError(t, err)
	assert.Len(t, hist, 1)

	stats, err := DashboardStats(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Students)
	assert.EqualValues(t, 1, stats.Tutors)
	assert.EqualValues(t, 4, stats.Sessions)
	assert.EqualValues(t, 2, stats.Courses)
	assert.Equal(t, []CourseSessions{
		{Course: "Calculus I", Sessions: 3},
		{Course: "Chemistry", Sessions: 1},
	}, stats.SessionsByCourse)

	rows, err := SessionRows(ctx, db, "")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "2024-04-01", rows[0].Date)
	assert.Equal(t, "Sam Test", rows[0].Student)
	assert.Equal(t, "Tina Test", rows[0].Tutor)
	assert.Equal(t, "Booked", rows[0].Status)
	assert.Equal(t, "", rows[3].Student)

	rows, err = SessionRows(ctx, db, "FALL")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
