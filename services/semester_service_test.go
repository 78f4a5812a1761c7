package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorcenter/scheduler/testutil"
)

func TestAddSemester(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)

	sem, err := AddSemester(ctx, db, "FALL", day("2024-09-01"), day("2024-12-20"))
	require.NoError(t, err)
	assert.False(t, sem.CurrentSemester)

	tests := []struct {
		name       string
		semester   string
		start, end string
		wantErr    error
	}{
		{"end before start", "SPRING", "2025-04-30", "2025-01-10", ErrInvalidSemesterDates},
		{"same day", "SPRING", "2025-01-10", "2025-01-10", ErrInvalidSemesterDates},
		{"duplicate name", "FALL", "2025-09-01", "2025-12-20", ErrDuplicateSemester},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddSemester(ctx, db, tt.semester, day(tt.start), day(tt.end))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	sems, err := ListSemesters(ctx, db)
	require.NoError(t, err)
	assert.Len(t, sems, 1)
}

func TestRefreshCurrentSemester(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	_, err := AddSemester(ctx, db, "SPRING", day("2024-01-08"), day("2024-04-30"))
	require.NoError(t, err)
	_, err = AddSemester(ctx, db, "FALL", day("2024-09-01"), day("2024-12-20"))
	require.NoError(t, err)

	cur, err := RefreshCurrentSemester(ctx, db, day("2024-03-15"))
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "SPRING", cur.Name)

	cur, err = RefreshCurrentSemester(ctx, db, day("2024-10-01"))
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "FALL", cur.Name)

	sems, err := ListSemesters(ctx, db)
	require.NoError(t, err)
	flagged := map[string]bool{}
	for _, s := range sems {
		flagged[s.Name] = s.CurrentSemester
	}
	assert.Equal(t, map[string]bool{"SPRING": false, "FALL": true}, flagged)

	cur, err = RefreshCurrentSemester(ctx, db, day("2024-07-01"))
	require.NoError(t, err)
	assert.Nil(t, cur)
	sems, err = ListSemesters(ctx, db)
	require.NoError(t, err)
	for _, s := range sems {
		assert.False(t, s.CurrentSemester, s.Name)
	}
}
