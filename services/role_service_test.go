package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/testutil"
)

func TestAssignRole(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	sam := testutil.CreateStudent(t, db, "sam")

	user, err := AssignRole(ctx, db, "sam", models.GroupTutor)
	require.NoError(t, err)
	require.Len(t, user.Groups, 1)
	assert.Equal(t, models.GroupTutor, user.Groups[0].Name)

	var tutor models.Tutor
	require.NoError(t, db.Where("user_id = ?", sam.UserID).First(&tutor).Error)
	require.NotNil(t, tutor.ProfilePicture)
	assert.Equal(t, models.DefaultTutorPicture, *tutor.ProfilePicture)

	// the previous role's profile stays behind
	var students int64
	require.NoError(t, db.Model(&models.Student{}).Where("user_id = ?", sam.UserID).Count(&students).Error)
	assert.EqualValues(t, 1, students)

	// assigning twice does not duplicate the profile
	_, err = AssignRole(ctx, db, "sam", models.GroupTutor)
	require.NoError(t, err)
	var tutors int64
	require.NoError(t, db.Model(&models.Tutor{}).Where("user_id = ?", sam.UserID).Count(&tutors).Error)
	assert.EqualValues(t, 1, tutors)

	fresh := testutil.CreateUser(t, db, "newbie", true)
	user, err = AssignRole(ctx, db, "newbie", models.GroupStudent)
	require.NoError(t, err)
	assert.True(t, user.InGroup(models.GroupStudent))
	assert.False(t, user.InGroup(models.GroupTutor))
	require.NoError(t, db.Model(&models.Student{}).Where("user_id = ?", fresh.ID).Count(&students).Error)
	assert.EqualValues(t, 1, students)
}

func TestAssignRoleErrors(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "sam", true)

	tests := []struct {
		name     string
		username string
		role     string
		wantErr  error
	}{
		{"unknown user", "ghost", models.GroupStudent, ErrUserNotFound},
		{"unknown role", "sam", "janitor", ErrUnknownRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AssignRole(ctx, db, tt.username, tt.role)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
