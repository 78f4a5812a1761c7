package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/testutil"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	math := testutil.CreateCourse(t, db, "Calculus I", "MATH151")

	admin := testutil.CreateAdmin(t, db, "root")
	sam := testutil.CreateStudent(t, db, "sam", math)
	tina := testutil.CreateTutor(t, db, "tina", math)
	plain := testutil.CreateUser(t, db, "plain", true)

	// a student promoted to tutor keeps the old profile but resolves by group
	promoted := testutil.CreateStudent(t, db, "promo")
	require.NoError(t, db.Create(&models.Tutor{UserID: promoted.UserID}).Error)
	var tutorGroup models.Group
	require.NoError(t, db.Where("name = ?", models.GroupTutor).First(&tutorGroup).Error)
	require.NoError(t, db.Model(&promoted.User).Association("Groups").Replace(&tutorGroup))

	// no group, profile only
	orphan := testutil.CreateUser(t, db, "orphan", true)
	require.NoError(t, db.Create(&models.Tutor{UserID: orphan.ID}).Error)

	tests := []struct {
		name   string
		userID uint
		want   Role
	}{
		{"superuser", admin.ID, RoleAdmin},
		{"student group", sam.UserID, RoleStudent},
		{"tutor group", tina.UserID, RoleTutor},
		{"group beats profile order", promoted.UserID, RoleTutor},
		{"profile without group", orphan.ID, RoleTutor},
		{"no profile", plain.ID, RoleGuest},
		{"unknown user", 9999, RoleGuest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(ctx, db, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Role, p.Role.String())
			switch tt.want {
			case RoleStudent:
				require.NotNil(t, p.Student)
				assert.Nil(t, p.Tutor)
			case RoleTutor:
				require.NotNil(t, p.Tutor)
				assert.Nil(t, p.Student)
			default:
				assert.Nil(t, p.Student)
				assert.Nil(t, p.Tutor)
			}
		})
	}

	p, err := Resolve(ctx, db, sam.UserID)
	require.NoError(t, err)
	require.Len(t, p.Student.Courses, 1)
	assert.Equal(t, "MATH151", p.Student.Courses[0].Code)
}
