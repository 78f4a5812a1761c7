package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, time.Now().UnixNano())

	db, err := database.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string, active bool) models.User {
	t.Helper()
	u := models.User{
		Username:  username,
		Email:     username + "@example.edu",
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Test",
		IsActive:  active,
	}
	if err := u.SetPassword("pass-" + username); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func CreateAdmin(t testing.TB, db *gorm.DB, username string) models.User {
	t.Helper()
	u := CreateUser(t, db, username, true)
	if err := db.Model(&u).Update("is_superuser", true).Error; err != nil {
		t.Fatalf("promote admin: %v", err)
	}
	u.IsSuperuser = true
	return u
}

func addGroup(t testing.TB, db *gorm.DB, u *models.User, name string) {
	t.Helper()
	var g models.Group
	if err := db.Where("name = ?", name).First(&g).Error; err != nil {
		t.Fatalf("load group %s: %v", name, err)
	}
	if err := db.Model(u).Association("Groups").Append(&g); err != nil {
		t.Fatalf("add group %s: %v", name, err)
	}
}

func CreateCourse(t testing.TB, db *gorm.DB, name, code string) models.Course {
	t.Helper()
	c := models.Course{Name: name, Code: code}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create course %s: %v", code, err)
	}
	return c
}

func CreateStudent(t testing.TB, db *gorm.DB, username string, courses ...models.Course) models.Student {
	t.Helper()
	u := CreateUser(t, db, username, true)
	addGroup(t, db, &u, models.GroupStudent)
	s := models.Student{UserID: u.ID, Courses: courses}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create student %s: %v", username, err)
	}
	s.User = u
	return s
}

func CreateTutor(t testing.TB, db *gorm.DB, username string, courses ...models.Course) models.Tutor {
	t.Helper()
	u := CreateUser(t, db, username, true)
	addGroup(t, db, &u, models.GroupTutor)
	tu := models.Tutor{UserID: u.ID, Courses: courses}
	if err := db.Create(&tu).Error; err != nil {
		t.Fatalf("create tutor %s: %v", username, err)
	}
	tu.User = u
	return tu
}

func CreateSlot(t testing.TB, db *gorm.DB, tutor models.Tutor, course models.Course, date time.Time, block string) models.Availability {
	t.Helper()
	a := models.Availability{
		TutorID:   &tutor.ID,
		Date:      date,
		Timeblock: block,
		CourseID:  course.ID,
		Status:    models.StatusAvailable,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create slot: %v", err)
	}
	return a
}
