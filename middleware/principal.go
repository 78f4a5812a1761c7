package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/models"
	"gorm.io/gorm"
)

type Role int

const (
	RoleGuest Role = iota
	RoleStudent
	RoleTutor
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleTutor:
		return "tutor"
	case RoleAdmin:
		return "admin"
	default:
		return "guest"
	}
}

// Principal is the resolved identity of a request. Exactly one of Student
// and Tutor is set for those roles; both are nil for Admin and Guest.
type Principal struct {
	Role    Role
	User    *models.User
	Student *models.Student
	Tutor   *models.Tutor
}

var guest = &Principal{Role: RoleGuest}

const principalKey = "principal"

// ResolvePrincipal turns the verified JWT into a Principal once per request.
func ResolvePrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := tokenUserID(c)
		if !ok {
			c.Locals(principalKey, guest)
			return c.Next()
		}
		p, err := Resolve(c.UserContext(), database.DB, userID)
		if err != nil {
			return err
		}
		if p.User == nil || !p.User.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error", "message": "Invalid or expired JWT", "data": nil,
			})
		}
		c.Locals(principalKey, p)
		return c.Next()
	}
}

func CurrentPrincipal(c *fiber.Ctx) *Principal {
	if p, ok := c.Locals(principalKey).(*Principal); ok {
		return p
	}
	return guest
}

func tokenUserID(c *fiber.Ctx) (uint, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	return ClaimsUserID(claims)
}

func ClaimsUserID(claims jwt.MapClaims) (uint, bool) {
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// Resolve loads a user and decides its role: superusers are admins, then
// group membership wins, then whichever profile record exists.
func Resolve(ctx context.Context, db *gorm.DB, userID uint) (*Principal, error) {
	db = db.WithContext(ctx)
	var user models.User
	if err := db.Preload("Groups").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Principal{Role: RoleGuest}, nil
		}
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	p := &Principal{User: &user}

	if user.IsSuperuser {
		p.Role = RoleAdmin
		return p, nil
	}

	student, err := loadStudent(db, user.ID)
	if err != nil {
		return nil, err
	}
	tutor, err := loadTutor(db, user.ID)
	if err != nil {
		return nil, err
	}

	switch {
	case user.InGroup(models.GroupTutor) && tutor != nil:
		p.Role, p.Tutor = RoleTutor, tutor
	case user.InGroup(models.GroupStudent) && student != nil:
		p.Role, p.Student = RoleStudent, student
	case student != nil:
		p.Role, p.Student = RoleStudent, student
	case tutor != nil:
		p.Role, p.Tutor = RoleTutor, tutor
	default:
		p.Role = RoleGuest
	}
	return p, nil
}

func loadStudent(db *gorm.DB, userID uint) (*models.Student, error) {
	var s models.Student
	err := db.Preload("User").Preload("Courses").Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load student for user %d: %w", userID, err)
	}
	return &s, nil
}

func loadTutor(db *gorm.DB, userID uint) (*models.Tutor, error) {
	var t models.Tutor
	err := db.Preload("User").Preload("Courses").Where("user_id = ?", userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load tutor for user %d: %w", userID, err)
	}
	return &t, nil
}
