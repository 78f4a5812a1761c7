package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/tutorcenter/scheduler/configs"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/middleware"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/notifications"
	"github.com/tutorcenter/scheduler/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenTTL = 72 * time.Hour

type SignupRequest struct {
	Username  string `json:"username" form:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=150"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password1 string `json:"password1" form:"password1" validate:"required,min=8"`
	Password2 string `json:"password2" form:"password2" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type SetPasswordRequest struct {
	Password1 string `json:"password1" form:"password1" validate:"required,min=8"`
	Password2 string `json:"password2" form:"password2" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword  string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword1 string `json:"new_password1" form:"new_password1" validate:"required,min=8"`
	NewPassword2 string `json:"new_password2" form:"new_password2" validate:"required"`
}

func tokenGenerator() *utils.TokenGenerator {
	return utils.NewTokenGenerator(config.Settings.SecretKey, config.Settings.PasswordResetTimeout)
}

// accountLink builds an absolute link to an account route for e-mails.
func accountLink(c *fiber.Ctx, path string) string {
	base := config.Settings.FrontendBaseURL
	if base == "" {
		base = c.BaseURL() + "/api/v1"
	}
	return base + path
}

func Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if req.Password1 != req.Password2 {
		return errorMessage(c, fiber.StatusBadRequest, "Passwords dont match")
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  false,
	}
	if err := user.SetPassword(req.Password1); err != nil {
		return err
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		var group models.Group
		if err := tx.Where("name = ?", models.GroupStudent).First(&group).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Association("Groups").Append(&group); err != nil {
			return err
		}
		return tx.Create(&models.Student{UserID: user.ID}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errorMessage(c, fiber.StatusConflict, "A user with that username already exists.")
		}
		return err
	}

	token, err := tokenGenerator().MakeToken(user)
	if err != nil {
		return err
	}
	link := accountLink(c, "/auth/activate/"+utils.EncodeUID(user.ID)+"/"+token)
	if err := notifications.SendActivationEmail(c.UserContext(), &user, link); err != nil {
		return err
	}

	zap.S().Infow("user signed up", "user", user.ID, "username", user.Username)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Please confirm your email address to complete the registration.",
		"user":    user,
	})
}

// userFromLink resolves the user addressed by an activation or reset link.
// Any malformed part yields nil.
func userFromLink(c *fiber.Ctx) (*models.User, error) {
	id, err := utils.DecodeUID(c.Params("uidb64"))
	if err != nil {
		return nil, nil
	}
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if tokenGenerator().CheckToken(user, c.Params("token")) != nil {
		return nil, nil
	}
	return &user, nil
}

func Activate(c *fiber.Ctx) error {
	user, err := userFromLink(c)
	if err != nil {
		return err
	}
	if user == nil {
		return errorMessage(c, fiber.StatusBadRequest, "The activation link is invalid or has expired.")
	}
	if err := database.DB.Model(user).UpdateColumn("is_active", true).Error; err != nil {
		return err
	}
	return message(c, fiber.StatusOK, "Your account has been activated successfully.")
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorMessage(c, fiber.StatusUnauthorized, "Username or password invalid")
		}
		return err
	}
	if !user.CheckPassword(req.Password) || !user.IsActive {
		return errorMessage(c, fiber.StatusUnauthorized, "Username or password invalid")
	}

	p, err := middleware.Resolve(c.UserContext(), database.DB, user.ID)
	if err != nil {
		return err
	}
	t, exp, err := issueToken(&user, p.Role)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := database.DB.Model(&user).UpdateColumn("last_login", now).Error; err != nil {
		return err
	}
	setTokenCookie(c, t, exp)
	return c.JSON(fiber.Map{"token": t, "role": p.Role.String()})
}

func issueToken(user *models.User, role middleware.Role) (string, time.Time, error) {
	exp := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    role.String(),
		"exp":     exp.Unix(),
	}
	t, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Settings.JWTSecret))
	return t, exp, err
}

func setTokenCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		Secure:   config.Settings.Env == "prod",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return message(c, fiber.StatusOK, "Logged out")
}

func ForgotPassword(c *fiber.Ctx) error {
	type Request struct {
		Email string `json:"email" form:"email" validate:"required,email"`
	}
	var req Request
	if ok, err := bind(c, &req); !ok {
		return err
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorMessage(c, fiber.StatusNotFound, "No user found with the given email address")
		}
		return err
	}

	token, err := tokenGenerator().MakeToken(user)
	if err != nil {
		return err
	}
	link := accountLink(c, "/auth/password-reset/"+utils.EncodeUID(user.ID)+"/"+token)
	if err := notifications.SendPasswordResetEmail(c.UserContext(), &user, link, config.Settings.PasswordResetTimeout); err != nil {
		return err
	}
	return message(c, fiber.StatusOK, "Password reset email has been sent. Please check your email to reset your password.")
}

func CheckPasswordResetLink(c *fiber.Ctx) error {
	user, err := userFromLink(c)
	if err != nil {
		return err
	}
	if user == nil {
		return errorMessage(c, fiber.StatusBadRequest, "The password reset link is invalid or has expired")
	}
	return c.JSON(fiber.Map{"valid": true, "username": user.Username})
}

func ConfirmPasswordReset(c *fiber.Ctx) error {
	user, err := userFromLink(c)
	if err != nil {
		return err
	}
	if user == nil {
		return errorMessage(c, fiber.StatusBadRequest, "The password reset link is invalid or has expired")
	}

	var req SetPasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if req.Password1 != req.Password2 {
		return errorMessage(c, fiber.StatusBadRequest, "Passwords do not match")
	}
	if err := user.SetPassword(req.Password1); err != nil {
		return err
	}
	if err := database.DB.Model(user).UpdateColumn("password", user.Password).Error; err != nil {
		return err
	}
	return message(c, fiber.StatusOK, "Password has been reset successfully")
}

func ChangePassword(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	var req ChangePasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if !p.User.CheckPassword(req.OldPassword) || req.NewPassword1 != req.NewPassword2 {
		return errorMessage(c, fiber.StatusBadRequest, "Please enter correct details")
	}
	if err := p.User.SetPassword(req.NewPassword1); err != nil {
		return err
	}
	if err := database.DB.Model(p.User).UpdateColumn("password", p.User.Password).Error; err != nil {
		return err
	}

	t, exp, err := issueToken(p.User, p.Role)
	if err != nil {
		return err
	}
	setTokenCookie(c, t, exp)
	return c.JSON(fiber.Map{"message": "Password Updated!", "token": t})
}
