package handlers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/reports"
	"github.com/tutorcenter/scheduler/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssignRoleRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Role     string `json:"role" form:"role" validate:"required,oneof=student tutor"`
}

type SemesterRequest struct {
	Name      string `json:"semname" form:"semname" validate:"required,max=20"`
	StartDate string `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" form:"end_date" validate:"required,datetime=2006-01-02"`
}

type CourseRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=100"`
	Code string `json:"code" form:"code" validate:"required,max=50"`
}

type DepartmentRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=100"`
}

func AssignRole(c *fiber.Ctx) error {
	var req AssignRoleRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	user, err := services.AssignRole(c.UserContext(), database.DB, req.Username, req.Role)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return errorMessage(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrUnknownRole):
		return errorMessage(c, fiber.StatusBadRequest, "Unknown role")
	case err != nil:
		return err
	}
	zap.S().Infow("role assigned", "username", user.Username, "role", req.Role)
	return c.JSON(fiber.Map{"message": "Role assigned.", "user": user})
}

func ListSemesters(c *fiber.Ctx) error {
	sems, err := services.ListSemesters(c.UserContext(), database.DB)
	if err != nil {
		return err
	}
	return c.JSON(sems)
}

func AddSemester(c *fiber.Ctx) error {
	var req SemesterRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	start, err1 := models.ParseDate(req.StartDate)
	end, err2 := models.ParseDate(req.EndDate)
	if err1 != nil || err2 != nil {
		return errorMessage(c, fiber.StatusBadRequest, "Enter a valid dates.")
	}

	sem, err := services.AddSemester(c.UserContext(), database.DB, req.Name, start, end)
	switch {
	case errors.Is(err, services.ErrInvalidSemesterDates):
		return errorMessage(c, fiber.StatusBadRequest, "Enter a valid dates.")
	case errors.Is(err, services.ErrDuplicateSemester):
		return errorMessage(c, fiber.StatusConflict, "Semester already exists.")
	case err != nil:
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Semester added successfully.", "semester": sem})
}

func CreateCourse(c *fiber.Ctx) error {
	var req CourseRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	course := models.Course{Name: req.Name, Code: req.Code}
	if err := database.DB.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errorMessage(c, fiber.StatusConflict, "Course with this code already exists.")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func CreateDepartment(c *fiber.Ctx) error {
	var req DepartmentRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dept := models.Department{Name: req.Name}
	if err := database.DB.Create(&dept).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dept)
}

func ListDepartments(c *fiber.Ctx) error {
	var depts []models.Department
	if err := database.DB.Order("name asc").Find(&depts).Error; err != nil {
		return err
	}
	return c.JSON(depts)
}

// ListUsers backs the role assignment form: users with their groups plus
// the assignable roles.
func ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.User{})
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}
	var users []models.User
	if err := query.Preload("Groups").Order("username asc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return err
	}
	var groups []models.Group
	if err := database.DB.Order("name asc").Find(&groups).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data":  users,
		"roles": groups,
		"meta": fiber.Map{
			"total_users":  total,
			"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
			"current_page": page,
		},
	})
}

func SessionReport(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", reports.FormatCSV))
	semester := strings.ToUpper(c.Query("semester"))
	switch format {
	case reports.FormatCSV, reports.FormatXLSX, reports.FormatPDF:
	default:
		return errorMessage(c, fiber.StatusBadRequest, "Unsupported format. Use csv, xlsx or pdf.")
	}

	rows, err := services.SessionRows(c.UserContext(), database.DB, semester)
	if err != nil {
		return err
	}
	title := "Sessions"
	if semester != "" {
		title += " " + semester
	}
	report, err := reports.Render(format, title, rows)
	if err != nil {
		return err
	}

	c.Set("Content-Type", report.ContentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	return c.Send(report.Body)
}
