package handlers

import (
	"errors"
	"fmt"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
	"github.com/anjiri1684/tutor_marketplace/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeacherApplicationRequest struct {
	Headline string `json:"headline" validate:"required"`
	Bio      string `json:"bio" validate:"required"`
}

// ApplyToBeATeacher creates the teacher profile and opens its verification
// request. Documents and the video call are handled through the verification
// endpoints afterwards.
func ApplyToBeATeacher(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req TeacherApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existingProfile models.TeacherProfile
	err := database.DB.Where("user_id = ?", userID).First(&existingProfile).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already submitted an application."})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var verificationRequest models.VerificationRequest
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		profile := models.TeacherProfile{
			UserID:   userID,
			Headline: &req.Headline,
			Bio:      &req.Bio,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		verificationRequest = models.VerificationRequest{TeacherID: userID}
		return tx.Create(&verificationRequest).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create application"})
	}

	var user models.User
	database.DB.First(&user, "id = ?", userID)

	go notifications.SendAdminEmail(
		"New Teacher Application",
		fmt.Sprintf("<h1>New Application</h1><p>%s has applied to become a teacher. Review their documents and schedule a verification call.</p>", user.FullName),
	)
	websocket.PublishEvent("teacher_application", fmt.Sprintf("%s applied to become a teacher", user.FullName), verificationRequest.ID.String())

	return c.Status(fiber.StatusCreated).JSON(verificationRequest)
}

// GetMyVerificationRequest returns the teacher's request with its documents
// and calls so the frontend can show where the application stands.
func GetMyVerificationRequest(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var request models.VerificationRequest
	if err := database.DB.Preload("Documents").Preload("Calls").Where("teacher_id = ?", userID).Order("created_at desc").First(&request).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No verification request found. Apply first."})
	}

	return c.JSON(request)
}

func GetMyTeacherProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var profile models.TeacherProfile
	if err := database.DB.Preload("User").First(&profile, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}
	return c.JSON(profile)
}

func UpdateMyTeacherProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	type UpdateRequest struct {
		Headline string `json:"headline" validate:"required"`
		Bio      string `json:"bio" validate:"required"`
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var profile models.TeacherProfile
	if err := database.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}

	profile.Headline = &req.Headline
	profile.Bio = &req.Bio
	database.DB.Save(&profile)

	return c.JSON(profile)
}

func GetTeacherProfile(c *fiber.Ctx) error {
	teacherID := c.Params("teacherId")

	var profile models.TeacherProfile
	if err := database.DB.Preload("User").First(&profile, "user_id = ? AND status = ?", teacherID, models.TeacherStatusActive).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Active teacher not found"})
	}

	return c.JSON(profile)
}

func ListActiveTeachers(c *fiber.Ctx) error {
	var activeTeachers []models.TeacherProfile
	query := database.DB.Preload("User").Where("status = ?", models.TeacherStatusActive)

	if minRating := c.Query("min_rating"); minRating != "" {
		query = query.Where("avg_rating >= ?", minRating)
	}

	if err := query.Find(&activeTeachers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve teachers"})
	}

	return c.JSON(activeTeachers)
}
