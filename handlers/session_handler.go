package handlers

import (
	"fmt"
	"strconv"
	"time"

	config "github.com/anjiri1684/tutor_marketplace/configs"
	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
	"github.com/anjiri1684/tutor_marketplace/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleSessionRequest struct {
	TeacherID       string  `json:"teacher_id" validate:"required,uuid"`
	ScheduledAt     string  `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=30,max=180"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	MeetingLink     string  `json:"meeting_link" validate:"omitempty,url"`
}

// ScheduleSession books a lesson with an active teacher. Sessions are covered
// by the student's subscription: the booking consumes one of the plan's
// monthly sessions, and the teacher is credited from the platform when the
// session completes.
func ScheduleSession(c *fiber.Ctx) error {
	studentID := userIDFromToken(c)

	var req ScheduleSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	teacherID, _ := uuid.Parse(req.TeacherID)
	if teacherID == studentID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot book a session with yourself"})
	}

	var profile models.TeacherProfile
	if err := database.DB.Preload("User").First(&profile, "user_id = ? AND status = ?", teacherID, models.TeacherStatusActive).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Active teacher not found"})
	}

	var subscription models.Subscription
	if err := database.DB.Preload("Plan").
		Where("user_id = ? AND status = ? AND expires_at > ?", studentID, models.SubscriptionStatusActive, time.Now()).
		First(&subscription).Error; err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "An active subscription is required to book sessions"})
	}

	var usedThisTerm int64
	database.DB.Model(&models.Session{}).
		Where("student_id = ? AND status <> ? AND created_at >= ?", studentID, models.SessionStatusCancelled, subscription.StartsAt).
		Count(&usedThisTerm)
	if usedThisTerm >= int64(subscription.Plan.SessionsPerMonth) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("Your %s plan includes %d sessions per term and they are all used", subscription.Plan.Name, subscription.Plan.SessionsPerMonth),
		})
	}

	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledAt)
	if scheduledAt.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Session must be scheduled in the future"})
	}

	session := models.Session{
		TeacherID:       teacherID,
		StudentID:       studentID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	}
	if req.MeetingLink != "" {
		session.MeetingLink = &req.MeetingLink
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create session"})
	}

	go notifications.SendEmail(
		profile.User.FullName,
		profile.User.Email,
		"New Session Booked",
		fmt.Sprintf("<h1>New Booking</h1><p>A student booked a %d-minute session with you on %s.</p>", req.DurationMinutes, scheduledAt.Format("January 2, 2006 at 3:04 PM MST")),
	)

	return c.Status(fiber.StatusCreated).JSON(session)
}

// CompleteSession marks the lesson done and credits the teacher's wallet with
// the session price minus the platform commission.
func CompleteSession(c *fiber.Ctx) error {
	userID := userIDFromToken(c)
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.TeacherID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the session's teacher can complete it"})
	}
	if session.Status != models.SessionStatusScheduled {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("Session is already %s", session.Status)})
	}

	commissionRate, err := strconv.ParseFloat(config.Config("PLATFORM_COMMISSION_RATE"), 64)
	if err != nil || commissionRate < 0 || commissionRate >= 1 {
		commissionRate = 0.15
	}
	earning := session.Price * (1 - commissionRate)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		session.Status = models.SessionStatusCompleted
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		_, err := services.ApplyWalletEntry(tx, services.WalletEntry{
			UserID:      session.TeacherID,
			Amount:      earning,
			Type:        models.TransactionTypeSessionEarning,
			Description: fmt.Sprintf("Earnings from session on %s", session.ScheduledAt.Format("Jan 2, 2006")),
			SessionID:   &session.ID,
		})
		return err
	})
	if err != nil {
		return workflowError(c, err)
	}

	return c.JSON(session)
}

// CancelSession frees the booking; the subscription entitlement it consumed
// becomes available again because cancelled sessions are not counted.
func CancelSession(c *fiber.Ctx) error {
	userID := userIDFromToken(c)
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.TeacherID != userID && session.StudentID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your session"})
	}
	if session.Status != models.SessionStatusScheduled {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("Session is already %s", session.Status)})
	}

	session.Status = models.SessionStatusCancelled
	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel session"})
	}

	return c.JSON(session)
}

func ListMySessions(c *fiber.Ctx) error {
	userID := userIDFromToken(c)

	var sessions []models.Session
	query := database.DB.Preload("Teacher").Preload("Student").
		Where("teacher_id = ? OR student_id = ?", userID, userID).
		Order("scheduled_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load sessions"})
	}

	return c.JSON(sessions)
}
