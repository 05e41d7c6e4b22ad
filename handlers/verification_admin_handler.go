package handlers

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
	"github.com/anjiri1684/tutor_marketplace/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ListVerificationRequests(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.VerificationRequest{})
	countQuery := database.DB.Model(&models.VerificationRequest{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	var requests []models.VerificationRequest
	countQuery.Count(&total)
	query.Order("created_at desc").Offset(offset).Limit(limit).Preload("Teacher").Preload("Documents").Find(&requests)

	return c.JSON(fiber.Map{
		"data": requests,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func GetVerificationRequest(c *fiber.Ctx) error {
	requestID := c.Params("requestId")

	var request models.VerificationRequest
	if err := database.DB.Preload("Teacher").Preload("Documents").Preload("Calls").First(&request, "id = ?", requestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Verification request not found"})
	}

	return c.JSON(request)
}

type ScheduleCallRequest struct {
	ScheduledCallAt string `json:"scheduled_call_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	VideoPlatform   string `json:"video_platform" validate:"required,oneof=zoom google_meet other"`
	MeetingLink     string `json:"meeting_link" validate:"omitempty,url"`
	Notes           string `json:"notes"`
}

// ScheduleVerificationCall creates the verification call, or moves the
// existing active one when the admin re-schedules. One active call per
// request.
func ScheduleVerificationCall(c *fiber.Ctx) error {
	requestID := c.Params("requestId")

	var req ScheduleCallRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request models.VerificationRequest
	if err := database.DB.Preload("Teacher").First(&request, "id = ?", requestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Verification request not found"})
	}

	if err := services.CanScheduleCall(request); err != nil {
		return workflowError(c, err)
	}

	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledCallAt)
	if scheduledAt.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Call must be scheduled in the future"})
	}

	var call models.VerificationCall
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("verification_request_id = ? AND status = ?", request.ID, models.CallStatusScheduled).First(&call).Error
		if err == nil {
			call.ScheduledAt = scheduledAt
			call.Platform = models.CallPlatform(req.VideoPlatform)
		} else {
			call = models.VerificationCall{
				VerificationRequestID: request.ID,
				ScheduledAt:           scheduledAt,
				Platform:              models.CallPlatform(req.VideoPlatform),
			}
		}
		if req.MeetingLink != "" {
			call.MeetingLink = &req.MeetingLink
		}
		if req.Notes != "" {
			call.Notes = &req.Notes
		}
		if err := tx.Save(&call).Error; err != nil {
			return err
		}

		request.VideoStatus = models.VideoStatusScheduled
		return tx.Save(&request).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to schedule call"})
	}

	emailBody := fmt.Sprintf("<h1>Verification Call Scheduled</h1><p>Hello %s,</p><p>Your verification video call has been scheduled for %s on %s.</p>",
		request.Teacher.FullName, scheduledAt.Format("January 2, 2006 at 3:04 PM MST"), req.VideoPlatform)
	if req.MeetingLink != "" {
		emailBody += fmt.Sprintf("<p><b>Meeting Link:</b> <a href='%s'>Join Call</a></p>", req.MeetingLink)
	}
	go notifications.SendEmail(request.Teacher.FullName, request.Teacher.Email, "Your Verification Call is Scheduled", emailBody)

	return c.JSON(call)
}

func StartLiveCall(c *fiber.Ctx) error {
	requestID := c.Params("requestId")

	var request models.VerificationRequest
	if err := database.DB.First(&request, "id = ?", requestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Verification request not found"})
	}

	if err := services.CanStartCall(request); err != nil {
		return workflowError(c, err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		request.Status = models.VerificationStatusLiveVideo
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		return tx.Model(&models.VerificationCall{}).
			Where("verification_request_id = ? AND status = ?", request.ID, models.CallStatusScheduled).
			Update("status", models.CallStatusInProgress).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start call"})
	}

	return c.JSON(request)
}

type CompleteCallRequest struct {
	VerificationResult string `json:"verification_result" validate:"required,oneof=passed failed"`
	VerificationNotes  string `json:"verification_notes"`
}

// CompleteVerificationCall records the call outcome. Either way the request
// returns to pending: a pass awaits the admin's approval decision, a fail
// leaves a retake possible through re-scheduling.
func CompleteVerificationCall(c *fiber.Ctx) error {
	requestID := c.Params("requestId")

	var req CompleteCallRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request models.VerificationRequest
	if err := database.DB.First(&request, "id = ?", requestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Verification request not found"})
	}

	if err := services.CanCompleteCall(request); err != nil {
		return workflowError(c, err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		request.Status = models.VerificationStatusPending
		if req.VerificationResult == "passed" {
			request.VideoStatus = models.VideoStatusPassed
		} else {
			request.VideoStatus = models.VideoStatusFailed
		}
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		var call models.VerificationCall
		if err := tx.Where("verification_request_id = ? AND status = ?", request.ID, models.CallStatusInProgress).First(&call).Error; err != nil {
			return err
		}
		call.Status = models.CallStatusCompleted
		if req.VerificationNotes != "" {
			call.Notes = &req.VerificationNotes
		}
		return tx.Save(&call).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete call"})
	}

	return c.JSON(request)
}

func VerifyDocument(c *fiber.Ctx) error {
	documentID := c.Params("documentId")

	var document models.Document
	if err := database.DB.First(&document, "id = ?", documentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}

	var request models.VerificationRequest
	if err := database.DB.First(&request, "id = ?", document.VerificationRequestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Verification request not found"})
	}

	if err := services.CanReviewDocument(request); err != nil {
		return workflowError(c, err)
	}

	services.MarkDocumentVerified(&document)
	if err := database.DB.Save(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update document"})
	}

	return c.JSON(document)
}

type RejectDocumentRequest struct {
	RejectionReason          string `json:"rejection_reason" validate:"required"`
	ResubmissionInstructions string `json:"resubmission_instructions"`
}

func RejectDocument(c *fiber.Ctx) error {
	documentID := c.Params("documentId")

	var req RejectDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var document models.Document
	if err := database.DB.First(&document, "id = ?", documentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}

	var request models.VerificationRequest
	if err := database.DB.Preload("Teacher").First(&request, "id = ?", document.VerificationRequestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Verification request not found"})
	}

	if err := services.CanReviewDocument(request); err != nil {
		return workflowError(c, err)
	}

	if err := services.MarkDocumentRejected(&document, req.RejectionReason, req.ResubmissionInstructions); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := database.DB.Save(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update document"})
	}

	emailBody := fmt.Sprintf("<h1>Document Needs Attention</h1><p>Hello %s,</p><p>Your %s document was not accepted: %s</p>",
		request.Teacher.FullName, document.Type, req.RejectionReason)
	if req.ResubmissionInstructions != "" {
		emailBody += fmt.Sprintf("<p><b>How to resubmit:</b> %s</p>", req.ResubmissionInstructions)
	}
	go notifications.SendEmail(request.Teacher.FullName, request.Teacher.Email, "Action Needed on Your Verification Documents", emailBody)

	return c.JSON(document)
}

// ApproveVerificationRequest is the final gate: every document verified and
// the video passed, checked centrally in services.
func ApproveVerificationRequest(c *fiber.Ctx) error {
	requestID := c.Params("requestId")

	var request models.VerificationRequest
	if err := database.DB.Preload("Teacher").Preload("Documents").First(&request, "id = ?", requestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Verification request not found"})
	}

	if err := services.CanApproveRequest(request, request.Documents); err != nil {
		return workflowError(c, err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		request.Status = models.VerificationStatusVerified
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.TeacherProfile{}).Where("user_id = ?", request.TeacherID).
			Update("status", models.TeacherStatusActive).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", request.TeacherID).
			Update("role", models.RoleTeacher).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to approve request"})
	}

	go notifications.SendEmail(
		request.Teacher.FullName,
		request.Teacher.Email,
		"Your Teacher Application has been Approved!",
		"<h1>Congratulations!</h1><p>Your application to become a teacher has been approved. You can now start teaching.</p>",
	)

	return c.JSON(fiber.Map{"message": "Verification request approved successfully"})
}

type RejectRequestBody struct {
	RejectionReason string `json:"rejection_reason" validate:"required"`
}

func RejectVerificationRequest(c *fiber.Ctx) error {
	requestID := c.Params("requestId")

	var req RejectRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request models.VerificationRequest
	if err := database.DB.Preload("Teacher").First(&request, "id = ?", requestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Verification request not found"})
	}

	if err := services.CanRejectRequest(request); err != nil {
		return workflowError(c, err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		request.Status = models.VerificationStatusRejected
		request.RejectionReason = &req.RejectionReason
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		return tx.Model(&models.TeacherProfile{}).Where("user_id = ?", request.TeacherID).
			Update("status", models.TeacherStatusRejected).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reject request"})
	}

	go notifications.SendEmail(
		request.Teacher.FullName,
		request.Teacher.Email,
		"Update on Your Teacher Application",
		fmt.Sprintf("<h1>Application Update</h1><p>We regret to inform you that after careful review, your teacher application was not approved.</p><p><b>Reason:</b> %s</p>", req.RejectionReason),
	)

	return c.JSON(fiber.Map{"message": "Verification request rejected"})
}

// ReopenVerificationRequest puts a rejected application back in review.
// Rejected documents return to pending so the teacher resubmits them;
// verified documents keep their status. The video check starts over.
func ReopenVerificationRequest(c *fiber.Ctx) error {
	requestID := c.Params("requestId")

	var request models.VerificationRequest
	if err := database.DB.Preload("Teacher").First(&request, "id = ?", requestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Verification request not found"})
	}

	if err := services.CanReopenRequest(request); err != nil {
		return workflowError(c, err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		request.Status = models.VerificationStatusPending
		request.VideoStatus = models.VideoStatusNotScheduled
		request.RejectionReason = nil
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Document{}).
			Where("verification_request_id = ? AND status = ?", request.ID, models.DocumentStatusRejected).
			Update("status", models.DocumentStatusPending).Error; err != nil {
			return err
		}

		return tx.Model(&models.TeacherProfile{}).Where("user_id = ?", request.TeacherID).
			Update("status", models.TeacherStatusPending).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reopen request"})
	}

	go notifications.SendEmail(
		request.Teacher.FullName,
		request.Teacher.Email,
		"Your Teacher Application has been Reopened",
		"<h1>Application Reopened</h1><p>Your teacher application is back in review. Please resubmit any rejected documents.</p>",
	)

	return c.JSON(request)
}
