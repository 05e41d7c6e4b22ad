package handlers

import (
	"fmt"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/services"
	"github.com/anjiri1684/tutor_marketplace/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type UploadDocumentRequest struct {
	Type    string `json:"type" validate:"required,oneof=id_verification certificate resume"`
	Side    string `json:"side" validate:"omitempty,oneof=front back"`
	FileURL string `json:"file_url" validate:"required,url"`
}

// UploadDocument records a document the teacher uploaded to Cloudinary
// against their verification request.
func UploadDocument(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var req UploadDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	docType := models.DocumentType(req.Type)
	if req.Side != "" && docType != models.DocumentTypeIDVerification {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only id_verification documents have a front/back side"})
	}
	if req.Side == "" && docType == models.DocumentTypeIDVerification {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id_verification documents require a side"})
	}

	var request models.VerificationRequest
	if err := database.DB.Where("teacher_id = ?", userID).Order("created_at desc").First(&request).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No verification request found. Apply first."})
	}

	if request.Status == models.VerificationStatusVerified || request.Status == models.VerificationStatusRejected {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Documents cannot be changed on a closed verification request"})
	}

	document := models.Document{
		VerificationRequestID: request.ID,
		Type:                  docType,
		FileURL:               req.FileURL,
	}
	if req.Side != "" {
		side := models.DocumentSide(req.Side)
		document.Side = &side
	}

	if err := database.DB.Create(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save document"})
	}

	websocket.PublishEvent("document_uploaded", fmt.Sprintf("A %s document was uploaded for review", req.Type), document.ID.String())

	return c.Status(fiber.StatusCreated).JSON(document)
}

type ReplaceDocumentRequest struct {
	FileURL string `json:"file_url" validate:"required,url"`
}

// ReplaceDocument swaps the stored file and puts the document back to
// pending: a re-uploaded document must be reviewed again even if the previous
// upload was already verified.
func ReplaceDocument(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)
	documentID := c.Params("documentId")

	var req ReplaceDocumentRequest
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
	if err := database.DB.First(&request, "id = ?", document.VerificationRequestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Verification request not found"})
	}
	if request.TeacherID.String() != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your document"})
	}
	if request.Status == models.VerificationStatusVerified || request.Status == models.VerificationStatusRejected {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Documents cannot be changed on a closed verification request"})
	}

	services.ReplaceDocumentFile(&document, req.FileURL)
	if err := database.DB.Save(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update document"})
	}

	websocket.PublishEvent("document_uploaded", fmt.Sprintf("A %s document was re-uploaded for review", document.Type), document.ID.String())

	return c.JSON(document)
}

func GetMyDocuments(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var request models.VerificationRequest
	if err := database.DB.Preload("Documents").Where("teacher_id = ?", userID).Order("created_at desc").First(&request).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No verification request found"})
	}

	return c.JSON(request.Documents)
}
