package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/anjiri1684/tutor_marketplace/configs"
	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// GeneratePayoutReceipt renders a PDF receipt for a completed payout, uploads
// it and emails the link to the recipient. Meant to run in a goroutine after
// the payout reaches completed; failures are logged, never surfaced to the
// webhook or admin request that triggered them.
func GeneratePayoutReceipt(payoutID uuid.UUID) {
	var payout models.PayoutRequest
	if err := database.DB.Preload("User").First(&payout, "id = ?", payoutID).Error; err != nil {
		log.Printf("🔥 Receipt generation: payout %s not found: %v", payoutID, err)
		return
	}

	if payout.Status != models.PayoutStatusCompleted {
		log.Printf("Skipping receipt for payout %s: status is %s", payoutID, payout.Status)
		return
	}

	htmlData, err := generateReceiptHTML(payout)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF: %v", err)
		return
	}

	uploadURL, err := uploadReceiptToCloudinary(pdfBytes, payout.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt to Cloudinary: %v", err)
		return
	}

	payout.ReceiptURL = &uploadURL
	if err := database.DB.Save(&payout).Error; err != nil {
		log.Printf("🔥 Failed to store receipt URL for payout %s: %v", payout.ID, err)
		return
	}

	notifications.SendEmail(
		payout.User.FullName,
		payout.User.Email,
		"Your Payout Receipt",
		fmt.Sprintf("<h1>Payout Receipt</h1><p>Hello %s,</p><p>Your payout of %.2f %s has been completed. You can download your receipt <a href='%s'>here</a>.</p>", payout.User.FullName, payout.Amount, payout.Currency, uploadURL),
	)

	log.Printf("✅ Generated and uploaded receipt for payout %s.", payout.ID)
}

func generateReceiptHTML(payout models.PayoutRequest) (string, error) {
	tmpl, err := template.ParseFiles("templates/payout_receipt.html")
	if err != nil {
		return "", err
	}

	processedAt := time.Now()
	if payout.ProcessedAt != nil {
		processedAt = *payout.ProcessedAt
	}

	data := struct {
		RecipientName string
		Amount        string
		Currency      string
		Method        string
		Reference     string
		ProcessedDate string
	}{
		RecipientName: payout.User.FullName,
		Amount:        fmt.Sprintf("%.2f", payout.Amount),
		Currency:      payout.Currency,
		Method:        string(payout.PaymentMethod),
		Reference:     payout.ID.String(),
		ProcessedDate: processedAt.Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceiptToCloudinary(fileBytes []byte, payoutID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", payoutID, uuid.New().String()),
		Folder:       "tutor_marketplace_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
