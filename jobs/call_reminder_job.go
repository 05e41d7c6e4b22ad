package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
)

// SendCallReminders emails teachers whose verification call starts in about
// an hour. The window matches the cron interval so a call is reminded once.
func SendCallReminders() {
	log.Println("Running job: SendCallReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingCalls []models.VerificationCall
	err := database.DB.
		Where("status = ? AND scheduled_at BETWEEN ? AND ?", models.CallStatusScheduled, lowerBound, upperBound).
		Find(&upcomingCalls).Error
	if err != nil {
		log.Printf("Error checking for upcoming verification calls: %v", err)
		return
	}
	if len(upcomingCalls) == 0 {
		return
	}

	for _, call := range upcomingCalls {
		var request models.VerificationRequest
		if err := database.DB.Preload("Teacher").First(&request, "id = ?", call.VerificationRequestID).Error; err != nil {
			continue
		}

		emailBody := fmt.Sprintf(
			"<h1>Call Reminder</h1><p>Hi %s,</p><p>Your verification video call starts in one hour, at %s.</p>",
			request.Teacher.FullName,
			call.ScheduledAt.Format(time.Kitchen),
		)
		if call.MeetingLink != nil {
			emailBody += fmt.Sprintf("<p><b>Meeting Link:</b> <a href='%s'>Join Call</a></p>", *call.MeetingLink)
		}

		go notifications.SendEmail(request.Teacher.FullName, request.Teacher.Email, "Reminder: Your Verification Call Starts in 1 Hour!", emailBody)
	}

	log.Printf("Sent %d verification call reminder(s).", len(upcomingCalls))
}
