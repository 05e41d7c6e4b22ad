package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
	"gorm.io/gorm"
)

// SweepMissedCalls marks verification calls that never happened. A call still
// scheduled a day after its start time is considered missed, and the request's
// video status goes back so the admin can schedule a new one.
func SweepMissedCalls() {
	log.Println("Running job: SweepMissedCalls...")

	cutoff := time.Now().Add(-24 * time.Hour)

	var missedCalls []models.VerificationCall
	err := database.DB.
		Where("status = ? AND scheduled_at < ?", models.CallStatusScheduled, cutoff).
		Find(&missedCalls).Error
	if err != nil {
		log.Printf("Error checking for missed verification calls: %v", err)
		return
	}
	if len(missedCalls) == 0 {
		return
	}

	for _, call := range missedCalls {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			call.Status = models.CallStatusMissed
			if err := tx.Save(&call).Error; err != nil {
				return err
			}

			return tx.Model(&models.VerificationRequest{}).
				Where("id = ? AND video_status = ?", call.VerificationRequestID, models.VideoStatusScheduled).
				Update("video_status", models.VideoStatusNotScheduled).Error
		})
		if err != nil {
			log.Printf("Error marking call %s as missed: %v", call.ID, err)
		}
	}

	go notifications.SendAdminEmail(
		"Missed Verification Calls",
		fmt.Sprintf("<h1>Missed Calls</h1><p>%d verification call(s) were never started and have been marked missed. The affected requests need a new call scheduled.</p>", len(missedCalls)),
	)

	log.Printf("Marked %d verification call(s) as missed.", len(missedCalls))
}
