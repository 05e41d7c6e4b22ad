package jobs

import (
	"log"
	"time"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
)

// ExpireSubscriptions flips active subscriptions past their paid-through date
// to expired.
func ExpireSubscriptions() {
	log.Println("Running job: ExpireSubscriptions...")

	result := database.DB.Model(&models.Subscription{}).
		Where("status = ? AND expires_at < ?", models.SubscriptionStatusActive, time.Now()).
		Update("status", models.SubscriptionStatusExpired)
	if result.Error != nil {
		log.Printf("Error expiring subscriptions: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Expired %d subscription(s).", result.RowsAffected)
	}
}
