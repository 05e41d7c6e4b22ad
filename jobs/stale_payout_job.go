package jobs

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
)

// NudgeStalePayouts emails the admin a digest of payout requests that have
// sat pending for more than three days.
func NudgeStalePayouts() {
	log.Println("Running job: NudgeStalePayouts...")

	cutoff := time.Now().Add(-72 * time.Hour)

	var stalePayouts []models.PayoutRequest
	err := database.DB.Preload("User").
		Where("status = ? AND requested_at < ?", models.PayoutStatusPending, cutoff).
		Order("requested_at asc").
		Find(&stalePayouts).Error
	if err != nil {
		log.Printf("Error checking for stale payout requests: %v", err)
		return
	}
	if len(stalePayouts) == 0 {
		return
	}

	var rows strings.Builder
	for _, payout := range stalePayouts {
		rows.WriteString(fmt.Sprintf(
			"<li>%s — %.2f %s, requested %s</li>",
			payout.User.FullName, payout.Amount, payout.Currency,
			payout.RequestedAt.Format("January 2, 2006"),
		))
	}

	go notifications.SendAdminEmail(
		"Payout Requests Awaiting Review",
		fmt.Sprintf("<h1>Stale Payouts</h1><p>The following payout requests have been pending for over 72 hours:</p><ul>%s</ul>", rows.String()),
	)

	log.Printf("Nudged admin about %d stale payout request(s).", len(stalePayouts))
}
