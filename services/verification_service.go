package services

import (
	"errors"
	"strings"

	"github.com/anjiri1684/tutor_marketplace/models"
)

// Verification workflow transition rules. Every admin endpoint checks the
// transition here before mutating anything, so disallowed transitions are
// rejected in one place instead of UI button states.
//
// Request states: pending -> live_video -> pending -> verified
//                 pending -> rejected (terminal, reopenable)
// Video states:   not_scheduled -> scheduled -> passed | failed

const (
	BlockReasonNoDocuments    = "No verification documents have been submitted yet."
	BlockReasonDocsUnverified = "All documents must be verified first."
	BlockReasonVideoPending   = "Video verification has not been passed yet."
)

func CanScheduleCall(req models.VerificationRequest) error {
	switch req.Status {
	case models.VerificationStatusVerified:
		return &InvalidStateError{Action: "schedule call", Reason: "request is already verified"}
	case models.VerificationStatusRejected:
		return &InvalidStateError{Action: "schedule call", Reason: "request has been rejected"}
	case models.VerificationStatusLiveVideo:
		return &InvalidStateError{Action: "schedule call", Reason: "a live call is currently in progress"}
	}
	return nil
}

func CanStartCall(req models.VerificationRequest) error {
	if req.Status != models.VerificationStatusPending {
		return &InvalidStateError{Action: "start call", Reason: "request is not awaiting a call"}
	}
	if req.VideoStatus != models.VideoStatusScheduled {
		return &InvalidStateError{Action: "start call", Reason: "no call has been scheduled"}
	}
	return nil
}

func CanCompleteCall(req models.VerificationRequest) error {
	if req.Status != models.VerificationStatusLiveVideo {
		return &InvalidStateError{Action: "complete call", Reason: "no live call is in progress"}
	}
	return nil
}

// ApprovalBlockReason returns the first reason the request cannot be approved,
// or "" when approval is allowed. Documents are checked before the video
// outcome so the admin resolves them in that order.
func ApprovalBlockReason(req models.VerificationRequest, docs []models.Document) string {
	if req.Status == models.VerificationStatusVerified {
		return "Request is already verified."
	}
	if req.Status == models.VerificationStatusRejected {
		return "Request has been rejected. Reopen it before approving."
	}
	if req.Status == models.VerificationStatusLiveVideo {
		return "Complete the live video call before approving."
	}
	if len(docs) == 0 {
		return BlockReasonNoDocuments
	}
	for _, doc := range docs {
		if doc.Status != models.DocumentStatusVerified {
			return BlockReasonDocsUnverified
		}
	}
	if req.VideoStatus != models.VideoStatusPassed {
		return BlockReasonVideoPending
	}
	return ""
}

func CanApproveRequest(req models.VerificationRequest, docs []models.Document) error {
	if reason := ApprovalBlockReason(req, docs); reason != "" {
		return &ApprovalBlockedError{Reason: reason}
	}
	return nil
}

func CanRejectRequest(req models.VerificationRequest) error {
	switch req.Status {
	case models.VerificationStatusVerified:
		return &InvalidStateError{Action: "reject request", Reason: "request is already verified"}
	case models.VerificationStatusRejected:
		return &InvalidStateError{Action: "reject request", Reason: "request is already rejected"}
	}
	return nil
}

func CanReopenRequest(req models.VerificationRequest) error {
	if req.Status != models.VerificationStatusRejected {
		return &InvalidStateError{Action: "reopen request", Reason: "only rejected requests can be reopened"}
	}
	return nil
}

// CanReviewDocument gates verify/reject of a single document. Documents on a
// terminal request are frozen; beyond that, reviews of different documents on
// the same request are independent and order-insensitive.
func CanReviewDocument(req models.VerificationRequest) error {
	switch req.Status {
	case models.VerificationStatusVerified:
		return &InvalidStateError{Action: "review document", Reason: "request is already verified"}
	case models.VerificationStatusRejected:
		return &InvalidStateError{Action: "review document", Reason: "request has been rejected"}
	}
	return nil
}

// ReplaceDocumentFile swaps the stored file and forces a fresh review: a
// re-uploaded document returns to pending even if the previous upload was
// already verified.
func ReplaceDocumentFile(doc *models.Document, fileURL string) {
	doc.FileURL = fileURL
	doc.Status = models.DocumentStatusPending
	doc.RejectionReason = nil
	doc.ResubmissionInstructions = nil
}

func MarkDocumentVerified(doc *models.Document) {
	doc.Status = models.DocumentStatusVerified
	doc.RejectionReason = nil
	doc.ResubmissionInstructions = nil
}

// MarkDocumentRejected records the review outcome. The reason is mandatory;
// the teacher must always learn why a document was refused.
func MarkDocumentRejected(doc *models.Document, reason, instructions string) error {
	if strings.TrimSpace(reason) == "" {
		return errors.New("a rejection reason is required")
	}
	doc.Status = models.DocumentStatusRejected
	doc.RejectionReason = &reason
	if instructions != "" {
		doc.ResubmissionInstructions = &instructions
	} else {
		doc.ResubmissionInstructions = nil
	}
	return nil
}
