package services

import (
	"errors"
	"testing"

	"github.com/anjiri1684/tutor_marketplace/models"
)

func request(status models.VerificationStatus, video models.VideoStatus) models.VerificationRequest {
	return models.VerificationRequest{Status: status, VideoStatus: video}
}

func docs(statuses ...models.DocumentStatus) []models.Document {
	out := make([]models.Document, len(statuses))
	for i, s := range statuses {
		out[i] = models.Document{Status: s}
	}
	return out
}

func TestApprovalBlockReason(t *testing.T) {
	tests := []struct {
		name string
		req  models.VerificationRequest
		docs []models.Document
		want string
	}{
		{
			name: "no documents submitted",
			req:  request(models.VerificationStatusPending, models.VideoStatusNotScheduled),
			docs: nil,
			want: BlockReasonNoDocuments,
		},
		{
			name: "two unverified documents",
			req:  request(models.VerificationStatusPending, models.VideoStatusPassed),
			docs: docs(models.DocumentStatusPending, models.DocumentStatusPending),
			want: BlockReasonDocsUnverified,
		},
		{
			name: "one rejected among verified",
			req:  request(models.VerificationStatusPending, models.VideoStatusPassed),
			docs: docs(models.DocumentStatusVerified, models.DocumentStatusRejected),
			want: BlockReasonDocsUnverified,
		},
		{
			name: "all verified but video only scheduled",
			req:  request(models.VerificationStatusPending, models.VideoStatusScheduled),
			docs: docs(models.DocumentStatusVerified, models.DocumentStatusVerified),
			want: BlockReasonVideoPending,
		},
		{
			name: "all verified but video failed",
			req:  request(models.VerificationStatusPending, models.VideoStatusFailed),
			docs: docs(models.DocumentStatusVerified),
			want: BlockReasonVideoPending,
		},
		{
			name: "documents reported before video",
			req:  request(models.VerificationStatusPending, models.VideoStatusNotScheduled),
			docs: docs(models.DocumentStatusPending),
			want: BlockReasonDocsUnverified,
		},
		{
			name: "everything satisfied",
			req:  request(models.VerificationStatusPending, models.VideoStatusPassed),
			docs: docs(models.DocumentStatusVerified, models.DocumentStatusVerified, models.DocumentStatusVerified),
			want: "",
		},
		{
			name: "live call in progress",
			req:  request(models.VerificationStatusLiveVideo, models.VideoStatusScheduled),
			docs: docs(models.DocumentStatusVerified),
			want: "Complete the live video call before approving.",
		},
		{
			name: "already verified",
			req:  request(models.VerificationStatusVerified, models.VideoStatusPassed),
			docs: docs(models.DocumentStatusVerified),
			want: "Request is already verified.",
		},
		{
			name: "rejected must be reopened",
			req:  request(models.VerificationStatusRejected, models.VideoStatusPassed),
			docs: docs(models.DocumentStatusVerified),
			want: "Request has been rejected. Reopen it before approving.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApprovalBlockReason(tt.req, tt.docs)
			if got != tt.want {
				t.Errorf("ApprovalBlockReason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanApproveRequestErrorType(t *testing.T) {
	req := request(models.VerificationStatusPending, models.VideoStatusScheduled)
	err := CanApproveRequest(req, docs(models.DocumentStatusVerified))

	var blocked *ApprovalBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected ApprovalBlockedError, got %T", err)
	}
	if blocked.Reason != BlockReasonVideoPending {
		t.Errorf("reason = %q, want %q", blocked.Reason, BlockReasonVideoPending)
	}
}

func TestCallTransitions(t *testing.T) {
	tests := []struct {
		name    string
		check   func(models.VerificationRequest) error
		req     models.VerificationRequest
		wantErr bool
	}{
		{"schedule on pending", CanScheduleCall, request(models.VerificationStatusPending, models.VideoStatusNotScheduled), false},
		{"reschedule after failed video", CanScheduleCall, request(models.VerificationStatusPending, models.VideoStatusFailed), false},
		{"schedule on verified", CanScheduleCall, request(models.VerificationStatusVerified, models.VideoStatusPassed), true},
		{"schedule on rejected", CanScheduleCall, request(models.VerificationStatusRejected, models.VideoStatusNotScheduled), true},
		{"schedule during live call", CanScheduleCall, request(models.VerificationStatusLiveVideo, models.VideoStatusScheduled), true},

		{"start with scheduled call", CanStartCall, request(models.VerificationStatusPending, models.VideoStatusScheduled), false},
		{"start without scheduled call", CanStartCall, request(models.VerificationStatusPending, models.VideoStatusNotScheduled), true},
		{"start while already live", CanStartCall, request(models.VerificationStatusLiveVideo, models.VideoStatusScheduled), true},

		{"complete live call", CanCompleteCall, request(models.VerificationStatusLiveVideo, models.VideoStatusScheduled), false},
		{"complete without live call", CanCompleteCall, request(models.VerificationStatusPending, models.VideoStatusScheduled), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("got err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *InvalidStateError
				if !errors.As(err, &invalid) {
					t.Errorf("expected InvalidStateError, got %T", err)
				}
			}
		})
	}
}

func TestRejectAndReopen(t *testing.T) {
	if err := CanRejectRequest(request(models.VerificationStatusPending, models.VideoStatusScheduled)); err != nil {
		t.Errorf("rejecting a pending request should be allowed, got %v", err)
	}
	if err := CanRejectRequest(request(models.VerificationStatusLiveVideo, models.VideoStatusScheduled)); err != nil {
		t.Errorf("rejecting during a live call should be allowed, got %v", err)
	}
	if err := CanRejectRequest(request(models.VerificationStatusVerified, models.VideoStatusPassed)); err == nil {
		t.Error("rejecting a verified request should fail")
	}
	if err := CanRejectRequest(request(models.VerificationStatusRejected, models.VideoStatusNotScheduled)); err == nil {
		t.Error("rejecting twice should fail")
	}

	if err := CanReopenRequest(request(models.VerificationStatusRejected, models.VideoStatusNotScheduled)); err != nil {
		t.Errorf("reopening a rejected request should be allowed, got %v", err)
	}
	if err := CanReopenRequest(request(models.VerificationStatusPending, models.VideoStatusNotScheduled)); err == nil {
		t.Error("reopening a pending request should fail")
	}
}

func TestReplaceDocumentFileResetsReview(t *testing.T) {
	reason := "photo is blurry"
	instructions := "upload a sharper scan"

	tests := []struct {
		name string
		doc  models.Document
	}{
		{"verified document", models.Document{Status: models.DocumentStatusVerified, FileURL: "https://cdn.example.com/old.png"}},
		{"rejected document", models.Document{Status: models.DocumentStatusRejected, FileURL: "https://cdn.example.com/old.png", RejectionReason: &reason, ResubmissionInstructions: &instructions}},
		{"pending document", models.Document{Status: models.DocumentStatusPending, FileURL: "https://cdn.example.com/old.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ReplaceDocumentFile(&tt.doc, "https://cdn.example.com/new.png")

			if tt.doc.Status != models.DocumentStatusPending {
				t.Errorf("status = %s, want pending: a re-uploaded document must be reviewed again", tt.doc.Status)
			}
			if tt.doc.FileURL != "https://cdn.example.com/new.png" {
				t.Errorf("file URL = %q, want the new upload", tt.doc.FileURL)
			}
			if tt.doc.RejectionReason != nil || tt.doc.ResubmissionInstructions != nil {
				t.Error("rejection reason and instructions should be cleared on re-upload")
			}
		})
	}
}

func TestMarkDocumentRejectedRequiresReason(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		doc := models.Document{Status: models.DocumentStatusPending}
		if err := MarkDocumentRejected(&doc, reason, ""); err == nil {
			t.Errorf("rejecting with reason %q should fail", reason)
		}
		if doc.Status != models.DocumentStatusPending {
			t.Errorf("a refused rejection must not change the document, got status %s", doc.Status)
		}
	}
}

func TestMarkDocumentRejected(t *testing.T) {
	doc := models.Document{Status: models.DocumentStatusPending}
	if err := MarkDocumentRejected(&doc, "name does not match", "upload a document in your legal name"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Status != models.DocumentStatusRejected {
		t.Errorf("status = %s, want rejected", doc.Status)
	}
	if doc.RejectionReason == nil || *doc.RejectionReason != "name does not match" {
		t.Error("rejection reason should be recorded")
	}
	if doc.ResubmissionInstructions == nil || *doc.ResubmissionInstructions != "upload a document in your legal name" {
		t.Error("resubmission instructions should be recorded")
	}

	noInstructions := models.Document{Status: models.DocumentStatusPending}
	if err := MarkDocumentRejected(&noInstructions, "expired document", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if noInstructions.ResubmissionInstructions != nil {
		t.Error("instructions should stay nil when none were given")
	}
}

func TestMarkDocumentVerifiedClearsReasons(t *testing.T) {
	reason := "photo is blurry"
	instructions := "upload a sharper scan"
	doc := models.Document{Status: models.DocumentStatusRejected, RejectionReason: &reason, ResubmissionInstructions: &instructions}

	MarkDocumentVerified(&doc)

	if doc.Status != models.DocumentStatusVerified {
		t.Errorf("status = %s, want verified", doc.Status)
	}
	if doc.RejectionReason != nil || doc.ResubmissionInstructions != nil {
		t.Error("verifying should clear any previous rejection details")
	}
}

func TestCanReviewDocument(t *testing.T) {
	if err := CanReviewDocument(request(models.VerificationStatusPending, models.VideoStatusNotScheduled)); err != nil {
		t.Errorf("reviewing on a pending request should be allowed, got %v", err)
	}
	if err := CanReviewDocument(request(models.VerificationStatusLiveVideo, models.VideoStatusScheduled)); err != nil {
		t.Errorf("reviewing during a live call should be allowed, got %v", err)
	}
	if err := CanReviewDocument(request(models.VerificationStatusVerified, models.VideoStatusPassed)); err == nil {
		t.Error("reviewing on a verified request should fail")
	}
	if err := CanReviewDocument(request(models.VerificationStatusRejected, models.VideoStatusNotScheduled)); err == nil {
		t.Error("reviewing on a rejected request should fail")
	}
}
