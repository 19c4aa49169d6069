package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

func newReviewFixture(reviews ...domain.Review) (*ReviewService, *memoryReviews, *memoryTours, *memoryActivityLogs) {
	repo := newMemoryReviews(reviews...)
	tours := newMemoryTours(domain.Tour{ID: uuid.New(), Title: "Knuckles Trek", Status: domain.TourStatusPublished})
	logs := &memoryActivityLogs{}
	return NewReviewService(repo, tours, NewActivityRecorder(logs, nil)), repo, tours, logs
}

func TestReviewSubmitAnonymousAwaitsModeration(t *testing.T) {
	svc, _, tours, logs := newReviewFixture()
	var tourID uuid.UUID
	for id := range tours.tours {
		tourID = id
	}

	review, err := svc.Submit(context.Background(), ReviewInput{Author: " Sam ", Message: "Loved every step", TourID: &tourID})
	if err != nil {
		t.Fatalf("expected submit to succeed, got %v", err)
	}
	if review.Approved {
		t.Fatal("expected anonymous review to await approval")
	}
	if review.Rating != 5 {
		t.Fatalf("expected default rating 5, got %d", review.Rating)
	}
	if review.TourTitle != "Knuckles Trek" || review.Author != "Sam" {
		t.Fatalf("expected tour title snapshot and trimmed author, got %+v", review)
	}
	if len(logs.snapshot()) != 0 {
		t.Fatal("expected no audit entry for a visitor review")
	}
}

func TestReviewSubmitByAdminIsApproved(t *testing.T) {
	svc, _, _, logs := newReviewFixture()
	ctx, _ := adminContext(domain.AdminRoleEditor)

	review, err := svc.Submit(ctx, ReviewInput{Author: "Desk", Message: "Imported from guestbook", Rating: 4})
	if err != nil {
		t.Fatalf("expected submit to succeed, got %v", err)
	}
	if !review.Approved {
		t.Fatal("expected admin review to be approved")
	}
	if got := len(logs.snapshot()); got != 1 {
		t.Fatalf("expected one audit entry, got %d", got)
	}
}

func TestReviewSubmitValidation(t *testing.T) {
	svc, _, _, _ := newReviewFixture()

	if _, err := svc.Submit(context.Background(), ReviewInput{Author: "Sam", Message: "ok", Rating: 6}); !errors.Is(err, ErrReviewValidation) {
		t.Fatalf("expected ErrReviewValidation for rating 6, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), ReviewInput{Author: "", Message: ""}); !errors.Is(err, ErrReviewValidation) {
		t.Fatalf("expected ErrReviewValidation for blank fields, got %v", err)
	}
	missing := uuid.New()
	if _, err := svc.Submit(context.Background(), ReviewInput{Author: "Sam", Message: "ok", TourID: &missing}); !errors.Is(err, ErrTourNotFound) {
		t.Fatalf("expected ErrTourNotFound, got %v", err)
	}
}

func TestReviewPublicListing(t *testing.T) {
	svc, _, _, _ := newReviewFixture(
		domain.Review{Author: "a-visible", Approved: true},
		domain.Review{Author: "b-pending", Approved: false},
		domain.Review{Author: "c-hidden", Approved: true, Hidden: true},
	)

	public, err := svc.List(context.Background(), domain.ReviewFilter{Visibility: domain.VisibilityPublic})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(public) != 1 || public[0].Author != "a-visible" {
		t.Fatalf("expected only the approved visible review, got %+v", public)
	}

	notApproved := false
	admin, err := svc.List(context.Background(), domain.ReviewFilter{Visibility: domain.VisibilityAdmin, Approved: &notApproved})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(admin) != 1 || admin[0].Author != "b-pending" {
		t.Fatalf("expected the pending review, got %+v", admin)
	}
}

func TestReviewModeration(t *testing.T) {
	svc, repo, _, logs := newReviewFixture(domain.Review{Author: "Sam", Message: "Great"})
	var id uuid.UUID
	for key := range repo.reviews {
		id = key
	}
	ctx, actor := adminContext(domain.AdminRoleEditor)

	approved := true
	edited := "Great trip!"
	review, err := svc.Update(ctx, id, ReviewUpdate{Approved: &approved, EditedMessage: &edited})
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if !review.Approved || !review.IsEdited || review.EditedBy == nil || *review.EditedBy != actor.AdminID {
		t.Fatalf("expected approved edit by the actor, got %+v", review)
	}
	if review.DisplayMessage() != "Great trip!" || review.Message != "Great" {
		t.Fatalf("expected edit to override display without losing the original, got %+v", review)
	}

	entries := logs.snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(entries))
	}
	if _, ok := entries[0].Changes["approved"]; !ok {
		t.Fatalf("expected approved change recorded, got %+v", entries[0].Changes)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, id); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}
