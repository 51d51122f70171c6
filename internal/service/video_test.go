package service

import (
	"context"
	"errors"
	"testing"
)

func TestRegister_DerivesStableID(t *testing.T) {
	st := newTestStore(t)
	svc := NewVideoService(st, nil)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterVideoInput{Title: "My Video"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(first.ID) != videoIDLength {
		t.Errorf("expected %d-char id, got %q", videoIDLength, first.ID)
	}

	// Same title resolves to the same video.
	second, err := svc.Register(ctx, RegisterVideoInput{Title: "My Video"})
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same id for same title, got %q and %q", first.ID, second.ID)
	}

	other, err := svc.Register(ctx, RegisterVideoInput{Title: "Another Video"})
	if err != nil {
		t.Fatalf("register other: %v", err)
	}
	if other.ID == first.ID {
		t.Error("expected different titles to get different ids")
	}
}

func TestRegister_ExplicitIDAndValidation(t *testing.T) {
	st := newTestStore(t)
	svc := NewVideoService(st, nil)
	ctx := context.Background()

	video, err := svc.Register(ctx, RegisterVideoInput{VideoID: "custom-id", Title: "Custom"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if video.ID != "custom-id" {
		t.Errorf("expected explicit id to be kept, got %q", video.ID)
	}

	if _, err := svc.Register(ctx, RegisterVideoInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing title, got %v", err)
	}
}

func TestEdit_PartialUpdate(t *testing.T) {
	st := newTestStore(t)
	svc := NewVideoService(st, nil)
	ctx := context.Background()

	video, err := svc.Register(ctx, RegisterVideoInput{
		Title:        "Original",
		ThumbnailURL: "https://cdn.example.com/a.jpg",
		VideoURL:     "https://videos.example.com/a",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	newTitle := "Edited"
	updated, err := svc.Edit(ctx, EditVideoInput{VideoID: video.ID, Title: &newTitle})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.Title != "Edited" {
		t.Errorf("expected edited title, got %q", updated.Title)
	}
	if updated.ThumbnailURL != "https://cdn.example.com/a.jpg" {
		t.Errorf("expected thumbnail preserved, got %q", updated.ThumbnailURL)
	}

	empty := ""
	if _, err := svc.Edit(ctx, EditVideoInput{VideoID: video.ID, Title: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty title, got %v", err)
	}

	if _, err := svc.Edit(ctx, EditVideoInput{VideoID: "missing", Title: &newTitle}); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestDeleteVideo(t *testing.T) {
	st := newTestStore(t)
	svc := NewVideoService(st, nil)
	ctx := context.Background()

	video, err := svc.Register(ctx, RegisterVideoInput{Title: "Doomed"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Delete(ctx, video.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(ctx, video.ID); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, video.ID); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound on double delete, got %v", err)
	}
}
