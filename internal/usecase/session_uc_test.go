//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"soulsync/internal/domain"
	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
	"soulsync/internal/usecase"
)

func TestSessionUseCase_Book(t *testing.T) {
	ctx := context.Background()
	in := usecase.BookInput{Username: "CalmRiver12", Phone: "9876543210", Problem: "exam stress", SessionType: "Call"}

	t.Run("should save the booking and alert every counselor", func(t *testing.T) {
		// --- Arrange ---
		repo := NewMockSessionRepo()
		notifier := &MockNotifier{}
		dispatch := &inlineDispatcher{}
		uc := usecase.NewSessionUseCase(repo, notifier, dispatch, []int64{11, 22}, newTestLogger(), false)

		// --- Act ---
		b, err := uc.Book(ctx, in)

		// --- Assert ---
		if err != nil {
			t.Fatalf("Book failed: %v", err)
		}
		if b.Type != model.SessionCall || b.Status != model.BookingPending {
			t.Errorf("booking = %+v", b)
		}
		if _, err := repo.FindByID(ctx, repository.NoTX, b.ID); err != nil {
			t.Errorf("booking not stored: %v", err)
		}
		if len(notifier.Sent) != 2 {
			t.Fatalf("alerts = %d, want 2", len(notifier.Sent))
		}
		if !strings.Contains(notifier.Sent[0].Text, "9876543210") || !strings.Contains(notifier.Sent[0].Text, "exam stress") {
			t.Errorf("alert text = %q", notifier.Sent[0].Text)
		}
	})

	t.Run("should keep the booking when alerts fail or are dropped", func(t *testing.T) {
		notifier := &MockNotifier{SendMessageFunc: func(context.Context, int64, string) error { return errors.New("telegram down") }}
		dispatch := &inlineDispatcher{}
		uc := usecase.NewSessionUseCase(NewMockSessionRepo(), notifier, dispatch, []int64{11}, newTestLogger(), false)
		if _, err := uc.Book(ctx, in); err != nil {
			t.Fatalf("Book failed: %v", err)
		}
		if len(dispatch.Errs) != 1 || dispatch.Errs[0] == nil {
			t.Errorf("task errors = %v, want one failure", dispatch.Errs)
		}

		full := &inlineDispatcher{SubmitErr: errors.New("queue full")}
		uc = usecase.NewSessionUseCase(NewMockSessionRepo(), &MockNotifier{}, full, []int64{11}, newTestLogger(), false)
		if _, err := uc.Book(ctx, in); err != nil {
			t.Errorf("Book with full queue failed: %v", err)
		}
	})

	t.Run("should validate the form", func(t *testing.T) {
		uc := usecase.NewSessionUseCase(NewMockSessionRepo(), nil, nil, nil, newTestLogger(), false)
		bad := []usecase.BookInput{
			{Username: "a", Phone: "123", Problem: "p", SessionType: "call"},
			{Username: "a", Phone: "9876543210", Problem: "p", SessionType: "video"},
			{Username: "", Phone: "9876543210", Problem: "p", SessionType: "text"},
		}
		for _, b := range bad {
			if _, err := uc.Book(ctx, b); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("Book(%+v) err = %v", b, err)
			}
		}
	})
}
