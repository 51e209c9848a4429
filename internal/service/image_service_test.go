package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	apperrors "github.com/imaginehq/imagine-backend/pkg/errors"
)

func newImageService(store *stubUserStore, gen *stubGenerator, gens *stubGenerationStore) *ImageService {
	return NewImageService(store, gens, gen, nil, zap.NewNop())
}

func TestImageService_Generate_Success(t *testing.T) {
	store := newStubUserStore()
	user := store.addUser("Alice", "alice@example.com", 3)
	gen := &stubGenerator{data: []byte("png-bytes")}
	gens := &stubGenerationStore{}
	svc := newImageService(store, gen, gens)

	resp, err := svc.GenerateImage(context.Background(), user.ID, "a red fox in the snow")
	if err != nil {
		t.Fatalf("GenerateImage failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success")
	}
	if resp.CreditBalance != 2 {
		t.Fatalf("expected balance 2 after debit, got %d", resp.CreditBalance)
	}
	if store.balance(user.ID) != 2 {
		t.Fatalf("stored balance should be 2, got %d", store.balance(user.ID))
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(resp.ResultImage, prefix) {
		t.Fatalf("expected data URI result, got %q", resp.ResultImage)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(resp.ResultImage, prefix))
	if err != nil {
		t.Fatalf("result image is not valid base64: %v", err)
	}
	if string(decoded) != "png-bytes" {
		t.Fatalf("decoded payload mismatch: %q", decoded)
	}

	history, _ := gens.GetByUserID(user.ID)
	if len(history) != 1 || history[0].Prompt != "a red fox in the snow" {
		t.Fatalf("expected one generation record, got %+v", history)
	}
}

func TestImageService_Generate_UpstreamFailureDoesNotDebit(t *testing.T) {
	store := newStubUserStore()
	user := store.addUser("Bob", "bob@example.com", 3)
	gen := &stubGenerator{err: fmt.Errorf("api quota exceeded")}
	gens := &stubGenerationStore{}
	svc := newImageService(store, gen, gens)

	_, err := svc.GenerateImage(context.Background(), user.ID, "anything")
	if !apperrors.IsType(err, apperrors.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(apperrors.Message(err), "api quota exceeded") {
		t.Fatalf("expected underlying message to propagate, got %q", apperrors.Message(err))
	}
	if store.balance(user.ID) != 3 {
		t.Fatalf("failed generation must not debit, balance is %d", store.balance(user.ID))
	}
	if history, _ := gens.GetByUserID(user.ID); len(history) != 0 {
		t.Fatalf("failed generation must not be recorded")
	}
}

func TestImageService_Generate_ZeroBalanceSkipsAPI(t *testing.T) {
	store := newStubUserStore()
	user := store.addUser("Carol", "carol@example.com", 0)
	gen := &stubGenerator{data: []byte("png")}
	svc := newImageService(store, gen, &stubGenerationStore{})

	_, err := svc.GenerateImage(context.Background(), user.ID, "prompt")
	if !apperrors.IsType(err, apperrors.ErrInsufficientCredits) {
		t.Fatalf("expected insufficient credits, got %v", err)
	}
	if gen.callCount() != 0 {
		t.Fatalf("external API must not be called with zero balance")
	}
	if store.balance(user.ID) != 0 {
		t.Fatalf("balance changed on refused request")
	}
}

func TestImageService_Generate_Validation(t *testing.T) {
	store := newStubUserStore()
	user := store.addUser("Dave", "dave@example.com", 5)
	svc := newImageService(store, &stubGenerator{data: []byte("png")}, &stubGenerationStore{})

	if _, err := svc.GenerateImage(context.Background(), user.ID, "   "); !apperrors.IsType(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for blank prompt, got %v", err)
	}
	if _, err := svc.GenerateImage(context.Background(), 999, "prompt"); !apperrors.IsType(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for unknown user, got %v", err)
	}
}

func TestImageService_Generate_ConcurrentLastCredit(t *testing.T) {
	store := newStubUserStore()
	user := store.addUser("Eve", "eve@example.com", 1)
	svc := newImageService(store, &stubGenerator{data: []byte("png")}, &stubGenerationStore{})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.GenerateImage(context.Background(), user.ID, "prompt")
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperrors.IsType(err, apperrors.ErrInsufficientCredits):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || insufficient != 1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d refusals", succeeded, insufficient)
	}
	if store.balance(user.ID) != 0 {
		t.Fatalf("balance must end at 0, got %d", store.balance(user.ID))
	}
}
