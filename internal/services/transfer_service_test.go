package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"petregistry/internal/models/db_models"
	"petregistry/pkg/utils"
)

func newTransferService(store *memStore) TransferService {
	return NewTransferService(memTransferRepo{store}, store, memAccountRepo{store})
}

func TestCreateTransferHappyPath(t *testing.T) {
	store := newMemStore()
	svc := newTransferService(store)
	owner := store.addAccount("owner@example.com", true, true)
	recipient := store.addAccount("recipient@example.com", true, true)
	pet := store.addPet(owner.ID, "977200009123456")

	transfer, err := svc.CreateTransfer(context.Background(), owner.ID, pet.ID, "recipient@example.com")
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}
	if !transfer.Pending() {
		t.Fatalf("new transfer must be pending, got %s", transfer.Status)
	}
	if transfer.ToUserID != recipient.ID || transfer.FromUserID != owner.ID {
		t.Fatalf("transfer parties wrong: %+v", transfer)
	}
}

func TestCreateTransferToSelf(t *testing.T) {
	store := newMemStore()
	svc := newTransferService(store)
	owner := store.addAccount("owner@example.com", true, true)
	pet := store.addPet(owner.ID, "977200009123456")

	_, err := svc.CreateTransfer(context.Background(), owner.ID, pet.ID, "owner@example.com")
	if !errors.Is(err, utils.ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}
}

func TestCreateTransferRecipientChecks(t *testing.T) {
	store := newMemStore()
	svc := newTransferService(store)
	owner := store.addAccount("owner@example.com", true, true)
	store.addAccount("inactive@example.com", false, true)
	store.addAccount("unverified@example.com", true, false)
	pet := store.addPet(owner.ID, "977200009123456")
	ctx := context.Background()

	for _, email := range []string{"ghost@example.com", "inactive@example.com", "unverified@example.com"} {
		_, err := svc.CreateTransfer(ctx, owner.ID, pet.ID, email)
		if !errors.Is(err, utils.ErrRecipientNotEligible) {
			t.Fatalf("recipient %s: expected ErrRecipientNotEligible, got %v", email, err)
		}
	}
}

func TestCreateTransferOnlyByOwner(t *testing.T) {
	store := newMemStore()
	svc := newTransferService(store)
	owner := store.addAccount("owner@example.com", true, true)
	stranger := store.addAccount("stranger@example.com", true, true)
	pet := store.addPet(owner.ID, "977200009123456")

	_, err := svc.CreateTransfer(context.Background(), stranger.ID, pet.ID, "owner@example.com")
	if !errors.Is(err, utils.ErrPetNotFound) {
		t.Fatalf("non-owner must see not-found, got %v", err)
	}
}

func TestSecondPendingTransferConflicts(t *testing.T) {
	store := newMemStore()
	svc := newTransferService(store)
	owner := store.addAccount("owner@example.com", true, true)
	store.addAccount("r1@example.com", true, true)
	store.addAccount("r2@example.com", true, true)
	pet := store.addPet(owner.ID, "977200009123456")
	ctx := context.Background()

	if _, err := svc.CreateTransfer(ctx, owner.ID, pet.ID, "r1@example.com"); err != nil {
		t.Fatalf("first transfer: %v", err)
	}
	_, err := svc.CreateTransfer(ctx, owner.ID, pet.ID, "r2@example.com")
	if !errors.Is(err, utils.ErrTransferAlreadyPending) {
		t.Fatalf("expected ErrTransferAlreadyPending, got %v", err)
	}
}

func TestConcurrentTransferCreationOneWins(t *testing.T) {
	store := newMemStore()
	svc := newTransferService(store)
	owner := store.addAccount("owner@example.com", true, true)
	store.addAccount("r1@example.com", true, true)
	store.addAccount("r2@example.com", true, true)
	pet := store.addPet(owner.ID, "977200009123456")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, email := range []string{"r1@example.com", "r2@example.com"} {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, errs[i] = svc.CreateTransfer(context.Background(), owner.ID, pet.ID, email)
		}(i, email)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, utils.ErrTransferAlreadyPending):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("want exactly one winner, got %d successes / %d conflicts", successes, conflicts)
	}
}

func TestAcceptAlwaysDemandsPayment(t *testing.T) {
	store := newMemStore()
	svc := newTransferService(store)
	owner := store.addAccount("owner@example.com", true, true)
	recipient := store.addAccount("recipient@example.com", true, true)
	pet := store.addPet(owner.ID, "977200009123456")
	ctx := context.Background()

	transfer, err := svc.CreateTransfer(ctx, owner.ID, pet.ID, "recipient@example.com")
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}

	err = svc.AcceptTransfer(ctx, recipient.ID, transfer.ID)
	if !errors.Is(err, utils.ErrTransferNeedsPayment) {
		t.Fatalf("expected ErrTransferNeedsPayment, got %v", err)
	}

	// Accept never flips the state by itself.
	got, _ := store.FindTransferByID(ctx, transfer.ID)
	if !got.Pending() {
		t.Fatalf("accept endpoint must not change state, got %s", got.Status)
	}
}

func TestRejectIsRecipientOnlyAndTerminal(t *testing.T) {
	store := newMemStore()
	svc := newTransferService(store)
	owner := store.addAccount("owner@example.com", true, true)
	recipient := store.addAccount("recipient@example.com", true, true)
	pet := store.addPet(owner.ID, "977200009123456")
	ctx := context.Background()

	transfer, err := svc.CreateTransfer(ctx, owner.ID, pet.ID, "recipient@example.com")
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}

	if err := svc.RejectTransfer(ctx, owner.ID, transfer.ID); !errors.Is(err, utils.ErrNotTransferRecipient) {
		t.Fatalf("sender must not reject, got %v", err)
	}

	if err := svc.RejectTransfer(ctx, recipient.ID, transfer.ID); err != nil {
		t.Fatalf("RejectTransfer: %v", err)
	}

	got, _ := store.FindTransferByID(ctx, transfer.ID)
	if got.Status != db_models.TransferStatusRejected {
		t.Fatalf("expected rejected, got %s", got.Status)
	}

	// Terminal: no further accept or reject.
	if err := svc.RejectTransfer(ctx, recipient.ID, transfer.ID); !errors.Is(err, utils.ErrTransferNotPending) {
		t.Fatalf("second reject: expected ErrTransferNotPending, got %v", err)
	}
	if err := svc.AcceptTransfer(ctx, recipient.ID, transfer.ID); !errors.Is(err, utils.ErrTransferNotPending) {
		t.Fatalf("accept after reject: expected ErrTransferNotPending, got %v", err)
	}

	// A fresh request for the same pet is allowed again.
	if _, err := svc.CreateTransfer(ctx, owner.ID, pet.ID, "recipient@example.com"); err != nil {
		t.Fatalf("new transfer after rejection: %v", err)
	}
}

func TestListTransfersSeesBothSides(t *testing.T) {
	store := newMemStore()
	svc := newTransferService(store)
	owner := store.addAccount("owner@example.com", true, true)
	recipient := store.addAccount("recipient@example.com", true, true)
	pet := store.addPet(owner.ID, "977200009123456")
	ctx := context.Background()

	if _, err := svc.CreateTransfer(ctx, owner.ID, pet.ID, "recipient@example.com"); err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}

	ownerView, _ := svc.ListTransfers(ctx, owner.ID)
	recipientView, _ := svc.ListTransfers(ctx, recipient.ID)
	if len(ownerView) != 1 || len(recipientView) != 1 {
		t.Fatalf("both parties must see the transfer: owner=%d recipient=%d", len(ownerView), len(recipientView))
	}
}
