package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"petregistry/internal/models/db_models"
	"petregistry/internal/payments"
	"petregistry/pkg/utils"
)

// -------------------------
// In-memory store (implements every repository interface)
// -------------------------

// memStore holds all tables behind one mutex, so each repository method is
// atomic the way a database transaction is.
type memStore struct {
	mu  sync.Mutex
	seq int64

	accounts  map[uuid.UUID]*db_models.Account
	credits   []*db_models.RegistrationCredit
	promos    map[string]*db_models.PromoCode
	pets      map[uuid.UUID]*db_models.Pet
	transfers map[uuid.UUID]*db_models.TransferRequest
	payments  []*db_models.TransferPayment
}

func newMemStore() *memStore {
	return &memStore{
		accounts:  map[uuid.UUID]*db_models.Account{},
		promos:    map[string]*db_models.PromoCode{},
		pets:      map[uuid.UUID]*db_models.Pet{},
		transfers: map[uuid.UUID]*db_models.TransferRequest{},
	}
}

func (m *memStore) nextSeq() int64 {
	m.seq++
	return m.seq
}

// ---- AccountRepository

func (m *memStore) Insert(ctx context.Context, account *db_models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Email == account.Email {
			return utils.ErrEmailAlreadyExists
		}
	}
	account.ID = uuid.New()
	account.CreatedAt = m.nextSeq()
	m.accounts[account.ID] = account
	return nil
}

func (m *memStore) FindById(ctx context.Context, id string) (*db_models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	a, ok := m.accounts[parsed]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// ---- CreditRepository

func (m *memStore) CountAvailable(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countAvailableLocked(userID), nil
}

func (m *memStore) countAvailableLocked(userID uuid.UUID) int64 {
	var count int64
	for _, c := range m.credits {
		if c.OwnerUserID == userID && c.Available() {
			count++
		}
	}
	return count
}

func (m *memStore) InsertCredit(ctx context.Context, credit *db_models.RegistrationCredit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertCreditLocked(credit)
}

func (m *memStore) insertCreditLocked(credit *db_models.RegistrationCredit) error {
	for _, c := range m.credits {
		if c.ExternalPaymentReference == credit.ExternalPaymentReference {
			return utils.ErrDuplicateReference
		}
	}
	credit.ID = uuid.New()
	credit.CreatedAt = m.nextSeq()
	m.credits = append(m.credits, credit)
	return nil
}

// ---- PromoRepository

func (m *memStore) Redeem(ctx context.Context, code string, credit *db_models.RegistrationCredit) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	promo, ok := m.promos[code]
	if !ok {
		return 0, utils.ErrPromoNotFound
	}
	if promo.Exhausted() {
		return 0, utils.ErrPromoLimitReached
	}

	// Checks before writes: both mutations commit together or not at all.
	for _, c := range m.credits {
		if c.ExternalPaymentReference == credit.ExternalPaymentReference {
			return 0, utils.ErrDuplicateReference
		}
	}

	promo.UsedCount++
	if err := m.insertCreditLocked(credit); err != nil {
		promo.UsedCount--
		return 0, err
	}
	return promo.UsedCount, nil
}

func (m *memStore) InsertPromo(ctx context.Context, promo *db_models.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.promos[promo.Code]; ok {
		return utils.ErrDuplicateReference
	}
	promo.ID = uuid.New()
	m.promos[promo.Code] = promo
	return nil
}

// ---- PetRepository

func (m *memStore) CreateWithCredit(ctx context.Context, pet *db_models.Pet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Oldest available credit for the owner; credits are insertion-ordered.
	var credit *db_models.RegistrationCredit
	for _, c := range m.credits {
		if c.OwnerUserID == pet.OwnerUserID && c.Available() {
			credit = c
			break
		}
	}
	if credit == nil {
		return utils.ErrPaymentRequired
	}

	for _, existing := range m.pets {
		if existing.ChipNumber == pet.ChipNumber {
			return utils.ErrDuplicateChip
		}
	}

	pet.ID = uuid.New()
	pet.CreatedAt = m.nextSeq()
	m.pets[pet.ID] = pet

	credit.Status = db_models.CreditStatusConsumed
	petID := pet.ID
	credit.ConsumedByPetID = &petID
	return nil
}

func (m *memStore) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pet, ok := m.pets[id]
	if !ok {
		return nil, nil
	}
	cp := *pet
	return &cp, nil
}

func (m *memStore) FindByChipNumber(ctx context.Context, chipNumber string) (*db_models.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pet := range m.pets {
		if pet.ChipNumber == chipNumber {
			cp := *pet
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]db_models.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []db_models.Pet
	for _, pet := range m.pets {
		if pet.OwnerUserID == ownerUserID {
			out = append(out, *pet)
		}
	}
	return out, nil
}

// ---- TransferRepository

func (m *memStore) CreatePending(ctx context.Context, transfer *db_models.TransferRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.transfers {
		if t.PetID == transfer.PetID && t.Pending() {
			return utils.ErrTransferAlreadyPending
		}
	}
	transfer.ID = uuid.New()
	transfer.CreatedAt = m.nextSeq()
	transfer.Status = db_models.TransferStatusPending
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *memStore) FindTransferByID(ctx context.Context, id uuid.UUID) (*db_models.TransferRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.transfers[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.TransferRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []db_models.TransferRequest
	for _, t := range m.transfers {
		if t.FromUserID == userID || t.ToUserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) HasPayment(ctx context.Context, transferRequestID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.payments {
		if p.TransferRequestID == transferRequestID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Reject(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.transfers[id]
	if !ok || !t.Pending() {
		return utils.ErrTransferNotPending
	}
	t.Status = db_models.TransferStatusRejected
	return nil
}

func (m *memStore) Complete(ctx context.Context, payment *db_models.TransferPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.transfers[payment.TransferRequestID]
	if !ok {
		return utils.ErrTransferNotFound
	}
	if !t.Pending() {
		return nil
	}
	for _, p := range m.payments {
		if p.TransferRequestID == payment.TransferRequestID ||
			p.ExternalPaymentReference == payment.ExternalPaymentReference {
			return nil
		}
	}

	payment.ID = uuid.New()
	payment.CreatedAt = m.nextSeq()
	m.payments = append(m.payments, payment)

	t.Status = db_models.TransferStatusAccepted
	if pet, ok := m.pets[t.PetID]; ok {
		pet.OwnerUserID = t.ToUserID
	}
	return nil
}

// -------------------------
// Interface adapters
// -------------------------

// The store carries every table, but two Insert methods cannot share a name
// on one type; thin views give each repository interface its own receiver.

type memCreditRepo struct{ *memStore }

func (r memCreditRepo) Insert(ctx context.Context, credit *db_models.RegistrationCredit) error {
	return r.InsertCredit(ctx, credit)
}

type memPromoRepo struct{ *memStore }

func (r memPromoRepo) Insert(ctx context.Context, promo *db_models.PromoCode) error {
	return r.InsertPromo(ctx, promo)
}

type memTransferRepo struct{ *memStore }

func (r memTransferRepo) FindByID(ctx context.Context, id uuid.UUID) (*db_models.TransferRequest, error) {
	return r.FindTransferByID(ctx, id)
}

type memAccountRepo struct{ *memStore }

// -------------------------
// Test fixture helpers
// -------------------------

func (m *memStore) addAccount(email string, active, verified bool) *db_models.Account {
	account := &db_models.Account{
		Name:       email,
		Email:      email,
		IsActive:   active,
		IsVerified: verified,
	}
	if err := m.Insert(context.Background(), account); err != nil {
		panic(err)
	}
	return account
}

func (m *memStore) addCredit(userID uuid.UUID, reference string) *db_models.RegistrationCredit {
	credit := &db_models.RegistrationCredit{
		OwnerUserID:              userID,
		ExternalPaymentReference: reference,
		Status:                   db_models.CreditStatusAvailable,
	}
	if err := m.InsertCredit(context.Background(), credit); err != nil {
		panic(err)
	}
	return credit
}

func (m *memStore) addPromo(code string, maxUses *int64) *db_models.PromoCode {
	promo := &db_models.PromoCode{Code: code, MaxUses: maxUses}
	if err := m.InsertPromo(context.Background(), promo); err != nil {
		panic(err)
	}
	return promo
}

func (m *memStore) addPet(ownerID uuid.UUID, chip string) *db_models.Pet {
	m.addCredit(ownerID, "seed:"+chip)
	pet := &db_models.Pet{
		OwnerUserID: ownerID,
		Name:        "Pet " + chip,
		Species:     "dog",
		ChipNumber:  chip,
	}
	if err := m.CreateWithCredit(context.Background(), pet); err != nil {
		panic(err)
	}
	return pet
}

func (m *memStore) paymentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

func (m *memStore) creditCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.credits)
}

func int64Ptr(v int64) *int64 { return &v }

// -------------------------
// Fake payment provider
// -------------------------

var errUnknownSession = errors.New("fake provider: unknown session")

type fakeProvider struct {
	mu           sync.Mutex
	unconfigured bool
	nextID       int
	sessions     map[string]*payments.CheckoutSession
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]*payments.CheckoutSession{}}
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, p payments.CheckoutParams) (*payments.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unconfigured {
		return nil, payments.ErrNotConfigured
	}

	f.nextID++
	id := fmt.Sprintf("cs_test_%03d", f.nextID)

	meta := make(map[string]string, len(p.Metadata))
	for k, v := range p.Metadata {
		meta[k] = v
	}
	sess := &payments.CheckoutSession{
		ID:          id,
		URL:         "https://checkout.test/" + id,
		Paid:        false,
		AmountMinor: p.AmountMinor,
		Currency:    p.Currency,
		Metadata:    meta,
	}
	f.sessions[id] = sess

	cp := *sess
	return &cp, nil
}

func (f *fakeProvider) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*payments.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unconfigured {
		return nil, payments.ErrNotConfigured
	}

	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, errUnknownSession
	}
	cp := *sess
	return &cp, nil
}

// VerifyWebhook treats the payload as a bare session id and accepts only the
// signature "sig_valid".
func (f *fakeProvider) VerifyWebhook(payload []byte, signatureHeader string) (*payments.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unconfigured {
		return nil, payments.ErrNotConfigured
	}
	if signatureHeader != "sig_valid" {
		return nil, payments.ErrInvalidSignature
	}

	sess, ok := f.sessions[string(payload)]
	if !ok {
		return nil, errUnknownSession
	}
	cp := *sess
	return &cp, nil
}

func (f *fakeProvider) markPaid(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sess, ok := f.sessions[sessionID]; ok {
		sess.Paid = true
	}
}

func (f *fakeProvider) sessionID(n int) string {
	return fmt.Sprintf("cs_test_%03d", n)
}
