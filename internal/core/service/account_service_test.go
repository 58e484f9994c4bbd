package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/contabank/ledger-api/internal/core/domain"
	"github.com/contabank/ledger-api/internal/core/ports"
)

// memStore is an in-memory stand-in for the Mongo repositories. Its TxRunner
// snapshots all state before the transactional function runs and restores it
// on error, mimicking a rolled-back transaction.
type memStore struct {
	seq       int
	clients   map[string]*domain.Client
	accounts  map[string]*domain.Account
	movements map[string]*domain.Movement

	failAccountInsert bool
	failBalanceUpdate bool
	failClientDelete  bool
}

func newMemStore() *memStore {
	return &memStore{
		clients:   make(map[string]*domain.Client),
		accounts:  make(map[string]*domain.Account),
		movements: make(map[string]*domain.Movement),
	}
}

func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id-%04d", s.seq)
}

func (s *memStore) snapshot() (map[string]*domain.Client, map[string]*domain.Account, map[string]*domain.Movement) {
	clients := make(map[string]*domain.Client, len(s.clients))
	for k, v := range s.clients {
		clone := *v
		clients[k] = &clone
	}
	accounts := make(map[string]*domain.Account, len(s.accounts))
	for k, v := range s.accounts {
		clone := *v
		accounts[k] = &clone
	}
	movements := make(map[string]*domain.Movement, len(s.movements))
	for k, v := range s.movements {
		clone := *v
		movements[k] = &clone
	}
	return clients, accounts, movements
}

type memTx struct{ s *memStore }

func (t memTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	clients, accounts, movements := t.s.snapshot()
	if err := fn(ctx); err != nil {
		t.s.clients, t.s.accounts, t.s.movements = clients, accounts, movements
		return err
	}
	return nil
}

type memAccounts struct{ s *memStore }

func (r memAccounts) FindAll(_ context.Context) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (r memAccounts) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if r.s.failAccountInsert {
		return nil, errors.New("insert account: connection reset")
	}
	clone := *account
	clone.ID = r.s.nextID()
	r.s.accounts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r memAccounts) UpdateBalance(_ context.Context, account *domain.Account) error {
	if r.s.failBalanceUpdate {
		return errors.New("update balance: connection reset")
	}
	stored, ok := r.s.accounts[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	stored.Balance = account.Balance
	return nil
}

func (r memAccounts) Delete(_ context.Context, id string) error {
	if _, ok := r.s.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.s.accounts, id)
	return nil
}

type memClients struct{ s *memStore }

func (r memClients) ExistsByTaxID(_ context.Context, taxID string) (bool, error) {
	for _, c := range r.s.clients {
		if c.TaxID == taxID {
			return true, nil
		}
	}
	return false, nil
}

func (r memClients) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	return &clone, nil
}

func (r memClients) Create(_ context.Context, client *domain.Client) (*domain.Client, error) {
	clone := *client
	clone.ID = r.s.nextID()
	r.s.clients[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r memClients) Rename(_ context.Context, id, name string) error {
	c, ok := r.s.clients[id]
	if !ok {
		return domain.ErrClientNotFound
	}
	c.Name = name
	return nil
}

func (r memClients) Delete(_ context.Context, id string) error {
	if r.s.failClientDelete {
		return errors.New("delete client: still referenced")
	}
	if _, ok := r.s.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.s.clients, id)
	return nil
}

type memMovements struct{ s *memStore }

func (r memMovements) Create(_ context.Context, movement *domain.Movement) (*domain.Movement, error) {
	clone := *movement
	clone.ID = r.s.nextID()
	r.s.movements[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r memMovements) FindByID(_ context.Context, id string) (*domain.Movement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, domain.ErrMovementNotFound
	}
	clone := *m
	return &clone, nil
}

func (r memMovements) FindByAccountID(_ context.Context, accountID string) ([]*domain.Movement, error) {
	out := make([]*domain.Movement, 0)
	for _, m := range r.s.movements {
		if m.AccountID == accountID {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memMovements) DeleteByAccountID(_ context.Context, accountID string) error {
	for id, m := range r.s.movements {
		if m.AccountID == accountID {
			delete(r.s.movements, id)
		}
	}
	return nil
}

type memDedup struct {
	keys map[string]string
}

func (d *memDedup) Seen(_ context.Context, key string) (string, bool, error) {
	id, ok := d.keys[key]
	return id, ok, nil
}

func (d *memDedup) Mark(_ context.Context, key, movementID string) error {
	d.keys[key] = movementID
	return nil
}

func newTestLedger() (*AccountService, *memStore) {
	s := newMemStore()
	svc := NewAccountService(memAccounts{s}, memClients{s}, memMovements{s}, memTx{s}, nil, zerolog.Nop())
	return svc, s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustCreate(t *testing.T, svc *AccountService, name, taxID, balance string) *domain.Account {
	t.Helper()
	account, err := svc.Create(context.Background(), ports.CreateAccountInput{
		Name:           name,
		TaxID:          taxID,
		InitialBalance: dec(balance),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func TestAccountService_Create(t *testing.T) {
	svc, store := newTestLedger()

	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")

	if account.ID == "" || account.ClientID == "" {
		t.Fatalf("expected ids assigned, got %+v", account)
	}
	if !account.Balance.Equal(dec("100.00")) {
		t.Fatalf("expected balance 100.00, got %s", account.Balance)
	}
	if account.Titular != "Ana (CPF: 12345678901)" {
		t.Fatalf("unexpected titular: %q", account.Titular)
	}
	if len(store.clients) != 1 || len(store.accounts) != 1 {
		t.Fatalf("expected one client and one account, got %d/%d", len(store.clients), len(store.accounts))
	}
}

func TestAccountService_Create_DuplicateTaxID(t *testing.T) {
	svc, store := newTestLedger()
	mustCreate(t, svc, "Ana", "12345678901", "100.00")

	_, err := svc.Create(context.Background(), ports.CreateAccountInput{
		Name:           "Maria",
		TaxID:          "12345678901",
		InitialBalance: dec("50.00"),
	})
	if !errors.Is(err, domain.ErrDuplicateTaxID) {
		t.Fatalf("expected ErrDuplicateTaxID, got %v", err)
	}
	if len(store.clients) != 1 || len(store.accounts) != 1 {
		t.Fatalf("duplicate create must not add records, got %d/%d", len(store.clients), len(store.accounts))
	}
}

func TestAccountService_Create_Atomic(t *testing.T) {
	svc, store := newTestLedger()
	store.failAccountInsert = true

	_, err := svc.Create(context.Background(), ports.CreateAccountInput{
		Name:           "Ana",
		TaxID:          "12345678901",
		InitialBalance: dec("100.00"),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	// The client created inside the failed transaction must be gone.
	if len(store.clients) != 0 || len(store.accounts) != 0 {
		t.Fatalf("expected rollback, got %d clients %d accounts", len(store.clients), len(store.accounts))
	}
}

func TestAccountService_Deposit(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")

	movement, err := svc.Deposit(context.Background(), ports.MovementInput{
		AccountID: account.ID,
		Amount:    dec("50.00"),
	})
	if err != nil {
		t.Fatalf("Deposit returned error: %v", err)
	}
	if movement.Kind != domain.KindDeposit || !movement.Amount.Equal(dec("50.00")) {
		t.Fatalf("unexpected movement: %+v", movement)
	}

	stored := store.accounts[account.ID]
	if !stored.Balance.Equal(dec("150.00")) {
		t.Fatalf("expected balance 150.00, got %s", stored.Balance)
	}
	if len(store.movements) != 1 {
		t.Fatalf("expected one movement, got %d", len(store.movements))
	}
}

func TestAccountService_Deposit_UnknownAccount(t *testing.T) {
	svc, _ := newTestLedger()

	_, err := svc.Deposit(context.Background(), ports.MovementInput{AccountID: "missing", Amount: dec("10")})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_Withdraw(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")

	movement, err := svc.Withdraw(context.Background(), ports.MovementInput{
		AccountID: account.ID,
		Amount:    dec("40.00"),
	})
	if err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	if movement.Kind != domain.KindWithdrawal {
		t.Fatalf("unexpected kind: %s", movement.Kind)
	}
	if !store.accounts[account.ID].Balance.Equal(dec("60.00")) {
		t.Fatalf("expected balance 60.00, got %s", store.accounts[account.ID].Balance)
	}
}

func TestAccountService_Withdraw_ExactBalance(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "80.00")

	if _, err := svc.Withdraw(context.Background(), ports.MovementInput{
		AccountID: account.ID,
		Amount:    dec("80.00"),
	}); err != nil {
		t.Fatalf("withdrawing the full balance must succeed: %v", err)
	}
	if !store.accounts[account.ID].Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", store.accounts[account.ID].Balance)
	}
}

func TestAccountService_Withdraw_InsufficientFunds(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "30.00")

	_, err := svc.Withdraw(context.Background(), ports.MovementInput{
		AccountID: account.ID,
		Amount:    dec("50.00"),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if !strings.Contains(err.Error(), "30.00") {
		t.Fatalf("expected current balance in error, got %q", err.Error())
	}
	if !store.accounts[account.ID].Balance.Equal(dec("30.00")) {
		t.Fatalf("balance must be untouched, got %s", store.accounts[account.ID].Balance)
	}
	if len(store.movements) != 0 {
		t.Fatalf("no movement may be recorded, got %d", len(store.movements))
	}
}

// interleavingTx lets a competing mutation commit after the transaction is
// requested but before its callback runs, modelling a concurrent writer
// winning the race.
type interleavingTx struct {
	memTx
	before func()
}

func (t *interleavingTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.before != nil {
		b := t.before
		t.before = nil
		b()
	}
	return t.memTx.WithinTransaction(ctx, fn)
}

// retryTx aborts the first successful attempt and reruns the callback, the
// way the driver retries a transaction after a transient write conflict.
type retryTx struct {
	s       *memStore
	retried bool
	between func()
}

func (t *retryTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	for {
		clients, accounts, movements := t.s.snapshot()
		err := fn(ctx)
		if err != nil {
			t.s.clients, t.s.accounts, t.s.movements = clients, accounts, movements
			return err
		}
		if t.retried {
			return nil
		}
		t.retried = true
		t.s.clients, t.s.accounts, t.s.movements = clients, accounts, movements
		if t.between != nil {
			t.between()
		}
	}
}

func TestAccountService_Withdraw_ConcurrentWithdrawal(t *testing.T) {
	s := newMemStore()
	tx := &interleavingTx{memTx: memTx{s: s}}
	svc := NewAccountService(memAccounts{s}, memClients{s}, memMovements{s}, tx, nil, zerolog.Nop())
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")

	// A competing 80.00 withdrawal commits before this transaction's
	// callback runs. The funds check must see the committed 20.00, not
	// the 100.00 from before the transaction started.
	tx.before = func() {
		other := NewAccountService(memAccounts{s}, memClients{s}, memMovements{s}, memTx{s}, nil, zerolog.Nop())
		if _, err := other.Withdraw(context.Background(), ports.MovementInput{AccountID: account.ID, Amount: dec("80.00")}); err != nil {
			t.Fatalf("competing withdrawal: %v", err)
		}
	}

	_, err := svc.Withdraw(context.Background(), ports.MovementInput{AccountID: account.ID, Amount: dec("80.00")})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if !s.accounts[account.ID].Balance.Equal(dec("20.00")) {
		t.Fatalf("expected balance 20.00, got %s", s.accounts[account.ID].Balance)
	}
	movements, err := svc.Statement(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Statement returned error: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected a single movement, got %d", len(movements))
	}
	if replayed := ReplayBalance(dec("100.00"), movements); !replayed.Equal(s.accounts[account.ID].Balance) {
		t.Fatalf("replayed %s != stored %s", replayed, s.accounts[account.ID].Balance)
	}
}

func TestAccountService_Withdraw_RetriedTransaction(t *testing.T) {
	s := newMemStore()
	tx := &retryTx{s: s}
	svc := NewAccountService(memAccounts{s}, memClients{s}, memMovements{s}, tx, nil, zerolog.Nop())
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")
	tx.retried = false

	// The first attempt is aborted as a write conflict; an 80.00
	// withdrawal commits before the retry. The rerun callback must read
	// the new balance instead of reapplying a stale one.
	tx.between = func() {
		other := NewAccountService(memAccounts{s}, memClients{s}, memMovements{s}, memTx{s}, nil, zerolog.Nop())
		if _, err := other.Withdraw(context.Background(), ports.MovementInput{AccountID: account.ID, Amount: dec("80.00")}); err != nil {
			t.Fatalf("competing withdrawal: %v", err)
		}
	}

	_, err := svc.Withdraw(context.Background(), ports.MovementInput{AccountID: account.ID, Amount: dec("80.00")})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if !s.accounts[account.ID].Balance.Equal(dec("20.00")) {
		t.Fatalf("expected balance 20.00, got %s", s.accounts[account.ID].Balance)
	}
	movements, err := svc.Statement(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Statement returned error: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected a single movement, got %d", len(movements))
	}
	if replayed := ReplayBalance(dec("100.00"), movements); !replayed.Equal(s.accounts[account.ID].Balance) {
		t.Fatalf("replayed %s != stored %s", replayed, s.accounts[account.ID].Balance)
	}
}

func TestAccountService_Movement_AtomicRollback(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")
	store.failBalanceUpdate = true

	_, err := svc.Deposit(context.Background(), ports.MovementInput{
		AccountID: account.ID,
		Amount:    dec("50.00"),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	// A failure after the movement insert must leave neither side applied.
	if len(store.movements) != 0 {
		t.Fatalf("movement must be rolled back, got %d", len(store.movements))
	}
	if !store.accounts[account.ID].Balance.Equal(dec("100.00")) {
		t.Fatalf("balance must be untouched, got %s", store.accounts[account.ID].Balance)
	}
}

func TestAccountService_Movement_IdempotentReplay(t *testing.T) {
	s := newMemStore()
	dedup := &memDedup{keys: make(map[string]string)}
	svc := NewAccountService(memAccounts{s}, memClients{s}, memMovements{s}, memTx{s}, dedup, zerolog.Nop())
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")

	input := ports.MovementInput{AccountID: account.ID, Amount: dec("25.00"), IdempotencyKey: "req-1"}
	first, err := svc.Deposit(context.Background(), input)
	if err != nil {
		t.Fatalf("first deposit: %v", err)
	}
	second, err := svc.Deposit(context.Background(), input)
	if err != nil {
		t.Fatalf("replayed deposit: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("replay must return the original movement, got %s and %s", first.ID, second.ID)
	}
	if !s.accounts[account.ID].Balance.Equal(dec("125.00")) {
		t.Fatalf("replay must not apply twice, balance %s", s.accounts[account.ID].Balance)
	}
	if len(s.movements) != 1 {
		t.Fatalf("expected a single movement, got %d", len(s.movements))
	}
}

func TestAccountService_Statement(t *testing.T) {
	svc, _ := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")

	for _, amount := range []string{"10.00", "20.00", "30.00"} {
		if _, err := svc.Deposit(context.Background(), ports.MovementInput{AccountID: account.ID, Amount: dec(amount)}); err != nil {
			t.Fatalf("deposit %s: %v", amount, err)
		}
		time.Sleep(time.Millisecond)
	}

	movements, err := svc.Statement(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Statement returned error: %v", err)
	}
	if len(movements) != 3 {
		t.Fatalf("expected 3 movements, got %d", len(movements))
	}
	// Most recent first.
	if !movements[0].Amount.Equal(dec("30.00")) || !movements[2].Amount.Equal(dec("10.00")) {
		t.Fatalf("unexpected order: %s, %s, %s", movements[0].Amount, movements[1].Amount, movements[2].Amount)
	}

	// Idempotent: a second call with no intervening mutation is identical.
	again, err := svc.Statement(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Statement returned error: %v", err)
	}
	if len(again) != len(movements) {
		t.Fatalf("expected identical result, got %d and %d", len(movements), len(again))
	}
	for i := range movements {
		if movements[i].ID != again[i].ID {
			t.Fatalf("order changed between calls at %d: %s vs %s", i, movements[i].ID, again[i].ID)
		}
	}
}

func TestAccountService_Statement_UnknownAccount(t *testing.T) {
	svc, _ := newTestLedger()

	if _, err := svc.Statement(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_ReplayInvariant(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")

	ops := []struct {
		kind   domain.MovementKind
		amount string
	}{
		{domain.KindDeposit, "50.00"},
		{domain.KindWithdrawal, "30.00"},
		{domain.KindDeposit, "12.34"},
		{domain.KindWithdrawal, "100.00"},
	}
	for _, op := range ops {
		input := ports.MovementInput{AccountID: account.ID, Amount: dec(op.amount)}
		var err error
		if op.kind == domain.KindDeposit {
			_, err = svc.Deposit(context.Background(), input)
		} else {
			_, err = svc.Withdraw(context.Background(), input)
		}
		if err != nil {
			t.Fatalf("%s %s: %v", op.kind, op.amount, err)
		}
		time.Sleep(time.Millisecond)
	}

	movements, err := svc.Statement(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Statement returned error: %v", err)
	}

	// Replaying the log in ascending order against the opening balance must
	// reproduce the stored balance exactly.
	replayed := ReplayBalance(dec("100.00"), movements)
	stored := store.accounts[account.ID].Balance
	if !replayed.Equal(stored) {
		t.Fatalf("replayed %s != stored %s", replayed, stored)
	}
	if !stored.Equal(dec("32.34")) {
		t.Fatalf("expected stored balance 32.34, got %s", stored)
	}
}

func TestAccountService_Delete(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")
	for i := 0; i < 3; i++ {
		if _, err := svc.Deposit(context.Background(), ports.MovementInput{AccountID: account.ID, Amount: dec("10.00")}); err != nil {
			t.Fatalf("deposit: %v", err)
		}
	}

	if err := svc.Delete(context.Background(), account.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := svc.Statement(context.Background(), account.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound after delete, got %v", err)
	}
	if len(store.movements) != 0 {
		t.Fatalf("movements must be purged, got %d", len(store.movements))
	}
	if len(store.clients) != 0 {
		t.Fatalf("client must be deleted, got %d", len(store.clients))
	}
}

func TestAccountService_Delete_ToleratesClientFailure(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")
	store.failClientDelete = true

	if err := svc.Delete(context.Background(), account.ID); err != nil {
		t.Fatalf("client deletion failure must not propagate: %v", err)
	}
	if len(store.accounts) != 0 {
		t.Fatalf("account must be gone, got %d", len(store.accounts))
	}
	if len(store.clients) != 1 {
		t.Fatalf("client expected to survive, got %d", len(store.clients))
	}
}

func TestAccountService_Delete_UnknownAccount(t *testing.T) {
	svc, _ := newTestLedger()

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_Update(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")

	balance := dec("500.00")
	titular := "Ana Maria (CPF: 12345678901)"
	updated, err := svc.Update(context.Background(), account.ID, ports.UpdateAccountInput{
		Balance: &balance,
		Titular: &titular,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if !updated.Balance.Equal(dec("500.00")) {
		t.Fatalf("expected balance 500.00, got %s", updated.Balance)
	}
	// The CPF annotation is stripped; only the bare name is stored.
	if store.clients[account.ClientID].Name != "Ana Maria" {
		t.Fatalf("expected renamed client, got %q", store.clients[account.ClientID].Name)
	}
	if updated.Titular != "Ana Maria (CPF: 12345678901)" {
		t.Fatalf("unexpected titular: %q", updated.Titular)
	}
	// Administrative correction: no movement is recorded.
	if len(store.movements) != 0 {
		t.Fatalf("update must not record movements, got %d", len(store.movements))
	}
}

func TestAccountService_Update_RequiresBalance(t *testing.T) {
	svc, _ := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")

	if _, err := svc.Update(context.Background(), account.ID, ports.UpdateAccountInput{}); !errors.Is(err, domain.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
}

func TestAccountService_UpdatePartial(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")

	titular := "Beatriz"
	if _, err := svc.UpdatePartial(context.Background(), account.ID, ports.UpdateAccountInput{Titular: &titular}); err != nil {
		t.Fatalf("UpdatePartial returned error: %v", err)
	}
	if store.clients[account.ClientID].Name != "Beatriz" {
		t.Fatalf("expected rename, got %q", store.clients[account.ClientID].Name)
	}
	if !store.accounts[account.ID].Balance.Equal(dec("100.00")) {
		t.Fatalf("balance must be untouched, got %s", store.accounts[account.ID].Balance)
	}

	balance := dec("77.00")
	if _, err := svc.UpdatePartial(context.Background(), account.ID, ports.UpdateAccountInput{Balance: &balance}); err != nil {
		t.Fatalf("UpdatePartial returned error: %v", err)
	}
	if !store.accounts[account.ID].Balance.Equal(dec("77.00")) {
		t.Fatalf("expected balance 77.00, got %s", store.accounts[account.ID].Balance)
	}
	if store.clients[account.ClientID].Name != "Beatriz" {
		t.Fatalf("name must be untouched, got %q", store.clients[account.ClientID].Name)
	}
}

func TestAccountService_List(t *testing.T) {
	svc, _ := newTestLedger()
	mustCreate(t, svc, "Ana", "12345678901", "100.00")
	mustCreate(t, svc, "Maria", "98765432100", "200.00")

	accounts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	for _, a := range accounts {
		if !strings.Contains(a.Titular, "(CPF: ") {
			t.Fatalf("expected titular label, got %q", a.Titular)
		}
	}
}

func TestAccountService_Get_MissingClient(t *testing.T) {
	svc, store := newTestLedger()
	account := mustCreate(t, svc, "Ana", "12345678901", "100.00")
	delete(store.clients, account.ClientID)

	got, err := svc.Get(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Titular != domain.TitularMissing {
		t.Fatalf("expected placeholder titular, got %q", got.Titular)
	}
}
