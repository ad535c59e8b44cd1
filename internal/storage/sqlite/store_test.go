package sqlite

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "unify.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func beginBatch(t *testing.T, store *Store) *Batch {
	t.Helper()
	batch, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin batch: %v", err)
	}
	t.Cleanup(func() { _ = batch.Rollback() })
	return batch
}

func testPerson(id string) canon.Person {
	return canon.Person{
		ID:        id,
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     "ana@example.com",
		Phone:     "555-0001",
		City:      "Lima",
		Country:   "Peru",
		Devices:   canon.NewDeviceSet(canon.DeviceAndroid),
		Sources:   canon.NewTagSet(canon.SourceObjectList),
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(" "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestUpsertPersonCreateThenUpdate(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	batch := beginBatch(t, store)
	created, err := batch.UpsertPerson(ctx, testPerson("0001"))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Error("first upsert reported update, want create")
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// A later batch carries a changed city and a different device: the
	// scalar is replaced, the device set grows.
	update := testPerson("0001")
	update.City = "Cusco"
	update.Devices = canon.NewDeviceSet(canon.DeviceDesktop)
	update.Sources = canon.NewTagSet(canon.SourceObjectList, canon.SourceFlat)

	batch = beginBatch(t, store)
	created, err = batch.UpsertPerson(ctx, update)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("second upsert reported create, want update")
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := store.Person(ctx, "0001")
	if err != nil {
		t.Fatalf("get person: %v", err)
	}
	if got.City != "Cusco" {
		t.Errorf("city = %q, want Cusco", got.City)
	}
	want := canon.NewDeviceSet(canon.DeviceAndroid, canon.DeviceDesktop)
	if !got.Devices.Equal(want) {
		t.Errorf("devices = %v, want %v", got.Devices.List(), want.List())
	}
	if got.Sources.Label() != "both" {
		t.Errorf("sources label = %q, want both", got.Sources.Label())
	}
}

func TestUpsertPersonEmptyContactStoredAsNull(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	batch := beginBatch(t, store)

	// Two people with no email and no phone must not collide on the
	// unique contact columns.
	for _, id := range []string{"0001", "0002"} {
		person := testPerson(id)
		person.Email = ""
		person.Phone = ""
		if _, err := batch.UpsertPerson(ctx, person); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestUpsertPersonDuplicateEmailRejected(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	batch := beginBatch(t, store)

	if _, err := batch.UpsertPerson(ctx, testPerson("0001")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	other := testPerson("0002")
	other.Phone = "555-0002"

	_, err := batch.UpsertPerson(ctx, other)
	if !errors.IsStoreConstraint(err) {
		t.Fatalf("err = %v, want store constraint", err)
	}
	var constraintErr *errors.StoreConstraintError
	if !stderrors.As(err, &constraintErr) || constraintErr.Constraint != "unique" {
		t.Errorf("constraint = %+v, want unique on people", constraintErr)
	}
}

func TestPersonLookupByContact(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	batch := beginBatch(t, store)

	if _, err := batch.UpsertPerson(ctx, testPerson("0001")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Lookups inside the batch see uncommitted writes.
	id, err := batch.PersonIDByPhone(ctx, "555-0001")
	if err != nil || id != "0001" {
		t.Errorf("by phone: id=%q err=%v", id, err)
	}
	id, err = batch.PersonIDByEmail(ctx, "ana@example.com")
	if err != nil || id != "0001" {
		t.Errorf("by email: id=%q err=%v", id, err)
	}
	if _, err := batch.PersonIDByPhone(ctx, "555-9999"); !errors.IsNotFound(err) {
		t.Errorf("unknown phone err = %v, want not found", err)
	}
	if _, err := batch.PersonIDByEmail(ctx, ""); !errors.IsNotFound(err) {
		t.Errorf("empty email err = %v, want not found", err)
	}
}

func TestInsertTransactionRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	batch := beginBatch(t, store)

	if _, err := batch.UpsertPerson(ctx, testPerson("0001")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	txn := canon.Transaction{
		ID:        "T-1",
		PersonID:  "0001",
		ClientRef: "555-0001",
		Store:     "Market",
		Timestamp: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
		Items: []canon.TransactionItem{
			{TransactionID: "T-1", Seq: 0, Name: "bread", UnitPrice: 2.5, LineTotal: 5, Quantity: 2},
			{TransactionID: "T-1", Seq: 1, Name: "milk", UnitPrice: 1.5, LineTotal: 1.5, Quantity: 1},
		},
	}
	if err := batch.InsertTransaction(ctx, txn); err != nil {
		t.Fatalf("insert transaction: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Transactions != 1 || counts.TransactionItems != 2 {
		t.Errorf("counts = %+v, want 1 transaction / 2 items", counts)
	}
}

func TestInsertTransactionReIngestionIsNoOp(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	batch := beginBatch(t, store)

	if _, err := batch.UpsertPerson(ctx, testPerson("0001")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	txn := canon.Transaction{
		ID:       "T-1",
		PersonID: "0001",
		Store:    "Market",
		Items: []canon.TransactionItem{
			{TransactionID: "T-1", Seq: 0, Name: "bread", UnitPrice: 2.5, LineTotal: 5, Quantity: 2},
		},
	}
	if err := batch.InsertTransaction(ctx, txn); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := batch.InsertTransaction(ctx, txn); err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Transactions != 1 || counts.TransactionItems != 1 {
		t.Errorf("counts = %+v, want 1 transaction / 1 item after re-ingestion", counts)
	}
}

func TestInsertTransactionDropsStaleItems(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	batch := beginBatch(t, store)

	if _, err := batch.UpsertPerson(ctx, testPerson("0001")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	first := canon.Transaction{
		ID:       "T-1",
		PersonID: "0001",
		Store:    "Market",
		Items: []canon.TransactionItem{
			{TransactionID: "T-1", Seq: 0, Name: "bread", Quantity: 2},
			{TransactionID: "T-1", Seq: 1, Name: "milk", Quantity: 1},
		},
	}
	if err := batch.InsertTransaction(ctx, first); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	// The same transaction arrives again with a shorter item set: the
	// old rows must not survive alongside the new ones.
	second := first
	second.Items = []canon.TransactionItem{
		{TransactionID: "T-1", Seq: 0, Name: "bread", Quantity: 2},
	}
	if err := batch.InsertTransaction(ctx, second); err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.TransactionItems != 1 {
		t.Errorf("item rows = %d, want 1 after re-ingestion", counts.TransactionItems)
	}
}

func TestInsertTransactionUnknownPersonRejected(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	batch := beginBatch(t, store)

	err := batch.InsertTransaction(context.Background(), canon.Transaction{
		ID:       "T-1",
		PersonID: "no-such-person",
	})
	if !errors.IsStoreConstraint(err) {
		t.Fatalf("err = %v, want store constraint", err)
	}
}

func TestInsertTransferAndPromotion(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	batch := beginBatch(t, store)

	for _, id := range []string{"0001", "0002"} {
		person := testPerson(id)
		person.Email = id + "@example.com"
		person.Phone = "555-" + id
		if _, err := batch.UpsertPerson(ctx, person); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	transfer := canon.Transfer{
		ID:          "X-1",
		SenderID:    "0001",
		RecipientID: "0002",
		Amount:      25.75,
		Date:        time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
	}
	if err := batch.InsertTransfer(ctx, transfer); err != nil {
		t.Fatalf("insert transfer: %v", err)
	}

	promo := canon.Promotion{
		ID:        "P-1",
		PersonID:  "0002",
		ClientRef: "0002@example.com",
		Item:      "coupon",
		Responded: true,
	}
	if err := batch.InsertPromotion(ctx, promo); err != nil {
		t.Fatalf("insert promotion: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Transfers != 1 || counts.Promotions != 1 {
		t.Errorf("counts = %+v, want 1 transfer / 1 promotion", counts)
	}
}

func TestRollbackDiscardsBatch(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	batch, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := batch.UpsertPerson(ctx, testPerson("0001")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := batch.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	if _, err := store.Person(ctx, "0001"); !errors.IsNotFound(err) {
		t.Errorf("err = %v, want not found after rollback", err)
	}
}
