package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/dossier-issuance/internal/adapter/postgres"
	"github.com/heartmarshall/dossier-issuance/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// districtExists checks whether a district row with the given ID exists in the database.
func districtExists(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM districts WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("districtExists query: %v", err)
	}
	return exists
}

func insertDistrict(ctx context.Context, q postgres.Querier, id uuid.UUID) error {
	_, err := q.Exec(ctx,
		`INSERT INTO districts (id, slug, name) VALUES ($1, $2, $3)`,
		id, "tx-"+id.String()[:8], "Tx District",
	)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertDistrict(ctx, postgres.QuerierFromCtx(ctx, pool), id)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !districtExists(t, pool, id) {
		t.Fatal("expected district to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if execErr := insertDistrict(ctx, postgres.QuerierFromCtx(ctx, pool), id); execErr != nil {
			t.Fatalf("insert inside tx failed: %v", execErr)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if districtExists(t, pool, id) {
		t.Fatal("expected district NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}

		if districtExists(t, pool, id) {
			t.Fatal("expected district NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertDistrict(ctx, postgres.QuerierFromCtx(ctx, pool), id); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if !postgres.InTx(ctx) {
			t.Fatal("expected InTx to report true inside RunInTx")
		}
		q := postgres.QuerierFromCtx(ctx, pool)
		if err := insertDistrict(ctx, q, id); err != nil {
			return err
		}

		// Visible within the transaction, not yet outside it.
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM districts WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			t.Fatal("expected district to be visible within the transaction")
		}
		if districtExists(t, pool, id) {
			t.Fatal("expected district to be invisible outside the transaction before commit")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !districtExists(t, pool, id) {
		t.Fatal("expected district to exist after committed transaction")
	}
}

func TestRunInTx_LockTimeoutSetLocally(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool, postgres.WithLockTimeout(1500*time.Millisecond))

	var setting string
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return postgres.QuerierFromCtx(ctx, pool).QueryRow(ctx, `SHOW lock_timeout`).Scan(&setting)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}
	if setting != "1500ms" {
		t.Fatalf("expected lock_timeout 1500ms inside tx, got %q", setting)
	}
}

func TestAcquireXactLock_TimesOut(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool, postgres.WithLockTimeout(200*time.Millisecond))
	key := "test|" + uuid.NewString()

	held := make(chan struct{})
	release := make(chan struct{})
	holderDone := make(chan error, 1)

	go func() {
		holderDone <- tm.RunInTx(context.Background(), func(ctx context.Context) error {
			if err := postgres.AcquireXactLock(ctx, key); err != nil {
				return err
			}
			close(held)
			<-release
			return nil
		})
	}()

	<-held
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return postgres.AcquireXactLock(ctx, key)
	})
	close(release)

	if !errors.Is(err, domain.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got: %v", err)
	}
	if hErr := <-holderDone; hErr != nil {
		t.Fatalf("holder transaction failed: %v", hErr)
	}
}

func TestAcquireXactLock_OutsideTx(t *testing.T) {
	if err := postgres.AcquireXactLock(context.Background(), "k"); err == nil {
		t.Fatal("expected error outside a transaction")
	}
}
