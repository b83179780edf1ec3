package zombiezen

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/migrations"
)

// newTestDB creates a new in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *Db {
	t.Helper()

	pool, err := sqlitex.NewPool("file::memory:", sqlitex.PoolOptions{
		PoolSize: 1,
	})
	if err != nil {
		t.Fatalf("failed to create db pool: %v", err)
	}

	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("failed to close db pool: %v", err)
		}
	})

	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("failed to get db connection: %v", err)
	}
	defer pool.Put(conn)

	if err := ApplyMigrations(conn, migrations.Schema()); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	testDB, err := New(pool)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	return testDB
}

func createTestUser(t *testing.T, testDB *Db, email string) *db.User {
	t.Helper()
	user, err := testDB.CreateUserWithPassword(db.User{
		Name:     "Test User",
		Email:    email,
		Password: "hash-not-checked-here",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestPasswordResetTokenLifecycle(t *testing.T) {
	testDB := newTestDB(t)
	user := createTestUser(t, testDB, "reset@example.com")
	expires := time.Now().UTC().Add(time.Hour)

	if err := testDB.InsertPasswordResetToken(user.ID, "tok-1", expires); err != nil {
		t.Fatalf("InsertPasswordResetToken failed: %v", err)
	}

	t.Run("GetValid", func(t *testing.T) {
		row, err := testDB.GetPasswordResetToken("tok-1")
		if err != nil {
			t.Fatalf("GetPasswordResetToken failed: %v", err)
		}
		if row.UserID != user.ID {
			t.Errorf("expected user id %q, got %q", user.ID, row.UserID)
		}
		if row.Consumed {
			t.Error("token must not be consumed by a read")
		}
	})

	t.Run("ConsumeOnce", func(t *testing.T) {
		row, err := testDB.ConsumePasswordResetToken("tok-1")
		if err != nil {
			t.Fatalf("ConsumePasswordResetToken failed: %v", err)
		}
		if !row.Consumed {
			t.Error("expected returned row to be marked consumed")
		}
	})

	t.Run("SecondConsumeFails", func(t *testing.T) {
		_, err := testDB.ConsumePasswordResetToken("tok-1")
		if !errors.Is(err, db.ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound on replay, got %v", err)
		}
	})

	t.Run("GetAfterConsumeFails", func(t *testing.T) {
		_, err := testDB.GetPasswordResetToken("tok-1")
		if !errors.Is(err, db.ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound after consume, got %v", err)
		}
	})

	t.Run("UnknownToken", func(t *testing.T) {
		_, err := testDB.ConsumePasswordResetToken("never-issued")
		if !errors.Is(err, db.ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound for unknown token, got %v", err)
		}
	})
}

func TestPasswordResetTokenExpiry(t *testing.T) {
	testDB := newTestDB(t)
	user := createTestUser(t, testDB, "expired@example.com")

	// Issued in the past relative to the store clock.
	if err := testDB.InsertPasswordResetToken(user.ID, "tok-old", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("InsertPasswordResetToken failed: %v", err)
	}

	if _, err := testDB.GetPasswordResetToken("tok-old"); !errors.Is(err, db.ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound for expired token on read, got %v", err)
	}
	if _, err := testDB.ConsumePasswordResetToken("tok-old"); !errors.Is(err, db.ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound for expired token on consume, got %v", err)
	}
}

// A token raced by many goroutines must be redeemed by exactly one of them.
func TestPasswordResetTokenConcurrentConsume(t *testing.T) {
	testDB := newTestDB(t)
	user := createTestUser(t, testDB, "race@example.com")

	if err := testDB.InsertPasswordResetToken(user.ID, "tok-race", time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("InsertPasswordResetToken failed: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := testDB.ConsumePasswordResetToken("tok-race")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, db.ErrTokenNotFound):
			losses++
		default:
			t.Fatalf("unexpected error from concurrent consume: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly 1 successful consume, got %d", wins)
	}
	if losses != workers-1 {
		t.Errorf("expected %d losers, got %d", workers-1, losses)
	}
}

func TestTwoFactorCodeLifecycle(t *testing.T) {
	testDB := newTestDB(t)
	user := createTestUser(t, testDB, "2fa@example.com")
	expires := time.Now().UTC().Add(10 * time.Minute)

	if err := testDB.InsertTwoFactorCode(user.ID, "ABC123", expires); err != nil {
		t.Fatalf("InsertTwoFactorCode failed: %v", err)
	}

	t.Run("WrongUserFails", func(t *testing.T) {
		other := createTestUser(t, testDB, "other@example.com")
		_, err := testDB.ConsumeTwoFactorCode(other.ID, "ABC123")
		if !errors.Is(err, db.ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound for another user's code, got %v", err)
		}
	})

	t.Run("WrongCodeFails", func(t *testing.T) {
		_, err := testDB.ConsumeTwoFactorCode(user.ID, "ZZZZZZ")
		if !errors.Is(err, db.ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound for wrong code, got %v", err)
		}
	})

	t.Run("ConsumeOnce", func(t *testing.T) {
		row, err := testDB.ConsumeTwoFactorCode(user.ID, "ABC123")
		if err != nil {
			t.Fatalf("ConsumeTwoFactorCode failed: %v", err)
		}
		if row.Code != "ABC123" {
			t.Errorf("expected code ABC123, got %q", row.Code)
		}
	})

	t.Run("ReplayFails", func(t *testing.T) {
		_, err := testDB.ConsumeTwoFactorCode(user.ID, "ABC123")
		if !errors.Is(err, db.ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound on replay, got %v", err)
		}
	})
}

// A resend must invalidate every earlier code so only the latest one works.
func TestInvalidateTwoFactorCodes(t *testing.T) {
	testDB := newTestDB(t)
	user := createTestUser(t, testDB, "resend@example.com")
	expires := time.Now().UTC().Add(10 * time.Minute)

	for _, code := range []string{"AAAAAA", "BBBBBB"} {
		if err := testDB.InsertTwoFactorCode(user.ID, code, expires); err != nil {
			t.Fatalf("InsertTwoFactorCode failed: %v", err)
		}
	}

	invalidated, err := testDB.InvalidateTwoFactorCodes(user.ID)
	if err != nil {
		t.Fatalf("InvalidateTwoFactorCodes failed: %v", err)
	}
	if invalidated != 2 {
		t.Errorf("expected 2 invalidated codes, got %d", invalidated)
	}

	if err := testDB.InsertTwoFactorCode(user.ID, "CCCCCC", expires); err != nil {
		t.Fatalf("InsertTwoFactorCode failed: %v", err)
	}

	if _, err := testDB.ConsumeTwoFactorCode(user.ID, "AAAAAA"); !errors.Is(err, db.ErrTokenNotFound) {
		t.Errorf("expected stale code AAAAAA to be rejected, got %v", err)
	}
	if _, err := testDB.ConsumeTwoFactorCode(user.ID, "CCCCCC"); err != nil {
		t.Errorf("expected latest code CCCCCC to be accepted, got %v", err)
	}
}

func TestTempLoginSessionLifecycle(t *testing.T) {
	testDB := newTestDB(t)
	user := createTestUser(t, testDB, "temp@example.com")
	expires := time.Now().UTC().Add(15 * time.Minute)

	if err := testDB.InsertTempLoginSession("temp-tok", user.ID, user.Email, expires); err != nil {
		t.Fatalf("InsertTempLoginSession failed: %v", err)
	}

	t.Run("ReadDoesNotConsume", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			row, err := testDB.GetTempLoginSession("temp-tok")
			if err != nil {
				t.Fatalf("GetTempLoginSession read %d failed: %v", i, err)
			}
			if row.Email != user.Email {
				t.Errorf("expected email %q, got %q", user.Email, row.Email)
			}
		}
	})

	t.Run("DuplicateTokenRejected", func(t *testing.T) {
		err := testDB.InsertTempLoginSession("temp-tok", user.ID, user.Email, expires)
		if !errors.Is(err, db.ErrConstraintUnique) {
			t.Fatalf("expected ErrConstraintUnique, got %v", err)
		}
	})

	t.Run("DeleteInvalidates", func(t *testing.T) {
		if err := testDB.DeleteTempLoginSession("temp-tok"); err != nil {
			t.Fatalf("DeleteTempLoginSession failed: %v", err)
		}
		if _, err := testDB.GetTempLoginSession("temp-tok"); !errors.Is(err, db.ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound after delete, got %v", err)
		}
	})
}

func TestVerifiedSessionSingleUse(t *testing.T) {
	testDB := newTestDB(t)
	user := createTestUser(t, testDB, "verified@example.com")
	expires := time.Now().UTC().Add(5 * time.Minute)

	if err := testDB.InsertVerifiedSession("v-tok", user.ID, user.Email, expires); err != nil {
		t.Fatalf("InsertVerifiedSession failed: %v", err)
	}

	row, err := testDB.ConsumeVerifiedSession("v-tok")
	if err != nil {
		t.Fatalf("ConsumeVerifiedSession failed: %v", err)
	}
	if row.UserID != user.ID || row.Email != user.Email {
		t.Errorf("unexpected session payload: %+v", row)
	}

	if _, err := testDB.ConsumeVerifiedSession("v-tok"); !errors.Is(err, db.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound on second consume, got %v", err)
	}
}

func TestSweepExpiredTokens(t *testing.T) {
	testDB := newTestDB(t)
	user := createTestUser(t, testDB, "sweep@example.com")
	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)

	if err := testDB.InsertPasswordResetToken(user.ID, "sweep-reset", past); err != nil {
		t.Fatal(err)
	}
	if err := testDB.InsertTwoFactorCode(user.ID, "SWEEP1", past); err != nil {
		t.Fatal(err)
	}
	if err := testDB.InsertTempLoginSession("sweep-temp", user.ID, user.Email, past); err != nil {
		t.Fatal(err)
	}
	if err := testDB.InsertVerifiedSession("sweep-verified", user.ID, user.Email, past); err != nil {
		t.Fatal(err)
	}
	if err := testDB.InsertPasswordResetToken(user.ID, "sweep-live", future); err != nil {
		t.Fatal(err)
	}

	swept, err := testDB.SweepExpiredTokens()
	if err != nil {
		t.Fatalf("SweepExpiredTokens failed: %v", err)
	}
	if swept != 4 {
		t.Errorf("expected 4 swept rows, got %d", swept)
	}

	// The live token survives the sweep.
	if _, err := testDB.GetPasswordResetToken("sweep-live"); err != nil {
		t.Errorf("expected live token to survive sweep, got %v", err)
	}

	// A second sweep finds nothing.
	swept, err = testDB.SweepExpiredTokens()
	if err != nil {
		t.Fatalf("second SweepExpiredTokens failed: %v", err)
	}
	if swept != 0 {
		t.Errorf("expected 0 swept rows on second pass, got %d", swept)
	}
}
