package scheduler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db/zombiezen"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/migrations"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue/executor"
)

func newTestStore(t *testing.T) *zombiezen.Db {
	t.Helper()

	pool, err := sqlitex.NewPool("file::memory:", sqlitex.PoolOptions{PoolSize: 1})
	if err != nil {
		t.Fatalf("failed to create db pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("failed to get db connection: %v", err)
	}
	if err := zombiezen.ApplyMigrations(conn, migrations.Schema()); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	pool.Put(conn)

	store, err := zombiezen.New(pool)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

type recordingHandler struct {
	executed chan db.Job
}

func (h *recordingHandler) Handle(ctx context.Context, job db.Job) error {
	h.executed <- job
	return nil
}

// TestSchedulerExecutesEnqueuedJob drives a job built exactly the way the
// HTTP handlers build them (zero-valued MaxAttempts, payload only) through
// the real store, the claim query and the executor.
func TestSchedulerExecutesEnqueuedJob(t *testing.T) {
	store := newTestStore(t)

	if err := store.InsertJob(db.Job{
		JobType: "password_reset",
		Payload: json.RawMessage(`{"user_id":"user1","cooldown_bucket":3}`),
	}); err != nil {
		t.Fatalf("InsertJob failed: %v", err)
	}

	cfg := config.NewDefaultConfig()
	cfg.Scheduler.Interval.Duration = 10 * time.Millisecond
	provider := config.NewProvider(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := &recordingHandler{executed: make(chan db.Job, 1)}
	sched := NewScheduler(provider, store, executor.NewExecutor(map[string]executor.JobHandler{
		"password_reset": handler,
	}), logger)

	sched.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := sched.Stop(ctx); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	}()

	select {
	case job := <-handler.executed:
		if job.JobType != "password_reset" {
			t.Errorf("executed job type = %q, want password_reset", job.JobType)
		}
		var payload struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(job.Payload, &payload); err != nil || payload.UserID != "user1" {
			t.Errorf("executed job payload = %s (err %v), want user_id user1", job.Payload, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler never executed the enqueued job")
	}
}
