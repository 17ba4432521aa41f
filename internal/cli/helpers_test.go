package cli

import (
	"bytes"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/arise/internal/engine"
	"github.com/julianstephens/arise/internal/storage"
)

var testNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &Context{
		Store: store,
		Out:   out,
		EngineOptions: []engine.Option{
			engine.WithClock(func() time.Time { return testNow }),
			engine.WithLocation(time.UTC),
			engine.WithRand(rand.New(rand.NewPCG(1, 2))),
		},
	}
	t.Cleanup(func() {
		ctx.Close()
	})
	return ctx, out
}
