package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Demwunz/topo/internal/config"
)

// TestScanDoesNotLeakWorkerGoroutines guards the walker/worker-pool
// goroutines started by Scan: every one of them must exit once the
// paths/results channels close, even under a cancelled context.
func TestScanDoesNotLeakWorkerGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := t.TempDir()
	for i := 0; i < 20; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "file"+string(rune('a'+i))+".go"), []byte("package main\n"), 0o644))
	}

	cfg := config.Default(root)
	_, _, err := Scan(context.Background(), cfg, true, nil)
	require.NoError(t, err)
}

func TestScanCancelledContextDoesNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, _ = Scan(ctx, config.Default(root), true, nil)
}
