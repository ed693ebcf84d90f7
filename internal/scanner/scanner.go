// Package scanner walks a repository root, honors the layered ignore
// policy, and produces a stream of FileRecords plus raw file bytes for the
// Chunker — spec.md §4.1.
package scanner

import (
	"context"
	"crypto/sha256"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Demwunz/topo/internal/config"
	topoerrors "github.com/Demwunz/topo/internal/errors"
	"github.com/Demwunz/topo/internal/logging"
	"github.com/Demwunz/topo/internal/model"
)

// MaxGeneratedAdmitSize is the size beyond which a file without a
// recognized source extension is admitted only as role=generated
// (spec.md §4.1 step 2).
const MaxGeneratedAdmitSize = 8 * 1024 * 1024

// Result is one admitted file's record plus its bytes (nil if Deep is
// false, since shallow scans don't need content past hashing).
type Result struct {
	Record  model.FileRecord
	Content []byte
}

// Stats accumulates scan-time counters surfaced in IndexStats.
type Stats struct {
	FilesScanned int
	FilesSkipped int
	IOErrors     []error
}

// Scan walks root and returns one Result per admitted file. deep controls
// whether file bytes are retained in the result (the Chunker needs them;
// a shallow index does not). Scanning is parallel over files: a bounded
// pool of workers hashes and classifies while a single walker goroutine
// enumerates paths, matching spec.md §4.1 and §5's work-stealing model.
func Scan(ctx context.Context, cfg *config.Config, deep bool, log *logging.Logger) ([]Result, Stats, error) {
	if log == nil {
		log = logging.Default()
	}
	info, err := os.Stat(cfg.Root)
	if err != nil || !info.IsDir() {
		return nil, Stats{}, topoerrors.NewRepoNotFound(cfg.Root, err)
	}

	policy, err := newIgnorePolicy(cfg)
	if err != nil {
		return nil, Stats{}, err
	}

	paths := make(chan string, 256)
	results := make(chan Result, 256)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(paths)
		return walk(gctx, cfg.Root, policy, paths)
	})

	workers := cfg.MaxGoroutines
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var stats Stats
	statsCh := make(chan error, workers*2)

	workerGroup, workerCtx := errgroup.WithContext(gctx)
	for i := 0; i < workers; i++ {
		workerGroup.Go(func() error {
			for {
				select {
				case <-workerCtx.Done():
					return workerCtx.Err()
				case relPath, ok := <-paths:
					if !ok {
						return nil
					}
					res, err := processFile(cfg.Root, relPath, policy, deep, cfg.MaxFileSizeBytes)
					if err != nil {
						statsCh <- err
						continue
					}
					select {
					case results <- res:
					case <-workerCtx.Done():
						return workerCtx.Err()
					}
				}
			}
		})
	}

	go func() {
		workerGroup.Wait()
		close(results)
		close(statsCh)
	}()

	var out []Result
	statsDone := make(chan struct{})
	go func() {
		defer close(statsDone)
		for err := range statsCh {
			stats.FilesSkipped++
			stats.IOErrors = append(stats.IOErrors, err)
			log.Warnf("scan: %v", err)
		}
	}()
	for res := range results {
		out = append(out, res)
		stats.FilesScanned++
	}
	<-statsDone

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, stats, topoerrors.NewCancelled("scanner")
		}
		return nil, stats, err
	}
	if err := workerGroup.Wait(); err != nil && ctx.Err() != nil {
		return nil, stats, topoerrors.NewCancelled("scanner")
	}

	return out, stats, nil
}

// walk enumerates admitted file paths (repo-relative, forward-slash) into
// paths. It does not follow symlinks and skips device files, per
// spec.md §4.1.
func walk(ctx context.Context, root string, policy *ignorePolicy, paths chan<- string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return nil // unreadable directory entry: skip, don't abort (I/O error on enumeration is handled per-file)
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if d.IsDir() {
			if policy.shouldSkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if isDeviceFile(info) {
			return nil
		}
		if policy.shouldSkipFile(rel) {
			return nil
		}

		select {
		case paths <- rel:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}

func processFile(root, relPath string, policy *ignorePolicy, deep bool, maxFileSize int64) (Result, error) {
	absPath := filepath.Join(root, relPath)
	info, err := os.Stat(absPath)
	if err != nil {
		return Result{}, topoerrors.NewFileIOError("stat", relPath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return Result{}, topoerrors.NewFileIOError("read", relPath, err)
	}

	language := classifyLanguage(relPath, content)
	isLarge := info.Size() > maxFileSize
	hasRecognizedSource := language != "unknown"
	treatAsGenerated := isLarge && !hasRecognizedSource

	record := model.FileRecord{
		Path:        relPath,
		SizeBytes:   info.Size(),
		ModTime:     info.ModTime().UnixNano(),
		ContentHash: sha256.Sum256(content),
		FastHash:    xxhash.Sum64(content),
		Role:        classifyRole(relPath, policy, treatAsGenerated),
		Language:    language,
	}

	res := Result{Record: record}
	if deep {
		res.Content = content
	}
	return res, nil
}
