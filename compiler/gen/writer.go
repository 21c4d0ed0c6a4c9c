package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// fileTask represents a single artifact to render and write.
type fileTask struct {
	kind Kind
	path string // absolute or root relative output path
	// gen renders Go sources. Exactly one of gen and text is set.
	gen  func(*helper) *jen.File
	text func(*helper) ([]byte, error)
	// always writes the file even when it exists.
	always bool
	out    []byte
}

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesWritten int
	FilesSkipped int
	TotalBytes   int64
	RenderTime   time.Duration
	WriteTime    time.Duration
}

// writer renders tasks in parallel and writes them sequentially.
type writer struct {
	h       *helper
	workers int
	force   bool
	metrics WriterMetrics
}

// render renders all tasks in parallel. Go sources are formatted with
// goimports.
func (w *writer) render(ctx context.Context, tasks []*fileTask) error {
	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, t := range tasks {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.renderFile(t)
			}
		})
	}
	err := eg.Wait()
	w.metrics.RenderTime = time.Since(start)
	return err
}

func (w *writer) renderFile(t *fileTask) error {
	if t.text != nil {
		out, err := t.text(w.h)
		if err != nil {
			return NewGenerationError(t.kind, t.path, "render", err)
		}
		t.out = out
		return nil
	}
	var buf bytes.Buffer
	if err := t.gen(w.h).Render(&buf); err != nil {
		return NewGenerationError(t.kind, t.path, "render", err)
	}
	formatted, err := imports.Process(t.path, buf.Bytes(), nil)
	if err != nil {
		// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
		debugPath := t.path + ".error"
		_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return NewGenerationError(t.kind, t.path, fmt.Sprintf("format (unformatted written to %s)", debugPath), err)
	}
	t.out = formatted
	return nil
}

// write writes the rendered tasks in order. Existing files are skipped
// unless the writer forces or the task always writes.
func (w *writer) write(tasks []*fileTask, art *Artifacts) error {
	start := time.Now()
	defer func() { w.metrics.WriteTime = time.Since(start) }()
	for _, t := range tasks {
		if !w.force && !t.always && exists(t.path) {
			art.Skipped = append(art.Skipped, File{Kind: t.kind, Path: t.path})
			w.metrics.FilesSkipped++
			continue
		}
		if err := writeFile(t.path, t.out); err != nil {
			return NewGenerationError(t.kind, t.path, "write", err)
		}
		art.Written = append(art.Written, File{Kind: t.kind, Path: t.path})
		w.metrics.FilesWritten++
		w.metrics.TotalBytes += int64(len(t.out))
	}
	return nil
}

// writeFile creates the parent directories of path and writes b.
func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
