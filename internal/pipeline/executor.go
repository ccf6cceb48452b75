package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dbrafael/tempa/internal/errors"
	"github.com/dbrafael/tempa/internal/logging"
	"github.com/dbrafael/tempa/internal/template"
	"github.com/dbrafael/tempa/internal/values"
)

// Executor runs queued file operations concurrently. The replacement
// document and delimiter pair are shared read-only across every operation;
// nothing mutates them after construction.
type Executor struct {
	open   string
	close  string
	values values.Value
	logger logging.Logger
}

// Result is the outcome of one executed operation.
type Result struct {
	Op           FileOp
	Placeholders int // placeholders encountered, resolved or not
	Err          error
}

// Summary aggregates a full run. Counts are order-independent; Results
// arrive in completion order, which is not deterministic.
type Summary struct {
	Total     int
	Succeeded int
	Results   []Result
}

// Failed returns the number of operations that ended in error.
func (s Summary) Failed() int {
	return s.Total - s.Succeeded
}

// NewExecutor creates an executor sharing one replacement document and
// delimiter configuration across all operations.
func NewExecutor(open, close string, vals values.Value, logger logging.Logger) *Executor {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Executor{
		open:   open,
		close:  close,
		values: vals,
		logger: logger.WithComponent("executor"),
	}
}

// ExecuteAll launches one goroutine per operation with no concurrency cap,
// waits for every one to finish and returns the aggregate. A failing
// operation never aborts or cancels its siblings; per-file errors are
// collected in the summary instead.
func (e *Executor) ExecuteAll(ctx context.Context, ops []FileOp) Summary {
	results := make(chan Result, len(ops))

	var g errgroup.Group
	for _, op := range ops {
		op := op // keep per-iteration semantics under go <1.22
		g.Go(func() error {
			results <- e.execute(ctx, op)
			return nil
		})
	}
	// the group only joins; workers report through the results channel
	_ = g.Wait()
	close(results)

	summary := Summary{Total: len(ops)}
	for res := range results {
		summary.Results = append(summary.Results, res)
		if res.Err == nil {
			summary.Succeeded++
		}
	}
	return summary
}

func (e *Executor) execute(ctx context.Context, op FileOp) Result {
	switch op.Kind {
	case OpSkip:
		e.logger.Debug(ctx, "skipped", "path", op.Source)
		return Result{Op: op}

	case OpUnsupported:
		err := errors.NewUnsupportedEntryError(op.Source)
		e.logger.Error(ctx, err, "cannot process entry", "path", op.Source)
		return Result{Op: op, Err: err}

	default:
		count, err := e.renderFile(ctx, op.Source, op.Dest)
		if err != nil {
			e.logger.Error(ctx, err, "cannot process file", "path", op.Source)
			return Result{Op: op, Err: err}
		}
		if count > 0 {
			e.logger.Info(ctx, "parsed file", "path", op.Source, "dest", op.Dest, "placeholders", count)
		} else {
			e.logger.Debug(ctx, "copied file", "path", op.Source, "dest", op.Dest)
		}
		return Result{Op: op, Placeholders: count}
	}
}

// renderFile reads src as text, renders it and writes the result to dst. A
// source that cannot be read as text falls back to a raw byte copy; if the
// fallback fails too, the original read error is reported, not the copy
// error.
func (e *Executor) renderFile(ctx context.Context, src, dst string) (int, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		readErr := errors.NewFileReadError(src, err)
		e.logger.Warn(ctx, readErr, "cannot read file, trying copy", "path", src)
		if copyErr := e.copyFile(src, dst); copyErr != nil {
			return 0, readErr
		}
		return 0, nil
	}

	if !utf8.Valid(data) {
		readErr := errors.New(errors.KindFileRead, src, "content is not valid text")
		e.logger.Warn(ctx, readErr, "cannot read file as text, trying copy", "path", src)
		if copyErr := e.writeNew(dst, data); copyErr != nil {
			return 0, readErr
		}
		return 0, nil
	}

	count, rendered := template.Parse(string(data), e.open, e.close).Render(e.values)
	if err := e.writeNew(dst, []byte(rendered)); err != nil {
		return 0, err
	}
	return count, nil
}

// writeNew creates dst exclusively after ensuring its ancestor directories
// exist. There is no overwrite mode: an existing destination is a per-file
// creation error.
func (e *Executor) writeNew(dst string, data []byte) error {
	if err := ensureParent(dst); err != nil {
		return err
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.NewFileCreateError(dst, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.NewFileWriteError(dst, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewFileWriteError(dst, err)
	}
	return nil
}

// copyFile streams src to a freshly created dst.
func (e *Executor) copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.NewFileCopyError(src, err)
	}
	defer in.Close()

	if err := ensureParent(dst); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.NewFileCreateError(dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.NewFileCopyError(src, err)
	}
	if err := out.Close(); err != nil {
		return errors.NewFileCopyError(src, err)
	}
	return nil
}

// ensureParent creates dst's ancestor directories. MkdirAll treats an
// already existing directory as success, which keeps concurrent creation of
// a shared ancestor by sibling operations idempotent.
func ensureParent(dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewDirCreateError(dir, err)
	}
	return nil
}
