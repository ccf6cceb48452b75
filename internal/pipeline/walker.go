// Package pipeline turns a source directory tree into a queue of per-entry
// file operations and executes them concurrently against a destination tree,
// rendering placeholders in text files along the way.
package pipeline

import (
	"os"
	"path/filepath"

	"github.com/dbrafael/tempa/internal/errors"
)

// OpKind discriminates the pending operation variants produced by traversal.
type OpKind int

const (
	// OpRender reads a regular file, substitutes placeholders and writes
	// the result to the mirrored destination path.
	OpRender OpKind = iota
	// OpSkip marks an unreadable directory or an entry whose type could not
	// be determined; executing it is a no-op counted as processed.
	OpSkip
	// OpUnsupported marks a non-regular, non-directory entry (symlink,
	// device, fifo). Executing it fails with an unsupported-entry error.
	OpUnsupported
)

// String returns the string representation of the operation kind.
func (k OpKind) String() string {
	switch k {
	case OpRender:
		return "render"
	case OpSkip:
		return "skip"
	case OpUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// FileOp is one pending unit of work. Dest is the source path with the
// source-root prefix replaced by the destination root; it is empty for
// OpSkip.
type FileOp struct {
	Kind   OpKind
	Source string
	Dest   string
}

// Walk scans sourceRoot breadth-first and returns the operation queue in
// discovery order. Directory entries enqueue further expansion but never
// produce operations themselves; only leaves do.
//
// An inaccessible sourceRoot is the sole fatal condition. Unreadable
// subdirectories and entries with undeterminable types degrade to OpSkip so
// one bad subtree never aborts the walk.
func Walk(sourceRoot, destRoot string) ([]FileOp, error) {
	var ops []FileOp

	// explicit FIFO instead of recursion to bound stack use on deep trees
	queue := []string{sourceRoot}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == sourceRoot {
				return nil, errors.NewTraversalError(sourceRoot, err)
			}
			ops = append(ops, FileOp{Kind: OpSkip, Source: dir})
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())

			info, err := entry.Info()
			if err != nil {
				ops = append(ops, FileOp{Kind: OpSkip, Source: path})
				continue
			}

			mode := info.Mode()
			switch {
			case mode.IsDir():
				queue = append(queue, path)
			case mode.IsRegular():
				ops = append(ops, FileOp{Kind: OpRender, Source: path, Dest: mirrorPath(sourceRoot, destRoot, path)})
			default:
				ops = append(ops, FileOp{Kind: OpUnsupported, Source: path, Dest: mirrorPath(sourceRoot, destRoot, path)})
			}
		}
	}

	return ops, nil
}

// mirrorPath swaps the source-root prefix of path for the destination root,
// preserving the relative path unchanged.
func mirrorPath(sourceRoot, destRoot, path string) string {
	rel, err := filepath.Rel(sourceRoot, path)
	if err != nil {
		// path always descends from sourceRoot during traversal
		return filepath.Join(destRoot, filepath.Base(path))
	}
	return filepath.Join(destRoot, rel)
}
