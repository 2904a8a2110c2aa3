// Package executor applies a rename plan to the target directory, one entry
// at a time. A failing entry never stops the run and nothing is rolled back.
package executor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	rerrors "renumber/pkg/errors"
	"renumber/pkg/planner"
	"renumber/pkg/safepath"
)

// RenameOperation records what happened to one plan entry.
type RenameOperation struct {
	Source     string // file name before
	Dest       string // planned file name
	SourcePath string
	DestPath   string
	Number     int
	Slot       planner.Slot
	Conflict   bool   // destination already existed; entry skipped
	SkipReason string // set when Conflict is true
	Error      error  // coded error when the rename failed
}

// Code returns the error-taxonomy code of the outcome, or "" on success.
func (op RenameOperation) Code() rerrors.Code {
	switch {
	case op.Error != nil:
		return rerrors.CodeOf(op.Error)
	case op.Conflict:
		return rerrors.CodeNameConflict
	default:
		return ""
	}
}

// Result contains the outcome of applying a plan.
type Result struct {
	Operations    []RenameOperation
	TotalEntries  int
	RenamedCount  int
	ConflictCount int
	ErrorCount    int
	DryRun        bool
}

// Executor applies rename plans inside one directory.
type Executor struct {
	dryRun    bool
	validator *safepath.Validator
	logger    zerolog.Logger
}

// New creates an Executor for rootDir with path containment validation.
func New(rootDir string, dryRun bool) (*Executor, error) {
	v, err := safepath.New(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return NewWithValidator(v, dryRun, zerolog.Nop())
}

// NewWithValidator creates an Executor using an existing validator.
func NewWithValidator(v *safepath.Validator, dryRun bool, logger zerolog.Logger) (*Executor, error) {
	if v == nil {
		return nil, errors.New("validator is required")
	}

	return &Executor{
		dryRun:    dryRun,
		validator: v,
		logger:    logger,
	}, nil
}

// DryRun returns whether the executor is in dry-run mode.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Root returns the directory renames happen in.
func (e *Executor) Root() string {
	return e.validator.Root()
}

// Apply applies plan entries in order.
func (e *Executor) Apply(plan planner.Plan) Result {
	return e.ApplyWithProgress(plan, nil)
}

// ApplyWithProgress applies plan entries in order and reports progress after
// each one.
func (e *Executor) ApplyWithProgress(plan planner.Plan, onProgress func(processed, total int)) Result {
	result := Result{
		TotalEntries: len(plan.Entries),
		Operations:   make([]RenameOperation, 0, len(plan.Entries)),
		DryRun:       e.dryRun,
	}

	view := newDirView(e.dryRun)

	for i, entry := range plan.Entries {
		op := e.applyEntry(entry, view)
		result.Operations = append(result.Operations, op)

		switch {
		case op.Error != nil:
			result.ErrorCount++
		case op.Conflict:
			result.ConflictCount++
		default:
			result.RenamedCount++
		}

		if onProgress != nil {
			onProgress(i+1, len(plan.Entries))
		}
	}

	return result
}

func (e *Executor) applyEntry(entry planner.Entry, view *dirView) RenameOperation {
	op := RenameOperation{
		Source: entry.Source,
		Dest:   entry.Dest,
		Number: entry.Number,
		Slot:   entry.Slot,
	}

	log := e.logger.With().Str("source", entry.Source).Str("dest", entry.Dest).Logger()

	var err error
	if op.SourcePath, err = e.validator.Child(entry.Source); err != nil {
		op.Error = rerrors.Wrap(err, rerrors.CodeRenameFailure, "invalid source name")
		log.Error().Err(op.Error).Msg("rename rejected")
		return op
	}
	if op.DestPath, err = e.validator.Child(entry.Dest); err != nil {
		op.Error = rerrors.Wrap(err, rerrors.CodeRenameFailure, "invalid destination name")
		log.Error().Err(op.Error).Msg("rename rejected")
		return op
	}

	exists, err := view.exists(entry.Dest, op.DestPath)
	if err != nil {
		op.Error = wrapRenameError(err, entry, "cannot check destination "+entry.Dest)
		log.Error().Err(op.Error).Msg("destination check failed")
		return op
	}
	if exists {
		op.Conflict = true
		op.SkipReason = "target already exists"
		log.Warn().Msg("destination exists, skipping")
		return op
	}

	if !e.dryRun {
		if err := e.validator.SafeRename(op.SourcePath, op.DestPath); err != nil {
			op.Error = wrapRenameError(err, entry, fmt.Sprintf("rename %s to %s", entry.Source, entry.Dest))
			log.Error().Err(op.Error).Msg("rename failed")
			return op
		}
	}

	view.moved(entry.Source, entry.Dest)
	log.Debug().Bool("dryRun", e.dryRun).Msg("renamed")

	return op
}

// wrapRenameError codes permission failures as PermissionDenied and every
// other failure, including a source that vanished, as RenameFailure.
func wrapRenameError(err error, entry planner.Entry, message string) error {
	code := rerrors.CodeRenameFailure
	if errors.Is(err, fs.ErrPermission) {
		code = rerrors.CodePermissionDenied
	}
	return rerrors.Wrap(err, code, message).
		WithDetail("source", entry.Source).
		WithDetail("dest", entry.Dest)
}

// dirView answers "does this name exist" for the directory as it would look
// after the entries applied so far. In a real run the filesystem is the
// answer; in a dry run the planned moves are overlaid on it.
type dirView struct {
	simulate bool
	vacated  map[string]bool
	created  map[string]bool
}

func newDirView(simulate bool) *dirView {
	return &dirView{
		simulate: simulate,
		vacated:  make(map[string]bool),
		created:  make(map[string]bool),
	}
}

func (d *dirView) exists(name, path string) (bool, error) {
	if d.simulate {
		if d.created[name] {
			return true, nil
		}
		if d.vacated[name] {
			return false, nil
		}
	}

	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (d *dirView) moved(from, to string) {
	if !d.simulate {
		return
	}
	delete(d.created, from)
	d.vacated[from] = true
	delete(d.vacated, to)
	d.created[to] = true
}
