// Package usecase provides application-level orchestration for the CLI
// workflow: resolve the target, scan it, plan the renumbering and apply it.
package usecase

import (
	"time"

	"github.com/rs/zerolog"

	rerrors "renumber/pkg/errors"
	"renumber/pkg/executor"
	"renumber/pkg/logging"
	"renumber/pkg/planner"
	"renumber/pkg/safepath"
	"renumber/pkg/scanner"
)

// StageRenaming labels progress updates emitted while the plan is applied.
const StageRenaming = "renaming"

// Options configures a Service.
type Options struct {
	SkipFiles []string
	// Logger receives workflow diagnostics. Nil disables logging.
	Logger *zerolog.Logger
}

// ProgressCallback receives workflow stage progress updates.
type ProgressCallback func(stage string, processed, total int)

// Service orchestrates the renumber workflow without Cobra dependencies.
type Service struct {
	skipFiles []string
	logger    zerolog.Logger
}

// New creates a use-case service.
func New(opts Options) *Service {
	logger := logging.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Service{
		skipFiles: append([]string(nil), opts.SkipFiles...),
		logger:    logger,
	}
}

// RenumberRequest contains inputs for the renumber workflow.
type RenumberRequest struct {
	TargetDir  string
	DryRun     bool
	OnProgress ProgressCallback
}

// RenumberExecution contains renumber workflow outputs.
type RenumberExecution struct {
	RootDir       string
	Listing       scanner.Listing
	Plan          planner.Plan
	Result        executor.Result
	ScanDuration  time.Duration
	ApplyDuration time.Duration
}

// PlanRequest contains inputs for the plan-only workflow.
type PlanRequest struct {
	TargetDir string
}

// PlanExecution contains the scan and plan of a directory.
type PlanExecution struct {
	RootDir      string
	Listing      scanner.Listing
	Plan         planner.Plan
	ScanDuration time.Duration
}

// FileCount returns the number of files considered for renumbering.
func (e PlanExecution) FileCount() int {
	return e.Listing.FileCount()
}

// FileCount returns the number of files considered for renumbering.
func (e RenumberExecution) FileCount() int {
	return e.Listing.FileCount()
}

// Plan scans the target and computes its rename plan without touching it.
func (s *Service) Plan(req PlanRequest) (PlanExecution, error) {
	target, err := resolveWorkflowTarget(req.TargetDir)
	if err != nil {
		return PlanExecution{}, err
	}

	return s.plan(target)
}

// RunRenumber scans the target, plans the renumbering and applies it. In
// dry-run mode the plan is applied against a simulated view of the directory.
func (s *Service) RunRenumber(req RenumberRequest) (RenumberExecution, error) {
	target, err := resolveWorkflowTarget(req.TargetDir)
	if err != nil {
		return RenumberExecution{}, err
	}

	planned, err := s.plan(target)
	if err != nil {
		return RenumberExecution{}, err
	}

	execution := RenumberExecution{
		RootDir:      planned.RootDir,
		Listing:      planned.Listing,
		Plan:         planned.Plan,
		ScanDuration: planned.ScanDuration,
	}

	x, err := executor.NewWithValidator(target.validator, req.DryRun, s.logger.With().Str("component", "executor").Logger())
	if err != nil {
		return RenumberExecution{}, rerrors.Wrap(err, rerrors.CodeInternal, "failed to create executor")
	}

	start := time.Now()
	execution.Result = x.ApplyWithProgress(planned.Plan, func(processed, total int) {
		emitStage(req.OnProgress, StageRenaming, processed, total)
	})
	execution.ApplyDuration = time.Since(start)

	s.logger.Info().
		Bool("dry_run", req.DryRun).
		Int("renamed", execution.Result.RenamedCount).
		Int("conflicts", execution.Result.ConflictCount).
		Int("errors", execution.Result.ErrorCount).
		Msg("plan applied")
	logging.LogDuration(s.logger, start, "apply")

	return execution, nil
}

func (s *Service) plan(target workflowTarget) (PlanExecution, error) {
	start := time.Now()

	listing, err := scanner.New(scanner.Options{SkipFiles: s.skipFiles}).Scan(target.rootDir)
	if err != nil {
		return PlanExecution{}, err
	}
	scanDuration := time.Since(start)

	for _, f := range listing.Shadowed {
		s.logger.Warn().Str("file", f.Name).Int("number", f.Number).Msg("duplicate number, file left untouched")
	}
	for _, f := range listing.Ignored {
		s.logger.Warn().Str("file", f.Name).Str("reason", f.Reason).Msg("file ignored")
	}

	plan := planner.Build(listing)

	s.logger.Info().
		Str("dir", target.rootDir).
		Int("numbered", len(listing.Numbered)).
		Int("unnumbered", len(listing.Unnumbered)).
		Int("max", plan.MaxNumber).
		Int("gaps", plan.GapCount).
		Int("entries", len(plan.Entries)).
		Msg("plan built")
	logging.LogDuration(s.logger, start, "scan+plan")

	return PlanExecution{
		RootDir:      target.rootDir,
		Listing:      listing,
		Plan:         plan,
		ScanDuration: scanDuration,
	}, nil
}

// Workflow invariant: no path is opened or mutated before validator approval.
type workflowTarget struct {
	rootDir   string
	validator *safepath.Validator
}

func resolveWorkflowTarget(targetDir string) (workflowTarget, error) {
	validator, err := safepath.New(targetDir)
	if err != nil {
		return workflowTarget{}, rerrors.WrapOS(err, rerrors.CodeNotFound, "cannot access directory "+targetDir).
			WithDetail("dir", targetDir)
	}

	return workflowTarget{
		rootDir:   validator.Root(),
		validator: validator,
	}, nil
}
