package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/navbuilder/internal/config"
	"git.home.luguber.info/inful/navbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/navbuilder/internal/lint"
	"git.home.luguber.info/inful/navbuilder/internal/logfields"
	"git.home.luguber.info/inful/navbuilder/internal/metrics"
	"git.home.luguber.info/inful/navbuilder/internal/nav"
	"git.home.luguber.info/inful/navbuilder/internal/observability"
	"git.home.luguber.info/inful/navbuilder/internal/output"
	"git.home.luguber.info/inful/navbuilder/internal/repoinfo"
	"git.home.luguber.info/inful/navbuilder/internal/structure"
)

// RepoDetector looks up repository facts for a directory.
type RepoDetector func(dir string) (repoinfo.Info, error)

// Service executes resolution runs.
type Service struct {
	checker     config.DocumentChecker
	loadOptions []config.LoadOption
	detectRepo  RepoDetector
	recorder    metrics.Recorder
}

// NewService creates a Service with git repository detection and no metrics.
func NewService() *Service {
	return &Service{
		detectRepo: repoinfo.Detect,
		recorder:   metrics.NoopRecorder{},
	}
}

// WithSchema checks every loaded document against c.
func (s *Service) WithSchema(c config.DocumentChecker) *Service {
	s.checker = c
	return s
}

// WithLoadOptions passes extra options to config.Load.
func (s *Service) WithLoadOptions(opts ...config.LoadOption) *Service {
	s.loadOptions = append(s.loadOptions, opts...)
	return s
}

// WithRepoDetector replaces git repository detection (for testing).
func (s *Service) WithRepoDetector(d RepoDetector) *Service {
	s.detectRepo = d
	return s
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// Run executes one resolution. The returned Result is never nil; its Report
// carries the itemized issues when err is a validation failure.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		StartTime: start,
		Report:    &lint.Result{},
	}
	ctx = observability.WithRunID(ctx, result.RunID)
	ctx = observability.WithConfig(ctx, req.ConfigPath)

	if err := ctx.Err(); err != nil {
		return s.finish(ctx, result, StatusCancelled), err
	}

	ctx = observability.WithStage(ctx, "load")
	opts := append([]config.LoadOption{config.WithSchema(s.checker)}, s.loadOptions...)
	cfg, err := config.Load(req.ConfigPath, opts...)
	if err != nil {
		if issues, ok := lint.FromError(req.ConfigPath, err); ok {
			result.Report.Add(issues...)
		}
		observability.ErrorContext(ctx, "Failed to load configuration", logfields.Error(err))
		return s.finish(ctx, result, StatusFailed), err
	}

	result.ContentRoot = config.ContentRoot(req.ConfigPath, cfg)
	result.Report.EntriesTotal = (&nav.Resolved{Navbar: cfg.Theme.Navbar, Sidebar: cfg.Theme.Sidebar}).EntryCount()

	ctx = observability.WithStage(ctx, "resolve")
	navOpts := nav.Options{
		ContentRoot:  result.ContentRoot,
		CheckTargets: req.Options.CheckTargets,
	}
	if req.Options.ExpandStructure {
		navOpts.Expander = structure.NewExpander(os.DirFS(result.ContentRoot), structure.Options{Lang: cfg.Site.Lang})
	}
	resolved, err := nav.NewResolver(navOpts).Resolve(cfg.Theme.Navbar, cfg.Theme.Sidebar)
	if err != nil {
		issues, _ := lint.FromError(req.ConfigPath, err)
		result.Report.Add(issues...)
		observability.ErrorContext(ctx, "Navigation is invalid", logfields.Problems(len(issues)))
		return s.finish(ctx, result, StatusFailed), errors.ValidationError("navigation is invalid").WithCause(err).
			WithContext("path", req.ConfigPath).
			WithContext("problems", len(issues)).
			Build()
	}
	result.Report.EntriesTotal = resolved.EntryCount()
	result.Report.Add(lint.FromProblems(req.ConfigPath, resolved.Warnings)...)

	doc := &output.Document{
		Config:  cfg,
		Repo:    cfg.Theme.Repo,
		Navbar:  resolved.Navbar,
		Sidebar: resolved.Sidebar,
	}
	if req.Options.DetectRepo && doc.Repo == "" {
		doc.Repo = s.repo(ctx, filepath.Dir(req.ConfigPath))
	}
	result.Document = doc

	if req.OutputPath != "" {
		ctx = observability.WithStage(ctx, "emit")
		written, err := output.WriteFile(req.OutputPath, *doc, req.Format)
		if err != nil {
			observability.ErrorContext(ctx, "Failed to write output", logfields.Path(req.OutputPath), logfields.Error(err))
			return s.finish(ctx, result, StatusFailed), errors.FileSystemError("failed to write navigation").WithCause(err).
				WithContext("path", req.OutputPath).
				Build()
		}
		result.Written = written
		if written {
			observability.InfoContext(ctx, "Navigation written", logfields.Path(req.OutputPath), logfields.Format(string(req.Format)))
		} else {
			observability.DebugContext(ctx, "Navigation unchanged", logfields.Path(req.OutputPath))
		}
	}

	status := StatusSuccess
	if result.Report.HasWarnings() {
		status = StatusWarning
	}
	return s.finish(ctx, result, status), nil
}

func (s *Service) repo(ctx context.Context, dir string) string {
	info, err := s.detectRepo(dir)
	if err != nil {
		observability.WarnContext(ctx, "Repository detection failed", logfields.Path(dir), logfields.Error(err))
		return ""
	}
	observability.DebugContext(ctx, "Repository detected", slog.String("repo", info.Repo()))
	return info.Repo()
}

func (s *Service) finish(ctx context.Context, result *Result, status Status) *Result {
	result.Status = status
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	s.recorder.ObserveResolveDuration(result.Duration)
	switch status {
	case StatusSuccess:
		s.recorder.IncResolveOutcome(metrics.OutcomeSuccess)
	case StatusWarning:
		s.recorder.IncResolveOutcome(metrics.OutcomeWarning)
	default:
		s.recorder.IncResolveOutcome(metrics.OutcomeFailed)
	}
	s.recorder.AddIssues("error", result.Report.ErrorCount())
	s.recorder.AddIssues("warning", result.Report.WarningCount())
	if status.IsSuccess() {
		s.recorder.SetEntries(result.Report.EntriesTotal)
	}

	observability.InfoContext(ctx, "Resolve finished",
		slog.String("status", string(status)),
		logfields.Entries(result.Report.EntriesTotal),
		logfields.Problems(result.Report.ErrorCount()),
		logfields.Warnings(result.Report.WarningCount()),
		logfields.DurationMS(float64(result.Duration.Microseconds())/1000))
	return result
}
