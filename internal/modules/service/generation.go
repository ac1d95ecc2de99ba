package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/config"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
	"github.com/saas-factory/api/internal/pkg/deployer"
	"github.com/saas-factory/api/internal/pkg/generator"
	"github.com/saas-factory/api/internal/pkg/progress"
	"github.com/saas-factory/api/internal/pkg/ratelimit"
	"github.com/saas-factory/api/internal/pkg/tokenizer"
	"github.com/saas-factory/api/internal/pkg/utils/path"
	"github.com/saas-factory/api/internal/telemetry"
	"go.uber.org/zap"
)

type LifecycleService interface {
	// Generate runs the whole pipeline and returns once the project is completed or failed.
	Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error)
	// Start flips the project to generating and runs the pipeline in the background.
	Start(ctx context.Context, in GenerateInput) (*model.Project, error)
	Status(ctx context.Context, userID, projectID uuid.UUID) (*GenerationStatus, error)
	Stream(ctx context.Context, userID, projectID uuid.UUID, emit progress.Emitter) error
	// Wait blocks until background runs started by Start have finished.
	Wait()
}

// RateLimiter is satisfied by ratelimit.FixedWindowLimiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

type LifecycleOptions struct {
	Timeout         time.Duration
	MaxPromptTokens int
	DemoInterval    time.Duration
	DemoIncrement   int
	FollowInterval  time.Duration
}

func LifecycleOptionsFromConfig(cfg *config.Config) LifecycleOptions {
	return LifecycleOptions{
		Timeout:         cfg.GenerationTimeout(),
		MaxPromptTokens: cfg.Generator.MaxPromptTokens,
		DemoInterval:    cfg.DemoStepInterval(),
		DemoIncrement:   cfg.Demo.StepIncrement,
		FollowInterval:  time.Second,
	}
}

type lifecycleService struct {
	resolver *backend.Resolver
	opts     LifecycleOptions
	limiter  RateLimiter
	rec      recorder
	events   eventSink
	log      *zap.Logger
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewLifecycleService accepts nil publisher and limiter.
func NewLifecycleService(resolver *backend.Resolver, opts LifecycleOptions, publisher EventPublisher, limiter RateLimiter, log *zap.Logger) LifecycleService {
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Minute
	}
	return &lifecycleService{
		resolver: resolver,
		opts:     opts,
		limiter:  limiter,
		rec:      recorder{log: log},
		events:   eventSink{pub: publisher, log: log},
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GenerateInput optionally overrides project fields before the run.
type GenerateInput struct {
	UserID            uuid.UUID
	ProjectID         uuid.UUID
	Title             *string
	Description       *string
	Category          *string
	Features          *string
	DesignPreferences *string
	TechRequirements  *string
}

type GenerateOutput struct {
	Project *model.Project        `json:"project"`
	Logs    []model.GenerationLog `json:"generation_logs"`
}

type GenerationStatus struct {
	ProjectID    uuid.UUID             `json:"project_id"`
	Status       model.ProjectStatus   `json:"status"`
	Progress     int                   `json:"progress"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Logs         []model.GenerationLog `json:"generation_logs"`
	CompletedAt  *time.Time            `json:"completed_at"`
}

var errGenerationTimeout = errors.New("generator did not answer in time")

func (s *lifecycleService) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	b := s.resolver.For(ctx)
	p, err := s.begin(ctx, b, in)
	if err != nil {
		return nil, err
	}
	p, runErr := s.run(ctx, b, p, in.UserID)

	logs, err := b.Logs().ListByProject(context.WithoutCancel(ctx), p.ID)
	if err != nil {
		s.log.Warn("list generation logs failed", zap.String("project_id", p.ID.String()), zap.Error(err))
	}
	if runErr != nil {
		return nil, runErr
	}
	return &GenerateOutput{Project: p, Logs: progress.LatestRun(logs)}, nil
}

func (s *lifecycleService) Start(ctx context.Context, in GenerateInput) (*model.Project, error) {
	b := s.resolver.For(ctx)
	p, err := s.begin(ctx, b, in)
	if err != nil {
		return nil, err
	}
	cp := *p
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = s.run(context.WithoutCancel(ctx), b, &cp, in.UserID)
	}()
	return p, nil
}

func (s *lifecycleService) Wait() { s.wg.Wait() }

// limitKey buckets demo sessions per client; they all share DemoUserID.
func limitKey(ctx context.Context, b backend.DataBackend, userID uuid.UUID) string {
	if client := backend.DemoClient(ctx); b.Demo() && client != "" {
		return "demo:" + client
	}
	return userID.String()
}

// begin validates the request and flips the project to generating. Nothing external has
// been called when it returns.
func (s *lifecycleService) begin(ctx context.Context, b backend.DataBackend, in GenerateInput) (*model.Project, error) {
	p, err := loadOwned(ctx, b, in.ProjectID, in.UserID)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		res, err := s.limiter.Allow(ctx, limitKey(ctx, b, in.UserID))
		if err != nil {
			// fail open: a redis outage must not block generation
			s.log.Warn("rate limiter unavailable", zap.Error(err))
		} else if !res.Allowed {
			return nil, newError(ErrRateLimited, "generation limit reached, try again in %s", res.ResetIn.Round(time.Second))
		}
	}

	switch p.Status {
	case model.ProjectStatusGenerating:
		return nil, newError(ErrConflict, "generation already in progress")
	case model.ProjectStatusDeployed:
		return nil, newError(ErrConflict, "deployed projects cannot be regenerated")
	}

	st := model.ProjectStatusGenerating
	empty := ""
	upd := repo.ProjectUpdate{
		Description:       in.Description,
		Features:          in.Features,
		DesignPreferences: in.DesignPreferences,
		TechRequirements:  in.TechRequirements,
		Status:            &st,
		ErrorMessage:      &empty,
		// a rerun from completed starts over; a failure must not leave the old output behind
		ClearOutput: true,
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, newError(ErrValidation, "title cannot be empty")
		}
		upd.Title = &title
	}
	if in.Category != nil {
		slug, err := resolveCategory(ctx, b, in.UserID, *in.Category)
		if err != nil {
			return nil, err
		}
		upd.Category = &slug
	}

	ok, err := b.Projects().TransitionStatus(ctx, p.ID, model.GeneratableStatuses, upd)
	if err != nil {
		return nil, fmt.Errorf("mark project generating: %w", err)
	}
	if !ok {
		return nil, newError(ErrConflict, "generation already in progress")
	}
	upd.Apply(p)

	s.rec.record(ctx, b, p.ID, in.UserID, model.ActionGenerationStarted, "Started code generation", map[string]any{
		"provider": b.Generator().Name(),
	})
	return p, nil
}

// run executes analyze, generate_code, optimize and finalize. Persistence is detached from
// the caller's context so a client disconnect cannot leave the project in generating.
func (s *lifecycleService) run(ctx context.Context, b backend.DataBackend, p *model.Project, userID uuid.UUID) (*model.Project, error) {
	ctx = context.WithoutCancel(ctx)
	gen := b.Generator()
	r := &genRun{s: s, b: b, p: p, userID: userID, provider: gen.Name(), started: s.now()}

	// analyze
	step := r.beginStep(ctx, model.StepAnalyze)
	prompt := generator.BuildPrompt(generator.Request{
		Title:             p.Title,
		Description:       p.Description,
		Category:          p.Category,
		Features:          p.Features,
		DesignPreferences: p.DesignPreferences,
		TechRequirements:  p.TechRequirements,
	})
	tokens, err := tokenizer.CountTokens(prompt.System + "\n" + prompt.User)
	if err != nil && !errors.Is(err, tokenizer.ErrNotInitialized) {
		s.log.Warn("count prompt tokens failed", zap.Error(err))
	}
	if s.opts.MaxPromptTokens > 0 && tokens > s.opts.MaxPromptTokens {
		return r.fail(ctx, step, "validation", newError(ErrValidation,
			"project description is too long (%d tokens, limit %d)", tokens, s.opts.MaxPromptTokens))
	}
	r.finishStep(ctx, step, model.StepStatusCompleted, analyzeMessage(tokens))

	// generate_code
	step = r.beginStep(ctx, model.StepGenerateCode)
	code, err := s.callGenerator(ctx, gen, prompt)
	if err != nil {
		kind, svcErr := s.classify(gen, err)
		return r.fail(ctx, step, kind, svcErr)
	}
	r.finishStep(ctx, step, model.StepStatusCompleted, fmt.Sprintf("Generated %d files", len(code.Files)))

	// optimize
	step = r.beginStep(ctx, model.StepOptimize)
	msg, err := optimize(code, gen)
	if err != nil {
		return r.fail(ctx, step, "invalid_output", wrapError(ErrUpstream, err, "generated code was rejected: %s", err.Error()))
	}
	r.finishStep(ctx, step, model.StepStatusCompleted, msg)

	// finalize
	step = r.beginStep(ctx, model.StepFinalize)
	raw, err := model.EncodeGeneratedCode(code)
	if err != nil {
		return r.fail(ctx, step, "encode", fmt.Errorf("encode generated code: %w", err))
	}
	now := s.now()
	st := model.ProjectStatusCompleted
	empty := ""
	upd := repo.ProjectUpdate{Status: &st, GeneratedCode: &raw, ErrorMessage: &empty, CompletedAt: &now}
	ok, err := b.Projects().TransitionStatus(ctx, p.ID, []model.ProjectStatus{model.ProjectStatusGenerating}, upd)
	if err != nil {
		return r.fail(ctx, step, "persist", fmt.Errorf("store generated code: %w", err))
	}
	if !ok {
		r.finishStep(ctx, step, model.StepStatusFailed, "project changed during generation")
		return p, newError(ErrConflict, "project was modified or deleted during generation")
	}
	upd.Apply(p)
	r.finishStep(ctx, step, model.StepStatusCompleted, "Project ready")

	elapsed := s.now().Sub(r.started)
	s.rec.record(ctx, b, p.ID, userID, model.ActionGenerationCompleted, "Code generation completed", map[string]any{
		"files":       len(code.Files),
		"provider":    r.provider,
		"duration_ms": elapsed.Milliseconds(),
	})
	s.events.publish(ctx, b, LifecycleEvent{
		Event:     EventProjectGenerated,
		ProjectID: p.ID.String(),
		UserID:    userID.String(),
		Status:    string(p.Status),
		Provider:  r.provider,
	})
	telemetry.RecordGenerationSuccess(ctx, r.provider, float64(elapsed.Milliseconds()), len(code.Files))
	s.log.Info("generation completed",
		zap.String("project_id", p.ID.String()),
		zap.String("provider", r.provider),
		zap.Int("files", len(code.Files)),
		zap.Duration("elapsed", elapsed))
	return p, nil
}

// callGenerator races the provider against the timeout. The provider call keeps running
// after a timeout; its result lands in the buffered channel and is dropped.
func (s *lifecycleService) callGenerator(ctx context.Context, gen generator.Generator, prompt generator.Prompt) (*model.GeneratedCode, error) {
	type result struct {
		code *model.GeneratedCode
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- result{err: fmt.Errorf("generator panic: %v", rec)}
			}
		}()
		code, err := gen.Generate(ctx, prompt)
		ch <- result{code: code, err: err}
	}()

	timer := time.NewTimer(s.opts.Timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		if r.err == nil && (r.code == nil || len(r.code.Files) == 0) {
			return nil, generator.ErrEmptyOutput
		}
		return r.code, r.err
	case <-timer.C:
		return nil, errGenerationTimeout
	}
}

func (s *lifecycleService) classify(gen generator.Generator, err error) (string, error) {
	switch {
	case errors.Is(err, errGenerationTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout", wrapError(ErrTimeout, err, "code generation timed out after %s", s.opts.Timeout)
	case errors.Is(err, generator.ErrNotConfigured):
		return "not_configured", wrapError(ErrValidation, err, "%s code generation is not configured", gen.Name())
	case errors.Is(err, generator.ErrEmptyOutput):
		return "empty_output", wrapError(ErrUpstream, err, "the AI service returned no usable code")
	case errors.Is(err, generator.ErrUpstream):
		return "upstream", wrapError(ErrUpstream, err, "code generation failed: %s", err.Error())
	}
	return "unknown", wrapError(ErrUpstream, err, "code generation failed")
}

func analyzeMessage(tokens int) string {
	if tokens > 0 {
		return fmt.Sprintf("Requirements analyzed (%d prompt tokens)", tokens)
	}
	return "Requirements analyzed"
}

// optimize validates file paths and fills in what the provider left out.
func optimize(code *model.GeneratedCode, gen generator.Generator) (string, error) {
	paths := make([]string, 0, len(code.Files))
	for _, f := range code.Files {
		if err := path.ValidateFilePath(f.Path); err != nil {
			return "", fmt.Errorf("file %q: %w", f.Path, err)
		}
		paths = append(paths, f.Path)
	}
	if code.DeploymentConfig == "" {
		doc, err := deployer.ComposeConfig(code)
		if err != nil {
			return "", err
		}
		code.DeploymentConfig = doc
	}
	code.Provider = gen.Name()
	code.Model = gen.Model()
	dirs := path.TopDirs(paths)
	if len(dirs) == 0 {
		return fmt.Sprintf("Validated %d files", len(paths)), nil
	}
	return fmt.Sprintf("Validated %d files in %s", len(paths), strings.Join(dirs, ", ")), nil
}

// genRun is the state of one pipeline execution.
type genRun struct {
	s        *lifecycleService
	b        backend.DataBackend
	p        *model.Project
	userID   uuid.UUID
	provider string
	started  time.Time
}

// beginStep appends an in_progress row. A failed append degrades poll mode only.
func (r *genRun) beginStep(ctx context.Context, step model.GenerationStep) uuid.UUID {
	l := &model.GenerationLog{
		ProjectID: r.p.ID,
		Step:      step,
		Status:    model.StepStatusInProgress,
		StartedAt: r.s.now(),
	}
	if err := r.b.Logs().Create(ctx, l); err != nil {
		r.s.log.Warn("create generation log failed", zap.String("step", string(step)), zap.Error(err))
		return uuid.Nil
	}
	return l.ID
}

func (r *genRun) finishStep(ctx context.Context, id uuid.UUID, status model.StepStatus, msg string) {
	if id == uuid.Nil {
		return
	}
	if err := r.b.Logs().Finish(ctx, id, status, msg, r.s.now()); err != nil {
		r.s.log.Warn("finish generation log failed", zap.String("log_id", id.String()), zap.Error(err))
	}
}

// fail moves the project to error and records the failure everywhere.
func (r *genRun) fail(ctx context.Context, step uuid.UUID, kind string, cause error) (*model.Project, error) {
	msg := cause.Error()
	r.finishStep(ctx, step, model.StepStatusFailed, msg)

	st := model.ProjectStatusError
	upd := repo.ProjectUpdate{Status: &st, ErrorMessage: &msg}
	if _, err := r.b.Projects().TransitionStatus(ctx, r.p.ID, []model.ProjectStatus{model.ProjectStatusGenerating}, upd); err != nil {
		r.s.log.Error("mark project failed", zap.String("project_id", r.p.ID.String()), zap.Error(err))
	}
	upd.Apply(r.p)

	elapsed := r.s.now().Sub(r.started)
	r.s.rec.record(ctx, r.b, r.p.ID, r.userID, model.ActionGenerationFailed, "Code generation failed", map[string]any{
		"error":       msg,
		"error_type":  kind,
		"provider":    r.provider,
		"duration_ms": elapsed.Milliseconds(),
	})
	r.s.events.publish(ctx, r.b, LifecycleEvent{
		Event:     EventProjectGenerationFailed,
		ProjectID: r.p.ID.String(),
		UserID:    r.userID.String(),
		Status:    string(st),
		Provider:  r.provider,
		Message:   msg,
	})
	telemetry.RecordGenerationError(ctx, r.provider, kind, float64(elapsed.Milliseconds()))
	r.s.log.Warn("generation failed",
		zap.String("project_id", r.p.ID.String()),
		zap.String("error_type", kind),
		zap.Error(cause))
	return r.p, cause
}

func (s *lifecycleService) Status(ctx context.Context, userID, projectID uuid.UUID) (*GenerationStatus, error) {
	b := s.resolver.For(ctx)
	p, err := loadOwned(ctx, b, projectID, userID)
	if err != nil {
		return nil, err
	}
	logs, err := b.Logs().ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list generation logs: %w", err)
	}
	run := progress.LatestRun(logs)
	if run == nil {
		run = []model.GenerationLog{}
	}
	pct := progress.Percent(logs)
	if p.Status == model.ProjectStatusCompleted || p.Status == model.ProjectStatusDeployed {
		pct = 100
	}
	return &GenerationStatus{
		ProjectID:    p.ID,
		Status:       p.Status,
		Progress:     pct,
		ErrorMessage: p.ErrorMessage,
		Logs:         run,
		CompletedAt:  p.CompletedAt,
	}, nil
}

// Stream simulates progress for demo sessions and follows the persisted logs otherwise.
func (s *lifecycleService) Stream(ctx context.Context, userID, projectID uuid.UUID, emit progress.Emitter) error {
	b := s.resolver.For(ctx)
	if b.Demo() {
		return progress.NewSimulator(s.opts.DemoInterval, s.opts.DemoIncrement).Run(ctx, projectID.String(), emit)
	}
	if _, err := loadOwned(ctx, b, projectID, userID); err != nil {
		return err
	}
	snap := func(ctx context.Context) (*progress.Snapshot, error) {
		p, err := b.Projects().Get(ctx, projectID)
		if err != nil {
			return nil, notFoundOr(err, "project")
		}
		logs, err := b.Logs().ListByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		return &progress.Snapshot{Status: p.Status, ErrorMessage: p.ErrorMessage, Logs: logs}, nil
	}
	return progress.NewFollower(s.opts.FollowInterval, s.opts.Timeout+30*time.Second).Follow(ctx, projectID.String(), snap, emit)
}
