package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/example/certbatch/internal/core/archive"
	"github.com/example/certbatch/internal/core/batch"
	"github.com/example/certbatch/internal/core/destination"
	"github.com/example/certbatch/internal/core/template"
	"github.com/example/certbatch/internal/ctxutil"
	"github.com/example/certbatch/internal/logging"
	"github.com/example/certbatch/internal/ports/primary"
	"github.com/example/certbatch/internal/ports/secondary"
)

// IssuanceDeps holds everything the batch orchestrator drives.
type IssuanceDeps struct {
	Registry   *template.Registry
	Resolver   *DestinationResolver
	Allocator  *SerialAllocator
	Fetcher    secondary.BackgroundFetcher
	Renderer   secondary.DocumentRenderer
	Publisher  *ArtifactPublisher
	Auditor    *AuditRecorder
	Notifier   *Notifier
	Logger     *slog.Logger
	Workers    int           // recipients processed concurrently; <= 1 means strictly sequential
	NewBatchID func() string // defaults to a random UUID
}

// IssuanceServiceImpl implements the IssuanceService interface. It runs the
// per-recipient pipeline and isolates failures to the recipient they hit.
type IssuanceServiceImpl struct {
	deps IssuanceDeps
}

// NewIssuanceService creates a new IssuanceService with injected dependencies.
func NewIssuanceService(deps IssuanceDeps) *IssuanceServiceImpl {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Workers < 1 {
		deps.Workers = 1
	}
	if deps.NewBatchID == nil {
		deps.NewBatchID = func() string { return uuid.NewString() }
	}
	return &IssuanceServiceImpl{deps: deps}
}

// ValidateBatch applies the batch-level checks of IssueBatch without
// touching any recipient.
func (s *IssuanceServiceImpl) ValidateBatch(ctx context.Context, req primary.IssueBatchRequest) error {
	_, _, err := s.validate(req)
	return err
}

// IssueBatch validates the request, then processes every recipient.
func (s *IssuanceServiceImpl) IssueBatch(ctx context.Context, req primary.IssueBatchRequest) (*primary.BatchOutcome, error) {
	ids, parentID, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	batchID := s.deps.NewBatchID()
	ctx = ctxutil.WithBatchID(ctx, batchID)
	logger := logging.FromContext(ctx, s.deps.Logger)

	templates := s.deps.Registry.Select(ids)
	logger.Info("batch started",
		"recipients", len(req.Recipients),
		"templates", len(templates),
		"workers", s.deps.Workers,
	)

	run := &batchRun{
		svc:         s,
		parentID:    parentID,
		templates:   templates,
		backgrounds: newBackgroundCache(s.deps.Fetcher),
	}
	results := run.processAll(ctx, req.Recipients)

	outcome := batch.Summarize(results)
	logger.Info("batch finished",
		"processed", outcome.Processed,
		"successes", outcome.Successes,
		"failures", outcome.Failures,
	)

	return s.outcomeToPort(batchID, outcome), nil
}

// validate checks the template selection, then the recipients, then the
// destination, returning the selected ids and the parent folder id.
func (s *IssuanceServiceImpl) validate(req primary.IssueBatchRequest) ([]string, string, error) {
	ids, guard := template.ParseSelection(template.SelectionContext{
		Raw:      req.TemplatesJSON,
		Registry: s.deps.Registry,
	})
	if !guard.Allowed {
		return nil, "", NewValidationError(guard.Error())
	}

	if req.Recipients == nil {
		return nil, "", NewValidationError(ErrMissingRecipients)
	}

	if req.DestinationURL == "" {
		return nil, "", NewValidationError(ErrMissingDestination)
	}
	parentID, ok := destination.ExtractFolderID(req.DestinationURL)
	if !ok {
		return nil, "", NewValidationError(ErrInvalidDestination)
	}
	return ids, parentID, nil
}

// ListTemplates returns the template catalog.
func (s *IssuanceServiceImpl) ListTemplates(ctx context.Context) []*primary.Template {
	all := s.deps.Registry.All()
	out := make([]*primary.Template, len(all))
	for i, d := range all {
		out[i] = &primary.Template{
			ID:               d.ID,
			BackgroundSource: d.BackgroundSource,
			SerialPrefix:     d.SerialPrefix,
		}
	}
	return out
}

// batchRun holds the state shared by every recipient of one batch.
type batchRun struct {
	svc         *IssuanceServiceImpl
	parentID    string
	templates   []template.Descriptor
	backgrounds *backgroundCache
}

// processAll fans recipients out over a bounded worker pool. Each result is
// written to the slot of its input row, so details keep input order.
func (b *batchRun) processAll(ctx context.Context, recipients []primary.Recipient) []batch.Result {
	results := make([]batch.Result, len(recipients))

	workers := b.svc.deps.Workers
	if workers > len(recipients) {
		workers = len(recipients)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := batch.Recipient{FullName: recipients[i].FullName, Email: recipients[i].Email}
				results[i] = b.processRecipient(ctx, r)
			}
		}()
	}

	for i := range recipients {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// processRecipient runs ResolveDestination → per-template issuance →
// SendNotification. The first failing step ends the recipient; work already
// committed for earlier templates stays in place.
func (b *batchRun) processRecipient(ctx context.Context, r batch.Recipient) batch.Result {
	email := batch.ReportedEmail(r)

	if guard := batch.CanProcessRecipient(r); !guard.Allowed {
		logging.FromContext(ctx, b.svc.deps.Logger).Warn("recipient skipped", "email", email, "reason", guard.Reason)
		return batch.Failed(email, ErrMissingRequiredFields)
	}

	ctx = ctxutil.WithRecipient(ctx, r.Email)
	logger := logging.FromContext(ctx, b.svc.deps.Logger)

	if err := b.issueAll(ctx, r); err != nil {
		attrs := []any{"error", err}
		if stepErr, ok := err.(*StepError); ok {
			attrs = append(attrs, "step", string(stepErr.Step))
			if stepErr.TemplateID != "" {
				attrs = append(attrs, "template", stepErr.TemplateID)
			}
		}
		logger.Error("recipient failed", attrs...)
		return batch.Failed(email, err)
	}

	logger.Info("recipient completed", "certificates", len(b.templates))
	return batch.Succeeded(r.Email)
}

func (b *batchRun) issueAll(ctx context.Context, r batch.Recipient) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dest, err := b.svc.deps.Resolver.Resolve(ctx, b.parentID, r.FullName)
	if err != nil {
		return stepFailed(batch.StepResolveDestination, "", err)
	}

	bundle := archive.NewBuilder()
	for _, tmpl := range b.templates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.issueOne(ctx, r, tmpl, dest, bundle); err != nil {
			return err
		}
	}

	archiveBytes, err := bundle.Finalize()
	if err != nil {
		return stepFailed(batch.StepArchive, "", err)
	}

	if err := b.svc.deps.Notifier.Send(ctx, r.Email, dest.ShareableReference, archiveBytes, r.FullName); err != nil {
		return stepFailed(batch.StepNotify, "", err)
	}
	return nil
}

// issueOne issues a single certificate: Allocate → Render → Publish →
// RecordAudit → AppendToArchive.
func (b *batchRun) issueOne(ctx context.Context, r batch.Recipient, tmpl template.Descriptor, dest *Destination, bundle *archive.Builder) error {
	deps := b.svc.deps

	background, err := b.backgrounds.get(ctx, tmpl.BackgroundSource)
	if err != nil {
		return stepFailed(batch.StepFetchBackground, tmpl.ID, err)
	}

	alloc, err := deps.Allocator.Allocate(ctx, tmpl.SerialPrefix)
	if err != nil {
		return stepFailed(batch.StepAllocate, tmpl.ID, err)
	}

	pdf, err := deps.Renderer.Render(ctx, secondary.RenderRequest{
		Background:         background,
		RecipientName:      r.FullName,
		SerialNumber:       alloc.SerialNumber,
		ShareableReference: dest.ShareableReference,
	})
	if err != nil {
		b.void(ctx, alloc, batch.StepRender, err)
		return stepFailed(batch.StepRender, tmpl.ID, err)
	}

	fileName := destination.ArtifactFileName(tmpl.SerialPrefix, r.FullName)
	artifact, err := deps.Publisher.Publish(ctx, dest.FolderID, fileName, pdf)
	if err != nil {
		b.void(ctx, alloc, batch.StepPublish, err)
		return stepFailed(batch.StepPublish, tmpl.ID, err)
	}

	if err := deps.Auditor.Record(ctx, r, tmpl, alloc, dest, artifact); err != nil {
		b.void(ctx, alloc, batch.StepRecordAudit, err)
		return stepFailed(batch.StepRecordAudit, tmpl.ID, err)
	}

	if err := bundle.Add(fileName, pdf); err != nil {
		return stepFailed(batch.StepArchive, tmpl.ID, err)
	}

	logging.FromContext(ctx, deps.Logger).Info("certificate issued",
		"serial", alloc.SerialNumber,
		"template", tmpl.ID,
		"file", fileName,
	)
	return nil
}

// void records an allocation whose certificate was not issued. A failure to
// void is logged and does not replace the step error.
func (b *batchRun) void(ctx context.Context, alloc *Allocation, step batch.Step, cause error) {
	reason := fmt.Sprintf("%s failed: %v", step, cause)
	if err := b.svc.deps.Allocator.Void(ctx, alloc, reason); err != nil {
		logging.FromContext(ctx, b.svc.deps.Logger).Warn("failed to void serial",
			"serial", alloc.SerialNumber,
			"error", err,
		)
	}
}

func (s *IssuanceServiceImpl) outcomeToPort(batchID string, o batch.Outcome) *primary.BatchOutcome {
	details := make([]primary.RecipientResult, len(o.Details))
	for i, d := range o.Details {
		details[i] = primary.RecipientResult{
			Success: d.Success,
			Email:   d.Email,
			Error:   d.Error,
		}
	}
	return &primary.BatchOutcome{
		BatchID:   batchID,
		Processed: o.Processed,
		Successes: o.Successes,
		Failures:  o.Failures,
		Details:   details,
	}
}

// backgroundCache fetches each template background at most once per batch.
// Failed fetches are not cached; the next recipient retries the source.
type backgroundCache struct {
	fetcher secondary.BackgroundFetcher

	mu     sync.Mutex
	images map[string][]byte
}

func newBackgroundCache(fetcher secondary.BackgroundFetcher) *backgroundCache {
	return &backgroundCache{
		fetcher: fetcher,
		images:  make(map[string][]byte),
	}
}

func (c *backgroundCache) get(ctx context.Context, source string) ([]byte, error) {
	c.mu.Lock()
	img, ok := c.images[source]
	c.mu.Unlock()
	if ok {
		return img, nil
	}

	img, err := c.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[source] = img
	c.mu.Unlock()
	return img, nil
}

// Ensure IssuanceServiceImpl implements the interface.
var _ primary.IssuanceService = (*IssuanceServiceImpl)(nil)
