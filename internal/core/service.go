package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/contactimport/internal/config"
	"github.com/JonMunkholm/contactimport/internal/contacts"
	"github.com/JonMunkholm/contactimport/internal/logging"
	"github.com/google/uuid"
)

var (
	ErrImportNotFound     = errors.New("import not found")
	ErrInvalidMergeOption = errors.New("invalid merge option")
)

const (
	DefaultImportTimeout = 2 * time.Minute
	DefaultResultTTL     = 5 * time.Minute
)

// Service runs imports against a ContactStore.
type Service struct {
	store         ContactStore
	mapper        contacts.Mapper
	limiter       *ImportLimiter
	defaultPolicy contacts.MergePolicy
	maxFileSize   int64
	timeout       time.Duration
	resultTTL     time.Duration
	now           func() time.Time

	mu      sync.RWMutex
	results map[string]*ImportResult
}

// Option customises a Service.
type Option func(*Service)

// WithMapper replaces the mapper, e.g. to pin the clock and ID source.
func WithMapper(m contacts.Mapper) Option {
	return func(s *Service) { s.mapper = m }
}

// WithClock sets the clock used to time imports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a service from configuration. A nil cfg uses defaults.
func NewService(store ContactStore, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		store:         store,
		limiter:       NewImportLimiter(0, 0),
		defaultPolicy: contacts.DefaultMergePolicy,
		maxFileSize:   DefaultMaxFileSize,
		timeout:       DefaultImportTimeout,
		resultTTL:     DefaultResultTTL,
		now:           time.Now,
		results:       make(map[string]*ImportResult),
	}
	if cfg != nil {
		s.limiter = NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
		s.defaultPolicy = contacts.MergePolicy{
			RemoveDuplicates: cfg.Import.RemoveDuplicates,
			UpdateExisting:   cfg.Import.UpdateExisting,
		}
		if cfg.Upload.MaxFileSize > 0 {
			s.maxFileSize = cfg.Upload.MaxFileSize
		}
		if cfg.Upload.Timeout > 0 {
			s.timeout = cfg.Upload.Timeout
		}
		if cfg.Upload.ResultTTL > 0 {
			s.resultTTL = cfg.Upload.ResultTTL
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPolicy is the merge policy applied when a request names none.
func (s *Service) DefaultPolicy() contacts.MergePolicy {
	return s.defaultPolicy
}

// MaxFileSize is the largest accepted upload in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// ListContacts returns the stored contacts matching query (all when empty).
func (s *Service) ListContacts(ctx context.Context, query string) ([]contacts.Contact, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts.Search(all, query), nil
}

// Preview parses the file and merges it against the stored collection
// without saving anything.
func (s *Service) Preview(ctx context.Context, req ImportRequest) (*ImportPreview, error) {
	policy := s.policy(req)

	outcome, err := s.parse(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	_, stats := contacts.MergeWithStats(existing, outcome.Records, policy)

	logging.WithFields(ctx,
		"op", "preview",
		"file", req.FileName,
		"parsed", len(outcome.Records),
		"row_errors", len(outcome.Errors),
	).Debug("import preview")

	return &ImportPreview{
		ImportSummary: newSummary(req.FileName, outcome, policy, stats),
		ExistingCount: len(existing),
	}, nil
}

// Import parses the file, merges it into the stored collection and saves
// the result. Load, merge and save happen inside one store update, so two
// imports never read the same snapshot.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	importID := uuid.NewString()
	started := s.now()
	log := logging.WithFields(ctx,
		"import_id", importID,
		"file", req.FileName,
		"client_ip", ClientIPFromContext(ctx),
		"user_agent", UserAgentFromContext(ctx),
	)
	log.Info("import started")

	policy := s.policy(req)
	outcome, err := s.parse(req)
	if err != nil {
		log.Warn("import rejected", "error", err)
		return nil, err
	}

	var (
		stats contacts.MergeStats
		total int
	)
	if len(outcome.Records) == 0 {
		existing, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("load contacts: %w", err)
		}
		total = len(existing)
	} else {
		err = s.store.Update(ctx, func(existing []contacts.Contact) ([]contacts.Contact, error) {
			var merged []contacts.Contact
			merged, stats = contacts.MergeWithStats(existing, outcome.Records, policy)
			total = len(merged)
			return merged, nil
		})
		if err != nil {
			log.Error("import failed", "error", err)
			return nil, fmt.Errorf("save contacts: %w", err)
		}
	}

	result := &ImportResult{
		ImportSummary: newSummary(req.FileName, outcome, policy, stats),
		ImportID:      importID,
		TotalCount:    total,
		StartedAt:     started,
		Duration:      s.now().Sub(started),
		ClientIP:      ClientIPFromContext(ctx),
	}

	if len(outcome.Errors) > 0 {
		log.Warn("rows skipped", "count", len(outcome.Errors), "first", outcome.Errors[0].String())
	}
	log.Info("import completed",
		"parsed", result.Parsed,
		"added", stats.Added,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"total", total,
		"duration", result.Duration,
	)

	s.mu.Lock()
	s.results[importID] = result
	s.mu.Unlock()
	s.cleanup(importID, s.resultTTL)

	return result, nil
}

// ImportResult returns a finished import's result while it is retained.
func (s *Service) ImportResult(importID string) (*ImportResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[importID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImportNotFound, importID)
	}
	cp := *result
	return &cp, nil
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) parse(req ImportRequest) (contacts.Outcome, error) {
	text, err := ReadSource(req.Body, req.FileName, s.maxFileSize)
	if err != nil {
		return contacts.Outcome{}, err
	}
	return s.mapper.Parse(text), nil
}

func (s *Service) policy(req ImportRequest) contacts.MergePolicy {
	if req.Policy != nil {
		return *req.Policy
	}
	return s.defaultPolicy
}

func (s *Service) cleanup(importID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.results, importID)
		s.mu.Unlock()
	})
}

// ParseMergePolicy reads the two policy flags as sent by a client. Blank
// values keep the corresponding field of def.
func ParseMergePolicy(removeDuplicates, updateExisting string, def contacts.MergePolicy) (contacts.MergePolicy, error) {
	policy := def
	if v := strings.TrimSpace(removeDuplicates); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def, fmt.Errorf("%w: removeDuplicates=%q", ErrInvalidMergeOption, removeDuplicates)
		}
		policy.RemoveDuplicates = b
	}
	if v := strings.TrimSpace(updateExisting); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def, fmt.Errorf("%w: updateExisting=%q", ErrInvalidMergeOption, updateExisting)
		}
		policy.UpdateExisting = b
	}
	return policy, nil
}
