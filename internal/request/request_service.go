package request

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-dayoff/internal/directory"
	directoryerrors "go-dayoff/internal/directory/errors"
	"go-dayoff/internal/events"
	requesterrors "go-dayoff/internal/request/errors"
	"go-dayoff/internal/shared/apperror"
	"go-dayoff/internal/shared/contextutil"

	"go.uber.org/zap"
)

// DecisionPublisher fans request decisions out to downstream consumers
// (payroll keys off the use_pto tag). Publishing is best-effort glue and
// never fails a workflow call.
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, ev events.RequestDecisionEvent) error
}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, accountID string, req SubmitRequest) (RequestResponse, error)
	Withdraw(ctx context.Context, actorID string, id int64) error
	Decide(ctx context.Context, adminID string, id int64, approved bool) (RequestResponse, error)
	RevokeApproval(ctx context.Context, adminID string, id int64) (RequestResponse, error)
	ReApprove(ctx context.Context, adminID string, id int64) (RequestResponse, error)
	AddComment(ctx context.Context, authorID string, id int64, text string) (CommentResponse, error)
	UsedDays(ctx context.Context, accountID string, year int) (UsageResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]RequestResponse, error)
	GetByID(ctx context.Context, id int64) (RequestResponse, error)
	PurgeAccount(ctx context.Context, accountID string) error
}

type service struct {
	mu        sync.Mutex
	ledger    Repository
	directory directory.Repository
	publisher DecisionPublisher
	logger    *zap.Logger
}

func NewService(ledger Repository, dir directory.Repository, publisher DecisionPublisher, logger ...*zap.Logger) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{ledger: ledger, directory: dir, publisher: publisher, logger: l}
}

// Submit reserves one allowance unit for the given date. The guard counts
// pending and approved requests alike: allowance is consumed at creation,
// not at approval.
func (s *service) Submit(ctx context.Context, accountID string, req SubmitRequest) (RequestResponse, error) {
	s.logger.Debug("submit request",
		zap.String("account_id", accountID),
		zap.String("date", req.Date),
		zap.Bool("use_pto", req.UsePTO),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidDateFormat
	}

	accounts, err := s.directory.Load(ctx)
	if err != nil {
		return RequestResponse{}, err
	}
	account, ok := accounts[accountID]
	if !ok {
		return RequestResponse{}, directoryerrors.ErrAccountNotFound
	}
	if account.IsAdmin() {
		// Admins approve requests, they do not file them.
		return RequestResponse{}, apperror.ErrForbidden
	}

	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return RequestResponse{}, err
	}

	// Any existing request for the pair blocks, whatever its status; the
	// UI routes the user to the existing one instead.
	for _, r := range ledger {
		if r.AccountID == accountID && r.Date == req.Date {
			s.logger.Warn("submit duplicate",
				zap.String("account_id", accountID),
				zap.String("date", req.Date),
			)
			return RequestResponse{}, requesterrors.ErrDuplicateRequest
		}
	}

	year := date.Year()
	if usedDays(ledger, accountID, year) >= account.Allowance {
		s.logger.Warn("submit allowance exceeded",
			zap.String("account_id", accountID),
			zap.Int("year", year),
			zap.Int("allowance", account.Allowance),
		)
		return RequestResponse{}, requesterrors.AllowanceExceeded(year)
	}

	r := Request{
		ID:          nextRequestID(ledger),
		AccountID:   accountID,
		Date:        req.Date,
		UsePTO:      req.UsePTO,
		Status:      StatusPending,
		RequestedAt: time.Now().UTC(),
		Comments:    []Comment{},
	}
	ledger = append(ledger, r)

	if err := s.ledger.Save(ctx, ledger); err != nil {
		s.logger.Error("submit persist failed", zap.Error(err))
		return RequestResponse{}, err
	}

	s.logger.Info("request submitted",
		zap.Int64("request_id", r.ID),
		zap.String("account_id", accountID),
		zap.String("date", req.Date),
	)
	return mapToResponse(r), nil
}

// Withdraw removes a pending request from the ledger entirely; decided
// requests stay forever as history.
func (s *service) Withdraw(ctx context.Context, actorID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexByID(ledger, id)
	if idx < 0 {
		return requesterrors.ErrRequestNotFound
	}
	if ledger[idx].AccountID != actorID {
		return requesterrors.ErrNotRequestOwner
	}
	if ledger[idx].Status != StatusPending {
		return requesterrors.ErrInvalidTransition
	}

	ledger = append(ledger[:idx], ledger[idx+1:]...)
	if err := s.ledger.Save(ctx, ledger); err != nil {
		s.logger.Error("withdraw persist failed", zap.Error(err))
		return err
	}

	s.logger.Info("request withdrawn",
		zap.Int64("request_id", id),
		zap.String("account_id", actorID),
	)
	return nil
}

func (s *service) Decide(ctx context.Context, adminID string, id int64, approved bool) (RequestResponse, error) {
	target := StatusRejected
	if approved {
		target = StatusApproved
	}
	return s.transition(ctx, adminID, id, StatusPending, target)
}

func (s *service) RevokeApproval(ctx context.Context, adminID string, id int64) (RequestResponse, error) {
	return s.transition(ctx, adminID, id, StatusApproved, StatusRejected)
}

func (s *service) ReApprove(ctx context.Context, adminID string, id int64) (RequestResponse, error) {
	return s.transition(ctx, adminID, id, StatusRejected, StatusApproved)
}

// transition is the single path every decision takes: admin-only, valid
// only from the expected current status, overwrites processedAt and
// processedBy, and never touches requestedAt or the comment thread.
func (s *service) transition(ctx context.Context, adminID string, id int64, from, to string) (RequestResponse, error) {
	s.logger.Debug("transition request",
		zap.Int64("request_id", id),
		zap.String("admin_id", adminID),
		zap.String("from", from),
		zap.String("to", to),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.directory.Load(ctx)
	if err != nil {
		return RequestResponse{}, err
	}
	admin, ok := accounts[adminID]
	if !ok || !admin.IsAdmin() {
		return RequestResponse{}, apperror.ErrForbidden
	}

	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return RequestResponse{}, err
	}

	idx := indexByID(ledger, id)
	if idx < 0 {
		return RequestResponse{}, requesterrors.ErrRequestNotFound
	}
	if ledger[idx].Status != from {
		s.logger.Warn("transition invalid",
			zap.Int64("request_id", id),
			zap.String("status", ledger[idx].Status),
			zap.String("expected", from),
		)
		return RequestResponse{}, requesterrors.ErrInvalidTransition
	}

	now := time.Now().UTC()
	ledger[idx].Status = to
	ledger[idx].ProcessedAt = &now
	ledger[idx].ProcessedBy = adminID

	if err := s.ledger.Save(ctx, ledger); err != nil {
		s.logger.Error("transition persist failed",
			zap.Int64("request_id", id),
			zap.Error(err),
		)
		return RequestResponse{}, err
	}

	s.logger.Info("request transitioned",
		zap.Int64("request_id", id),
		zap.String("status", to),
		zap.String("admin_id", adminID),
	)

	s.publishDecision(ctx, ledger[idx])
	return mapToResponse(ledger[idx]), nil
}

// AddComment appends to the request's thread. Any known account may
// comment; threads are append-only and ordered by creation.
func (s *service) AddComment(ctx context.Context, authorID string, id int64, text string) (CommentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return CommentResponse{}, requesterrors.ErrEmptyComment
	}

	accounts, err := s.directory.Load(ctx)
	if err != nil {
		return CommentResponse{}, err
	}
	if _, ok := accounts[authorID]; !ok {
		return CommentResponse{}, directoryerrors.ErrAccountNotFound
	}

	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return CommentResponse{}, err
	}

	idx := indexByID(ledger, id)
	if idx < 0 {
		return CommentResponse{}, requesterrors.ErrRequestNotFound
	}

	c := Comment{
		ID:        nextCommentID(ledger[idx].Comments),
		AuthorID:  authorID,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	ledger[idx].Comments = append(ledger[idx].Comments, c)

	if err := s.ledger.Save(ctx, ledger); err != nil {
		s.logger.Error("add comment persist failed",
			zap.Int64("request_id", id),
			zap.Error(err),
		)
		return CommentResponse{}, err
	}

	s.logger.Info("comment added",
		zap.Int64("request_id", id),
		zap.String("author_id", authorID),
	)
	return mapCommentToResponse(c), nil
}

// UsedDays recomputes consumption from the ledger on every call; nothing
// is cached because requests mutate continuously.
func (s *service) UsedDays(ctx context.Context, accountID string, year int) (UsageResponse, error) {
	accounts, err := s.directory.Load(ctx)
	if err != nil {
		return UsageResponse{}, err
	}
	account, ok := accounts[accountID]
	if !ok {
		return UsageResponse{}, directoryerrors.ErrAccountNotFound
	}

	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return UsageResponse{}, err
	}

	return UsageResponse{
		AccountID: accountID,
		Year:      year,
		UsedDays:  usedDays(ledger, accountID, year),
		Allowance: account.Allowance,
	}, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]RequestResponse, error) {
	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]RequestResponse, 0, len(ledger))
	for _, r := range ledger {
		if filter.AccountID != "" && r.AccountID != filter.AccountID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Date != "" && r.Date != filter.Date {
			continue
		}
		if filter.Year != 0 && r.Year() != filter.Year {
			continue
		}
		resp = append(resp, mapToResponse(r))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (RequestResponse, error) {
	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return RequestResponse{}, err
	}

	idx := indexByID(ledger, id)
	if idx < 0 {
		return RequestResponse{}, requesterrors.ErrRequestNotFound
	}
	return mapToResponse(ledger[idx]), nil
}

// PurgeAccount drops every request the account owns, comments included.
// Called by the directory during cascading account deletion.
func (s *service) PurgeAccount(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return err
	}

	kept := make(Ledger, 0, len(ledger))
	for _, r := range ledger {
		if r.AccountID != accountID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(ledger) {
		return nil
	}

	if err := s.ledger.Save(ctx, kept); err != nil {
		s.logger.Error("purge persist failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("requests purged",
		zap.String("account_id", accountID),
		zap.Int("removed", len(ledger)-len(kept)),
	)
	return nil
}

func (s *service) publishDecision(ctx context.Context, r Request) {
	if s.publisher == nil {
		return
	}

	ev := events.RequestDecisionEvent{
		EventType:  "request.decision",
		RequestID:  r.ID,
		AccountID:  r.AccountID,
		Date:       r.Date,
		UsePTO:     r.UsePTO,
		Status:     r.Status,
		DecidedBy:  r.ProcessedBy,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishDecision(ctx, ev); err != nil {
		// The request-scoped logger ties the failure back to the HTTP
		// call that triggered the decision.
		contextutil.GetLogger(ctx, s.logger).Error("publish decision failed",
			zap.Int64("request_id", r.ID),
			zap.Error(err),
		)
	}
}

// usedDays counts the requests consuming allowance for the year: every
// status except rejected. Rejecting a request frees its slot.
func usedDays(ledger Ledger, accountID string, year int) int {
	count := 0
	for _, r := range ledger {
		if r.AccountID == accountID && r.Year() == year && r.Status != StatusRejected {
			count++
		}
	}
	return count
}

// nextRequestID uses the creation instant in milliseconds, bumped past
// the ledger's current maximum so ids stay strictly monotonic even when
// two submissions land in the same millisecond.
func nextRequestID(ledger Ledger) int64 {
	id := time.Now().UnixMilli()
	for _, r := range ledger {
		if r.ID >= id {
			id = r.ID + 1
		}
	}
	return id
}

func nextCommentID(comments []Comment) int64 {
	id := time.Now().UnixMilli()
	for _, c := range comments {
		if c.ID >= id {
			id = c.ID + 1
		}
	}
	return id
}

func indexByID(ledger Ledger, id int64) int {
	for i, r := range ledger {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func mapToResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Date:        r.Date,
		UsePTO:      r.UsePTO,
		Status:      r.Status,
		RequestedAt: r.RequestedAt.Format(time.RFC3339),
		ProcessedBy: r.ProcessedBy,
		Comments:    make([]CommentResponse, 0, len(r.Comments)),
	}
	if r.ProcessedAt != nil {
		v := r.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &v
	}
	for _, c := range r.Comments {
		resp.Comments = append(resp.Comments, mapCommentToResponse(c))
	}
	return resp
}

func mapCommentToResponse(c Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		Timestamp: c.Timestamp.Format(time.RFC3339),
	}
}
