package request_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-dayoff/internal/request"
	requesterrors "go-dayoff/internal/request/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeRequestService struct {
	submitFn     func(ctx context.Context, accountID string, req request.SubmitRequest) (request.RequestResponse, error)
	withdrawFn   func(ctx context.Context, actorID string, id int64) error
	decideFn     func(ctx context.Context, adminID string, id int64, approved bool) (request.RequestResponse, error)
	revokeFn     func(ctx context.Context, adminID string, id int64) (request.RequestResponse, error)
	reApproveFn  func(ctx context.Context, adminID string, id int64) (request.RequestResponse, error)
	addCommentFn func(ctx context.Context, authorID string, id int64, text string) (request.CommentResponse, error)
	usedDaysFn   func(ctx context.Context, accountID string, year int) (request.UsageResponse, error)
	getAllFn     func(ctx context.Context, filter request.ListFilter) ([]request.RequestResponse, error)
	getByIDFn    func(ctx context.Context, id int64) (request.RequestResponse, error)
}

func (f *fakeRequestService) Submit(ctx context.Context, accountID string, req request.SubmitRequest) (request.RequestResponse, error) {
	return f.submitFn(ctx, accountID, req)
}
func (f *fakeRequestService) Withdraw(ctx context.Context, actorID string, id int64) error {
	return f.withdrawFn(ctx, actorID, id)
}
func (f *fakeRequestService) Decide(ctx context.Context, adminID string, id int64, approved bool) (request.RequestResponse, error) {
	return f.decideFn(ctx, adminID, id, approved)
}
func (f *fakeRequestService) RevokeApproval(ctx context.Context, adminID string, id int64) (request.RequestResponse, error) {
	return f.revokeFn(ctx, adminID, id)
}
func (f *fakeRequestService) ReApprove(ctx context.Context, adminID string, id int64) (request.RequestResponse, error) {
	return f.reApproveFn(ctx, adminID, id)
}
func (f *fakeRequestService) AddComment(ctx context.Context, authorID string, id int64, text string) (request.CommentResponse, error) {
	return f.addCommentFn(ctx, authorID, id, text)
}
func (f *fakeRequestService) UsedDays(ctx context.Context, accountID string, year int) (request.UsageResponse, error) {
	return f.usedDaysFn(ctx, accountID, year)
}
func (f *fakeRequestService) GetAll(ctx context.Context, filter request.ListFilter) ([]request.RequestResponse, error) {
	return f.getAllFn(ctx, filter)
}
func (f *fakeRequestService) GetByID(ctx context.Context, id int64) (request.RequestResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeRequestService) PurgeAccount(ctx context.Context, accountID string) error {
	return nil
}

func TestRequestHandler_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeRequestService{
			submitFn: func(ctx context.Context, accountID string, req request.SubmitRequest) (request.RequestResponse, error) {
				assert.Equal(t, "alice", accountID)
				assert.Equal(t, "2026-03-02", req.Date)
				assert.True(t, req.UsePTO)
				return request.RequestResponse{
					ID:        1756400000000,
					AccountID: accountID,
					Date:      req.Date,
					UsePTO:    req.UsePTO,
					Status:    request.StatusPending,
				}, nil
			},
		}

		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"date":"2026-03-02","use_pto":true}`
		c.Request = httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("account_id", "alice")

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got request.RequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, int64(1756400000000), got.ID)
		assert.Equal(t, request.StatusPending, got.Status)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := request.NewHandler(&fakeRequestService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative duplicate returns conflict", func(t *testing.T) {
		svc := &fakeRequestService{
			submitFn: func(ctx context.Context, accountID string, req request.SubmitRequest) (request.RequestResponse, error) {
				return request.RequestResponse{}, requesterrors.ErrDuplicateRequest
			},
		}
		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(`{"date":"2026-03-02"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("account_id", "alice")

		h.Submit(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("negative unknown error stays opaque", func(t *testing.T) {
		svc := &fakeRequestService{
			submitFn: func(ctx context.Context, accountID string, req request.SubmitRequest) (request.RequestResponse, error) {
				return request.RequestResponse{}, errors.New("disk full")
			},
		}
		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(`{"date":"2026-03-02"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("account_id", "alice")

		h.Submit(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
		assert.NotContains(t, env.Error.Message, "disk full")
	})
}

func TestRequestHandler_Decide(t *testing.T) {
	t.Run("success approve", func(t *testing.T) {
		svc := &fakeRequestService{
			decideFn: func(ctx context.Context, adminID string, id int64, approved bool) (request.RequestResponse, error) {
				assert.Equal(t, "admin", adminID)
				assert.Equal(t, int64(77), id)
				assert.True(t, approved)
				return request.RequestResponse{ID: id, Status: request.StatusApproved, ProcessedBy: adminID}, nil
			},
		}
		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/requests/77/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: "77"}}
		c.Set("account_id", "admin")

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		h := request.NewHandler(&fakeRequestService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/requests/abc/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		h.Approve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative invalid transition", func(t *testing.T) {
		svc := &fakeRequestService{
			decideFn: func(ctx context.Context, adminID string, id int64, approved bool) (request.RequestResponse, error) {
				return request.RequestResponse{}, requesterrors.ErrInvalidTransition
			},
		}
		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/requests/77/reject", nil)
		c.Params = gin.Params{{Key: "id", Value: "77"}}
		c.Set("account_id", "admin")

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestRequestHandler_GetAll(t *testing.T) {
	t.Run("success with filters", func(t *testing.T) {
		svc := &fakeRequestService{
			getAllFn: func(ctx context.Context, filter request.ListFilter) ([]request.RequestResponse, error) {
				assert.Equal(t, "alice", filter.AccountID)
				assert.Equal(t, request.StatusPending, filter.Status)
				assert.Equal(t, 2026, filter.Year)
				return []request.RequestResponse{{ID: 1, AccountID: "alice"}}, nil
			},
		}
		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/requests?account_id=alice&status=pending&year=2026", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative bad year", func(t *testing.T) {
		h := request.NewHandler(&fakeRequestService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/requests?year=twenty", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRequestHandler_AddComment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeRequestService{
			addCommentFn: func(ctx context.Context, authorID string, id int64, text string) (request.CommentResponse, error) {
				assert.Equal(t, "alice", authorID)
				assert.Equal(t, int64(77), id)
				assert.Equal(t, "running late", text)
				return request.CommentResponse{ID: 1, AuthorID: authorID, Text: text}, nil
			},
		}
		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/requests/77/comments", strings.NewReader(`{"text":"running late"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "77"}}
		c.Set("account_id", "alice")

		h.AddComment(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("negative empty text reaches the service", func(t *testing.T) {
		svc := &fakeRequestService{
			addCommentFn: func(ctx context.Context, authorID string, id int64, text string) (request.CommentResponse, error) {
				return request.CommentResponse{}, requesterrors.ErrEmptyComment
			},
		}
		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/requests/77/comments", strings.NewReader(`{"text":""}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "77"}}
		c.Set("account_id", "alice")

		h.AddComment(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestRequestHandler_Usage(t *testing.T) {
	t.Run("success falls back to own account", func(t *testing.T) {
		svc := &fakeRequestService{
			usedDaysFn: func(ctx context.Context, accountID string, year int) (request.UsageResponse, error) {
				assert.Equal(t, "alice", accountID)
				assert.Equal(t, 2026, year)
				return request.UsageResponse{AccountID: accountID, Year: year, UsedDays: 3, Allowance: 24}, nil
			},
		}
		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/requests/usage?year=2026", nil)
		c.Set("account_id", "alice")

		h.Usage(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative missing year", func(t *testing.T) {
		h := request.NewHandler(&fakeRequestService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/requests/usage", nil)
		c.Set("account_id", "alice")

		h.Usage(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
