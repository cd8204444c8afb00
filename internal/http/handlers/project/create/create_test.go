package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrdekan/projects-api-test-task/internal/http/middlewarectx"
	"github.com/mrdekan/projects-api-test-task/internal/models"
)

// Мок сервиса с методом Create
type ProjectServiceMock struct {
	mock.Mock
}

func (m *ProjectServiceMock) Create(ctx context.Context, ownerUID string, req models.DummyProject) (*models.Project, error) {
	args := m.Called(ctx, ownerUID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	svcMock := new(ProjectServiceMock)
	logger := newNoopLogger()

	handler := New(logger, svcMock)

	created := &models.Project{
		ID:       "proj-1",
		OwnerUID: "owner-1",
		Name:     "my project",
		URL:      "https://example.com",
		Status:   models.StatusActive,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		withOwner      bool
		mockResult     *models.Project
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name: "valid create",
			requestBody: models.DummyProject{
				Name: "my project",
				URL:  "https://example.com",
			},
			withOwner:      true,
			mockResult:     created,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			withOwner:      true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing name",
			requestBody: models.DummyProject{
				URL: "https://example.com",
			},
			withOwner:      true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Name is a required field",
			wantStatus:     "Error",
		},
		{
			name: "validation error - bad url",
			requestBody: models.DummyProject{
				Name: "my project",
				URL:  "not a url",
			},
			withOwner:      true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field URL must be a valid url",
			wantStatus:     "Error",
		},
		{
			name: "missing owner uid in context",
			requestBody: models.DummyProject{
				Name: "my project",
				URL:  "https://example.com",
			},
			withOwner:      false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
			wantStatus:     "Error",
		},
		{
			name: "service error",
			requestBody: models.DummyProject{
				Name: "my project",
				URL:  "https://example.com",
			},
			withOwner:      true,
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not create project",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock.ExpectedCalls = nil
			svcMock.Calls = nil

			if tt.mockResult != nil || tt.mockErr != nil {
				svcMock.On("Create", mock.Anything, "owner-1", mock.Anything).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withOwner {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, "owner-1")
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				project, ok := data["project"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "proj-1", project["id"])
				assert.Equal(t, "active", project["status"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}
