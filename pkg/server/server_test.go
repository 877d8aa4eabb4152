package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/estimator/pkg/models/api"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/pricing"
	"github.com/de-tools/estimator/pkg/server/middleware"
	"github.com/de-tools/estimator/pkg/services/documents"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDocuments struct {
	mock.Mock
}

func (m *mockDocuments) Totals(ctx context.Context, kind domain.Kind, records domain.Records) (pricing.Totals, error) {
	args := m.Called(ctx, kind, records)
	return args.Get(0).(pricing.Totals), args.Error(1)
}

func (m *mockDocuments) ProjectTotals(ctx context.Context, projectID string) (pricing.Totals, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(pricing.Totals), args.Error(1)
}

func (m *mockDocuments) Render(ctx context.Context, kind domain.Kind, records domain.Records) (*documents.Artifact, error) {
	args := m.Called(ctx, kind, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documents.Artifact), args.Error(1)
}

func (m *mockDocuments) Publish(ctx context.Context, projectID string, kind domain.Kind) (*documents.Publication, error) {
	args := m.Called(ctx, projectID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documents.Publication), args.Error(1)
}

func (m *mockDocuments) Import(ctx context.Context, records domain.Records) (domain.Records, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(domain.Records), args.Error(1)
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var v T
		err := json.Unmarshal(data, &v)
		return v, err
	}
}

func estimateTotals(t *testing.T) pricing.Totals {
	q := decimal.NewFromInt(20)
	totals, err := pricing.Compute(
		[]domain.LineItem{{Category: domain.CategoryMaterial, Quantity: &q, UnitPrice: decimal.NewFromInt(50)}},
		nil,
		pricing.Options{TaxPercent: decimal.NewFromInt(25)},
	)
	require.NoError(t, err)
	return totals
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	docs := new(mockDocuments)

	router := ConfigureRouter(Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Documents: docs,
			Logger:    logger,
		},
	})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	generated := time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)
	totals := estimateTotals(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:   "Totals",
			method: http.MethodPost,
			path:   "/api/v1/totals",
			body:   `{"project":{"name":"Villa Ågren"},"items":[{"category":"material","quantity":20,"unit_price":50}]}`,
			setupMocks: func() {
				docs.On("Totals", mock.Anything, domain.Kind(""), mock.Anything).Return(totals, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected:       "1250",
			parseResponse: func(data []byte) (interface{}, error) {
				var v api.Totals
				err := json.Unmarshal(data, &v)
				return v.TotalInclTax.String(), err
			},
		},
		{
			name:   "ProjectTotals",
			method: http.MethodGet,
			path:   "/api/v1/projects/p-1/totals",
			setupMocks: func() {
				docs.On("ProjectTotals", mock.Anything, "p-1").Return(totals, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected:       "1000",
			parseResponse: func(data []byte) (interface{}, error) {
				var v api.Totals
				err := json.Unmarshal(data, &v)
				return v.Subtotal.String(), err
			},
		},
		{
			name:   "Publish",
			method: http.MethodPost,
			path:   "/api/v1/projects/p-1/documents/schedule",
			setupMocks: func() {
				docs.On("Publish", mock.Anything, "p-1", domain.KindSchedule).Return(&documents.Publication{
					Receipt: domain.Receipt{
						ProjectID: "p-1", Kind: domain.KindSchedule, FileName: "villa_ågren_2026-10-19_tidplan.pdf",
						Key: "p-1/schedule/k/villa_ågren_2026-10-19_tidplan.pdf", Location: "file:///srv/p-1",
						Pages: 1, Bytes: 2048, GeneratedAt: generated,
					},
				}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expected: api.Receipt{
				ProjectID: "p-1", Kind: "schedule", FileName: "villa_ågren_2026-10-19_tidplan.pdf",
				Key: "p-1/schedule/k/villa_ågren_2026-10-19_tidplan.pdf", Location: "file:///srv/p-1",
				Pages: 1, Bytes: 2048, GeneratedAt: generated,
			},
			parseResponse: unmarshalResponse[api.Receipt](),
		},
		{
			name:           "Publish_UnknownKind",
			method:         http.MethodPost,
			path:           "/api/v1/projects/p-1/documents/invoice",
			setupMocks:     func() {},
			expectedStatus: http.StatusNotFound,
			expected:       true,
			parseResponse: func(data []byte) (interface{}, error) {
				var v api.Error
				err := json.Unmarshal(data, &v)
				return strings.Contains(v.Error, "unknown document kind"), err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMocks()

			req, err := http.NewRequest(tt.method, testServer.URL+tt.path, bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			got, err := tt.parseResponse(body)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	docs.AssertExpectations(t)
}

func TestWebAPI_Metrics(t *testing.T) {
	router := ConfigureRouter(Config{Dependencies: Dependencies{Documents: new(mockDocuments), Logger: zerolog.Nop()}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestLoggerMiddleware_KeepsRequestID(t *testing.T) {
	router := ConfigureRouter(Config{Dependencies: Dependencies{Documents: new(mockDocuments), Logger: zerolog.Nop()}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(middleware.RequestIDHeader))
}

func TestNewWebAPI_DefaultShutdownTimeout(t *testing.T) {
	w := NewWebAPI(Config{Addr: "127.0.0.1:0", Dependencies: Dependencies{Logger: zerolog.Nop()}})
	assert.Equal(t, defaultShutdownTimeout, w.shutdownTimeout)
	assert.Equal(t, "127.0.0.1:0", w.server.Addr)
}
