package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "dealership/internal/delivery/context"
	"dealership/internal/domain/entity"
	"dealership/internal/domain/service"
	mockSvc "dealership/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(slog.New(slog.DiscardHandler)).HandleHTTPError

	return e
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Error.Details, "auth failures never expose details")

	return body.Error.Code
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		setupMock  func(m *mockSvc.MockTokenService)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHENTICATED",
		},
		{
			name:       "wrong scheme",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHENTICATED",
		},
		{
			name:       "bearer without token",
			header:     "Bearer ",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHENTICATED",
		},
		{
			name:   "expired token",
			header: "Bearer expired",
			setupMock: func(m *mockSvc.MockTokenService) {
				m.On("Verify", "expired", entity.TokenKindAccess).Return(nil, service.ErrTokenExpired)
			},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:   "refresh token used as access token",
			header: "Bearer refresh",
			setupMock: func(m *mockSvc.MockTokenService) {
				m.On("Verify", "refresh", entity.TokenKindAccess).Return(nil, service.ErrWrongTokenType)
			},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:   "valid token",
			header: "Bearer good",
			setupMock: func(m *mockSvc.MockTokenService) {
				m.On("Verify", "good", entity.TokenKindAccess).Return(&entity.Principal{ID: userID}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSvc := mockSvc.NewMockTokenService(t)
			if tt.setupMock != nil {
				tt.setupMock(tokenSvc)
			}
			mw := NewAuthMiddleware(tokenSvc, slog.New(slog.DiscardHandler))

			e := newTestEcho()
			e.GET("/protected", func(c echo.Context) error {
				id, ok := deliverycontext.Principal(c)
				require.True(t, ok)
				assert.Equal(t, userID, id)

				fromCtx, ok := deliverycontext.PrincipalFrom(c.Request().Context())
				require.True(t, ok)
				assert.Equal(t, userID, fromCtx)

				return c.NoContent(http.StatusOK)
			}, mw.Authenticate)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = bearerToken("Bearer")
	assert.False(t, ok)
}
