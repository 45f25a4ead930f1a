package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IpsitaPrusty/smart-home-website/domain"
	"github.com/IpsitaPrusty/smart-home-website/internal/mocks"
)

var handlerTestNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func setupAuthRouter(t *testing.T, registrationSvc *mocks.MockRegistrationService) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	h := NewAuthHandlers(registrationSvc, mocks.NewMockConsentService(), mocks.NewMockClock(handlerTestNow))

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/otp/verify", h.VerifyOTP)
	r.POST("/auth/otp/resend", h.ResendOTP)
	r.POST("/auth/login", h.Login)
	return r
}

func TestAuthHandlers_Register(t *testing.T) {
	validBody := RegisterRequest{
		Name:            "Ada Example",
		Email:           "ada@example.com",
		DateOfBirth:     "1994-03-01",
		Password:        "Abc12345!",
		ConfirmPassword: "Abc12345!",
		AcceptedTerms:   true,
	}

	tests := []struct {
		name           string
		body           interface{}
		setupMocks     func(*mocks.MockRegistrationService)
		expectedStatus int
		check          func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "adult registration",
			body:           validBody,
			setupMocks:     func(svc *mocks.MockRegistrationService) {},
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				if data["parental_required"] != false {
					t.Error("adult flagged for parental consent")
				}
			},
		},
		{
			name: "child routed to parental flow",
			body: RegisterRequest{
				Name:        "Casey Example",
				Email:       "casey@example.com",
				DateOfBirth: "2014-02-20",
			},
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.SubmitDetailsFunc = func(ctx context.Context, details domain.RegistrationDetails) (*domain.RegistrationOutcome, error) {
					return &domain.RegistrationOutcome{
						Account:          &domain.Account{ID: 3, Email: details.Email, RegistrationState: domain.RegStateParentalFlow},
						RoutedToParental: true,
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				if data["parental_required"] != true {
					t.Error("child not flagged for parental consent")
				}
			},
		},
		{
			name: "duplicate email",
			body: validBody,
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.SubmitDetailsFunc = func(ctx context.Context, details domain.RegistrationDetails) (*domain.RegistrationOutcome, error) {
					return nil, domain.ErrAccountAlreadyExists
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "weak password",
			body: validBody,
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.SubmitDetailsFunc = func(ctx context.Context, details domain.RegistrationDetails) (*domain.RegistrationOutcome, error) {
					return nil, domain.ErrWeakPassword
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "OTP delivery failure",
			body: validBody,
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.SubmitDetailsFunc = func(ctx context.Context, details domain.RegistrationDetails) (*domain.RegistrationOutcome, error) {
					return nil, domain.ErrDeliveryFailed
				}
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name: "malformed date of birth",
			body: RegisterRequest{
				Name:        "Ada Example",
				Email:       "ada@example.com",
				DateOfBirth: "03/01/1994",
			},
			setupMocks:     func(svc *mocks.MockRegistrationService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing required fields",
			body:           map[string]string{"email": "ada@example.com"},
			setupMocks:     func(svc *mocks.MockRegistrationService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockRegistrationService()
			tt.setupMocks(svc)
			r := setupAuthRouter(t, svc)

			w := performJSON(t, r, http.MethodPost, "/auth/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.check != nil {
				tt.check(t, decodeBody(t, w))
			}
		})
	}
}

func TestAuthHandlers_VerifyOTP(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMocks     func(*mocks.MockRegistrationService)
		expectedStatus int
	}{
		{
			name:           "successful verification",
			body:           OTPVerifyRequest{AccountID: 1, Code: "123456"},
			setupMocks:     func(svc *mocks.MockRegistrationService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong code",
			body:           OTPVerifyRequest{AccountID: 1, Code: "000000"},
			setupMocks:     func(svc *mocks.MockRegistrationService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "expired code",
			body: OTPVerifyRequest{AccountID: 1, Code: "123456"},
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.SubmitOTPFunc = func(ctx context.Context, accountID uint, code string) (*domain.Account, error) {
					return nil, domain.ErrChallengeExpired
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "attempts exhausted",
			body: OTPVerifyRequest{AccountID: 1, Code: "123456"},
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.SubmitOTPFunc = func(ctx context.Context, accountID uint, code string) (*domain.Account, error) {
					return nil, domain.ErrChallengeExhausted
				}
			},
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name: "no challenge issued",
			body: OTPVerifyRequest{AccountID: 1, Code: "123456"},
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.SubmitOTPFunc = func(ctx context.Context, accountID uint, code string) (*domain.Account, error) {
					return nil, domain.ErrChallengeNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing code",
			body:           map[string]interface{}{"account_id": 1},
			setupMocks:     func(svc *mocks.MockRegistrationService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockRegistrationService()
			tt.setupMocks(svc)
			r := setupAuthRouter(t, svc)

			w := performJSON(t, r, http.MethodPost, "/auth/otp/verify", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_VerifyOTP_ReturnsConsentItems(t *testing.T) {
	svc := mocks.NewMockRegistrationService()
	r := setupAuthRouter(t, svc)

	w := performJSON(t, r, http.MethodPost, "/auth/otp/verify", OTPVerifyRequest{AccountID: 1, Code: "123456"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", w.Code, w.Body.String())
	}

	data := decodeBody(t, w)["data"].(map[string]interface{})
	required, ok := data["required_items"].([]interface{})
	if !ok || len(required) != 3 {
		t.Errorf("required_items = %v, want the three required consents", data["required_items"])
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMocks     func(*mocks.MockRegistrationService)
		expectedStatus int
	}{
		{
			name:           "successful login",
			body:           LoginRequest{Email: "ada@example.com", Password: "Abc12345!"},
			setupMocks:     func(svc *mocks.MockRegistrationService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name: "invalid credentials",
			body: LoginRequest{Email: "ada@example.com", Password: "wrong"},
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrInvalidCredentials
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unverified account",
			body: LoginRequest{Email: "ada@example.com", Password: "Abc12345!"},
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrNotAuthenticated
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "denied account",
			body: LoginRequest{Email: "ada@example.com", Password: "Abc12345!"},
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrConsentDenied
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing password",
			body:           map[string]string{"email": "ada@example.com"},
			setupMocks:     func(svc *mocks.MockRegistrationService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockRegistrationService()
			tt.setupMocks(svc)
			r := setupAuthRouter(t, svc)

			w := performJSON(t, r, http.MethodPost, "/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_Me(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setupMeRouter := func(svc *mocks.MockRegistrationService) *gin.Engine {
		h := NewAuthHandlers(svc, mocks.NewMockConsentService(), mocks.NewMockClock(handlerTestNow))
		r := gin.New()
		r.GET("/auth/me", func(c *gin.Context) {
			c.Set("account_id", uint(1))
			c.Set("session_id", "test-session")
			h.Me(c)
		})
		return r
	}

	t.Run("consented account sees profile with age and tier", func(t *testing.T) {
		svc := mocks.NewMockRegistrationService()
		svc.DashboardGateFunc = func(ctx context.Context, accountID uint) (*domain.Account, error) {
			return &domain.Account{
				ID:            accountID,
				Name:          "Ada Example",
				Email:         "ada@example.com",
				DateOfBirth:   time.Date(1994, 3, 1, 0, 0, 0, 0, time.UTC),
				Authenticated: true,
				ConsentStatus: domain.ConsentSelfGranted,
			}, nil
		}
		r := setupMeRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d (body: %s)", w.Code, w.Body.String())
		}
		data := decodeBody(t, w)["data"].(map[string]interface{})
		if data["age"] != float64(30) {
			t.Errorf("age = %v, want 30", data["age"])
		}
		if data["tier"] != string(domain.TierAdult) {
			t.Errorf("tier = %v, want ADULT", data["tier"])
		}
	})

	t.Run("pending consent redirects to consent step", func(t *testing.T) {
		svc := mocks.NewMockRegistrationService()
		svc.DashboardGateFunc = func(ctx context.Context, accountID uint) (*domain.Account, error) {
			return nil, domain.ErrConsentIncomplete
		}
		r := setupMeRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d", w.Code)
		}
		if body := decodeBody(t, w); body["redirect"] != "consent" {
			t.Errorf("redirect = %v, want consent", body["redirect"])
		}
	})
}
