package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	advisorapp "github.com/finbook/backend/internal/application/advisor"
	identityapp "github.com/finbook/backend/internal/application/identity"
	ledgerapp "github.com/finbook/backend/internal/application/ledger"
	"github.com/finbook/backend/internal/infrastructure/advisor"
	"github.com/finbook/backend/internal/infrastructure/auth"
	"github.com/finbook/backend/internal/infrastructure/cache"
	"github.com/finbook/backend/internal/infrastructure/config"
	"github.com/finbook/backend/internal/infrastructure/persistence"
	"github.com/finbook/backend/internal/interfaces/http/handler"
	"github.com/finbook/backend/internal/interfaces/http/middleware"
	"github.com/finbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestMain runs before any tests and handles cleanup of the shared container
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	code := m.Run()

	CleanupSharedContainer()
	os.Exit(code)
}

// APITestServer wraps the test database and a fully wired HTTP server
type APITestServer struct {
	DB         *TestDB
	Engine     *gin.Engine
	UserRepo   *persistence.GormUserRepository
	TxRepo     *persistence.GormTransactionRepository
	BudgetRepo *persistence.GormBudgetRepository
	JWTService *auth.JWTService
	Blacklist  *auth.InMemoryTokenBlacklist
}

// NewAPITestServer builds the full API on top of the shared test database.
// Tables are truncated first so each test starts from a clean slate.
func NewAPITestServer(t *testing.T) *APITestServer {
	t.Helper()

	testDB := NewSharedTestDB(t)

	logger := zap.NewNop()

	userRepo := persistence.NewGormUserRepository(testDB.DB)
	txRepo := persistence.NewGormTransactionRepository(testDB.DB)
	budgetRepo := persistence.NewGormBudgetRepository(testDB.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "finbook-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	summaryCache := cache.NewInMemorySummaryCache()

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, logger)
	userService := identityapp.NewUserService(userRepo, logger)
	txService := ledgerapp.NewTransactionService(txRepo, budgetRepo, summaryCache, logger)
	budgetService := ledgerapp.NewBudgetService(budgetRepo, txRepo, summaryCache, logger)
	summaryService := ledgerapp.NewSummaryService(txRepo, summaryCache, time.Minute, logger)

	// Unconfigured advisor client; chat requests fail with 503
	advisorClient := advisor.NewClient(config.AdvisorConfig{})
	advisorService := advisorapp.NewAdvisorService(advisorClient, userRepo, txRepo, budgetRepo, 50, logger)

	authMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		UserVerifier:   identityapp.NewAccountVerifier(userRepo),
		Logger:         logger,
	})

	engine := gin.New()
	router.NewRouter(engine).Setup(router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Transaction: handler.NewTransactionHandler(txService, summaryService),
		Budget:      handler.NewBudgetHandler(budgetService),
		Advisor:     handler.NewAdvisorHandler(advisorService),
		System:      handler.NewSystemHandler(),
	}, authMiddleware, nil)

	server := &APITestServer{
		DB:         testDB,
		Engine:     engine,
		UserRepo:   userRepo,
		TxRepo:     txRepo,
		BudgetRepo: budgetRepo,
		JWTService: jwtService,
		Blacklist:  blacklist,
	}

	server.DB.CleanTables()

	return server
}

// Request makes an HTTP request to the test server
func (ts *APITestServer) Request(method, path string, body interface{}, token ...string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	if len(token) > 0 && token[0] != "" {
		req.Header.Set("Authorization", "Bearer "+token[0])
	}

	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)
	return w
}

// registeredUser holds the tokens issued for a freshly registered account
type registeredUser struct {
	ID           string
	Email        string
	AccessToken  string
	RefreshToken string
}

// RegisterUser registers an account through the API and returns its tokens
func (ts *APITestServer) RegisterUser(t *testing.T, name, email, password string) registeredUser {
	t.Helper()

	w := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %s", w.Body.String())

	var resp struct {
		Data struct {
			Token struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
			} `json:"token"`
			User struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return registeredUser{
		ID:           resp.Data.User.ID,
		Email:        resp.Data.User.Email,
		AccessToken:  resp.Data.Token.AccessToken,
		RefreshToken: resp.Data.Token.RefreshToken,
	}
}

// decodeData unmarshals the data envelope of a response into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
