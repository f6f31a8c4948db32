package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appledger "github.com/finbook/backend/internal/application/ledger"
	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type transactionTestEnv struct {
	router     *gin.Engine
	txRepo     *MockTransactionRepository
	budgetRepo *MockBudgetRepository
	ownerID    uuid.UUID
}

func setupTransactionTestRouter() *transactionTestEnv {
	txRepo := new(MockTransactionRepository)
	budgetRepo := new(MockBudgetRepository)
	summaryCache := cache.NewInMemorySummaryCache()

	txService := appledger.NewTransactionService(txRepo, budgetRepo, summaryCache, zap.NewNop())
	summaryService := appledger.NewSummaryService(txRepo, summaryCache, time.Minute, zap.NewNop())
	handler := NewTransactionHandler(txService, summaryService)

	ownerID := uuid.New()

	router := gin.New()
	group := router.Group("/transactions", addTestJWTContext(ownerID.String()))
	group.POST("", handler.Create)
	group.GET("", handler.List)
	group.GET("/summary", handler.Overview)
	group.GET("/summary/monthly", handler.MonthlySummary)
	group.GET("/categories", handler.Categories)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)

	return &transactionTestEnv{
		router:     router,
		txRepo:     txRepo,
		budgetRepo: budgetRepo,
		ownerID:    ownerID,
	}
}

func getJSON(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newTestTransaction(t *testing.T, ownerID uuid.UUID) *ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(
		ownerID,
		ledger.TransactionTypeExpense,
		decimal.NewFromFloat(42.50),
		"groceries",
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		"weekly shop",
	)
	require.NoError(t, err)
	return tx
}

func TestTransactionHandler_Create(t *testing.T) {
	t.Run("records a transaction", func(t *testing.T) {
		env := setupTransactionTestRouter()

		env.txRepo.On("DistinctCategoriesForOwner", mock.Anything, env.ownerID).Return([]string{}, nil)
		env.txRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Transaction")).Return(nil)

		w := postJSON(env.router, "/transactions", CreateTransactionRequest{
			Type:     "expense",
			Amount:   42.50,
			Category: "groceries",
			Note:     "weekly shop",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Data TransactionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "expense", resp.Data.Type)
		assert.Equal(t, "groceries", resp.Data.Category)
		assert.True(t, decimal.NewFromFloat(42.50).Equal(resp.Data.Amount))
		env.txRepo.AssertExpectations(t)
	})

	t.Run("links an existing budget", func(t *testing.T) {
		env := setupTransactionTestRouter()
		budget, err := ledger.NewBudget(env.ownerID, "Food", decimal.NewFromInt(300), "groceries",
			"USD",
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		env.budgetRepo.On("FindByIDForOwner", mock.Anything, env.ownerID, budget.ID).Return(budget, nil)
		env.txRepo.On("DistinctCategoriesForOwner", mock.Anything, env.ownerID).Return([]string{"groceries"}, nil)
		env.txRepo.On("Save", mock.Anything, mock.MatchedBy(func(tx *ledger.Transaction) bool {
			return tx.BudgetID != nil && *tx.BudgetID == budget.ID
		})).Return(nil)

		budgetID := budget.ID.String()
		w := postJSON(env.router, "/transactions", CreateTransactionRequest{
			Type:     "expense",
			Amount:   25,
			Category: "groceries",
			BudgetID: &budgetID,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		env.txRepo.AssertExpectations(t)
	})

	t.Run("unknown budget returns 404", func(t *testing.T) {
		env := setupTransactionTestRouter()
		budgetID := uuid.New()

		env.budgetRepo.On("FindByIDForOwner", mock.Anything, env.ownerID, budgetID).
			Return(nil, shared.ErrNotFound)

		idStr := budgetID.String()
		w := postJSON(env.router, "/transactions", CreateTransactionRequest{
			Type:     "expense",
			Amount:   25,
			BudgetID: &idStr,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		env.txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		env := setupTransactionTestRouter()

		w := postJSON(env.router, "/transactions", CreateTransactionRequest{
			Type:   "expense",
			Amount: 0,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		env := setupTransactionTestRouter()

		w := postJSON(env.router, "/transactions", CreateTransactionRequest{
			Type:   "transfer",
			Amount: 10,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransactionHandler_Get(t *testing.T) {
	t.Run("returns the owner's transaction", func(t *testing.T) {
		env := setupTransactionTestRouter()
		tx := newTestTransaction(t, env.ownerID)

		env.txRepo.On("FindByIDForOwner", mock.Anything, env.ownerID, tx.ID).Return(tx, nil)

		w := getJSON(env.router, "/transactions/"+tx.ID.String())

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "groceries")
	})

	t.Run("missing transaction returns 404", func(t *testing.T) {
		env := setupTransactionTestRouter()
		id := uuid.New()

		env.txRepo.On("FindByIDForOwner", mock.Anything, env.ownerID, id).
			Return(nil, shared.ErrNotFound)

		w := getJSON(env.router, "/transactions/"+id.String())

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		env := setupTransactionTestRouter()

		w := getJSON(env.router, "/transactions/not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransactionHandler_List(t *testing.T) {
	t.Run("returns a page with pagination meta", func(t *testing.T) {
		env := setupTransactionTestRouter()
		tx := newTestTransaction(t, env.ownerID)

		env.txRepo.On("FindAllForOwner", mock.Anything, env.ownerID, mock.Anything).
			Return([]ledger.Transaction{*tx}, nil)
		env.txRepo.On("CountForOwner", mock.Anything, env.ownerID, mock.Anything).
			Return(int64(1), nil)

		w := getJSON(env.router, "/transactions?page=1&page_size=10")

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []TransactionResponse `json:"data"`
			Meta struct {
				Total    int64 `json:"total"`
				Page     int   `json:"page"`
				PageSize int   `json:"page_size"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, int64(1), resp.Meta.Total)
		assert.Equal(t, 10, resp.Meta.PageSize)
	})

	t.Run("passes type and date filters through", func(t *testing.T) {
		env := setupTransactionTestRouter()

		matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
			from, hasFrom := f.Filters["date_from"].(time.Time)
			_, hasTo := f.Filters["date_to"].(time.Time)
			return f.Filters["type"] == "expense" &&
				hasFrom && hasTo &&
				from.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
		})
		env.txRepo.On("FindAllForOwner", mock.Anything, env.ownerID, matchFilter).
			Return([]ledger.Transaction{}, nil)
		env.txRepo.On("CountForOwner", mock.Anything, env.ownerID, matchFilter).
			Return(int64(0), nil)

		w := getJSON(env.router, "/transactions?type=expense&date_from=2026-03-01&date_to=2026-04-01")

		assert.Equal(t, http.StatusOK, w.Code)
		env.txRepo.AssertExpectations(t)
	})

	t.Run("invalid date_from returns 400", func(t *testing.T) {
		env := setupTransactionTestRouter()

		w := getJSON(env.router, "/transactions?date_from=March")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransactionHandler_Update(t *testing.T) {
	env := setupTransactionTestRouter()
	tx := newTestTransaction(t, env.ownerID)

	env.txRepo.On("FindByIDForOwner", mock.Anything, env.ownerID, tx.ID).Return(tx, nil)
	env.txRepo.On("Save", mock.Anything, tx).Return(nil)

	body, _ := json.Marshal(UpdateTransactionRequest{
		Type:     "expense",
		Amount:   60,
		Category: "dining",
		Note:     "dinner out",
	})
	req := httptest.NewRequest(http.MethodPut, "/transactions/"+tx.ID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dining")
	env.txRepo.AssertExpectations(t)
}

func TestTransactionHandler_Delete(t *testing.T) {
	t.Run("deletes and returns 204", func(t *testing.T) {
		env := setupTransactionTestRouter()
		tx := newTestTransaction(t, env.ownerID)

		env.txRepo.On("FindByIDForOwner", mock.Anything, env.ownerID, tx.ID).Return(tx, nil)
		env.txRepo.On("Delete", mock.Anything, tx.ID).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/transactions/"+tx.ID.String(), nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		env.txRepo.AssertExpectations(t)
	})

	t.Run("someone else's transaction reads as not found", func(t *testing.T) {
		env := setupTransactionTestRouter()
		id := uuid.New()

		env.txRepo.On("FindByIDForOwner", mock.Anything, env.ownerID, id).
			Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/transactions/"+id.String(), nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env.txRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestTransactionHandler_Categories(t *testing.T) {
	env := setupTransactionTestRouter()

	env.txRepo.On("DistinctCategoriesForOwner", mock.Anything, env.ownerID).
		Return([]string{"groceries", "rent", "salary"}, nil)

	w := getJSON(env.router, "/transactions/categories")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"groceries", "rent", "salary"}, resp.Data)
}

func TestTransactionHandler_Overview(t *testing.T) {
	env := setupTransactionTestRouter()

	env.txRepo.On("SumByTypeForOwner", mock.Anything, env.ownerID, ledger.TransactionTypeIncome,
		mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(decimal.NewFromInt(5000), nil)
	env.txRepo.On("SumByTypeForOwner", mock.Anything, env.ownerID, ledger.TransactionTypeExpense,
		mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(decimal.NewFromInt(1800), nil)

	w := getJSON(env.router, "/transactions/summary")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			TotalIncome  decimal.Decimal `json:"total_income"`
			TotalExpense decimal.Decimal `json:"total_expense"`
			Balance      decimal.Decimal `json:"balance"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, decimal.NewFromInt(3200).Equal(resp.Data.Balance))
}

func TestTransactionHandler_MonthlySummary(t *testing.T) {
	t.Run("returns the requested month", func(t *testing.T) {
		env := setupTransactionTestRouter()
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)

		env.txRepo.On("SumByTypeForOwner", mock.Anything, env.ownerID, ledger.TransactionTypeIncome, start, end).
			Return(decimal.NewFromInt(4000), nil)
		env.txRepo.On("SumByTypeForOwner", mock.Anything, env.ownerID, ledger.TransactionTypeExpense, start, end).
			Return(decimal.NewFromInt(1500), nil)
		env.txRepo.On("SumByCategoryForOwner", mock.Anything, env.ownerID, ledger.TransactionTypeIncome, start, end).
			Return([]ledger.CategoryTotal{{Category: "salary", Total: decimal.NewFromInt(4000)}}, nil)
		env.txRepo.On("SumByCategoryForOwner", mock.Anything, env.ownerID, ledger.TransactionTypeExpense, start, end).
			Return([]ledger.CategoryTotal{
				{Category: "groceries", Total: decimal.NewFromInt(900)},
				{Category: "rent", Total: decimal.NewFromInt(600)},
			}, nil)

		w := getJSON(env.router, "/transactions/summary/monthly?year=2026&month=3")

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data ledger.MonthlySummary `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2026, resp.Data.Year)
		assert.Equal(t, 3, resp.Data.Month)
		assert.True(t, decimal.NewFromInt(4000).Equal(resp.Data.Income.Total))
		require.Len(t, resp.Data.Expense.ByCategory, 2)
		assert.Equal(t, "groceries", resp.Data.Expense.ByCategory[0].Category)
	})

	t.Run("month out of range returns 400", func(t *testing.T) {
		env := setupTransactionTestRouter()

		w := getJSON(env.router, "/transactions/summary/monthly?year=2026&month=13")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INVALID_INPUT")
	})

	t.Run("non-numeric month returns 400", func(t *testing.T) {
		env := setupTransactionTestRouter()

		w := getJSON(env.router, "/transactions/summary/monthly?month=march")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransactionHandler_RequiresAuthentication(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	budgetRepo := new(MockBudgetRepository)
	summaryCache := cache.NewInMemorySummaryCache()
	txService := appledger.NewTransactionService(txRepo, budgetRepo, summaryCache, zap.NewNop())
	summaryService := appledger.NewSummaryService(txRepo, summaryCache, time.Minute, zap.NewNop())
	handler := NewTransactionHandler(txService, summaryService)

	router := gin.New()
	router.GET("/transactions", handler.List)

	w := getJSON(router, "/transactions")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
