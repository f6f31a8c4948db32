package advisor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/finbook/backend/internal/domain/identity"
	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/infrastructure/advisor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxMessageLength           = 2000
	defaultContextTransactions = 50
)

// ChatInput contains the input for an advisor chat turn
type ChatInput struct {
	OwnerID uuid.UUID
	Message string
}

// ChatResult contains the advisor's reply
type ChatResult struct {
	Reply string
}

// AdvisorService answers financial questions through an LLM provider.
// Each request carries a snapshot of the user's ledger in the system
// prompt; no conversation state is kept server-side.
type AdvisorService struct {
	client              *advisor.Client
	userRepo            identity.UserRepository
	txRepo              ledger.TransactionRepository
	budgetRepo          ledger.BudgetRepository
	contextTransactions int
	logger              *zap.Logger
}

// NewAdvisorService creates a new advisor service. contextTransactions
// caps how many recent entries go into the prompt; non-positive values
// fall back to the default.
func NewAdvisorService(
	client *advisor.Client,
	userRepo identity.UserRepository,
	txRepo ledger.TransactionRepository,
	budgetRepo ledger.BudgetRepository,
	contextTransactions int,
	logger *zap.Logger,
) *AdvisorService {
	if contextTransactions <= 0 {
		contextTransactions = defaultContextTransactions
	}
	return &AdvisorService{
		client:              client,
		userRepo:            userRepo,
		txRepo:              txRepo,
		budgetRepo:          budgetRepo,
		contextTransactions: contextTransactions,
		logger:              logger,
	}
}

// Chat sends one user message to the advisor and returns the reply.
// Without an API key the service reports unavailable before any data is
// gathered or any network call is made.
func (s *AdvisorService) Chat(ctx context.Context, input ChatInput) (*ChatResult, error) {
	if !s.client.IsConfigured() {
		return nil, shared.ErrServiceUnavailable
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Message is required")
	}
	if len(message) > maxMessageLength {
		return nil, shared.NewDomainError("INVALID_INPUT", "Message must be at most 2000 characters")
	}

	systemPrompt, err := s.buildSystemPrompt(ctx, input.OwnerID)
	if err != nil {
		s.logger.Error("Failed to build advisor context",
			zap.String("owner_id", input.OwnerID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to prepare advisor context")
	}

	reply, err := s.client.CreateChatCompletion(ctx, []advisor.Message{
		{Role: advisor.RoleSystem, Content: systemPrompt},
		{Role: advisor.RoleUser, Content: message},
	})
	if err != nil {
		return nil, s.mapClientError(input.OwnerID, err)
	}

	s.logger.Info("Advisor reply delivered",
		zap.String("owner_id", input.OwnerID.String()),
		zap.Int("reply_length", len(reply)))

	return &ChatResult{Reply: reply}, nil
}

func (s *AdvisorService) mapClientError(ownerID uuid.UUID, err error) error {
	if errors.Is(err, advisor.ErrMissingAPIKey) {
		return shared.ErrServiceUnavailable
	}

	var apiErr *advisor.APIError
	if errors.As(err, &apiErr) {
		s.logger.Warn("Advisor provider returned an error",
			zap.String("owner_id", ownerID.String()),
			zap.Int("status", apiErr.StatusCode),
			zap.String("message", apiErr.Message))
		return shared.ErrUpstreamFailure
	}

	// A request that never produced a provider response (connection
	// refused, DNS failure, timeout) means the advisor is unreachable,
	// not that it answered badly.
	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("Advisor provider is unreachable",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
		return shared.ErrServiceUnavailable
	}

	s.logger.Error("Advisor request failed",
		zap.String("owner_id", ownerID.String()),
		zap.Error(err))
	return shared.ErrUpstreamFailure
}

// buildSystemPrompt assembles the user's financial snapshot: overall
// totals, active budgets and the most recent transactions
func (s *AdvisorService) buildSystemPrompt(ctx context.Context, ownerID uuid.UUID) (string, error) {
	user, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}

	// Zero bounds sum over every recorded transaction
	var unbounded time.Time

	totalIncome, err := s.txRepo.SumByTypeForOwner(ctx, ownerID, ledger.TransactionTypeIncome, unbounded, unbounded)
	if err != nil {
		return "", fmt.Errorf("sum income: %w", err)
	}
	totalExpense, err := s.txRepo.SumByTypeForOwner(ctx, ownerID, ledger.TransactionTypeExpense, unbounded, unbounded)
	if err != nil {
		return "", fmt.Errorf("sum expense: %w", err)
	}

	budgets, err := s.budgetRepo.FindAllForOwner(ctx, ownerID, shared.Filter{})
	if err != nil {
		return "", fmt.Errorf("load budgets: %w", err)
	}

	recent, err := s.txRepo.FindRecentForOwner(ctx, ownerID, s.contextTransactions)
	if err != nil {
		return "", fmt.Errorf("load recent transactions: %w", err)
	}

	currency := string(user.Currency)

	var b strings.Builder
	b.WriteString("You are a personal finance advisor. Answer the user's question using ")
	b.WriteString("the financial data below. Be concise and practical, and do not invent ")
	b.WriteString("numbers that are not in the data. Amounts are in ")
	b.WriteString(currency)
	b.WriteString(".\n\n")

	fmt.Fprintf(&b, "Totals: income %s, expenses %s, balance %s.\n\n",
		totalIncome.StringFixed(2),
		totalExpense.StringFixed(2),
		totalIncome.Sub(totalExpense).StringFixed(2))

	if len(budgets) == 0 {
		b.WriteString("The user has no budgets.\n")
	} else {
		b.WriteString("Budgets:\n")
		for i := range budgets {
			fmt.Fprintf(&b, "- %s: %s for %s, %s to %s\n",
				budgets[i].Name,
				budgets[i].Amount.StringFixed(2),
				budgets[i].Category,
				budgets[i].StartDate.Format("2006-01-02"),
				budgets[i].EndDate.Format("2006-01-02"))
		}
	}
	b.WriteString("\n")

	if len(recent) == 0 {
		b.WriteString("The user has no transactions yet.\n")
	} else {
		fmt.Fprintf(&b, "Recent transactions (newest first, up to %d):\n", s.contextTransactions)
		for i := range recent {
			line := fmt.Sprintf("- %s %s %s",
				recent[i].Date.Format("2006-01-02"),
				recent[i].Type,
				recent[i].Amount.StringFixed(2))
			if recent[i].Category != "" {
				line += " [" + recent[i].Category + "]"
			}
			if recent[i].Note != "" {
				line += " " + recent[i].Note
			}
			b.WriteString(line + "\n")
		}
	}

	return b.String(), nil
}
