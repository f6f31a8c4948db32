package models

import (
	"time"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionModel is the persistence model for the Transaction domain entity.
type TransactionModel struct {
	OwnedAggregateModel
	BudgetID            *uuid.UUID             `gorm:"type:uuid;index"`
	Type                ledger.TransactionType `gorm:"type:varchar(10);not null;index"`
	Amount              decimal.Decimal        `gorm:"type:decimal(20,8);not null"`
	Category            string                 `gorm:"type:varchar(50);index"`
	Date                time.Time              `gorm:"not null;index"`
	Note                string                 `gorm:"type:varchar(500)"`
	RecurrenceFrequency *string                `gorm:"type:varchar(10)"`
	RecurrenceNextDate  *time.Time
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	tx := &ledger.Transaction{
		BudgetID: m.BudgetID,
		Type:     m.Type,
		Amount:   m.Amount,
		Category: m.Category,
		Date:     m.Date,
		Note:     m.Note,
	}
	m.PopulateOwnedAggregateRoot(&tx.OwnedAggregateRoot)

	if m.RecurrenceFrequency != nil {
		tx.Recurrence = &ledger.Recurrence{
			Frequency: ledger.RecurrenceFrequency(*m.RecurrenceFrequency),
			NextDate:  m.RecurrenceNextDate,
		}
	}

	return tx
}

// FromDomain populates the persistence model from a domain Transaction entity.
func (m *TransactionModel) FromDomain(tx *ledger.Transaction) {
	m.FromDomainOwnedAggregateRoot(tx.OwnedAggregateRoot)
	m.BudgetID = tx.BudgetID
	m.Type = tx.Type
	m.Amount = tx.Amount
	m.Category = tx.Category
	m.Date = tx.Date
	m.Note = tx.Note

	if tx.Recurrence != nil {
		freq := string(tx.Recurrence.Frequency)
		m.RecurrenceFrequency = &freq
		m.RecurrenceNextDate = tx.Recurrence.NextDate
	} else {
		m.RecurrenceFrequency = nil
		m.RecurrenceNextDate = nil
	}
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction entity.
func TransactionModelFromDomain(tx *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(tx)
	return m
}

// BudgetModel is the persistence model for the Budget domain entity.
type BudgetModel struct {
	OwnedAggregateModel
	Name      string          `gorm:"type:varchar(100);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	Category  string          `gorm:"type:varchar(50);not null;index"`
	Currency  string          `gorm:"type:varchar(3);not null;default:'USD'"`
	StartDate time.Time       `gorm:"not null"`
	EndDate   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToDomain converts the persistence model to a domain Budget entity.
func (m *BudgetModel) ToDomain() *ledger.Budget {
	b := &ledger.Budget{
		Name:      m.Name,
		Amount:    m.Amount,
		Category:  m.Category,
		Currency:  valueobject.Currency(m.Currency),
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
	}
	m.PopulateOwnedAggregateRoot(&b.OwnedAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain Budget entity.
func (m *BudgetModel) FromDomain(b *ledger.Budget) {
	m.FromDomainOwnedAggregateRoot(b.OwnedAggregateRoot)
	m.Name = b.Name
	m.Amount = b.Amount
	m.Category = b.Category
	m.Currency = string(b.Currency)
	m.StartDate = b.StartDate
	m.EndDate = b.EndDate
}

// BudgetModelFromDomain creates a new persistence model from a domain Budget entity.
func BudgetModelFromDomain(b *ledger.Budget) *BudgetModel {
	m := &BudgetModel{}
	m.FromDomain(b)
	return m
}
