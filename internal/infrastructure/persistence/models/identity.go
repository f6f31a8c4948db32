package models

import (
	"time"

	"github.com/finbook/backend/internal/domain/identity"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/domain/shared/valueobject"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Name         string              `gorm:"type:varchar(100);not null"`
	Email        string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string              `gorm:"type:varchar(255);not null"`
	Currency     string              `gorm:"type:varchar(3);not null;default:'USD'"`
	Timezone     string              `gorm:"type:varchar(64);not null;default:'UTC'"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time          `gorm:"index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Currency:     valueobject.Currency(m.Currency),
		Timezone:     m.Timezone,
		Status:       m.Status,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Currency = string(u.Currency)
	m.Timezone = u.Timezone
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
