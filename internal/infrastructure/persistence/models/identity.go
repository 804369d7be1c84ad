package models

import (
	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/domain/shared"
)

// TenantModel is the persistence model of an agency
type TenantModel struct {
	AggregateModel
	Code   string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name   string `gorm:"type:varchar(200);not null"`
	Active bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the model to a domain tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: m.toAggregate(),
		Code:              m.Code,
		Name:              m.Name,
		Active:            m.Active,
	}
}

// TenantModelFromDomain converts a domain tenant to a model
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{Code: t.Code, Name: t.Name, Active: t.Active}
	m.fromAggregate(t.BaseAggregateRoot)
	return m
}

// UserModel is the persistence model of a user
type UserModel struct {
	AggregateModel
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_users_tenant_username,priority:1"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
	Username    string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_tenant_username,priority:2"`
	DisplayName string     `gorm:"type:varchar(100)"`
	Role        string     `gorm:"type:varchar(20);not null;index"`
	Active      bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: m.toAggregate(),
			TenantID:          m.TenantID,
			CreatedBy:         m.CreatedBy,
		},
		Username:            m.Username,
		DisplayName:         m.DisplayName,
		Role:                identity.Role(m.Role),
		Active:              m.Active,
	}
}

// UserModelFromDomain converts a domain user to a model
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		TenantID:    u.TenantID,
		CreatedBy:   u.CreatedBy,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role.String(),
		Active:      u.Active,
	}
	m.fromAggregate(u.BaseAggregateRoot)
	return m
}
