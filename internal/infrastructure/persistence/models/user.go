package models

import (
	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/identity"
)

// UserModel is the persistence model for the users table
type UserModel struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name     string    `gorm:"column:name;type:varchar(255);not null"`
	Email    string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password string    `gorm:"column:password;type:text;not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.Password,
	}
}

// FromDomain populates the model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.ID = u.ID
	m.Name = u.Name
	m.Email = u.Email
	m.Password = u.PasswordHash
}

// UserModelFromDomain creates a new model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
