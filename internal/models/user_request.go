package models

import "user-management-be/internal/entities"

// CreateUserRequest represents the request body for creating a user.
// Every field is required.
type CreateUserRequest struct {
	Username    string          `json:"username" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	Password    string          `json:"password" binding:"required,password"`
	FirstName   string          `json:"first_name" binding:"required"`
	LastName    string          `json:"last_name" binding:"required"`
	DateOfBirth string          `json:"date_of_birth" binding:"required"`
	Address     string          `json:"address" binding:"required"`
	Gender      entities.Gender `json:"gender" binding:"required,gender"`
	PhoneNumber string          `json:"phone_number" binding:"required,phone"`
}

// ToEntity builds the record to insert. The identifier is left for the store.
func (r *CreateUserRequest) ToEntity() *entities.User {
	return &entities.User{
		Username:    r.Username,
		Email:       r.Email,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
		Address:     r.Address,
		Gender:      r.Gender,
		PhoneNumber: r.PhoneNumber,
	}
}

// UpdateUserRequest represents a partial update. Absent and null fields are
// nil and are neither validated nor written.
type UpdateUserRequest struct {
	Username    *string          `json:"username,omitempty"`
	Email       *string          `json:"email,omitempty" binding:"omitempty,email"`
	Password    *string          `json:"password,omitempty" binding:"omitempty,password"`
	FirstName   *string          `json:"first_name,omitempty"`
	LastName    *string          `json:"last_name,omitempty"`
	DateOfBirth *string          `json:"date_of_birth,omitempty"`
	Address     *string          `json:"address,omitempty"`
	Gender      *entities.Gender `json:"gender,omitempty" binding:"omitempty,gender"`
	PhoneNumber *string          `json:"phone_number,omitempty" binding:"omitempty,phone"`
}

// Changes returns the fields to $set: exactly the non-nil ones.
func (r *UpdateUserRequest) Changes() entities.UserChanges {
	changes := entities.UserChanges{}
	put := func(field string, v *string) {
		if v != nil {
			changes[field] = *v
		}
	}

	put(entities.FieldUsername, r.Username)
	put(entities.FieldEmail, r.Email)
	put(entities.FieldPassword, r.Password)
	put(entities.FieldFirstName, r.FirstName)
	put(entities.FieldLastName, r.LastName)
	put(entities.FieldDateOfBirth, r.DateOfBirth)
	put(entities.FieldAddress, r.Address)
	put(entities.FieldPhoneNumber, r.PhoneNumber)
	if r.Gender != nil {
		changes[entities.FieldGender] = string(*r.Gender)
	}

	return changes
}

// BulkUpdateItem is one element of a bulk update: a partial update carrying
// the identifier of the record it targets.
type BulkUpdateItem struct {
	ID *string `json:"_id,omitempty"`
	UpdateUserRequest
}

// PaginationQuery holds the query parameters of the paginated listing.
type PaginationQuery struct {
	Page     int64 `form:"page,default=1" binding:"min=1"`
	PageSize int64 `form:"page_size,default=10" binding:"min=1"`
}
