package models

import "user-management-be/internal/entities"

// CreateUserResponse represents the response after creating a user
type CreateUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// MessageResponse is returned by update and delete
type MessageResponse struct {
	Message string `json:"message"`
}

// BulkUpdateResponse reports how many records a bulk update modified
type BulkUpdateResponse struct {
	Message      string `json:"message"`
	UpdatedCount int64  `json:"updated_count"`
}

// PaginatedUsersResponse is one page of users plus the collection size
type PaginatedUsersResponse struct {
	Page       int64            `json:"page"`
	PageSize   int64            `json:"page_size"`
	TotalUsers int64            `json:"total_users"`
	Users      []*entities.User `json:"users"`
}
