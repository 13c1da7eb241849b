package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-management-be/internal/identifier"
	"user-management-be/internal/logger"
	"user-management-be/internal/models"
	"user-management-be/internal/service"
	"user-management-be/internal/validation"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// RegisterRoutes mounts the user endpoints on rg. bulkMiddleware runs only
// in front of the bulk update.
func (uc *UserController) RegisterRoutes(rg *gin.RouterGroup, bulkMiddleware ...gin.HandlerFunc) {
	rg.GET("/", uc.ListUsers)
	rg.POST("/", uc.CreateUser)
	rg.GET("/paginated/", uc.ListUsersPage)
	bulk := append(append([]gin.HandlerFunc{}, bulkMiddleware...), uc.BulkUpdateUsers)
	rg.PUT("/bulk-update/", bulk...)
	rg.GET("/:id", uc.GetUser)
	rg.PUT("/:id", uc.UpdateUser)
	rg.DELETE("/:id", uc.DeleteUser)
}

// ListUsers handles GET {route}/
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST {route}/
func (uc *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	id, err := uc.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CreateUserResponse{
		Message: "User created",
		UserID:  id,
	})
}

// GetUser handles GET {route}/:id
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT {route}/:id
func (uc *UserController) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := identifier.Decode(id); err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	if err := uc.userService.UpdateUser(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "User updated successfully"})
}

// BulkUpdateUsers handles PUT {route}/bulk-update/
func (uc *UserController) BulkUpdateUsers(c *gin.Context) {
	var items []models.BulkUpdateItem
	if err := c.ShouldBindJSON(&items); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	updated, err := uc.userService.BulkUpdateUsers(c.Request.Context(), items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BulkUpdateResponse{
		Message:      fmt.Sprintf("%d users updated successfully", updated),
		UpdatedCount: updated,
	})
}

// DeleteUser handles DELETE {route}/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	if err := uc.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "User deleted successfully"})
}

// ListUsersPage handles GET {route}/paginated/?page=&page_size=
func (uc *UserController) ListUsersPage(c *gin.Context) {
	var query models.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err, "Invalid query parameters")
		return
	}

	resp, err := uc.userService.ListUsersPage(c.Request.Context(), query.Page, query.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondBindError answers 400 for a request that failed binding: field
// errors name the offending field, anything else (malformed JSON, wrong
// types) gets the generic message.
func respondBindError(c *gin.Context, err error, message string) {
	if vErr := validation.Translate(err); vErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": vErr.Message,
			"field":   vErr.Field,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, err error) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": vErr.Message,
			"field":   vErr.Field,
		})
	case errors.Is(err, identifier.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid user ID format",
			"details": err.Error(),
		})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrNoChanges):
		c.JSON(http.StatusNotFound, gin.H{"error": "No changes made"})
	case errors.Is(err, service.ErrNoUsersUpdated):
		c.JSON(http.StatusNotFound, gin.H{"error": "No users found or no changes made"})
	default:
		_ = c.Error(err)
		logger.FromContext(c).Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
