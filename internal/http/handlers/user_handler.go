// User HTTP handlers.
//
// This file exposes REST endpoints for account resources:
//   - POST /users        (register)
//   - GET  /users/{id}   (fetch by id)
//   - GET  /users        (paginated listing, or fetch by canonical phone via ?phone=)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aurora-assist/go-booking-backend/internal/domain"
	"github.com/aurora-assist/go-booking-backend/internal/services"
)

// RegisterUserRequest is the JSON payload for registering an account.
type RegisterUserRequest struct {
	// Name is the display name; leading/trailing whitespace is trimmed.
	Name string `json:"name" binding:"required" example:"Maria Lopez"`
	// Phone is the canonical sender identity in E.164 form.
	Phone string `json:"phone" binding:"required" example:"+593987654321"`
	// Email is optional contact info.
	Email string `json:"email" example:"maria@example.com"`
}

// RegisterUser godoc
// @ID          registerUser
// @Summary     Register an account
// @Description Validates name, phone, and optional email, then creates the account. The phone is the unique identity; registering the same phone twice yields 409.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterUserRequest  true  "Register payload"
//
// @Success     201  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Phone already registered"
// @Failure     422  {object}  handlers.ErrorResponse  "Phone or email failed validation"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [post]
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	u, err := h.userSvc.Register(c.Request.Context(), req.Name, req.Phone, req.Email)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, u)
	case errors.Is(err, services.ErrEmptyName):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name is required")
	case errors.Is(err, services.ErrInvalidPhone):
		fail(c, http.StatusUnprocessableEntity, ErrCodeInvalidPhone, "phone must be E.164 (+ and 10-15 digits)")
	case errors.Is(err, services.ErrInvalidEmail):
		fail(c, http.StatusUnprocessableEntity, ErrCodeInvalidEmail, "email format is invalid")
	case errors.Is(err, services.ErrDuplicateUser):
		fail(c, http.StatusConflict, ErrCodeConflict, "phone already registered")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not register user")
	}
}

// GetUser godoc
// @ID          getUser
// @Summary     Fetch an account by id
// @Tags        Users
// @Produce     json
//
// @Param       id  path  string  true  "User ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id must be a UUID")
		return
	}

	u, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not fetch user")
		return
	}
	ok(c, http.StatusOK, u)
}

// ListUsersResponse wraps a page of accounts and pagination information.
type ListUsersResponse struct {
	Users      []domain.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List accounts, or fetch one by phone
// @Description Without ?phone=, returns a deterministic page of accounts (oldest first). With ?phone=, looks up the single account whose canonical phone identity matches exactly.
// @Tags        Users
// @Produce     json
//
// @Param       phone      query  string  false  "Phone in E.164 form"  example(+593987654321)
// @Param       page       query  int     false  "Page number"          minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"       minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListUsersResponse
// @Failure     404  {object}  handlers.ErrorResponse  "User not found (phone lookup)"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	if strings.TrimSpace(c.Query("phone")) != "" {
		h.GetUserByPhone(c)
		return
	}

	page, pageSize := clampPagination(c)
	users, total, err := h.userSvc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list users")
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListUsersResponse{
		Users: users,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetUserByPhone resolves the exact-match phone lookup branch of GET /users.
func (h *Handlers) GetUserByPhone(c *gin.Context) {
	phone := strings.TrimSpace(c.Query("phone"))
	if phone == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "phone query parameter is required")
		return
	}

	u, err := h.userSvc.GetByPhone(c.Request.Context(), phone)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not fetch user")
		return
	}
	ok(c, http.StatusOK, u)
}
