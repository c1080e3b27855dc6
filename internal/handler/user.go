package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "docum/internal/domain/services/docsystem"
	"docum/internal/httputil"
)

// UserHandler handles user HTTP requests
type UserHandler struct {
	userService docsysSvc.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService docsysSvc.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser creates a user with an empty root folder
// POST /api/users
// Returns 201 if created, 409 if a unique field is taken
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.CreateUserRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.CreateUser(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, user)
}

// ListUsers lists users
// GET /api/users?include_deleted=true
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	users, err := h.userService.ListUsers(r.Context(), includeDeleted)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, users)
}

// GetUser retrieves a user with its tree
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), ids[0])
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// UpdateUser changes profile fields
// PATCH /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id")
	if !ok {
		return
	}

	var req docsysSvc.UpdateUserRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), ids[0], &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// DeleteUser soft-deletes a user
// DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), ids[0]); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
