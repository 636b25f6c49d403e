// Account HTTP handlers.
//
// This file exposes REST endpoints for accounts:
//   - POST /accounts/signup/      (register a new user)
//   - GET  /accounts/{user_id}/   (public profile lookup)
//
// Signup is the only endpoint that accepts a password; the stored hash never
// leaves the service layer (the JSON representation of User omits it).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignupRequest is the JSON payload for registering an account.
type SignupRequest struct {
	// Username is the display name, 1-20 characters, unique case-insensitively.
	Username string `json:"username" example:"alice"`
	// Email must be a valid address, unique case-insensitively.
	Email string `json:"email" example:"alice@example.com"`
	// Password must be at least 6 characters.
	Password string `json:"password" example:"secret1"`
}

// Signup godoc
// @ID          signup
// @Summary     Register a new account
// @Description Creates a user with a bcrypt-hashed password and returns the
// @Description public representation.
// @Tags        Accounts
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SignupRequest  true  "Signup payload"
//
// @Success     201  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure"
// @Router      /accounts/signup/ [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failFields(c, map[string]string{
			"username": "This field is required.",
			"email":    "This field is required.",
			"password": "This field is required.",
		}, "invalid JSON body")
		return
	}

	u, err := h.accountSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, u)
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Fetch a user's public profile
// @Tags        Accounts
// @Produce     json
//
// @Param       user_id  path  string  true  "User ID"
//
// @Success     200  {object}  domain.User
// @Failure     404  {object}  handlers.ErrorResponse  "User missing"
// @Router      /accounts/{user_id}/ [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	u, err := h.accountSvc.GetProfile(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, u)
}
