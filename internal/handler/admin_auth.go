package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/tsrbooking/theater-booking/internal/utils"
)

// RoleAdmin is the role claim carried by admin access tokens.
const RoleAdmin = "ADMIN"

// AuthHandler serves the admin login.  There is a single operator
// account configured through the environment; its password is hashed
// with bcrypt at startup so the plaintext never sits in memory longer
// than necessary.
type AuthHandler struct {
    AdminUser    string // configured admin username
    PasswordHash string // bcrypt hash of the configured admin password
    JWTSecret    string // secret for signing access tokens
    AccessTTLMin int    // access token lifetime in minutes
}

// LoginRequest carries the admin credentials.
type LoginRequest struct {
    Username string `json:"username"`
    Password string `json:"password"`
}

// Login verifies the admin credentials and issues a short-lived HS256
// access token with an ADMIN role claim.  Wrong username and wrong
// password answer identically so the response leaks nothing.
func (h *AuthHandler) Login(c echo.Context) error {
    var req LoginRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Username != h.AdminUser || !utils.VerifyPassword(h.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    at, err := utils.NewAccessToken(h.JWTSecret, req.Username, RoleAdmin, h.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "access_token": at.Token,
        "expires_at":   at.Exp,
    })
}
