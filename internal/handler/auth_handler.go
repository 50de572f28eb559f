package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-api/internal/middleware"
	"clinic-api/internal/service"
)

const (
	msgRegisterFields = "Email, password, and role are required"
	msgLoginFields    = "Email and password are required"
	msgResetFields    = "Email and new password are required"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type resetRequest struct {
	Email       string `json:"email" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type userView struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req, msgRegisterFields) {
		return
	}

	id, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.fail(c, err, msgRegisterFields)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account created", "account_id": id})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req, msgLoginFields) {
		return
	}

	tok, err := h.accounts.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err, msgLoginFields)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": tok})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req resetRequest
	if !bind(c, &req, msgResetFields) {
		return
	}

	err := h.accounts.ResetPassword(c.Request.Context(), service.ResetInput{
		Email:       req.Email,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.fail(c, err, msgResetFields)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.accounts.ListAccounts(c.Request.Context())
	if err != nil {
		h.fail(c, err, "")
		return
	}
	out := make([]userView, len(list))
	for i, a := range list {
		out[i] = userView{AccountID: a.ID, Email: a.Email, Role: a.Role}
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *Handler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": claims.AccountID, "role": claims.Role})
}
