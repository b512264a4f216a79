package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadlink/internal/service"
	"nomadlink/pkg/errors"
	"nomadlink/pkg/metrics"
	"nomadlink/pkg/middleware"
	"nomadlink/pkg/response"
)

type walletSigninRequest struct {
	WalletAddress   string `json:"wallet_address" binding:"required"`
	SignedMessage   string `json:"signed_message" binding:"required"`
	OriginalMessage string `json:"original_message" binding:"required"`
}

type loginRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

func (h *Handlers) handleRegister(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "invalid request body")
		return
	}

	user, pair, err := h.accounts.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, gin.H{
		"access":         pair.Access,
		"refresh":        pair.Refresh,
		"wallet_address": user.WalletAddress,
		"username":       user.Username,
		"email":          user.Email,
	})
}

func (h *Handlers) handleLogin(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "invalid request body")
		return
	}

	user, pair, err := h.accounts.Login(c.Request.Context(), in.WalletAddress, in.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"access":         pair.Access,
		"refresh":        pair.Refresh,
		"wallet_address": user.WalletAddress,
		"username":       user.Username,
		"email":          user.Email,
	})
}

func (h *Handlers) handleWalletNonce(c *gin.Context) {
	wallet := c.Query("wallet")
	if wallet == "" {
		response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "wallet query parameter is required")
		return
	}

	result, err := h.walletAuth.IssueNonce(c.Request.Context(), wallet)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *Handlers) handleWalletSignin(c *gin.Context) {
	var in walletSigninRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "wallet_address, signed_message and original_message are required")
		return
	}

	result, err := h.walletAuth.Authenticate(c.Request.Context(), in.WalletAddress, in.SignedMessage, in.OriginalMessage)
	if err != nil {
		metrics.WalletSignin("failure")
		writeError(c, err)
		return
	}

	metrics.WalletSignin("success")
	response.Success(c, gin.H{
		"access":         result.Tokens.Access,
		"refresh":        result.Tokens.Refresh,
		"wallet_address": result.WalletAddress,
		"username":       result.Username,
	})
}

func (h *Handlers) handleProfile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	response.Success(c, user)
}
