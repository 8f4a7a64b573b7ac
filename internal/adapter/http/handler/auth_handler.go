package handler

import (
	"net/http"

	. "eventsapp/internal/adapter/http/helper"
	"eventsapp/internal/adapter/http/middleware"
	"eventsapp/internal/adapter/http/validation"
	"eventsapp/internal/core/model/request"
	"eventsapp/internal/core/model/response"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/util"
	"eventsapp/pkg/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc        port.AuthService
	tokens     *auth.TokenManager
	cookieDays int
}

func NewAuthHandler(svc port.AuthService, tokens *auth.TokenManager, cookieDays int) *AuthHandler {
	return &AuthHandler{
		svc:        svc,
		tokens:     tokens,
		cookieDays: cookieDays,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	params, err := util.ParamsToMap[request.SignupRequest](c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := h.svc.Signup(c.Request.Context(), &params)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	token, err := h.tokens.CreateToken(user.ID)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	SendTokenResponse(c, http.StatusCreated, token, h.cookieDays, gin.H{
		"user": response.NewUserResponse(user),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := h.svc.Login(c.Request.Context(), &params)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	token, err := h.tokens.CreateToken(user.ID)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	SendTokenResponse(c, http.StatusOK, token, h.cookieDays, nil)
}

// UpdatePassword verifies the current password before replacing it, then
// issues a fresh token since the old one dies with the password change.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)

	params, err := util.ParamsToMap[request.UpdatePasswordRequest](c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		AbortWithError(c, err)
		return
	}

	updated, err := h.svc.ChangePassword(c.Request.Context(), user.ID, &params)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	token, err := h.tokens.CreateToken(updated.ID)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	SendTokenResponse(c, http.StatusOK, token, h.cookieDays, gin.H{
		"user": response.NewUserResponse(updated),
	})
}
