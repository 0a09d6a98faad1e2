package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PabloIb21/teslo-orders-api/configs"
	"github.com/PabloIb21/teslo-orders-api/internal/adapter/http/middleware"
	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

type AuthHandler struct {
	cfg  configs.Config
	auth *usecase.Auth
}

func NewAuthHandler(cfg configs.Config, auth *usecase.Auth) *AuthHandler {
	return &AuthHandler{cfg: cfg, auth: auth}
}

type registerReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResp struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	user, err := h.auth.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	user, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *domain.User) {
	token, err := middleware.IssueToken(h.cfg, user, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(status, authResp{Token: token, User: user})
}
