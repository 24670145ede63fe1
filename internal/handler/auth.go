package handler

import (
	"time"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责注册/登录/会话相关接口
type AuthHandler struct {
	Svc       *ledger.Service
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration

	// Local is the owner of a single-tenant deployment, nil otherwise.
	Local *models.User
}

// NewAuthHandler 构造函数
func NewAuthHandler(svc *ledger.Service, jwtSecret, issuer string, ttlHours int, local *models.User) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Svc:       svc,
		JWTSecret: jwtSecret,
		Issuer:    issuer,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
		Local:     local,
	}
}

// respondSession issues a token for user and returns {user, token}.
func (h *AuthHandler) respondSession(c *gin.Context, user *models.User) {
	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, h.TokenTTL)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.SetCookie(util.TokenCookie, token, int(h.TokenTTL.Seconds()), "/", "", false, true)
	util.Success(c, util.Response{
		"user":  user,
		"token": token,
	})
}

// ---------- 注册 ----------

func (h *AuthHandler) Signup(c *gin.Context) {
	var req ledger.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.Svc.Signup(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.respondSession(c, user)
}

// ---------- 登录 ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}
	user, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.respondSession(c, user)
}

type pincodeReq struct {
	Username string `json:"username" binding:"required"`
	Pincode  string `json:"pincode" binding:"required"`
}

// Pincode 使用 4 位 PIN 登录
func (h *AuthHandler) Pincode(c *gin.Context) {
	var req pincodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and pincode are required")
		return
	}
	user, err := h.Svc.LoginPincode(c.Request.Context(), req.Username, req.Pincode)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.respondSession(c, user)
}

// Session reports who the caller is. It never fails: an absent or bad token
// yields {"user": null}.
func (h *AuthHandler) Session(c *gin.Context) {
	if h.Local != nil {
		util.Success(c, util.Response{"user": h.Local})
		return
	}

	var user *models.User
	if tokenStr := util.TokenFromRequest(c); tokenStr != "" {
		if claims, err := util.ParseToken(h.JWTSecret, tokenStr); err == nil {
			if u, err := h.Svc.GetUser(c.Request.Context(), claims.UserID); err == nil {
				user = u
			}
		}
	}
	util.Success(c, util.Response{"user": user})
}

// Logout clears the token cookie; bearer tokens simply expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(util.TokenCookie, "", -1, "/", "", false, true)
	util.Success(c, util.Response{"success": true})
}
