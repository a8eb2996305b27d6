package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/inkpress/internal/db"
	"github.com/inkpress/internal/service"
)

const (
	// sessionUserKey is the only value stored in the signed session
	// cookie; everything else about the caller is loaded per request.
	sessionUserKey = "user_id"

	userContextKey = "current_user"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register 处理用户注册请求，成功后立即建立会话
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req, "Invalid request body") {
		return
	}

	user, err := a.users.Register(service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondError(c, http.StatusBadRequest, vErr.Messages)
		case errors.Is(err, service.ErrUserExists):
			respondError(c, http.StatusBadRequest, "User already exists")
		default:
			internalError(c, err)
		}
		return
	}

	if err := signIn(c, user.ID); err != nil {
		internalError(c, err)
		return
	}

	respondData(c, http.StatusCreated, userView(user))
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "Invalid request body") {
		return
	}

	user, err := a.users.Authenticate(req.Email, req.Password)
	if err != nil {
		// 查无此人与密码错误返回完全一致，避免账号枚举
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		internalError(c, err)
		return
	}

	if err := signIn(c, user.ID); err != nil {
		internalError(c, err)
		return
	}

	respondData(c, http.StatusOK, userView(user))
}

// Logout 处理用户登出：清空会话并让 cookie 立即过期
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	if err := session.Save(); err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// AuthRequired rejects requests that carry no valid signed session and
// attaches the authenticated user to the request context. Every
// mutating route is mounted behind this middleware; client-side route
// gating alone is not enforcement.
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(sessionUserKey).(uint)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Not authorized")
			c.Abort()
			return
		}

		user, err := a.users.Get(userID)
		if err != nil {
			// 无效与过期会话一律视为未认证，不向调用方区分原因
			respondError(c, http.StatusUnauthorized, "Not authorized")
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func signIn(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, userID)
	return session.Save()
}

func currentUser(c *gin.Context) *db.User {
	if value, exists := c.Get(userContextKey); exists {
		if user, ok := value.(*db.User); ok {
			return user
		}
	}
	return nil
}

func userView(user *db.User) gin.H {
	return gin.H{
		"_id":      user.ID,
		"username": user.Username,
		"email":    user.Email,
	}
}
