package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/handler"
)

// sessionMaxAge 控制会话 cookie 的有效期：30 天
const sessionMaxAge = 30 * 24 * 60 * 60

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, api *handler.API) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// 浏览器客户端运行在独立源上，允许携带凭证的跨源请求
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 配置会话中间件。cookie 由密钥签名，仅 HTTP 访问，
	// SameSite=Strict 防 CSRF，生产环境下只经 HTTPS 传输。
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   !cfg.IsDevelopment(),
		SameSite: http.SameSiteStrictMode,
	})
	r.Use(sessions.Sessions("inkpress_session", store))

	// 上传的图片作为静态资源对外提供
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	apiGroup := r.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", api.Register)
			auth.POST("/login", api.Login)
			auth.POST("/logout", api.Logout)
		}

		// 公开读取接口
		apiGroup.GET("/posts", api.GetPosts)
		apiGroup.GET("/posts/:id", api.GetPost)
		apiGroup.GET("/categories", api.GetCategories)

		// 需要认证的写接口
		protected := apiGroup.Group("")
		protected.Use(api.AuthRequired())
		{
			protected.POST("/posts", api.CreatePost)
			protected.PUT("/posts/:id", api.UpdatePost)
			protected.DELETE("/posts/:id", api.DeletePost)
			protected.POST("/categories", api.CreateCategory)
			protected.POST("/upload", api.UploadImage)
		}
	}

	return r
}
