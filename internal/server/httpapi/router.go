package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/photoframe/internal/server/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) buildRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsConfig))

	engine.MaxMultipartMemory = cfg.MaxUploadBytes

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := engine.Group("/auth")
	{
		authGroup.POST("/signup", s.handleSignup)
		authGroup.POST("/login", s.handleLogin)
	}

	engine.GET("/me", s.Authenticate(), s.handleProfile)

	photoGroup := engine.Group("/photos", s.Authenticate())
	{
		photoGroup.POST("/upload", s.UploadRateLimit(), s.handleUpload)
		photoGroup.GET("", s.handleList)
		photoGroup.GET("/:id", s.handleGet)
		photoGroup.DELETE("/:id", s.handleDelete)
	}

	adminGroup := engine.Group("/admin", s.Authenticate(), s.RequireRole("admin"))
	{
		adminGroup.GET("/stats", s.handleStats)
	}

	return engine
}
