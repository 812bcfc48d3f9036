package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Minute, Limit: s.uploadRateLimit()})
	limitUploads := limitRateForUploads(store)

	// Uploaded files and their thumbnails are served straight off disk.
	// With S3 configured the payload URLs point at the bucket instead and
	// these routes just serve whatever local leftovers exist.
	router.Static("/static/uploads", s.Config.UploadDir)
	router.Static("/static/thumbnails", s.Config.ThumbnailDir)

	apirouter := router.Group("/api")
	apirouter.POST("/upload", limitUploads, s.handleUploadMedia("media"))
	apirouter.GET("/media", s.handleListMedia())
	apirouter.GET("/media/:id", s.handleGetMedia())
	apirouter.DELETE("/media/:id", s.handleDeleteMedia())
	apirouter.POST("/media/upload", limitUploads, s.handleUploadMedia("media"))
	apirouter.GET("/memories", s.handleListMemories())
	apirouter.POST("/memories", limitUploads, s.handleUploadMedia("memory"))
	apirouter.GET("/entries", s.handleListEntries())
	apirouter.POST("/entries", s.handleCreateEntry())

	router.GET("/health", s.handleHealth())
	router.GET("/debug/tables", s.handleDebugTables())
	router.GET("/debug/create-table", s.handleDebugCreateTable())
}

func (s *Server) uploadRateLimit() uint {
	if s.Config.UploadRateLimit == 0 {
		return 30
	}
	return s.Config.UploadRateLimit
}
