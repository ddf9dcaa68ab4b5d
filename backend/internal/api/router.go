package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"vocabgraph/backend/internal/services"
)

// RouterConfig carries the HTTP settings the router needs
type RouterConfig struct {
	Production  bool
	CORSOrigins []string
}

// NewRouter wires every vocabulary endpoint onto a gin engine
func NewRouter(vs *services.VocabularyService, cfg RouterConfig, log *zap.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.CORSOrigins))

	h := &handlers{vocab: vs, logger: log}

	// Health check
	router.GET("/health", h.health)

	api := router.Group("/api")
	{
		api.GET("/categories/:id", h.getCategory)

		api.GET("/relations", h.listRelations)
		api.GET("/relations/:id", h.getRelation)
		api.GET("/relations/:id/targets/:category", h.getTargets)

		api.POST("/invert", h.invert)
		api.POST("/combine/two", h.combineTwo)
		api.POST("/combine/specific", h.combineSpecific)

		api.POST("/reload", h.reload)
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Accept", "Origin", "X-Requested-With", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
