package server

import (
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/k-ymmt/invoice-maker/internal/config"
	"github.com/k-ymmt/invoice-maker/internal/server/handlers"
	"github.com/k-ymmt/invoice-maker/internal/service/billing"
	"github.com/k-ymmt/invoice-maker/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "invoice-maker.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	billingService := billing.NewService(cfg.Documents, sqliteStore)
	h := handlers.NewHandlers(billingService, sqliteStore)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
	}

	s.setupRoutes(h)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(h *handlers.Handlers) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		h.RegisterRoutes(api)
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 释放资源
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
