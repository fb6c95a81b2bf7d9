// Package server provides the HTTP server of orderdb.
//
// The server uses the Gin web framework with zap request logging and panic
// recovery (gin-contrib/zap), and exposes Prometheus metrics next to the
// API.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap.Ginzap (request/response logging)               │  │
//	│  │  ginzap.RecoveryWithZap (panic recovery with zap)       │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────┬───────────────────────────────┤
//	│   Router (/api/v1)            │   /metrics                    │
//	│   handlers registered via     │   promhttp for the store      │
//	│   callback                    │   registry                    │
//	└───────────────────────────────┴───────────────────────────────┘
//
// # Server Modes
//
// Development Mode (ServerMode = "dev"): Gin runs in debug mode.
//
// Production Mode (ServerMode = "prod"): Gin runs in release mode.
//
// # Usage Example
//
//	srv, err := server.NewServer(cfg, registry, func(router *gin.RouterGroup) {
//	    handlers.RegisterHandlers(router, handler)
//	})
//	if err != nil {
//	    return err
//	}
//
//	go func() {
//	    if err := srv.Start(ctx); !errors.Is(err, http.ErrServerClosed) {
//	        zap.S().Errorw("server error", "error", err)
//	    }
//	}()
//
//	<-ctx.Done()
//	srv.Stop(context.Background())
package server
