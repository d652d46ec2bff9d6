// Package middleware provides HTTP middleware for the TaskFlow server.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: structured request logging via slog
//   - Recovery: converts panics into a 500 problem response
//   - CORS: origin allow-list and preflight handling
//   - Compress: gzip responses when the client accepts it
//   - HTTPMetrics.Handler: Prometheus request counters and latency histograms
//
// Compose them with Chain; the first middleware is the outermost:
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger(logger),
//	    middleware.Recovery(logger),
//	    middleware.CORS(cfg.Server.AllowedOrigins),
//	    httpMetrics.Handler(),
//	)
//
// # Context Values
//
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
