// Package observability provides logging and metrics support for the
// ScholarSync client and its development backend.
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("paper_id", id).Msg("paper loaded")
//
// Add domain context to a logger:
//
//	logger = observability.WithPaperContext(logger, paperID)
//	logger = observability.WithListContext(logger, listID)
//
// # Metrics
//
// Initialize metrics for the development backend:
//
//	metrics := observability.NewMetrics("scholarsync")
//	metrics.RequestsTotal.WithLabelValues("GET", "/api/papers", "200").Inc()
//
// # Standard Fields
//
// Common fields used across the client:
//
//   - paper_id: paper identifier (DOI or synthetic)
//   - list_id: reading list identifier
//   - screen: active TUI screen name
//   - format: citation format
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
