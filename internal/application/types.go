package application

import "browsetree/internal/domain"

// Re-export domain types for use by adapters
type (
	TreeSummary = domain.TreeSummary
)
