package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	DocURL   string
}

const docBase = "https://reactor.vango.dev/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime misuse (R001-R099)
	// ============================================

	"R001": {
		Category: CategoryRuntime,
		Message:  "Value cannot be made reactive",
		DocURL:   docBase + "R001",
	},
	"R002": {
		Category: CategoryRuntime,
		Message:  "Write to read-only computed",
		DocURL:   docBase + "R002",
	},
	"R003": {
		Category: CategoryRuntime,
		Message:  "Computed read itself while computing",
		DocURL:   docBase + "R003",
	},
	"R004": {
		Category: CategoryRuntime,
		Message:  "Field write rejected",
		DocURL:   docBase + "R004",
	},
	"R005": {
		Category: CategoryRuntime,
		Message:  "Effect panicked during notification",
		DocURL:   docBase + "R005",
	},
	"R006": {
		Category: CategoryRuntime,
		Message:  "Scope already stopped",
		DocURL:   docBase + "R006",
	},

	// ============================================
	// Configuration (C001-C099)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		DocURL:   docBase + "C001",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Configuration file malformed",
		DocURL:   docBase + "C002",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   docBase + "C003",
	},

	// ============================================
	// CLI (X001-X099)
	// ============================================

	"X001": {
		Category: CategoryCLI,
		Message:  "Unknown demo",
		DocURL:   docBase + "X001",
	},
	"X002": {
		Category: CategoryCLI,
		Message:  "File already exists",
		DocURL:   docBase + "X002",
	},
	"X003": {
		Category: CategoryCLI,
		Message:  "Server failed",
		DocURL:   docBase + "X003",
	},
	"X004": {
		Category: CategoryCLI,
		Message:  "Unknown error code",
		DocURL:   docBase + "X004",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
