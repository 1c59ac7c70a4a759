package environment

import (
	"os"
	"strings"
)

// Environment represents application environment.
type Environment string

const (
	// Development for development environment.
	Development Environment = "development"
	// Production for production environment.
	Production Environment = "production"
	// Staging for staging environment.
	Staging Environment = "staging"
)

// FunctionsRuntimeVar is set by the Azure Functions host on every worker.
const FunctionsRuntimeVar = "APPSETTING_FUNCTIONS_WORKER_RUNTIME"

// Parse normalizes a raw value such as "prod" or "Stage". Unknown and empty
// values fall back to Development.
func Parse(raw string) Environment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

// Resolve returns the environment for the running process. A functions host
// always means production regardless of the configured value.
func Resolve(raw string) Environment {
	if os.Getenv(FunctionsRuntimeVar) != "" {
		return Production
	}
	return Parse(raw)
}

func (e Environment) String() string { return string(e) }

func (e Environment) IsProduction() bool { return e == Production }

func (e Environment) IsDevelopment() bool { return e == Development }
