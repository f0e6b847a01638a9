package distance

import (
	"fmt"
	"strings"

	"branch-route-service/internal/ports"
)

const (
	ProviderGoogle = "google"
	ProviderORS    = "ors"
)

// Factory builds live providers for a credential. Clients are cheap and built
// per call, but all of them share one HTTP client and one rate limiter, so
// RequestsPerSecond bounds the traffic of the whole process.
type Factory struct {
	provider string
	opts     Options
}

func NewFactory(provider string, opts Options) (*Factory, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	switch provider {
	case "":
		provider = ProviderGoogle
	case ProviderGoogle, ProviderORS:
	default:
		return nil, fmt.Errorf("unknown maps provider %q (want %q or %q)", provider, ProviderGoogle, ProviderORS)
	}
	baseURL := googleMapsBaseURL
	if provider == ProviderORS {
		baseURL = orsBaseURL
	}
	return &Factory{provider: provider, opts: opts.withDefaults(baseURL)}, nil
}

// Matrix returns nil for an empty credential.
func (f *Factory) Matrix(credential string) ports.BatchDistanceProvider {
	if strings.TrimSpace(credential) == "" {
		return nil
	}
	if f.provider == ProviderORS {
		return NewORSMatrixClient(credential, f.opts)
	}
	return NewGoogleMatrixClient(credential, f.opts)
}

// Directions returns nil for an empty credential.
func (f *Factory) Directions(credential string) ports.DirectionsProvider {
	if strings.TrimSpace(credential) == "" {
		return nil
	}
	if f.provider == ProviderORS {
		return NewORSDirectionsClient(credential, f.opts)
	}
	return NewGoogleDirectionsClient(credential, f.opts)
}
