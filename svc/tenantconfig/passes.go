package tenantconfig

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/dmitrymomot/smaug/svc/agency"
	"github.com/dmitrymomot/smaug/svc/client"
)

// Configuration keys touched by the pipeline.
const (
	KeySearch                = "search"
	KeyAgency                = "agency"
	KeyProfile               = "profile"
	KeyCollectionIdentifiers = "collectionidentifiers"
	KeyAgencyService         = "agencyservice"
	KeyServiceAPI            = "api"
	KeyServicePassword       = "password"
)

// section returns cfg[key] as an object, creating it when absent or not an object.
func section(cfg map[string]any, key string) map[string]any {
	if m, ok := cfg[key].(map[string]any); ok {
		return m
	}
	m := make(map[string]any)
	cfg[key] = m
	return m
}

func lookupSearch(cfg map[string]any) (map[string]any, bool) {
	m, ok := cfg[KeySearch].(map[string]any)
	return m, ok
}

// applyAgency writes the library's search profile and service credentials into cfg.
func applyAgency(cfg map[string]any, a *agency.Agency) error {
	if a == nil {
		return nil
	}
	if (a.ServiceAPI == "") != (a.ServicePassword == "") {
		return fmt.Errorf("%w: agency %s service api and password", ErrAsymmetricOverride, a.LibraryID)
	}
	if a.SearchProfile != "" {
		section(cfg, KeySearch)[KeyProfile] = a.SearchProfile
	}
	if a.HasServiceCredentials() {
		svc := section(cfg, KeyAgencyService)
		svc[KeyServiceAPI] = a.ServiceAPI
		svc[KeyServicePassword] = a.ServicePassword
	}
	return nil
}

// applyClient merges the client's config beneath cfg and reports whether the
// client overrode search.agency.
func applyClient(cfg, clientCfg map[string]any) (map[string]any, bool, error) {
	clientSearch, _ := lookupSearch(clientCfg)
	_, hasAgency := clientSearch[KeyAgency]
	_, hasProfile := clientSearch[KeyProfile]
	if hasAgency != hasProfile {
		return nil, false, fmt.Errorf("%w: client search.agency and search.profile", ErrAsymmetricOverride)
	}
	if _, ok := clientSearch[KeyCollectionIdentifiers]; !ok {
		return nil, false, ErrMissingCollectionIdentifiers
	}

	// The tier is merged over a copy of the client config so its values win,
	// including false, 0 and "". mergo aliases nested maps of src into dst,
	// so both sides are copies.
	merged := client.CloneConfig(clientCfg)
	if merged == nil {
		merged = make(map[string]any)
	}
	if err := mergo.Merge(&merged, client.CloneConfig(cfg), mergo.WithOverride); err != nil {
		return nil, false, fmt.Errorf("merge client configuration: %w", err)
	}

	overridden := hasAgency && hasProfile
	if overridden {
		search := section(merged, KeySearch)
		search[KeyAgency] = clientSearch[KeyAgency]
		search[KeyProfile] = clientSearch[KeyProfile]
	}
	return merged, overridden, nil
}

// finalize forces search.agency and checks search.profile.
func finalize(cfg map[string]any, libraryID string, agencyOverridden bool) error {
	if !agencyOverridden && libraryID != "" {
		section(cfg, KeySearch)[KeyAgency] = libraryID
	}
	search, _ := lookupSearch(cfg)
	if profile, ok := search[KeyProfile].(string); !ok || profile == "" {
		return ErrMissingProfile
	}
	return nil
}
