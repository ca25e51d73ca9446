package credentials

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"

	"gradecanvas/internal/auth"
	"gradecanvas/internal/model"
)

// Pair is a Canvas base URL plus API bearer token usable on a user's behalf.
type Pair struct {
	BaseURL string
	Token   string
}

// ErrNotConfigured means no source holds a complete credential pair. Callers
// treat this as user-recoverable and send the user to onboarding.
var ErrNotConfigured = errors.New("canvas credentials not configured")

// Source is one place credentials may live. Lookup reports whether it holds a
// complete pair for the user.
type Source interface {
	Lookup(ctx context.Context, userID string, claims *auth.Claims) (Pair, bool, error)
}

// Resolver walks its sources in order and stops at the first complete pair.
type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

func (r *Resolver) Resolve(ctx context.Context, userID string, claims *auth.Claims) (Pair, error) {
	for _, source := range r.sources {
		pair, ok, err := source.Lookup(ctx, userID, claims)
		if err != nil {
			log.Printf("credentials: source lookup failed for %s: %v", userID, err)
			continue
		}
		if ok {
			return pair, nil
		}
	}
	return Pair{}, ErrNotConfigured
}

// SettingsGetter is the slice of the repository the settings source needs.
type SettingsGetter interface {
	GetUserSettings(ctx context.Context, userID string) (model.UserSettings, error)
}

// SettingsSource reads the user_settings row. It takes precedence over the
// token metadata fallback.
type SettingsSource struct {
	Settings SettingsGetter
}

func (s *SettingsSource) Lookup(ctx context.Context, userID string, _ *auth.Claims) (Pair, bool, error) {
	settings, err := s.Settings.GetUserSettings(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Pair{}, false, nil
	}
	if err != nil {
		return Pair{}, false, err
	}
	if settings.CanvasURL == nil || *settings.CanvasURL == "" || settings.CanvasToken == nil || *settings.CanvasToken == "" {
		return Pair{}, false, nil
	}
	return Pair{BaseURL: *settings.CanvasURL, Token: *settings.CanvasToken}, true, nil
}

// MetadataSource falls back to the credential fields the identity provider
// stashed in the user's token metadata during onboarding.
type MetadataSource struct{}

func (s *MetadataSource) Lookup(_ context.Context, _ string, claims *auth.Claims) (Pair, bool, error) {
	if claims == nil {
		return Pair{}, false, nil
	}
	metadata := claims.UserMetadata
	if metadata.CanvasURL == "" || metadata.CanvasToken == "" {
		return Pair{}, false, nil
	}
	return Pair{BaseURL: metadata.CanvasURL, Token: metadata.CanvasToken}, true, nil
}
