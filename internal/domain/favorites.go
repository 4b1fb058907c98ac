package domain

import (
	"context"
	"fmt"
)

// FavoritesRepository persists the ordered favorite list of a profile. Entries
// are tool paths, or tool names written by older clients.
type FavoritesRepository interface {
	LoadFavorites(ctx context.Context, profile string) ([]string, error)
	SaveFavorites(ctx context.Context, profile string, entries []string) error
}

// ValidateProfileName accepts 1 to MaxProfileNameLength ASCII letters, digits,
// '.', '_' and '-', not starting with a separator.
func ValidateProfileName(profile string) error {
	if profile == "" || len(profile) > MaxProfileNameLength {
		return fmt.Errorf("%w: %q", ErrInvalidProfile, profile)
	}
	for i := 0; i < len(profile); i++ {
		c := profile[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case (c == '.' || c == '_' || c == '-') && i > 0:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidProfile, profile)
		}
	}
	return nil
}
