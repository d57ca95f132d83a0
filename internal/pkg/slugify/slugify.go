// Package slugify derives unique, URL-safe identifiers from edital titles.
package slugify

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
)

// TakenFunc reports whether candidate is already held by another record.
type TakenFunc func(ctx context.Context, candidate string) (bool, error)

// Make returns the normalized base candidate for a title: lowercase,
// diacritics stripped, non-alphanumeric runs collapsed to a dash.
func Make(title string) string {
	return slug.Make(title)
}

// Unique derives a slug from title that is free according to taken. The base
// candidate is used as-is when available, otherwise a numeric suffix is
// appended starting at 2 and incremented until a free candidate is found.
//
// Uniqueness is only guaranteed at the moment of the check. A concurrent
// creation with the same base can still collide at commit time; the caller
// handles that through the unique constraint and retries.
func Unique(ctx context.Context, title string, taken TakenFunc) (string, error) {
	base := Make(title)
	if base == "" {
		return "", fmt.Errorf("slugify: title %q produces an empty slug", title)
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
