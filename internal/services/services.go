// Package services holds the engagement and messaging core: every operation
// takes the acting user id explicitly and runs its writes through
// repositories.Store.InTx.
package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/campus-social/backend/internal/repositories"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

var log = logrus.WithField("layer", "services")

// Clock returns the current time
type Clock func() time.Time

// SystemClock is the production Clock
func SystemClock() time.Time {
	return repositories.Now()
}

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// normalizePage clamps page to >= 1 and limit to [1, max], using def when the
// caller did not ask for a size.
func normalizePage(page, limit, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit
}

// cleanContent trims s and enforces 1..maxLen runes
func cleanContent(s string, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", appErrors.ErrEmptyContent
	}
	if utf8.RuneCountInString(s) > maxLen {
		return "", appErrors.ErrContentTooLong
	}
	return s, nil
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
