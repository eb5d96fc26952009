// Package drive exposes a Google Drive folder tree as a document
// repository. The caller hands it an already-authorised token source;
// credential acquisition lives outside this package.
package drive

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Drive allows 10 requests/sec/user; stay under it.
const (
	requestsPerSecond = 8.0
	burstSize         = 10
)

// NewService creates a Drive API service from an authorised token source.
func NewService(ctx context.Context, ts oauth2.TokenSource) (*gdrive.Service, error) {
	return gdrive.NewService(ctx, option.WithTokenSource(ts))
}

func newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)
}
