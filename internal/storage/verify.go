package storage

import (
	"context"
	"fmt"
	"net/http"
)

// HTTPDoer is the subset of *http.Client used for object verification.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Verified checks every URL from the wrapped resolver with a HEAD request.
type Verified struct {
	next   Resolver
	client HTTPDoer
}

// NewVerified wraps next so that missing objects fail resolution.
func NewVerified(next Resolver, client HTTPDoer) *Verified {
	return &Verified{next: next, client: client}
}

// PublicURL resolves key through the wrapped resolver and verifies the result.
func (v *Verified) PublicURL(ctx context.Context, bucket, key string) (string, error) {
	u, err := v.next.PublicURL(ctx, bucket, key)
	if err != nil {
		return "", err
	}
	if err := v.head(ctx, u); err != nil {
		return "", fmt.Errorf("resolve %s/%s: %w", bucket, key, err)
	}
	return u, nil
}

func (v *Verified) head(ctx context.Context, u string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	return nil
}
