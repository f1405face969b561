// Package storage resolves display URLs for objects kept in the hosted
// object storage that backs the menu (one public bucket of item images).
package storage

import (
	"context"
	"errors"
	"strings"

	storagego "github.com/supabase-community/storage-go"
)

// Errors returned by resolvers.
var (
	ErrEmptyKey  = errors.New("storage: empty object key")
	ErrNotFound  = errors.New("storage: object not found")
	ErrBadStatus = errors.New("storage: unexpected status")
)

// Resolver derives a fetchable public URL for an object key in a bucket.
type Resolver interface {
	PublicURL(ctx context.Context, bucket, key string) (string, error)
}

// Supabase resolves public URLs through the storage API client.
type Supabase struct {
	client *storagego.Client
}

// NewSupabase creates a resolver for the project at projectURL
// (e.g. https://xyz.supabase.co). apiKey may be empty for public buckets.
func NewSupabase(projectURL, apiKey string) *Supabase {
	endpoint := strings.TrimRight(projectURL, "/") + "/storage/v1"
	return &Supabase{client: storagego.NewClient(endpoint, apiKey, nil)}
}

// PublicURL returns the public URL for key in bucket. It does not contact
// the backend; wrap the resolver with NewVerified to check the object exists.
func (s *Supabase) PublicURL(_ context.Context, bucket, key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrEmptyKey
	}
	return s.client.GetPublicUrl(bucket, key).SignedURL, nil
}
