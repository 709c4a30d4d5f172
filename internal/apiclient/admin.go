package apiclient

import (
	"context"
)

// Admin covers the server-level endpoints that sit directly under the base address.
type Admin struct {
	client *Client
}

func NewAdmin(r *Resolver) *Admin {
	return &Admin{client: r.NewClient()}
}

func (a *Admin) Client() *Client {
	return a.client
}

// Health returns nil when the server answers its health check.
func (a *Admin) Health(ctx context.Context) error {
	return a.client.Get(ctx, "/health", nil)
}

// Version returns the server's reported version string.
func (a *Admin) Version(ctx context.Context) (string, error) {
	var version string
	if err := a.client.Get(ctx, "/admin/version", &version); err != nil {
		return "", err
	}
	return version, nil
}
