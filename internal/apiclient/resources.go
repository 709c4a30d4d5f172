package apiclient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Resource reads one Orion API collection through a handle scoped to the
// collection path, the same way the dashboard scopes its clients.
type Resource[T any] struct {
	client       *Client
	name         string
	defaultLimit int
}

func newResource[T any](r *Resolver, name string) *Resource[T] {
	return &Resource[T]{
		client:       r.NewClient("/" + name),
		name:         name,
		defaultLimit: r.defaultLimit,
	}
}

// NewFlows returns a resource scoped to <base>/flows
func NewFlows(r *Resolver) *Resource[Flow] {
	return newResource[Flow](r, "flows")
}

// NewFlowRuns returns a resource scoped to <base>/flow_runs
func NewFlowRuns(r *Resolver) *Resource[FlowRun] {
	return newResource[FlowRun](r, "flow_runs")
}

// NewDeployments returns a resource scoped to <base>/deployments
func NewDeployments(r *Resolver) *Resource[Deployment] {
	return newResource[Deployment](r, "deployments")
}

// Client returns the scoped handle.
func (r *Resource[T]) Client() *Client {
	return r.client
}

// Read fetches a single item. errors.Is(err, ErrNotFound) reports a missing item.
func (r *Resource[T]) Read(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	if err := r.client.Get(ctx, "/"+id.String(), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Filter returns the items matching f, a page at a time.
func (r *Resource[T]) Filter(ctx context.Context, f FilterRequest) ([]T, error) {
	if err := f.validate(); err != nil {
		return nil, NewClientValidationError(fmt.Errorf("%s filter: %w", r.name, err))
	}

	items := []T{}
	if err := r.client.Post(ctx, "/filter", f.body(r.name, true, r.defaultLimit), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of items matching f. Limit and Offset are ignored.
func (r *Resource[T]) Count(ctx context.Context, f FilterRequest) (int, error) {
	if err := f.validate(); err != nil {
		return 0, NewClientValidationError(fmt.Errorf("%s filter: %w", r.name, err))
	}

	var count int
	if err := r.client.Post(ctx, "/count", f.body(r.name, false, r.defaultLimit), &count); err != nil {
		return 0, err
	}
	return count, nil
}
