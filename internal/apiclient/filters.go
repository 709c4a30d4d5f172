package apiclient

import (
	"fmt"

	"github.com/google/uuid"
)

// FilterRequest selects resources for the filter and count endpoints.
// Empty criteria are omitted. A zero Limit uses the resolver's default limit.
type FilterRequest struct {
	Limit      int
	Offset     int
	Names      []string
	FlowIDs    []uuid.UUID
	StateTypes []StateType
}

func (f FilterRequest) validate() error {
	if f.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", f.Limit)
	}
	if f.Offset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", f.Offset)
	}
	for _, st := range f.StateTypes {
		if !ValidStateTypes[st] {
			return fmt.Errorf("invalid state type %q", st)
		}
	}
	return nil
}

// body builds the API filter document. Names apply to the resource being
// queried; flow ids and state types are expressed as flow and flow run
// criteria, which the API accepts on every filter endpoint.
func (f FilterRequest) body(resource string, paged bool, defaultLimit int) map[string]any {
	body := map[string]any{}

	if len(f.Names) > 0 {
		addCriteria(body, resource, "name", anyOf(f.Names))
	}
	if len(f.FlowIDs) > 0 {
		addCriteria(body, "flows", "id", anyOf(f.FlowIDs))
	}
	if len(f.StateTypes) > 0 {
		addCriteria(body, "flow_runs", "state", map[string]any{"type": anyOf(f.StateTypes)})
	}

	if paged {
		limit := f.Limit
		if limit == 0 {
			limit = defaultLimit
		}
		body["limit"] = limit
		body["offset"] = f.Offset
	}
	return body
}

func anyOf[T any](values []T) map[string]any {
	return map[string]any{"any_": values}
}

func addCriteria(body map[string]any, group, field string, criteria any) {
	g, ok := body[group].(map[string]any)
	if !ok {
		g = map[string]any{}
		body[group] = g
	}
	g[field] = criteria
}
