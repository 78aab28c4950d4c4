package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Collection is a top level API collection.
type Collection struct {
	c    *Client
	Name string
}

// Resource is one member of a collection.
type Resource struct {
	c     *Client
	Href  string
	ID    string
	Name  string
	Attrs map[string]any
}

// Href returns the collection URL.
func (col *Collection) Href() string {
	return col.c.apiURL + "/" + col.Name
}

// FindBy returns the members whose attributes equal every filter value.
func (col *Collection) FindBy(ctx context.Context, filters map[string]string) ([]*Resource, error) {
	q := url.Values{}
	q.Set("expand", "resources")
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		expr, err := filterExpr(k, filters[k])
		if err != nil {
			return nil, err
		}
		q.Add("filter[]", expr)
	}

	resp, err := col.c.do(ctx, http.MethodGet, "/"+col.Name, q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if err := AssertResponse(resp); err != nil {
		return nil, err
	}
	var page struct {
		Resources []map[string]any `json:"resources"`
	}
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}
	out := make([]*Resource, 0, len(page.Resources))
	for _, attrs := range page.Resources {
		out = append(out, col.c.resource(attrs))
	}
	return out, nil
}

// Create posts a create action for resources and returns the created members.
func (col *Collection) Create(ctx context.Context, resources []map[string]any) ([]*Resource, *Response, error) {
	resp, err := col.c.do(ctx, http.MethodPost, "/"+col.Name, "", map[string]any{
		"action":    "create",
		"resources": resources,
	})
	if err != nil {
		return nil, nil, err
	}
	if !resp.IsSuccess() {
		return nil, resp, nil
	}
	var created struct {
		Results []map[string]any `json:"results"`
	}
	if err := resp.Decode(&created); err != nil {
		return nil, resp, err
	}
	out := make([]*Resource, 0, len(created.Results))
	for _, attrs := range created.Results {
		out = append(out, col.c.resource(attrs))
	}
	return out, resp, nil
}

// Action posts action to the resource. A nil resource body sends the bare action.
func (r *Resource) Action(ctx context.Context, action string, resource map[string]any) (*Response, error) {
	body := map[string]any{"action": action}
	if resource != nil {
		body["resource"] = resource
	}
	return r.c.do(ctx, http.MethodPost, r.Href, "", body)
}

// Edit posts an edit action with the given fields.
func (r *Resource) Edit(ctx context.Context, fields map[string]any) (*Response, error) {
	return r.Action(ctx, "edit", fields)
}

// Delete posts a delete action.
func (r *Resource) Delete(ctx context.Context) (*Response, error) {
	return r.Action(ctx, "delete", nil)
}

func (c *Client) resource(attrs map[string]any) *Resource {
	r := &Resource{c: c, Attrs: attrs}
	if v, ok := attrs["href"].(string); ok {
		r.Href = v
	}
	if v, ok := attrs["name"].(string); ok {
		r.Name = v
	}
	if v, ok := attrs["id"]; ok && v != nil {
		r.ID = fmt.Sprint(v)
	}
	return r
}

// filterExpr renders attr='value'. The API has no escape inside quotes, so a
// value holding a single quote is double-quoted, and one holding both is refused.
func filterExpr(attr, value string) (string, error) {
	switch {
	case !strings.Contains(value, "'"):
		return fmt.Sprintf("%s='%s'", attr, value), nil
	case !strings.Contains(value, `"`):
		return fmt.Sprintf(`%s="%s"`, attr, value), nil
	}
	return "", fmt.Errorf("filter %s: value %q mixes single and double quotes", attr, value)
}
