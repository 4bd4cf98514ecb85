package openstack

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudsync-io/identity-sync/internal/backend"
)

type wireRouter struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	AdminStateUp bool   `json:"admin_state_up"`
}

func fromWireRouter(w wireRouter) backend.Router {
	return backend.Router{ID: w.ID, Name: w.Name, AdminStateUp: w.AdminStateUp}
}

func (c *Client) ListRouters(ctx context.Context) ([]backend.Router, error) {
	if c.networkURL == "" {
		return nil, fmt.Errorf("network API URL not configured")
	}
	var out struct {
		Routers []wireRouter `json:"routers"`
	}
	url := c.networkURL + "/v2.0/routers"
	if err := c.do(ctx, http.MethodGet, url, nil, &out, "read", "router"); err != nil {
		return nil, err
	}
	routers := make([]backend.Router, 0, len(out.Routers))
	for _, w := range out.Routers {
		routers = append(routers, fromWireRouter(w))
	}
	return routers, nil
}

func (c *Client) CreateRouter(ctx context.Context, r backend.Router) (backend.Router, error) {
	if c.networkURL == "" {
		return backend.Router{}, fmt.Errorf("network API URL not configured")
	}
	body := map[string]wireRouter{"router": {
		Name:         r.Name,
		AdminStateUp: r.AdminStateUp,
	}}
	var out struct {
		Router wireRouter `json:"router"`
	}
	url := c.networkURL + "/v2.0/routers"
	if err := c.do(ctx, http.MethodPost, url, body, &out, "create", "router"); err != nil {
		return backend.Router{}, err
	}
	return fromWireRouter(out.Router), nil
}

func (c *Client) UpdateRouter(ctx context.Context, id string, r backend.Router) (backend.Router, error) {
	if c.networkURL == "" {
		return backend.Router{}, fmt.Errorf("network API URL not configured")
	}
	body := map[string]wireRouter{"router": {
		Name:         r.Name,
		AdminStateUp: r.AdminStateUp,
	}}
	var out struct {
		Router wireRouter `json:"router"`
	}
	url := fmt.Sprintf("%s/v2.0/routers/%s", c.networkURL, id)
	if err := c.do(ctx, http.MethodPut, url, body, &out, "update", "router"); err != nil {
		return backend.Router{}, err
	}
	return fromWireRouter(out.Router), nil
}

func (c *Client) DeleteRouter(ctx context.Context, id string) error {
	if c.networkURL == "" {
		return fmt.Errorf("network API URL not configured")
	}
	url := fmt.Sprintf("%s/v2.0/routers/%s", c.networkURL, id)
	return c.do(ctx, http.MethodDelete, url, nil, nil, "delete", "router")
}

var _ backend.Client = (*Client)(nil)
