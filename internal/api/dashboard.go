package api

import (
	"context"
	"net/url"
)

// AllFilter is the choice that disables a filter
const AllFilter = "all"

// Dashboard fetches the complaint totals for the super admin dashboard
func (c *Client) Dashboard(ctx context.Context, f DashboardFilter) (*Dashboard, error) {
	if err := ValidateDashboardFilter(f); err != nil {
		return nil, err
	}

	q := url.Values{}
	setFilter(q, "date", f.Date)
	setFilter(q, "branch_id", f.BranchID)
	setFilter(q, "category", f.Category)

	var d Dashboard
	if err := c.get(ctx, "/super_admin/dashboard", q, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Branches lists every branch, for filter choices
func (c *Client) Branches(ctx context.Context) ([]Branch, error) {
	var out []Branch
	if err := c.get(ctx, "/branches", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories lists the complaint categories
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.get(ctx, "/complaint_categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func setFilter(q url.Values, key, value string) {
	if value == "" || value == AllFilter {
		return
	}
	q.Set(key, value)
}
