package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListBranches lists the branches managed by the super admin
func (c *Client) ListBranches(ctx context.Context) ([]Branch, error) {
	var out []Branch
	if err := c.get(ctx, "/super_admin/branches", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnassignedAdmins lists admins without a branch
func (c *Client) UnassignedAdmins(ctx context.Context) ([]Admin, error) {
	var out []Admin
	if err := c.get(ctx, "/super_admin/admins/unassigned", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBranch(ctx context.Context, in BranchInput) (*Branch, error) {
	if err := ValidateBranch(in); err != nil {
		return nil, err
	}
	var out Branch
	if err := c.do(ctx, http.MethodPost, "/super_admin/branches", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBranch(ctx context.Context, id int, in BranchInput) (*Branch, error) {
	if err := ValidateBranch(in); err != nil {
		return nil, err
	}
	var out Branch
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/super_admin/branches/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBranch(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/super_admin/branches/%d", id), nil, nil, nil)
}
