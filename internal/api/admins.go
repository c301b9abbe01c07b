package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListAdmins lists the branch admin accounts
func (c *Client) ListAdmins(ctx context.Context) ([]Admin, error) {
	var out []Admin
	if err := c.get(ctx, "/super_admin/admins", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnassignedBranches lists branches without an admin
func (c *Client) UnassignedBranches(ctx context.Context) ([]Branch, error) {
	var out []Branch
	if err := c.get(ctx, "/super_admin/branches/unassigned", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAdmin(ctx context.Context, in AdminInput) (*Admin, error) {
	if err := ValidateAdmin(in, true); err != nil {
		return nil, err
	}
	var out Admin
	if err := c.do(ctx, http.MethodPost, "/super_admin/admins", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAdmin(ctx context.Context, id int, in AdminInput) (*Admin, error) {
	if err := ValidateAdmin(in, false); err != nil {
		return nil, err
	}
	var out Admin
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/super_admin/admins/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAdmin(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/super_admin/admins/%d", id), nil, nil, nil)
}

// ResetAdminPassword asks the backend to send the admin a reset link
func (c *Client) ResetAdminPassword(ctx context.Context, id int) (string, error) {
	var msg Message
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/super_admin/admins/%d/reset-password", id), nil, nil, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}
