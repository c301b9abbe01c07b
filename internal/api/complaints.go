package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListComplaints lists the complaints visible to the signed-in admin
func (c *Client) ListComplaints(ctx context.Context, f ComplaintFilter) ([]Complaint, error) {
	if err := ValidateComplaintFilter(f); err != nil {
		return nil, err
	}

	q := url.Values{}
	setFilter(q, "status", f.Status)
	setFilter(q, "date", f.Date)
	setFilter(q, "search", f.Search)

	var out []Complaint
	if err := c.get(ctx, "/normal_admin/complaints", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetComplaint(ctx context.Context, id int) (*Complaint, error) {
	var out Complaint
	if err := c.get(ctx, fmt.Sprintf("/normal_admin/complaints/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateComplaintStatus sets the status and admin notes of a complaint
func (c *Client) UpdateComplaintStatus(ctx context.Context, id int, u StatusUpdate) (*Complaint, error) {
	if err := ValidateStatusUpdate(u); err != nil {
		return nil, err
	}
	var out Complaint
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/normal_admin/complaints/%d/status", id), nil, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
