package api

import (
	"bytes"
	"encoding/json"
)

// Complaint statuses accepted by the backend
const (
	StatusOpen     = "open"
	StatusPending  = "pending"
	StatusResolved = "resolved"
)

// Statuses lists the complaint statuses in display order
var Statuses = []string{StatusOpen, StatusPending, StatusResolved}

// User is the account returned by /auth/login
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Complaint struct {
	ID           int    `json:"id" yaml:"id"`
	Subject      string `json:"subject" yaml:"subject"`
	Description  string `json:"description" yaml:"description"`
	UserEmail    string `json:"user_email" yaml:"user_email"`
	Status       string `json:"status" yaml:"status"`
	AdminNotes   string `json:"admin_notes,omitempty" yaml:"admin_notes,omitempty"`
	BranchName   string `json:"branch_name,omitempty" yaml:"branch_name,omitempty"`
	CategoryName string `json:"category_name,omitempty" yaml:"category_name,omitempty"`
	CreatedAt    string `json:"created_at" yaml:"created_at"`
}

// ComplaintFilter narrows a complaint listing. Empty fields are not sent.
type ComplaintFilter struct {
	Status string
	Date   string
	Search string
}

type StatusUpdate struct {
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
}

type Branch struct {
	ID        int    `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Address   string `json:"address" yaml:"address"`
	AdminID   *int   `json:"admin_id" yaml:"admin_id"`
	AdminName string `json:"admin_name,omitempty" yaml:"admin_name,omitempty"`
}

// BranchInput is the body of branch create and update calls. A nil
// AdminID leaves the branch unassigned.
type BranchInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	AdminID *int   `json:"admin_id"`
}

type Permissions struct {
	ViewOnly   bool `json:"viewOnly" yaml:"view_only"`
	FullAccess bool `json:"fullAccess" yaml:"full_access"`
}

// Label is the human form shown in listings
func (p Permissions) Label() string {
	switch {
	case p.FullAccess:
		return "Full Access"
	case p.ViewOnly:
		return "View Only"
	default:
		return "None"
	}
}

type Admin struct {
	ID          int         `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Email       string      `json:"email" yaml:"email"`
	Permissions Permissions `json:"permissions" yaml:"permissions"`
	IsActive    bool        `json:"is_active" yaml:"is_active"`
	BranchID    *int        `json:"branch_id" yaml:"branch_id"`
	BranchName  string      `json:"branch_name,omitempty" yaml:"branch_name,omitempty"`
}

// AdminInput is the body of admin create and update calls. Password is only
// sent when set.
type AdminInput struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password,omitempty"`
	Permissions Permissions `json:"permissions"`
	IsActive    bool        `json:"is_active"`
	BranchID    *int        `json:"branch_id"`
}

type Dashboard struct {
	TotalComplaints    int `json:"totalComplaints" yaml:"total"`
	OpenComplaints     int `json:"openComplaints" yaml:"open"`
	ResolvedComplaints int `json:"resolvedComplaints" yaml:"resolved"`
	PendingComplaints  int `json:"pendingComplaints" yaml:"pending"`
}

// DashboardFilter selects the dashboard totals. Empty or "all" values are
// not sent.
type DashboardFilter struct {
	Date     string
	BranchID string
	Category string
}

// Category is a complaint category
type Category struct {
	ID   CategoryID `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`
}

// CategoryID is a category id in the exact text the backend sent, whether
// it arrived as a JSON number or a string.
type CategoryID string

func (id *CategoryID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = CategoryID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = CategoryID(n)
	return nil
}

// MarshalJSON writes numeric ids back as numbers
func (id CategoryID) MarshalJSON() ([]byte, error) {
	if isNumber(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id CategoryID) String() string {
	return string(id)
}

func isNumber(s string) bool {
	var n json.Number
	return s != "" && json.Unmarshal([]byte(s), &n) == nil
}

// Message is the body of acknowledgement and error responses
type Message struct {
	Message string `json:"message"`
}
