package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBranch(t *testing.T) {
	zero := 0
	tests := []struct {
		name    string
		in      BranchInput
		wantErr string
	}{
		{"valid", BranchInput{Name: "North", Address: "1 Rd"}, ""},
		{"missing name", BranchInput{Address: "1 Rd"}, "name: cannot be blank"},
		{"blank address", BranchInput{Name: "North", Address: "   "}, "address: cannot be blank"},
		{"zero admin", BranchInput{Name: "North", Address: "1 Rd", AdminID: &zero}, "admin_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBranch(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateAdmin(t *testing.T) {
	valid := AdminInput{Name: "Nora", Email: "nora@example.com", Password: "pw", Permissions: Permissions{ViewOnly: true}}

	tests := []struct {
		name    string
		mutate  func(*AdminInput)
		create  bool
		wantErr string
	}{
		{"valid create", func(*AdminInput) {}, true, ""},
		{"missing name", func(in *AdminInput) { in.Name = "" }, true, "name: cannot be blank"},
		{"bad email", func(in *AdminInput) { in.Email = "nora" }, true, "email: must be a valid email address"},
		{"password required on create", func(in *AdminInput) { in.Password = " " }, true, "password: cannot be blank"},
		{"password optional on update", func(in *AdminInput) { in.Password = "" }, false, ""},
		{"no permission", func(in *AdminInput) { in.Permissions = Permissions{} }, true, "select at least one permission"},
		{"both permissions", func(in *AdminInput) { in.Permissions = Permissions{ViewOnly: true, FullAccess: true} }, false, "exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := ValidateAdmin(in, tt.create)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	for _, s := range Statuses {
		assert.NoError(t, ValidateStatusUpdate(StatusUpdate{Status: s}), s)
	}
	assert.Error(t, ValidateStatusUpdate(StatusUpdate{}))
	assert.Error(t, ValidateStatusUpdate(StatusUpdate{Status: "all"}))
	assert.Error(t, ValidateStatusUpdate(StatusUpdate{Status: "Open"}))
}

func TestValidateComplaintFilter(t *testing.T) {
	assert.NoError(t, ValidateComplaintFilter(ComplaintFilter{}))
	assert.NoError(t, ValidateComplaintFilter(ComplaintFilter{Status: "all", Date: "2024-01-31"}))
	assertErrorContains(t, ValidateComplaintFilter(ComplaintFilter{Status: "closed"}), "status")
	assertErrorContains(t, ValidateComplaintFilter(ComplaintFilter{Date: "2024-13-01"}), "date")
}

func assertErrorContains(t *testing.T, err error, want string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), want)
	}
}
