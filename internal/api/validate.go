package api

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/iksnae/complaint-desk/internal"
	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

var onePermission = validation.By(func(value interface{}) error {
	p, _ := value.(Permissions)
	if !p.ViewOnly && !p.FullAccess {
		return errors.New("select at least one permission")
	}
	if p.ViewOnly && p.FullAccess {
		return errors.New("view-only and full access are exclusive")
	}
	return nil
})

// ValidateBranch checks the branch form: name and address are required
func ValidateBranch(in BranchInput) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, notBlank),
		validation.Field(&in.Address, notBlank),
		validation.Field(&in.AdminID, validation.NilOrNotEmpty, validation.Min(1)),
	)
	return formError("branch", err)
}

// ValidateAdmin checks the admin form. A password is only required when the
// account is being created.
func ValidateAdmin(in AdminInput, create bool) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, notBlank),
		validation.Field(&in.Email, notBlank, is.EmailFormat),
		validation.Field(&in.Password, validation.When(create, notBlank)),
		validation.Field(&in.Permissions, onePermission),
		validation.Field(&in.BranchID, validation.NilOrNotEmpty, validation.Min(1)),
	)
	return formError("admin", err)
}

// ValidateStatusUpdate checks that the new status is one the backend accepts
func ValidateStatusUpdate(u StatusUpdate) error {
	err := validation.ValidateStruct(&u,
		validation.Field(&u.Status, validation.Required, validation.In(StatusOpen, StatusPending, StatusResolved)),
	)
	return formError("status", err)
}

// ValidateComplaintFilter checks the optional complaint list filters
func ValidateComplaintFilter(f ComplaintFilter) error {
	err := validation.Errors{
		"status": validation.Validate(f.Status, validation.In(AllFilter, StatusOpen, StatusPending, StatusResolved)),
		"date":   validation.Validate(f.Date, validation.Date(dateLayout)),
	}.Filter()
	return formError("filter", err)
}

// ValidateDashboardFilter checks the optional dashboard filters
func ValidateDashboardFilter(f DashboardFilter) error {
	err := validation.Errors{
		"date": validation.Validate(f.Date, validation.Date(dateLayout)),
	}.Filter()
	return formError("dashboard", err)
}

func formError(form string, err error) error {
	if err == nil {
		return nil
	}
	return &internal.ValidationError{Form: form, Err: err}
}
