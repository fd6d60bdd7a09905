package family

import (
	stderrors "errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/kintree/pkg/errors"
)

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Input is an unvalidated create request as it arrives from a boundary such
// as the CLI or an import file. Call [Input.Validate] before handing its
// [Input.Fields] and [Input.Relations] to the store.
type Input struct {
	Name          string   `json:"name" yaml:"name" validate:"required,max=256"`
	LocalizedName string   `json:"localized_name,omitempty" yaml:"localized_name,omitempty" validate:"omitempty,max=256"`
	Gender        string   `json:"gender" yaml:"gender" validate:"required,oneof=male female"`
	BirthDate     string   `json:"birth_date,omitempty" yaml:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Parents       []string `json:"parents,omitempty" yaml:"parents,omitempty" validate:"max=2,unique,dive,required"`
	Spouse        string   `json:"spouse,omitempty" yaml:"spouse,omitempty"`
	Children      []string `json:"children,omitempty" yaml:"children,omitempty" validate:"unique,dive,required"`
}

// Validate checks the request shape, the display names, and that the birth
// date is not after now. When parent records are supplied, it also checks
// that each is strictly older than the new person; the store only does that
// when [Options.EnforceBirthOrder] is set.
func (in *Input) Validate(now time.Time, parents ...Person) error {
	if in == nil {
		return errors.New(errors.ErrCodeInvalidInput, "input cannot be nil")
	}
	if err := validate.Struct(in); err != nil {
		return formatValidationError(err)
	}
	if err := errors.ValidateDisplayName("name", in.Name); err != nil {
		return err
	}
	if in.LocalizedName != "" {
		if err := errors.ValidateDisplayName("localized name", in.LocalizedName); err != nil {
			return err
		}
	}
	f := in.Fields()
	if err := errors.ValidateBirthDate(f.BirthDate, now); err != nil {
		return err
	}
	for _, p := range parents {
		if err := errors.ValidateBirthOrder(in.Name, p.ID, f.BirthDate, p.BirthDate); err != nil {
			return err
		}
	}
	return nil
}

// Fields converts a validated input. An unparsable birth date is dropped.
func (in *Input) Fields() Fields {
	f := Fields{
		Name:          in.Name,
		LocalizedName: in.LocalizedName,
		Gender:        Gender(in.Gender),
	}
	if in.BirthDate != "" {
		if d, err := time.Parse(time.DateOnly, in.BirthDate); err == nil {
			f.BirthDate = &d
		}
	}
	return f
}

// Relations returns the relationship references of the input.
func (in *Input) Relations() Relations {
	return Relations{Parents: in.Parents, Spouse: in.Spouse, Children: in.Children}
}

// formatValidationError reports the first failed constraint as an
// INVALID_INPUT error.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid input")
	}

	e := verrs[0]
	field, param := e.Field(), e.Param()
	switch e.Tag() {
	case "required":
		return errors.New(errors.ErrCodeInvalidInput, "%s: field is required", field)
	case "max":
		return errors.New(errors.ErrCodeInvalidInput, "%s: must not exceed %s", field, param)
	case "oneof":
		return errors.New(errors.ErrCodeInvalidInput, "%s: must be one of [%s]", field, param)
	case "datetime":
		return errors.New(errors.ErrCodeInvalidInput, "%s: must be a date formatted as YYYY-MM-DD", field)
	case "unique":
		return errors.New(errors.ErrCodeInvalidInput, "%s: entries must be unique", field)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "%s: validation failed (%s)", field, e.Tag())
	}
}
