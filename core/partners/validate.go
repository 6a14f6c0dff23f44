// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partners

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var slugRegexp = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// partnerValidator checks the `validate` tags of Partner.
var partnerValidator = newPartnerValidator()

func newPartnerValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	rules := map[string]func(string) bool{
		"slug":    slugRegexp.MatchString,
		"weburl":  isAbsoluteHTTPURL,
		"logoref": func(s string) bool { return isAbsoluteHTTPURL(s) || isRootRelativePath(s) },
		"tier":    func(s string) bool { return Tier(s).Valid() },
	}

	for tag, rule := range rules {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return rule(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("partners: register %q validation: %v", tag, err))
		}
	}

	return v
}

// fieldErrors maps a failed "Field.tag" pair to the error reported for it.
var fieldErrors = map[string]error{
	"Slug.required": ErrMissingSlug,
	"Slug.slug":     ErrInvalidSlug,
	"Name.required": ErrMissingName,
	"URL.weburl":    ErrInvalidURL,
	"Logo.logoref":  ErrInvalidLogo,
	"Tier.tier":     ErrUnknownTier,
}

// validatePartner returns every problem with p, joined.
func validatePartner(p Partner) error {
	err := partnerValidator.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate partner: %w", err)
	}

	errs := make([]error, 0, len(fieldErrs))

	for _, fe := range fieldErrs {
		sentinel, ok := fieldErrors[fe.StructField()+"."+fe.Tag()]
		if !ok {
			errs = append(errs, fe)

			continue
		}

		if fe.StructField() == "Tier" {
			errs = append(errs, fmt.Errorf("%w: %v", sentinel, fe.Value()))
		} else {
			errs = append(errs, sentinel)
		}
	}

	return errors.Join(errs...)
}
