package docsystem

import (
	"fmt"
	"regexp"

	"docum/internal/domain"
	models "docum/internal/domain/models/docsystem"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

// validate runs an entity's declared field rules and wraps a failure in
// domain.ErrValidation. Nothing is mutated or written when it fails.
func validate(v validation.Validatable) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// validateFolderName applies the folder name rules without building a folder.
func validateFolderName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.Length(1, models.MaxFolderNameLength),
		validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
	)
	if err != nil {
		return fmt.Errorf("%w: name: %v", domain.ErrValidation, err)
	}
	return nil
}
