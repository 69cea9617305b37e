package application

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-allot/internal/domain"
)

// strategyIDPattern allows letters, digits, underscores, and hyphens.
var strategyIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// newValidator returns a validator with the custom tags and struct-level
// rules used by experiment and course configuration.
func newValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	return v, nil
}

// registerCustomValidators registers semantic version and strategy id tags
// plus the struct-level checks that relate fields to each other.
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}
	if err := v.RegisterValidation("strategyid", validateStrategyID); err != nil {
		return fmt.Errorf("failed to register strategyid validator: %w", err)
	}

	v.RegisterStructValidation(validateExperimentStruct, ExperimentConfig{})
	v.RegisterStructValidation(validateCourseStruct, CourseSpec{})
	return nil
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	if err != nil || n != 3 {
		return false
	}
	return major >= 0 && minor >= 0 && patch >= 0 &&
		value == fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

func validateStrategyID(fl validator.FieldLevel) bool {
	return strategyIDPattern.MatchString(fl.Field().String())
}

// validateExperimentStruct checks the sizing relation m >= n, p >= n and
// strategy id uniqueness.
func validateExperimentStruct(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(ExperimentConfig)

	if err := cfg.Sizing.Validate(); err != nil {
		var sizeErr *domain.SizeError
		if errors.As(err, &sizeErr) {
			field := "Topics"
			if sizeErr.Dimension == domain.DimensionSlot {
				field = "Slots"
			}
			sl.ReportError(cfg.Sizing, "sizing."+string(sizeErr.Dimension)+"s", field, "gtefield_agents", "")
		}
	}

	seen := make(map[string]struct{}, len(cfg.Strategies))
	for i, s := range cfg.Strategies {
		if _, dup := seen[s.ID]; dup {
			sl.ReportError(s.ID, fmt.Sprintf("strategies[%d].id", i), "ID", "unique", "")
		}
		seen[s.ID] = struct{}{}
	}
}

// validateCourseStruct checks that a course has at least as many topics and
// slots as groups, so every group can be placed.
func validateCourseStruct(sl validator.StructLevel) {
	spec := sl.Current().Interface().(CourseSpec)
	if spec.Groups > 0 && len(spec.Topics) < spec.Groups {
		sl.ReportError(spec.Topics, "topics", "Topics", "gtefield_groups", "")
	}
	if spec.Groups > 0 && len(spec.Slots) < spec.Groups {
		sl.ReportError(spec.Slots, "slots", "Slots", "gtefield_groups", "")
	}
}
