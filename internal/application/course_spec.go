package application

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-allot/internal/ports"
)

// ParseCourseSpec decodes and validates a course definition. Omitting
// total_votes uses DefaultTotalVotes.
func ParseCourseSpec(r io.Reader) (CourseSpec, error) {
	v, err := newValidator()
	if err != nil {
		return CourseSpec{}, err
	}

	spec := DefaultCourseSpec()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return CourseSpec{}, fmt.Errorf("YAML decode failed: %w", err)
	}

	if err := v.Struct(spec); err != nil {
		return CourseSpec{}, toValidationError(fmt.Sprintf("course %q", spec.Name), err)
	}
	return spec, nil
}

// LoadCourseSpec reads and validates the course definition at path. Errors
// are *ports.ConfigError values keyed by path.
func LoadCourseSpec(path string) (CourseSpec, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return CourseSpec{}, err
	}
	spec, err := ParseCourseSpec(bytes.NewReader(data))
	if err != nil {
		return CourseSpec{}, ports.NewConfigError(path, err)
	}
	return spec, nil
}
