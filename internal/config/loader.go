// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// Load reads the YAML configuration file at path on top of Default and
// returns the validated result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates the
// result. Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides S3 settings from the AWS style environment variables.
// getenv is usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.S3.AccessKeyID, "AWS_ACCESS_KEY_ID")
	set(&cfg.S3.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	set(&cfg.S3.Region, "AWS_REGION")
	set(&cfg.S3.Bucket, "S3_BUCKET_NAME")
	set(&cfg.S3.Endpoint, "S3_ENDPOINT")
}

// Validate checks every section of cfg. It returns a joined error listing
// all failures found.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	errs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		errs = append(errs, fmt.Errorf("%w: %s %s", ErrInvalidConfig, fieldPath(e), formatValidationMessage(e)))
	}
	return errors.Join(errs...)
}

// fieldPath drops the root type name from the validator namespace, leaving
// the dotted yaml path, e.g. "detector.window_ms".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_with":
		return fmt.Sprintf("is required when %s is set", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "ltefield":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "hostname_port":
		return "must be a host:port address"
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
