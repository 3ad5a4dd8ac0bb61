// SPDX-License-Identifier: EPL-2.0

package shout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Default tunables.
const (
	DefaultSampleRate       = 16000
	DefaultWindowMs         = 200
	DefaultHopMs            = 100
	DefaultThresholdDBFS    = -10.0
	DefaultMinRunMs         = 600
	DefaultMaxCrestDB       = 18.0
	DefaultAdaptiveOffsetDB = 20.0
	DefaultConfidence       = 0.6
)

// Config holds the detector tunables. It is passed by value to New and never
// modified afterwards.
type Config struct {
	// SampleRate is the rate the detector expects when a Signal does not carry one.
	SampleRate int `yaml:"sample_rate" json:"sample_rate" validate:"gte=1000,lte=384000"`
	WindowMs   int `yaml:"window_ms" json:"window_ms" validate:"gte=10,lte=5000"`
	HopMs      int `yaml:"hop_ms" json:"hop_ms" validate:"gte=1,lte=5000,ltefield=WindowMs"`

	ThresholdDBFS float64 `yaml:"threshold_dbfs" json:"threshold_dbfs" validate:"gte=-120,lte=0"`
	MinRunMs      int     `yaml:"min_run_ms" json:"min_run_ms" validate:"gte=0,lte=600000"`
	MaxCrestDB    float64 `yaml:"max_crest_db" json:"max_crest_db" validate:"gt=0,lte=120"`

	// Policy is "fixed" or "adaptive".
	Policy string `yaml:"policy" json:"policy" validate:"oneof=fixed adaptive"`
	// AdaptiveOffsetDB is added to the median frame level by the adaptive policy.
	AdaptiveOffsetDB float64 `yaml:"adaptive_offset_db" json:"adaptive_offset_db" validate:"gte=0,lte=120"`

	Confidence float64 `yaml:"confidence" json:"confidence" validate:"gte=0,lte=1"`
}

// DefaultConfig returns the stock tunables: -10 dBFS fixed threshold, 600 ms
// minimum run and 18 dB crest limit on 200/100 ms windows at 16kHz.
func DefaultConfig() Config {
	return Config{
		SampleRate:       DefaultSampleRate,
		WindowMs:         DefaultWindowMs,
		HopMs:            DefaultHopMs,
		ThresholdDBFS:    DefaultThresholdDBFS,
		MinRunMs:         DefaultMinRunMs,
		MaxCrestDB:       DefaultMaxCrestDB,
		Policy:           PolicyFixed,
		AdaptiveOffsetDB: DefaultAdaptiveOffsetDB,
		Confidence:       DefaultConfidence,
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report yaml names, which is what users edit.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// Validate checks every field range and returns all violations joined.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	errs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		errs = append(errs, fmt.Errorf("%w: %s %s", ErrInvalidConfig, e.Field(), describe(e)))
	}

	return errors.Join(errs...)
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "ltefield":
		return "must not exceed window_ms"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
