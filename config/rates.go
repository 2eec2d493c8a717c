// ABOUTME: YAML overrides for the business rates of the license engines
// ABOUTME: Keys absent from the file keep their default values

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ulix1808/AppdyLicCalc/models"
)

// LoadRates overlays the YAML file at path onto models.DefaultLicenseRates.
// An empty path returns the defaults. Unknown keys are rejected.
func LoadRates(path string) (models.LicenseRates, error) {
	rates := models.DefaultLicenseRates()
	if path == "" {
		return rates, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return models.LicenseRates{}, fmt.Errorf("opening rates file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&rates); err != nil && !errors.Is(err, io.EOF) {
		return models.LicenseRates{}, fmt.Errorf("parsing rates file %s: %w", path, err)
	}

	if err := rates.Validate(); err != nil {
		return models.LicenseRates{}, fmt.Errorf("invalid rates in %s: %w", path, err)
	}
	return rates, nil
}
