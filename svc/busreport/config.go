package busreport

import (
	"fmt"
	"strings"
	"time"
)

// Config configures the Bus Manifest Report automation.
type Config struct {
	Enabled    bool   `env:"AUTOMATIONS_BUS_MANIFEST_REPORT_ENABLED" envDefault:"false"`
	ToEmail    string `env:"AUTOMATIONS_BUS_MANIFEST_REPORT_TO_EMAIL"`
	Schedule   string `env:"AUTOMATIONS_BUS_MANIFEST_REPORT_SCHEDULE" envDefault:"0 0 15 * * 1-5"`
	BusTags    string `env:"AUTOMATIONS_BUS_MANIFEST_REPORT_BUS_TAGS"`
	MaxRetries int8   `env:"AUTOMATIONS_BUS_MANIFEST_REPORT_MAX_RETRIES" envDefault:"0"`
	Timezone   string `env:"AUTOMATIONS_TIMEZONE" envDefault:"Local"`
}

// Tags returns the configured bus tag filter. An empty result means every
// bus is reported.
func (c Config) Tags() []string {
	var tags []string
	for tag := range strings.SplitSeq(c.BusTags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Location resolves Timezone. Empty and "Local" mean the process zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidTimezone, c.Timezone, err)
	}
	return loc, nil
}
