package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/freakbeast14/SafeChat/internal/export"
)

// Notify holds notification settings.
type Notify struct {
	Apply bool
	Save  bool
}

// Avatar holds export defaults for the crop dialog.
type Avatar struct {
	Format  string
	Quality int
	Sizes   []int
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Notify  Notify
	Avatar  Avatar
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Notify: Notify{
			Apply: false,
			Save:  false,
		},
		Avatar: Avatar{
			Format:  export.JPEG.String(),
			Quality: export.DefaultQuality,
			Sizes:   []int{export.Size},
		},
	}
}

// Spec resolves the configured avatar defaults to an export spec.
// Unknown formats fall back to the defaults.
func (c *Config) Spec() export.Spec {
	spec := export.DefaultSpec()
	if f, err := export.ParseFormat(c.Avatar.Format); err == nil {
		spec.Format = f
	}
	if c.Avatar.Quality > 0 && c.Avatar.Quality <= 100 {
		spec.Quality = c.Avatar.Quality
	}
	return spec
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "apply = %v\n", c.Notify.Apply)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	sb.WriteString("\n")

	// Avatar section
	sb.WriteString("[avatar]\n")
	fmt.Fprintf(&sb, "format = %s\n", c.Avatar.Format)
	fmt.Fprintf(&sb, "quality = %d\n", c.Avatar.Quality)
	if len(c.Avatar.Sizes) > 0 {
		sizes := make([]string, len(c.Avatar.Sizes))
		for i, s := range c.Avatar.Sizes {
			sizes[i] = strconv.Itoa(s)
		}
		fmt.Fprintf(&sb, "sizes = %s\n", strings.Join(sizes, ","))
	}
	sb.WriteString("\n")

	return sb.String()
}
