package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		switch currentSection {
		case "":
			if err := setRootField(cfg, key, value); err != nil {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
		case "notify":
			if err := setNotifyField(&cfg.Notify, key, value); err != nil {
				return nil, fmt.Errorf("error in section [notify]: %w", err)
			}
		case "avatar":
			if err := setAvatarField(&cfg.Avatar, key, value); err != nil {
				return nil, fmt.Errorf("error in section [avatar]: %w", err)
			}
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "apply":
		n.Apply = b
	case "save":
		n.Save = b
	}
	return nil
}

func setAvatarField(a *Avatar, key, value string) error {
	switch strings.ToLower(key) {
	case "format":
		a.Format = strings.ToLower(value)
	case "quality":
		q, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid quality: %w", err)
		}
		if q < 1 || q > 100 {
			return fmt.Errorf("quality %d out of range", q)
		}
		a.Quality = q
	case "sizes":
		var sizes []int
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			s, err := strconv.Atoi(part)
			if err != nil {
				return fmt.Errorf("invalid size %q: %w", part, err)
			}
			if s < 1 {
				return fmt.Errorf("size %d out of range", s)
			}
			sizes = append(sizes, s)
		}
		if len(sizes) > 0 {
			a.Sizes = sizes
		}
	}
	return nil
}
