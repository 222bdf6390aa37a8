package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds training configuration
type Config struct {
	Architecture []int
	Activation   string
	Epochs       int
	LearningRate float64
	Seed         uint64
	Restarts     int
	DataFile     string
	Normalize    bool
	AnalysisFile string
}

// ParseArchitecture parses architecture string into slice of integers.
// Widths may be separated by whitespace or commas.
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.FieldsFunc(archStr, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("parsing layer %d: %w", i, err)
		}
		arch[i] = n
	}
	return arch, nil
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if len(config.Architecture) < 2 {
		return fmt.Errorf("architecture must have at least 2 layers (input and output)")
	}

	for i, n := range config.Architecture {
		if n <= 0 {
			return fmt.Errorf("layer %d must have a positive width, got %d", i, n)
		}
	}

	if config.Epochs < 0 {
		return fmt.Errorf("epochs must not be negative")
	}

	if config.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}

	if config.Restarts < 1 {
		return fmt.Errorf("restarts must be at least 1")
	}

	if config.Activation == "" {
		return fmt.Errorf("activation must be set")
	}

	return nil
}
