package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/franz/album-categorizer/internal/util"
	"github.com/spf13/viper"
)

// GetConfigString retrieves a string config value with proper precedence:
// 1. Command-line flag (if set)
// 2. Environment variable (ALC_*)
// 3. Config file
// 4. Default value
func GetConfigString(key string, defaultValue string) string {
	val := viper.GetString(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// GetConfigInt retrieves an int config value with proper precedence
func GetConfigInt(key string, defaultValue int) int {
	val := viper.GetInt(key)
	if val == 0 {
		return defaultValue
	}
	return val
}

// GetConfigBool retrieves a bool config value
func GetConfigBool(key string) bool {
	return viper.GetBool(key)
}

// GetConfigStringSlice retrieves a string slice config value
func GetConfigStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// parsePairs parses --pair values of the form "N=path" where N is the
// 1-based track number in the normalized tracklist
func parsePairs(values []string) (map[int]string, error) {
	pairs := make(map[int]string, len(values))
	for _, v := range values {
		num, path, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("%w: pair %q must look like 1=track.mp3", util.ErrInvalidConfig, v)
		}
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: pair %q has no valid track number", util.ErrInvalidConfig, v)
		}
		if _, dup := pairs[n]; dup {
			return nil, fmt.Errorf("%w: track %d paired twice", util.ErrInvalidConfig, n)
		}
		pairs[n] = filepath.Clean(strings.TrimSpace(path))
	}
	return pairs, nil
}

// parseTagOverrides parses --tag values of the form "key=value". Keys are
// lowercased; an empty value removes the key from every track.
func parseTagOverrides(values []string) (map[string]string, error) {
	overrides := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: tag %q must look like genre=Techno", util.ErrInvalidConfig, v)
		}
		overrides[key] = value
	}
	return overrides, nil
}
