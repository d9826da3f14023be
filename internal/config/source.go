package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Source is a read-only key/value view over configuration, used for values
// that are resolved at the moment an operation needs them (credentials).
type Source interface {
	// Lookup returns the value for key and whether it was present and non-empty.
	Lookup(key string) (string, bool)
}

// ViperSource resolves keys through viper first and then the raw process
// environment, so credentials can live in hartex.yaml or be exported
// unprefixed (PGSQL_CREDENTIALS_GUILDS=...).
type ViperSource struct {
	v *viper.Viper
}

// NewViperSource wraps v. A nil v uses a fresh instance reading HARTEX_* env vars.
func NewViperSource(v *viper.Viper) *ViperSource {
	if v == nil {
		v = newViper()
	}
	return &ViperSource{v: v}
}

// Lookup implements Source.
func (s *ViperSource) Lookup(key string) (string, bool) {
	if value := strings.TrimSpace(s.v.GetString(key)); value != "" {
		return value, true
	}
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// MapSource is a fixed Source, mainly for tests and one-off tools.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(key string) (string, bool) {
	value, ok := m[key]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

var (
	_ Source = (*ViperSource)(nil)
	_ Source = MapSource(nil)
)
