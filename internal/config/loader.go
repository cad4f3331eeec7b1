package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoadSettings reads a configuration file (YAML or JSON, by extension) and
// returns its flattened settings. An empty path yields an empty map.
func LoadSettings(path string) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return map[string]any{}, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v.AllSettings(), nil
}

// ApplySettings merges config-file values into the CPU config. Flag overrides
// are applied afterwards by the command layer.
func (c *CPUConfig) ApplySettings(settings map[string]any) error {
	if raw, ok := lookupSetting(settings, "cores"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("cores: %w", err)
		}
		c.Cores = val
	}
	if raw, ok := lookupSetting(settings, "duration"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		c.Duration = dur
	}
	return nil
}

// ApplySettings merges config-file values into the RAM config.
func (c *RAMConfig) ApplySettings(settings map[string]any) error {
	if raw, ok := lookupSetting(settings, "size", "size_mb", "size-mb"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("size: %w", err)
		}
		c.SizeMB = val
	}
	if raw, ok := lookupSetting(settings, "threads"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("threads: %w", err)
		}
		c.Threads = val
	}
	if raw, ok := lookupSetting(settings, "duration"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		c.Duration = dur
	}
	return nil
}

// ApplySettings merges config-file values into the network config.
func (c *NetworkConfig) ApplySettings(settings map[string]any) error {
	if raw, ok := lookupSetting(settings, "mode"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("mode: %w", err)
		}
		c.Mode = strings.ToLower(strings.TrimSpace(val))
	}
	if raw, ok := lookupSetting(settings, "host"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("host: %w", err)
		}
		c.Host = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "port"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("port: %w", err)
		}
		c.Port = val
	}
	if raw, ok := lookupSetting(settings, "clients"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("clients: %w", err)
		}
		c.Clients = val
	}
	if raw, ok := lookupSetting(settings, "duration"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		c.Duration = dur
	}
	return nil
}

// lookupSetting searches settings for the first matching candidate key,
// also accepting lowercase variants.
func lookupSetting(settings map[string]any, candidates ...string) (any, bool) {
	for _, key := range candidates {
		if val, ok := settings[key]; ok {
			return val, true
		}
		if val, ok := settings[strings.ToLower(key)]; ok {
			return val, true
		}
	}
	return nil, false
}

func asString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func asInt(value any) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float32:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		return strconv.Atoi(strings.TrimSpace(v))
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", value)
	}
}

// asDuration accepts time.Duration, duration strings ("30s"), and bare
// numbers interpreted as seconds.
func asDuration(value any) (time.Duration, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return v, nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, nil
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second, nil
		}
		return time.ParseDuration(v)
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		iv, _ := asInt(v)
		return time.Duration(iv) * time.Second, nil
	default:
		return 0, fmt.Errorf("unsupported duration type %T", value)
	}
}
