package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultAppEnv           = "local"
	defaultAPIBaseURL       = "http://localhost:8080"
	defaultStoreRoot        = ".tavolo"
	defaultHTTPTimeout      = "10s"
	defaultCartPollInterval = "30s"
	defaultDevServerAddr    = ":8080"
	defaultDevJWTSecret     = "dev-only-secret"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":            defaultAppEnv,
		"API_BASE_URL":       defaultAPIBaseURL,
		"STORE_ROOT":         defaultStoreRoot,
		"HTTP_TIMEOUT":       defaultHTTPTimeout,
		"CART_POLL_INTERVAL": defaultCartPollInterval,
		"REDIS_ADDR":         "",
		"REDIS_PASSWORD":     "",
		"DEV_SERVER_ADDR":    defaultDevServerAddr,
		"DEV_JWT_SECRET":     defaultDevJWTSecret,
	}
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// APIBaseURL is the root of the remote ordering platform API,
// without a trailing slash.
func APIBaseURL() string {
	_ = Load()
	return strings.TrimRight(get("API_BASE_URL", defaultAPIBaseURL), "/")
}

// StoreRoot is the directory holding the client's persisted state
// (auth token, user record, guest session id, snapshots).
func StoreRoot() string {
	_ = Load()
	return get("STORE_ROOT", defaultStoreRoot)
}

// HTTPTimeout is the per-attempt timeout for outgoing API calls.
func HTTPTimeout() time.Duration {
	_ = Load()
	return duration(get("HTTP_TIMEOUT", defaultHTTPTimeout), 10*time.Second)
}

// CartPollInterval is how often a mounted cart view re-fetches the cart.
func CartPollInterval() time.Duration {
	_ = Load()
	return duration(get("CART_POLL_INTERVAL", defaultCartPollInterval), 30*time.Second)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", "")
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

// DevServerAddr is the listen address for the bundled development backend.
func DevServerAddr() string {
	_ = Load()
	return get("DEV_SERVER_ADDR", defaultDevServerAddr)
}

// DevJWTSecret signs the tokens issued by the development backend.
// The client never inspects tokens; only the dev server reads this key.
func DevJWTSecret() string {
	_ = Load()
	return get("DEV_JWT_SECRET", defaultDevJWTSecret)
}

// duration parses s as a Go duration, accepting a bare number of seconds
// for compatibility with plain-integer .env values.
func duration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a key at runtime. Tests use it to point the client at a
// local test server.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[strings.ToUpper(strings.TrimSpace(key))] = value
	mu.Unlock()
}
