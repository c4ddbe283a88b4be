package ambient

import (
	"github.com/dmitrymomot/ambient/pkg/config"
	"github.com/dmitrymomot/ambient/pkg/sanitizer"
)

// Config controls how Reader turns an *http.Request into a Snapshot.
type Config struct {
	// MaxMemory bounds the memory used for multipart bodies and the size of
	// url-encoded bodies.
	MaxMemory int64 `env:"AMBIENT_MAX_MEMORY" envDefault:"10485760"`
	// IncludeEnv copies the process environment into the ENV source.
	IncludeEnv bool `env:"AMBIENT_INCLUDE_ENV" envDefault:"true"`
	// EnvFiles are .env files merged into ENV. Process variables win.
	EnvFiles []string `env:"AMBIENT_ENV_FILES" envSeparator:","`
	// NestedKeys parses names such as "user[name]" and "tags[]" into
	// nested maps and lists.
	NestedKeys bool `env:"AMBIENT_NESTED_KEYS" envDefault:"true"`
	// RequestOrder lists which sources make up REQUEST: G for GET, P for
	// POST, C for COOKIE. Later letters override earlier ones.
	RequestOrder string `env:"AMBIENT_REQUEST_ORDER" envDefault:"GP"`
	// TrustProxy takes REMOTE_ADDR from proxy headers such as
	// X-Forwarded-For instead of the TCP peer.
	TrustProxy bool `env:"AMBIENT_TRUST_PROXY" envDefault:"false"`
	// StripControlChars removes control characters other than newline,
	// carriage return and tab from strings before escaping.
	StripControlChars bool `env:"AMBIENT_STRIP_CONTROL_CHARS" envDefault:"false"`
	// TrimStrings trims surrounding white space before escaping.
	TrimStrings bool `env:"AMBIENT_TRIM_STRINGS" envDefault:"false"`
	// MaxStringLength truncates strings to this many runes before escaping.
	// Zero disables truncation.
	MaxStringLength int `env:"AMBIENT_MAX_STRING_LENGTH" envDefault:"0"`
}

// DefaultConfig returns the configuration used when nothing is set in the
// environment.
func DefaultConfig() Config {
	return Config{
		MaxMemory:    10 << 20,
		IncludeEnv:   true,
		NestedKeys:   true,
		RequestOrder: "GP",
	}
}

// LoadConfig reads Config from AMBIENT_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// stringSanitizer builds the string pipeline selected by c, or nil when c keeps
// the default escape-only behaviour.
func (c Config) stringSanitizer() *sanitizer.Sanitizer {
	var transforms []func(string) string
	if c.StripControlChars {
		transforms = append(transforms, sanitizer.RemoveControlChars)
	}
	if c.TrimStrings {
		transforms = append(transforms, sanitizer.Trim)
	}
	if c.MaxStringLength > 0 {
		transforms = append(transforms, sanitizer.LimitLength(c.MaxStringLength))
	}
	if len(transforms) == 0 {
		return nil
	}
	return sanitizer.New(sanitizer.WithStringTransforms(transforms...))
}
