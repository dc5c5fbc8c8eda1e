package solver

// Option allows to configure a solve.
type Option func(*Config) error

// WithHints makes the given hint functions available to the solver, on top
// of the globally registered ones.
func WithHints(hintFns ...Hint) Option {
	return func(cfg *Config) error {
		for _, h := range hintFns {
			cfg.HintFunctions[GetHintID(h)] = h
		}
		return nil
	}
}

// Config is the solve configuration built from a list of Option.
type Config struct {
	HintFunctions map[HintID]Hint
}

// NewConfig returns a solve config with all registered hints enabled, then
// applies the options.
func NewConfig(opts ...Option) (Config, error) {
	cfg := Config{HintFunctions: cloneHintRegistry()}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
