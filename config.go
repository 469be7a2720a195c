package nodebalance

import (
	"flag"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const defaultRandomChoices = 2

// Config selects and parameterizes a strategy.
type Config struct {
	Strategy      string `yaml:"strategy"`
	RandomChoices int    `yaml:"random_choices"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("selector.", f)
}

func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Strategy, prefix+"strategy", StrategyRoundRobin.String(), fmt.Sprintf("Node selection strategy. Supported values: %s.", strings.Join(StrategyNames(), ", ")))
	f.IntVar(&cfg.RandomChoices, prefix+"random-choices", defaultRandomChoices, fmt.Sprintf("Number of candidates sampled per selection when the strategy is %s.", StrategyRandomRChoices))
}

// Validate the config.
func (cfg *Config) Validate() error {
	s, err := ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}
	if s == StrategyRandomRChoices {
		return validateRandomChoices(cfg.RandomChoices)
	}
	return nil
}

// New builds the selector described by cfg.
func New(cfg Config, opts ...Option) (Selector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid selector config")
	}
	s, _ := ParseStrategy(cfg.Strategy)
	switch s {
	case StrategyRoundRobin:
		return NewRoundRobin(opts...), nil
	case StrategyWeightedRoundRobin:
		return NewWeightedRoundRobin(opts...), nil
	default:
		rc, err := NewRandomRChoices(cfg.RandomChoices, opts...)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
}
