package permtest

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/carbocation/pfx"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/carbocation/popgen"
)

// Mode selects the resampling operation used to build the null distribution.
type Mode string

const (
	ModeMultiG            Mode = "multig"
	ModeMonoG             Mode = "monog"
	ModeIntraGroupMonoG   Mode = "intragroup-monog"
	ModeAlleles           Mode = "alleles"
	ModeIntraGroupAlleles Mode = "intragroup-alleles"
)

// Permuter produces one resampled copy of a container.
type Permuter func(r *rand.Rand, c *popgen.MultiGContainer) *popgen.MultiGContainer

// Permuter returns the resampling operation for m. Every mode except
// ModeMultiG acts on the given groups only.
func (m Mode) Permuter(groups []int) (Permuter, error) {
	groups = append([]int(nil), groups...)

	switch m {
	case ModeMultiG:
		return popgen.PermuteMultiG, nil
	case ModeMonoG:
		return func(r *rand.Rand, c *popgen.MultiGContainer) *popgen.MultiGContainer {
			return popgen.PermuteMonoG(r, c, groups)
		}, nil
	case ModeIntraGroupMonoG:
		return func(r *rand.Rand, c *popgen.MultiGContainer) *popgen.MultiGContainer {
			return popgen.PermuteIntraGroupMonoG(r, c, groups)
		}, nil
	case ModeAlleles:
		return func(r *rand.Rand, c *popgen.MultiGContainer) *popgen.MultiGContainer {
			return popgen.PermuteAlleles(r, c, groups)
		}, nil
	case ModeIntraGroupAlleles:
		return func(r *rand.Rand, c *popgen.MultiGContainer) *popgen.MultiGContainer {
			return popgen.PermuteIntraGroupAlleles(r, c, groups)
		}, nil
	}

	return nil, fmt.Errorf("unknown permutation mode %q", m)
}

// Config describes one permutation test.
type Config struct {
	Replicates int   `yaml:"replicates" validate:"gt=0"`
	Seed       int64 `yaml:"seed"`

	// Workers bounds the number of replicates computed at once. Zero means
	// one worker.
	Workers int `yaml:"workers" validate:"gte=0"`

	Mode Mode `yaml:"mode" validate:"required,oneof=multig monog intragroup-monog alleles intragroup-alleles"`

	// Groups lists the group ids the permutation acts on. It is ignored by
	// ModeMultiG and required otherwise.
	Groups []int `yaml:"groups"`

	// Store is an optional SQLite path where the run is recorded.
	Store string `yaml:"store"`
}

func DefaultConfig() Config {
	return Config{
		Replicates: 1000,
		Seed:       1,
		Workers:    1,
		Mode:       ModeMultiG,
	}
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Mode != ModeMultiG && len(c.Groups) == 0 {
		return fmt.Errorf("mode %q needs at least one group", c.Mode)
	}
	return nil
}

// ParseConfig reads YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, pfx.Err(err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return cfg, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	return cfg, nil
}
