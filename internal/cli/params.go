package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/storyviz/pkg/domain"
)

// DefaultMaxHistory is the fingerprint depth used when --max-history is not given.
const DefaultMaxHistory = 2

// DefaultOutput is the file written when --output is not given.
const DefaultOutput = "graph.html"

// Params are the inputs of a single visualization run.
type Params struct {
	ConfigPath  string
	DomainPath  string
	Stories     domain.StoriesSource
	NLUDataPath string // "" when not supplied
	OutputPath  string
	MaxHistory  int
}

// Validate rejects parameters no run can succeed with.
func (p Params) Validate() error {
	var errs []error
	if p.ConfigPath == "" {
		errs = append(errs, errors.New("config path is required"))
	}
	if p.DomainPath == "" {
		errs = append(errs, errors.New("domain path is required"))
	}
	if p.Stories == "" {
		errs = append(errs, errors.New("stories source is required"))
	}
	if p.OutputPath == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if p.MaxHistory < 1 {
		errs = append(errs, fmt.Errorf("max history must be at least 1, got %d", p.MaxHistory))
	}
	return errors.Join(errs...)
}

// PositiveInt is a pflag.Value that rejects values below 1 while flags are parsed.
type PositiveInt int

// NewPositiveInt returns a flag value holding def.
func NewPositiveInt(def int) *PositiveInt {
	v := PositiveInt(def)
	return &v
}

func (v *PositiveInt) String() string {
	return strconv.Itoa(int(*v))
}

// Set parses s and rejects zero and negative numbers.
func (v *PositiveInt) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%q is not an integer", s)
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	*v = PositiveInt(n)
	return nil
}

// Type names the value in help output.
func (v *PositiveInt) Type() string {
	return "int"
}

// Int returns the current value.
func (v *PositiveInt) Int() int {
	return int(*v)
}
