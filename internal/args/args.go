// Package args interprets gfnprobe's command line into a RunConfig.
//
// Parsing is deliberately permissive. Unknown flags are ignored so that newer
// wrappers can pass options older binaries do not know. An invocation without
// -n is not an error either: it parses fine and simply carries no exponent, and
// the caller turns that into a successful no-op run.
//
// Value flags accept the value concatenated (-n12) or as the next token (-n 12).
// Repeated flags are each validated; the last occurrence wins.
package args

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/concave-dev/gfnprobe/internal/apperr"
	"github.com/concave-dev/gfnprobe/internal/validate"
	"github.com/spf13/pflag"
)

const (
	MinExponent = 8  // Smallest supported GFN exponent
	MaxExponent = 16 // Largest supported GFN exponent
)

// GridSupported controls whether the grid-mode flag is recognized. Builds
// without grid support can switch it off with -ldflags.
var GridSupported = true

// Grid-mode spellings. The single-dash form is the one volunteer-computing
// clients pass on the command line.
var gridTokens = []string{"-boinc", "--grid"}

// Mode is the kind of work a run performs.
type Mode int

const (
	ModeBenchmark Mode = iota // No input file: self-timing run
	ModeVerify                // Input file: test every candidate it lists
)

func (m Mode) String() string {
	if m == ModeVerify {
		return "verify"
	}
	return "benchmark"
}

// RunConfig is the validated result of parsing. It is passed by value and
// never modified after Parse returns.
type RunConfig struct {
	Exponent       int    // GFN exponent n, 0 when -n was not given
	DeviceIndex    int    // Local device index
	InputFile      string // Candidate list; empty selects the benchmark
	DisplayResults bool   // Print every candidate's outcome
	GridMode       bool   // Grid-mode flag was present
}

// HasExponent reports whether -n was supplied. Without it no computation runs.
func (c RunConfig) HasExponent() bool {
	return c.Exponent != 0
}

// Mode returns ModeVerify when an input file was given, ModeBenchmark otherwise.
func (c RunConfig) Mode() Mode {
	if c.InputFile != "" {
		return ModeVerify
	}
	return ModeBenchmark
}

// WantsBanner reports whether any token asks for the banner-only exit
// (anything starting with -v or -V).
func WantsBanner(args []string) bool {
	for _, a := range args {
		if len(a) >= 2 && a[0] == '-' && (a[1] == 'v' || a[1] == 'V') {
			return true
		}
	}
	return false
}

// WantsGrid reports whether the grid-mode flag is present.
func WantsGrid(args []string) bool {
	if !GridSupported {
		return false
	}
	for _, a := range args {
		if isGridToken(a) {
			return true
		}
	}
	return false
}

func isGridToken(a string) bool {
	for _, t := range gridTokens {
		if a == t {
			return true
		}
	}
	return false
}

// Parse validates args into a RunConfig. deviceCount bounds -d/--device.
// Every failure is classified as InvalidArgument.
func Parse(args []string, deviceCount int) (RunConfig, error) {
	cfg := RunConfig{GridMode: WantsGrid(args)}

	fs := pflag.NewFlagSet("gfnprobe", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetInterspersed(true)

	exponents := fs.StringArrayP("exponent", "n", nil, "GFN exponent")
	files := fs.StringArrayP("file", "f", nil, "input text file")
	devices := fs.StringArrayP("device", "d", nil, "device number")
	fs.BoolVarP(&cfg.DisplayResults, "print", "p", false, "display results")

	if err := fs.Parse(normalize(args)); err != nil {
		return RunConfig{}, apperr.New(apperr.ErrInvalidArgument, err.Error())
	}

	for _, raw := range *exponents {
		n, err := parseExponent(raw)
		if err != nil {
			return RunConfig{}, err
		}
		cfg.Exponent = n
	}

	if len(*files) > 0 {
		cfg.InputFile = (*files)[len(*files)-1]
	}

	for _, raw := range *devices {
		d, err := parseDevice(raw, deviceCount)
		if err != nil {
			return RunConfig{}, err
		}
		cfg.DeviceIndex = d
	}

	return cfg, nil
}

func parseExponent(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperr.New(apperr.ErrInvalidArgument, fmt.Sprintf("invalid exponent '%s'", raw))
	}
	if err := validate.ValidateRange(n, MinExponent, MaxExponent); err != nil {
		if n < MinExponent {
			return 0, apperr.New(apperr.ErrInvalidArgument, fmt.Sprintf("n < %d is not supported", MinExponent))
		}
		return 0, apperr.New(apperr.ErrInvalidArgument, fmt.Sprintf("n > %d is not supported", MaxExponent))
	}
	return n, nil
}

func parseDevice(raw string, deviceCount int) (int, error) {
	d, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperr.New(apperr.ErrInvalidArgument, "invalid device number")
	}
	if err := validate.ValidateRange(d, 0, deviceCount-1); err != nil {
		return 0, apperr.New(apperr.ErrInvalidArgument, "invalid device number")
	}
	return d, nil
}

// normalize rewrites the raw tokens into what pflag should see. Dash tokens
// outside the known prefixes are dropped whole (pflag would otherwise split
// "-xyz" into shorthands), the grid token is removed, and the glued long form
// "--device1" becomes "--device=1". The token after a bare value flag is kept
// verbatim since it is that flag's value, even when it starts with a dash.
func normalize(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case isGridToken(a):
			continue
		case a == "-n" || a == "-f" || a == "-d" || a == "--device" ||
			a == "--exponent" || a == "--file":
			out = append(out, a)
			if i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
		case a == "-p" || a == "--print":
			out = append(out, a)
		case strings.HasPrefix(a, "--device="), strings.HasPrefix(a, "--exponent="),
			strings.HasPrefix(a, "--file="):
			out = append(out, a)
		case strings.HasPrefix(a, "--device"):
			out = append(out, "--device="+strings.TrimPrefix(a, "--device"))
		case strings.HasPrefix(a, "--"):
			continue
		case strings.HasPrefix(a, "-n"), strings.HasPrefix(a, "-f"), strings.HasPrefix(a, "-d"):
			out = append(out, a)
		case strings.HasPrefix(a, "-"):
			continue
		default:
			out = append(out, a)
		}
	}
	return out
}

// Usage returns the option summary printed by a discovery run.
func Usage(program string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [options]  options may be specified in any order\n", program)
	b.WriteString("  -n <n>                  GFN exponent (b^{2^n} + 1), 8 <= n <= 16\n")
	b.WriteString("  -f <filename>           input text file (one b per line)\n")
	b.WriteString("  -d <n> or --device <n>  set device number=<n> (default 0)\n")
	b.WriteString("  -p                      display results on the screen (default false)\n")
	b.WriteString("  -v or -V                print the startup banner and immediately exit\n")
	if GridSupported {
		b.WriteString("  -boinc or --grid        operate as a grid computing client app\n")
	}
	b.WriteString("\n")
	return b.String()
}
