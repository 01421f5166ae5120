package coordinator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vk/genhub/internal/config"
)

// Defaults for the iLocus stage.
const (
	DefaultDelta        = 500
	DefaultILocusFormat = "{}ILC-%05lu"
	labelPlaceholder    = "{}"
)

// printf integer conversion with optional flags, width and C length modifier.
var intVerb = regexp.MustCompile(`%[-+ #0]*[0-9]*(?:hh|h|ll|l|j|z|t)?[diouxX]`)

// Options are the run-wide settings shared by every genome's build.
type Options struct {
	// Strict aborts prep on integrity failures; relaxed mode only warns.
	Strict bool
	// Delta is the iLocus flanking length.
	Delta int
	// ILocusFormat names iLoci: one "{}" for the label and one printf
	// integer verb for the serial number.
	ILocusFormat string
	// Keep lists glob patterns of files that cleanup preserves.
	Keep []string
	// FullClean makes cleanup remove raw downloads as well.
	FullClean bool
}

// DefaultOptions returns strict options with the default iLocus settings.
func DefaultOptions() Options {
	return Options{
		Strict:       true,
		Delta:        DefaultDelta,
		ILocusFormat: DefaultILocusFormat,
	}
}

// Validate checks the options before any genome is dispatched.
func (o *Options) Validate() error {
	if o.Delta < 0 {
		return fmt.Errorf("%w: iLocus delta must be non-negative, got %d", config.ErrInvalid, o.Delta)
	}
	if err := ValidateILocusFormat(o.ILocusFormat); err != nil {
		return err
	}
	for _, pattern := range o.Keep {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: keep pattern %q: %w", config.ErrInvalid, pattern, err)
		}
	}
	return nil
}

// ValidateILocusFormat requires exactly one label placeholder and exactly
// one integer conversion.
func ValidateILocusFormat(format string) error {
	if n := strings.Count(format, labelPlaceholder); n != 1 {
		return fmt.Errorf("%w: iLocus format %q must contain exactly one %q, found %d", config.ErrInvalid, format, labelPlaceholder, n)
	}
	unescaped := strings.ReplaceAll(format, "%%", "")
	verbs := intVerb.FindAllString(unescaped, -1)
	if len(verbs) != 1 || strings.Count(unescaped, "%") != 1 {
		return fmt.Errorf("%w: iLocus format %q must contain exactly one integer conversion such as %%05lu", config.ErrInvalid, format)
	}
	return nil
}

// ILocusPattern substitutes the genome label into the format, leaving the
// integer conversion for the external tool.
func ILocusPattern(format, label string) string {
	return strings.Replace(format, labelPlaceholder, label, 1)
}

// ILocusName renders the n-th iLocus name the way a C printf would.
func ILocusName(format, label string, n uint64) string {
	pattern := ILocusPattern(format, label)
	loc := intVerb.FindStringIndex(strings.ReplaceAll(pattern, "%%", "\x00\x00"))
	if loc == nil {
		return pattern
	}
	verb := pattern[loc[0]:loc[1]]
	goVerb := strings.NewReplacer("hh", "", "ll", "", "h", "", "l", "", "j", "", "z", "", "t", "", "u", "d", "i", "d").Replace(verb)
	prefix := strings.ReplaceAll(pattern[:loc[0]], "%%", "%")
	suffix := strings.ReplaceAll(pattern[loc[1]:], "%%", "%")
	return prefix + fmt.Sprintf(goVerb, n) + suffix
}
