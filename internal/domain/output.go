package domain

import (
	"fmt"
	"mime"
	"slices"
	"strings"
)

// Output is the representation requested from the API through the Accept header.
type Output int

const (
	OutputJSON Output = iota
	OutputCSV
	OutputSTIX
	OutputMISP
)

// AllOutputs lists every output in declaration order.
//
//nolint:gochecknoglobals // closed enum listing
var AllOutputs = Outputs{OutputJSON, OutputCSV, OutputSTIX, OutputMISP}

func (o Output) String() string {
	switch o {
	case OutputJSON:
		return "json"
	case OutputCSV:
		return "csv"
	case OutputSTIX:
		return "stix"
	case OutputMISP:
		return "misp"
	default:
		return fmt.Sprintf("output(%d)", int(o))
	}
}

// ContentType maps the output onto its media type.
func (o Output) ContentType() string {
	switch o {
	case OutputJSON:
		return "application/json"
	case OutputCSV:
		return "text/csv"
	case OutputSTIX:
		return "application/stix+json"
	case OutputMISP:
		return "application/x-misp+json"
	default:
		return "application/json"
	}
}

// ParseOutput converts a user-supplied output name.
func ParseOutput(s string) (Output, error) {
	for _, o := range AllOutputs {
		if strings.EqualFold(strings.TrimSpace(s), o.String()) {
			return o, nil
		}
	}
	return OutputJSON, fmt.Errorf("unknown output %q", s)
}

// Outputs is the set of outputs an operation supports.
type Outputs []Output

// Supports reports whether o is in the set.
func (s Outputs) Supports(o Output) bool {
	return slices.Contains(s, o)
}

func (s Outputs) String() string {
	names := make([]string, 0, len(s))
	for _, o := range s {
		names = append(names, o.String())
	}
	return strings.Join(names, ", ")
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}
