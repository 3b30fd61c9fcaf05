// Package join matches county indicator records to boundary geometries by
// county name.
package join

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/sells-group/choromap/internal/boundary"
	"github.com/sells-group/choromap/internal/dataset"
)

// Policy controls how county names present in only one source are handled.
type Policy string

const (
	// PolicyDrop drops unmatched counties with a warning. Default.
	PolicyDrop Policy = "drop"
	// PolicyStrict fails on the first unmatched county on either side.
	PolicyStrict Policy = "strict"
)

// ParsePolicy validates a policy string from config.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyDrop, PolicyStrict:
		return Policy(s), nil
	case "":
		return PolicyDrop, nil
	default:
		return "", eris.Errorf("join: unknown policy %q (want drop or strict)", s)
	}
}

// Options configures the join.
type Options struct {
	Policy Policy
	// Normalize applies Unicode case folding and whitespace trimming to both
	// sides before matching. Off by default: the join is exact,
	// case/whitespace-sensitive.
	Normalize bool
}

// Row is a joined county: indicator values plus geometry. Present only for
// counties found in both sources.
type Row struct {
	dataset.Record
	Boundary boundary.Boundary
}

// Result carries the joined rows and both sides' leftovers so counts are
// verifiable by callers.
type Result struct {
	Rows                []Row
	UnmatchedRecords    []string
	UnmatchedBoundaries []string
}

// Join matches records to boundaries by county name. Row order follows the
// record order of the indicator dataset, so the result is deterministic.
func Join(records []dataset.Record, bounds []boundary.Boundary, opts Options) (*Result, error) {
	if opts.Policy == "" {
		opts.Policy = PolicyDrop
	}

	key := func(name string) string { return name }
	if opts.Normalize {
		folder := cases.Fold()
		key = func(name string) string { return folder.String(strings.TrimSpace(name)) }
	}

	byName := make(map[string]boundary.Boundary, len(bounds))
	for _, b := range bounds {
		k := key(b.Name)
		if _, dup := byName[k]; dup {
			return nil, eris.Errorf("join: duplicate boundary name %q", b.Name)
		}
		byName[k] = b
	}

	res := &Result{}
	matched := make(map[string]bool, len(records))

	for _, rec := range records {
		k := key(rec.County)
		b, ok := byName[k]
		if !ok {
			if opts.Policy == PolicyStrict {
				return nil, eris.Errorf("join: county %q has no boundary", rec.County)
			}
			zap.L().Warn("join: dropping county with no boundary", zap.String("county", rec.County))
			res.UnmatchedRecords = append(res.UnmatchedRecords, rec.County)
			continue
		}
		matched[k] = true
		res.Rows = append(res.Rows, Row{Record: rec, Boundary: b})
	}

	for _, b := range bounds {
		if matched[key(b.Name)] {
			continue
		}
		if opts.Policy == PolicyStrict {
			return nil, eris.Errorf("join: boundary %q has no indicator record", b.Name)
		}
		zap.L().Warn("join: dropping boundary with no indicator record", zap.String("county", b.Name))
		res.UnmatchedBoundaries = append(res.UnmatchedBoundaries, b.Name)
	}

	zap.L().Info("join complete",
		zap.Int("joined", len(res.Rows)),
		zap.Int("unmatched_records", len(res.UnmatchedRecords)),
		zap.Int("unmatched_boundaries", len(res.UnmatchedBoundaries)),
	)

	if len(res.Rows) == 0 {
		return nil, eris.New("join: no counties matched between the two sources")
	}
	return res, nil
}
