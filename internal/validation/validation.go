// Package validation checks build options for consistency and applies
// guarded edits to a draft.
package validation

import (
	"fmt"
	"strings"

	"github.com/edelwud/expoci/pkg/options"
)

// Field tags a violation with the part of the options it concerns
type Field string

// Violation fields
const (
	FieldBuildKinds Field = "buildKinds"
	FieldTriggers   Field = "triggers"
	FieldGeneral    Field = "general"
)

// Fields lists every violation field in report order
var Fields = []Field{FieldBuildKinds, FieldTriggers, FieldGeneral}

// Messages reported for each rule
const (
	MsgNoBuildKinds       = "At least one build type must be selected"
	MsgNoTriggers         = "At least one trigger must be selected"
	MsgReleaseNeedsManual = "GitHub Releases storage requires the 'Manual workflow dispatch' trigger"
	MsgIOSNeedsManual     = "iOS builds are complex and require manual trigger for better control"
	MsgPublishNeedsManual = "Publishing workflows should include manual trigger for controlled releases"
)

// Violation is a single broken rule
type Violation struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Result holds every violation found in one pass
type Result struct {
	Violations []Violation `json:"violations"`
}

// Valid reports whether no rule was broken
func (r *Result) Valid() bool {
	return len(r.Violations) == 0
}

// ByField returns the violations tagged with f
func (r *Result) ByField(f Field) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Field == f {
			out = append(out, v)
		}
	}
	return out
}

// Messages returns the violation messages in report order
func (r *Result) Messages() []string {
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

// Err returns nil for a valid result, otherwise an *Error
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{Violations: r.Violations}
}

func (r *Result) add(field Field, msg string) {
	r.Violations = append(r.Violations, Violation{Field: field, Message: msg})
}

// Error is returned when options fail validation
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "invalid options: " + strings.Join(parts, "; ")
}

// Validate checks o against every consistency rule and reports all
// violations. It never modifies o.
func Validate(o options.BuildOptions) *Result {
	r := &Result{}

	if !hasAny(o.BuildKinds, options.BuildKinds) {
		r.add(FieldBuildKinds, MsgNoBuildKinds)
	}
	if !hasAny(o.Triggers, options.Triggers) {
		r.add(FieldTriggers, MsgNoTriggers)
	}

	for _, k := range o.BuildKinds {
		if !k.Valid() {
			r.add(FieldBuildKinds, fmt.Sprintf("Unknown build type %q", k))
		}
	}
	for _, t := range o.Triggers {
		if !t.Valid() {
			r.add(FieldTriggers, fmt.Sprintf("Unknown trigger %q", t))
		}
	}
	for _, c := range o.Checks {
		if !c.Valid() {
			r.add(FieldGeneral, fmt.Sprintf("Unknown check %q", c))
		}
	}
	if o.Storage != "" && !o.Storage.Valid() {
		r.add(FieldGeneral, fmt.Sprintf("Unknown storage target %q", o.Storage))
	}

	manual := o.HasTrigger(options.TriggerManual)
	if o.Storage == options.StorageGitHubRelease && !manual {
		r.add(FieldGeneral, MsgReleaseNeedsManual)
	}
	if o.Advanced.IOSSupport && !manual {
		r.add(FieldGeneral, MsgIOSNeedsManual)
	}
	if (o.Advanced.PublishToExpo || o.Advanced.PublishToStores) && !manual {
		r.add(FieldGeneral, MsgPublishNeedsManual)
	}

	return r
}

// ManualForcedBy returns the reason the manual trigger is currently
// required, or "" when nothing forces it.
func ManualForcedBy(o options.BuildOptions) string {
	switch {
	case o.Storage == options.StorageGitHubRelease:
		return "GitHub Releases storage"
	case o.Advanced.IOSSupport:
		return "iOS builds"
	case o.Advanced.PublishToExpo || o.Advanced.PublishToStores:
		return "publishing"
	}
	return ""
}

func hasAny[T comparable](selected, known []T) bool {
	for _, s := range selected {
		for _, k := range known {
			if s == k {
				return true
			}
		}
	}
	return false
}
