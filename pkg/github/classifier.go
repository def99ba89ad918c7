package github

import "fmt"

// SupportedGroup pairs a remote runner group with the rules configured for it
type SupportedGroup struct {
	Group RunnerGroup `json:"group"`
	Rules []MatchRule `json:"rules"`
}

// Classification partitions the configured groups against the remote group
// snapshot. Every configured group name lands in exactly one of Supported,
// Unsupported, or Missing.
type Classification struct {
	Supported   []SupportedGroup `json:"supported,omitempty"`
	Unsupported []string         `json:"unsupported,omitempty"`
	Missing     []GroupSpec      `json:"missing,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// Classify matches configured groups against the remote snapshot by exact,
// case-sensitive name; the first remote group wins if the snapshot somehow
// carries duplicates. Configured groups without a remote counterpart are
// Missing. A remote group whose visibility is not "selected" still gets its
// repository list synced, with a warning collected into Warnings; the
// Unsupported partition stays empty today but downstream code honors it, so
// a stricter visibility policy only has to change this function.
func Classify(specs []GroupSpec, remoteGroups []RunnerGroup) *Classification {
	result := &Classification{}

	for _, spec := range specs {
		remote, found := findGroup(remoteGroups, spec.Name)
		if !found {
			result.Missing = append(result.Missing, spec)
			continue
		}

		if remote.Visibility != VisibilitySelected {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"runner group %q has visibility %q, expected %q; syncing its repository list anyway",
				spec.Name, remote.Visibility, VisibilitySelected))
		}
		result.Supported = append(result.Supported, SupportedGroup{Group: remote, Rules: spec.Rules})
	}

	return result
}

// findGroup returns the first remote group with the given name
func findGroup(groups []RunnerGroup, name string) (RunnerGroup, bool) {
	for _, group := range groups {
		if group.Name == name {
			return group, true
		}
	}
	return RunnerGroup{}, false
}
