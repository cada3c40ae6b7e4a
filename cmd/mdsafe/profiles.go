package main

import (
	"fmt"
	"strings"

	"github.com/alnah/go-mdsafe/internal/pipeline"
)

// runProfiles lists the symbol profiles, or one profile's mappings.
func runProfiles(args []string, env *Environment) error {
	switch len(args) {
	case 0:
		fmt.Fprintf(env.Stdout, "%-8s %-8s %s\n", "NAME", "VERSION", "SYMBOLS")
		for _, p := range pipeline.Profiles() {
			name := p.Name
			if name == pipeline.DefaultProfile {
				name += "*"
			}
			fmt.Fprintf(env.Stdout, "%-8s %-8s %d\n", name, p.Version, len(p.Mappings))
		}
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "* default profile")
		return nil
	case 1:
		if isCommand(args[0], "-h", "--help") {
			printProfilesUsage(env.Stdout)
			return nil
		}
		p, err := pipeline.ProfileByName(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "# %s %s (%d symbols)\n", p.Name, p.Version, len(p.Mappings))
		for _, m := range p.Mappings {
			fmt.Fprintf(env.Stdout, "%s\t%s\t%s\n", m.Symbol, codePoints(m.Symbol), m.Replacement)
		}
		return nil
	}

	printProfilesUsage(env.Stderr)
	return fmt.Errorf("%w: profiles takes at most one name", ErrUsage)
}

// codePoints formats s as "U+2648" or "U+2699 U+FE0F".
func codePoints(s string) string {
	parts := make([]string, 0, 2)
	for _, r := range s {
		parts = append(parts, fmt.Sprintf("U+%04X", r))
	}
	return strings.Join(parts, " ")
}
