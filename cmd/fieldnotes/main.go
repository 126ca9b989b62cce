package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"fieldnotes/internal/cli"
)

// directLookups maps id prefixes to the command that shows that entity.
var directLookups = []struct {
	prefix  string
	command []string
}{
	{"page-", []string{"pages", "show"}},
	{"proj-", []string{"projects", "show"}},
	{"doc-", []string{"documents", "show"}},
	{"cit-", []string{"citations", "show"}},
}

func lookupCommand(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	for _, l := range directLookups {
		// Keep it permissive; users may paste ids by hand.
		if strings.HasPrefix(s, l.prefix) && len(s) > len(l.prefix) {
			return l.command, true
		}
	}
	return nil, false
}

func rewriteDirectLookupArgs(argv []string) []string {
	// Convenience: `fieldnotes <page-id>` works like `fieldnotes pages show <page-id>`, and
	// likewise for project, document and citation ids.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (`fieldnotes --dir ... <id>`), so we look for the first
	// positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value, so an id is never swallowed.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--format":    true,
		"--log-level": true,
		"--config":    true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insert := func(i int, command []string) []string {
		out := make([]string, 0, len(argv)+len(command))
		out = append(out, argv[:i]...)
		out = append(out, command...)
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				if command, ok := lookupCommand(argv[i+1]); ok {
					return insert(i+1, command)
				}
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if command, ok := lookupCommand(a); ok {
			return insert(i, command)
		}
		return argv
	}

	return argv
}

func main() {
	// A .env file is optional.
	_ = godotenv.Load()

	os.Args = rewriteDirectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
