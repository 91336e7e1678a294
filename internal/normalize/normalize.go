// Package normalize rewrites fetched schema files so that protoc and the
// target language runtime accept them, without parsing the schema grammar.
package normalize

import "strings"

const (
	// ClientSuffix marks schema files written for the Steam client’s own
	// toolchain. The local copies use the plain Extension instead.
	ClientSuffix = ".steamclient.proto"
	Extension    = ".proto"

	// SyntaxLine is prepended to every normalized file.
	SyntaxLine = "syntax = \"proto2\";\n"

	genericServicesToken = "cc_generic_services"
)

// DefaultExclude lists file name substrings of schema files which must be
// written verbatim: they define generic-service options the rewrite would
// corrupt, or protoc cannot parse them at all.
var DefaultExclude = []string{
	"test_messages.proto",
	"gc.proto",
	"steammessages_webui_friends.proto",
	"steammessages_physicalgoods.proto",
}

// genericServicesOption maps a protoc output language to the generic service
// option its runtime understands.
var genericServicesOption = map[string]string{
	"python": "py_generic_services",
	"java":   "java_generic_services",
	"cpp":    "cc_generic_services",
}

// File is a schema file on its way from the network to the disk.
type File struct {
	Name    string
	Content string
}

// Rule is one rewrite step. Rewrite is only called if Applies returns true.
type Rule struct {
	Desc    string
	Applies func(File) bool
	Rewrite func(File) File
}

func nameContains(s string) func(File) bool {
	return func(f File) bool { return strings.Contains(f.Name, s) }
}

func contentContains(s string) func(File) bool {
	return func(f File) bool { return strings.Contains(f.Content, s) }
}

func always(File) bool { return true }

// DefaultRules returns the rewrite table for the given protoc output
// language (e.g. “python”). The order matters: the syntax line goes last so
// that it is never subject to a content rewrite.
func DefaultRules(target string) []Rule {
	rules := []Rule{
		{
			Desc:    "rename " + ClientSuffix + " to " + Extension,
			Applies: nameContains(ClientSuffix),
			Rewrite: func(f File) File {
				f.Name = strings.Replace(f.Name, ClientSuffix, Extension, -1)
				return f
			},
		},
	}
	if opt, ok := genericServicesOption[target]; ok && opt != genericServicesToken {
		rules = append(rules, Rule{
			Desc:    "rewrite " + genericServicesToken + " to " + opt,
			Applies: contentContains(genericServicesToken),
			Rewrite: func(f File) File {
				f.Content = strings.Replace(f.Content, genericServicesToken, opt, -1)
				return f
			},
		})
	}
	rules = append(rules,
		Rule{
			Desc:    "rewrite " + ClientSuffix + " imports",
			Applies: contentContains(ClientSuffix),
			Rewrite: func(f File) File {
				f.Content = strings.Replace(f.Content, ClientSuffix, Extension, -1)
				return f
			},
		},
		Rule{
			Desc:    "prepend syntax declaration",
			Applies: always,
			Rewrite: func(f File) File {
				f.Content = SyntaxLine + f.Content
				return f
			},
		})
	return rules
}

// Normalizer applies Rules to every file whose name does not contain one of
// the Exclude substrings.
type Normalizer struct {
	Exclude []string
	Rules   []Rule
}

// New returns a Normalizer with the default exclusions plus extraExclude and
// the default rules for target.
func New(target string, extraExclude ...string) *Normalizer {
	exclude := make([]string, 0, len(DefaultExclude)+len(extraExclude))
	exclude = append(exclude, DefaultExclude...)
	exclude = append(exclude, extraExclude...)
	return &Normalizer{
		Exclude: exclude,
		Rules:   DefaultRules(target),
	}
}

// Excluded reports whether name (the name derived from the URL, before any
// renaming) matches an exclusion.
func (n *Normalizer) Excluded(name string) bool {
	for _, e := range n.Exclude {
		if strings.Contains(name, e) {
			return true
		}
	}
	return false
}

// Normalize returns the final name and content of f. Excluded files are
// returned unchanged.
func (n *Normalizer) Normalize(f File, excluded bool) File {
	if excluded {
		return f
	}
	for _, r := range n.Rules {
		if r.Applies(f) {
			f = r.Rewrite(f)
		}
	}
	return f
}
