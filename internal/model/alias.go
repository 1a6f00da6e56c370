package model

import "sort"

// AliasGroup registers compiled-program spellings of namespaces whose
// declarations live under a different path in one declaration module.
type AliasGroup struct {
	Module string `yaml:"module"`
	// Aliases maps the compiled-program spelling to the declared path.
	Aliases map[string]string `yaml:"aliases"`
	// NoSetModule leaves classPathToModule untouched for these aliases.
	NoSetModule bool `yaml:"no_set_module"`
}

// Names returns the compiled-program spellings in a stable order.
func (g AliasGroup) Names() []string {
	names := make([]string, 0, len(g.Aliases))
	for name := range g.Aliases {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
