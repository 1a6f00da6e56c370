package domain

import (
	"log/slog"

	m "retype.dev/pkg/retype/internal/model"
)

// ApplyAliases registers the compiled-program spellings of each group as
// shared entries of the declared paths. It returns the number of aliases
// registered.
func ApplyAliases(table *m.SymbolTable, groups []m.AliasGroup) int {
	applied := 0

	for _, group := range groups {
		if !table.HasModule(group.Module) {
			slog.Warn("alias module not in corpus", "module", group.Module)
			continue
		}

		for _, alias := range group.Names() {
			target := group.Aliases[alias]

			if !table.Share(group.Module, alias, target) {
				slog.Debug("alias target not declared", "module", group.Module, "alias", alias, "target", target)
				continue
			}

			applied++

			if group.NoSetModule {
				continue
			}

			if !table.ClaimOwner(alias, group.Module) {
				owner, _ := table.Owner(alias)
				slog.Debug("alias already owned", "alias", alias, "module", group.Module, "owner", owner)
			}
		}
	}

	return applied
}
