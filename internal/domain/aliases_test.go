package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "retype.dev/pkg/retype/internal/model"
)

func TestApplyAliases(t *testing.T) {
	table := m.NewSymbolTable()
	hud := table.Ensure("game.gui", "sc.Gui.Hud")
	hud.Fields["visible"] = &m.Field{Type: "boolean"}
	table.Ensure("game.gui", "sc.Gui.Menu")
	table.SetOwner("sc.Menu", "game.menu")

	groups := []m.AliasGroup{
		{Module: "game.gui", Aliases: map[string]string{
			"sc.Hud":     "sc.Gui.Hud",
			"sc.Menu":    "sc.Gui.Menu",
			"sc.Missing": "sc.Gui.Missing",
		}},
		{Module: "game.none", Aliases: map[string]string{"sc.Other": "sc.Gui.Hud"}},
		{Module: "game.gui", NoSetModule: true, Aliases: map[string]string{"sc.Quiet": "sc.Gui.Hud"}},
	}

	applied := ApplyAliases(table, groups)
	assert.Equal(t, 3, applied)

	shared, ok := table.Lookup("game.gui", "sc.Hud")
	require.True(t, ok)
	assert.Same(t, hud, shared)

	owner, ok := table.Owner("sc.Hud")
	require.True(t, ok)
	assert.Equal(t, "game.gui", owner)

	owner, _ = table.Owner("sc.Menu")
	assert.Equal(t, "game.menu", owner, "an existing owner is kept")

	_, ok = table.Owner("sc.Quiet")
	assert.False(t, ok)

	quiet, ok := table.Lookup("game.gui", "sc.Quiet")
	require.True(t, ok)
	assert.Same(t, hud, quiet)

	_, ok = table.Lookup("game.gui", "sc.Missing")
	assert.False(t, ok)
	assert.False(t, table.HasModule("game.none"))
}
