// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"fmt"

	"github.com/nathoo/soulrift/engine/state"
	"github.com/nathoo/soulrift/types"
	lua "github.com/yuin/gopher-lua"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// tableToStringSlice converts a Lua array table to a []string.
func tableToStringSlice(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compileEffect converts an effect table, or nil if absent.
func compileEffect(tbl *lua.LTable) *types.Effect {
	if tbl == nil {
		return nil
	}
	return &types.Effect{
		Type:   getString(tbl, "type"),
		Value:  getInt(tbl, "value"),
		Target: getString(tbl, "target"),
	}
}

// compileCosts converts an array of cost tables.
func compileCosts(tbl *lua.LTable) []types.Cost {
	if tbl == nil {
		return nil
	}
	var costs []types.Cost
	for i := 1; i <= tbl.MaxN(); i++ {
		if c, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			costs = append(costs, types.Cost{
				Type:  getString(c, "type"),
				Value: getInt(c, "value"),
			})
		}
	}
	return costs
}

// compileSpecials converts an array of Special tables.
func compileSpecials(tbl *lua.LTable) []types.SpecialDef {
	if tbl == nil {
		return nil
	}
	var specials []types.SpecialDef
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			sp := types.SpecialDef{
				Name:        getString(s, "name"),
				Description: getString(s, "description"),
			}
			if eff := compileEffect(getTable(s, "effect")); eff != nil {
				sp.Effect = *eff
			}
			specials = append(specials, sp)
		}
	}
	return specials
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Rooms:     map[string]types.RoomDef{},
		Items:     map[string]types.ItemDef{},
		Enemies:   map[string]types.EnemyDef{},
		Abilities: map[string]types.AbilityDef{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game block defined")
	}
	defs.Game = types.GameDef{
		Title:   getString(coll.game, "title"),
		Author:  getString(coll.game, "author"),
		Version: getString(coll.game, "version"),
		Start:   getString(coll.game, "start"),
		Respawn: getString(coll.game, "respawn"),
		Store:   getString(coll.game, "store"),
		Intro:   getString(coll.game, "intro"),
	}

	for _, r := range coll.rooms {
		if _, exists := defs.Rooms[r.id]; exists {
			return nil, fmt.Errorf("duplicate room %q", r.id)
		}
		defs.Rooms[r.id] = types.RoomDef{
			Name:        r.id,
			Description: getString(r.table, "description"),
			Special:     getBool(r.table, "special", false),
			Exits:       tableToStringMap(getTable(r.table, "exits")),
			Items:       tableToStringSlice(getTable(r.table, "items")),
			Enemies:     tableToStringSlice(getTable(r.table, "enemies")),
		}
	}

	for _, it := range coll.items {
		if _, exists := defs.Items[it.id]; exists {
			return nil, fmt.Errorf("duplicate item %q", it.id)
		}
		defs.Items[it.id] = types.ItemDef{
			Name:         it.id,
			Description:  getString(it.table, "description"),
			Price:        getInt(it.table, "price"),
			Rarity:       getNumber(it.table, "rarity"),
			Unique:       getBool(it.table, "unique", false),
			InteractOnly: getBool(it.table, "interact_only", false),
			Interact:     getString(it.table, "interact"),
			Use:          getString(it.table, "use"),
			Type:         getString(it.table, "type"),
			Effect:       compileEffect(getTable(it.table, "effect")),
			Cost:         compileCosts(getTable(it.table, "cost")),
		}
	}

	for _, en := range coll.enemies {
		if _, exists := defs.Enemies[en.id]; exists {
			return nil, fmt.Errorf("duplicate enemy %q", en.id)
		}
		defs.Enemies[en.id] = types.EnemyDef{
			Name:       en.id,
			Health:     getInt(en.table, "health"),
			Level:      getInt(en.table, "level"),
			Damage:     getInt(en.table, "damage"),
			Experience: getInt(en.table, "experience"),
			Souls:      getInt(en.table, "souls"),
			Spawn:      getNumber(en.table, "spawn"),
			Criticals:  getBool(en.table, "criticals", false),
			Specials:   compileSpecials(getTable(en.table, "specials")),
		}
	}

	for _, ab := range coll.abilities {
		if _, exists := defs.Abilities[ab.id]; exists {
			return nil, fmt.Errorf("duplicate ability %q", ab.id)
		}
		def := types.AbilityDef{
			Name:        ab.id,
			Description: getString(ab.table, "description"),
			Use:         getString(ab.table, "use"),
			Cost:        compileCosts(getTable(ab.table, "cost")),
		}
		if eff := compileEffect(getTable(ab.table, "effect")); eff != nil {
			def.Effect = *eff
		}
		defs.Abilities[ab.id] = def
	}

	return defs, nil
}
