package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Room "id" { ... } — curried: Room("id") returns a function taking a table.
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rooms = append(coll.rooms, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Item "id" { ... } — curried.
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.items = append(coll.items, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Enemy "id" { ... } — curried.
	L.SetGlobal("Enemy", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.enemies = append(coll.enemies, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Ability "id" { ... } — curried.
	L.SetGlobal("Ability", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.abilities = append(coll.abilities, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Special { name = "...", description = "...", effect = Damage(5) }
	// Pass-through, returns the table.
	L.SetGlobal("Special", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		L.Push(tbl)
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Heal(n), Damage(n), Experience(n), Stun(n), Level(n): numeric effect tables.
	numeric := func(effectType string) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			value := L.CheckNumber(1)
			tbl := L.NewTable()
			tbl.RawSetString("type", lua.LString(effectType))
			tbl.RawSetString("value", value)
			L.Push(tbl)
			return 1
		})
	}
	L.SetGlobal("Heal", numeric("heal"))
	L.SetGlobal("Damage", numeric("damage"))
	L.SetGlobal("Experience", numeric("experience"))
	L.SetGlobal("Stun", numeric("stun"))
	L.SetGlobal("Level", numeric("level"))

	// MoveTo("room")
	L.SetGlobal("MoveTo", L.NewFunction(func(L *lua.LState) int {
		room := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("move"))
		tbl.RawSetString("target", lua.LString(room))
		L.Push(tbl)
		return 1
	}))

	// Cost("essence"|"souls", n)
	L.SetGlobal("Cost", L.NewFunction(func(L *lua.LState) int {
		costType := L.CheckString(1)
		value := L.CheckNumber(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(costType))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))
}
