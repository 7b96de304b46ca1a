// debugconditions.go - breakpoint condition parsing and evaluation for
// the debug stub (spec.md §6).
//
// Grounded on the teacher's debug_conditions.go ParseCondition/
// evaluateCondition (operator scan over ==/!=/<=/>=/</>, register vs.
// memory vs. hit-count sources, register names upper-cased). Extended
// past that simple "lhs OP rhs" grammar with an optional gopher-lua
// expression engine (SPEC_FULL.md DOMAIN STACK) for conditions the
// single-comparison grammar cannot express, such as "d0+d1>$1000".

package sc68core

import (
	"fmt"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// ConditionOp is the comparison operator in a simple breakpoint
// condition.
type ConditionOp int

const (
	CondOpEqual ConditionOp = iota
	CondOpNotEqual
	CondOpLess
	CondOpGreater
	CondOpLessEqual
	CondOpGreaterEqual
)

// ConditionSource is what a simple breakpoint condition compares.
type ConditionSource int

const (
	CondSourceRegister ConditionSource = iota
	CondSourceMemory
	CondSourceHitCount
)

// BreakpointCondition is a single "lhs OP value" breakpoint condition,
// evaluated without invoking the Lua engine.
type BreakpointCondition struct {
	Source  ConditionSource
	RegName string // "D0".."D7", "A0".."A7", "PC", "SR"
	MemAddr uint32
	Op      ConditionOp
	Value   uint32
}

// parseAddrLiteral accepts "$hex", "0xhex", or bare decimal, matching
// the teacher's ParseAddress.
func parseAddrLiteral(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.HasPrefix(s, "$") {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		return uint32(v), err == nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		return uint32(v), err == nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err == nil
}

// ParseCondition parses one of:
//
//	d0==$ff        - register D0, op ==, value 0xff
//	[$1000]==$42   - memory at 0x1000, op ==, value 0x42
//	hitcount>10    - hit count, op >, value 10
func ParseCondition(text string) (*BreakpointCondition, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty condition")
	}

	var op ConditionOp
	opStr, opIdx := "", -1
	for _, candidate := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if idx := strings.Index(text, candidate); idx >= 0 {
			opStr, opIdx = candidate, idx
			break
		}
	}
	if opStr == "" {
		return nil, fmt.Errorf("no operator found (use ==, !=, <, >, <=, >=)")
	}
	switch opStr {
	case "==":
		op = CondOpEqual
	case "!=":
		op = CondOpNotEqual
	case "<":
		op = CondOpLess
	case ">":
		op = CondOpGreater
	case "<=":
		op = CondOpLessEqual
	case ">=":
		op = CondOpGreaterEqual
	}

	lhs := strings.TrimSpace(text[:opIdx])
	rhs := strings.TrimSpace(text[opIdx+len(opStr):])

	value, ok := parseAddrLiteral(rhs)
	if !ok {
		return nil, fmt.Errorf("invalid value: %s", rhs)
	}

	if strings.HasPrefix(lhs, "[") && strings.HasSuffix(lhs, "]") {
		addr, ok := parseAddrLiteral(lhs[1 : len(lhs)-1])
		if !ok {
			return nil, fmt.Errorf("invalid memory address: %s", lhs)
		}
		return &BreakpointCondition{Source: CondSourceMemory, MemAddr: addr, Op: op, Value: value}, nil
	}

	if strings.EqualFold(lhs, "hitcount") {
		return &BreakpointCondition{Source: CondSourceHitCount, Op: op, Value: value}, nil
	}

	return &BreakpointCondition{Source: CondSourceRegister, RegName: strings.ToUpper(lhs), Op: op, Value: value}, nil
}

func compareValues(actual uint32, op ConditionOp, want uint32) bool {
	switch op {
	case CondOpEqual:
		return actual == want
	case CondOpNotEqual:
		return actual != want
	case CondOpLess:
		return actual < want
	case CondOpGreater:
		return actual > want
	case CondOpLessEqual:
		return actual <= want
	case CondOpGreaterEqual:
		return actual >= want
	default:
		return false
	}
}

func registerValue(cpu *CPUState, name string) (uint32, bool) {
	switch {
	case len(name) == 2 && name[0] == 'D' && name[1] >= '0' && name[1] <= '7':
		return cpu.D[name[1]-'0'], true
	case len(name) == 2 && name[0] == 'A' && name[1] >= '0' && name[1] <= '7':
		return cpu.A[name[1]-'0'], true
	case name == "PC":
		return cpu.PC, true
	case name == "SR":
		return uint32(cpu.SR), true
	default:
		return 0, false
	}
}

// Evaluate checks cond against cpu/bus. hitCount is the breakpoint's
// current hit count, supplied by the caller since BreakpointCondition
// itself carries no mutable state (mirrors the teacher's
// evaluateConditionWithHitCount split).
func (cond *BreakpointCondition) Evaluate(cpu *CPUState, bus *MemoryBus, hitCount uint64) bool {
	if cond == nil {
		return true
	}
	var actual uint32
	switch cond.Source {
	case CondSourceRegister:
		v, ok := registerValue(cpu, cond.RegName)
		if !ok {
			return false
		}
		actual = v
	case CondSourceMemory:
		actual = uint32(bus.ReadB(cond.MemAddr))
	case CondSourceHitCount:
		actual = uint32(hitCount)
	}
	return compareValues(actual, cond.Op, cond.Value)
}

// LuaCondition is a breakpoint condition expressed as a Lua boolean
// expression, for conditions the single-comparison grammar above cannot
// express (multi-register arithmetic, bitmasks, etc). "$" hex literals
// are rewritten to Lua's "0x" form before compiling.
type LuaCondition struct {
	script string
	state  *lua.LState
}

// NewLuaCondition wraps expr (e.g. "d0+d1 > $1000") as a Lua
// "return (...)" chunk; Evaluate compiles and runs that chunk on every
// call. The returned LuaCondition owns a Lua VM instance; call Close when
// the breakpoint is removed.
func NewLuaCondition(expr string) *LuaCondition {
	return &LuaCondition{
		script: "return (" + rewriteHexLiterals(expr) + ")",
		state:  lua.NewState(),
	}
}

// rewriteHexLiterals turns "$1000"-style tokens into Lua's "0x1000"
// hex-literal syntax; every other character passes through untouched.
func rewriteHexLiterals(expr string) string {
	var b strings.Builder
	for i := 0; i < len(expr); i++ {
		if expr[i] == '$' {
			b.WriteString("0x")
			continue
		}
		b.WriteByte(expr[i])
	}
	return b.String()
}

// Close releases the underlying Lua VM.
func (lc *LuaCondition) Close() {
	lc.state.Close()
}

// Evaluate binds D0-D7/A0-A7/PC/SR as Lua globals, then compiles and runs
// the expression, returning its truthiness.
func (lc *LuaCondition) Evaluate(cpu *CPUState) (bool, error) {
	L := lc.state
	top := L.GetTop()
	defer L.SetTop(top)

	for i, v := range cpu.D {
		L.SetGlobal(fmt.Sprintf("d%d", i), lua.LNumber(v))
	}
	for i, v := range cpu.A {
		L.SetGlobal(fmt.Sprintf("a%d", i), lua.LNumber(v))
	}
	L.SetGlobal("pc", lua.LNumber(cpu.PC))
	L.SetGlobal("sr", lua.LNumber(cpu.SR))

	if err := L.DoString(lc.script); err != nil {
		return false, fmt.Errorf("debugconditions: lua eval: %w", err)
	}
	ret := L.Get(-1)
	return lua.LVAsBool(ret), nil
}
