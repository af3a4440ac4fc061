package tables

import (
	"fmt"
	"sort"

	"github.com/kumiko-lang/kumiko/automaton"
)

type ActionType int

const (
	ActionShift ActionType = iota
	ActionReduce
	ActionAccept
)

func (t ActionType) String() string {
	switch t {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	}
	return "unknown"
}

// Action is one ACTION table entry. State is the successor for a shift;
// Production is the production number for a reduce.
type Action struct {
	Type       ActionType `json:"type"`
	State      int        `json:"state"`
	Production int        `json:"production"`
}

func (a Action) String() string {
	switch a.Type {
	case ActionShift:
		return fmt.Sprintf("shift %d", a.State)
	case ActionReduce:
		return fmt.Sprintf("reduce %d", a.Production)
	}
	return a.Type.String()
}

type ConflictKind int

const (
	ConflictShiftReduce ConflictKind = iota
	ConflictReduceReduce
)

func (k ConflictKind) String() string {
	if k == ConflictShiftReduce {
		return "shift/reduce"
	}
	return "reduce/reduce"
}

// Conflict is one ACTION cell holding more than one entry.
type Conflict struct {
	State   int
	Symbol  string
	Kind    ConflictKind
	Actions []Action
}

func (c Conflict) String() string {
	return fmt.Sprintf("%v conflict in state %d on %q: %v", c.Kind, c.State, c.Symbol, c.Actions)
}

// ParsingTable is the ACTION/GOTO pair for one collection. A cell with
// several actions is a conflict; all of them stay in the table.
type ParsingTable struct {
	Mode       automaton.Mode
	StartState int
	Actions    map[int]map[string][]Action
	Gotos      map[int]map[string]int
	Conflicts  []Conflict
}

// Build fills the ACTION and GOTO tables from the collection's states.
// Shifts come from terminal transitions, gotos from non-terminal
// transitions, and reduces from final items' lookahead sets; in a
// lookahead-free collection a final item reduces on every terminal and on
// the end marker. The augmented production's final item accepts on the end
// marker instead of reducing.
func Build(c *automaton.CanonicalCollection) *ParsingTable {
	g := c.Grammar()
	t := &ParsingTable{
		Mode:       c.Mode(),
		StartState: c.StartState().Number(),
		Actions:    map[int]map[string][]Action{},
		Gotos:      map[int]map[string]int{},
	}
	for _, s := range c.States() {
		row := map[string][]Action{}
		for sym, succ := range s.Transitions() {
			if g.IsNonTerminal(sym) {
				if t.Gotos[s.Number()] == nil {
					t.Gotos[s.Number()] = map[string]int{}
				}
				t.Gotos[s.Number()][sym] = succ.Number()
				continue
			}
			row[sym] = append(row[sym], Action{Type: ActionShift, State: succ.Number()})
		}
		for _, item := range s.Items() {
			if !item.IsFinal() {
				continue
			}
			if item.Production().IsAugmented() {
				row[g.EndMarker()] = append(row[g.EndMarker()], Action{Type: ActionAccept})
				continue
			}
			reduce := Action{Type: ActionReduce, Production: item.Production().Number()}
			on := item.LookaheadSet().Symbols()
			if len(on) == 0 {
				on = append(g.Terminals(), g.EndMarker())
			}
			for _, sym := range on {
				row[sym] = append(row[sym], reduce)
			}
		}
		if len(row) > 0 {
			t.Actions[s.Number()] = row
		}
	}
	t.collectConflicts()
	tracer().Infof("%s table: %d states, %d conflicts", t.Mode, c.Size(), len(t.Conflicts))
	return t
}

// collectConflicts walks the ACTION table in state and symbol order so the
// conflict list is deterministic.
func (t *ParsingTable) collectConflicts() {
	var states []int
	for num := range t.Actions {
		states = append(states, num)
	}
	sort.Ints(states)
	for _, num := range states {
		row := t.Actions[num]
		var syms []string
		for sym := range row {
			syms = append(syms, sym)
		}
		sort.Strings(syms)
		for _, sym := range syms {
			actions := row[sym]
			if len(actions) < 2 {
				continue
			}
			kind := ConflictReduceReduce
			for _, a := range actions {
				if a.Type == ActionShift {
					kind = ConflictShiftReduce
				}
			}
			t.Conflicts = append(t.Conflicts, Conflict{
				State:   num,
				Symbol:  sym,
				Kind:    kind,
				Actions: actions,
			})
		}
	}
}

// Action returns the ACTION entries for a state and terminal.
func (t *ParsingTable) Action(state int, sym string) []Action {
	return t.Actions[state][sym]
}

// Goto looks up the GOTO entry for a state and non-terminal.
func (t *ParsingTable) Goto(state int, sym string) (int, bool) {
	next, ok := t.Gotos[state][sym]
	return next, ok
}

func (t *ParsingTable) HasConflicts() bool {
	return len(t.Conflicts) > 0
}
