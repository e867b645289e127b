package vlan

// Table is an ordered interface-to-VLAN mapping. Iteration follows
// discovery order; labels are unique.
type Table struct {
	entries []Interface
	index   map[string]int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Set records the state for label. A label seen before keeps its original
// position and takes the new value.
func (t *Table) Set(label string, v Value) {
	if i, ok := t.index[label]; ok {
		t.entries[i].Vlan = v
		return
	}
	t.index[label] = len(t.entries)
	t.entries = append(t.entries, Interface{Label: label, Vlan: v})
}

// Get returns the state for label.
func (t *Table) Get(label string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	i, ok := t.index[label]
	if !ok {
		return Value{}, false
	}
	return t.entries[i].Vlan, true
}

// Len returns the number of interfaces.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Interfaces returns a copy of the entries in discovery order.
func (t *Table) Interfaces() []Interface {
	if t == nil {
		return nil
	}
	out := make([]Interface, len(t.entries))
	copy(out, t.entries)
	return out
}

// Map returns the table as label -> literal token.
func (t *Table) Map() map[string]string {
	m := make(map[string]string, t.Len())
	if t == nil {
		return m
	}
	for _, e := range t.entries {
		m[e.Label] = e.Vlan.Text
	}
	return m
}
