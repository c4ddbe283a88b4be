package value

import (
	"strconv"
)

// Lookup resolves path through nested containers starting at m.
// Map segments are keys, list segments are decimal indexes. The second
// result is false when any segment is missing or an intermediate value is
// not a container. An empty path never resolves.
func (m Map) Lookup(path ...string) (Value, bool) {
	if len(path) == 0 || m == nil {
		return Value{}, false
	}

	cur, ok := m[path[0]]
	if !ok {
		return Value{}, false
	}

	for _, seg := range path[1:] {
		cur, ok = cur.child(seg)
		if !ok {
			return Value{}, false
		}
	}

	return cur, true
}

// Lookup resolves path relative to v. An empty path resolves to v itself.
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, seg := range path {
		var ok bool
		if cur, ok = cur.child(seg); !ok {
			return Value{}, false
		}
	}
	return cur, true
}

func (v Value) child(seg string) (Value, bool) {
	switch v.kind {
	case KindMap:
		c, ok := v.m[seg]
		return c, ok
	case KindList:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(v.list) {
			return Value{}, false
		}
		return v.list[i], true
	default:
		return Value{}, false
	}
}

// Insert stores item at path, creating intermediate maps as needed.
// An empty segment appends to a list at that position, so the path
// ["tags", ""] behaves like the query key "tags[]". A scalar found where a
// container is needed is replaced. A list that receives a named segment is
// converted into a map keyed by its indexes.
func (m Map) Insert(path []string, item Value) {
	if len(path) == 0 || m == nil {
		return
	}
	if len(path) == 1 {
		m[path[0]] = item
		return
	}
	m[path[0]] = insert(m[path[0]], path[1:], item)
}

func insert(node Value, path []string, item Value) Value {
	if len(path) == 0 {
		return item
	}

	seg := path[0]

	if seg == "" {
		switch node.kind {
		case KindList:
			return List(append(node.list, insert(Value{}, path[1:], item))...)
		case KindMap:
			node.m[nextIndex(node.m)] = insert(Value{}, path[1:], item)
			return node
		default:
			return List(insert(Value{}, path[1:], item))
		}
	}

	switch node.kind {
	case KindMap:
	case KindList:
		m := make(Map, len(node.list)+1)
		for i, c := range node.list {
			m[strconv.Itoa(i)] = c
		}
		node = FromMap(m)
	default:
		node = FromMap(Map{})
	}

	node.m[seg] = insert(node.m[seg], path[1:], item)
	return node
}

// nextIndex returns one past the largest non-negative integer key of m, or
// "0" when m has none.
func nextIndex(m Map) string {
	next := 0
	for k := range m {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 || strconv.Itoa(n) != k {
			continue
		}
		if n >= next {
			next = n + 1
		}
	}
	return strconv.Itoa(next)
}
