// Package report provides the hierarchical result tree produced each epoch.
//
// A Node is a mapping from string keys to scalars, strings, or child
// Nodes. Every component that participates in an epoch contributes one
// subtree keyed by its own name, and for a fixed experiment
// configuration the set of keys is identical every epoch, so consumers
// address values by a stable path such as
// ["validator", "feedback", "confusion", "accuracy"].
package report

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind identifies what an entry in a Node holds.
type Kind int

const (
	KindScalar Kind = iota
	KindString
	KindNode
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindNode:
		return "node"
	default:
		return "unknown"
	}
}

// entry is one value stored under a key.
type entry struct {
	kind   Kind
	scalar float64
	str    string
	node   *Node
}

// Node is one level of a report tree.
type Node struct {
	entries map[string]entry
}

// New returns an empty Node.
func New() *Node {
	return &Node{entries: make(map[string]entry)}
}

// SetScalar stores a numeric value under key, replacing any prior entry.
func (n *Node) SetScalar(key string, v float64) {
	n.entries[key] = entry{kind: KindScalar, scalar: v}
}

// SetString stores a string value under key, replacing any prior entry.
func (n *Node) SetString(key string, s string) {
	n.entries[key] = entry{kind: KindString, str: s}
}

// SetNode attaches child under key, replacing any prior entry.
func (n *Node) SetNode(key string, child *Node) {
	n.entries[key] = entry{kind: KindNode, node: child}
}

// Len returns the number of entries in this node.
func (n *Node) Len() int {
	return len(n.entries)
}

// Keys returns the keys of this node in sorted order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.entries))
	for k := range n.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KindOf reports the kind of the entry under key.
func (n *Node) KindOf(key string) (Kind, error) {
	e, ok := n.entries[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoSuchKey, key)
	}
	return e.kind, nil
}

// At descends the tree following path and returns the Node it ends at.
// An empty path returns n itself.
func (n *Node) At(path ...string) (*Node, error) {
	cur := n
	for i, key := range path {
		e, ok := cur.entries[key]
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrNoSuchKey, path[:i+1])
		}
		if e.kind != KindNode {
			return nil, fmt.Errorf("%w: %v is a %s, not a node", ErrWrongKind, path[:i+1], e.kind)
		}
		cur = e.node
	}
	return cur, nil
}

// Scalar descends the tree following path and returns the scalar at its
// end. The path must name at least one key.
func (n *Node) Scalar(path ...string) (float64, error) {
	if len(path) == 0 {
		return 0, fmt.Errorf("%w: empty path", ErrNoSuchKey)
	}
	parent, err := n.At(path[:len(path)-1]...)
	if err != nil {
		return 0, err
	}
	key := path[len(path)-1]
	e, ok := parent.entries[key]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrNoSuchKey, path)
	}
	if e.kind != KindScalar {
		return 0, fmt.Errorf("%w: %v is a %s, not a scalar", ErrWrongKind, path, e.kind)
	}
	return e.scalar, nil
}

// String descends the tree following path and returns the string at its
// end.
func (n *Node) String(path ...string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("%w: empty path", ErrNoSuchKey)
	}
	parent, err := n.At(path[:len(path)-1]...)
	if err != nil {
		return "", err
	}
	key := path[len(path)-1]
	e, ok := parent.entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrNoSuchKey, path)
	}
	if e.kind != KindString {
		return "", fmt.Errorf("%w: %v is a %s, not a string", ErrWrongKind, path, e.kind)
	}
	return e.str, nil
}

// Merge copies every entry of other into n. Child nodes present in both
// are merged recursively; leaf entries in other replace entries in n.
func (n *Node) Merge(other *Node) {
	if other == nil {
		return
	}
	for k, e := range other.entries {
		if e.kind == KindNode {
			if prior, ok := n.entries[k]; ok && prior.kind == KindNode {
				prior.node.Merge(e.node)
				continue
			}
		}
		n.entries[k] = e
	}
}

// MarshalJSON encodes the node as a nested JSON object. Scalars encode
// as numbers, strings as strings, children as objects.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(n.entries))
	for k, e := range n.entries {
		switch e.kind {
		case KindScalar:
			out[k] = e.scalar
		case KindString:
			out[k] = e.str
		case KindNode:
			out[k] = e.node
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a nested JSON object produced by MarshalJSON.
// JSON numbers become scalars, JSON strings become strings, and JSON
// objects become child nodes.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.entries = make(map[string]entry, len(raw))
	for k, msg := range raw {
		switch {
		case len(msg) > 0 && msg[0] == '{':
			child := New()
			if err := json.Unmarshal(msg, child); err != nil {
				return err
			}
			n.entries[k] = entry{kind: KindNode, node: child}
		case len(msg) > 0 && msg[0] == '"':
			var s string
			if err := json.Unmarshal(msg, &s); err != nil {
				return err
			}
			n.entries[k] = entry{kind: KindString, str: s}
		default:
			var v float64
			if err := json.Unmarshal(msg, &v); err != nil {
				return err
			}
			n.entries[k] = entry{kind: KindScalar, scalar: v}
		}
	}
	return nil
}
