package symbolic

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Node is the JSON form of an expression:
//
//	{"type": "num", "value": "3/2"}
//	{"type": "sym", "name": "x"}
//	{"type": "add", "terms": [...]}
//	{"type": "mul", "factors": [...]}
//	{"type": "pow", "base": {...}, "exp": {...}}
//	{"type": "func", "name": "sin", "arg": {...}}
type Node struct {
	Type    string `json:"type"`
	Value   string `json:"value,omitempty"`
	Name    string `json:"name,omitempty"`
	Terms   []Node `json:"terms,omitempty"`
	Factors []Node `json:"factors,omitempty"`
	Base    *Node  `json:"base,omitempty"`
	Exp     *Node  `json:"exp,omitempty"`
	Arg     *Node  `json:"arg,omitempty"`
}

// Encode returns the JSON form of e.
func Encode(e Expr) Node {
	switch n := e.(type) {
	case *Num:
		return Node{Type: "num", Value: n.String()}
	case *Sym:
		return Node{Type: "sym", Name: n.name}
	case *Add:
		return Node{Type: "add", Terms: encodeAll(n.terms)}
	case *Mul:
		return Node{Type: "mul", Factors: encodeAll(n.factors)}
	case *Pow:
		base, exp := Encode(n.base), Encode(n.exp)
		return Node{Type: "pow", Base: &base, Exp: &exp}
	case *Func:
		arg := Encode(n.arg)
		return Node{Type: "func", Name: n.name, Arg: &arg}
	}
	panic(fmt.Sprintf("symbolic: cannot encode %T", e))
}

func encodeAll(es []Expr) []Node {
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = Encode(e)
	}
	return out
}

// Expr rebuilds the expression. The result is canonical, so a hand-written
// tree such as add(x, x) comes back as 2*x.
func (n Node) Expr() (Expr, error) {
	switch n.Type {
	case "num":
		if n.Value == "" {
			return nil, fmt.Errorf("num: value is required")
		}
		r, ok := new(big.Rat).SetString(n.Value)
		if !ok {
			return nil, fmt.Errorf("num: invalid value %q", n.Value)
		}
		return nRat(r), nil
	case "sym":
		if n.Name == "" {
			return nil, fmt.Errorf("sym: name is required")
		}
		return S(n.Name), nil
	case "add":
		terms, err := decodeAll(n.Type, "terms", n.Terms)
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil
	case "mul":
		factors, err := decodeAll(n.Type, "factors", n.Factors)
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil
	case "pow":
		base, err := decodeChild(n.Type, "base", n.Base)
		if err != nil {
			return nil, err
		}
		exp, err := decodeChild(n.Type, "exp", n.Exp)
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	case "func":
		if n.Name == "" {
			return nil, fmt.Errorf("func: name is required")
		}
		arg, err := decodeChild(n.Type, "arg", n.Arg)
		if err != nil {
			return nil, err
		}
		f, err := FuncOf(n.Name, arg)
		if err != nil {
			return nil, fmt.Errorf("func: %w", err)
		}
		return f, nil
	case "":
		return nil, fmt.Errorf("node type is required")
	}
	return nil, fmt.Errorf("unknown node type %q", n.Type)
}

func decodeChild(typ, field string, child *Node) (Expr, error) {
	if child == nil {
		return nil, fmt.Errorf("%s: %s is required", typ, field)
	}
	e, err := child.Expr()
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", typ, field, err)
	}
	return e, nil
}

func decodeAll(typ, field string, nodes []Node) ([]Expr, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: %s are required", typ, field)
	}
	out := make([]Expr, len(nodes))
	for i, child := range nodes {
		e, err := child.Expr()
		if err != nil {
			return nil, fmt.Errorf("%s.%s[%d]: %w", typ, field, i, err)
		}
		out[i] = e
	}
	return out, nil
}

// Decode reads an expression from generic JSON data, such as a
// map[string]interface{} taken from a decoded request.
func Decode(v interface{}) (Expr, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var n Node
	if err := json.Unmarshal(b, &n); err != nil {
		return nil, fmt.Errorf("expression tree: %w", err)
	}
	return n.Expr()
}
