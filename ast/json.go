package ast

import "encoding/json"

// marshalNode renders any Node as the flat `{syntax, line, column, ...}`
// shape spec.md §3 "AST node" and §6 "AST node shape" mandate, instead
// of the nested Go struct shape (`{"Base":{"Pos":{...}}}`) reflection
// would otherwise produce. varset is included once annotate.Run has set
// it; extra carries the kind-specific fields spec.md §3 enumerates.
func marshalNode(n Node, extra map[string]interface{}) ([]byte, error) {
	pos := n.Position()
	m := make(map[string]interface{}, len(extra)+3)
	for k, v := range extra {
		m[k] = v
	}
	m["syntax"] = n.Syntax()
	m["line"] = pos.Line
	m["column"] = pos.Column
	if vs := n.GetVarset(); len(vs) > 0 {
		m["varset"] = vs
	}
	return json.Marshal(m)
}

func (l *Lit) MarshalJSON() ([]byte, error) {
	return marshalNode(l, map[string]interface{}{"value": l.Value})
}

func (v *Var) MarshalJSON() ([]byte, error) {
	extra := map[string]interface{}{"name": v.Name}
	if v.Action != "" {
		extra["action"] = v.Action
	}
	return marshalNode(v, extra)
}

func (r *Regex) MarshalJSON() ([]byte, error) {
	return marshalNode(r, map[string]interface{}{"regex": r.Pattern})
}

func (a *Array) MarshalJSON() ([]byte, error) {
	return marshalNode(a, map[string]interface{}{"elems": a.Elems})
}

func (e *Entry) MarshalJSON() ([]byte, error) {
	return marshalNode(e, map[string]interface{}{"key": e.Key, "value": e.Value})
}

func (d *Dict) MarshalJSON() ([]byte, error) {
	return marshalNode(d, map[string]interface{}{"entries": d.Entries})
}

func (d *DictUp) MarshalJSON() ([]byte, error) {
	return marshalNode(d, map[string]interface{}{"subj": d.Subj, "entries": d.Entries})
}

func (a *Apply) MarshalJSON() ([]byte, error) {
	return marshalNode(a, map[string]interface{}{"func": a.Func, "args": a.Args})
}

func (c *Clause) MarshalJSON() ([]byte, error) {
	return marshalNode(c, map[string]interface{}{"pats": c.Pats, "body": c.Body})
}

func (c *Case) MarshalJSON() ([]byte, error) {
	return marshalNode(c, map[string]interface{}{"subj": c.Subj, "clauses": c.Clauses})
}

func (i *If) MarshalJSON() ([]byte, error) {
	return marshalNode(i, map[string]interface{}{"cond": i.Cond, "then": i.Then, "else": i.Else})
}

func (d *Do) MarshalJSON() ([]byte, error) {
	return marshalNode(d, map[string]interface{}{"seq": d.Seq, "defs": d.Defs})
}

func (a *Assign) MarshalJSON() ([]byte, error) {
	return marshalNode(a, map[string]interface{}{"left": a.Left, "right": a.Right})
}

func (b *Binary) MarshalJSON() ([]byte, error) {
	return marshalNode(b, map[string]interface{}{"left": b.Left, "right": b.Right})
}

func (u *Unary) MarshalJSON() ([]byte, error) {
	return marshalNode(u, map[string]interface{}{"right": u.Right})
}

// MarshalJSON renders a function definition's flat shape: spec.md §3
// "do" node's `defs` maps a name to `{name, arity, clauses}`, gaining
// `env` once annotate.Run has computed the closure environment.
func (f *FuncDef) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"name":    f.Name,
		"arity":   f.Arity,
		"clauses": f.Clauses,
		"line":    f.Pos.Line,
		"column":  f.Pos.Column,
	}
	if len(f.Env) > 0 {
		m["env"] = f.Env
	}
	return json.Marshal(m)
}
