package pathquery

import (
	"strconv"
	"strings"
	"sync"

	"github.com/inkwell-ai/inkwell/errors"
)

// Filter expressions are boolean expressions evaluated once per candidate
// item, with an explicit allow-list of bound names. There is no host eval:
// expressions compile to a small AST walked against the scope.
//
// Grammar (precedence low to high):
//
//	expr       = or
//	or         = and { "or" and }
//	and        = unary { "and" unary }
//	unary      = "not" unary | comparison
//	comparison = operand [ ("==" | "!=" | "<" | "<=" | ">" | ">=" | "in" | "not" "in") operand ]
//	operand    = "-" operand | literal | name | "(" expr ")"
//	literal    = string | number | "true" | "false" | "none"
//
// Referencing a name not bound in the scope is an evaluation error; the
// caller excludes that candidate without aborting the query.

type exprNode interface {
	eval(scope map[string]interface{}) (interface{}, error)
}

type litNode struct{ val interface{} }

func (n litNode) eval(map[string]interface{}) (interface{}, error) { return n.val, nil }

type nameNode struct{ name string }

func (n nameNode) eval(scope map[string]interface{}) (interface{}, error) {
	v, ok := scope[n.name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrPathQuery, "name %q is not defined on this item", n.name)
	}
	return v, nil
}

type notNode struct{ operand exprNode }

func (n notNode) eval(scope map[string]interface{}) (interface{}, error) {
	v, err := n.operand.eval(scope)
	if err != nil {
		return nil, err
	}
	return !truthy(v), nil
}

type negNode struct{ operand exprNode }

func (n negNode) eval(scope map[string]interface{}) (interface{}, error) {
	v, err := n.operand.eval(scope)
	if err != nil {
		return nil, err
	}
	f, ok := asNumber(v)
	if !ok {
		return nil, errors.Wrap(errors.ErrPathQuery, "unary minus on non-number")
	}
	return -f, nil
}

type boolNode struct {
	op       string // "and" | "or"
	operands []exprNode
}

func (n boolNode) eval(scope map[string]interface{}) (interface{}, error) {
	for _, operand := range n.operands {
		v, err := operand.eval(scope)
		if err != nil {
			return nil, err
		}
		t := truthy(v)
		if n.op == "and" && !t {
			return false, nil
		}
		if n.op == "or" && t {
			return true, nil
		}
	}
	return n.op == "and", nil
}

type cmpNode struct {
	op          string
	left, right exprNode
}

func (n cmpNode) eval(scope map[string]interface{}) (interface{}, error) {
	l, err := n.left.eval(scope)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(scope)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "==":
		return valuesEqual(l, r), nil
	case "!=":
		return !valuesEqual(l, r), nil
	case "in":
		return contains(r, l)
	case "not in":
		ok, err := contains(r, l)
		if err != nil {
			return nil, err
		}
		return !ok, nil
	}
	// ordering comparisons
	if lf, ok := asNumber(l); ok {
		rf, ok := asNumber(r)
		if !ok {
			return nil, errors.Wrapf(errors.ErrPathQuery, "cannot compare number with %T", r)
		}
		switch n.op {
		case "<":
			return lf < rf, nil
		case "<=":
			return lf <= rf, nil
		case ">":
			return lf > rf, nil
		case ">=":
			return lf >= rf, nil
		}
	}
	ls, lok := l.(string)
	rs, rok := r.(string)
	if lok && rok {
		switch n.op {
		case "<":
			return ls < rs, nil
		case "<=":
			return ls <= rs, nil
		case ">":
			return ls > rs, nil
		case ">=":
			return ls >= rs, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrPathQuery, "cannot order %T and %T", l, r)
}

// valuesEqual compares scalars with numeric coercion, so `_key == 0` holds
// whether the key arrived as an int index or a float from decoded JSON.
func valuesEqual(l, r interface{}) bool {
	if lf, ok := asNumber(l); ok {
		if rf, ok := asNumber(r); ok {
			return lf == rf
		}
		return false
	}
	return l == r
}

// contains implements the membership operator: substring for strings,
// element equality for sequences, key presence for maps.
func contains(container, item interface{}) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return false, errors.Wrap(errors.ErrPathQuery, "membership in a string requires a string operand")
		}
		return strings.Contains(c, s), nil
	case []interface{}:
		for _, e := range c {
			if valuesEqual(e, item) {
				return true, nil
			}
		}
		return false, nil
	case map[string]interface{}:
		s, ok := item.(string)
		if !ok {
			return false, nil
		}
		_, present := c[s]
		return present, nil
	}
	return false, errors.Wrapf(errors.ErrPathQuery, "%T is not a container", container)
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	default:
		if f, ok := asNumber(v); ok {
			return f != 0
		}
		return true
	}
}

func asNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// ---- lexer ----

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokName
	tokString
	tokNumber
	tokOp     // == != < <= > >=
	tokLParen // (
	tokRParen // )
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			for j < len(src) && src[j] != quote {
				j++
			}
			if j >= len(src) {
				return nil, errors.Wrapf(errors.ErrPathQuery, "unterminated string in expression %q", src)
			}
			toks = append(toks, token{kind: tokString, text: src[i+1 : j]})
			i = j + 1
		case c == '=' || c == '!' || c == '<' || c == '>':
			op := string(c)
			if i+1 < len(src) && src[i+1] == '=' {
				op += "="
				i++
			}
			i++
			if op == "=" || op == "!" {
				return nil, errors.Wrapf(errors.ErrPathQuery, "invalid operator %q", op)
			}
			toks = append(toks, token{kind: tokOp, text: op})
		case c == '-':
			toks = append(toks, token{kind: tokOp, text: "-"})
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(src) && (src[j] >= '0' && src[j] <= '9' || src[j] == '.') {
				j++
			}
			f, err := strconv.ParseFloat(src[i:j], 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrPathQuery, "invalid number %q", src[i:j])
			}
			toks = append(toks, token{kind: tokNumber, num: f})
			i = j
		case isNameByte(c):
			j := i
			for j < len(src) && isNameByte(src[j]) {
				j++
			}
			toks = append(toks, token{kind: tokName, text: src[i:j]})
			i = j
		default:
			return nil, errors.Wrapf(errors.ErrPathQuery, "unexpected character %q in expression %q", c, src)
		}
	}
	return append(toks, token{kind: tokEOF}), nil
}

func isNameByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// ---- parser ----

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }
func (p *parser) next() token { t := p.toks[p.pos]; p.pos++; return t }
func (p *parser) atName(s string) bool {
	t := p.peek()
	return t.kind == tokName && t.text == s
}

func (p *parser) parseExpr() (exprNode, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (exprNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	operands := []exprNode{left}
	for p.atName("or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
	}
	if len(operands) == 1 {
		return left, nil
	}
	return boolNode{op: "or", operands: operands}, nil
}

func (p *parser) parseAnd() (exprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	operands := []exprNode{left}
	for p.atName("and") {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
	}
	if len(operands) == 1 {
		return left, nil
	}
	return boolNode{op: "and", operands: operands}, nil
}

func (p *parser) parseUnary() (exprNode, error) {
	if p.atName("not") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (exprNode, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind == tokOp && t.text != "-" {
		p.next()
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return cmpNode{op: t.text, left: left, right: right}, nil
	}
	if p.atName("in") {
		p.next()
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return cmpNode{op: "in", left: left, right: right}, nil
	}
	if p.atName("not") {
		// "x not in y"
		p.next()
		if !p.atName("in") {
			return nil, errors.Wrap(errors.ErrPathQuery, "expected 'in' after 'not'")
		}
		p.next()
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return cmpNode{op: "not in", left: left, right: right}, nil
	}
	return left, nil
}

func (p *parser) parseOperand() (exprNode, error) {
	t := p.next()
	switch t.kind {
	case tokOp:
		if t.text == "-" {
			operand, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			return negNode{operand: operand}, nil
		}
	case tokString:
		return litNode{val: t.text}, nil
	case tokNumber:
		return litNode{val: t.num}, nil
	case tokName:
		switch t.text {
		case "true", "True":
			return litNode{val: true}, nil
		case "false", "False":
			return litNode{val: false}, nil
		case "none", "None", "null":
			return litNode{val: nil}, nil
		}
		return nameNode{name: t.text}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, errors.Wrap(errors.ErrPathQuery, "missing closing parenthesis")
		}
		return inner, nil
	}
	return nil, errors.Wrapf(errors.ErrPathQuery, "unexpected token in expression")
}

// compileExpr parses an expression source into an AST.
func compileExpr(src string) (exprNode, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, errors.Wrapf(errors.ErrPathQuery, "trailing input in expression %q", src)
	}
	return node, nil
}

// exprCache caches compiled expressions per unique source string.
type exprCache struct {
	mu    sync.Mutex
	cache map[string]compiled
}

type compiled struct {
	node exprNode
	err  error
}

func newExprCache() *exprCache {
	return &exprCache{cache: make(map[string]compiled)}
}

func (c *exprCache) get(src string) (exprNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.cache[src]; ok {
		return cached.node, cached.err
	}
	node, err := compileExpr(src)
	c.cache[src] = compiled{node: node, err: err}
	return node, err
}
