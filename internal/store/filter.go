package store

import (
	"fmt"
	"strconv"
	"strings"

	"noblejade/internal/models"
)

// The memory store evaluates the same filter dialect the hosted
// backend accepts: field comparisons (=, !=, >, >=, <, <=, ~) joined
// with && and ||, with parentheses and double- or single-quoted
// string literals. ~ is substring match on strings and membership on
// list fields.

type filterExpr interface {
	eval(r models.Raw) bool
}

type binaryExpr struct {
	op    string // "&&" or "||"
	left  filterExpr
	right filterExpr
}

func (e *binaryExpr) eval(r models.Raw) bool {
	if e.op == "&&" {
		return e.left.eval(r) && e.right.eval(r)
	}
	return e.left.eval(r) || e.right.eval(r)
}

type compareExpr struct {
	field string
	op    string
	value any // string, float64, bool or nil
}

func (e *compareExpr) eval(r models.Raw) bool {
	val, ok := r[e.field]
	if !ok {
		val = nil
	}

	switch e.op {
	case "=":
		return equalValues(val, e.value)
	case "!=":
		return !equalValues(val, e.value)
	case "~":
		return containsValue(val, e.value)
	case ">", ">=", "<", "<=":
		return orderedCompare(val, e.value, e.op)
	default:
		return false
	}
}

func equalValues(val, want any) bool {
	if val == nil || want == nil {
		return val == nil && want == nil
	}
	switch w := want.(type) {
	case string:
		s, ok := val.(string)
		return ok && s == w
	case float64:
		return numericValue(val) == w
	case bool:
		b, ok := val.(bool)
		return ok && b == w
	}
	return false
}

func containsValue(val, want any) bool {
	ws, ok := want.(string)
	if !ok {
		return equalValues(val, want)
	}
	switch v := val.(type) {
	case string:
		return strings.Contains(strings.ToLower(v), strings.ToLower(ws))
	case []string:
		for _, item := range v {
			if item == ws {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == ws {
				return true
			}
		}
	}
	return false
}

func orderedCompare(val, want any, op string) bool {
	if ws, ok := want.(string); ok {
		vs, ok := val.(string)
		if !ok {
			return false
		}
		switch op {
		case ">":
			return vs > ws
		case ">=":
			return vs >= ws
		case "<":
			return vs < ws
		case "<=":
			return vs <= ws
		}
		return false
	}

	wn, ok := want.(float64)
	if !ok {
		return false
	}
	vn := numericValue(val)
	switch op {
	case ">":
		return vn > wn
	case ">=":
		return vn >= wn
	case "<":
		return vn < wn
	case "<=":
		return vn <= wn
	}
	return false
}

func numericValue(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// ParseFilter compiles a filter expression. An empty filter matches
// every record.
func ParseFilter(filter string) (func(models.Raw) bool, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return func(models.Raw) bool { return true }, nil
	}

	p := &filterParser{input: filter}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected trailing input at %d in filter %q", p.pos, filter)
	}
	return expr.eval, nil
}

type filterParser struct {
	input string
	pos   int
}

func (p *filterParser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func (p *filterParser) parseOr() (filterExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		if !p.consume("||") {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: "||", left: left, right: right}
	}
}

func (p *filterParser) parseAnd() (filterExpr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		if !p.consume("&&") {
			return left, nil
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: "&&", left: left, right: right}
	}
}

func (p *filterParser) parseTerm() (filterExpr, error) {
	p.skipSpaces()
	if p.consume("(") {
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipSpaces()
		if !p.consume(")") {
			return nil, fmt.Errorf("missing closing parenthesis at %d", p.pos)
		}
		return expr, nil
	}
	return p.parseComparison()
}

func (p *filterParser) parseComparison() (filterExpr, error) {
	field := p.parseIdent()
	if field == "" {
		return nil, fmt.Errorf("expected field name at %d", p.pos)
	}

	p.skipSpaces()
	var op string
	for _, candidate := range []string{">=", "<=", "!=", "=", ">", "<", "~"} {
		if p.consume(candidate) {
			op = candidate
			break
		}
	}
	if op == "" {
		return nil, fmt.Errorf("expected operator at %d", p.pos)
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &compareExpr{field: field, op: op, value: value}, nil
}

func (p *filterParser) parseIdent() string {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *filterParser) parseValue() (any, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("expected value at %d", p.pos)
	}

	c := p.input[p.pos]
	if c == '"' || c == '\'' {
		quote := c
		p.pos++
		start := p.pos
		for p.pos < len(p.input) && p.input[p.pos] != quote {
			p.pos++
		}
		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("unterminated string at %d", start)
		}
		val := p.input[start:p.pos]
		p.pos++
		return val, nil
	}

	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == ' ' || c == ')' || c == '&' || c == '|' {
			break
		}
		p.pos++
	}
	token := p.input[start:p.pos]
	switch token {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	n, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid literal %q at %d", token, start)
	}
	return n, nil
}

func (p *filterParser) consume(token string) bool {
	p.skipSpaces()
	if strings.HasPrefix(p.input[p.pos:], token) {
		p.pos += len(token)
		return true
	}
	return false
}

// applySort orders records by comma-separated sort keys; a leading "-"
// reverses that key. Unknown fields sort as equal.
func applySort(items []models.Raw, sortExpr string) {
	sortExpr = strings.TrimSpace(sortExpr)
	if sortExpr == "" {
		return
	}

	type sortKey struct {
		field string
		desc  bool
	}
	var keys []sortKey
	for _, part := range strings.Split(sortExpr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k := sortKey{field: part}
		if strings.HasPrefix(part, "-") {
			k.field = part[1:]
			k.desc = true
		} else if strings.HasPrefix(part, "+") {
			k.field = part[1:]
		}
		keys = append(keys, k)
	}

	stableSortRaw(items, func(a, b models.Raw) int {
		for _, k := range keys {
			c := compareRawValues(a[k.field], b[k.field])
			if c == 0 {
				continue
			}
			if k.desc {
				return -c
			}
			return c
		}
		return 0
	})
}

func compareRawValues(a, b any) int {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs)
	}
	an := numericValue(a)
	bn := numericValue(b)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}

func stableSortRaw(items []models.Raw, cmp func(a, b models.Raw) int) {
	// insertion sort keeps equal records in creation order
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && cmp(items[j-1], items[j]) > 0; j-- {
			items[j-1], items[j] = items[j], items[j-1]
		}
	}
}
