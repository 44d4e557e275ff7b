// Package rootsig parses root-signature description text into a binding
// model. The dialect is the familiar comma-separated parameter list:
//
//	RootFlags(ALLOW_INPUT_ASSEMBLER_INPUT_LAYOUT),
//	CBV(b0),
//	UAV(u0, space=1),
//	DescriptorTable(SRV(t0, numDescriptors=4), UAV(u1), visibility=SHADER_VISIBILITY_ALL)
//
// Keywords and register names match case-insensitively. Each top-level
// parameter occupies one root slot in declaration order; the execution
// engine maps each slot to one bind group.
package rootsig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrSyntax reports malformed root-signature text. The wrapped message
// carries the byte offset of the offending token.
var ErrSyntax = errors.New("rootsig: syntax error")

// ParamKind discriminates root parameters and descriptor-table ranges.
type ParamKind int

const (
	KindCBV ParamKind = iota
	KindSRV
	KindUAV
	KindSampler
	KindTable
)

func (k ParamKind) String() string {
	switch k {
	case KindCBV:
		return "CBV"
	case KindSRV:
		return "SRV"
	case KindUAV:
		return "UAV"
	case KindSampler:
		return "Sampler"
	case KindTable:
		return "DescriptorTable"
	}
	return fmt.Sprintf("ParamKind(%d)", int(k))
}

// Range is one descriptor range within a table.
type Range struct {
	Kind           ParamKind
	BaseRegister   uint32
	Space          uint32
	NumDescriptors uint32
}

// Param is one root parameter: a direct view (CBV/SRV/UAV with a register)
// or a descriptor table with ranges.
type Param struct {
	Kind       ParamKind
	Register   uint32
	Space      uint32
	Visibility string
	Ranges     []Range
}

// Signature is the parsed binding model.
type Signature struct {
	Flags  []string
	Params []Param
}

// NumSlots returns the number of root parameter slots.
func (s *Signature) NumSlots() int { return len(s.Params) }

// Parse parses root-signature description text.
func Parse(text string) (*Signature, error) {
	p := &parser{src: text}
	sig := &Signature{}
	p.skipSpace()
	for !p.eof() {
		name, pos := p.ident()
		if name == "" {
			return nil, fmt.Errorf("%w: expected parameter name at offset %d", ErrSyntax, pos)
		}
		switch {
		case strings.EqualFold(name, "RootFlags"):
			flags, err := p.parseRootFlags()
			if err != nil {
				return nil, err
			}
			sig.Flags = append(sig.Flags, flags...)
		case strings.EqualFold(name, "CBV"), strings.EqualFold(name, "SRV"),
			strings.EqualFold(name, "UAV"):
			param, err := p.parseRootView(viewKind(name))
			if err != nil {
				return nil, err
			}
			sig.Params = append(sig.Params, param)
		case strings.EqualFold(name, "DescriptorTable"):
			param, err := p.parseTable()
			if err != nil {
				return nil, err
			}
			sig.Params = append(sig.Params, param)
		case strings.EqualFold(name, "StaticSampler"):
			// Accepted and ignored: samplers occupy no root slot here.
			if err := p.skipArgList(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unknown parameter %q at offset %d", ErrSyntax, name, pos)
		}
		p.skipSpace()
		if p.eof() {
			break
		}
		if !p.consume(',') {
			return nil, fmt.Errorf("%w: expected ',' at offset %d", ErrSyntax, p.pos)
		}
		p.skipSpace()
	}
	return sig, nil
}

func viewKind(name string) ParamKind {
	switch {
	case strings.EqualFold(name, "CBV"):
		return KindCBV
	case strings.EqualFold(name, "SRV"):
		return KindSRV
	default:
		return KindUAV
	}
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) consume(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(c byte) error {
	if !p.consume(c) {
		return fmt.Errorf("%w: expected %q at offset %d", ErrSyntax, string(c), p.pos)
	}
	return nil
}

// ident reads an identifier (letters, digits, underscores) and its start
// offset. Returns "" when the next character starts no identifier.
func (p *parser) ident() (string, int) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos], start
}

// register reads a register token such as "b0", "t12", "u3" or "s0".
func (p *parser) register() (ParamKind, uint32, error) {
	tok, pos := p.ident()
	if len(tok) < 2 {
		return 0, 0, fmt.Errorf("%w: expected register at offset %d", ErrSyntax, pos)
	}
	var kind ParamKind
	switch unicode.ToLower(rune(tok[0])) {
	case 'b':
		kind = KindCBV
	case 't':
		kind = KindSRV
	case 'u':
		kind = KindUAV
	case 's':
		kind = KindSampler
	default:
		return 0, 0, fmt.Errorf("%w: bad register class %q at offset %d", ErrSyntax, tok, pos)
	}
	n, err := strconv.ParseUint(tok[1:], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad register number %q at offset %d", ErrSyntax, tok, pos)
	}
	return kind, uint32(n), nil
}

func (p *parser) parseRootFlags() ([]string, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var flags []string
	p.skipSpace()
	if p.consume(')') {
		return flags, nil
	}
	for {
		f, pos := p.ident()
		if f == "" {
			return nil, fmt.Errorf("%w: expected flag at offset %d", ErrSyntax, pos)
		}
		// A literal 0 means no flags.
		if f != "0" {
			flags = append(flags, strings.ToUpper(f))
		}
		p.skipSpace()
		if p.consume(')') {
			return flags, nil
		}
		if !p.consume('|') && !p.consume(',') {
			return nil, fmt.Errorf("%w: expected '|' or ')' at offset %d", ErrSyntax, p.pos)
		}
	}
}

// parseRootView parses the argument list of a direct CBV/SRV/UAV root
// parameter: a register, then optional named arguments.
func (p *parser) parseRootView(kind ParamKind) (Param, error) {
	param := Param{Kind: kind}
	if err := p.expect('('); err != nil {
		return param, err
	}
	regKind, reg, err := p.register()
	if err != nil {
		return param, err
	}
	if regKind != kind {
		return param, fmt.Errorf("%w: %s parameter bound to %s register", ErrSyntax, kind, regKind)
	}
	param.Register = reg
	for p.consume(',') {
		name, value, err := p.namedArg()
		if err != nil {
			return param, err
		}
		switch {
		case strings.EqualFold(name, "space"):
			n, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return param, fmt.Errorf("%w: bad space %q", ErrSyntax, value)
			}
			param.Space = uint32(n)
		case strings.EqualFold(name, "visibility"):
			param.Visibility = value
		}
	}
	if err := p.expect(')'); err != nil {
		return param, err
	}
	return param, nil
}

func (p *parser) parseTable() (Param, error) {
	param := Param{Kind: KindTable}
	if err := p.expect('('); err != nil {
		return param, err
	}
	for {
		name, pos := p.ident()
		if name == "" {
			return param, fmt.Errorf("%w: expected range or ')' at offset %d", ErrSyntax, pos)
		}
		switch {
		case strings.EqualFold(name, "CBV"), strings.EqualFold(name, "SRV"),
			strings.EqualFold(name, "UAV"), strings.EqualFold(name, "Sampler"):
			rng, err := p.parseRange(name)
			if err != nil {
				return param, err
			}
			param.Ranges = append(param.Ranges, rng)
		case strings.EqualFold(name, "visibility"):
			if err := p.expect('='); err != nil {
				return param, err
			}
			v, _ := p.ident()
			param.Visibility = v
		default:
			return param, fmt.Errorf("%w: unknown table entry %q at offset %d", ErrSyntax, name, pos)
		}
		if p.consume(')') {
			return param, nil
		}
		if !p.consume(',') {
			return param, fmt.Errorf("%w: expected ',' or ')' at offset %d", ErrSyntax, p.pos)
		}
	}
}

func (p *parser) parseRange(kindName string) (Range, error) {
	rng := Range{NumDescriptors: 1}
	switch {
	case strings.EqualFold(kindName, "CBV"):
		rng.Kind = KindCBV
	case strings.EqualFold(kindName, "SRV"):
		rng.Kind = KindSRV
	case strings.EqualFold(kindName, "UAV"):
		rng.Kind = KindUAV
	default:
		rng.Kind = KindSampler
	}
	if err := p.expect('('); err != nil {
		return rng, err
	}
	regKind, reg, err := p.register()
	if err != nil {
		return rng, err
	}
	if regKind != rng.Kind {
		return rng, fmt.Errorf("%w: %s range bound to %s register", ErrSyntax, rng.Kind, regKind)
	}
	rng.BaseRegister = reg
	for p.consume(',') {
		name, value, err := p.namedArg()
		if err != nil {
			return rng, err
		}
		switch {
		case strings.EqualFold(name, "numDescriptors"):
			n, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return rng, fmt.Errorf("%w: bad numDescriptors %q", ErrSyntax, value)
			}
			rng.NumDescriptors = uint32(n)
		case strings.EqualFold(name, "space"):
			n, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return rng, fmt.Errorf("%w: bad space %q", ErrSyntax, value)
			}
			rng.Space = uint32(n)
		}
	}
	if err := p.expect(')'); err != nil {
		return rng, err
	}
	return rng, nil
}

// namedArg reads "name = value" where value is an identifier or number.
func (p *parser) namedArg() (string, string, error) {
	name, pos := p.ident()
	if name == "" {
		return "", "", fmt.Errorf("%w: expected argument name at offset %d", ErrSyntax, pos)
	}
	if err := p.expect('='); err != nil {
		return "", "", err
	}
	value, vpos := p.ident()
	if value == "" {
		return "", "", fmt.Errorf("%w: expected argument value at offset %d", ErrSyntax, vpos)
	}
	return name, value, nil
}

// skipArgList consumes a balanced parenthesized argument list.
func (p *parser) skipArgList() error {
	if err := p.expect('('); err != nil {
		return err
	}
	depth := 1
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
		p.pos++
	}
	return fmt.Errorf("%w: unterminated argument list", ErrSyntax)
}
