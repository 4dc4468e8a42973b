package domain

import (
	"fmt"
	"strings"
)

// TypeName is a parsed change or object type tag, e.g. DeleteChange<Entry>.
type TypeName struct {
	Name string
	Args []TypeName
}

// IsGeneric reports whether the type carries type arguments
func (t TypeName) IsGeneric() bool {
	return len(t.Args) > 0
}

// String renders the tag as Name or Name<Arg1,Arg2,...>
func (t TypeName) String() string {
	if !t.IsGeneric() {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ","))
}

// ParseTypeName parses a type tag such as "Leaf", "Box<Int>" or "Pair<Box<Int>,Leaf>".
// A trailing arity marker on a name ("Box`1") is dropped.
func ParseTypeName(tag string) (TypeName, error) {
	p := &typeParser{src: tag}
	t, err := p.parse()
	if err != nil {
		return TypeName{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeName{}, fmt.Errorf("invalid type tag %q: unexpected %q at %d", tag, p.src[p.pos], p.pos)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) parse() (TypeName, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("<>, ", rune(p.src[p.pos])) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if tick := strings.IndexByte(name, '`'); tick > 0 {
		name = name[:tick]
	}
	if name == "" {
		return TypeName{}, fmt.Errorf("invalid type tag %q: missing name at %d", p.src, start)
	}

	t := TypeName{Name: name}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '<' {
		return t, nil
	}
	p.pos++

	for {
		arg, err := p.parse()
		if err != nil {
			return TypeName{}, err
		}
		t.Args = append(t.Args, arg)

		p.skipSpace()
		if p.pos >= len(p.src) {
			return TypeName{}, fmt.Errorf("invalid type tag %q: unclosed '<'", p.src)
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return t, nil
		default:
			return TypeName{}, fmt.Errorf("invalid type tag %q: unexpected %q at %d", p.src, p.src[p.pos], p.pos)
		}
	}
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}
