package marker

import (
	"strconv"
	"strings"

	"minimap/internal/domain/world"
)

type TokenKind int

const (
	TokenInvalid TokenKind = iota
	TokenLiteral
	TokenVariable
)

// Token is one numeric component of a spec: a literal or a variable index.
type Token struct {
	Kind TokenKind
	N    int
}

// ParseToken reads "v<index>" as a variable reference and anything else as a
// non-negative integer literal.
func ParseToken(s string) Token {
	if s == "" {
		return Token{}
	}
	if s[0] == 'v' {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 {
			return Token{}
		}
		return Token{Kind: TokenVariable, N: n}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Token{}
	}
	return Token{Kind: TokenLiteral, N: n}
}

type VariableReader interface {
	Variable(id int) (int, bool)
}

type EventLocator interface {
	EventPosition(id int) (world.Position, bool)
}

// Lookup is everything a target needs to resolve live.
type Lookup interface {
	VariableReader
	EventLocator
}

func (t Token) Value(vars VariableReader) (int, bool) {
	switch t.Kind {
	case TokenLiteral:
		return t.N, true
	case TokenVariable:
		return vars.Variable(t.N)
	default:
		return 0, false
	}
}

func (t Token) String() string {
	switch t.Kind {
	case TokenLiteral:
		return strconv.Itoa(t.N)
	case TokenVariable:
		return "v" + strconv.Itoa(t.N)
	default:
		return "?"
	}
}

type TargetKind int

const (
	TargetPoint TargetKind = iota
	TargetEvent
)

// Target is a parsed spec. Nothing is resolved until Resolve is called.
type Target struct {
	Kind  TargetKind
	X     Token
	Y     Token
	Event Token
}

// Parse splits a normalized spec on commas. "e<id>" targets an event; one
// coordinate token is used for both axes.
func Parse(spec string) Target {
	parts := strings.Split(spec, ",")
	if strings.HasPrefix(parts[0], "e") {
		return Target{Kind: TargetEvent, Event: ParseToken(parts[0][1:])}
	}
	x := ParseToken(parts[0])
	y := x
	if len(parts) > 1 && parts[1] != "" {
		y = ParseToken(parts[1])
	}
	return Target{Kind: TargetPoint, X: x, Y: y}
}

// Resolve returns the live position of the target. It fails closed: any
// unresolved token or a missing event yields ok=false.
func (t Target) Resolve(l Lookup) (world.Position, bool) {
	if t.Kind == TargetEvent {
		id, ok := t.Event.Value(l)
		if !ok {
			return world.Position{}, false
		}
		return l.EventPosition(id)
	}
	x, ok := t.X.Value(l)
	if !ok {
		return world.Position{}, false
	}
	y, ok := t.Y.Value(l)
	if !ok {
		return world.Position{}, false
	}
	return world.Position{X: float64(x), Y: float64(y)}, true
}

// Resolve parses and resolves a normalized spec in one go.
func Resolve(spec string, l Lookup) (world.Position, bool) {
	return Parse(spec).Resolve(l)
}

// BindIssuer rewrites "e0", the event issuing the command, to that event's id.
// Without an issuing event the spec is left untouched.
func BindIssuer(spec string, eventID int) string {
	if spec != "e0" || eventID <= 0 {
		return spec
	}
	return "e" + strconv.Itoa(eventID)
}
