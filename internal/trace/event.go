package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint     // мгновенное событие
	KindHeartbeat // признак жизни
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeCommand Scope = iota + 1 // CLI command or server session
	ScopeRequest                  // gateway submission, LSP request
	ScopeEdit                     // parse, mutate, render
	ScopeSection                  // work on a single section
)

func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeRequest:
		return "request"
	case ScopeEdit:
		return "edit"
	case ScopeSection:
		return "section"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // монотонный номер
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 для корня
	GID      uint64
	Name     string // "parse", "gateway:lu", "intent:update"
	Detail   string
	Extra    map[string]string
}
