package jetjson

import (
	"github.com/biggeezerdevelopment/jetjson/internal/parser"
)

// Visitor receives the event stream of one parsed document in source order.
// Events are balanced (every begin matches an end) and keys always precede
// their values. Numeric events carry the decoded variant plus the raw span;
// string events carry the decoded bytes plus a borrowed-from-input flag —
// bytes passed with borrowed=false are scratch memory valid only for the
// duration of the call.
type Visitor = parser.Visitor
