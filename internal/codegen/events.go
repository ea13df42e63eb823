package codegen

import (
	"strings"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/naming"
)

// EventsFactory is the runtime helper that combines the two event tables.
const EventsFactory = "__makeEvents__"

// EventNameTable maps each event's call name to its wire key:
//
//	userLoggedIn: "user_logged_in"
//
// Entries follow declared order and use the same keys as EventTypeTable.
func EventNameTable(events []ir.Event, policy naming.Policy) []string {
	entries := make([]string, len(events))
	for i, ev := range events {
		wire := naming.ToWireName(ev.Name, naming.KindEvent, policy)
		entries[i] = naming.ToCallName(ev.Name) + ": " + ir.QuoteString(wire)
	}
	return entries
}

// EventTypeTable maps each event's call name to its payload type:
//
//	userLoggedIn: User
//
// Entries follow declared order and use the same keys as EventNameTable.
func EventTypeTable(events []ir.Event, r TypeRenderer) ([]string, error) {
	entries := make([]string, len(events))
	for i, ev := range events {
		typ, err := renderType(r, ItemEvent, ev.Name, ev.Payload)
		if err != nil {
			return nil, err
		}
		entries[i] = naming.ToCallName(ev.Name) + ": " + typ
	}
	return entries, nil
}

// RenderEvents embeds both tables into the exported `events` object:
//
//	export const events = __makeEvents__<{
//	    userLoggedIn: User
//	}>({
//	    userLoggedIn: "user_logged_in"
//	});
//
// No events renders as the empty string.
func RenderEvents(events []ir.Event, r TypeRenderer, opts Options) (string, error) {
	if len(events) == 0 {
		return "", nil
	}

	types, err := EventTypeTable(events, r)
	if err != nil {
		return "", err
	}
	names := EventNameTable(events, opts.Naming)

	var b strings.Builder
	b.WriteString("export const events = ")
	b.WriteString(EventsFactory)
	b.WriteString("<{\n")
	b.WriteString(indent(strings.Join(types, ",\n"), indentUnit))
	b.WriteString("\n}>({\n")
	b.WriteString(indent(strings.Join(names, ",\n"), indentUnit))
	b.WriteString("\n});")
	return b.String(), nil
}
