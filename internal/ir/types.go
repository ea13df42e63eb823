package ir

// TypeRef is an opaque handle into the external type map.
// The generator never inspects it; it is only passed to a type renderer.
type TypeRef string

// Bindings holds everything one generation run consumes.
type Bindings struct {
	Commands []Command `json:"commands"`
	Events   []Event   `json:"events"`
	Statics  []Static  `json:"statics"`

	// Types maps each TypeRef to its already-rendered type literal.
	Types map[TypeRef]string `json:"types"`

	// Declarations is the opaque dependent-types block.
	Declarations string `json:"declarations,omitempty"`

	// Globals is the opaque runtime-glue block. Empty means "use the default".
	Globals string `json:"globals,omitempty"`
}

// Command is a remotely invocable operation.
type Command struct {
	Name       string      `json:"name"`
	Docs       string      `json:"docs,omitempty"`
	Deprecated *string     `json:"deprecated,omitempty"` // nil = not deprecated, "" = deprecated without reason
	Args       []Arg       `json:"args"`
	Result     ResultShape `json:"result"`
}

// Arg is a named, typed command argument.
type Arg struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// ResultKind tags the declared outcome of a command.
type ResultKind string

const (
	// ResultNone means the command declares no return value.
	ResultNone ResultKind = "none"

	// ResultValue means the command always succeeds with a value.
	ResultValue ResultKind = "value"

	// ResultFallible means the command returns either Ok or Err.
	ResultFallible ResultKind = "fallible"
)

// ValidResultKinds defines allowed result kinds.
var ValidResultKinds = map[ResultKind]bool{
	ResultNone:     true,
	ResultValue:    true,
	ResultFallible: true,
}

// ResultShape is the tagged result variant of a command.
// Ok is set for ResultValue and ResultFallible; Err only for ResultFallible.
type ResultShape struct {
	Kind ResultKind `json:"kind"`
	Ok   TypeRef    `json:"ok,omitempty"`
	Err  TypeRef    `json:"err,omitempty"`
}

// NoResult returns the shape of a command without a declared return.
func NoResult() ResultShape {
	return ResultShape{Kind: ResultNone}
}

// ValueResult returns the shape of an infallible command returning t.
func ValueResult(t TypeRef) ResultShape {
	return ResultShape{Kind: ResultValue, Ok: t}
}

// FallibleResult returns the shape of a command returning ok or failing with err.
func FallibleResult(ok, err TypeRef) ResultShape {
	return ResultShape{Kind: ResultFallible, Ok: ok, Err: err}
}

// Event is a named, typed notification channel.
type Event struct {
	Name    string  `json:"name"`
	Docs    string  `json:"docs,omitempty"`
	Payload TypeRef `json:"payload"`
}

// Static is a named constant exported alongside the generated functions.
type Static struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// TypeRefs returns every TypeRef referenced by the bindings, in first-use order.
// Commands come first (args, then result), then events.
func (b *Bindings) TypeRefs() []TypeRef {
	seen := make(map[TypeRef]bool)
	var refs []TypeRef
	add := func(t TypeRef) {
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		refs = append(refs, t)
	}

	for _, cmd := range b.Commands {
		for _, arg := range cmd.Args {
			add(arg.Type)
		}
		add(cmd.Result.Ok)
		add(cmd.Result.Err)
	}
	for _, ev := range b.Events {
		add(ev.Payload)
	}
	return refs
}
