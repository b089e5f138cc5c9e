// Package cmdskema compiles slash-command declarations into a validated
// schema tree, then uses that one tree for two things:
//
// - Registration descriptors for the chat platform (Descriptor, Descriptors)
// - Parsing of incoming interaction payloads into values (Parse, Binding.Parse)
//
// Declarations come from struct tags (Bind, BindSet), the builder DSL under
// dsl/, or YAML/JSON documents under declfile/. All of them go through
// NewCommand, NewContainer, NewGroup and NewSet, so a tree that exists is a
// valid tree.
//
// Design policy:
// - The core is pure and synchronous; it neither logs nor performs I/O.
// - Schema problems are SchemaIssues (path, code, message); payload problems
// are a single *ParseError with one of six closed codes.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	type Ping struct {
//		_ struct{} `command:"ping" description:"Ping the bot"`
//		N int64    `option:"integer" description:"How many times"`
//	}
//
//	b := cmdskema.MustBind[Ping]()
//	reg, _ := cmdskema.MarshalDescriptors([]cmdskema.Descriptor{b.Descriptor()})
//
//	in, err := cmdskema.DecodeInteraction(payload)
//	p, err := b.Parse(in)
package cmdskema
