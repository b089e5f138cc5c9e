package cmdskema

import (
	"reflect"
	"strings"
	"unicode"
)

// Struct tag keys understood by Bind and BindSet.
const (
	TagCommand     = "command"     // on the `_ struct{}` marker: command name
	TagGroup       = "group"       // on the marker: group name; on a field: group variant
	TagSubCommand  = "subcommand"  // on a field: sub-command variant
	TagOption      = "option"      // on a field: "<kind>[,name=<override>]"
	TagDescription = "description" // on the marker and on option fields
)

type marker struct {
	key         string // TagCommand or TagGroup
	name        string
	description string
}

// findMarker locates the blank `_` field carrying the node's name and
// description.
func findMarker(rt reflect.Type, at pointer) (marker, SchemaIssues) {
	var (
		m     marker
		found bool
		iss   SchemaIssues
	)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Name != "_" {
			continue
		}
		for _, key := range []string{TagCommand, TagGroup} {
			name, ok := sf.Tag.Lookup(key)
			if !ok {
				continue
			}
			if found {
				iss = append(iss, at.issue(CodeDeclarationInvalid, "`name` parameter has already been provided on "+rt.String()))
				continue
			}
			found = true
			m = marker{key: key, name: strings.TrimSpace(name), description: sf.Tag.Get(TagDescription)}
		}
	}
	if !found {
		iss = append(iss, at.issue(CodeDeclarationInvalid, "expected a `_ struct{}` field tagged command:\"<name>\" or group:\"<name>\" on "+rt.String()))
	}
	return m, iss
}

// fieldKeys lists the declaration tags present on a field.
func fieldKeys(sf reflect.StructField) []string {
	var keys []string
	for _, k := range []string{TagOption, TagSubCommand, TagGroup} {
		if _, ok := sf.Tag.Lookup(k); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// optionTag is the parsed form of `option:"<kind>[,name=<override>]"`.
type optionTag struct {
	kind OptionType
	name string
}

func parseOptionTag(sf reflect.StructField, at pointer) (optionTag, SchemaIssues) {
	var (
		out     optionTag
		iss     SchemaIssues
		hasKind bool
	)
	for _, p := range strings.Split(sf.Tag.Get(TagOption), ",") {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasPrefix(p, "name="):
			if out.name != "" {
				iss = append(iss, at.issue(CodeDeclarationInvalid, "`name` parameter has already been provided"))
				continue
			}
			out.name = strings.TrimPrefix(p, "name=")
		case p == "required":
			iss = append(iss, at.issue(CodeDeclarationInvalid, "required is inferred from the field type; use a pointer field for an optional option"))
		default:
			k, err := ParseOptionType(p)
			if err != nil || !k.IsLeaf() {
				iss = append(iss, at.issue(CodeDeclarationInvalid, "unknown option parameter "+p))
				continue
			}
			if hasKind {
				iss = append(iss, at.issue(CodeDeclarationInvalid, "option type has already been provided"))
				continue
			}
			hasKind = true
			out.kind = k
		}
	}
	if !hasKind && len(iss) == 0 {
		iss = append(iss, at.issue(CodeDeclarationInvalid, "expected a type for the option (e.g. `string`, `integer`, `number`, ...)"))
	}
	if out.name == "" {
		out.name = snakeCase(sf.Name)
	}
	return out, iss
}

// fitsKind reports whether a (non-pointer) Go type can hold values of kind.
func fitsKind(kind OptionType, t reflect.Type) bool {
	switch kind {
	case TypeBoolean:
		return t.Kind() == reflect.Bool
	case TypeString:
		return t.Kind() == reflect.String
	case TypeInteger:
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return true
		}
	case TypeNumber:
		return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
	case TypeUser, TypeChannel, TypeRole, TypeMention:
		return t.Kind() == reflect.Uint64
	}
	return false
}

// snakeCase converts a Go identifier to the platform's lowercase form:
// UserID -> user_id, MaxCount -> max_count.
func snakeCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := rs[i-1]
				nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
