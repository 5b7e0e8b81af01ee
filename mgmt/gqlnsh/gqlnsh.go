// Package gqlnsh exposes the NSH engine tables via GraphQL.
package gqlnsh

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/usnistgov/nshsfc/core/gqlserver"
	"github.com/usnistgov/nshsfc/core/jsonhelper"
	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
)

// GqlPlugin is the engine instance accessible via GraphQL.
var GqlPlugin *nshplugin.Plugin

var errNoPlugin = errors.New("NSH engine is not running")

func getPlugin() (*nshplugin.Plugin, error) {
	if GqlPlugin == nil {
		return nil, errNoPlugin
	}
	return GqlPlugin, nil
}

// GraphQL types.
var (
	GqlEntryType        *graphql.Object
	GqlMapType          *graphql.Object
	GqlProxySessionType *graphql.Object
)

func nspNsiFields(get func(source any) nsh.NspNsi, nspName, nsiName string, fields graphql.Fields) graphql.Fields {
	fields[nspName] = &graphql.Field{
		Description: "Service Path Identifier.",
		Type:        gqlserver.NonNullUint64,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			return uint64(get(p.Source).Nsp()), nil
		},
	}
	fields[nsiName] = &graphql.Field{
		Description: "Service Index.",
		Type:        gqlserver.NonNullInt,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			return int(get(p.Source).Nsi()), nil
		},
	}
	return fields
}

func init() {
	GqlEntryType = graphql.NewObject(graphql.ObjectConfig{
		Name: "NshEntry",
		Fields: nspNsiFields(func(source any) nsh.NspNsi { return source.(nshplugin.IndexedEntry).NspNsi }, "nsp", "nsi", graphql.Fields{
			"index": &graphql.Field{
				Description: "Pool index.",
				Type:        gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return int(p.Source.(nshplugin.IndexedEntry).Index), nil
				},
			},
			"nspNsi": &graphql.Field{
				Description: "Packed NSP and NSI.",
				Type:        gqlserver.NonNullUint64,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return uint64(p.Source.(nshplugin.IndexedEntry).NspNsi), nil
				},
			},
			"version": &graphql.Field{
				Type: gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return int(p.Source.(nshplugin.IndexedEntry).Version()), nil
				},
			},
			"oBit": &graphql.Field{
				Type: gqlserver.NonNullBoolean,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(nshplugin.IndexedEntry).HasOBit(), nil
				},
			},
			"cBit": &graphql.Field{
				Type: gqlserver.NonNullBoolean,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(nshplugin.IndexedEntry).HasCBit(), nil
				},
			},
			"mdType": &graphql.Field{
				Type: gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return int(p.Source.(nshplugin.IndexedEntry).MdType), nil
				},
			},
			"length": &graphql.Field{
				Description: "Header length in 4-octet words.",
				Type:        gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return int(p.Source.(nshplugin.IndexedEntry).Length), nil
				},
			},
			"nextProtocol": &graphql.Field{
				Type: gqlserver.NonNullString,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(nshplugin.IndexedEntry).NextProtocol.String(), nil
				},
			},
			"context": &graphql.Field{
				Description: "Context headers c1..c4.",
				Type:        gqlserver.NewListNonNullBoth(gqlserver.Uint64),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					ent := p.Source.(nshplugin.IndexedEntry)
					return []uint64{uint64(ent.C1), uint64(ent.C2), uint64(ent.C3), uint64(ent.C4)}, nil
				},
			},
			"text": &graphql.Field{
				Description: "Entry formatted as debug CLI output.",
				Type:        gqlserver.NonNullString,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(nshplugin.IndexedEntry).String(), nil
				},
			},
		}),
	})

	GqlMapType = graphql.NewObject(graphql.ObjectConfig{
		Name: "NshMap",
		Fields: nspNsiFields(func(source any) nsh.NspNsi { return source.(nshplugin.IndexedMap).MappedNspNsi }, "mappedNsp", "mappedNsi",
			nspNsiFields(func(source any) nsh.NspNsi { return source.(nshplugin.IndexedMap).NspNsi }, "nsp", "nsi", graphql.Fields{
				"index": &graphql.Field{
					Description: "Pool index.",
					Type:        gqlserver.NonNullInt,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return int(p.Source.(nshplugin.IndexedMap).Index), nil
					},
				},
				"action": &graphql.Field{
					Type: gqlserver.NonNullString,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return p.Source.(nshplugin.IndexedMap).Action.String(), nil
					},
				},
				"swIfIndex": &graphql.Field{
					Description: "Encapsulation interface.",
					Type:        gqlserver.NonNullUint64,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return uint64(p.Source.(nshplugin.IndexedMap).SwIfIndex), nil
					},
				},
				"nextNode": &graphql.Field{
					Type: gqlserver.NonNullString,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return p.Source.(nshplugin.IndexedMap).NextNode.String(), nil
					},
				},
				"text": &graphql.Field{
					Description: "Map formatted as debug CLI output.",
					Type:        gqlserver.NonNullString,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return p.Source.(nshplugin.IndexedMap).String(), nil
					},
				},
			})),
	})

	GqlProxySessionType = graphql.NewObject(graphql.ObjectConfig{
		Name: "NshProxySession",
		Fields: nspNsiFields(func(source any) nsh.NspNsi { return source.(nsh.ProxySession).NspNsi }, "nsp", "nsi", graphql.Fields{
			"transportType": &graphql.Field{
				Type: gqlserver.NonNullString,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(nsh.ProxySession).TransportType.String(), nil
				},
			},
			"transportIndex": &graphql.Field{
				Type: gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return int(p.Source.(nsh.ProxySession).TransportIndex), nil
				},
			},
		}),
	})

	indexArg := graphql.FieldConfigArgument{
		"index": &graphql.ArgumentConfig{
			Description: "Pool index; omit to list all.",
			Type:        graphql.Int,
		},
	}
	getIndex := func(p graphql.ResolveParams) uint32 {
		if index, ok := p.Args["index"].(int); ok && index >= 0 {
			return uint32(index)
		}
		return nsh.IndexAll
	}

	gqlserver.AddQuery(&graphql.Field{
		Name:        "nshEntries",
		Description: "NSH entries.",
		Args:        indexArg,
		Type:        gqlserver.NewListNonNullBoth(GqlEntryType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			plugin, e := getPlugin()
			if e != nil {
				return nil, e
			}
			return append([]nshplugin.IndexedEntry{}, plugin.Entries(getIndex(p))...), nil
		},
	})

	gqlserver.AddQuery(&graphql.Field{
		Name:        "nshMaps",
		Description: "NSH maps.",
		Args:        indexArg,
		Type:        gqlserver.NewListNonNullBoth(GqlMapType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			plugin, e := getPlugin()
			if e != nil {
				return nil, e
			}
			return append([]nshplugin.IndexedMap{}, plugin.Maps(getIndex(p))...), nil
		},
	})

	gqlserver.AddQuery(&graphql.Field{
		Name:        "nshProxySessions",
		Description: "NSH proxy sessions.",
		Type:        gqlserver.NewListNonNullBoth(GqlProxySessionType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			plugin, e := getPlugin()
			if e != nil {
				return nil, e
			}
			return append([]nsh.ProxySession{}, plugin.ProxySessions()...), nil
		},
	})

	gqlserver.AddMutation(&graphql.Field{
		Name:        "createNshEntry",
		Description: "Create an NSH entry.",
		Args: graphql.FieldConfigArgument{
			"entry": &graphql.ArgumentConfig{
				Description: "Entry as JSON object, see nsh.Entry.",
				Type:        gqlserver.NonNullJSON,
			},
		},
		Type: graphql.NewNonNull(GqlEntryType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			plugin, e := getPlugin()
			if e != nil {
				return nil, e
			}
			var ent nsh.Entry
			if e := jsonhelper.Roundtrip(p.Args["entry"], &ent, jsonhelper.DisallowUnknownFields); e != nil {
				return nil, e
			}
			index, e := plugin.AddDelEntry(true, ent)
			if e != nil {
				return nil, e
			}
			return nshplugin.IndexedEntry{Index: index, Entry: ent}, nil
		},
	})

	gqlserver.AddMutation(&graphql.Field{
		Name:        "deleteNshEntry",
		Description: "Delete an NSH entry.",
		Args: graphql.FieldConfigArgument{
			"nsp": &graphql.ArgumentConfig{Type: gqlserver.NonNullInt},
			"nsi": &graphql.ArgumentConfig{Type: gqlserver.NonNullInt},
		},
		Type: gqlserver.NonNullBoolean,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			plugin, e := getPlugin()
			if e != nil {
				return nil, e
			}
			ent := nsh.Entry{NspNsi: argNspNsi(p)}
			_, e = plugin.AddDelEntry(false, ent)
			return e == nil, e
		},
	})

	gqlserver.AddMutation(&graphql.Field{
		Name:        "createNshMap",
		Description: "Create an NSH map.",
		Args: graphql.FieldConfigArgument{
			"map": &graphql.ArgumentConfig{
				Description: "Map as JSON object, see nsh.Map.",
				Type:        gqlserver.NonNullJSON,
			},
		},
		Type: graphql.NewNonNull(GqlMapType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			plugin, e := getPlugin()
			if e != nil {
				return nil, e
			}
			var m nsh.Map
			if e := jsonhelper.Roundtrip(p.Args["map"], &m, jsonhelper.DisallowUnknownFields); e != nil {
				return nil, e
			}
			index, e := plugin.AddDelMap(true, m)
			if e != nil {
				return nil, e
			}
			return nshplugin.IndexedMap{Index: index, Map: m}, nil
		},
	})

	gqlserver.AddMutation(&graphql.Field{
		Name:        "deleteNshMap",
		Description: "Delete an NSH map.",
		Args: graphql.FieldConfigArgument{
			"nsp": &graphql.ArgumentConfig{Type: gqlserver.NonNullInt},
			"nsi": &graphql.ArgumentConfig{Type: gqlserver.NonNullInt},
		},
		Type: gqlserver.NonNullBoolean,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			plugin, e := getPlugin()
			if e != nil {
				return nil, e
			}
			m := nsh.Map{NspNsi: argNspNsi(p)}
			_, e = plugin.AddDelMap(false, m)
			return e == nil, e
		},
	})

	gqlserver.AddMutation(&graphql.Field{
		Name:        "nshCli",
		Description: "Execute an NSH debug CLI command.",
		Args: graphql.FieldConfigArgument{
			"line": &graphql.ArgumentConfig{Type: gqlserver.NonNullString},
		},
		Type: gqlserver.NonNullString,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			plugin, e := getPlugin()
			if e != nil {
				return nil, e
			}
			return plugin.Exec(p.Args["line"].(string))
		},
	})
}

func argNspNsi(p graphql.ResolveParams) nsh.NspNsi {
	nsp, _ := p.Args["nsp"].(int)
	nsi, _ := p.Args["nsi"].(int)
	return nsh.MakeNspNsi(uint32(nsp), uint8(nsi))
}
