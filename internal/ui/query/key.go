package query

import (
	"net/url"
	"strings"

	"github.com/povodb/povodb-ui/internal/ui/client"
)

// Key identifies a cache entry: the resource name plus the serialized parameters.
//
// Params is produced by client.BuildQuery, which sorts keys, so parameter sets with the same
// effective meaning always map to the same entry.
type Key struct {
	Resource string
	Params   string
}

// KeyFor returns the key of a list query
func KeyFor(resource string, q client.Query) Key {
	return Key{Resource: resource, Params: client.BuildQuery(q)}
}

// IDKey returns the key of a single record query
func IDKey(resource, id string) Key {
	return Key{Resource: resource, Params: url.Values{"id": {id}}.Encode()}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Resource
	}
	return k.Resource + "?" + k.Params
}

// Matches reports whether the key belongs to resource or to one of its sub-resources
// (politicians matches politicians/details but not politicians-archive).
func (k Key) Matches(resource string) bool {
	return k.Resource == resource || strings.HasPrefix(k.Resource, resource+"/")
}
