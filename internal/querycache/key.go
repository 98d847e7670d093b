package querycache

import (
	"net/url"
	"strings"

	"github.com/example/resama/internal/domain"
)

// Key identifies a cached read by resource name and canonical filter parameters.
type Key struct {
	Resource string
	Params   string
}

// NewKey builds a key whose Params do not depend on map iteration order.
func NewKey(resource string, params url.Values) Key {
	return Key{Resource: resource, Params: domain.CanonicalQuery(params)}
}

// Family returns a key that stands for every key of the named resource family.
func Family(name string) Key {
	return Key{Resource: familyOf(name)}
}

// Family returns the first "/" separated segment of the resource.
func (k Key) Family() string {
	return familyOf(k.Resource)
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Resource
	}
	return k.Resource + "?" + k.Params
}

func familyOf(resource string) string {
	resource = strings.Trim(resource, "/")
	if i := strings.IndexByte(resource, '/'); i >= 0 {
		return resource[:i]
	}
	return resource
}
