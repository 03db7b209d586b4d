package domain

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

// ReservedKeys are encoded in the asset filename and are therefore not
// allowed to appear in an asset's attribute mapping.
var ReservedKeys = []string{"type", "make", "model", "serial"}

// FauxPrefix marks auto-generated serials.
const FauxPrefix = "faux"

// identityRegex splits "type_make_model.serial".
// The first three fields may not contain '_' or '.'; the serial is
// everything after the first dot.
var identityRegex = regexp.MustCompile(`^([^._]+)_([^._]+)_([^._]+)\.(.+)$`)

// Identity is the structured name of an asset.
// It is immutable after creation; the serial is never reassigned.
type Identity struct {
	Type   string
	Make   string
	Model  string
	Serial string
}

// ParseIdentity extracts an Identity from a filename token like
// "laptop_apple_macbook.9r32he".
func ParseIdentity(token string) (Identity, error) {
	m := identityRegex.FindStringSubmatch(token)
	if m == nil {
		return Identity{}, fmt.Errorf("%w: %q", ErrMalformedIdentity, token)
	}
	return Identity{Type: m[1], Make: m[2], Model: m[3], Serial: m[4]}, nil
}

// Filename encodes the identity as "type_make_model.serial".
func (id Identity) Filename() string {
	return fmt.Sprintf("%s_%s_%s.%s", id.Type, id.Make, id.Model, id.Serial)
}

func (id Identity) String() string {
	return id.Filename()
}

// IsFaux reports whether the serial was auto-generated.
func (id Identity) IsFaux() bool {
	return strings.HasPrefix(id.Serial, FauxPrefix)
}

// Validate checks that all identity fields are present and encodable.
func (id Identity) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"type", id.Type},
		{"make", id.Make},
		{"model", id.Model},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: missing %s", ErrMalformedIdentity, f.name)
		}
		if strings.ContainsAny(f.value, "_./") {
			return fmt.Errorf("%w: %s %q contains a reserved character", ErrMalformedIdentity, f.name, f.value)
		}
	}
	if id.Serial == "" {
		return fmt.Errorf("%w: missing serial", ErrMalformedIdentity)
	}
	if strings.ContainsRune(id.Serial, '/') {
		return fmt.Errorf("%w: serial %q contains a path separator", ErrMalformedIdentity, id.Serial)
	}
	return nil
}

// Asset is a tracked inventory item: an identity, a scalar attribute
// mapping, and the container it currently lives in.
type Asset struct {
	Identity   Identity
	Attributes map[string]any
	Container  string // slash-separated path relative to the vault root, "" = root
}

// NewAsset builds an asset after validating its identity and attributes.
func NewAsset(id Identity, attrs map[string]any, container string) (*Asset, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = map[string]any{}
	}
	for _, k := range ReservedKeys {
		if _, ok := attrs[k]; ok {
			return nil, fmt.Errorf("key %q is reserved for the asset name and not allowed as an attribute", k)
		}
	}
	return &Asset{Identity: id, Attributes: attrs, Container: container}, nil
}

// Path returns the asset's location relative to the vault root.
func (a *Asset) Path() string {
	return path.Join(a.Container, a.Identity.Filename())
}

// Clone returns a deep copy, so planned mutations never leak into a snapshot.
func (a *Asset) Clone() *Asset {
	attrs := make(map[string]any, len(a.Attributes))
	for k, v := range a.Attributes {
		attrs[k] = v
	}
	return &Asset{Identity: a.Identity, Attributes: attrs, Container: a.Container}
}

// AttributeKeys returns the attribute names in sorted order.
func (a *Asset) AttributeKeys() []string {
	keys := make([]string, 0, len(a.Attributes))
	for k := range a.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get resolves an attribute or pseudo key (type, make, model, serial).
func (a *Asset) Get(key string) (any, bool) {
	switch key {
	case "type":
		return a.Identity.Type, true
	case "make":
		return a.Identity.Make, true
	case "model":
		return a.Identity.Model, true
	case "serial":
		return a.Identity.Serial, true
	}
	v, ok := a.Attributes[key]
	return v, ok
}

// IsPseudoKey reports whether key is served from the identity token
// rather than the attribute mapping.
func IsPseudoKey(key string) bool {
	for _, k := range ReservedKeys {
		if k == key {
			return true
		}
	}
	return false
}
