package catalogtypes

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Manifest is an addon's self-description document. Deserializers are
// expected to accept missing optional fields (all pointer/slice fields
// default to nil/empty).
type Manifest struct {
	ID            string             `json:"id"`
	Version       string             `json:"version"` // semver
	Name          string             `json:"name"`
	Description   *string            `json:"description,omitempty"`
	Logo          *string            `json:"logo,omitempty"`
	Background    *string            `json:"background,omitempty"`
	ContactEmail  *string            `json:"contactEmail,omitempty"`
	Types         []string           `json:"types"`
	Resources     []ManifestResource `json:"resources"`
	IDPrefixes    []string           `json:"idPrefixes,omitempty"`
	Catalogs      []ManifestCatalog  `json:"catalogs"`
	AddonCatalogs []ManifestCatalog  `json:"addonCatalogs,omitempty"`
	BehaviorHints BehaviorHints      `json:"behaviorHints"`
}

// BehaviorHints mirrors the addon-level behavior hints used by
// configuration-required gating.
type BehaviorHints struct {
	Adult                 bool `json:"adult,omitempty"`
	P2P                   bool `json:"p2p,omitempty"`
	Configurable          bool `json:"configurable,omitempty"`
	ConfigurationRequired bool `json:"configurationRequired,omitempty"`
}

// ManifestResource is either a bare resource name ("catalog") or a full
// descriptor constraining which types/id_prefixes it applies to. Exactly
// one of Name-only or the full form is populated after decode; Full
// reports whether the full form applies.
type ManifestResource struct {
	Name       string   `json:"name"`
	Types      []string `json:"types,omitempty"`
	IDPrefixes []string `json:"idPrefixes,omitempty"`
	Full       bool     `json:"-"`
}

// ShortResource builds a name-only ManifestResource, as produced by the
// legacy-manifest mapper.
func ShortResource(name string) ManifestResource {
	return ManifestResource{Name: name}
}

// UnmarshalJSON accepts both wire shapes a manifest's "resources" entry can
// take: a bare resource name string, or a full object constraining the
// resource by types/id_prefixes. Mirrors legacyIDProperty's
// one-string-or-array handling in pkg/addon.
func (r *ManifestResource) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = ManifestResource{Name: name}
		return nil
	}
	type full ManifestResource
	var f full
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("catalogtypes: manifest resource neither string nor object: %w", err)
	}
	f.Full = true
	*r = ManifestResource(f)
	return nil
}

// MarshalJSON renders the short string form when the full form carries no
// constraints (matching how the wire protocol itself distinguishes them),
// and the object form otherwise.
func (r ManifestResource) MarshalJSON() ([]byte, error) {
	if !r.Full && len(r.Types) == 0 && len(r.IDPrefixes) == 0 {
		return json.Marshal(r.Name)
	}
	type full ManifestResource
	return json.Marshal(full{Name: r.Name, Types: r.Types, IDPrefixes: r.IDPrefixes})
}

// ManifestCatalog declares one catalog an addon serves.
type ManifestCatalog struct {
	Type   string      `json:"type"`
	ID     string      `json:"id"`
	Name   *string     `json:"name,omitempty"`
	Extra  []ExtraProp `json:"extra,omitempty"`
	Extra2 *ExtraShort `json:"-"` // decoded short form, if used on the wire
}

// UnmarshalJSON accepts both wire shapes a catalog's "extra" field can
// take: the full per-property array form (ExtraProp), or the short
// {required, supported} pair. The full array form is tried first since it
// is unambiguous (an array can never decode as the short object).
func (c *ManifestCatalog) UnmarshalJSON(data []byte) error {
	type shape struct {
		Type  string          `json:"type"`
		ID    string          `json:"id"`
		Name  *string         `json:"name,omitempty"`
		Extra json.RawMessage `json:"extra,omitempty"`
	}
	var s shape
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("catalogtypes: manifest catalog: %w", err)
	}
	c.Type, c.ID, c.Name = s.Type, s.ID, s.Name
	c.Extra, c.Extra2 = nil, nil
	if len(s.Extra) == 0 {
		return nil
	}
	var full []ExtraProp
	if err := json.Unmarshal(s.Extra, &full); err == nil {
		c.Extra = full
		return nil
	}
	var short ExtraShort
	if err := json.Unmarshal(s.Extra, &short); err != nil {
		return fmt.Errorf("catalogtypes: manifest catalog extra neither array nor {required,supported}: %w", err)
	}
	c.Extra2 = &short
	return nil
}

// MarshalJSON renders Extra2 (if set) as the short {required,supported}
// object on the wire; otherwise the full per-property array.
func (c ManifestCatalog) MarshalJSON() ([]byte, error) {
	type shape struct {
		Type  string      `json:"type"`
		ID    string      `json:"id"`
		Name  *string     `json:"name,omitempty"`
		Extra interface{} `json:"extra,omitempty"`
	}
	s := shape{Type: c.Type, ID: c.ID, Name: c.Name}
	if c.Extra2 != nil {
		s.Extra = c.Extra2
	} else if len(c.Extra) > 0 {
		s.Extra = c.Extra
	}
	return json.Marshal(s)
}

// ExtraShort is the short `{required, supported}` extra declaration form.
type ExtraShort struct {
	Required  []string `json:"required,omitempty"`
	Supported []string `json:"supported,omitempty"`
}

// ExtraProp is one entry of a catalog's full extra-parameter declaration.
type ExtraProp struct {
	Name         string   `json:"name"`
	IsRequired   bool     `json:"isRequired,omitempty"`
	Options      []string `json:"options,omitempty"`
	OptionsLimit *int     `json:"optionsLimit,omitempty"`
}

// RequiredExtraNames returns the names of extras that must be supplied for
// this catalog to be queryable, normalizing both the short and full extra
// declaration forms to one view.
func (c ManifestCatalog) RequiredExtraNames() []string {
	if c.Extra2 != nil {
		return c.Extra2.Required
	}
	var out []string
	for _, e := range c.Extra {
		if e.IsRequired {
			out = append(out, e.Name)
		}
	}
	return out
}

// SupportsResource reports whether this manifest declares the named
// resource, optionally constrained by resourceType and idPrefix (empty
// strings mean "no constraint to check"). A full-form resource is narrowed
// by its own types/idPrefixes; a short-form resource by the manifest-level
// Types/IDPrefixes. An empty list constrains nothing.
func (m Manifest) SupportsResource(name, resourceType, id string) bool {
	for _, r := range m.Resources {
		if r.Name != name {
			continue
		}
		types, prefixes := r.Types, r.IDPrefixes
		if !r.Full {
			types, prefixes = m.Types, m.IDPrefixes
		}
		if len(types) > 0 && resourceType != "" && !containsString(types, resourceType) {
			continue
		}
		if len(prefixes) > 0 && id != "" && !anyPrefixMatches(prefixes, id) {
			continue
		}
		return true
	}
	return false
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func anyPrefixMatches(prefixes []string, id string) bool {
	for _, p := range prefixes {
		if len(id) >= len(p) && id[:len(p)] == p {
			return true
		}
	}
	return false
}

// Descriptor is an installed addon: its manifest, transport URL and
// install-time flags. Equality for de-duplication purposes is by
// TransportURL alone (see Descriptor.Equal).
type Descriptor struct {
	Manifest     Manifest       `json:"manifest"`
	TransportURL string         `json:"transportUrl"`
	Flags        DescriptorFlags `json:"flags"`
}

// DescriptorFlags carries install-time metadata that isn't part of the
// addon's own self-description.
type DescriptorFlags struct {
	Official  bool `json:"official,omitempty"`
	Protected bool `json:"protected,omitempty"`
}

// Equal reports whether two descriptors refer to the same installed addon,
// per the transport-URL-only equality rule.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.TransportURL == other.TransportURL
}
