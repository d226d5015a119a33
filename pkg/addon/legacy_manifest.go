package addon

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

// legacyManifest is the shape the pre-manifest JSON-RPC dialect serves in
// place of a manifest.json. It has no notion of extra properties, optional
// resource flags, or per-resource id_prefixes — toManifest derives a
// best-effort modern Manifest from the handful of fields it does carry.
type legacyManifest struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  *string            `json:"description"`
	Logo         *string            `json:"logo"`
	Background   *string            `json:"background"`
	Version      string             `json:"version"`
	Methods      []string           `json:"methods"`
	Types        []string           `json:"types"`
	ContactEmail *string            `json:"contactEmail"`
	IDProperty   legacyIDProperty   `json:"idProperty"`
	Sorts        []legacySort       `json:"sorts"`
}

type legacySort struct {
	Name  *string  `json:"name"`
	ID    string   `json:"prop"`
	Types []string `json:"types"`
}

// legacyIDProperty decodes the untagged one-string-or-many-strings shape
// the legacy wire format uses for id_property.
type legacyIDProperty struct {
	values []string
}

func (p *legacyIDProperty) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		p.values = []string{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("addon: legacy id_property neither string nor []string: %w", err)
	}
	p.values = many
	return nil
}

// toManifest mirrors the mapping rules the reference implementation uses:
// catalogs are synthesized from sorts (or bare types) only when meta.find
// is advertised, id_property becomes id_prefixes with two special-cased
// providers, and resources are limited to what the method list proves the
// addon actually implements.
func (m *legacyManifest) toManifest() catalogtypes.Manifest {
	hasMethod := func(name string) bool {
		for _, x := range m.Methods {
			if x == name {
				return true
			}
		}
		return false
	}

	var catalogs []catalogtypes.ManifestCatalog
	if hasMethod("meta.find") {
		if len(m.Sorts) > 0 {
			for _, sort := range m.Sorts {
				types := sort.Types
				if len(types) == 0 {
					types = m.Types
				}
				for _, t := range types {
					catalogs = append(catalogs, catalogtypes.ManifestCatalog{
						Type: t,
						ID:   sort.ID,
						Name: sort.Name,
					})
				}
			}
		} else {
			for _, t := range m.Types {
				catalogs = append(catalogs, catalogtypes.ManifestCatalog{
					Type: t,
					ID:   "top",
				})
			}
		}
	}

	var idPrefixes []string
	if len(m.IDProperty.values) > 0 {
		for _, p := range m.IDProperty.values {
			switch p {
			case "imdb_id":
				idPrefixes = append(idPrefixes, "tt")
			case "yt_id":
				idPrefixes = append(idPrefixes, "UC")
			default:
				idPrefixes = append(idPrefixes, p+":")
			}
		}
	}

	var resources []catalogtypes.ManifestResource
	if hasMethod("meta.get") {
		resources = append(resources, catalogtypes.ShortResource("meta"))
	}
	if hasMethod("stream.find") {
		resources = append(resources, catalogtypes.ShortResource("stream"))
	}
	if len(idPrefixes) > 0 {
		for i := range resources {
			resources[i].IDPrefixes = idPrefixes
			resources[i].Full = true
		}
	}

	return catalogtypes.Manifest{
		ID:           m.ID,
		Name:         m.Name,
		Version:      m.Version,
		Resources:    resources,
		Types:        m.Types,
		Catalogs:     catalogs,
		Background:   m.Background,
		Logo:         m.Logo,
		Description:  m.Description,
		ContactEmail: m.ContactEmail,
	}
}
