package catalogtypes

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestManifestResourceDecodesBareStringForm(t *testing.T) {
	var r ManifestResource
	if err := json.Unmarshal([]byte(`"catalog"`), &r); err != nil {
		t.Fatalf("decode bare string: %v", err)
	}
	if r.Name != "catalog" || r.Full {
		t.Errorf("got %+v, want Name=catalog Full=false", r)
	}
}

func TestManifestResourceDecodesObjectFormAndSetsFull(t *testing.T) {
	var r ManifestResource
	body := `{"name":"meta","types":["movie"],"idPrefixes":["tt"]}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("decode object form: %v", err)
	}
	if !r.Full {
		t.Error("object-form decode must set Full=true")
	}
	if r.Name != "meta" || len(r.Types) != 1 || r.Types[0] != "movie" {
		t.Errorf("got %+v", r)
	}
}

func TestManifestCatalogDecodesShortExtraForm(t *testing.T) {
	var c ManifestCatalog
	body := `{"type":"movie","id":"top","extra":{"required":["genre"],"supported":["genre","skip"]}}`
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatalf("decode short extra form: %v", err)
	}
	if c.Extra2 == nil {
		t.Fatal("expected Extra2 to be populated")
	}
	if len(c.Extra) != 0 {
		t.Errorf("full Extra should stay nil when the short form is used, got %+v", c.Extra)
	}
	if got := c.RequiredExtraNames(); len(got) != 1 || got[0] != "genre" {
		t.Errorf("RequiredExtraNames() = %v, want [genre]", got)
	}
}

func TestManifestCatalogDecodesFullExtraForm(t *testing.T) {
	var c ManifestCatalog
	body := `{"type":"movie","id":"top","extra":[{"name":"genre","isRequired":true}]}`
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatalf("decode full extra form: %v", err)
	}
	if c.Extra2 != nil {
		t.Errorf("Extra2 should stay nil when the full array form is used, got %+v", c.Extra2)
	}
	if got := c.RequiredExtraNames(); len(got) != 1 || got[0] != "genre" {
		t.Errorf("RequiredExtraNames() = %v, want [genre]", got)
	}
}

func TestManifestResourceMarshalRoundTrip(t *testing.T) {
	short := ShortResource("catalog")
	data, err := json.Marshal(short)
	if err != nil {
		t.Fatalf("marshal short: %v", err)
	}
	var back ManifestResource
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal short round-trip: %v", err)
	}
	if back.Name != "catalog" || back.Full {
		t.Errorf("round-trip mismatch: %+v", back)
	}

	full := ManifestResource{Name: "meta", Types: []string{"series"}, Full: true}
	data, err = json.Marshal(full)
	if err != nil {
		t.Fatalf("marshal full: %v", err)
	}
	var backFull ManifestResource
	if err := json.Unmarshal(data, &backFull); err != nil {
		t.Fatalf("unmarshal full round-trip: %v", err)
	}
	if backFull.Name != "meta" || !backFull.Full || len(backFull.Types) != 1 {
		t.Errorf("round-trip mismatch: %+v", backFull)
	}
}
