package catalogtypes

import "testing"

func TestResourcePathToURLPathEncodesExtras(t *testing.T) {
	p := ResourcePath{
		Resource: "watchStatus",
		Type:     "series",
		ID:       "tt0944947",
		Extra: []ExtraValue{
			{Name: "action", Value: "resume"},
			{Name: "currentTime", Value: "3600000"},
			{Name: "duration", Value: "5400000"},
		},
	}
	want := "/watchStatus/series/tt0944947/action=resume&currentTime=3600000&duration=5400000.json"
	if got := p.ToURLPath(); got != want {
		t.Errorf("ToURLPath() = %q, want %q", got, want)
	}
}

func TestResourcePathNoExtra(t *testing.T) {
	p := ResourcePath{Resource: "stream", Type: "serial", ID: "tt0944947"}
	want := "/stream/serial/tt0944947.json"
	if got := p.ToURLPath(); got != want {
		t.Errorf("ToURLPath() = %q, want %q", got, want)
	}
}

func TestResourceRequestEqual(t *testing.T) {
	a := ResourceRequest{Base: "https://x/manifest.json", Path: ResourcePath{Resource: "catalog", Type: "movie", ID: "top"}}
	b := ResourceRequest{Base: "https://x/manifest.json", Path: ResourcePath{Resource: "catalog", Type: "movie", ID: "top"}}
	c := ResourceRequest{Base: "https://x/manifest.json", Path: ResourcePath{Resource: "catalog", Type: "series", ID: "top"}}
	if !a.Equal(b) {
		t.Error("expected a == b")
	}
	if a.Equal(c) {
		t.Error("expected a != c")
	}
}
