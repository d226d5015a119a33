package bitfield

import "testing"

func TestRoundTrip(t *testing.T) {
	videoIDs := []string{"v1", "v2", "v3", "v4", "v5"}
	watched := []bool{true, false, true, true, false}

	f := Construct(watched, videoIDs)
	serialized, err := f.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	parsed, err := Parse(serialized, videoIDs)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for i, want := range watched {
		if got := parsed.Get(i); got != want {
			t.Errorf("Get(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestReanchorOnGrowth(t *testing.T) {
	videoIDs := []string{"v1", "v2", "v3"}
	f := Construct([]bool{true, true, false}, videoIDs)
	serialized, err := f.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	grown := []string{"v1", "v2", "v3", "v4", "v5"}
	parsed, err := Parse(serialized, grown)
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.GetVideo("v1") || !parsed.GetVideo("v2") {
		t.Error("expected v1, v2 to remain watched after growth")
	}
	if parsed.GetVideo("v4") || parsed.GetVideo("v5") {
		t.Error("expected new episodes to be unwatched")
	}
}

func TestMissingAnchorReturnsBlank(t *testing.T) {
	videoIDs := []string{"v1", "v2"}
	parsed, err := Parse("missing:2:AAA=", videoIDs)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.GetVideo("v1") || parsed.GetVideo("v2") {
		t.Error("expected blank field when anchor is absent")
	}
}

func TestNotEnoughComponents(t *testing.T) {
	_, err := Parse("onlyonecolon:here", []string{"v1"})
	if err == nil {
		t.Fatal("expected error for malformed token")
	}
}
