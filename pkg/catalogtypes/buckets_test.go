package catalogtypes

import "testing"

func TestLibraryMergeKeepsNewerByMtime(t *testing.T) {
	b := NewLibraryBucket(nil, []LibraryItem{{ID: "X", Mtime: 100, Name: "old"}})

	b.MergeItems([]LibraryItem{{ID: "X", Mtime: 90, Name: "stale"}})
	if got := b.Items["X"].Name; got != "old" {
		t.Errorf("lower mtime should not overwrite, got name %q", got)
	}

	b.MergeItems([]LibraryItem{{ID: "X", Mtime: 100, Name: "tied"}})
	if got := b.Items["X"].Name; got != "tied" {
		t.Errorf("equal mtime should overwrite (>= rule), got name %q", got)
	}

	b.MergeItems([]LibraryItem{{ID: "X", Mtime: 150, Name: "newer"}})
	if got := b.Items["X"].Name; got != "newer" {
		t.Errorf("greater mtime should overwrite, got name %q", got)
	}
}

func TestLibraryMergeMismatchedUIDNoOp(t *testing.T) {
	uidA, uidB := "a", "b"
	local := NewLibraryBucket(&uidA, []LibraryItem{{ID: "X", Mtime: 1}})
	remote := NewLibraryBucket(&uidB, []LibraryItem{{ID: "X", Mtime: 999}})

	local.MergeBucket(remote)
	if got := local.Items["X"].Mtime; got != 1 {
		t.Errorf("buckets with mismatched uid must not merge, got mtime %d", got)
	}
}

func TestSplitByRecentTop200(t *testing.T) {
	items := make([]LibraryItem, 0, 250)
	for i := 0; i < 250; i++ {
		items = append(items, LibraryItem{ID: string(rune('a' + i%26)) + itoaForTest(i), Mtime: int64(i)})
	}
	b := NewLibraryBucket(nil, items)
	recent, other := b.SplitByRecent()
	if len(recent) != LibraryRecentCount {
		t.Fatalf("expected %d recent items, got %d", LibraryRecentCount, len(recent))
	}
	if len(other) != 250-LibraryRecentCount {
		t.Fatalf("expected %d other items, got %d", 250-LibraryRecentCount, len(other))
	}
	for _, it := range recent {
		if it.Mtime < int64(250-LibraryRecentCount) {
			t.Errorf("recent item has mtime %d, expected it among the 200 greatest", it.Mtime)
		}
	}
}

func itoaForTest(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [8]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

func TestServerURLsCapacityEviction(t *testing.T) {
	b := NewServerUrlsBucket(nil, "https://default", 0)
	for i := 1; i <= ServerURLBookCapacity+5; i++ {
		b.Add("https://server"+itoaForTest(i), int64(i))
	}
	if len(b.Items) != ServerURLBookCapacity {
		t.Fatalf("expected capacity %d, got %d entries", ServerURLBookCapacity, len(b.Items))
	}
	if _, ok := b.Items[DefaultServerURLID]; !ok {
		t.Error("default entry must never be evicted")
	}
}

func TestServerURLsDefaultNotDeletable(t *testing.T) {
	b := NewServerUrlsBucket(nil, "https://default", 0)
	if b.Delete(DefaultServerURLID) {
		t.Error("default entry must not be deletable")
	}
}

func TestNotificationsDedupFirstWins(t *testing.T) {
	b := NewNotificationsBucket(nil, 0)
	b.Add(NotificationItem{MetaID: "m1", VideoID: "v1", Video: "first"})
	b.Add(NotificationItem{MetaID: "m1", VideoID: "v1", Video: "second"})
	if got := b.Items["m1"]["v1"].Video; got != "first" {
		t.Errorf("expected first insertion to win, got %v", got)
	}
}
