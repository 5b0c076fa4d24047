package core

import "testing"

func TestPresenceRegisterLookupUnregister(t *testing.T) {
	p := NewPresence()

	if _, ok := p.Lookup("1"); ok {
		t.Fatalf("expected no record")
	}

	p.Register("1", "r1", "alice")
	room, ok := p.Lookup("1")
	if !ok || room != "r1" {
		t.Fatalf("expected r1, got %q (%v)", room, ok)
	}

	// Stale unregister for another room is ignored.
	if p.Unregister("1", "r2") {
		t.Fatalf("unregister with wrong room must not remove")
	}
	if _, ok := p.Lookup("1"); !ok {
		t.Fatalf("record removed by stale unregister")
	}

	if !p.Unregister("1", "r1") {
		t.Fatalf("expected record to be removed")
	}
	if _, ok := p.Lookup("1"); ok {
		t.Fatalf("record still present")
	}
	if p.Unregister("1", "r1") {
		t.Fatalf("second unregister must be a no-op")
	}
}

func TestPresenceRegisterOverwritesOtherRoom(t *testing.T) {
	p := NewPresence()
	p.Register("1", "r1", "alice")
	p.Register("1", "r2", "alice")

	if room, _ := p.Lookup("1"); room != "r2" {
		t.Fatalf("expected r2, got %q", room)
	}
	if got := p.MembersOf("r1"); len(got) != 0 {
		t.Fatalf("expected r1 roster to be empty, got %v", got)
	}
}

func TestPresenceSameRoomIsReferenceCounted(t *testing.T) {
	p := NewPresence()
	p.Register("1", "r1", "alice")
	p.Register("1", "r1", "alice2")

	if got := p.MembersOf("r1"); len(got) != 1 || got["1"] != "alice2" {
		t.Fatalf("expected single entry with latest name, got %v", got)
	}

	if p.Unregister("1", "r1") {
		t.Fatalf("first unregister must keep the record")
	}
	if _, ok := p.Lookup("1"); !ok {
		t.Fatalf("record dropped while a connection remains")
	}
	if !p.Unregister("1", "r1") {
		t.Fatalf("last unregister must drop the record")
	}
}

func TestPresenceMembersOfReturnsCopy(t *testing.T) {
	p := NewPresence()
	p.Register("1", "r1", "alice")
	p.Register("2", "r1", "bob")
	p.Register("3", "r2", "carol")

	got := p.MembersOf("r1")
	if len(got) != 2 || got["1"] != "alice" || got["2"] != "bob" {
		t.Fatalf("unexpected roster: %v", got)
	}

	got["9"] = "mallory"
	if _, ok := p.MembersOf("r1")["9"]; ok {
		t.Fatalf("roster must be a copy")
	}
}
