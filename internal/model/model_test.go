package model

import "testing"

func TestActivityIDIndependentOfUsedOrder(t *testing.T) {
	a := NewActivity("2024-01-01T00:00:00+00:00", "", "loc", "label", "means", []string{"1", "2", "3"}, true)
	b := NewActivity("2024-01-01T00:00:00+00:00", "", "loc", "label", "means", []string{"3", "2", "1"}, true)
	if a.ID() != b.ID() {
		t.Fatalf("activity id depends on used order: %s vs %s", a.ID(), b.ID())
	}
}

func TestActivityIDIndependentOfEndTime(t *testing.T) {
	a := NewActivity("2024-01-01T00:00:00+00:00", "", "loc", "label", "means", nil, true)
	b := NewActivity("2024-01-01T00:00:00+00:00", "2024-01-02T00:00:00+00:00", "loc", "label", "means", nil, true)
	if a.ID() != b.ID() {
		t.Fatalf("activity id must not depend on end_time: %s vs %s", a.ID(), b.ID())
	}
}

func TestActivityNonDeterministicByDefaultDiffers(t *testing.T) {
	a := NewActivity("2024-01-01T00:00:00+00:00", "", "loc", "label", "means", nil, false)
	b := NewActivity("2024-01-01T00:00:00+00:00", "", "loc", "label", "means", nil, false)
	if a.ID() == b.ID() {
		t.Fatalf("non-deterministic activities with identical fields should not collide")
	}
}

func TestActingSoftwareRequiresDelegate(t *testing.T) {
	if _, err := NewActingSoftware("creator", "1.0", "loc", "label", nil); err != ErrInvalidAgent {
		t.Fatalf("expected ErrInvalidAgent, got %v", err)
	}
}

func TestPersonIdentityDeterministic(t *testing.T) {
	p1 := NewPerson("Ada", "Lovelace", nil)
	p2 := NewPerson("Ada", "Lovelace", nil)
	if p1.ID() != p2.ID() {
		t.Fatalf("person identity should be content-pure: %s vs %s", p1.ID(), p2.ID())
	}
}

func TestSpliceTailAttachesToChainEnd(t *testing.T) {
	configAgent := NewPerson("Ada", "Lovelace", nil)
	tail := NewPerson("Grace", "Hopper", nil)
	spliced, err := SpliceTail(configAgent, tail)
	if err != nil {
		t.Fatalf("SpliceTail: %v", err)
	}
	chain, err := Chain(spliced)
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("expected chain length 2 (ada -> grace), got %d", len(chain))
	}
	if chain[1].(*Person).GivenName != "Grace" {
		t.Fatalf("expected splice to attach to the tail of the chain, got %+v", chain[1])
	}
}
