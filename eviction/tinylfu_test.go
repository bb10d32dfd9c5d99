package eviction

import (
	"fmt"
	"testing"
)

func TestTinyLFU_InsertAndDelete(t *testing.T) {
	lfu := NewTinyLFU[string](100)

	lfu.OnInsert("key1")
	lfu.OnInsert("key2")
	lfu.OnInsert("key2")

	if lfu.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", lfu.Len())
	}

	lfu.OnDelete("key1")
	lfu.OnDelete("missing")

	if lfu.Len() != 1 {
		t.Fatalf("expected 1 item after delete, got %d", lfu.Len())
	}
}

func TestTinyLFU_VictimEmpty(t *testing.T) {
	lfu := NewTinyLFU[string](100)

	if _, ok := lfu.Victim(); ok {
		t.Error("expected no victim from empty policy")
	}
}

func TestTinyLFU_KeepsFrequentKeys(t *testing.T) {
	lfu := NewTinyLFU[string](5)

	for i := 0; i < 5; i++ {
		lfu.OnInsert(fmt.Sprintf("key%d", i))
	}
	for i := 0; i < 10; i++ {
		lfu.OnAccess("key0")
		lfu.OnAccess("key1")
	}

	lfu.OnInsert("newkey")

	victim, ok := lfu.Victim()
	if !ok {
		t.Fatal("expected a victim")
	}
	if victim == "key0" || victim == "key1" {
		t.Fatalf("frequently accessed key %s chosen as victim", victim)
	}
}

func TestTinyLFU_PromotesHotCandidate(t *testing.T) {
	lfu := NewTinyLFU[string](3)

	lfu.OnInsert("cold1")
	lfu.OnInsert("cold2")
	lfu.OnInsert("hot")
	for i := 0; i < 10; i++ {
		lfu.OnAccess("hot")
	}
	lfu.OnInsert("extra")

	// window holds "extra"; "hot" was pushed into main, so the contest is
	// between the fresh "extra" and the main tail "cold1".
	victim, ok := lfu.Victim()
	if !ok {
		t.Fatal("expected a victim")
	}
	if victim == "hot" {
		t.Fatal("hot key must not be the victim")
	}
}

func TestTinyLFU_Clear(t *testing.T) {
	lfu := NewTinyLFU[int](100)

	for i := 0; i < 50; i++ {
		lfu.OnInsert(i)
	}

	lfu.Clear()

	if lfu.Len() != 0 {
		t.Errorf("expected 0 after clear, got %d", lfu.Len())
	}
	if _, ok := lfu.Victim(); ok {
		t.Error("expected no victim after clear")
	}
}
