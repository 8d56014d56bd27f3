package blackboard

import (
	"testing"

	"github.com/zwp88/goapflow/domain/bind"
)

type dog struct{ Name string }

type leash struct{ Length int }

type walk struct {
	Dog   dog
	Leash leash
}

func newTestBoard(t *testing.T) *Blackboard {
	t.Helper()
	types := bind.Types{}
	if err := types.Merge(bind.TypeOf[dog]()); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if err := types.Merge(bind.TypeOf[leash]()); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if err := types.Merge(bind.TypeOf[walk]()); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	return New(types)
}

func TestBlackboard_BindAndGet(t *testing.T) {
	t.Parallel()

	bb := newTestBoard(t)
	bb.Bind("rex", dog{Name: "rex"})

	v, ok := bb.Get("rex")
	if !ok {
		t.Fatal("Get() should find bound value")
	}
	if v.(dog).Name != "rex" {
		t.Errorf("Get() = %v, want rex", v)
	}

	if _, ok := bb.Get("missing"); ok {
		t.Error("Get() should miss unknown names")
	}
}

func TestBlackboard_LastWinsForDefaultBinding(t *testing.T) {
	t.Parallel()

	bb := newTestBoard(t)
	bb.Add(dog{Name: "first"})
	bb.Add(dog{Name: "second"})

	v, ok := bb.GetValue("it", "dog")
	if !ok {
		t.Fatal("GetValue() should resolve")
	}
	if v.(dog).Name != "second" {
		t.Errorf("GetValue() = %v, want the most recent dog", v)
	}

	if len(bb.Objects()) != 2 {
		t.Errorf("Objects() = %d entries, want 2; objects are never removed", len(bb.Objects()))
	}
}

func TestBlackboard_GetValue_DefaultFallsBackToTypeScan(t *testing.T) {
	t.Parallel()

	bb := newTestBoard(t)
	bb.Add(dog{Name: "rex"})
	// "it" now points at a leash, which does not satisfy dog.
	bb.Add(leash{Length: 2})

	v, ok := bb.GetValue("it", "dog")
	if !ok {
		t.Fatal("GetValue() should fall back to scanning objects for the default variable")
	}
	if v.(dog).Name != "rex" {
		t.Errorf("GetValue() = %v, want rex", v)
	}
}

func TestBlackboard_GetValue_ExplicitVariableMustMatchPrecisely(t *testing.T) {
	t.Parallel()

	bb := newTestBoard(t)
	bb.Add(dog{Name: "rex"})
	bb.Bind("pet", leash{Length: 2})

	if _, ok := bb.GetValue("pet", "dog"); ok {
		t.Error("GetValue() must not fall back to type scan for explicit variables")
	}
}

func TestBlackboard_AggregationSynthesis(t *testing.T) {
	t.Parallel()

	t.Run("synthesizes and adds when all parts present", func(t *testing.T) {
		t.Parallel()

		bb := newTestBoard(t)
		bb.RegisterAggregation("walk", Aggregate2("dog", "leash", func(d dog, l leash) walk {
			return walk{Dog: d, Leash: l}
		}))
		bb.Add(dog{Name: "rex"})
		bb.Add(leash{Length: 2})

		v, ok := bb.GetValue("it", "walk")
		if !ok {
			t.Fatal("GetValue() should synthesize the aggregation")
		}
		w := v.(walk)
		if w.Dog.Name != "rex" || w.Leash.Length != 2 {
			t.Errorf("synthesized walk = %+v", w)
		}

		// The synthesized instance must have been added to the blackboard.
		if bb.CountOfType("walk") != 1 {
			t.Errorf("CountOfType(walk) = %d, want 1", bb.CountOfType("walk"))
		}
	})

	t.Run("missing part yields no result, not an error", func(t *testing.T) {
		t.Parallel()

		bb := newTestBoard(t)
		bb.RegisterAggregation("walk", Aggregate2("dog", "leash", func(d dog, l leash) walk {
			return walk{Dog: d, Leash: l}
		}))
		bb.Add(dog{Name: "rex"})

		if _, ok := bb.GetValue("it", "walk"); ok {
			t.Error("GetValue() should fail synthesis when a part is missing")
		}
		if bb.CountOfType("walk") != 0 {
			t.Error("failed synthesis must not add anything")
		}
	})
}

func TestBlackboard_TypedViews(t *testing.T) {
	t.Parallel()

	bb := newTestBoard(t)
	bb.Add(dog{Name: "a"})
	bb.Add(leash{Length: 1})
	bb.Add(dog{Name: "b"})

	if got := bb.CountOfType("dog"); got != 2 {
		t.Errorf("CountOfType(dog) = %d, want 2", got)
	}
	if got := len(bb.AllOfType("dog")); got != 2 {
		t.Errorf("AllOfType(dog) = %d entries, want 2", got)
	}

	last, ok := Last[dog](bb)
	if !ok || last.Name != "b" {
		t.Errorf("Last[dog]() = %v, %v; want b", last, ok)
	}
	if got := Count[leash](bb); got != 1 {
		t.Errorf("Count[leash]() = %d, want 1", got)
	}
	if got := len(All[dog](bb)); got != 2 {
		t.Errorf("All[dog]() = %d entries, want 2", got)
	}
}

func TestBlackboard_Spawn(t *testing.T) {
	t.Parallel()

	bb := newTestBoard(t)
	bb.Add(dog{Name: "rex"})
	bb.SetCondition("walked", false)

	child := bb.Spawn()

	// Child sees the parent's state at spawn time.
	if _, ok := child.GetValue("it", "dog"); !ok {
		t.Error("spawned blackboard should carry parent objects")
	}
	if v, ok := child.GetCondition("walked"); !ok || v {
		t.Error("spawned blackboard should carry condition flags")
	}

	// Mutations do not propagate in either direction.
	child.Add(dog{Name: "puppy"})
	if bb.CountOfType("dog") != 1 {
		t.Error("child mutation leaked into parent")
	}
	bb.SetCondition("walked", true)
	if v, _ := child.GetCondition("walked"); v {
		t.Error("parent mutation leaked into child")
	}
}

func TestBlackboard_Observers(t *testing.T) {
	t.Parallel()

	bb := newTestBoard(t)
	var seen []string
	bb.Observe(func(name string, value any) {
		seen = append(seen, name)
	})

	bb.Add(dog{Name: "rex"})
	bb.Bind("lead", leash{Length: 2})

	if len(seen) != 2 || seen[0] != "it" || seen[1] != "lead" {
		t.Errorf("observer saw %v, want [it lead]", seen)
	}
}

func TestBlackboard_ConditionFlags(t *testing.T) {
	t.Parallel()

	bb := newTestBoard(t)
	if _, ok := bb.GetCondition("ready"); ok {
		t.Error("unset condition should report not set")
	}
	bb.SetCondition("ready", true)
	v, ok := bb.ConditionFlag("ready")
	if !ok || !v {
		t.Errorf("ConditionFlag(ready) = %v, %v; want true, true", v, ok)
	}
}

func TestBlackboard_SnapshotRestore(t *testing.T) {
	t.Parallel()

	bb := newTestBoard(t)
	bb.Bind("rex", dog{Name: "rex"})
	bb.SetCondition("walked", true)
	bb.Bind("unserializable", make(chan int))

	s := bb.Snapshot()
	if _, ok := s.Bindings["rex"]; !ok {
		t.Error("snapshot should include serializable bindings")
	}
	if _, ok := s.Bindings["unserializable"]; ok {
		t.Error("snapshot should skip unmarshalable bindings")
	}
	if !s.Conditions["walked"] {
		t.Error("snapshot should include condition flags")
	}

	restored := newTestBoard(t)
	restored.Restore(s)
	if v, ok := restored.GetCondition("walked"); !ok || !v {
		t.Error("restore should reapply condition flags")
	}
	if _, ok := restored.Get("rex"); !ok {
		t.Error("restore should rebind raw values")
	}
}
