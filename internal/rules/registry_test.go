package rules

import "testing"

func mockDescriptor(id, alias string) Descriptor {
	return Descriptor{
		ID:              id,
		Alias:           alias,
		Description:     "mock rule " + id,
		RuleType:        RuleTypeToken,
		DefaultSeverity: SeverityError,
		New:             func(Context) Analyzer { return nil },
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	reg.Register(mockDescriptor("MD900", "mock-one"))

	if _, ok := reg.ByID("MD900"); !ok {
		t.Error("ByID(MD900) not found after registration")
	}
	if _, ok := reg.ByAlias("mock-one"); !ok {
		t.Error("ByAlias(mock-one) not found after registration")
	}
}

func TestRegistry_Register_DuplicateID(t *testing.T) {
	reg := NewRegistry()
	reg.Register(mockDescriptor("MD900", "mock-one"))

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate id registration")
		}
	}()
	reg.Register(mockDescriptor("MD900", "mock-two"))
}

func TestRegistry_Register_DuplicateAlias(t *testing.T) {
	reg := NewRegistry()
	reg.Register(mockDescriptor("MD900", "mock-one"))

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate alias registration")
		}
	}()
	reg.Register(mockDescriptor("MD901", "mock-one"))
}

func TestRegistry_All_SortedByID(t *testing.T) {
	reg := NewRegistry()
	reg.Register(mockDescriptor("MD903", "c"))
	reg.Register(mockDescriptor("MD901", "a"))
	reg.Register(mockDescriptor("MD902", "b"))

	all := reg.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d, want 3", len(all))
	}
	want := []string{"MD901", "MD902", "MD903"}
	for i, d := range all {
		if d.ID != want[i] {
			t.Errorf("All()[%d].ID = %q, want %q", i, d.ID, want[i])
		}
	}
}

func TestRegistry_Aliases_Sorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(mockDescriptor("MD901", "zeta"))
	reg.Register(mockDescriptor("MD902", "alpha"))

	aliases := reg.Aliases()
	if len(aliases) != 2 || aliases[0] != "alpha" || aliases[1] != "zeta" {
		t.Errorf("Aliases() = %v, want [alpha zeta]", aliases)
	}
}

func TestRegistry_ByID_NotFound(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.ByID("MD000"); ok {
		t.Error("ByID should not find an unregistered id")
	}
}
