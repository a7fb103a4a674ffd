package power

import "testing"

type testSupply struct {
	name string
}

func (s *testSupply) Name() string { return s.name }

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	ac := &testSupply{name: "ac"}
	if err := reg.Register(ac); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(&testSupply{name: "ac"}); err == nil {
		t.Fatal("duplicate name registered")
	}

	reg.Unregister(ac)
	if err := reg.Register(ac); err != nil {
		t.Fatalf("re-register after unregister: %v", err)
	}
}

func TestRegistryPowerChanged(t *testing.T) {
	reg := NewRegistry()

	var seen []string
	reg.Subscribe(func(s Supply) { seen = append(seen, s.Name()) })

	// Nothing registered: the notification is swallowed.
	reg.PowerChanged()
	if len(seen) != 0 {
		t.Fatalf("notified %v with an empty registry", seen)
	}

	ac := &testSupply{name: "ac"}
	bat := &testSupply{name: "bat"}
	reg.Register(ac)
	reg.Register(bat)
	reg.PowerChanged()
	if len(seen) != 2 || seen[0] != "ac" || seen[1] != "bat" {
		t.Fatalf("notified %v, want [ac bat]", seen)
	}

	reg.Unregister(ac)
	seen = nil
	reg.PowerChanged()
	if len(seen) != 1 || seen[0] != "bat" {
		t.Fatalf("notified %v, want [bat]", seen)
	}
}
