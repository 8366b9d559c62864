package registry

import (
	"sync"
	"testing"

	"github.com/arthur-debert/repath/pkg/errors"
)

// factory is a representative item type for these tests
type factory struct {
	Name string
}

func TestNew(t *testing.T) {
	reg := New[factory]()

	if reg == nil {
		t.Fatal("New() returned nil")
	}

	if reg.Count() != 0 {
		t.Errorf("New registry should be empty, got count %d", reg.Count())
	}
}

func TestRegister(t *testing.T) {
	t.Run("register valid item", func(t *testing.T) {
		reg := New[factory]()
		if err := reg.Register("glob", factory{Name: "glob"}); err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}

		if reg.Count() != 1 {
			t.Errorf("Count() = %d, want 1", reg.Count())
		}
	})

	t.Run("register with empty name", func(t *testing.T) {
		reg := New[factory]()
		err := reg.Register("", factory{})

		if err == nil {
			t.Fatal("Register(\"\") should fail")
		}
		if !errors.IsErrorCode(err, errors.ErrInvalidInput) {
			t.Errorf("Register(\"\") error code = %v, want INVALID_INPUT", errors.GetErrorCode(err))
		}
	})

	t.Run("register duplicate name", func(t *testing.T) {
		reg := New[factory]()
		if err := reg.Register("glob", factory{}); err != nil {
			t.Fatalf("first Register() error = %v", err)
		}

		err := reg.Register("glob", factory{})
		if err == nil {
			t.Fatal("duplicate Register() should fail")
		}
		if !errors.IsErrorCode(err, errors.ErrAlreadyExists) {
			t.Errorf("duplicate Register() error code = %v, want ALREADY_EXISTS", errors.GetErrorCode(err))
		}
	})
}

func TestGet(t *testing.T) {
	reg := New[factory]()
	if err := reg.Register("move", factory{Name: "move"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("get existing item", func(t *testing.T) {
		item, err := reg.Get("move")
		if err != nil {
			t.Fatalf("Get() error = %v, want nil", err)
		}
		if item.Name != "move" {
			t.Errorf("Get() item name = %q, want %q", item.Name, "move")
		}
	})

	t.Run("get missing item", func(t *testing.T) {
		_, err := reg.Get("missing")
		if err == nil {
			t.Fatal("Get(missing) should fail")
		}
		if !errors.IsErrorCode(err, errors.ErrNotFound) {
			t.Errorf("Get(missing) error code = %v, want NOT_FOUND", errors.GetErrorCode(err))
		}
	})
}

func TestListIsSorted(t *testing.T) {
	reg := New[factory]()
	for _, name := range []string{"rename", "glob", "move"} {
		if err := reg.Register(name, factory{Name: name}); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	names := reg.List()
	want := []string{"glob", "move", "rename"}
	if len(names) != len(want) {
		t.Fatalf("List() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestHas(t *testing.T) {
	reg := New[factory]()
	_ = reg.Register("glob", factory{})

	if !reg.Has("glob") {
		t.Error("Has(glob) = false, want true")
	}
	if reg.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}
}

func TestConcurrentAccess(t *testing.T) {
	reg := New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		name := string(rune('a' + i%26))
		go func(n string, v int) {
			defer wg.Done()
			_ = reg.Register(n, v)
		}(name, i)
		go func(n string) {
			defer wg.Done()
			_ = reg.Has(n)
			_, _ = reg.Get(n)
		}(name)
	}

	wg.Wait()

	if reg.Count() == 0 {
		t.Error("expected some registrations to succeed")
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := New[factory]()
	MustRegister(reg, "glob", factory{})

	defer func() {
		if recover() == nil {
			t.Error("MustRegister on a duplicate should panic")
		}
	}()
	MustRegister(reg, "glob", factory{})
}
