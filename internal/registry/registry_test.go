package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/motion/internal/render"
)

type stubTarget struct {
	progress float64
	active   bool
}

func (s *stubTarget) Apply(p float64) { s.progress, s.active = p, true }
func (s *stubTarget) Clear() { s.active = false }
func (s *stubTarget) Kind() string { return "stub" }
func (s *stubTarget) Title() string { return "Stub target" }
func (s *stubTarget) Progress() (float64, bool) { return s.progress, s.active }
func (s *stubTarget) Draw(*render.Canvas, int, int, int) {}

func TestRegisterAndCreate(t *testing.T) {
	Register("stub", func() Target { return &stubTarget{} })

	if !Exists("stub") {
		t.Fatal("Exists() = false after Register")
	}

	a, err := Create("stub")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	b, _ := Create("stub")
	if a == b {
		t.Error("Create() should return a new instance each call")
	}

	found := false
	for _, info := range List() {
		if info.Kind == "stub" {
			found = true
			if info.Title != "Stub target" {
				t.Errorf("Unexpected title %q", info.Title)
			}
		}
	}
	if !found {
		t.Error("List() is missing the registered target")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup", func() Target { return &stubTarget{} })

	defer func() {
		if recover() == nil {
			t.Error("Register() of a duplicate kind should panic")
		}
	}()
	Register("dup", func() Target { return &stubTarget{} })
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("no-such-target")
	if !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("Expected ErrUnknownTarget, got %v", err)
	}
	if Exists("no-such-target") {
		t.Error("Exists() = true for an unknown kind")
	}
}

func TestListSorted(t *testing.T) {
	Register("zz-last", func() Target { return &stubTarget{} })
	Register("aa-first", func() Target { return &stubTarget{} })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Kind > list[i].Kind {
			t.Fatalf("List() not sorted: %v", list)
		}
	}
}
