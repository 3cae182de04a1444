package inmem

import (
	"context"
	"testing"

	"github.com/sahayak-ai/sahayak/memory"
)

func TestGetAbsentUser(t *testing.T) {
	s := New()
	p, err := s.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p != nil {
		t.Fatalf("Get returned %+v for an absent user", p)
	}
}

func TestPutThenGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := &memory.StudentProfile{UserName: "রাফি", TopicsOfInterest: []string{"কবিতা"}}
	if err := s.Put(ctx, "u1", in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	out, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.UserName != "রাফি" || len(out.TopicsOfInterest) != 1 {
		t.Fatalf("Get = %+v", out)
	}
}

func TestNoAliasing(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := &memory.StudentProfile{TopicsOfInterest: []string{"কবিতা"}}
	if err := s.Put(ctx, "u1", in); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's record after Put must not change the store.
	in.TopicsOfInterest[0] = "mutated"
	out, _ := s.Get(ctx, "u1")
	if out.TopicsOfInterest[0] != "কবিতা" {
		t.Fatal("store aliases the caller's record")
	}

	// Mutating a Get result must not change the store either.
	out.TopicsOfInterest[0] = "mutated"
	again, _ := s.Get(ctx, "u1")
	if again.TopicsOfInterest[0] != "কবিতা" {
		t.Fatal("Get returned an aliased record")
	}
}

func TestPutOverwrites(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.Put(ctx, "u1", &memory.StudentProfile{UserName: "first"})
	_ = s.Put(ctx, "u1", &memory.StudentProfile{UserName: "second"})

	out, _ := s.Get(ctx, "u1")
	if out.UserName != "second" {
		t.Fatalf("UserName = %q, want last write", out.UserName)
	}
}
