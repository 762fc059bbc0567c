package group

import (
	"slices"
	"testing"

	"github.com/KaramelBytes/spreaddash-cli/internal/csvload"
)

type cv struct {
	c string
	v int
}

func TestByPreservesFirstSeenOrder(t *testing.T) {
	items := []cv{{"A", 1}, {"B", 2}, {"A", 3}}
	g := By(items, func(x cv) any { return x.c })

	if got := g.Keys(); !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("keys: got %v", got)
	}
	if got := g.Get("A"); !slices.Equal(got, []cv{{"A", 1}, {"A", 3}}) {
		t.Fatalf("group A: got %v", got)
	}
	if got := g.Get("B"); !slices.Equal(got, []cv{{"B", 2}}) {
		t.Fatalf("group B: got %v", got)
	}
	if g.Len() != 2 {
		t.Fatalf("len: got %d", g.Len())
	}
	if g.Get("C") != nil {
		t.Fatalf("unknown key should be nil")
	}
}

func TestByFieldRecords(t *testing.T) {
	tbl, err := csvload.ParseString("c,v,year\nA,1,2010\nB,2,2011\nA,3,2010\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	g := ByField(tbl.Rows, "c")
	if got := g.Keys(); !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("keys: got %v", got)
	}
	a := g.Get("A")
	if len(a) != 2 || a[0]["v"].Num != 1 || a[1]["v"].Num != 3 {
		t.Fatalf("group A rows out of order: %v", a)
	}

	if got := ByField(tbl.Rows, "year").Keys(); !slices.Equal(got, []string{"2010", "2011"}) {
		t.Fatalf("numeric keys: got %v", got)
	}

	missing := ByField(tbl.Rows, "country")
	if got := missing.Keys(); !slices.Equal(got, []string{Undefined}) {
		t.Fatalf("missing field keys: got %v", got)
	}
	if n := len(missing.Get(Undefined)); n != 3 {
		t.Fatalf("missing field group size: got %d", n)
	}
}

func TestKeyString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "undefined"},
		{1.5, "1.5"},
		{2013.0, "2013"},
		{7, "7"},
		{true, "true"},
		{csvload.Null(), "null"},
	}
	for _, c := range cases {
		if got := KeyString(c.in); got != c.want {
			t.Errorf("KeyString(%#v): got %q want %q", c.in, got, c.want)
		}
	}
}

func TestEachStopsEarly(t *testing.T) {
	g := By([]int{1, 2, 3, 4}, func(i int) any { return i % 2 })
	var seen []string
	g.Each(func(k string, items []int) bool {
		seen = append(seen, k)
		return false
	})
	if !slices.Equal(seen, []string{"1"}) {
		t.Fatalf("each visited %v", seen)
	}
	if len(g.Map()) != 2 {
		t.Fatalf("map size: got %d", len(g.Map()))
	}
}
