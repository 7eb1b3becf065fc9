package jsontemplar

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

func TestIsInsideArray(t *testing.T) {
	tpl := `{"a":[1,2],"s":"[","b":3}`
	cases := []struct {
		offset int
		want   bool
	}{
		{4, false},
		{6, true},
		{9, true},
		{10, false},
		{len(tpl), false},
		{len(tpl) + 10, false},
	}
	for _, c := range cases {
		if got := IsInsideArray(tpl, c.offset); got != c.want {
			t.Errorf("IsInsideArray(%d) = %v, want %v", c.offset, got, c.want)
		}
	}
	// скобка внутри строки не открывает массив
	if IsInsideArray(`{"s":"[\"x","t":`, 16) {
		t.Error("bracket inside string literal counted")
	}
}

func TestFindArrayRegions(t *testing.T) {
	got := FindArrayRegions(`{"a":[1,[2]],"s":"[x]"}`)
	want := []Region{{Start: 8, End: 11}, {Start: 5, End: 12}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("regions (-want +got):\n%s", diff)
	}
	if got := FindArrayRegions("[[]"); len(got) != 1 || got[0] != (Region{Start: 1, End: 3}) {
		t.Fatalf("unbalanced = %+v", got)
	}
}

func TestFindArraysInJSON(t *testing.T) {
	got := FindArraysInJSON(`{"a":{"b":[{"x":1}]}}`)
	want := []ArrayInfo{{Path: "a.b", Preview: `{"x":1}`, Length: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("arrays (-want +got):\n%s", diff)
	}
}

func TestFindArraysInJSON_Nested(t *testing.T) {
	got := FindArraysInJSON(`{"items":[{"tags":["a","b"]},{"tags":[]}],"empty":[]}`)
	want := []ArrayInfo{
		{Path: "items", Preview: `{"tags":["a","b"]}`, Length: 2},
		{Path: "items.0.tags", Preview: `"a"`, Length: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("arrays (-want +got):\n%s", diff)
	}
}

func TestFindArraysInJSON_EdgeCases(t *testing.T) {
	if got := FindArraysInJSON(`{"a":`); got == nil || len(got) != 0 {
		t.Fatalf("invalid JSON = %#v, want empty slice", got)
	}
	if got := FindArraysInJSON(`[1,2]`); len(got) != 0 {
		t.Fatalf("root array reported: %+v", got)
	}
	got := FindArraysInJSON(`{"list":[{"n":{{n}}, "s":"{{name}}"}]}`)
	if len(got) != 1 || got[0].Preview != `{"n":{{n}},"s":"{{name}}"}` {
		t.Fatalf("bare placeholder preview = %+v", got)
	}
	long := `{"l":["` + strings.Repeat("x", 60) + `"]}`
	got = FindArraysInJSON(long)
	if len(got) != 1 || !strings.HasSuffix(got[0].Preview, "...") || len([]rune(got[0].Preview)) != 53 {
		t.Fatalf("long preview = %+v", got)
	}
}

func TestMaskBarePlaceholders(t *testing.T) {
	src := `{"a":"{{x}}","b":{{y}}}`
	masked, m := maskBarePlaceholders(src)
	if masked != `{"a":"{{x}}","b":"__jsontemplar_bare_0__"}` {
		t.Fatalf("masked = %s", masked)
	}
	if !gjson.Valid(masked) {
		t.Fatal("masked template must be valid JSON")
	}
	if back := m.restore(masked); back != src {
		t.Fatalf("restore = %s", back)
	}
}

func TestDrill(t *testing.T) {
	doc := gjson.Parse(`{"a":[{"b":[1,2]}],"s":1,"k.d":{"z":[0]}}`)

	v, err := drill(doc, []string{"a", "0", "b"})
	if err != nil || !v.IsArray() || len(v.Array()) != 2 {
		t.Fatalf("a.0.b = %v, %v", v, err)
	}
	if _, err := drill(doc, []string{"s", "x"}); err == nil {
		t.Fatal("drill through scalar must fail")
	}
	if _, err := drill(doc, []string{"a", "5"}); err == nil {
		t.Fatal("index out of range must fail")
	}
	if _, err := drill(doc, []string{"missing"}); err == nil {
		t.Fatal("missing key must fail")
	}
	if v, err := drill(doc, []string{"k.d", "z"}); err != nil || !v.IsArray() {
		t.Fatalf("dotted key = %v, %v", v, err)
	}
}

func TestSplitPath(t *testing.T) {
	segs, err := splitPath(" data.items ")
	if err != nil || len(segs) != 2 {
		t.Fatalf("splitPath = %v, %v", segs, err)
	}
	for _, bad := range []string{"", "a..b", ".a"} {
		if _, err := splitPath(bad); err == nil {
			t.Errorf("splitPath(%q) must fail", bad)
		}
	}
	if got := escapePath([]string{"a.b", "c"}); got != `a\.b.c` {
		t.Fatalf("escapePath = %s", got)
	}
}
