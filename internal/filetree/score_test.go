package filetree

import "testing"

func TestInitialScore(t *testing.T) {
	tc := NewTreeContext("/proj", nil)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"plain source file", "/proj/a.ts", 3},
		{"markup file", "/proj/notes.md", 1},
		{"unknown extension", "/proj/data.bin", 0},
		{"manifest outranks source", "/proj/package.json", 4},
		{"source dir bonus", "/proj/src/a.ts", 5},
		{"test dir smaller bonus", "/proj/tests/a.ts", 4},
		{"significant name", "/proj/index.ts", 5},
		{"src plus significant name", "/proj/src/index.ts", 7},
		{"nested src only counts top level", "/proj/pkg/src/a.ts", 3},
	}

	for _, tcase := range tests {
		t.Run(tcase.name, func(t *testing.T) {
			n := &Node{Path: tcase.path, Name: basename(tcase.path)}
			got := tc.initialScore(n)
			if got != tcase.want {
				t.Errorf("initialScore(%s) = %d, want %d", tcase.path, got, tcase.want)
			}
		})
	}
}

func TestRefineScore_CentralityBonuses(t *testing.T) {
	tc := NewTreeContext("/proj", nil)

	n := &Node{
		Path: "/proj/hub.ts",
		Name: "hub.ts",
		// Five dependents, caps at +3.
		Dependents: []string{"/proj/a.ts", "/proj/b.ts", "/proj/c.ts", "/proj/d.ts", "/proj/e.ts"},
		// Three local dependencies, caps at +2.
		Dependencies: []string{"/proj/x.ts", "/proj/y.ts", "/proj/z.ts"},
	}
	tc.refineScore(n)
	// 3 (ext) + 3 (dependents) + 2 (deps) = 8
	if n.Importance != 8 {
		t.Errorf("importance = %d, want 8", n.Importance)
	}
}

func TestRefineScore_SDKSplit(t *testing.T) {
	tc := NewTreeContext("/proj", nil)

	n := &Node{
		Path: "/proj/a.ts",
		Name: "a.ts",
		PackageDependencies: []PackageDependency{
			{Name: DefaultSDKPackage},
			{Name: "express"},
			{Name: "lodash"},
		},
	}
	tc.refineScore(n)
	// 3 (ext) + min(1 sdk, 2) + min(2 other, 1) = 5
	if n.Importance != 5 {
		t.Errorf("importance = %d, want 5", n.Importance)
	}
}

func TestRefineScore_ConfigurableSDKPackage(t *testing.T) {
	tc := NewTreeContext("/proj", nil)
	tc.SDKPackage = "my-sdk"

	n := &Node{
		Path:                "/proj/a.ts",
		Name:                "a.ts",
		PackageDependencies: []PackageDependency{{Name: "my-sdk"}},
	}
	tc.refineScore(n)
	// 3 (ext) + 1 (sdk-classified) = 4
	if n.Importance != 4 {
		t.Errorf("importance = %d, want 4", n.Importance)
	}
}

func TestRefineScore_Clamps(t *testing.T) {
	tc := NewTreeContext("/proj", nil)

	n := &Node{
		Path:         "/proj/src/index.ts",
		Name:         "index.ts",
		Dependents:   []string{"/p/a", "/p/b", "/p/c", "/p/d"},
		Dependencies: []string{"/p/x", "/p/y", "/p/z"},
		PackageDependencies: []PackageDependency{
			{Name: DefaultSDKPackage}, {Name: "a"}, {Name: "b"},
		},
	}
	tc.refineScore(n)
	// 7 initial + 3 + 2 + 1 + 1 = 14, clamped to 10.
	if n.Importance != 10 {
		t.Errorf("importance = %d, want clamp at 10", n.Importance)
	}
}

func basename(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}
