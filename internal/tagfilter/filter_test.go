package tagfilter_test

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"

	"dsproc/internal/services"
	"dsproc/internal/tagfilter"
	"dsproc/internal/testsupport"
)

const dir = "/dataset"

func seed(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, content := range files {
		testsupport.WriteText(t, fsys, filepath.Join(dir, name), content)
	}
	return fsys
}

func TestFilterScenarioScanOrder(t *testing.T) {
	fsys := seed(t, map[string]string{
		"b.png": "B", "b.txt": "red,blue",
		"a.png": "A", "a.txt": "blue",
		"c.png": "C",
	})
	f := tagfilter.New(fsys, tagfilter.Options{ScanOrder: true})

	got, err := f.FilterByContent(dir, ".txt", "blue", false)
	if err != nil {
		t.Fatalf("FilterByContent: %v", err)
	}
	if want := []string{"a.png", "b.png"}; !slices.Equal(tagfilter.Names(got), want) {
		t.Fatalf("got %v want %v", tagfilter.Names(got), want)
	}
}

func TestFilterReadsSidecarSharedByTwoImages(t *testing.T) {
	fsys := seed(t, map[string]string{
		"a.jpg": "", "a.png": "", "a.txt": "cat",
		"b.png": "",
	})
	f := tagfilter.New(fsys, tagfilter.Options{ScanOrder: true})

	got, err := f.FilterByContent(dir, ".txt", "cat", false)
	if err != nil {
		t.Fatalf("FilterByContent: %v", err)
	}
	if want := []string{"a.jpg", "a.png"}; !slices.Equal(tagfilter.Names(got), want) {
		t.Fatalf("got %v want %v", tagfilter.Names(got), want)
	}
}

func TestFilterSortsNumerically(t *testing.T) {
	fsys := seed(t, map[string]string{
		"1.png": "", "1.txt": "cat",
		"2.png": "", "2.txt": "dog",
		"10.png": "", "10.txt": "cat, dog",
		"9.jpg": "", "9.txt": "bird, cat",
	})
	f := tagfilter.New(fsys, tagfilter.Options{})

	got, err := f.FilterByContent(dir, ".txt", "cat", true)
	if err != nil {
		t.Fatalf("FilterByContent: %v", err)
	}
	if want := []string{"1.png", "9.jpg", "10.png"}; !slices.Equal(tagfilter.Names(got), want) {
		t.Fatalf("got %v want %v", tagfilter.Names(got), want)
	}
}

func TestFilterExactVersusSubstring(t *testing.T) {
	fsys := seed(t, map[string]string{
		"1.png": "", "1.txt": "concatenate, red",
		"2.png": "", "2.txt": "cat",
	})
	f := tagfilter.New(fsys, tagfilter.Options{})

	tests := []struct {
		name  string
		exact bool
		want  []string
	}{
		{"substring", false, []string{"1.png", "2.png"}},
		{"exact", true, []string{"2.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.FilterByContent(dir, ".txt", "cat", tt.exact)
			if err != nil {
				t.Fatalf("FilterByContent: %v", err)
			}
			if !slices.Equal(tagfilter.Names(got), tt.want) {
				t.Fatalf("got %v want %v", tagfilter.Names(got), tt.want)
			}
		})
	}
}

func TestFilterAnyTermMatchesAndResultIsSubset(t *testing.T) {
	fsys := seed(t, map[string]string{
		"1.png": "", "1.caption": "a red car on a road",
		"2.png": "", "2.caption": "a blue sky",
		"3.png": "", "3.txt": "red",
		"4.webp": "",
	})
	f := tagfilter.New(fsys, tagfilter.Options{})

	got, err := f.FilterByContent(dir, ".caption", "green, sky,red", false)
	if err != nil {
		t.Fatalf("FilterByContent: %v", err)
	}
	if want := []string{"1.png", "2.png"}; !slices.Equal(tagfilter.Names(got), want) {
		t.Fatalf("got %v want %v", tagfilter.Names(got), want)
	}
	all := []string{"1.png", "2.png", "3.png", "4.webp"}
	for _, name := range tagfilter.Names(got) {
		if !slices.Contains(all, name) {
			t.Fatalf("%s is not an image of the folder", name)
		}
	}
}

func TestFilterNoMatchesIsEmpty(t *testing.T) {
	fsys := seed(t, map[string]string{"1.png": "", "1.txt": "red"})
	got, err := tagfilter.New(fsys, tagfilter.Options{}).FilterByContent(dir, ".txt", "purple", false)
	if err != nil {
		t.Fatalf("FilterByContent: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestFilterNonNumericNameIsFormatError(t *testing.T) {
	fsys := seed(t, map[string]string{"1.png": "", "1.txt": "red", "x.png": "", "x.txt": "red"})
	_, err := tagfilter.New(fsys, tagfilter.Options{}).FilterByContent(dir, ".txt", "red", false)
	if !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestFilterIgnoresNonNumericNamesThatDoNotMatch(t *testing.T) {
	fsys := seed(t, map[string]string{"1.png": "", "1.txt": "red", "x.png": "", "x.txt": "blue"})
	got, err := tagfilter.New(fsys, tagfilter.Options{}).FilterByContent(dir, ".txt", "red", false)
	if err != nil {
		t.Fatalf("FilterByContent: %v", err)
	}
	if want := []string{"1.png"}; !slices.Equal(tagfilter.Names(got), want) {
		t.Fatalf("got %v want %v", tagfilter.Names(got), want)
	}
}

func TestFilterRejectsInvalidArguments(t *testing.T) {
	fsys := seed(t, nil)
	f := tagfilter.New(fsys, tagfilter.Options{})

	for _, ext := range []string{".json", "txt", ".TXT", ""} {
		if _, err := f.FilterByContent("/does-not-exist", ext, "red", false); !errors.Is(err, services.ErrInvalidArgument) {
			t.Fatalf("ext %q: expected invalid argument, got %v", ext, err)
		}
	}
	if _, err := f.FilterByContent("/does-not-exist", ".txt", " , ", false); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty terms, got %v", err)
	}
}

func TestFilterFoldCase(t *testing.T) {
	fsys := seed(t, map[string]string{"1.png": "", "1.txt": "Red Hair, STRASSE"})

	strict := tagfilter.New(fsys, tagfilter.Options{})
	got, err := strict.FilterByContent(dir, ".txt", "red hair", true)
	if err != nil || len(got) != 0 {
		t.Fatalf("case-sensitive match: got %v err %v", got, err)
	}

	folded := tagfilter.New(fsys, tagfilter.Options{FoldCase: true})
	for _, term := range []string{"red hair", "strasse"} {
		got, err = folded.FilterByContent(dir, ".txt", term, true)
		if err != nil || len(got) != 1 {
			t.Fatalf("term %q: got %v err %v", term, got, err)
		}
	}
}

func TestSplitTermsAndParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"cat", []string{"cat"}},
		{"cat, dog", []string{"cat", "dog"}},
		{"cat,dog,", []string{"cat", "dog"}},
		{" long hair ,  smile", []string{"long hair", "smile"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := tagfilter.SplitTerms(tt.in); !slices.Equal(got, tt.want) {
			t.Fatalf("SplitTerms(%q) = %v want %v", tt.in, got, tt.want)
		}
		if got := tagfilter.ParseTags(tt.in); !slices.Equal(got, tt.want) {
			t.Fatalf("ParseTags(%q) = %v want %v", tt.in, got, tt.want)
		}
	}
}
