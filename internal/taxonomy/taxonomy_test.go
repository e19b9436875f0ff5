package taxonomy

import (
	"errors"
	"reflect"
	"testing"

	"github.com/law-makers/harvest/internal/errs"
)

const rootPage = `<html><body>
<nav>
  <ul class="menu">
    <li id="main-menu-link-content1039af4d-1b27-4aa0-9b00-c3d6d1d69b93">
      <a class="sf-depth-1 menuparent" href="/research">Research</a>
      <ul>
        <li><a href="/research/topic">Topic</a></li>
        <li><a href="/research/armament-and-disarmament">Armament and
            disarmament</a></li>
        <li><a>No href</a></li>
      </ul>
    </li>
    <li id="other-menu"><a class="sf-depth-1 menuparent" href="/about">About</a>
      <ul><li><a href="/about/staff">Staff</a></li></ul>
    </li>
  </ul>
</nav>
</body></html>`

func TestDiscover(t *testing.T) {
	tax, err := Discover(rootPage, "")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if tax.Category != "Research" {
		t.Errorf("category = %q, want Research", tax.Category)
	}

	want := map[string]string{
		"/research/topic":                    "Topic",
		"/research/armament-and-disarmament": "Armament and disarmament",
	}
	if !reflect.DeepEqual(tax.Subcategories, want) {
		t.Errorf("subcategories = %#v, want %#v", tax.Subcategories, want)
	}

	paths := tax.Paths()
	if len(paths) != 2 || paths[0] != "/research/armament-and-disarmament" {
		t.Errorf("unexpected path order: %v", paths)
	}
}

func TestDiscover_CustomMenu(t *testing.T) {
	tax, err := Discover(rootPage, "#other-menu")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if tax.Category != "About" || tax.Subcategories["/about/staff"] != "Staff" {
		t.Errorf("unexpected taxonomy %+v", tax)
	}
}

func TestDiscover_MissingMenu(t *testing.T) {
	_, err := Discover(`<html><body><p>maintenance</p></body></html>`, "")
	if err == nil {
		t.Fatal("expected error when the menu is missing")
	}
	if !errs.IsKind(err, errs.KindTaxonomy) {
		t.Errorf("expected taxonomy error, got %v", err)
	}
	if !errors.Is(err, errs.ErrEmptyTaxonomy) {
		t.Errorf("expected ErrEmptyTaxonomy, got %v", err)
	}
}
