package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/attr"
	"github.com/starford/vedacontent/internal/markdown"
)

func newTestTransformer(match MarkerMatch) *Transformer {
	return NewTransformer(markdown.NewRenderer(markdown.Options{}), match)
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) { return "", errors.New("boom") }

func str(s string) attr.Value { return attr.String(s) }

func kv(k string, v attr.Value) attr.Pair { return attr.Pair{Key: k, Value: v} }

func TestParseAttributes_IdentityWithoutMarkers(t *testing.T) {
	in := attr.Map(
		kv("id", str("story-1")),
		kv("name", str("Plain name with /docs link")),
		kv("featured", attr.Bool(true)),
		kv("order", attr.Int(3)),
		kv("media", attr.Map(kv("src", str("image.jpg")), kv("alt", str("")))),
		kv("tags", attr.List(str("a"), attr.Null(), attr.Float(1.5))),
	)
	got, err := newTestTransformer(MarkerContains).ParseAttributes(in)
	if err != nil {
		t.Fatalf("ParseAttributes: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("transform is not identity (-want +got):\n%s", diff)
	}
}

func TestParseAttributes_LayersGetParentDataset(t *testing.T) {
	in := attr.Map(
		kv("id", str("no2")),
		kv("layers", attr.List(
			attr.Map(kv("id", str("no2-monthly")), kv("name", str("Monthly"))),
			attr.Map(kv("id", str("no2-diff"))),
			attr.Null(),
		)),
	)
	got, err := newTestTransformer(MarkerContains).ParseAttributes(in)
	if err != nil {
		t.Fatalf("ParseAttributes: %v", err)
	}
	layers, _ := got.Get("layers")
	if layers.Len() != 3 {
		t.Fatalf("len(layers) = %d, want 3", layers.Len())
	}
	for i, layer := range layers.Items() {
		parent, ok := layer.Get("parentDataset")
		if !ok {
			t.Fatalf("layers[%d] missing parentDataset", i)
		}
		if id, _ := parent.Get("id"); !id.Equal(str("no2")) {
			t.Errorf("layers[%d].parentDataset.id = %#v", i, id)
		}
	}
	first := layers.Items()[0]
	if diff := cmp.Diff([]string{"id", "name", "parentDataset"}, first.Keys()); diff != "" {
		t.Errorf("layer keys (-want +got):\n%s", diff)
	}

	origLayers, _ := in.Get("layers")
	if _, ok := origLayers.Items()[0].Get("parentDataset"); ok {
		t.Error("input layer was mutated")
	}
}

func TestParseAttributes_LayersWithoutID(t *testing.T) {
	in := attr.Map(kv("layers", attr.List(attr.Map(kv("id", str("l1"))))))
	got, err := newTestTransformer(MarkerContains).ParseAttributes(in)
	if err != nil {
		t.Fatalf("ParseAttributes: %v", err)
	}
	layers, _ := got.Get("layers")
	parent, _ := layers.Items()[0].Get("parentDataset")
	if id, ok := parent.Get("id"); !ok || !id.IsNull() {
		t.Errorf("parentDataset.id = %#v, want null", id)
	}
}

func TestParseAttributes_FalsyLayersUntouched(t *testing.T) {
	for _, layers := range []attr.Value{attr.Null(), attr.Bool(false), str("")} {
		in := attr.Map(kv("id", str("x")), kv("layers", layers))
		got, err := newTestTransformer(MarkerContains).ParseAttributes(in)
		if err != nil {
			t.Fatalf("layers=%s: %v", layers.Kind(), err)
		}
		if diff := cmp.Diff(in, got); diff != "" {
			t.Errorf("layers=%s changed (-want +got):\n%s", layers.Kind(), diff)
		}
	}
}

func TestParseAttributes_NonListLayersIsTransformError(t *testing.T) {
	in := attr.Map(kv("id", str("x")), kv("layers", str("oops")))
	_, err := newTestTransformer(MarkerContains).ParseAttributes(in)
	if !errors.Is(err, apperr.ErrTransform) {
		t.Fatalf("expected ErrTransform, got %v", err)
	}

	in = attr.Map(kv("id", str("x")), kv("layers", attr.List(attr.Int(1))))
	_, err = newTestTransformer(MarkerContains).ParseAttributes(in)
	if !errors.Is(err, apperr.ErrTransform) {
		t.Fatalf("expected ErrTransform for scalar layer, got %v", err)
	}
}

func TestParseAttributes_MarkdownMarker(t *testing.T) {
	in := attr.Map(
		kv("description", str("::markdown Some **bold** text.\n\nSecond paragraph with [a link](/data).")),
		kv("nested", attr.List(attr.Map(kv("body", str("::markdown\n- one\n- two\n"))))),
	)
	got, err := newTestTransformer(MarkerContains).ParseAttributes(in)
	if err != nil {
		t.Fatalf("ParseAttributes: %v", err)
	}

	desc, _ := got.Get("description")
	s, _ := desc.AsString()
	want := `<p>Some <strong>bold</strong> text.</p><p>Second paragraph with <a href="/data">a link</a>.</p>`
	if s != want {
		t.Errorf("description = %q\nwant %q", s, want)
	}

	nested, _ := got.Get("nested")
	body, _ := nested.Items()[0].Get("body")
	bs, _ := body.AsString()
	if strings.ContainsAny(bs, "\r\n") {
		t.Errorf("rendered markdown contains newlines: %q", bs)
	}
	if bs != "<ul><li>one</li><li>two</li></ul>" {
		t.Errorf("body = %q", bs)
	}
}

func TestParseAttributes_ScriptMarker(t *testing.T) {
	in := attr.Map(kv("legend", str(`::js foo\nbar\nbaz`)))
	got, err := newTestTransformer(MarkerContains).ParseAttributes(in)
	if err != nil {
		t.Fatalf("ParseAttributes: %v", err)
	}
	v, _ := got.Get("legend")
	if s, _ := v.AsString(); s != "foo\nbar\nbaz" {
		t.Errorf("legend = %q", s)
	}
}

func TestParseAttributes_MarkdownWinsOverScript(t *testing.T) {
	in := attr.Map(kv("v", str("::markdown uses ::js inline")))
	got, err := newTestTransformer(MarkerContains).ParseAttributes(in)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := got.Get("v")
	if s, _ := v.AsString(); s != "<p>uses ::js inline</p>" {
		t.Errorf("v = %q", s)
	}
}

func TestParseAttributes_MidValueMarker(t *testing.T) {
	in := attr.Map(kv("v", str("see ::js here")))

	got, err := newTestTransformer(MarkerContains).ParseAttributes(in)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := got.Get("v")
	if s, _ := v.AsString(); s != "see ::js here" {
		t.Errorf("contains mode: v = %q, marker should be detected but not stripped", s)
	}

	in = attr.Map(kv("v", str(`see ::markdown *x*`)))
	got, err = newTestTransformer(MarkerContains).ParseAttributes(in)
	if err != nil {
		t.Fatal(err)
	}
	v, _ = got.Get("v")
	if s, _ := v.AsString(); s != "<p>see ::markdown <em>x</em></p>" {
		t.Errorf("contains mode: v = %q", s)
	}

	got, err = newTestTransformer(MarkerPrefix).ParseAttributes(in)
	if err != nil {
		t.Fatal(err)
	}
	v, _ = got.Get("v")
	if s, _ := v.AsString(); s != "see ::markdown *x*" {
		t.Errorf("prefix mode: v = %q, want untouched", s)
	}
}

func TestParseAttributes_IdempotentForLeadingMarkers(t *testing.T) {
	in := attr.Map(
		kv("id", str("ds")),
		kv("description", str("::markdown Hello *there*\n\nAgain")),
		kv("code", str(`::js a\nb`)),
		kv("layers", attr.List(attr.Map(kv("info", str("::markdown **x**"))))),
	)
	tr := newTestTransformer(MarkerContains)
	once, err := tr.ParseAttributes(in)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := tr.ParseAttributes(once)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second pass changed output (-once +twice):\n%s", diff)
	}
}

func TestParseAttributes_RendererFailure(t *testing.T) {
	tr := NewTransformer(failingRenderer{}, MarkerContains)
	_, err := tr.ParseAttributes(attr.Map(kv("a", attr.Map(kv("b", str("::markdown x"))))))
	if !errors.Is(err, apperr.ErrTransform) {
		t.Fatalf("expected ErrTransform, got %v", err)
	}
	if !strings.Contains(err.Error(), "a.b") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestParseMarkerMatch(t *testing.T) {
	if m, err := ParseMarkerMatch(""); err != nil || m != MarkerContains {
		t.Errorf("empty -> %v, %v", m, err)
	}
	if m, err := ParseMarkerMatch("Prefix"); err != nil || m != MarkerPrefix {
		t.Errorf("Prefix -> %v, %v", m, err)
	}
	if _, err := ParseMarkerMatch("regex"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
