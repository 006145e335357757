package xmlconv_test

import (
	"testing"

	"go.jsontk.dev/jsontk/convert/xmlconv"
	"go.jsontk.dev/jsontk/value"
)

func TestDecodeScalarsAndMapping(t *testing.T) {
	v, err := xmlconv.Decode([]byte(`<root><name>Test</name><age>30</age><active>true</active></root>`))
	if err != nil {
		t.Fatal(err)
	}

	if v.Type() != value.Object {
		t.Fatalf("got %v, want object", v.Type())
	}

	name, _, _ := v.Get("name")
	s, _ := name.StringValue()
	if s != "Test" {
		t.Fatalf("name = %q, want Test", s)
	}

	age, _, _ := v.Get("age")
	n, _ := age.Number()
	if n != 30 {
		t.Fatalf("age = %v, want 30", n)
	}

	active, _, _ := v.Get("active")
	b, _ := active.Bool()
	if !b {
		t.Fatal("active = false, want true")
	}
}

func TestDecodeRepeatedTagsBecomeArray(t *testing.T) {
	v, err := xmlconv.Decode([]byte(`<root><item>1</item><item>2</item><item>3</item></root>`))
	if err != nil {
		t.Fatal(err)
	}

	items, _, _ := v.Get("item")
	if items.Type() != value.Array || items.Len() != 3 {
		t.Fatalf("got %v len %d, want array len 3", items.Type(), items.Len())
	}
}

func TestDecodeEmptyElementIsNull(t *testing.T) {
	v, err := xmlconv.Decode([]byte(`<root><thing></thing></root>`))
	if err != nil {
		t.Fatal(err)
	}

	thing, _, _ := v.Get("thing")
	if thing.Type() != value.Null {
		t.Fatalf("got %v, want null", thing.Type())
	}
}

func TestEncodeObjectThenDecodeRoundTrip(t *testing.T) {
	obj := value.NewObject()
	_ = obj.Set("name", value.NewBool(false))
	_ = obj.Set("count", value.MustNumber(5))

	out, err := xmlconv.Encode(obj, "root")
	if err != nil {
		t.Fatal(err)
	}

	reparsed, err := xmlconv.Decode(out)
	if err != nil {
		t.Fatalf("reparse failed: %v\nxml:\n%s", err, out)
	}

	if !value.Equal(obj, reparsed) {
		t.Fatalf("round trip not equal: got %s", out)
	}
}

func TestEncodeArrayRepeatsParentTag(t *testing.T) {
	obj := value.NewObject()
	arr := value.NewArray(value.MustNumber(1), value.MustNumber(2))
	_ = obj.Set("item", arr)

	out, err := xmlconv.Encode(obj, "root")
	if err != nil {
		t.Fatal(err)
	}

	reparsed, err := xmlconv.Decode(out)
	if err != nil {
		t.Fatal(err)
	}

	if !value.Equal(obj, reparsed) {
		t.Fatalf("round trip not equal: got %s", out)
	}
}

func TestEncodeEscapesText(t *testing.T) {
	str, err := value.NewString("<tag> & \"quotes\"")
	if err != nil {
		t.Fatal(err)
	}

	obj := value.NewObject()
	_ = obj.Set("text", str)

	out, err := xmlconv.Encode(obj, "root")
	if err != nil {
		t.Fatal(err)
	}

	reparsed, err := xmlconv.Decode(out)
	if err != nil {
		t.Fatalf("reparse failed: %v\nxml:\n%s", err, out)
	}

	if !value.Equal(obj, reparsed) {
		t.Fatalf("round trip not equal: got %s", out)
	}
}
