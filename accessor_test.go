package porter

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

type address struct {
	City string `json:"city"`
}

type customer struct {
	Name     string
	Address  *address
	Tags     []string
	Meta     map[string]any
	Scores   map[int]int
	Raw      json.RawMessage
	verified bool
	secret   string
}

func (c customer) GetDisplayName() string { return "Customer " + c.Name }

func (c *customer) IsVerified() bool { return c.verified }

func (c customer) Secret() (string, error) {
	if c.secret == "" {
		return "", errors.New("no secret")
	}
	return c.secret, nil
}

type fixedExtractor struct{}

func (fixedExtractor) ExtractPath(path string) (any, error) {
	switch path {
	case "known.path":
		return "found", nil
	case "[dotted.key].x":
		return "bracketed", nil
	}
	return nil, errors.New("unknown path " + path)
}

func TestPathAccessor_Get(t *testing.T) {
	c := customer{
		Name:     "alice",
		Address:  &address{City: "Paris"},
		Tags:     []string{"a", "b"},
		Meta:     map[string]any{"plan": map[string]any{"tier": "gold"}},
		Scores:   map[int]int{7: 70},
		Raw:      json.RawMessage(`{"items":[{"sku":"X1"}]}`),
		verified: true,
		secret:   "s3",
	}

	tests := []struct {
		name      string
		container any
		path      string
		want      any
	}{
		{"exported field", c, "Name", "alice"},
		{"lower-case field", c, "name", "alice"},
		{"nested pointer", c, "address.City", "Paris"},
		{"json tag", c, "Address.city", "Paris"},
		{"slice index bracket", c, "Tags[1]", "b"},
		{"slice index dotted", c, "Tags.0", "a"},
		{"nested map", c, "Meta.plan.tier", "gold"},
		{"bracket map", c, "Meta[plan][tier]", "gold"},
		{"int map key", c, "Scores[7]", 70},
		{"getter Get prefix", c, "displayName", "Customer alice"},
		{"getter pointer receiver", c, "verified", true},
		{"getter with error", c, "secret", "s3"},
		{"pointer container", &c, "name", "alice"},
		{"raw json", c, "Raw.items.0.sku", "X1"},
		{"top-level map", map[string]string{"k": "v"}, "k", "v"},
		{"extractor", map[string]any{"x": fixedExtractor{}}, "x.known.path", "found"},
		{"extractor bracketed remainder", map[string]any{"x": fixedExtractor{}}, "x[dotted.key].x", "bracketed"},
		{"raw json object", c, "Raw.items.0", json.RawMessage(`{"sku":"X1"}`)},
		{"raw json dotted key", json.RawMessage(`{"a.b":{"c":"d"}}`), "[a.b].c", "d"},
	}

	a := PathAccessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Get(tt.container, tt.path)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.path, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Get(%q) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPathAccessor_GetErrors(t *testing.T) {
	c := customer{Tags: []string{"a"}, Meta: map[string]any{}}

	tests := []struct {
		name      string
		container any
		path      string
	}{
		{"nil container", nil, "name"},
		{"nil pointer field", c, "Address.City"},
		{"missing field", c, "missing"},
		{"unexported field", c, "secretValue"},
		{"index out of range", c, "Tags[3]"},
		{"bad index", c, "Tags[x]"},
		{"missing map key", c, "Meta.nope"},
		{"bad int map key", customer{Scores: map[int]int{}}, "Scores.abc"},
		{"getter error", c, "secret"},
		{"scalar traversal", 42, "x"},
		{"raw json missing", customer{Raw: json.RawMessage(`{}`)}, "Raw.nope"},
		{"extractor error", fixedExtractor{}, "other"},
		{"typed nil extractor", map[string]any{"x": (*profileRef)(nil)}, "x.name"},
		{"nil map", customer{}, "Meta.plan"},
		{"empty path", c, ""},
		{"unclosed bracket", c, "Tags[0"},
	}

	a := PathAccessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Get(tt.container, tt.path)
			if err == nil {
				t.Fatalf("Get(%q) should fail", tt.path)
			}
			if !errors.Is(err, ErrExtraction) {
				t.Errorf("Get(%q) error = %v, want ErrExtraction", tt.path, err)
			}
			var pe *PathError
			if !errors.As(err, &pe) {
				t.Errorf("Get(%q) error should be *PathError, got %T", tt.path, err)
			}
		})
	}
}

func TestPathAccessor_GetterErrorIsCause(t *testing.T) {
	_, err := PathAccessor{}.Get(customer{}, "secret")

	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("error should be *PathError, got %T", err)
	}
	if pe.Cause == nil || pe.Cause.Error() != "no secret" {
		t.Errorf("Cause = %v, want getter error", pe.Cause)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path    string
		want    []string
		wantErr bool
	}{
		{"a", []string{"a"}, false},
		{"a.b.c", []string{"a", "b", "c"}, false},
		{"items[0].sku", []string{"items", "0", "sku"}, false},
		{"[key]", []string{"key"}, false},
		{"[a][b]", []string{"a", "b"}, false},
		{"", nil, true},
		{".a", nil, true},
		{"a.", nil, true},
		{"a..b", nil, true},
		{"a[]", nil, true},
		{"a[0", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := parsePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parsePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		segs []string
		want string
	}{
		{[]string{"a", "b"}, "a.b"},
		{[]string{"a.b", "c"}, "[a.b].c"},
		{[]string{"a", "b.c", "d.e"}, "a[b.c][d.e]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := joinPath(tt.segs)
			if got != tt.want {
				t.Errorf("joinPath(%v) = %q, want %q", tt.segs, got, tt.want)
			}
			back, err := parsePath(got)
			if err != nil || !reflect.DeepEqual(back, tt.segs) {
				t.Errorf("parsePath(%q) = %v, %v, want %v", got, back, err, tt.segs)
			}
		})
	}
}

func TestGjsonPath(t *testing.T) {
	if got := gjsonPath([]string{"a.b", "c*", "0"}); got != `a\.b.c\*.0` {
		t.Errorf("gjsonPath() = %q", got)
	}
}
