package querypath

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		raw       string
		segments  []string
		outputKey string
	}{
		{"CSDUID", []string{"CSDUID"}, "CSDUID"},
		{"Dimensions.Value", []string{"Dimensions", "Value"}, "Value"},
		{"dimensions.value", []string{"dimensions", "value"}, "value"},
		{"a.b_c.D9", []string{"a", "b_c", "D9"}, "D9"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.segments, p.Segments())
			assert.Equal(t, tt.outputKey, p.OutputKey())
			assert.Equal(t, tt.raw, p.String())
			assert.Equal(t, len(tt.segments), p.Len())
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"leading dot", ".Value"},
		{"trailing dot", "Dimensions."},
		{"double dot", "Dimensions..Value"},
		{"single dot", "."},
		{"quote", "Value'--"},
		{"space", "Dimensions Value"},
		{"bracket", "Dimensions[0]"},
		{"wildcard", "Dimensions.*"},
		{"dollar", "$.Value"},
		{"non-ascii letter", "Valué"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("a..b") })
	assert.NotPanics(t, func() { MustParse("a.b") })
}

func TestSegments_ReturnsCopy(t *testing.T) {
	p := MustParse("Dimensions.Value")
	segs := p.Segments()
	segs[0] = "Mutated"
	assert.Equal(t, "Dimensions.Value", p.String())
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"value":        "Value",
		"Value":        "Value",
		"alreadyValue": "AlreadyValue",
		"cSDUID":       "CSDUID",
		"_private":     "_private",
		"9lives":       "9lives",
		"":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Capitalize(in), "Capitalize(%q)", in)
	}
}

func TestNormalizer_Capitalize(t *testing.T) {
	n := Normalizer{}

	got, err := n.Normalize("dimensions.value")
	require.NoError(t, err)
	assert.Equal(t, "Dimensions.Value", got)

	p := MustParse("dimensions.value")
	assert.Equal(t, "Value", n.OutputAlias(p))
	assert.Equal(t, "value", p.OutputKey(), "output key keeps caller casing")
}

func TestNormalizer_Preserve(t *testing.T) {
	n := Normalizer{Casing: CasingPreserve}

	got, err := n.Normalize("dimensions.value")
	require.NoError(t, err)
	assert.Equal(t, "dimensions.value", got)
	assert.Equal(t, "value", n.OutputAlias(MustParse("dimensions.value")))
}

func TestNormalizer_RejectsInvalid(t *testing.T) {
	_, err := Normalizer{}.Normalize("a.")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestNormalize_Idempotent(t *testing.T) {
	const alphabet = "abcxyzABCXYZ019_"
	rng := rand.New(rand.NewSource(42))

	randomPath := func() string {
		n := 1 + rng.Intn(4)
		segs := make([]string, n)
		for i := range segs {
			var b strings.Builder
			for j := 0; j < 1+rng.Intn(8); j++ {
				b.WriteByte(alphabet[rng.Intn(len(alphabet))])
			}
			segs[i] = b.String()
		}
		return strings.Join(segs, ".")
	}

	for _, casing := range []Casing{CasingCapitalize, CasingPreserve} {
		n := Normalizer{Casing: casing}
		for i := 0; i < 500; i++ {
			raw := randomPath()
			once, err := n.Normalize(raw)
			require.NoError(t, err, raw)
			twice, err := n.Normalize(once)
			require.NoError(t, err, once)
			assert.Equal(t, once, twice, "normalize not idempotent for %q (%s)", raw, casing)
		}
	}
}

func TestOutputKey(t *testing.T) {
	key, err := OutputKey("Dimensions.value")
	require.NoError(t, err)
	assert.Equal(t, "value", key)

	_, err = OutputKey("")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestParseCasing(t *testing.T) {
	c, err := ParseCasing("")
	require.NoError(t, err)
	assert.Equal(t, CasingCapitalize, c)

	c, err = ParseCasing("Preserve")
	require.NoError(t, err)
	assert.Equal(t, CasingPreserve, c)
	assert.Equal(t, "preserve", c.String())

	_, err = ParseCasing("snake")
	assert.Error(t, err)
}
