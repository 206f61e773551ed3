package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []float64
	}{
		{name: "dedup and sort", in: "18, 17, 17", want: []float64{17, 18}},
		{name: "decimals", in: "17, 16.5", want: []float64{16.5, 17}},
		{name: "bounds inclusive", in: "1, 1000", want: []float64{1, 1000}},
		{name: "trailing dot", in: "17., 16.50", want: []float64{16.5, 17}},
		{name: "empty tokens skipped", in: "17,, 18,", want: []float64{17, 18}},
		{name: "blank", in: "   ", want: []float64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSizes(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseSizesRejects(t *testing.T) {
	for _, in := range []string{
		"17, abc", "0.5", "1500", "-3", "17;18",
		"NaN", "17, nan", "0x1p4", "inf", "+17", "1e2",
	} {
		t.Run(in, func(t *testing.T) {
			got, err := ParseSizes(in)
			require.Error(t, err)
			assert.Nil(t, got)

			var se *SizeError
			require.True(t, errors.As(err, &se))
		})
	}
}

func TestFormatSizes(t *testing.T) {
	assert.Equal(t, "16.5, 17", FormatSizes([]float64{16.5, 17}))
	assert.Equal(t, "", FormatSizes(nil))
}

func TestParsePhones(t *testing.T) {
	got, err := ParsePhones("+998 90 123-45-67, +998(33)1234567")
	require.NoError(t, err)
	assert.Equal(t, []string{"+998901234567", "+998331234567"}, got)

	got, err = ParsePhones("+998 90\n1234567, +998\u00a033\u00a01234567")
	require.NoError(t, err)
	assert.Equal(t, []string{"+998901234567", "+998331234567"}, got)

	got, err = ParsePhones("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParsePhonesListsEveryInvalidCandidate(t *testing.T) {
	_, err := ParsePhones("+998901234567, 12345")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "12345")

	_, err = ParsePhones("+998121234567, +7 900 123 45 67, +99890123456")
	var pe *PhoneError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, []string{"+998121234567", "+7 900 123 45 67", "+99890123456"}, pe.Invalid)
}

func TestNormalizeHandle(t *testing.T) {
	h := NormalizeHandle("  @dunya_jewellery ")
	require.NotNil(t, h)
	assert.Equal(t, "dunya_jewellery", *h)

	assert.Nil(t, NormalizeHandle(" @ "))
	assert.Nil(t, NormalizeHandle(""))
}
