package helpers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlbumChunks(t *testing.T) {
	cases := []struct {
		n    int
		want []int
	}{
		{n: 0, want: nil},
		{n: 2, want: []int{2}},
		{n: 10, want: []int{10}},
		{n: 11, want: []int{6, 5}},
		{n: 20, want: []int{10, 10}},
		{n: 21, want: []int{7, 7, 7}},
		{n: 31, want: []int{8, 8, 8, 7}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.n), func(t *testing.T) {
			ids := make([]string, tc.n)
			for i := range ids {
				ids[i] = fmt.Sprintf("f%d", i)
			}

			var sizes []int
			var joined []string
			for _, chunk := range albumChunks(ids) {
				sizes = append(sizes, len(chunk))
				joined = append(joined, chunk...)
			}
			assert.Equal(t, tc.want, sizes)
			if tc.n > 0 {
				assert.Equal(t, ids, joined)
			}
		})
	}
}
