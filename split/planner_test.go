package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanByChunkSize(t *testing.T) {
	cases := []struct {
		name  string
		total int
		size  int
		want  []int
	}{
		{"exact multiple", 10, 5, []int{5, 5}},
		{"remainder in last", 12, 5, []int{5, 5, 2}},
		{"single undersized chunk", 3, 10, []int{3}},
		{"one per chunk", 3, 1, []int{1, 1, 1}},
		{"empty input", 0, 5, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, plan(tc.total, ByChunkSize(tc.size)))
		})
	}
}

func TestPlanByFileCount(t *testing.T) {
	cases := []struct {
		name  string
		total int
		count int
		want  []int
	}{
		{"even split", 12, 4, []int{3, 3, 3, 3}},
		{"remainder spread first", 13, 4, []int{4, 3, 3, 3}},
		{"two extra", 14, 4, []int{4, 4, 3, 3}},
		{"fewer statements than files", 3, 10, []int{1, 1, 1}},
		{"single file", 7, 1, []int{7}},
		{"empty input", 0, 4, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, plan(tc.total, ByFileCount(tc.count)))
		})
	}
}

func TestPlanDeterministic(t *testing.T) {
	first := plan(1000, ByFileCount(7))
	second := plan(1000, ByFileCount(7))
	require.Equal(t, first, second)
	sum := 0
	for _, size := range first {
		sum += size
	}
	assert.Equal(t, 1000, sum)
}

func TestModeValidate(t *testing.T) {
	assert.NoError(t, ByChunkSize(5).Validate())
	assert.NoError(t, ByFileCount(3).Validate())
	assert.ErrorIs(t, Mode{}.Validate(), ErrInvalidMode)
	assert.ErrorIs(t, Mode{chunkSize: 5, fileCount: 3}.Validate(), ErrInvalidMode)
	assert.ErrorIs(t, ByChunkSize(0).Validate(), ErrInvalidMode)
}
