package docsystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionNext(t *testing.T) {
	tests := []struct {
		name     string
		from     Version
		rollover int
		want     Version
	}{
		{name: "minor bump", from: Version{0, 0}, rollover: 10, want: Version{0, 1}},
		{name: "up to rollover", from: Version{0, 9}, rollover: 10, want: Version{0, 10}},
		{name: "past rollover", from: Version{0, 10}, rollover: 10, want: Version{1, 0}},
		{name: "later major", from: Version{3, 10}, rollover: 10, want: Version{4, 0}},
		{name: "custom rollover", from: Version{0, 2}, rollover: 2, want: Version{1, 0}},
		{name: "non-positive rolls every save", from: Version{2, 0}, rollover: 0, want: Version{3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.Next(tt.rollover)
			assert.Equal(t, tt.want, got)
			assert.True(t, tt.from.Less(got), "versions never decrease")
		})
	}
}

func TestVersionEleventhIncrementRollsOver(t *testing.T) {
	v := Version{}
	for i := 1; i <= 10; i++ {
		v = v.Next(10)
		assert.Equal(t, Version{Major: 0, Minor: i}, v)
	}

	v = v.Next(10)
	assert.Equal(t, Version{Major: 1, Minor: 0}, v)
	assert.Equal(t, "1.0", v.String())
}

func TestVersionNextLeavesReceiver(t *testing.T) {
	v := Version{Major: 2, Minor: 3}
	_ = v.Next(10)
	assert.Equal(t, "2.3", v.String())
}
