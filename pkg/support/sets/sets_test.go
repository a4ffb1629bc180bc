// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := Make[int](10)
	assert.Len(t, s, 0)

	s.Insert(3, 7)
	assert.Len(t, s, 2)
	assert.True(t, s.Has(3))
	assert.True(t, s.Has(7))
	assert.False(t, s.Has(5))

	s2 := MakeWith(5, 7, 7)
	assert.Len(t, s2, 2)
	assert.True(t, s2.Has(5))
	assert.False(t, s2.Has(3))
}

func TestIntersect(t *testing.T) {
	s := MakeWith(1, 2, 3, 4)
	assert.Equal(t, []int{2, 4}, Sorted(s.Intersect(MakeWith(2, 4, 6), MakeWith(0, 2, 4))))
	assert.Empty(t, s.Intersect(MakeWith(10)))
	assert.Equal(t, []int{1, 2, 3, 4}, Sorted(s.Intersect()))
}

func TestSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Sorted(MakeWith("c", "a", "b")))
	assert.Empty(t, Sorted(Make[float64]()))
}
