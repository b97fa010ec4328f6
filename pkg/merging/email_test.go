package merging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/clover/pkg/fields"
)

func TestMergeEmailGroup(t *testing.T) {
	t.Run("two unique addresses fill both slots", func(t *testing.T) {
		dst := member(t, map[string]string{fields.KeyEmail1: "a@example.ch"})
		src := member(t, map[string]string{fields.KeyEmail1: "b@example.ch"})
		assert.True(t, mergeKey(dst, src, fields.KeyEmail1))
		assert.Equal(t, "a@example.ch", dst.Get(fields.KeyEmail1))
		assert.Equal(t, "b@example.ch", dst.Get(fields.KeyEmail2))
	})

	t.Run("dedupe is case-insensitive", func(t *testing.T) {
		dst := member(t, map[string]string{fields.KeyEmail1: "Anna@Example.ch"})
		src := member(t, map[string]string{fields.KeyEmail1: "anna@example.ch"})
		assert.True(t, mergeKey(dst, src, fields.KeyEmail1))
		assert.Equal(t, "Anna@Example.ch", dst.Get(fields.KeyEmail1))
		assert.Empty(t, dst.Get(fields.KeyEmail2))
	})

	t.Run("three unique addresses conflict and change nothing", func(t *testing.T) {
		dst := member(t, map[string]string{
			fields.KeyEmail1: "a@example.ch",
			fields.KeyEmail2: "b@example.ch",
		})
		src := member(t, map[string]string{fields.KeyEmail1: "c@example.ch"})
		assert.False(t, mergeKey(dst, src, fields.KeyEmail1))
		assert.Equal(t, "a@example.ch", dst.Get(fields.KeyEmail1))
		assert.Equal(t, "b@example.ch", dst.Get(fields.KeyEmail2))
	})

	t.Run("an invalid side contributes nothing", func(t *testing.T) {
		dst := member(t, map[string]string{
			fields.KeyEmail1: "a@example.ch",
			fields.KeyEmail2: "b@example.ch",
		})
		src := member(t, map[string]string{
			fields.KeyEmail1:      "c@example.ch",
			fields.KeyEmail2:      "d@example.ch",
			fields.KeyEmailStatus: fields.StatusInvalid,
		})
		assert.True(t, mergeKey(dst, src, fields.KeyEmail1))
		assert.Equal(t, "a@example.ch", dst.Get(fields.KeyEmail1))
		assert.Equal(t, "b@example.ch", dst.Get(fields.KeyEmail2))
	})

	t.Run("invalid destination inherits source status", func(t *testing.T) {
		dst := member(t, map[string]string{
			fields.KeyEmail1:      "old@example.ch",
			fields.KeyEmailStatus: fields.StatusInvalid,
		})
		src := member(t, map[string]string{
			fields.KeyEmail1:      "new@example.ch",
			fields.KeyEmailStatus: fields.StatusActive,
		})
		assert.True(t, mergeKey(dst, src, fields.KeyEmail1))
		assert.Equal(t, "new@example.ch", dst.Get(fields.KeyEmail1))
		assert.Equal(t, fields.StatusActive, dst.Get(fields.KeyEmailStatus))
	})

	t.Run("unwanted on either side wins", func(t *testing.T) {
		dst := member(t, map[string]string{
			fields.KeyEmail1:      "a@example.ch",
			fields.KeyEmailStatus: fields.StatusActive,
		})
		src := member(t, map[string]string{
			fields.KeyEmail1:      "a@example.ch",
			fields.KeyEmailStatus: fields.StatusUnwanted,
		})
		assert.True(t, mergeKey(dst, src, fields.KeyEmailStatus))
		assert.Equal(t, fields.StatusUnwanted, dst.Get(fields.KeyEmailStatus))
	})

	t.Run("empty destination status adopts the source's", func(t *testing.T) {
		dst := member(t, map[string]string{fields.KeyEmail1: "a@example.ch"})
		src := member(t, map[string]string{
			fields.KeyEmail2:      "b@example.ch",
			fields.KeyEmailStatus: fields.StatusActive,
		})
		assert.True(t, mergeKey(dst, src, fields.KeyEmail2))
		assert.Equal(t, fields.StatusActive, dst.Get(fields.KeyEmailStatus))
	})

	t.Run("is idempotent across the group's keys", func(t *testing.T) {
		dst := member(t, map[string]string{fields.KeyEmail1: "a@example.ch"})
		src := member(t, map[string]string{
			fields.KeyEmail1:      "b@example.ch",
			fields.KeyEmailStatus: fields.StatusActive,
		})
		assert.True(t, mergeKey(dst, src, fields.KeyEmail1))
		assert.True(t, mergeKey(dst, src, fields.KeyEmail2))
		assert.True(t, mergeKey(dst, src, fields.KeyEmailStatus))
		assert.Equal(t, "a@example.ch", dst.Get(fields.KeyEmail1))
		assert.Equal(t, "b@example.ch", dst.Get(fields.KeyEmail2))
		assert.Equal(t, fields.StatusActive, dst.Get(fields.KeyEmailStatus))
	})
}
