package edit

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func fiveLines() *Snapshot {
	return NewSnapshot("1\n2\n3\n4\n5\n")
}

func TestApplyDisjointBatch(t *testing.T) {
	snap := fiveLines()
	ops := []Operation{
		{StartLine: 2, EndLine: 3, Replacement: "X"},
		{StartLine: 4, EndLine: 4, Replacement: "Y\nZ"},
	}

	content, report := Applier{Policy: RejectLower}.Apply(snap, ops)
	require.Equal(t, "1\nX\nY\nZ\n5\n", content)
	require.Equal(t, 2, report.Attempted)
	require.Equal(t, 2, report.Succeeded)
	require.True(t, report.Details[0].Applied)
	require.True(t, report.Details[1].Applied)
	require.NotEmpty(t, report.Diff)
}

func TestApplyOrderIndependenceWhenDisjoint(t *testing.T) {
	ops := []Operation{
		{StartLine: 1, EndLine: 1, Replacement: "a"},
		{StartLine: 3, EndLine: 3, Replacement: "b\nbb"},
		{StartLine: 5, EndLine: 5, Replacement: ""},
	}

	want, _ := Applier{Policy: RejectLower}.Apply(fiveLines(), ops)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]Operation(nil), ops...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, report := Applier{Policy: RejectLower}.Apply(fiveLines(), shuffled)
		require.Equal(t, want, got)
		require.Equal(t, 3, report.Succeeded)
	}
}

func TestOverlapRejectsLowerStart(t *testing.T) {
	snap := fiveLines()
	ops := []Operation{
		{StartLine: 1, EndLine: 3, Replacement: "A"},
		{StartLine: 2, EndLine: 2, Replacement: "B"},
	}

	content, report := Applier{Policy: RejectLower}.Apply(snap, ops)
	require.Equal(t, "1\nB\n3\n4\n5\n", content)
	require.Equal(t, 1, report.Succeeded)
	require.False(t, report.Details[0].Applied)
	require.Contains(t, report.Details[0].Message, "conflicts")
	require.True(t, report.Details[1].Applied)
}

func TestOverlapDeterminism(t *testing.T) {
	// A starts at 2, B starts at 5 and they overlap: A always loses.
	ops := []Operation{
		{StartLine: 2, EndLine: 5, Replacement: "A"},
		{StartLine: 5, EndLine: 5, Replacement: "B"},
	}
	for i := 0; i < 5; i++ {
		_, report := Applier{Policy: RejectLower}.Apply(fiveLines(), ops)
		require.False(t, report.Details[0].Applied)
		require.True(t, report.Details[1].Applied)
		require.Equal(t, 1, report.Succeeded)
		require.Equal(t, 2, report.Attempted)
	}
}

func TestOverlapPolicyRejectHigher(t *testing.T) {
	ops := []Operation{
		{StartLine: 1, EndLine: 3, Replacement: "A"},
		{StartLine: 2, EndLine: 2, Replacement: "B"},
	}
	content, report := Applier{Policy: RejectHigher}.Apply(fiveLines(), ops)
	require.Equal(t, "A\n4\n5\n", content)
	require.True(t, report.Details[0].Applied)
	require.False(t, report.Details[1].Applied)
}

func TestOutOfRangeRejectedIndividually(t *testing.T) {
	snap := fiveLines()
	ops := []Operation{
		{StartLine: 0, EndLine: 1, Replacement: "A"},
		{StartLine: 2, EndLine: 9, Replacement: "B"},
		{StartLine: 4, EndLine: 3, Replacement: "C"},
		{StartLine: 5, EndLine: 5, Replacement: "ok"},
	}

	content, report := Applier{Policy: RejectLower}.Apply(snap, ops)
	require.Equal(t, "1\n2\n3\n4\nok\n", content)
	require.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Details, 4)
	require.Contains(t, report.Details[0].Message, "out of range")
	require.Contains(t, report.Details[1].Message, "out of range")
	require.Contains(t, report.Details[2].Message, "greater than")
}

func TestTotalFailureLeavesContentUntouched(t *testing.T) {
	original := "1\n2\n3\n4\n5\n"
	snap := NewSnapshot(original)
	ops := []Operation{
		{StartLine: 6, EndLine: 7, Replacement: "A"},
		{StartLine: 10, EndLine: 12, Replacement: "B"},
	}

	content, report := Applier{Policy: RejectLower}.Apply(snap, ops)
	require.Equal(t, original, content)
	require.Equal(t, 0, report.Succeeded)
	require.False(t, report.Changed())
	require.Empty(t, report.Diff)
}

func TestEmptyReplacementDeletesRange(t *testing.T) {
	content, report := Applier{Policy: RejectLower}.Apply(fiveLines(), []Operation{
		{StartLine: 2, EndLine: 4, Replacement: ""},
	})
	require.Equal(t, "1\n5\n", content)
	require.Equal(t, 1, report.Succeeded)
}

func TestTrailingNewlinePreserved(t *testing.T) {
	noTrailing := NewSnapshot("a\nb\nc")
	content, _ := Applier{Policy: RejectLower}.Apply(noTrailing, []Operation{
		{StartLine: 2, EndLine: 2, Replacement: "B"},
	})
	require.Equal(t, "a\nB\nc", content)
	require.False(t, strings.HasSuffix(content, "\n"))
}

func TestSnapshotNumbered(t *testing.T) {
	snap := NewSnapshot("alpha\nbeta\n")
	numbered := snap.Numbered()
	require.Contains(t, numbered, "   1 | alpha")
	require.Contains(t, numbered, "   2 | beta")
	require.Equal(t, 2, snap.LineCount())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, RejectLower, p)

	p, err = ParsePolicy("REJECT_HIGHER")
	require.NoError(t, err)
	require.Equal(t, RejectHigher, p)

	_, err = ParsePolicy("keep_both")
	require.Error(t, err)
}
