package report

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEpochReport(loss, accuracy float64) *Node {
	confusion := New()
	confusion.SetScalar("accuracy", accuracy)
	feedback := New()
	feedback.SetNode("confusion", confusion)
	validator := New()
	validator.SetScalar("loss", loss)
	validator.SetNode("feedback", feedback)
	root := New()
	root.SetNode("validator", validator)
	return root
}

func TestScalarPathLookup(t *testing.T) {
	root := buildEpochReport(0.25, 0.9)

	got, err := root.Scalar("validator", "feedback", "confusion", "accuracy")
	require.NoError(t, err)
	assert.Equal(t, 0.9, got)

	got, err = root.Scalar("validator", "loss")
	require.NoError(t, err)
	assert.Equal(t, 0.25, got)
}

func TestMissingPathIsError(t *testing.T) {
	root := buildEpochReport(0.25, 0.9)

	_, err := root.Scalar("validator", "feedback", "missing", "accuracy")
	assert.ErrorIs(t, err, ErrNoSuchKey)

	_, err = root.Scalar("validator", "loss", "deeper")
	assert.ErrorIs(t, err, ErrWrongKind)

	_, err = root.Scalar()
	assert.Error(t, err)
}

func TestStringEntries(t *testing.T) {
	n := New()
	n.SetString("id", "exp-1")

	s, err := n.String("id")
	require.NoError(t, err)
	assert.Equal(t, "exp-1", s)

	_, err = n.Scalar("id")
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestMergeCombinesSubtrees(t *testing.T) {
	a := New()
	opt := New()
	opt.SetScalar("loss", 1.5)
	a.SetNode("optimizer", opt)

	b := New()
	val := New()
	val.SetScalar("loss", 2.5)
	b.SetNode("validator", val)

	a.Merge(b)
	assert.ElementsMatch(t, []string{"optimizer", "validator"}, a.Keys())

	// Merging into an existing subtree is recursive.
	c := New()
	opt2 := New()
	opt2.SetScalar("batches", 4)
	c.SetNode("optimizer", opt2)
	a.Merge(c)

	loss, err := a.Scalar("optimizer", "loss")
	require.NoError(t, err)
	assert.Equal(t, 1.5, loss)
	batches, err := a.Scalar("optimizer", "batches")
	require.NoError(t, err)
	assert.Equal(t, 4.0, batches)
}

func TestStableKeySetAcrossEpochs(t *testing.T) {
	first := buildEpochReport(0.5, 0.8)
	later := buildEpochReport(0.1, 0.95)

	var walk func(n *Node) []string
	walk = func(n *Node) []string {
		keys := n.Keys()
		out := append([]string{}, keys...)
		for _, k := range keys {
			if kind, _ := n.KindOf(k); kind == KindNode {
				child, err := n.At(k)
				if err != nil {
					t.Fatalf("At(%q): %v", k, err)
				}
				for _, ck := range walk(child) {
					out = append(out, k+"/"+ck)
				}
			}
		}
		return out
	}

	assert.Equal(t, walk(first), walk(later))
}

func TestJSONRoundTrip(t *testing.T) {
	root := buildEpochReport(0.25, 0.9)
	root.SetString("id", "exp-42")
	root.SetScalar("epoch", 7)

	data, err := json.Marshal(root)
	require.NoError(t, err)

	decoded := New()
	require.NoError(t, json.Unmarshal(data, decoded))

	acc, err := decoded.Scalar("validator", "feedback", "confusion", "accuracy")
	require.NoError(t, err)
	assert.Equal(t, 0.9, acc)

	id, err := decoded.String("id")
	require.NoError(t, err)
	assert.Equal(t, "exp-42", id)

	epoch, err := decoded.Scalar("epoch")
	require.NoError(t, err)
	assert.Equal(t, 7.0, epoch)
}

func TestKindOfUnknownKey(t *testing.T) {
	n := New()
	_, err := n.KindOf("nope")
	if !errors.Is(err, ErrNoSuchKey) {
		t.Fatalf("expected ErrNoSuchKey, got %v", err)
	}
}
