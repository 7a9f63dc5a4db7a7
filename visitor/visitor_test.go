package visitor

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/propel-ml/propel/model"
)

// newLeaf builds a 2->1 affine leaf with fixed weights and gradient.
func newLeaf(t *testing.T, weights, grad []float64) *model.Affine {
	t.Helper()
	a, err := model.NewAffine(2, 1, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewAffine: %v", err)
	}
	model.AssignSlots(a)
	w := a.Parameters()[0]
	copy(w.Value, weights)
	copy(w.Grad, grad)
	return a
}

// setGrad overwrites the weight gradient of the leaf.
func setGrad(a *model.Affine, grad []float64) {
	copy(a.Parameters()[0].Grad, grad)
}

func applyAll(t *testing.T, m model.Model, vs []model.Visitor) {
	t.Helper()
	for _, v := range vs {
		if err := m.Accept(v); err != nil {
			t.Fatalf("visitor %s: %v", v.Name(), err)
		}
	}
}

func TestLearnStep(t *testing.T) {
	leaf := newLeaf(t, []float64{1, 2}, []float64{0.5, -0.5})
	learn, err := NewLearn(0.1)
	if err != nil {
		t.Fatalf("NewLearn: %v", err)
	}

	applyAll(t, leaf, []model.Visitor{learn})

	w := leaf.Parameters()[0].Value
	if math.Abs(w[0]-0.95) > 1e-12 || math.Abs(w[1]-2.05) > 1e-12 {
		t.Errorf("expected [0.95 2.05], got %v", w)
	}
}

func TestMomentumSeedsThenBlends(t *testing.T) {
	leaf := newLeaf(t, []float64{0, 0}, []float64{1, 1})
	mom, err := NewMomentum(0.5)
	if err != nil {
		t.Fatalf("NewMomentum: %v", err)
	}

	// First visit seeds velocity with the raw gradient.
	applyAll(t, leaf, []model.Visitor{mom})
	g := leaf.Parameters()[0].Grad
	if g[0] != 1 || g[1] != 1 {
		t.Fatalf("first visit should leave the gradient unchanged, got %v", g)
	}

	// Second visit blends: 0.5*1 + 1 = 1.5.
	setGrad(leaf, []float64{1, 1})
	applyAll(t, leaf, []model.Visitor{mom})
	if g[0] != 1.5 || g[1] != 1.5 {
		t.Errorf("expected blended gradient [1.5 1.5], got %v", g)
	}
}

func TestVisitorOrderMatters(t *testing.T) {
	const lr = 0.1
	grad := []float64{1, 1}

	run := func(order func(mom, learn, norm model.Visitor) []model.Visitor) []float64 {
		leaf := newLeaf(t, []float64{1, 1}, grad)
		mom, _ := NewMomentum(0.5)
		learn, _ := NewLearn(lr)
		norm, _ := NewMaxNorm(100) // loose enough to never clamp here
		vs := order(mom, learn, norm)

		// Two batches with identical raw gradients.
		for round := 0; round < 2; round++ {
			setGrad(leaf, grad)
			applyAll(t, leaf, vs)
		}
		out := make([]float64, 2)
		copy(out, leaf.Parameters()[0].Value)
		return out
	}

	momentumFirst := run(func(mom, learn, norm model.Visitor) []model.Visitor {
		return []model.Visitor{mom, learn, norm}
	})
	learnFirst := run(func(mom, learn, norm model.Visitor) []model.Visitor {
		return []model.Visitor{learn, mom, norm}
	})

	// Momentum-first: steps of lr*1 then lr*1.5. Learn-first: lr*1 twice.
	if math.Abs(momentumFirst[0]-(1-0.25)) > 1e-12 {
		t.Errorf("momentum-first: expected 0.75, got %v", momentumFirst)
	}
	if math.Abs(learnFirst[0]-(1-0.2)) > 1e-12 {
		t.Errorf("learn-first: expected 0.8, got %v", learnFirst)
	}
	if momentumFirst[0] == learnFirst[0] {
		t.Error("visitor order must change the final parameters")
	}
}

func TestMaxNormClamps(t *testing.T) {
	leaf := newLeaf(t, []float64{3, 4}, []float64{0, 0})
	norm, err := NewMaxNorm(1)
	if err != nil {
		t.Fatalf("NewMaxNorm: %v", err)
	}

	applyAll(t, leaf, []model.Visitor{norm})

	w := leaf.Parameters()[0].Value
	if math.Abs(math.Hypot(w[0], w[1])-1) > 1e-12 {
		t.Errorf("expected unit norm, got %v", w)
	}
	// Direction is preserved.
	if math.Abs(w[0]/w[1]-0.75) > 1e-12 {
		t.Errorf("clamping must preserve direction, got %v", w)
	}

	// Already inside the ball: untouched.
	applyAll(t, leaf, []model.Visitor{norm})
	if math.Abs(math.Hypot(w[0], w[1])-1) > 1e-12 {
		t.Errorf("re-clamping a unit vector must be a no-op, got %v", w)
	}
}

func TestWeightDecayAddsToGradient(t *testing.T) {
	leaf := newLeaf(t, []float64{2, -2}, []float64{1, 1})
	wd, err := NewWeightDecay(0.5)
	if err != nil {
		t.Fatalf("NewWeightDecay: %v", err)
	}

	applyAll(t, leaf, []model.Visitor{wd})

	g := leaf.Parameters()[0].Grad
	if g[0] != 2 || g[1] != 0 {
		t.Errorf("expected decayed gradient [2 0], got %v", g)
	}
}

func TestScheduledLearnFollowsScheduler(t *testing.T) {
	learn, err := NewScheduledLearn(1.0, NewStepLR(2, 0.1))
	if err != nil {
		t.Fatalf("NewScheduledLearn: %v", err)
	}

	cases := []struct {
		epoch int
		want  float64
	}{
		{1, 1.0},
		{2, 1.0},
		{3, 0.1},
		{5, 0.01},
	}
	for _, c := range cases {
		StartEpoch([]model.Visitor{learn}, c.epoch)
		if got := learn.LR(); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("epoch %d: LR = %g, want %g", c.epoch, got, c.want)
		}
	}
}

func TestExponentialLR(t *testing.T) {
	sched := NewExponentialLR(0.5)
	if got := sched.LR(1, 1.0); got != 1.0 {
		t.Errorf("epoch 1: got %g, want 1", got)
	}
	if got := sched.LR(3, 1.0); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("epoch 3: got %g, want 0.25", got)
	}
}

func TestConfigValidation(t *testing.T) {
	if _, err := NewLearn(0); !errors.Is(err, ErrBadConfig) {
		t.Errorf("NewLearn(0): expected ErrBadConfig, got %v", err)
	}
	if _, err := NewMomentum(1); !errors.Is(err, ErrBadConfig) {
		t.Errorf("NewMomentum(1): expected ErrBadConfig, got %v", err)
	}
	if _, err := NewMaxNorm(-1); !errors.Is(err, ErrBadConfig) {
		t.Errorf("NewMaxNorm(-1): expected ErrBadConfig, got %v", err)
	}
	if _, err := NewWeightDecay(0); !errors.Is(err, ErrBadConfig) {
		t.Errorf("NewWeightDecay(0): expected ErrBadConfig, got %v", err)
	}
}
