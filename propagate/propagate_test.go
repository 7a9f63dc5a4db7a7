package propagate

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/propel-ml/propel/feedback"
	"github.com/propel-ml/propel/loss"
	"github.com/propel-ml/propel/model"
	"github.com/propel-ml/propel/report"
	"github.com/propel-ml/propel/sample"
	"github.com/propel-ml/propel/visitor"
)

// lineDataset builds examples of y = 2x + 1 over a small grid.
func lineDataset(t *testing.T, n int) *sample.InMemory {
	t.Helper()
	inputs := make([][]float64, n)
	targets := make([][]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n)
		inputs[i] = []float64{x}
		targets[i] = []float64{2*x + 1}
	}
	ds, err := sample.NewInMemory(inputs, targets)
	if err != nil {
		t.Fatalf("NewInMemory: %v", err)
	}
	return ds
}

func newModel(t *testing.T) model.Model {
	t.Helper()
	a, err := model.NewAffine(1, 1, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("NewAffine: %v", err)
	}
	model.AssignSlots(a)
	return a
}

func reportJSON(t *testing.T, n *report.Node) string {
	t.Helper()
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	return string(data)
}

func TestOptimizerReducesLoss(t *testing.T) {
	ds := lineDataset(t, 16)
	m := newModel(t)

	learn, _ := visitor.NewLearn(0.5)
	opt, err := NewOptimizer(loss.NewMSE(), sample.NewSequential(4), nil, learn)
	if err != nil {
		t.Fatalf("NewOptimizer: %v", err)
	}

	first, err := opt.Propagate(m, ds, 1)
	if err != nil {
		t.Fatalf("Propagate epoch 1: %v", err)
	}
	var last *report.Node
	for epoch := 2; epoch <= 30; epoch++ {
		last, err = opt.Propagate(m, ds, epoch)
		if err != nil {
			t.Fatalf("Propagate epoch %d: %v", epoch, err)
		}
	}

	firstLoss, _ := first.Scalar("loss")
	lastLoss, _ := last.Scalar("loss")
	if lastLoss >= firstLoss {
		t.Errorf("training did not reduce loss: %f -> %f", firstLoss, lastLoss)
	}
	if lastLoss > 0.01 {
		t.Errorf("expected near-zero loss on a linear fit, got %f", lastLoss)
	}
}

func TestOptimizerAppliesVisitorsInOrder(t *testing.T) {
	ds := lineDataset(t, 4)

	// With a tight MaxNorm after the learn step, the parameter norm can
	// never exceed the clamp at epoch end.
	m := newModel(t)
	learn, _ := visitor.NewLearn(10) // deliberately unstable alone
	norm, _ := visitor.NewMaxNorm(0.5)
	opt, err := NewOptimizer(loss.NewMSE(), sample.NewSequential(2), nil, learn, norm)
	if err != nil {
		t.Fatalf("NewOptimizer: %v", err)
	}
	if _, err := opt.Propagate(m, ds, 1); err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	for _, p := range m.Parameters() {
		var sq float64
		for _, v := range p.Value {
			sq += v * v
		}
		if sq > 0.25+1e-9 {
			t.Errorf("parameter %s norm exceeds clamp: %v", p.Name, p.Value)
		}
	}
}

func TestEvaluatorIsIdempotent(t *testing.T) {
	ds := lineDataset(t, 10)
	m := newModel(t)

	fb := feedback.NewSum()
	eval, err := NewEvaluator(loss.NewMSE(), sample.NewSequential(3), fb)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	before := make([]float64, 2)
	params := m.Parameters()
	copy(before, []float64{params[0].Value[0], params[1].Value[0]})

	first, err := eval.Propagate(m, ds, 1)
	if err != nil {
		t.Fatalf("first Propagate: %v", err)
	}
	second, err := eval.Propagate(m, ds, 1)
	if err != nil {
		t.Fatalf("second Propagate: %v", err)
	}

	if got, want := reportJSON(t, second), reportJSON(t, first); got != want {
		t.Errorf("evaluator reports differ across identical runs:\n%s\n%s", want, got)
	}
	if params[0].Value[0] != before[0] || params[1].Value[0] != before[1] {
		t.Error("evaluator mutated model parameters")
	}
}

func TestReportShape(t *testing.T) {
	ds := lineDataset(t, 5)
	m := newModel(t)

	fb := feedback.NewSum()
	eval, _ := NewEvaluator(loss.NewMSE(), sample.NewSequential(2), fb)

	r, err := eval.Propagate(m, ds, 1)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}

	if batches, _ := r.Scalar("batches"); batches != 3 {
		t.Errorf("expected 3 batches (partial final), got %f", batches)
	}
	if examples, _ := r.Scalar("examples"); examples != 5 {
		t.Errorf("expected 5 examples, got %f", examples)
	}
	if _, err := r.Scalar("feedback", "sum", "total"); err != nil {
		t.Errorf("feedback subtree missing: %v", err)
	}

	// Same config at a later epoch keeps the same key set.
	r2, err := eval.Propagate(m, ds, 2)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	k1, k2 := r.Keys(), r2.Keys()
	if len(k1) != len(k2) {
		t.Fatalf("key sets differ: %v vs %v", k1, k2)
	}
	for i := range k1 {
		if k1[i] != k2[i] {
			t.Errorf("key sets differ: %v vs %v", k1, k2)
		}
	}
}

func TestFeedbackResetBetweenEpochs(t *testing.T) {
	ds := lineDataset(t, 4)
	m := newModel(t)
	fb := feedback.NewSum()
	eval, _ := NewEvaluator(loss.NewMSE(), sample.NewSequential(2), fb)

	r1, _ := eval.Propagate(m, ds, 1)
	r2, _ := eval.Propagate(m, ds, 2)

	t1, _ := r1.Scalar("feedback", "sum", "total")
	t2, _ := r2.Scalar("feedback", "sum", "total")
	if t1 != t2 {
		t.Errorf("frozen model should give identical epoch totals, got %f and %f", t1, t2)
	}
}

func TestConstructorValidation(t *testing.T) {
	learn, _ := visitor.NewLearn(0.1)
	if _, err := NewOptimizer(nil, sample.NewSequential(1), nil, learn); !errors.Is(err, ErrNoCriterion) {
		t.Errorf("expected ErrNoCriterion, got %v", err)
	}
	if _, err := NewOptimizer(loss.NewMSE(), nil, nil, learn); !errors.Is(err, ErrNoSampler) {
		t.Errorf("expected ErrNoSampler, got %v", err)
	}
	if _, err := NewOptimizer(loss.NewMSE(), sample.NewSequential(1), nil); !errors.Is(err, ErrNoVisitors) {
		t.Errorf("expected ErrNoVisitors, got %v", err)
	}
	if _, err := NewEvaluator(nil, sample.NewSequential(1), nil); !errors.Is(err, ErrNoCriterion) {
		t.Errorf("expected ErrNoCriterion, got %v", err)
	}
}
