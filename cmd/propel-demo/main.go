// Command propel-demo trains a small classifier on synthetic two-blob
// data, with early stopping on validation accuracy and the best model
// checkpointed to ./checkpoints.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/propel-ml/propel/checkpoint"
	"github.com/propel-ml/propel/experiment"
	"github.com/propel-ml/propel/feedback"
	"github.com/propel-ml/propel/loss"
	"github.com/propel-ml/propel/model"
	"github.com/propel-ml/propel/observer"
	"github.com/propel-ml/propel/propagate"
	"github.com/propel-ml/propel/sample"
	"github.com/propel-ml/propel/visitor"
)

const seed = 42

// blobs generates n points from two Gaussian blobs with one-hot labels.
func blobs(n int, rng *rand.Rand) (*sample.InMemory, error) {
	inputs := make([][]float64, n)
	targets := make([][]float64, n)
	for i := 0; i < n; i++ {
		class := i % 2
		cx := float64(class)*4 - 2
		inputs[i] = []float64{cx + rng.NormFloat64(), cx + rng.NormFloat64()}
		hot := []float64{0, 0}
		hot[class] = 1
		targets[i] = hot
	}
	return sample.NewInMemory(inputs, targets)
}

func run() error {
	rng := rand.New(rand.NewSource(seed))

	train, err := blobs(200, rng)
	if err != nil {
		return err
	}
	valid, err := blobs(60, rng)
	if err != nil {
		return err
	}

	hidden, err := model.NewAffine(2, 8, rng)
	if err != nil {
		return err
	}
	out, err := model.NewAffine(8, 2, rng)
	if err != nil {
		return err
	}
	net, err := model.NewSequential(hidden, model.NewTanh(), out)
	if err != nil {
		return err
	}

	momentum, err := visitor.NewMomentum(0.9)
	if err != nil {
		return err
	}
	learn, err := visitor.NewScheduledLearn(0.1, visitor.NewExponentialLR(0.97))
	if err != nil {
		return err
	}
	clamp, err := visitor.NewMaxNorm(10)
	if err != nil {
		return err
	}

	trainFeedback, err := feedback.NewConfusion(2)
	if err != nil {
		return err
	}
	validFeedback, err := feedback.NewConfusion(2)
	if err != nil {
		return err
	}

	optimizer, err := propagate.NewOptimizer(
		loss.NewCrossEntropy(), sample.NewShuffled(16), trainFeedback,
		momentum, learn, clamp,
	)
	if err != nil {
		return err
	}
	validator, err := propagate.NewEvaluator(
		loss.NewCrossEntropy(), sample.NewSequential(16), validFeedback,
	)
	if err != nil {
		return err
	}

	stopper, err := observer.NewEarlyStopper(observer.EarlyStopperConfig{
		Path:     []string{"validator", "feedback", "confusion", "accuracy"},
		Maximize: true,
		Patience: 5,
	})
	if err != nil {
		return err
	}

	store, err := checkpoint.NewFileStore("checkpoints")
	if err != nil {
		return err
	}

	exp, err := experiment.New(net, 50,
		experiment.WithSeed(seed),
		experiment.WithStore(store),
		experiment.WithObserver(observer.NewLogger(os.Stdout)),
		experiment.WithObserver(stopper),
	)
	if err != nil {
		return err
	}
	exp.AddPropagator("optimizer", experiment.TrainSet, optimizer)
	exp.AddPropagator("validator", experiment.ValidSet, validator)

	final, err := exp.Run(experiment.MapSource{
		experiment.TrainSet: train,
		experiment.ValidSet: valid,
	})
	if err != nil {
		return err
	}

	accuracy, err := final.Scalar("validator", "feedback", "confusion", "accuracy")
	if err != nil {
		return err
	}
	fmt.Printf("final validation accuracy: %.2f%% (%s)\n", accuracy*100, exp.StopReason())

	best, err := store.Load(exp.ID())
	if err != nil {
		return err
	}
	fmt.Printf("best snapshot: epoch %d, score %.4f\n", best.Epoch, best.Score)
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
