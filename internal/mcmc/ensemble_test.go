package mcmc

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/mcsim/internal/rng"
)

func pcgFactory(seed int64) (rng.Source, error) { return rng.NewPCG(uint64(seed)), nil }

func TestEnsembleRun_MatchesIndependentChains(t *testing.T) {
	g := NewWithT(t)

	bounds := Range{{-10, 10}}
	cfg := Config{Steps: 300, StepSize: 1}

	results, err := NewEnsemble(standardNormal(), bounds, 5, 100, pcgFactory).
		WithMaxWorkers(2).
		Run(context.Background(), cfg)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(results).To(HaveLen(5))

	for i, res := range results {
		single, err := New(standardNormal(), bounds).Run(context.Background(), rng.NewPCG(uint64(100+i)), cfg)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(res.Trace).To(Equal(single.Trace), "chain %d", i)
		g.Expect(res.Accepts).To(Equal(single.Accepts))
	}
}

func TestEnsembleRun_PerChainMetrics(t *testing.T) {
	g := NewWithT(t)

	results, err := NewEnsemble(standardNormal(), Range{{-10, 10}}, 3, 1, pcgFactory).
		WithMetrics(func() []Metric { return []Metric{&countMetric{}} }).
		Run(context.Background(), Config{Steps: 100, StepSize: 1})
	g.Expect(err).NotTo(HaveOccurred())

	for _, res := range results {
		g.Expect(res.Metrics["count"]).To(Equal(float64(res.Accepts)))
	}
}

func TestEnsembleRun_Errors(t *testing.T) {
	g := NewWithT(t)

	_, err := NewEnsemble(standardNormal(), Range{{-1, 1}}, 0, 1, pcgFactory).Run(context.Background(), Config{Steps: 1, StepSize: 1})
	g.Expect(err).To(HaveOccurred())

	bad := errors.New("no entropy")
	factory := func(seed int64) (rng.Source, error) {
		if seed == 3 {
			return nil, bad
		}
		return rng.NewPCG(uint64(seed)), nil
	}
	_, err = NewEnsemble(standardNormal(), Range{{-1, 1}}, 4, 0, factory).Run(context.Background(), Config{Steps: 10, StepSize: 1})
	g.Expect(errors.Is(err, bad)).To(BeTrue())
}
