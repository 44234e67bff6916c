package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/mcmc"
)

func sampleResult() *mcmc.Result {
	return &mcmc.Result{
		Trace: []mcmc.State{
			{-2.50919762305275, 0.5},
			{-2.50919762305275, 0.5},
			{-2.190295438363367, 0.1 + 0.2},
		},
		Accepted:        []bool{false, true},
		Accepts:         1,
		Steps:           2,
		AcceptanceRatio: 0.5,
		Metrics:         map[string]float64{"max_reject_run": 1},
	}
}

func sampleConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Dim = 2
	cfg.Seed = 42
	cfg.Source = "mt19937"
	cfg.Ranges = [][2]float64{{-5, 5}, {0, 1}}
	return cfg
}

var _ = Describe("Store", func() {
	var (
		dir string
		st  *Store
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		st = New(dir)
		Expect(st.Init()).To(Succeed())
	})

	Describe("Save", func() {
		It("creates the run directory with metadata and trace", func() {
			runID, err := st.Save(sampleConfig(), sampleResult())
			Expect(err).NotTo(HaveOccurred())
			Expect(runID).To(HavePrefix("gaussian_"))

			Expect(filepath.Join(dir, runID, "metadata.json")).To(BeARegularFile())
			Expect(filepath.Join(dir, runID, "trace.csv")).To(BeARegularFile())
		})

		It("writes the step,accepted,x columns", func() {
			runID, err := st.Save(sampleConfig(), sampleResult())
			Expect(err).NotTo(HaveOccurred())

			data, err := os.ReadFile(filepath.Join(dir, runID, "trace.csv"))
			Expect(err).NotTo(HaveOccurred())
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(4))
			Expect(lines[0]).To(Equal("step,accepted,x0,x1"))
			Expect(lines[1]).To(HavePrefix("0,,"))
			Expect(lines[2]).To(HavePrefix("1,false,"))
			Expect(lines[3]).To(HavePrefix("2,true,"))
		})

		It("gives distinct ids to runs saved back to back", func() {
			seen := map[string]bool{}
			for i := 0; i < 5; i++ {
				runID, err := st.Save(sampleConfig(), sampleResult())
				Expect(err).NotTo(HaveOccurred())
				Expect(seen).NotTo(HaveKey(runID))
				seen[runID] = true
			}
		})
	})

	Describe("Load", func() {
		It("round-trips the metadata", func() {
			runID, err := st.Save(sampleConfig(), sampleResult())
			Expect(err).NotTo(HaveOccurred())

			meta, err := st.Load(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.ID).To(Equal(runID))
			Expect(meta.Seed).To(Equal(int64(42)))
			Expect(meta.Source).To(Equal("mt19937"))
			Expect(meta.Steps).To(Equal(2))
			Expect(meta.AcceptanceRatio).To(Equal(0.5))
			Expect(meta.Ranges).To(Equal(mcmc.Range{{Low: -5, High: 5}, {Low: 0, High: 1}}))
			Expect(meta.Metrics).To(HaveKeyWithValue("max_reject_run", 1.0))
		})

		It("reports missing runs", func() {
			_, err := st.Load("gaussian_0")
			Expect(err).To(MatchError(ErrRunNotFound))
		})

		It("rejects ids that escape the store", func() {
			_, err := st.Load("../elsewhere")
			Expect(err).To(MatchError(ErrRunNotFound))
		})
	})

	Describe("LoadTrace", func() {
		It("restores every state bit for bit", func() {
			result := sampleResult()
			runID, err := st.Save(sampleConfig(), result)
			Expect(err).NotTo(HaveOccurred())

			trace, accepted, err := st.LoadTrace(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace).To(HaveLen(3))
			for i := range trace {
				Expect(trace[i]).To(Equal(result.Trace[i]))
			}
			Expect(accepted).To(Equal([]bool{false, true}))
		})

		It("fails on a corrupt trace", func() {
			runID, err := st.Save(sampleConfig(), sampleResult())
			Expect(err).NotTo(HaveOccurred())
			path := filepath.Join(dir, runID, "trace.csv")
			Expect(os.WriteFile(path, []byte("step,accepted,x0\n0,,abc\n"), 0644)).To(Succeed())

			_, _, err = st.LoadTrace(runID)
			Expect(err).To(MatchError(ErrBadTrace))
		})
	})

	Describe("List", func() {
		It("is empty for a missing directory", func() {
			runs, err := New(filepath.Join(dir, "nope")).List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(BeEmpty())
		})

		It("returns runs oldest first and skips stray directories", func() {
			first, err := st.Save(sampleConfig(), sampleResult())
			Expect(err).NotTo(HaveOccurred())
			second, err := st.Save(sampleConfig(), sampleResult())
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Mkdir(filepath.Join(dir, "scratch"), 0755)).To(Succeed())

			runs, err := st.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(2))
			Expect(runs[0].ID).To(Equal(first))
			Expect(runs[1].ID).To(Equal(second))

			latest, err := st.Latest()
			Expect(err).NotTo(HaveOccurred())
			Expect(latest).To(Equal(second))
		})

		It("has no latest run when empty", func() {
			_, err := st.Latest()
			Expect(err).To(MatchError(ErrRunNotFound))
		})
	})

	Describe("Export", func() {
		It("writes metadata and trace as one JSON document", func() {
			runID, err := st.Save(sampleConfig(), sampleResult())
			Expect(err).NotTo(HaveOccurred())
			meta, result, err := st.LoadResult(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Steps).To(Equal(2))

			var buf bytes.Buffer
			Expect(WriteJSON(&buf, meta, result)).To(Succeed())

			var decoded ExportData
			Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
			Expect(decoded.ID).To(Equal(runID))
			Expect(decoded.Trace).To(HaveLen(3))
			Expect(decoded.Accepted).To(Equal([]bool{false, true}))
		})

		It("writes to a file", func() {
			runID, err := st.Save(sampleConfig(), sampleResult())
			Expect(err).NotTo(HaveOccurred())
			meta, result, err := st.LoadResult(runID)
			Expect(err).NotTo(HaveOccurred())

			path := filepath.Join(dir, "export.json")
			Expect(ExportJSON(path, meta, result)).To(Succeed())
			Expect(path).To(BeARegularFile())
		})
	})
})
