package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/erbbfit/internal/fit"
)

// Store persists calibration runs under a base directory, one
// subdirectory per run: metadata.json, posterior.csv (accepted
// positions with scores after burn-in), fitted.csv (parameter table)
// and trajectories.csv (data vs initial vs fitted observables).
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string    `json:"id"`
	Scenario       string    `json:"scenario"`
	Timestamp      time.Time `json:"timestamp"`
	Seed           int64     `json:"seed"`
	Nsteps         int       `json:"nsteps"`
	Burn           int       `json:"burn"`
	Acceptance     float64   `json:"acceptance"`
	PosteriorSize  int       `json:"posterior_size"`
	BestLikelihood float64   `json:"best_likelihood"`
	BestPrior      float64   `json:"best_prior"`
	BestPosterior  float64   `json:"best_posterior"`
	ElapsedSec     float64   `json:"elapsed_sec"`
	Params         []string  `json:"params"`
	Observables    []string  `json:"observables"`
}

// SaveRun writes a completed calibration to a fresh run directory and
// returns the run id.
func (s *Store) SaveRun(scenario string, seed int64, res *fit.Result, elapsed time.Duration) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	params := make([]string, len(res.Params))
	for i, p := range res.Params {
		params[i] = p.Name
	}
	meta := RunMetadata{
		ID:             runID,
		Scenario:       scenario,
		Timestamp:      time.Now(),
		Seed:           seed,
		Nsteps:         res.Chain.Opts.Nsteps,
		Burn:           res.Burn,
		Acceptance:     res.Chain.AcceptanceRate(),
		PosteriorSize:  len(res.Posterior),
		BestLikelihood: res.Best.Likelihood,
		BestPrior:      res.Best.Prior,
		BestPosterior:  res.Best.Posterior,
		ElapsedSec:     elapsed.Seconds(),
		Params:         params,
		Observables:    res.ObsNames,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := s.writePosterior(runDir, params, res); err != nil {
		return "", err
	}
	if err := s.writeFitted(runDir, res); err != nil {
		return "", err
	}
	if err := s.writeTrajectories(runDir, res); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *Store) writePosterior(runDir string, params []string, res *fit.Result) error {
	f, err := os.Create(filepath.Join(runDir, "posterior.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	header := append(append([]string{}, params...), "likelihood", "prior", "posterior")
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range res.Posterior {
		row := make([]string, 0, len(header))
		for _, v := range r.Position {
			row = append(row, formatFloat(v))
		}
		row = append(row, formatFloat(r.Likelihood), formatFloat(r.Prior), formatFloat(r.Posterior))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeFitted(runDir string, res *fit.Result) error {
	f, err := os.Create(filepath.Join(runDir, "fitted.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"parameter", "nominal", "fitted", "log10_ratio"}); err != nil {
		return err
	}
	for _, p := range res.Params {
		err := w.Write([]string{
			p.Name,
			formatFloat(p.Nominal),
			formatFloat(p.Fitted),
			formatFloat(p.Log10Ratio()),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeTrajectories(runDir string, res *fit.Result) error {
	f, err := os.Create(filepath.Join(runDir, "trajectories.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"time"}
	for _, name := range res.ObsNames {
		header = append(header, name+"_data", name+"_initial", name+"_fitted")
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, t := range res.Tspan {
		row := []string{formatFloat(t)}
		for j := range res.ObsNames {
			row = append(row,
				formatFloat(res.DataNorm[i][j]),
				formatFloat(res.InitialTraj[i][j]),
				formatFloat(res.FittedTraj[i][j]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPosterior returns the posterior sample matrix with its column
// names. The last three columns are the likelihood, prior and
// posterior scores.
func (s *Store) LoadPosterior(runID string) ([]string, [][]float64, error) {
	return readMatrix(filepath.Join(s.baseDir, runID, "posterior.csv"))
}

// LoadFitted returns the fitted-parameter table of a run.
func (s *Store) LoadFitted(runID string) ([]fit.ParamFit, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "fitted.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	params := make([]fit.ParamFit, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 3 {
			continue
		}
		nominal, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: fitted.csv row %d: %w", i, err)
		}
		fitted, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: fitted.csv row %d: %w", i, err)
		}
		params = append(params, fit.ParamFit{Name: rec[0], Nominal: nominal, Fitted: fitted})
	}
	return params, nil
}

// Trajectories are the saved data/initial/fitted observable curves.
type Trajectories struct {
	Times   []float64
	Names   []string
	Data    [][]float64
	Initial [][]float64
	Fitted  [][]float64
}

func (s *Store) LoadTrajectories(runID string) (*Trajectories, error) {
	header, rows, err := readMatrix(filepath.Join(s.baseDir, runID, "trajectories.csv"))
	if err != nil {
		return nil, err
	}
	if len(header) < 4 || (len(header)-1)%3 != 0 {
		return nil, fmt.Errorf("storage: trajectories.csv: unexpected column count %d", len(header))
	}
	nobs := (len(header) - 1) / 3
	tr := &Trajectories{
		Names:   make([]string, nobs),
		Data:    make([][]float64, len(rows)),
		Initial: make([][]float64, len(rows)),
		Fitted:  make([][]float64, len(rows)),
	}
	for j := 0; j < nobs; j++ {
		name := header[1+3*j]
		tr.Names[j] = name[:len(name)-len("_data")]
	}
	for i, row := range rows {
		tr.Times = append(tr.Times, row[0])
		tr.Data[i] = make([]float64, nobs)
		tr.Initial[i] = make([]float64, nobs)
		tr.Fitted[i] = make([]float64, nobs)
		for j := 0; j < nobs; j++ {
			tr.Data[i][j] = row[1+3*j]
			tr.Initial[i][j] = row[2+3*j]
			tr.Fitted[i][j] = row[3+3*j]
		}
	}
	return tr, nil
}

func readMatrix(path string) ([]string, [][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("storage: %s is empty", path)
	}
	header := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: %s row %d: %w", path, i+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}
