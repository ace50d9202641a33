package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/erbbfit/internal/fit"
	"github.com/san-kum/erbbfit/internal/storage"
)

// RunData is the JSON export of a full calibration run.
type RunData struct {
	Meta      storage.RunMetadata `json:"meta"`
	Fitted    []fit.ParamFit      `json:"fitted"`
	Times     []float64           `json:"times"`
	Names     []string            `json:"observables"`
	Data      [][]float64         `json:"data"`
	Initial   [][]float64         `json:"initial"`
	FittedSim [][]float64         `json:"fitted_sim"`
}

// WriteRunJSON assembles a run's artifacts into one JSON document.
func WriteRunJSON(w io.Writer, meta *storage.RunMetadata, fitted []fit.ParamFit, tr *storage.Trajectories) error {
	data := RunData{
		Meta:      *meta,
		Fitted:    fitted,
		Times:     tr.Times,
		Names:     tr.Names,
		Data:      tr.Data,
		Initial:   tr.Initial,
		FittedSim: tr.Fitted,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteRunJSONFile is WriteRunJSON to a file path.
func WriteRunJSONFile(path string, meta *storage.RunMetadata, fitted []fit.ParamFit, tr *storage.Trajectories) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteRunJSON(f, meta, fitted, tr)
}
