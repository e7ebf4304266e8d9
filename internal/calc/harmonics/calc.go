package harmonics

import (
	"math"

	"ElectroHub/internal/calc/issue"
	"ElectroHub/internal/calc/num"

	"gonum.org/v1/gonum/floats"
)

type Sample struct {
	Order  int     `json:"h"`
	ZthOhm float64 `json:"zth_ohm"`
	IhA    float64 `json:"ih_a"`
}

type Row struct {
	Order    int     `json:"h"`
	ZOhm     float64 `json:"z_ohm"`
	IA       float64 `json:"i_a"`
	VoltageV float64 `json:"vh_v"`
}

type Input struct {
	Samples       []Sample `json:"samples"`
	PhaseNeutralV float64  `json:"v1_phase_n"`
}

// Result.NoData is set when no sample contributes a harmonic voltage; a zero
// THD then reflects missing measurements, not a clean supply.
type Result struct {
	Rows   []Row         `json:"rows"`
	THDPct float64       `json:"thd_v_pct"`
	NoData bool          `json:"no_data"`
	Issues []issue.Issue `json:"issues,omitempty"`
}

// Calculate sums harmonic voltages Vh = |Zth|·|Ih| into total voltage
// distortion relative to the phase-to-neutral fundamental.
func Calculate(in Input) Result {
	var issues issue.List
	res := Result{Rows: make([]Row, 0, len(in.Samples))}

	vh := make([]float64, 0, len(in.Samples))
	for _, s := range in.Samples {
		z := math.Abs(num.Finite(s.ZthOhm))
		i := math.Abs(num.Finite(s.IhA))
		res.Rows = append(res.Rows, Row{Order: s.Order, ZOhm: z, IA: i, VoltageV: z * i})
		vh = append(vh, z*i)
	}
	rss := 0.0
	if len(vh) > 0 {
		rss = floats.Norm(vh, 2)
	}
	res.NoData = rss == 0

	if in.PhaseNeutralV <= 0 {
		if !res.NoData {
			issues.Invalid("v1_phase_n", "reference voltage %.1f must be positive, distortion reported as zero", in.PhaseNeutralV)
		}
		res.Issues = issues
		return res
	}
	res.THDPct = rss / in.PhaseNeutralV * 100
	res.Issues = issues
	return res
}
