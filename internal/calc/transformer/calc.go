package transformer

import (
	"ElectroHub/internal/calc/issue"
	"ElectroHub/internal/calc/num"
)

type Input struct {
	ApparentKVA  float64 `json:"apparent_kva"`
	ReservePct   float64 `json:"reserve_pct"`
	VoltageLL    float64 `json:"vll"`
	ImpedancePct float64 `json:"z_pct"`
	// SourceSccKVA is the short-circuit capacity at the point of connection.
	// Zero or negative means not supplied.
	SourceSccKVA float64 `json:"scc_pcc_kva"`
}

type Result struct {
	RatingKVA       float64       `json:"s_kva"`
	FullLoadA       float64       `json:"i_fl_a"`
	IscTransformerA float64       `json:"icc_trafo_a"`
	IscOriginA      float64       `json:"icc_origin_a"`
	SourceOhm       float64       `json:"z_source_ohm"`
	TransformerOhm  float64       `json:"z_trafo_ohm"`
	SourceAssumed   bool          `json:"source_assumed"`
	Issues          []issue.Issue `json:"issues,omitempty"`
	Notes           string        `json:"notes"`
}

// Calculate sizes the transformer with the reserve margin and derives the
// short-circuit current at the origin of the low-voltage board, with and
// without the upstream network impedance.
func Calculate(in Input) Result {
	var issues issue.List
	res := Result{Notes: "Infinite-bus source assumed when the point-of-connection capacity is not supplied."}

	res.RatingKVA = num.Finite(in.ApparentKVA * (1 + in.ReservePct/100))
	if in.VoltageLL <= 0 {
		issues.Invalid("vll", "line-to-line voltage %.1f must be positive", in.VoltageLL)
		res.Issues = issues
		return res
	}
	res.FullLoadA = res.RatingKVA * 1000 / (num.Sqrt3 * in.VoltageLL)

	if in.ImpedancePct <= 0 {
		issues.Invalid("z_pct", "transformer impedance %.2f%% must be positive", in.ImpedancePct)
		res.Issues = issues
		return res
	}
	res.IscTransformerA = res.FullLoadA * (100 / in.ImpedancePct)
	if res.IscTransformerA <= 0 {
		issues.Quality("s_kva", "zero transformer rating, short-circuit current undefined")
		res.Issues = issues
		return res
	}
	res.TransformerOhm = in.VoltageLL / (num.Sqrt3 * res.IscTransformerA)

	if in.SourceSccKVA > 0 {
		res.SourceOhm = in.VoltageLL * in.VoltageLL / (in.SourceSccKVA * 1000)
	} else {
		res.SourceAssumed = true
		issues.Quality("scc_pcc_kva", "point-of-connection capacity not supplied, source impedance taken as zero")
	}
	res.IscOriginA = in.VoltageLL / (num.Sqrt3 * (res.SourceOhm + res.TransformerOhm))
	res.Issues = issues
	return res
}
