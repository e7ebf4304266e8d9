package compliance

type Targets struct {
	PowerFactor  float64 `json:"pf"`
	THDPct       float64 `json:"thd_pct"`
	DropPct      float64 `json:"dv_pct"`
	GroundingOhm float64 `json:"rg_ohm"`
}

// Input is the aggregated view of the project results being checked.
type Input struct {
	MaxDropPct   float64 `json:"dv_max_pct"`
	PowerFactor  float64 `json:"pf_total"`
	THDPct       float64 `json:"thd_v_pct"`
	// THDNoData is set when the harmonics stage had nothing to measure.
	THDNoData    bool    `json:"thd_no_data"`
	GroundingOhm float64 `json:"rg_ohm"`
	Targets      Targets `json:"targets"`
}

type Rule string

const (
	RuleVoltageDrop Rule = "voltage_drop"
	RulePowerFactor Rule = "power_factor"
	RuleTHD         Rule = "thd"
	RuleGrounding   Rule = "grounding"
)

type Criterion struct {
	Rule   Rule    `json:"rule"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Pass   bool    `json:"pass"`
	NoData bool    `json:"no_data,omitempty"`
}

type Result struct {
	Criteria []Criterion `json:"criteria"`
	AllPass  bool        `json:"all_pass"`
}

// Evaluate compares the aggregated results against the targets. A THD of
// exactly zero passes, flagged NoData only when the input says nothing was
// measured; a grounding resistance of zero was never resolved and always fails.
func Evaluate(in Input) Result {
	dv := max(0, in.MaxDropPct)

	res := Result{Criteria: []Criterion{
		{Rule: RuleVoltageDrop, Value: dv, Target: in.Targets.DropPct, Pass: dv <= in.Targets.DropPct},
		{Rule: RulePowerFactor, Value: in.PowerFactor, Target: in.Targets.PowerFactor, Pass: in.PowerFactor >= in.Targets.PowerFactor},
		{Rule: RuleTHD, Value: in.THDPct, Target: in.Targets.THDPct, Pass: in.THDPct == 0 || in.THDPct <= in.Targets.THDPct, NoData: in.THDNoData},
		{Rule: RuleGrounding, Value: in.GroundingOhm, Target: in.Targets.GroundingOhm, Pass: in.GroundingOhm > 0 && in.GroundingOhm <= in.Targets.GroundingOhm},
	}}
	res.AllPass = true
	for _, c := range res.Criteria {
		res.AllPass = res.AllPass && c.Pass
	}
	return res
}

// Get returns the criterion for a rule.
func (r Result) Get(rule Rule) (Criterion, bool) {
	for _, c := range r.Criteria {
		if c.Rule == rule {
			return c, true
		}
	}
	return Criterion{}, false
}
