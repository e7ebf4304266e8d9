// Package catalog holds the reference conductor tables used by feeder
// calculations and the sizing search.
//
// Values are referential placeholders; replace them with the official
// ampacity and impedance tables before issuing a deliverable.
package catalog

import "strings"

const (
	MaterialCopper   = "Cu"
	MaterialAluminum = "Al"

	Temp75C = "75C"
	Temp90C = "90C"

	MethodConduit = "Conduit"
	MethodTray    = "Tray"
)

type AmpacityEntry struct {
	Material string  `json:"material"`
	Temp     string  `json:"temp"`
	Size     string  `json:"size"`
	Method   string  `json:"method"`
	Amps     float64 `json:"amps"`
}

type ImpedanceEntry struct {
	Material string  `json:"material"`
	Temp     string  `json:"temp"`
	Size     string  `json:"size"`
	Method   string  `json:"method"`
	RPerKm   float64 `json:"r_ohm_km"`
	XPerKm   float64 `json:"x_ohm_km"`
}

// Catalog is read-only after construction. Entry order is significant: the
// sizing search walks ampacity entries in the order given here.
type Catalog struct {
	ampacity  []AmpacityEntry
	impedance []ImpedanceEntry
}

func New(ampacity []AmpacityEntry, impedance []ImpedanceEntry) *Catalog {
	c := &Catalog{
		ampacity:  make([]AmpacityEntry, len(ampacity)),
		impedance: make([]ImpedanceEntry, len(impedance)),
	}
	copy(c.ampacity, ampacity)
	copy(c.impedance, impedance)
	return c
}

var reference = New(
	[]AmpacityEntry{
		{MaterialCopper, Temp75C, "#3 AWG", MethodConduit, 85},
		{MaterialCopper, Temp75C, "1/0 AWG", MethodConduit, 150},
		{MaterialCopper, Temp75C, "2/0 AWG", MethodConduit, 175},
		{MaterialCopper, Temp75C, "3/0 AWG", MethodConduit, 200},
		{MaterialCopper, Temp90C, "250 kcmil", MethodTray, 290},
		{MaterialCopper, Temp90C, "500 kcmil", MethodTray, 430},
		{MaterialAluminum, Temp75C, "#3 AWG", MethodConduit, 65},
		{MaterialAluminum, Temp75C, "3/0 AWG", MethodConduit, 155},
		{MaterialAluminum, Temp90C, "250 kcmil", MethodTray, 210},
		{MaterialAluminum, Temp90C, "500 kcmil", MethodTray, 320},
	},
	[]ImpedanceEntry{
		{MaterialCopper, Temp75C, "#3 AWG", MethodConduit, 0.67, 0.08},
		{MaterialCopper, Temp75C, "1/0 AWG", MethodConduit, 0.33, 0.08},
		{MaterialCopper, Temp75C, "2/0 AWG", MethodConduit, 0.26, 0.08},
		{MaterialCopper, Temp75C, "3/0 AWG", MethodConduit, 0.21, 0.08},
		{MaterialCopper, Temp90C, "250 kcmil", MethodTray, 0.10, 0.07},
		{MaterialCopper, Temp90C, "500 kcmil", MethodTray, 0.05, 0.07},
		{MaterialAluminum, Temp75C, "#3 AWG", MethodConduit, 1.05, 0.08},
		{MaterialAluminum, Temp75C, "3/0 AWG", MethodConduit, 0.42, 0.08},
		{MaterialAluminum, Temp90C, "250 kcmil", MethodTray, 0.17, 0.07},
		{MaterialAluminum, Temp90C, "500 kcmil", MethodTray, 0.09, 0.07},
	},
)

// Default returns the process-wide reference catalog.
func Default() *Catalog {
	return reference
}

// Impedance finds the R/X row for an exact (material, temp, size, method) key.
func (c *Catalog) Impedance(material, temp, size, method string) (ImpedanceEntry, bool) {
	for _, e := range c.impedance {
		if e.Material == material && e.Temp == temp && e.Size == size && e.Method == method {
			return e, true
		}
	}
	return ImpedanceEntry{}, false
}

// Ampacity returns the entries matching material, temperature class and
// installation method, in catalog order.
func (c *Catalog) Ampacity(material, temp, method string) []AmpacityEntry {
	var out []AmpacityEntry
	for _, e := range c.ampacity {
		if e.Material == material && e.Temp == temp && e.Method == method {
			out = append(out, e)
		}
	}
	return out
}

func (c *Catalog) AmpacityByMaterial(material string) []AmpacityEntry {
	var out []AmpacityEntry
	for _, e := range c.ampacity {
		if e.Material == material {
			out = append(out, e)
		}
	}
	return out
}

func (c *Catalog) AmpacityEntries() []AmpacityEntry {
	out := make([]AmpacityEntry, len(c.ampacity))
	copy(out, c.ampacity)
	return out
}

func (c *Catalog) ImpedanceEntries() []ImpedanceEntry {
	out := make([]ImpedanceEntry, len(c.impedance))
	copy(out, c.impedance)
	return out
}

var methodAliases = map[string]string{
	"conduit": MethodConduit,
	"tuberia": MethodConduit,
	"tubería": MethodConduit,
	"tray":    MethodTray,
	"charola": MethodTray,
}

// NormalizeMethod maps known installation-method spellings onto catalog keys.
// Unknown values are returned trimmed but otherwise unchanged.
func NormalizeMethod(m string) string {
	m = strings.TrimSpace(m)
	if v, ok := methodAliases[strings.ToLower(m)]; ok {
		return v
	}
	return m
}
