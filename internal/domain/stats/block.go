package stats

// Attribute names one of the five raw stats
type Attribute string

const (
	AttributeStrength     Attribute = "str"
	AttributeDexterity    Attribute = "dex"
	AttributeConstitution Attribute = "con"
	AttributeWisdom       Attribute = "wis"
	AttributeLuck         Attribute = "luk"
)

// Primaries are the four stats that take part in stat-point allocation and blessings
var Primaries = []Attribute{AttributeStrength, AttributeDexterity, AttributeConstitution, AttributeWisdom}

// ParseAttribute maps a user supplied key onto an Attribute
func ParseAttribute(s string) (Attribute, bool) {
	switch Attribute(s) {
	case AttributeStrength, AttributeDexterity, AttributeConstitution, AttributeWisdom, AttributeLuck:
		return Attribute(s), true
	}
	return "", false
}

// Block is a plain set of stat values
type Block struct {
	Str int `json:"str" yaml:"str"`
	Dex int `json:"dex" yaml:"dex"`
	Con int `json:"con" yaml:"con"`
	Wis int `json:"wis" yaml:"wis"`
	Luk int `json:"luk" yaml:"luk"`
}

// Get returns the value of a single attribute
func (b Block) Get(a Attribute) int {
	switch a {
	case AttributeStrength:
		return b.Str
	case AttributeDexterity:
		return b.Dex
	case AttributeConstitution:
		return b.Con
	case AttributeWisdom:
		return b.Wis
	case AttributeLuck:
		return b.Luk
	}
	return 0
}

// Set overwrites a single attribute
func (b *Block) Set(a Attribute, v int) {
	switch a {
	case AttributeStrength:
		b.Str = v
	case AttributeDexterity:
		b.Dex = v
	case AttributeConstitution:
		b.Con = v
	case AttributeWisdom:
		b.Wis = v
	case AttributeLuck:
		b.Luk = v
	}
}

// Add increments a single attribute
func (b *Block) Add(a Attribute, n int) {
	b.Set(a, b.Get(a)+n)
}

// Plus returns the element-wise sum
func (b Block) Plus(o Block) Block {
	return Block{
		Str: b.Str + o.Str,
		Dex: b.Dex + o.Dex,
		Con: b.Con + o.Con,
		Wis: b.Wis + o.Wis,
		Luk: b.Luk + o.Luk,
	}
}

// Scale multiplies every value and truncates
func (b Block) Scale(f float64) Block {
	return Block{
		Str: int(float64(b.Str) * f),
		Dex: int(float64(b.Dex) * f),
		Con: int(float64(b.Con) * f),
		Wis: int(float64(b.Wis) * f),
		Luk: int(float64(b.Luk) * f),
	}
}

// Highest returns the largest primary. Ties go to the earlier entry of Primaries.
func (b Block) Highest() Attribute {
	best := AttributeStrength
	for _, a := range Primaries[1:] {
		if b.Get(a) > b.Get(best) {
			best = a
		}
	}
	return best
}

// Modifiers are per-attribute multipliers applied to raw stats
type Modifiers struct {
	Str float64 `json:"str_mod" yaml:"str_mod"`
	Dex float64 `json:"dex_mod" yaml:"dex_mod"`
	Con float64 `json:"con_mod" yaml:"con_mod"`
	Wis float64 `json:"wis_mod" yaml:"wis_mod"`
	Luk float64 `json:"luk_mod" yaml:"luk_mod"`
}

// DefaultModifiers are the novice multipliers
func DefaultModifiers() Modifiers {
	return Modifiers{Str: 1, Dex: 1, Con: 1, Wis: 1, Luk: 1.5}
}

// Get returns the multiplier for an attribute
func (m Modifiers) Get(a Attribute) float64 {
	switch a {
	case AttributeStrength:
		return m.Str
	case AttributeDexterity:
		return m.Dex
	case AttributeConstitution:
		return m.Con
	case AttributeWisdom:
		return m.Wis
	case AttributeLuck:
		return m.Luk
	}
	return 0
}

// Bump adds delta to an attribute's multiplier
func (m *Modifiers) Bump(a Attribute, delta float64) {
	switch a {
	case AttributeStrength:
		m.Str += delta
	case AttributeDexterity:
		m.Dex += delta
	case AttributeConstitution:
		m.Con += delta
	case AttributeWisdom:
		m.Wis += delta
	case AttributeLuck:
		m.Luk += delta
	}
}
