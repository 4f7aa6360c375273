package equipment

// Slot is both an item category and the equipment slot that category occupies
type Slot string

const (
	SlotHead     Slot = "head"
	SlotNecklace Slot = "necklace"
	SlotBody     Slot = "body"
	SlotPants    Slot = "pants"
	SlotGloves   Slot = "gloves"
	SlotBoots    Slot = "boots"
	SlotWeapon   Slot = "weapon"
	SlotRing     Slot = "ring"
)

// Slots lists every slot in display order
var Slots = []Slot{SlotHead, SlotNecklace, SlotBody, SlotPants, SlotGloves, SlotBoots, SlotWeapon, SlotRing}

// Valid reports whether s is one of the eight slots
func (s Slot) Valid() bool {
	for _, slot := range Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Set tags an item as a piece of a legendary set
type Set string

const (
	SetNone      Set = ""
	SetBehemoth  Set = "behemoth"
	SetLeviathan Set = "leviathan"
	SetTiamat    Set = "tiamat"
)

// Legendary reports whether the set confers blessings
func (s Set) Legendary() bool {
	switch s {
	case SetBehemoth, SetLeviathan, SetTiamat:
		return true
	}
	return false
}

// Valid accepts the empty set and the three legendary sets
func (s Set) Valid() bool {
	return s == SetNone || s.Legendary()
}
