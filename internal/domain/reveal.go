package domain

// RevealLevel orders how much of the daily entry is disclosed.
type RevealLevel int

const (
	CodeOnly RevealLevel = iota
	WithClass
	WithDivision
	WithMaskedSection
)

func (l RevealLevel) String() string {
	switch l {
	case CodeOnly:
		return "code_only"
	case WithClass:
		return "with_class"
	case WithDivision:
		return "with_division"
	case WithMaskedSection:
		return "with_masked_section"
	default:
		return "unknown"
	}
}
