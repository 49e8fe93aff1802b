package valueobject

import "fmt"

// Gender is the applicant gender code used as a categorical model feature.
type Gender struct {
	value string
}

var (
	GenderMale   = Gender{value: "M"}
	GenderFemale = Gender{value: "F"}
)

// NewGender accepts "M" or "F".
func NewGender(s string) (Gender, error) {
	switch s {
	case "M":
		return GenderMale, nil
	case "F":
		return GenderFemale, nil
	default:
		return Gender{}, fmt.Errorf("invalid gender: %q", s)
	}
}

func (g Gender) String() string { return g.value }
func (g Gender) IsZero() bool   { return g.value == "" }
