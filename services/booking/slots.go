package booking

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// SlotSpec describes one named field of booking information: whether it
// is required, the prompt used to ask for it, its priority rank when
// deciding which missing slot to request next, and a pure validator from
// raw extracted value to normalized value.
type SlotSpec struct {
	Name     string
	Required bool
	Priority int
	Prompt   string
	Validate func(raw string) (string, *ValidationError)
}

// slotSpecs is process-wide static configuration, read-only after init.
// Required slots are ordered check_in, check_out, adults.
var slotSpecs = []SlotSpec{
	{
		Name:     "check_in",
		Required: true,
		Priority: 1,
		Prompt:   "What is your check-in date? Please use YYYY-MM-DD.",
		Validate: validateDate("check_in"),
	},
	{
		Name:     "check_out",
		Required: true,
		Priority: 2,
		Prompt:   "What is your check-out date? Please use YYYY-MM-DD.",
		Validate: validateDate("check_out"),
	},
	{
		Name:     "adults",
		Required: true,
		Priority: 3,
		Prompt:   "How many adults will be staying?",
		Validate: validateAdults,
	},
	{
		Name:     "children",
		Required: false,
		Priority: 4,
		Prompt:   "How many children will be staying?",
		Validate: validateChildren,
	},
	{
		Name:     "children_ages",
		Required: false,
		Priority: 5,
		Prompt:   "Please list the children's ages, separated by commas.",
		Validate: validateChildrenAges,
	},
}

// SlotSpecs returns the static slot table.
func SlotSpecs() []SlotSpec {
	return slotSpecs
}

func validateDate(slot string) func(string) (string, *ValidationError) {
	return func(raw string) (string, *ValidationError) {
		t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
		if err != nil {
			return "", &ValidationError{Slot: slot, Message: "I couldn't read that date. Please use YYYY-MM-DD."}
		}
		return t.Format(dateLayout), nil
	}
}

func validateAdults(raw string) (string, *ValidationError) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return "", &ValidationError{Slot: "adults", Message: "Please give the number of adults (at least one)."}
	}
	return strconv.Itoa(n), nil
}

func validateChildren(raw string) (string, *ValidationError) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return "", &ValidationError{Slot: "children", Message: "Please give the number of children as a plain number."}
	}
	return strconv.Itoa(n), nil
}

func validateChildrenAges(raw string) (string, *ValidationError) {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	ages := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		age, err := strconv.Atoi(p)
		if err != nil || age < 0 || age > 17 {
			return "", &ValidationError{Slot: "children_ages", Message: "Children's ages must be numbers between 0 and 17."}
		}
		ages = append(ages, strconv.Itoa(age))
	}
	if len(ages) == 0 {
		return "", &ValidationError{Slot: "children_ages", Message: "Please list the children's ages, separated by commas."}
	}
	return strings.Join(ages, ","), nil
}

// parseAges turns a normalized children_ages value back into ints.
func parseAges(value string) []int {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	ages := make([]int, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			ages = append(ages, n)
		}
	}
	return ages
}
