package catalog

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	// Var_18_1.jpg -> Base_18, Var_7_2.png -> Base_07
	varShortPattern = regexp.MustCompile(`(?i)^Var_(\d{1,2})_(\d+)\.(png|jpg)$`)
	// Var_Base_18_1.png -> Base_18
	varLongPattern = regexp.MustCompile(`(?i)^Var_(Base_\d{2})_(\d+)\.(png|jpg)$`)

	varIndexPattern = regexp.MustCompile(`(?i)_(\d+)\.(png|jpg)$`)
	baseNumPattern  = regexp.MustCompile(`Base_(\d{2})`)
	varIDPattern    = regexp.MustCompile(`(?i)^Var_(\d{1,2})_`)
)

// InferBaseID maps a variation image filename to the id of its base
// product. ok is false for any filename that does not follow the naming
// convention; such files are simply not variations.
func InferBaseID(filename string) (baseID string, ok bool) {
	if m := varShortPattern.FindStringSubmatch(filename); m != nil {
		return "Base_" + pad2(m[1]), true
	}
	if m := varLongPattern.FindStringSubmatch(filename); m != nil {
		return m[1], true
	}
	return "", false
}

// VariationLabel builds the display label for an inferred variation,
// e.g. "Base 18 · Var 1".
func VariationLabel(filename, baseID string) string {
	baseNum := ""
	if m := baseNumPattern.FindStringSubmatch(baseID); m != nil {
		baseNum = m[1]
	}

	if m := varIndexPattern.FindStringSubmatch(filename); m != nil {
		if idx, err := strconv.Atoi(m[1]); err == nil {
			return fmt.Sprintf("Base %s · Var %d", baseNum, idx)
		}
	}
	return fmt.Sprintf("Base %s · Var", baseNum)
}

// baseIDFromVariationID derives Base_NN from an explicit variation id such
// as Var_18_1.
func baseIDFromVariationID(id string) string {
	if m := varIDPattern.FindStringSubmatch(id); m != nil {
		return "Base_" + pad2(m[1])
	}
	return ""
}

func pad2(digits string) string {
	if len(digits) >= 2 {
		return digits
	}
	return "0" + digits
}

// FormatSKU renders a sequential catalog id as a three digit SKU.
func FormatSKU(id int) string {
	return fmt.Sprintf("%03d", id)
}
