package table

// Reserved enumerates the label kinds that carry pipeline meaning instead of
// naming an observed disease class.
type Reserved byte

const (
	// Outbreak is any label that names an observed outbreak class.
	Outbreak Reserved = iota
	// Endemic is the background, no-outbreak class.
	Endemic
	// NonCase is derived by the pipeline: a cell without any case.
	NonCase
)

const (
	LabelEndemic = "endemic"
	LabelNonCase = "non-case"
)

var reservedLabels = map[string]Reserved{
	LabelEndemic: Endemic,
	LabelNonCase: NonCase,
}

// Classify maps a label to its kind.
func Classify(label string) Reserved {
	if r, ok := reservedLabels[label]; ok {
		return r
	}

	return Outbreak
}

// IsOutbreak reports whether the label is not reserved.
func IsOutbreak(label string) bool {
	return Classify(label) == Outbreak
}

func (r Reserved) String() string {
	switch r {
	case Endemic:
		return LabelEndemic
	case NonCase:
		return LabelNonCase
	}

	return "outbreak"
}
