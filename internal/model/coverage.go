package model

// Outcome is the result of resolving one candidate site.
type Outcome int

const (
	// Matched means a declaration was found and used.
	Matched Outcome = iota
	// NoDeclaration means the corpus has nothing for the site.
	NoDeclaration
	// Skipped means a declaration was found but the site was ambiguous.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case NoDeclaration:
		return "no-declaration"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// SiteKind is the kind of candidate site counted in Coverage.
type SiteKind string

const (
	// SiteClass counts class-extension assignments.
	SiteClass SiteKind = "classes"
	// SiteFunction counts functions and methods.
	SiteFunction SiteKind = "functions"
	// SiteField counts fields of class bodies.
	SiteField SiteKind = "fields"
)

// SiteKinds lists the kinds in summary order.
var SiteKinds = []SiteKind{SiteClass, SiteFunction, SiteField}

// Counter tallies typed and untyped sites. Skipped sites are typed sites for
// which no edit was generated.
type Counter struct {
	Typed   int
	Untyped int
	Skipped int
}

// Total is the number of sites seen.
func (c Counter) Total() int {
	return c.Typed + c.Untyped
}

// Percent is the typed share in percent, or 0 when nothing was seen.
func (c Counter) Percent() float64 {
	if c.Total() == 0 {
		return 0
	}

	return 100 * float64(c.Typed) / float64(c.Total())
}

// Coverage is the diagnostic statistics of one annotation run.
type Coverage struct {
	Classes   Counter
	Functions Counter
	Fields    Counter
}

// Counter returns the counter for kind.
func (c *Coverage) Counter(kind SiteKind) *Counter {
	switch kind {
	case SiteClass:
		return &c.Classes
	case SiteFunction:
		return &c.Functions
	default:
		return &c.Fields
	}
}

// Record tallies one site. Matched and Skipped both count as typed.
func (c *Coverage) Record(kind SiteKind, outcome Outcome) {
	counter := c.Counter(kind)

	switch outcome {
	case Matched:
		counter.Typed++
	case Skipped:
		counter.Typed++
		counter.Skipped++
	case NoDeclaration:
		counter.Untyped++
	}
}

// Average is the mean of the three typed percentages.
func (c Coverage) Average() float64 {
	return (c.Classes.Percent() + c.Functions.Percent() + c.Fields.Percent()) / 3
}
