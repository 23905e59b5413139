package sdc

// Sharpness bounds. Values at or above SharpnessInfinite never decay.
const (
	SharpnessSmooth   float32 = 0
	SharpnessInfinite float32 = 10
)

// Rule classifies how a vertex is subdivided with respect to its sharp edges.
type Rule uint8

const (
	RuleUnknown Rule = 0
	RuleSmooth  Rule = 1 << 0
	RuleDart    Rule = 1 << 1
	RuleCrease  Rule = 1 << 2
	RuleCorner  Rule = 1 << 3
)

// String returns the rule name.
func (r Rule) String() string {
	switch r {
	case RuleSmooth:
		return "smooth"
	case RuleDart:
		return "dart"
	case RuleCrease:
		return "crease"
	case RuleCorner:
		return "corner"
	default:
		return "unknown"
	}
}

// IsSmooth reports whether s has no sharpness.
func IsSmooth(s float32) bool { return s <= SharpnessSmooth }

// IsSharp reports whether s has any sharpness.
func IsSharp(s float32) bool { return s > SharpnessSmooth }

// IsInfinite reports whether s never decays.
func IsInfinite(s float32) bool { return s >= SharpnessInfinite }

// IsSemiSharp reports whether s is sharp but decays under refinement.
func IsSemiSharp(s float32) bool { return s > SharpnessSmooth && s < SharpnessInfinite }

// Crease applies the creasing rules selected by Options.
type Crease struct {
	options Options
}

// NewCrease binds creasing rules to scheme options.
func NewCrease(opts Options) Crease {
	return Crease{options: opts}
}

// IsUniform reports whether sharpness decays by a fixed decrement.
func (c Crease) IsUniform() bool {
	return c.options.CreasingMethod == CreaseUniform
}

func decrementSharpness(s float32) float32 {
	if IsInfinite(s) {
		return SharpnessInfinite
	}
	if s > 1 {
		return s - 1
	}
	return SharpnessSmooth
}

// SubdivideUniformSharpness returns the sharpness of a child edge or vertex
// after one level of uniform decay.
func (c Crease) SubdivideUniformSharpness(s float32) float32 {
	return decrementSharpness(s)
}

// SubdivideVertexSharpness returns the sharpness of a child vertex.
func (c Crease) SubdivideVertexSharpness(s float32) float32 {
	return decrementSharpness(s)
}

// SubdivideEdgeSharpnessAtVertex returns the sharpness of the child of an
// edge adjacent to an end vertex, given the sharpness of all edges incident
// that vertex. Chaikin creasing blends with the other semi-sharp edges.
func (c Crease) SubdivideEdgeSharpnessAtVertex(edgeSharpness float32, incidentEdgeSharpness []float32) float32 {
	if c.IsUniform() || len(incidentEdgeSharpness) < 2 {
		return decrementSharpness(edgeSharpness)
	}
	if IsSmooth(edgeSharpness) {
		return SharpnessSmooth
	}
	if IsInfinite(edgeSharpness) {
		return SharpnessInfinite
	}

	var sharpSum float32
	sharpCount := 0
	for _, s := range incidentEdgeSharpness {
		if IsSemiSharp(s) {
			sharpCount++
			sharpSum += s
		}
	}
	if sharpCount > 1 {
		avg := (sharpSum - edgeSharpness) / float32(sharpCount-1)
		// Sharper neighbors never raise the edge above its own sharpness.
		if blended := 0.75*edgeSharpness + 0.25*avg; blended < edgeSharpness {
			edgeSharpness = blended
		}
	}
	edgeSharpness--
	if IsSharp(edgeSharpness) {
		return edgeSharpness
	}
	return SharpnessSmooth
}

// DetermineVertexVertexRule classifies a vertex from its own sharpness and
// the number of sharp edges incident to it.
func (c Crease) DetermineVertexVertexRule(vertexSharpness float32, sharpEdgeCount int) Rule {
	if IsSharp(vertexSharpness) {
		return RuleCorner
	}
	switch sharpEdgeCount {
	case 0:
		return RuleSmooth
	case 1:
		return RuleDart
	case 2:
		return RuleCrease
	default:
		return RuleCorner
	}
}
