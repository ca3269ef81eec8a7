package typegen

import "github.com/tsgonest/swagts/internal/schema"

// Kind is the shape a schema node is rendered as.
type Kind int

const (
	KindPrimitive Kind = iota
	KindObject
	KindEnum
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Classify infers the kind of a node from the keys it carries. References
// and composition count as objects and win over enum, which wins over
// array. Everything else, including nil, is a primitive.
func Classify(n *schema.Node) Kind {
	switch {
	case n == nil:
		return KindPrimitive
	case n.Ref != "" || n.Properties != nil || n.AllOf != nil || n.OneOf != nil || n.AnyOf != nil:
		return KindObject
	case n.Enum != nil:
		return KindEnum
	case n.Type == "array":
		return KindArray
	default:
		return KindPrimitive
	}
}
