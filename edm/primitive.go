package edm

import "strings"

// Primitive identifies an Edm primitive type.
type Primitive int

const (
	PrimitiveNone Primitive = iota
	PrimitiveBinary
	PrimitiveBoolean
	PrimitiveByte
	PrimitiveDate
	PrimitiveDateTimeOffset
	PrimitiveDecimal
	PrimitiveDouble
	PrimitiveDuration
	PrimitiveGuid
	PrimitiveInt16
	PrimitiveInt32
	PrimitiveInt64
	PrimitiveSByte
	PrimitiveSingle
	PrimitiveStream
	PrimitiveString
	PrimitiveTimeOfDay
	PrimitiveGeography
	PrimitiveGeometry
	PrimitiveUntyped
)

var primitiveNames = map[string]Primitive{
	"Edm.Binary":         PrimitiveBinary,
	"Edm.Boolean":        PrimitiveBoolean,
	"Edm.Byte":           PrimitiveByte,
	"Edm.Date":           PrimitiveDate,
	"Edm.DateTimeOffset": PrimitiveDateTimeOffset,
	"Edm.Decimal":        PrimitiveDecimal,
	"Edm.Double":         PrimitiveDouble,
	"Edm.Duration":       PrimitiveDuration,
	"Edm.Guid":           PrimitiveGuid,
	"Edm.Int16":          PrimitiveInt16,
	"Edm.Int32":          PrimitiveInt32,
	"Edm.Int64":          PrimitiveInt64,
	"Edm.SByte":          PrimitiveSByte,
	"Edm.Single":         PrimitiveSingle,
	"Edm.Stream":         PrimitiveStream,
	"Edm.String":         PrimitiveString,
	"Edm.TimeOfDay":      PrimitiveTimeOfDay,
	"Edm.Untyped":        PrimitiveUntyped,
	"Edm.PrimitiveType":  PrimitiveUntyped,
}

// PrimitiveKind classifies a type name. Names outside the Edm namespace
// return PrimitiveNone. All Edm.Geography* and Edm.Geometry* names map to
// PrimitiveGeography and PrimitiveGeometry.
func PrimitiveKind(name string) Primitive {
	if p, ok := primitiveNames[name]; ok {
		return p
	}
	switch {
	case strings.HasPrefix(name, "Edm.Geography"):
		return PrimitiveGeography
	case strings.HasPrefix(name, "Edm.Geometry"):
		return PrimitiveGeometry
	}
	return PrimitiveNone
}

// IsPrimitive reports whether name is an Edm primitive type.
func IsPrimitive(name string) bool {
	return PrimitiveKind(name) != PrimitiveNone
}
