package include

// Системные заголовки среды Metal: резолвятся молча, тел у них нет.
var builtinHeaders = map[string]bool{
	"metal_stdlib":    true,
	"metal_math":      true,
	"metal_types":     true,
	"metal_common":    true,
	"metal_geometric": true,
	"metal_compute":   true,
	"metal_simdgroup": true,
	"metal_atomic":    true,
}

// IsBuiltinHeader reports whether an angle-include target is a known
// system header of the shading environment.
func IsBuiltinHeader(name string) bool {
	return builtinHeaders[name]
}
